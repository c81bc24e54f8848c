package main

import "github.com/mmuldo/colorcal/cmd"

func main() {
	cmd.Execute()
}
