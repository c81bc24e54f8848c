/*
Copyright © 2019 Matt Muldowney <matt.muldowney@gmail.com>

*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	logger  = slog.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "colorcal",
	Short: "Colorimetry and camera color correction",
	Long: `colorcal turns spectral measurements into target colors, fits color
correction matrices from camera responses and scores them with
perceptual color differences.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.colorcal.yaml)")
	f.BoolP("verbose", "v", false, "log progress and diagnostics")
	f.StringP("illuminant", "i", "D65", "reference illuminant (A, C, D50, D55, D65, D75, F2, F7, F11)")
	f.StringP("observer", "o", "1931", "standard observer (1931 or 1964)")
	f.StringP("space", "s", "XYZ", "target color space (XYZ or sRGB)")
	f.StringSliceP("metrics", "m", []string{"ciede00", "ciede94", "ciedelab", "cmcde", "mse"}, "metrics to report")
	f.Bool("omit-lightness", false, "leave the lightness term out of color differences")

	for _, k := range []string{"verbose", "illuminant", "observer", "space", "metrics", "omit-lightness"} {
		viper.BindPFlag(k, f.Lookup(k))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".colorcal" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".colorcal")
	}

	viper.SetEnvPrefix("colorcal")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	err := viper.ReadInConfig()

	logger = newLogger(os.Stderr, viper.GetBool("verbose"))
	if err == nil {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
