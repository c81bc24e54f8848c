package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/mmuldo/colorcal/colorimetry"
	"github.com/mmuldo/colorcal/deltae"
	"github.com/mmuldo/colorcal/spectra"
)

// spectraDoc is the input of the spectra command.
type spectraDoc struct {
	Wavelengths []float64    `json:"wavelengths"`
	Spectra     [][]float64  `json:"spectra"`
	Illuminant  string       `json:"illuminant,omitempty"`
	SPD         *spectra.SPD `json:"spd,omitempty"`
	Embedded    bool         `json:"embedded,omitempty"`
}

// readJSON decodes the file at path into v. "-" reads stdin.
func readJSON(path string, v interface{}) error {
	var (
		b []byte
		e error
	)
	if path == "-" {
		b, e = io.ReadAll(os.Stdin)
	} else {
		b, e = os.ReadFile(path)
	}
	if e != nil {
		return e
	}
	if e = json.Unmarshal(b, v); e != nil {
		return fmt.Errorf("%s: %w", path, e)
	}
	return nil
}

// writeJSON encodes v to path, or to w when path is "" or "-".
func writeJSON(w io.Writer, path string, v interface{}) error {
	b, e := json.MarshalIndent(v, "", "  ")
	if e != nil {
		return e
	}
	b = append(b, '\n')
	if path == "" || path == "-" {
		_, e = w.Write(b)
		return e
	}
	return os.WriteFile(path, b, 0644)
}

func readColors(path string) ([][3]float64, error) {
	var colors [][3]float64
	if e := readJSON(path, &colors); e != nil {
		return nil, e
	}
	return colors, nil
}

// settings are the options shared by every command.
type settings struct {
	Illuminant    colorimetry.Illuminant
	Observer      colorimetry.Observer
	Space         colorimetry.ColorSpace
	Metrics       []deltae.Metric
	OmitLightness bool
}

func sharedSettings() (settings, error) {
	var (
		s settings
		e error
	)
	if s.Illuminant, e = colorimetry.ParseIlluminant(viper.GetString("illuminant")); e != nil {
		return s, e
	}
	if s.Observer, e = colorimetry.ParseObserver(viper.GetString("observer")); e != nil {
		return s, e
	}
	if s.Space, e = colorimetry.ParseColorSpace(viper.GetString("space")); e != nil {
		return s, e
	}
	if s.Metrics, e = deltae.ParseMetrics(viper.GetStringSlice("metrics")); e != nil {
		return s, e
	}
	s.OmitLightness = viper.GetBool("omit-lightness")
	return s, nil
}
