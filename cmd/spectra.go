package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mmuldo/colorcal/colorimetry"
	"github.com/mmuldo/colorcal/spectra"
)

var spectraIn, spectraOut string

// spectraCmd represents the spectra command
var spectraCmd = &cobra.Command{
	Use:   "spectra",
	Short: "Converts spectral measurements to XYZ or linear sRGB",
	Long: `Integrates reflectance (or radiance, with "embedded": true) spectra
against a standard observer and writes one color triplet per spectrum.

The input is a JSON document:

  {"wavelengths": [...], "spectra": [[...], ...], "illuminant": "D50"}

An "spd" object with its own wavelengths and values replaces the named
illuminant. --illuminant overrides the document when given explicitly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e := sharedSettings()
		if e != nil {
			return e
		}
		var doc spectraDoc
		if e := readJSON(spectraIn, &doc); e != nil {
			return e
		}
		colors, e := convertSpectra(doc, s, cmd.Flags().Changed("illuminant"))
		if e != nil {
			return e
		}
		return writeJSON(cmd.OutOrStdout(), spectraOut, colors)
	},
}

func init() {
	rootCmd.AddCommand(spectraCmd)

	spectraCmd.Flags().StringVar(&spectraIn, "in", "-", "spectra document, - for stdin")
	spectraCmd.Flags().StringVar(&spectraOut, "out", "", "output colors, stdout if empty")
}

func convertSpectra(doc spectraDoc, s settings, override bool) ([][3]float64, error) {
	ill := s.Illuminant
	if doc.Illuminant != "" && !override {
		var e error
		if ill, e = colorimetry.ParseIlluminant(doc.Illuminant); e != nil {
			return nil, e
		}
	}
	return spectra.ToColors(doc.Spectra, doc.Wavelengths, spectra.Options{
		Illuminant: ill,
		SPD:        doc.SPD,
		Embedded:   doc.Embedded,
		Observer:   s.Observer,
		Space:      s.Space,
		Logger:     logger,
	})
}
