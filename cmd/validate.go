package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mmuldo/colorcal/ccm"
	"github.com/mmuldo/colorcal/report"
)

var ccmPath string

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Scores a saved correction against camera and target data",
	Long: `Applies a correction written by train to camera responses and reports
how far the predictions are from the target colors. The target color space
stored in the correction overrides --space.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e := sharedSettings()
		if e != nil {
			return e
		}
		var c ccm.Correction
		if e := readJSON(ccmPath, &c); e != nil {
			return e
		}
		camera, e := readColors(cameraPath)
		if e != nil {
			return e
		}
		target, e := readColors(targetPath)
		if e != nil {
			return e
		}

		predicted, r, e := ccm.Validate(camera, target, c, ccm.Options{
			TargetSpace:   s.Space,
			Illuminant:    s.Illuminant,
			Observer:      s.Observer,
			Metrics:       s.Metrics,
			OmitLightness: s.OmitLightness,
			Logger:        logger,
		})
		if e != nil {
			return e
		}
		space := c.TargetSpace
		if space == "" {
			space = s.Space
		}
		return report.Render(cmd.OutOrStdout(), r, predicted, target, report.Options{
			Title:   "validating " + string(c.Model),
			Samples: samples,
			Space:   space,
		})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	f := validateCmd.Flags()
	f.StringVar(&cameraPath, "camera", "", "camera responses (JSON)")
	f.StringVar(&targetPath, "target", "", "target colors (JSON)")
	f.StringVar(&ccmPath, "ccm", "ccm.json", "correction written by train")
	f.BoolVar(&samples, "samples", false, "list every sample in the report")
	validateCmd.MarkFlagRequired("camera")
	validateCmd.MarkFlagRequired("target")
}
