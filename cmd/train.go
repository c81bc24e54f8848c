package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmuldo/colorcal/ccm"
	"github.com/mmuldo/colorcal/deltae"
	"github.com/mmuldo/colorcal/model"
	"github.com/mmuldo/colorcal/report"
)

var (
	cameraPath, targetPath string
	ccmOut                 string
	samples                bool
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fits a color correction from camera responses to target colors",
	Long: `Fits a color correction matrix mapping camera RGB onto target colors.

Camera and target files hold JSON arrays of [r, g, b] or [X, Y, Z] rows in
[0, 1], one row per patch and in the same order. The correction is written
as JSON for later use with validate. A report of every requested metric is
printed to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, e := trainOptions()
		if e != nil {
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

		res, e := ccm.Train(camera, target, opts)
		if e != nil {
			return e
		}
		if e := writeJSON(cmd.OutOrStdout(), ccmOut, res.Correction); e != nil {
			return e
		}
		return report.Render(cmd.OutOrStdout(), res.Report, res.Predicted, target, report.Options{
			Title:   "training " + string(opts.Model),
			Samples: samples,
			Space:   opts.TargetSpace,
		})
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)

	f := trainCmd.Flags()
	f.StringVar(&cameraPath, "camera", "", "camera responses (JSON)")
	f.StringVar(&targetPath, "target", "", "target colors (JSON)")
	f.StringVar(&ccmOut, "out", "ccm.json", "where to write the correction, - for stdout")
	f.BoolVar(&samples, "samples", false, "list every sample in the report")
	f.String("model", "linear3x3", "expansion model (linear3x3, root6x3, root13x3, poly4x3, poly6x3, poly7x3, poly9x3)")
	f.Bool("bias", false, "add a constant term to linear and root models")
	f.Bool("preserve-white", false, "map camera white exactly onto the reference white")
	f.String("loss", "ciede00", "metric minimized during refinement")
	f.Int("max-iterations", 2000, "refinement iteration limit")
	f.Float64("tolerance", 1e-8, "refinement convergence tolerance")
	f.Bool("fail-on-rank-deficient", false, "fail instead of regularizing when the data cannot determine the model")
	trainCmd.MarkFlagRequired("camera")
	trainCmd.MarkFlagRequired("target")

	for _, k := range []string{"model", "bias", "preserve-white", "loss", "max-iterations", "tolerance", "fail-on-rank-deficient"} {
		viper.BindPFlag(k, f.Lookup(k))
	}
}

func trainOptions() (ccm.Options, error) {
	s, e := sharedSettings()
	if e != nil {
		return ccm.Options{}, e
	}
	m, e := model.Parse(viper.GetString("model"))
	if e != nil {
		return ccm.Options{}, e
	}
	loss, e := deltae.ParseMetric(viper.GetString("loss"))
	if e != nil {
		return ccm.Options{}, e
	}
	return ccm.Options{
		Model:               m,
		Bias:                viper.GetBool("bias"),
		TargetSpace:         s.Space,
		Illuminant:          s.Illuminant,
		Observer:            s.Observer,
		PreserveWhite:       viper.GetBool("preserve-white"),
		Loss:                loss,
		Metrics:             s.Metrics,
		OmitLightness:       s.OmitLightness,
		MaxIterations:       viper.GetInt("max-iterations"),
		Tolerance:           viper.GetFloat64("tolerance"),
		FailOnRankDeficient: viper.GetBool("fail-on-rank-deficient"),
		Logger:              logger,
	}, nil
}
