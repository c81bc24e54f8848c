// Package report renders correction error reports as text.
package report

import (
	"fmt"
	"io"

	"github.com/flosch/pongo2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/mmuldo/colorcal/ccm"
	"github.com/mmuldo/colorcal/colorimetry"
)

const text = `{{ title }}
{% for m in metrics %}{{ m.Name }}: mean {{ m.Mean|floatformat:4 }} median {{ m.Median|floatformat:4 }} max {{ m.Max|floatformat:4 }} (sample {{ m.ArgMax }})
{% endfor %}{% if samples %}
sample predicted target {% for m in metrics %} {{ m.Name }}{% endfor %}
{% for s in samples %}{{ s.Index }} {{ s.Predicted }} {{ s.Target }}{% for v in s.Errors %} {{ v|floatformat:4 }}{% endfor %}
{% endfor %}{% endif %}`

var tpl = pongo2.Must(pongo2.FromString(text))

type metricRow struct {
	Name              string
	Mean, Median, Max float64
	ArgMax            int
}

type sampleRow struct {
	Index             int
	Predicted, Target string
	Errors            []float64
}

// Options controls what Render prints.
type Options struct {
	Title string
	// Samples adds one line per sample with hex swatches and errors.
	Samples bool
	Space   colorimetry.ColorSpace
}

//**exported functions**//

// Swatch is the hex sRGB color of c, a value in space, clamped to the gamut.
func Swatch(c [3]float64, space colorimetry.ColorSpace) string {
	if space != colorimetry.SpaceSRGB {
		c = colorimetry.XYZToLinSRGBRow(c)
	}
	return colorful.LinearRgb(c[0], c[1], c[2]).Clamped().Hex()
}

// Render writes r to w. predicted and target are only read when
// opts.Samples is set.
func Render(w io.Writer, r *ccm.Report, predicted, target [][3]float64, opts Options) error {
	if opts.Title == "" {
		opts.Title = "color correction report"
	}
	metrics := make([]metricRow, 0, len(r.Metrics))
	for _, m := range r.Metrics {
		s := r.Stats[m]
		metrics = append(metrics, metricRow{
			Name:   string(m),
			Mean:   s.Mean,
			Median: s.Median,
			Max:    s.Max,
			ArgMax: s.ArgMax,
		})
	}

	var samples []sampleRow
	if opts.Samples {
		if len(predicted) != len(target) {
			return fmt.Errorf("%d predicted and %d target samples: %w", len(predicted), len(target), colorimetry.ErrShapeMismatch)
		}
		samples = make([]sampleRow, len(predicted))
		for i := range predicted {
			row := sampleRow{
				Index:     i,
				Predicted: Swatch(predicted[i], opts.Space),
				Target:    Swatch(target[i], opts.Space),
			}
			for _, m := range r.Metrics {
				if errs := r.Stats[m].Errors; i < len(errs) {
					row.Errors = append(row.Errors, errs[i])
				}
			}
			samples[i] = row
		}
	}

	o, e := tpl.Execute(pongo2.Context{
		"title":   opts.Title,
		"metrics": metrics,
		"samples": samples,
	})
	if e != nil {
		return e
	}
	_, e = io.WriteString(w, o)
	return e
}
