package sketch

import "github.com/matzehuels/sketchviz/pkg/rough"

// Style holds the caller-facing sketch parameters. Values are expected to
// be validated already (see package config).
type Style struct {
	Roughness    float64         `json:"roughness" toml:"roughness"`
	Bowing       float64         `json:"bowing" toml:"bowing"`
	FillStyle    rough.FillStyle `json:"fill_style" toml:"fill_style"`
	HachureAngle float64         `json:"hachure_angle" toml:"hachure_angle"`
	HachureGap   float64         `json:"hachure_gap" toml:"hachure_gap"` // <= 0 derives the gap from the stroke width
}

// DefaultStyle returns roughness 1.5, bowing 1 and hachure fills at -41
// degrees.
func DefaultStyle() Style {
	return Style{
		Roughness:    1.5,
		Bowing:       1.0,
		FillStyle:    rough.FillHachure,
		HachureAngle: -41,
	}
}

func (s Style) options(strokeWidth float64, filled bool) rough.Options {
	o := rough.DefaultOptions()
	o.Roughness = s.Roughness
	o.Bowing = s.Bowing
	o.FillStyle = s.FillStyle
	o.HachureAngle = s.HachureAngle
	o.HachureGap = s.HachureGap
	o.StrokeWidth = strokeWidth
	o.Fill = filled
	return o
}
