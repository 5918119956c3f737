package rough

// FillStyle selects how closed shapes are filled.
type FillStyle string

const (
	FillHachure FillStyle = "hachure"
	FillSolid   FillStyle = "solid"
)

// Options controls shape generation. Start from [DefaultOptions] and
// override fields; the zero value has roughness 0 and no curve steps.
type Options struct {
	Roughness           float64
	Bowing              float64
	MaxRandomnessOffset float64
	CurveFitting        float64
	CurveStepCount      float64
	CurveTightness      float64
	StrokeWidth         float64

	// Fill enables fill generation for closed shapes.
	Fill         bool
	FillStyle    FillStyle
	HachureAngle float64 // degrees
	HachureGap   float64 // <= 0 means 4 * StrokeWidth
	FillWeight   float64 // <= 0 means StrokeWidth / 2
}

// DefaultOptions returns the standard sketch parameters.
func DefaultOptions() Options {
	return Options{
		Roughness:           1,
		Bowing:              1,
		MaxRandomnessOffset: 2,
		CurveFitting:        0.95,
		CurveStepCount:      9,
		StrokeWidth:         1,
		FillStyle:           FillHachure,
		HachureAngle:        -41,
		HachureGap:          -1,
		FillWeight:          -1,
	}
}

// resolve fills in derived values. It never changes Roughness or Bowing.
func (o Options) resolve() Options {
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = 1
	}
	if o.FillWeight <= 0 {
		o.FillWeight = o.StrokeWidth / 2
	}
	if o.HachureGap <= 0 {
		o.HachureGap = o.StrokeWidth * 4
	}
	if o.CurveStepCount <= 0 {
		o.CurveStepCount = 9
	}
	if o.FillStyle == "" {
		o.FillStyle = FillHachure
	}
	return o
}
