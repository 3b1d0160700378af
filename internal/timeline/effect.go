package timeline

import "github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"

// Effect is a per-item processing step. The variant set is closed: the two
// time effects are modelled explicitly, everything else is a named generic
// effect whose metadata the render compiler interprets.
type Effect interface {
	EffectSchema() string
}

// GenericEffect is a named effect with free-form parameters
// (color_grade, lut, blur, vignette, grain, stabilize, reframe, zoom, ...).
type GenericEffect struct {
	EffectName string
	Metadata   map[string]any
}

func (e *GenericEffect) EffectSchema() string { return "Effect.1" }

// FloatParam reads a numeric parameter with a fallback. JSON decoding
// hands numbers back as float64.
func (e *GenericEffect) FloatParam(key string, fallback float64) float64 {
	switch v := e.Metadata[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return fallback
}

// StringParam reads a string parameter with a fallback.
func (e *GenericEffect) StringParam(key, fallback string) string {
	if v, ok := e.Metadata[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// LinearTimeWarp plays the clip at TimeScalar times source speed.
// 2.0 is double speed, 0.5 is half speed.
type LinearTimeWarp struct {
	TimeScalar float64
}

func (e *LinearTimeWarp) EffectSchema() string { return "LinearTimeWarp.1" }

// FreezeFrame holds the clip's first frame for its whole duration.
type FreezeFrame struct{}

func (e *FreezeFrame) EffectSchema() string { return "FreezeFrame.1" }

// Marker annotates a range of an item for humans and agents.
type Marker struct {
	Name        string             `json:"name"`
	Color       string             `json:"color"`
	MarkedRange opentime.TimeRange `json:"marked_range"`
}
