package timeline

import (
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
)

// MediaReference says where a clip's frames come from. The variant set is
// closed: external asset, procedural generator, or missing.
type MediaReference interface {
	RefSchema() string
}

// ExternalReference points at a collaborator-owned asset by id. The engine
// never touches file paths; resolution happens at render time through the
// asset map.
type ExternalReference struct {
	AssetID        string
	AvailableRange *opentime.TimeRange
}

func (r *ExternalReference) RefSchema() string { return "ExternalReference.1" }

// Generator kinds understood by the render compiler.
const (
	GeneratorSolidColor = "solid_color"
	GeneratorBars       = "bars"
	GeneratorCaption    = "caption"
)

// GeneratorReference produces procedural content (solid color, bars,
// caption text) instead of reading a file.
type GeneratorReference struct {
	Kind       string
	Parameters map[string]any
}

func (r *GeneratorReference) RefSchema() string { return "GeneratorReference.1" }

// StringParam reads a string parameter with a fallback.
func (r *GeneratorReference) StringParam(key, fallback string) string {
	if v, ok := r.Parameters[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// MissingReference marks media that is dangling or not yet resolved.
type MissingReference struct{}

func (r *MissingReference) RefSchema() string { return "MissingReference.1" }
