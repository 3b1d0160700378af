// Package timeline holds the recursive timeline object model: tracks of
// clips, gaps, transitions and nested stacks, plus media references,
// effects and markers. The set of item kinds is closed; every consumer
// switches exhaustively over the concrete types.
package timeline

import (
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
)

// Item is anything that can sit in a Track's (or Stack's) child list.
type Item interface {
	// Schema is the wire discriminator, e.g. "Clip.1".
	Schema() string
	// Duration is the item's footprint on its parent. Transitions overlap
	// their neighbours and report zero.
	Duration() opentime.RationalTime
	// ItemName is the display name.
	ItemName() string
}

// Clip plays a trimmed range of some media reference.
type Clip struct {
	Name        string
	SourceRange opentime.TimeRange
	Media       MediaReference
	Effects     []Effect
	Markers     []Marker
}

func (c *Clip) Schema() string                  { return "Clip.1" }
func (c *Clip) ItemName() string                { return c.Name }
func (c *Clip) Duration() opentime.RationalTime { return c.SourceRange.Duration }

// AssetID returns the referenced external asset id, or "" for generator
// and missing references.
func (c *Clip) AssetID() string {
	if ref, ok := c.Media.(*ExternalReference); ok {
		return ref.AssetID
	}
	return ""
}

// Gap is a timed blank with no media.
type Gap struct {
	Name        string
	SourceRange opentime.TimeRange
	Markers     []Marker
}

func (g *Gap) Schema() string                  { return "Gap.1" }
func (g *Gap) ItemName() string                { return g.Name }
func (g *Gap) Duration() opentime.RationalTime { return g.SourceRange.Duration }

// Transition blends the tail of the previous item into the head of the
// next one. It is not independently timed: in/out offsets eat into the
// neighbours, so its parent-footprint duration is zero.
type Transition struct {
	Name           string
	TransitionType string
	InOffset       opentime.RationalTime
	OutOffset      opentime.RationalTime
}

const TransitionTypeDissolve = "SMPTE_Dissolve"

func (t *Transition) Schema() string   { return "Transition.1" }
func (t *Transition) ItemName() string { return t.Name }

func (t *Transition) Duration() opentime.RationalTime {
	return opentime.NewRationalTime(0, t.InOffset.Rate)
}

// FullDuration is the blended overlap length, in + out.
func (t *Transition) FullDuration() opentime.RationalTime {
	return t.InOffset.Add(t.OutOffset)
}
