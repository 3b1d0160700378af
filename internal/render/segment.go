package render

import (
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

type segmentKind int

const (
	segClip segmentKind = iota
	segBlank
	segGenerator
)

// segment is one flattened slice of a track's output. Durations are in
// seconds; they leave the rational domain only here, at the edge where
// ffmpeg expressions are generated.
type segment struct {
	kind        segmentKind
	name        string
	duration    float64 // output (timeline) duration, post speed
	sourceStart float64
	sourceDur   float64 // pre-speed source duration
	inputIndex  int
	speed       float64
	freeze      bool
	effects     []*timeline.GenericEffect
	generator   *timeline.GeneratorReference

	// transition blending this segment into the previous one, nil for a
	// hard cut
	transitionIn *timeline.Transition
}

// linearizeTrack flattens a track's children into segments. Clips whose
// asset is unresolved degrade to blanks; zero-duration items are dropped.
// Transitions attach to the following segment.
func (b *builder) linearizeTrack(tr *timeline.Track) []segment {
	var segs []segment
	var pending *timeline.Transition

	for _, child := range tr.Children {
		switch v := child.(type) {
		case *timeline.Transition:
			pending = v
			continue
		case *timeline.Clip:
			seg, ok := b.clipSegment(v)
			if !ok {
				continue
			}
			seg.transitionIn = pending
			segs = append(segs, seg)
		case *timeline.Gap:
			d := v.Duration().Seconds()
			if d <= 0 {
				continue
			}
			segs = append(segs, segment{kind: segBlank, name: "gap", duration: d, transitionIn: pending})
		case *timeline.Stack:
			// nested stacks render as opaque blanks; their own content is
			// compiled when the nest is flattened
			d := v.Duration().Seconds()
			if d <= 0 {
				continue
			}
			segs = append(segs, segment{kind: segBlank, name: v.Name, duration: d, transitionIn: pending})
		}
		pending = nil
	}
	// a trailing transition with nothing after it is structurally invalid
	// upstream; if one sneaks through it is ignored
	return segs
}

func (b *builder) clipSegment(c *timeline.Clip) (segment, bool) {
	seg := segment{
		kind:        segClip,
		name:        c.Name,
		sourceStart: c.SourceRange.StartTime.Seconds(),
		sourceDur:   c.SourceRange.Duration.Seconds(),
		speed:       1,
	}
	if seg.sourceDur <= 0 {
		return segment{}, false
	}

	for _, e := range c.Effects {
		switch v := e.(type) {
		case *timeline.LinearTimeWarp:
			if v.TimeScalar > 0 {
				seg.speed *= v.TimeScalar
			}
		case *timeline.FreezeFrame:
			seg.freeze = true
		case *timeline.GenericEffect:
			seg.effects = append(seg.effects, v)
		}
	}
	seg.duration = seg.sourceDur / seg.speed

	switch ref := c.Media.(type) {
	case *timeline.ExternalReference:
		idx, ok := b.inputIndex[ref.AssetID]
		if !ok {
			// unresolved asset: degrade to a blank of the same length
			seg.kind = segBlank
			return seg, true
		}
		seg.inputIndex = idx
		return seg, true
	case *timeline.GeneratorReference:
		seg.kind = segGenerator
		seg.generator = ref
		return seg, true
	default: // MissingReference or nil
		seg.kind = segBlank
		return seg, true
	}
}

// trackDuration sums a segment list's output durations, subtracting the
// overlap consumed by each transition.
func trackDuration(segs []segment) float64 {
	total := 0.0
	for i, s := range segs {
		total += s.duration
		if i > 0 && s.transitionIn != nil {
			total -= clampTransition(s.transitionIn, segs[i-1].duration, s.duration)
		}
	}
	return total
}

// clampTransition bounds the blend to the shorter neighbouring segment.
func clampTransition(t *timeline.Transition, prevDur, nextDur float64) float64 {
	d := t.FullDuration().Seconds()
	if d > prevDur {
		d = prevDur
	}
	if d > nextDur {
		d = nextDur
	}
	if d < 0 {
		d = 0
	}
	return d
}
