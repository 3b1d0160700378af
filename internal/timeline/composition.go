package timeline

import (
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
)

type TrackKind string

const (
	TrackKindVideo TrackKind = "Video"
	TrackKindAudio TrackKind = "Audio"
)

// Track sequences its children one after another. Children are Clip, Gap,
// Transition or a nested Stack.
type Track struct {
	Name     string
	Kind     TrackKind
	Children []Item
	Markers  []Marker
}

func (t *Track) Schema() string   { return "Track.1" }
func (t *Track) ItemName() string { return t.Name }

// Duration is the sum of the non-transition children's durations.
func (t *Track) Duration() opentime.RationalTime {
	total := opentime.NewRationalTime(0, DefaultRate)
	for _, child := range t.Children {
		if _, ok := child.(*Transition); ok {
			continue
		}
		total = total.Add(child.Duration())
	}
	return total
}

// Stack composites its children simultaneously. Children are Track or
// Stack; when nested inside a Track its footprint can be trimmed by an
// explicit SourceRange.
type Stack struct {
	Name        string
	Children    []Item
	SourceRange *opentime.TimeRange
	Markers     []Marker
}

func (s *Stack) Schema() string   { return "Stack.1" }
func (s *Stack) ItemName() string { return s.Name }

// Duration is the longest child unless an explicit trim is set.
func (s *Stack) Duration() opentime.RationalTime {
	if s.SourceRange != nil {
		return s.SourceRange.Duration
	}
	longest := opentime.NewRationalTime(0, DefaultRate)
	for _, child := range s.Children {
		if d := child.Duration(); longest.Less(d) {
			longest = d
		}
	}
	return longest
}

// DefaultRate is the fallback frame rate for timelines that do not set one.
const DefaultRate = 24.0

// Timeline is one root Stack of Tracks plus project metadata.
type Timeline struct {
	Name        string
	DefaultRate float64
	Tracks      Stack
	Metadata    map[string]any
}

func New(name string, rate float64) *Timeline {
	if rate <= 0 {
		rate = DefaultRate
	}
	return &Timeline{
		Name:        name,
		DefaultRate: rate,
		Tracks:      Stack{Name: "tracks"},
	}
}

// Duration is the root stack's duration.
func (tl *Timeline) Duration() opentime.RationalTime {
	return tl.Tracks.Duration()
}

// VideoTracks returns the direct video tracks in stacking order.
func (tl *Timeline) VideoTracks() []*Track {
	return tl.tracksOfKind(TrackKindVideo)
}

// AudioTracks returns the direct audio tracks in order.
func (tl *Timeline) AudioTracks() []*Track {
	return tl.tracksOfKind(TrackKindAudio)
}

func (tl *Timeline) tracksOfKind(kind TrackKind) []*Track {
	var out []*Track
	for _, child := range tl.Tracks.Children {
		if tr, ok := child.(*Track); ok && tr.Kind == kind {
			out = append(out, tr)
		}
	}
	return out
}

// EachClip walks every clip in the timeline, descending into nested
// stacks, in deterministic track-then-position order.
func (tl *Timeline) EachClip(fn func(track *Track, clip *Clip)) {
	for _, child := range tl.Tracks.Children {
		if tr, ok := child.(*Track); ok {
			eachClipIn(tr, tr.Children, fn)
		}
	}
}

func eachClipIn(track *Track, items []Item, fn func(*Track, *Clip)) {
	for _, it := range items {
		switch v := it.(type) {
		case *Clip:
			fn(track, v)
		case *Stack:
			for _, inner := range v.Children {
				if tr, ok := inner.(*Track); ok {
					eachClipIn(tr, tr.Children, fn)
				} else if st, ok := inner.(*Stack); ok {
					eachClipIn(track, st.Children, fn)
				}
			}
		case *Track:
			eachClipIn(v, v.Children, fn)
		}
	}
}
