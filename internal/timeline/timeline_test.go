package timeline

import (
	"testing"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
)

func frames(n float64) opentime.RationalTime { return opentime.NewRationalTime(n, 24) }

func clipOf(name, assetID string, durFrames float64) *Clip {
	return &Clip{
		Name:        name,
		SourceRange: opentime.NewTimeRange(frames(0), frames(durFrames)),
		Media:       &ExternalReference{AssetID: assetID},
	}
}

func TestTrackDuration(t *testing.T) {
	tr := &Track{Name: "V1", Kind: TrackKindVideo, Children: []Item{
		clipOf("a", "asset-a", 48),
		&Transition{TransitionType: TransitionTypeDissolve, InOffset: frames(12), OutOffset: frames(12)},
		clipOf("b", "asset-b", 48),
		&Gap{SourceRange: opentime.NewTimeRange(frames(0), frames(24))},
	}}

	// transitions do not add to the footprint
	if got := tr.Duration(); !got.Equal(frames(120)) {
		t.Errorf("track duration = %v, want 120 frames", got)
	}
}

func TestStackDuration(t *testing.T) {
	s := &Stack{Children: []Item{
		&Track{Kind: TrackKindVideo, Children: []Item{clipOf("a", "x", 48)}},
		&Track{Kind: TrackKindAudio, Children: []Item{clipOf("b", "y", 96)}},
	}}
	if got := s.Duration(); !got.Equal(frames(96)) {
		t.Errorf("stack duration = %v, want max child 96", got)
	}

	trim := opentime.NewTimeRange(frames(0), frames(30))
	s.SourceRange = &trim
	if got := s.Duration(); !got.Equal(frames(30)) {
		t.Errorf("trimmed stack duration = %v, want 30", got)
	}
}

func TestValidateTransitionPlacement(t *testing.T) {
	trans := func() *Transition {
		return &Transition{TransitionType: TransitionTypeDissolve, InOffset: frames(6), OutOffset: frames(6)}
	}
	tests := []struct {
		name    string
		items   []Item
		wantErr bool
	}{
		{"between clips", []Item{clipOf("a", "x", 24), trans(), clipOf("b", "y", 24)}, false},
		{"at position 0", []Item{trans(), clipOf("a", "x", 24)}, true},
		{"at end", []Item{clipOf("a", "x", 24), trans()}, true},
		{"adjacent transitions", []Item{clipOf("a", "x", 24), trans(), trans(), clipOf("b", "y", 24)}, true},
		{"no transitions", []Item{clipOf("a", "x", 24), clipOf("b", "y", 24)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransitionPlacement(tt.items)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRejectsNegativeDuration(t *testing.T) {
	tl := New("t", 24)
	tl.Tracks.Children = []Item{&Track{Name: "V1", Kind: TrackKindVideo, Children: []Item{
		&Gap{SourceRange: opentime.NewTimeRange(frames(0), frames(-5))},
	}}}
	if err := tl.Validate(); err == nil {
		t.Error("negative gap duration should fail validation")
	}
}

func TestValidateDepthGuard(t *testing.T) {
	inner := &Stack{Name: "deep"}
	cur := inner
	for i := 0; i < MaxNestingDepth+2; i++ {
		next := &Stack{Name: "deep"}
		cur.Children = []Item{next}
		cur = next
	}
	tl := New("t", 24)
	tl.Tracks.Children = []Item{&Track{Name: "V1", Kind: TrackKindVideo, Children: []Item{inner}}}
	if err := tl.Validate(); err == nil {
		t.Error("over-deep nesting should fail validation")
	}
}

func TestEachClipDescendsNestedStacks(t *testing.T) {
	nested := &Stack{Name: "nest", Children: []Item{
		&Track{Name: "inner", Kind: TrackKindVideo, Children: []Item{clipOf("n1", "z", 24)}},
	}}
	tl := New("t", 24)
	tl.Tracks.Children = []Item{
		&Track{Name: "V1", Kind: TrackKindVideo, Children: []Item{clipOf("a", "x", 24), nested}},
	}

	var names []string
	tl.EachClip(func(_ *Track, c *Clip) { names = append(names, c.Name) })
	if len(names) != 2 || names[0] != "a" || names[1] != "n1" {
		t.Errorf("EachClip visited %v, want [a n1]", names)
	}
}
