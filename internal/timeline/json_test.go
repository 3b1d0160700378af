package timeline

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
)

func buildFixture() *Timeline {
	tl := New("demo", 24)
	tl.Metadata = map[string]any{"project": "demo-project"}
	tl.Tracks.Children = []Item{
		&Track{Name: "V1", Kind: TrackKindVideo, Children: []Item{
			&Clip{
				Name:        "intro",
				SourceRange: opentime.NewTimeRange(frames(0), frames(48)),
				Media:       &ExternalReference{AssetID: "asset-1"},
				Effects: []Effect{
					&LinearTimeWarp{TimeScalar: 2},
					&GenericEffect{EffectName: "blur", Metadata: map[string]any{"sigma": 4.0}},
				},
				Markers: []Marker{{Name: "note", Color: "RED",
					MarkedRange: opentime.NewTimeRange(frames(0), frames(10))}},
			},
			&Transition{Name: "x", TransitionType: TransitionTypeDissolve,
				InOffset: frames(12), OutOffset: frames(12)},
			&Clip{
				Name:        "caption",
				SourceRange: opentime.NewTimeRange(frames(0), frames(24)),
				Media: &GeneratorReference{Kind: GeneratorCaption,
					Parameters: map[string]any{"text": "hello"}},
			},
			&Gap{SourceRange: opentime.NewTimeRange(frames(0), frames(24))},
		}},
		&Track{Name: "A1", Kind: TrackKindAudio, Children: []Item{
			&Clip{
				Name:        "vo",
				SourceRange: opentime.NewTimeRange(frames(0), frames(96)),
				Media:       &MissingReference{},
			},
		}},
	}
	return tl
}

func TestRoundTrip(t *testing.T) {
	tl := buildFixture()
	data, err := json.Marshal(tl)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	for _, tag := range []string{
		`"schema":"Timeline.1"`, `"schema":"Track.1"`, `"schema":"Clip.1"`,
		`"schema":"Gap.1"`, `"schema":"Transition.1"`, `"schema":"ExternalReference.1"`,
		`"schema":"GeneratorReference.1"`, `"schema":"MissingReference.1"`,
		`"schema":"LinearTimeWarp.1"`, `"schema":"Effect.1"`,
	} {
		if !strings.Contains(string(data), tag) {
			t.Errorf("encoded timeline missing %s", tag)
		}
	}

	var back Timeline
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !tl.Equal(&back) {
		t.Error("round-tripped timeline differs from original")
	}

	v1, ok := back.Tracks.Children[0].(*Track)
	if !ok || len(v1.Children) != 4 {
		t.Fatalf("V1 children = %v", back.Tracks.Children[0])
	}
	clip, ok := v1.Children[0].(*Clip)
	if !ok {
		t.Fatalf("child 0 is %T, want *Clip", v1.Children[0])
	}
	if _, ok := clip.Effects[0].(*LinearTimeWarp); !ok {
		t.Errorf("effect 0 is %T, want *LinearTimeWarp", clip.Effects[0])
	}
	if clip.AssetID() != "asset-1" {
		t.Errorf("asset id = %q", clip.AssetID())
	}
}

func TestUnmarshalUnknownSchema(t *testing.T) {
	_, err := UnmarshalItem([]byte(`{"schema":"Hologram.1"}`))
	if err == nil {
		t.Error("unknown schema should fail")
	}
	_, err = UnmarshalItem([]byte(`{"name":"untagged"}`))
	if err == nil {
		t.Error("missing schema tag should fail")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tl := buildFixture()
	cp, err := tl.Clone()
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if !tl.Equal(cp) {
		t.Fatal("clone differs from original")
	}

	v1 := cp.Tracks.Children[0].(*Track)
	v1.Children[0].(*Clip).Name = "mutated"
	if tl.Tracks.Children[0].(*Track).Children[0].(*Clip).Name == "mutated" {
		t.Error("mutating the clone changed the original")
	}
}
