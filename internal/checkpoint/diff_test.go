package checkpoint

import (
	"testing"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

func frames(n float64) opentime.RationalTime { return opentime.NewRationalTime(n, 24) }

func clip(name, assetID string, durFrames float64) *timeline.Clip {
	return &timeline.Clip{
		Name:        name,
		SourceRange: opentime.NewTimeRange(frames(0), frames(durFrames)),
		Media:       &timeline.ExternalReference{AssetID: assetID},
	}
}

func snapWith(tracks ...*timeline.Track) *timeline.Timeline {
	tl := timeline.New("t", 24)
	for _, tr := range tracks {
		tl.Tracks.Children = append(tl.Tracks.Children, tr)
	}
	return tl
}

func cp(version int, tl *timeline.Timeline) Checkpoint {
	return Checkpoint{Version: version, Snapshot: tl}
}

func TestDiffSameVersionIsEmpty(t *testing.T) {
	tl := snapWith(&timeline.Track{Name: "V1", Kind: timeline.TrackKindVideo,
		Children: []timeline.Item{clip("a", "x", 24)}})
	d := DiffVersions(cp(3, tl), cp(3, tl))
	if !d.Empty() {
		t.Errorf("self-diff not empty: %+v", d)
	}
}

func TestDiffTracksAndClips(t *testing.T) {
	from := snapWith(
		&timeline.Track{Name: "V1", Kind: timeline.TrackKindVideo,
			Children: []timeline.Item{clip("a", "x", 24), clip("b", "y", 24)}},
		&timeline.Track{Name: "A1", Kind: timeline.TrackKindAudio},
	)
	to := snapWith(
		&timeline.Track{Name: "V1", Kind: timeline.TrackKindVideo,
			Children: []timeline.Item{clip("a", "x", 48)}}, // trimmed, b removed
		&timeline.Track{Name: "V2", Kind: timeline.TrackKindVideo},
	)

	d := DiffVersions(cp(0, from), cp(1, to))
	if len(d.AddedTracks) != 1 || d.AddedTracks[0] != "V2" {
		t.Errorf("added tracks = %v", d.AddedTracks)
	}
	if len(d.RemovedTracks) != 1 || d.RemovedTracks[0] != "A1" {
		t.Errorf("removed tracks = %v", d.RemovedTracks)
	}
	if len(d.ModifiedClips) != 1 || d.ModifiedClips[0].AssetID != "x" {
		t.Errorf("modified clips = %v", d.ModifiedClips)
	}
	if len(d.RemovedClips) != 1 || d.RemovedClips[0].AssetID != "y" {
		t.Errorf("removed clips = %v", d.RemovedClips)
	}
}

// The identity scheme is positional: inserting a clip at the head shifts
// every ordinal, so unchanged clips of the same asset can show up as
// modified or added/removed pairs. This pins the limitation down rather
// than asserting it away.
func TestDiffPositionalIdentityLimitation(t *testing.T) {
	from := snapWith(&timeline.Track{Name: "V1", Kind: timeline.TrackKindVideo,
		Children: []timeline.Item{clip("a", "x", 24)}})
	to := snapWith(&timeline.Track{Name: "V1", Kind: timeline.TrackKindVideo,
		Children: []timeline.Item{clip("new", "z", 24), clip("a", "x", 24)}})

	d := DiffVersions(cp(0, from), cp(1, to))
	// clip "a" moved from ordinal 0 to ordinal 1, so the diff reports one
	// removal (x@0) and two additions (z@0, x@1) instead of one addition.
	if len(d.AddedClips) != 2 || len(d.RemovedClips) != 1 {
		t.Errorf("positional diff = added %v removed %v", d.AddedClips, d.RemovedClips)
	}
}
