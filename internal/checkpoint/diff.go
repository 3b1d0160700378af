package checkpoint

import (
	"fmt"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// ClipRef identifies a clip for diff purposes: track name, referenced
// asset id and the clip's ordinal among clips of that track. The identity
// is positional, so an insertion or reorder between the two versions can
// misattribute which clip "moved"; known limitation, pinned by tests.
type ClipRef struct {
	Track   string `json:"track"`
	AssetID string `json:"assetId"`
	Index   int    `json:"index"`
}

func (r ClipRef) key() string { return fmt.Sprintf("%s|%s|%d", r.Track, r.AssetID, r.Index) }

// Diff is the structural difference between two timeline versions.
type Diff struct {
	FromVersion   int       `json:"fromVersion"`
	ToVersion     int       `json:"toVersion"`
	AddedTracks   []string  `json:"addedTracks"`
	RemovedTracks []string  `json:"removedTracks"`
	AddedClips    []ClipRef `json:"addedClips"`
	RemovedClips  []ClipRef `json:"removedClips"`
	ModifiedClips []ClipRef `json:"modifiedClips"`
}

// Empty reports a diff with no changes at all.
func (d Diff) Empty() bool {
	return len(d.AddedTracks) == 0 && len(d.RemovedTracks) == 0 &&
		len(d.AddedClips) == 0 && len(d.RemovedClips) == 0 && len(d.ModifiedClips) == 0
}

type clipState struct {
	ref  ClipRef
	name string
	dur  float64
	rate float64
}

// DiffVersions compares two checkpoints' snapshots by track name and
// positional clip identity.
func DiffVersions(from, to Checkpoint) Diff {
	d := Diff{
		FromVersion:   from.Version,
		ToVersion:     to.Version,
		AddedTracks:   []string{},
		RemovedTracks: []string{},
		AddedClips:    []ClipRef{},
		RemovedClips:  []ClipRef{},
		ModifiedClips: []ClipRef{},
	}

	fromTracks := trackNames(from.Snapshot)
	toTracks := trackNames(to.Snapshot)
	for name := range toTracks {
		if !fromTracks[name] {
			d.AddedTracks = append(d.AddedTracks, name)
		}
	}
	for name := range fromTracks {
		if !toTracks[name] {
			d.RemovedTracks = append(d.RemovedTracks, name)
		}
	}

	fromClips := clipStates(from.Snapshot)
	toClips := clipStates(to.Snapshot)
	for key, state := range toClips {
		prev, ok := fromClips[key]
		if !ok {
			d.AddedClips = append(d.AddedClips, state.ref)
			continue
		}
		if prev.name != state.name || prev.dur != state.dur || prev.rate != state.rate {
			d.ModifiedClips = append(d.ModifiedClips, state.ref)
		}
	}
	for key, state := range fromClips {
		if _, ok := toClips[key]; !ok {
			d.RemovedClips = append(d.RemovedClips, state.ref)
		}
	}
	return d
}

func trackNames(tl *timeline.Timeline) map[string]bool {
	names := make(map[string]bool)
	if tl == nil {
		return names
	}
	for _, child := range tl.Tracks.Children {
		if tr, ok := child.(*timeline.Track); ok {
			names[tr.Name] = true
		}
	}
	return names
}

func clipStates(tl *timeline.Timeline) map[string]clipState {
	states := make(map[string]clipState)
	if tl == nil {
		return states
	}
	ordinal := make(map[string]int)
	tl.EachClip(func(track *timeline.Track, clip *timeline.Clip) {
		idx := ordinal[track.Name]
		ordinal[track.Name] = idx + 1
		state := clipState{
			ref:  ClipRef{Track: track.Name, AssetID: clip.AssetID(), Index: idx},
			name: clip.Name,
			dur:  clip.SourceRange.Duration.Value,
			rate: clip.SourceRange.Duration.Rate,
		}
		states[state.ref.key()] = state
	})
	return states
}
