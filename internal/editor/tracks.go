package editor

import (
	"context"
	"fmt"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/checkpoint"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

func (e *Editor) AddTrack(ctx context.Context, req Request, name string, kind timeline.TrackKind) (checkpoint.Checkpoint, error) {
	if kind != timeline.TrackKindVideo && kind != timeline.TrackKindAudio {
		return checkpoint.Checkpoint{}, invalidf("track kind %q, want Video or Audio", kind)
	}
	data := map[string]any{"name": name, "kind": string(kind)}
	return e.apply(ctx, req, "add_track", fmt.Sprintf("add %s track %q", kind, name), data, func(tl *timeline.Timeline) error {
		tl.Tracks.Children = append(tl.Tracks.Children, &timeline.Track{Name: name, Kind: kind})
		return nil
	})
}

func (e *Editor) RemoveTrack(ctx context.Context, req Request, index int) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": index}
	return e.apply(ctx, req, "remove_track", fmt.Sprintf("remove track %d", index), data, func(tl *timeline.Timeline) error {
		if _, err := trackAt(tl, index); err != nil {
			return err
		}
		tl.Tracks.Children = removeItem(tl.Tracks.Children, index)
		return nil
	})
}

func (e *Editor) RenameTrack(ctx context.Context, req Request, index int, name string) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": index, "name": name}
	return e.apply(ctx, req, "rename_track", fmt.Sprintf("rename track %d to %q", index, name), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, index)
		if err != nil {
			return err
		}
		tr.Name = name
		return nil
	})
}

func (e *Editor) ReorderTrack(ctx context.Context, req Request, from, to int) (checkpoint.Checkpoint, error) {
	data := map[string]any{"from": from, "to": to}
	return e.apply(ctx, req, "reorder_track", fmt.Sprintf("move track %d to %d", from, to), data, func(tl *timeline.Timeline) error {
		if _, err := trackAt(tl, from); err != nil {
			return err
		}
		if to < 0 || to >= len(tl.Tracks.Children) {
			return invalidf("destination index %d out of range", to)
		}
		moved := tl.Tracks.Children[from]
		tl.Tracks.Children = removeItem(tl.Tracks.Children, from)
		tl.Tracks.Children = insertItem(tl.Tracks.Children, to, moved)
		return nil
	})
}

// ClearTrack drops every child but keeps the track itself.
func (e *Editor) ClearTrack(ctx context.Context, req Request, index int) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": index}
	return e.apply(ctx, req, "clear_track", fmt.Sprintf("clear track %d", index), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, index)
		if err != nil {
			return err
		}
		tr.Children = nil
		return nil
	})
}
