package editor

import (
	"context"
	"fmt"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/checkpoint"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// AddClip appends a clip to a track, or inserts it at *at when given.
func (e *Editor) AddClip(ctx context.Context, req Request, trackIndex int, at *int, name string, media timeline.MediaReference, sourceRange opentime.TimeRange) (checkpoint.Checkpoint, error) {
	if media == nil {
		media = &timeline.MissingReference{}
	}
	data := map[string]any{"track_index": trackIndex, "name": name}
	if at != nil {
		data["at"] = *at
	}
	return e.apply(ctx, req, "add_clip", fmt.Sprintf("add clip %q to track %d", name, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		if sourceRange.Duration.IsNegative() {
			return invalidf("clip duration is negative")
		}
		clip := &timeline.Clip{Name: name, Media: media, SourceRange: sourceRange}
		if at == nil {
			tr.Children = append(tr.Children, clip)
			return nil
		}
		if *at < 0 || *at > len(tr.Children) {
			return invalidf("insert index %d out of range on track %q", *at, tr.Name)
		}
		tr.Children = insertItem(tr.Children, *at, clip)
		return nil
	})
}

func (e *Editor) RemoveClip(ctx context.Context, req Request, trackIndex, itemIndex int) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": trackIndex, "item_index": itemIndex}
	return e.apply(ctx, req, "remove_clip", fmt.Sprintf("remove clip %d from track %d", itemIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		if _, err := clipAt(tr, itemIndex); err != nil {
			return err
		}
		tr.Children = removeItem(tr.Children, itemIndex)
		return nil
	})
}

// TrimClip sets a new source range. A zero-duration range is accepted:
// the clip stays in place and compiles to nothing.
func (e *Editor) TrimClip(ctx context.Context, req Request, trackIndex, itemIndex int, sourceRange opentime.TimeRange) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": trackIndex, "item_index": itemIndex}
	return e.apply(ctx, req, "trim_clip", fmt.Sprintf("trim clip %d on track %d", itemIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		clip, err := clipAt(tr, itemIndex)
		if err != nil {
			return err
		}
		if sourceRange.Duration.IsNegative() {
			return invalidf("trim duration is negative")
		}
		clip.SourceRange = sourceRange
		return nil
	})
}

// SlipClip shifts the source in-point by offset without changing the
// clip's duration or position on the track.
func (e *Editor) SlipClip(ctx context.Context, req Request, trackIndex, itemIndex int, offset opentime.RationalTime) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": trackIndex, "item_index": itemIndex, "offset": offset.Value, "offset_rate": offset.Rate}
	return e.apply(ctx, req, "slip_clip", fmt.Sprintf("slip clip %d on track %d", itemIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		clip, err := clipAt(tr, itemIndex)
		if err != nil {
			return err
		}
		newStart := clip.SourceRange.StartTime.Add(offset)
		if newStart.IsNegative() {
			return invalidf("slip would move source start before zero")
		}
		clip.SourceRange.StartTime = newStart
		return nil
	})
}

// MoveClip relocates a clip, possibly across tracks. When source and
// destination track coincide and the destination follows the source, the
// destination index is adjusted for the post-removal shift.
func (e *Editor) MoveClip(ctx context.Context, req Request, fromTrack, fromIndex, toTrack, toIndex int) (checkpoint.Checkpoint, error) {
	data := map[string]any{"from_track": fromTrack, "from_index": fromIndex, "to_track": toTrack, "to_index": toIndex}
	return e.apply(ctx, req, "move_clip", fmt.Sprintf("move clip %d/%d to %d/%d", fromTrack, fromIndex, toTrack, toIndex), data, func(tl *timeline.Timeline) error {
		src, err := trackAt(tl, fromTrack)
		if err != nil {
			return err
		}
		clip, err := clipAt(src, fromIndex)
		if err != nil {
			return err
		}
		dst, err := trackAt(tl, toTrack)
		if err != nil {
			return err
		}

		dest := toIndex
		if fromTrack == toTrack && dest > fromIndex {
			dest--
		}

		src.Children = removeItem(src.Children, fromIndex)
		if dest < 0 || dest > len(dst.Children) {
			return invalidf("destination index %d out of range on track %q", toIndex, dst.Name)
		}
		dst.Children = insertItem(dst.Children, dest, clip)
		return nil
	})
}

// ReplaceClipMedia swaps a clip's media reference, leaving its trim alone.
func (e *Editor) ReplaceClipMedia(ctx context.Context, req Request, trackIndex, itemIndex int, media timeline.MediaReference) (checkpoint.Checkpoint, error) {
	if media == nil {
		media = &timeline.MissingReference{}
	}
	data := map[string]any{"track_index": trackIndex, "item_index": itemIndex}
	return e.apply(ctx, req, "replace_clip_media", fmt.Sprintf("replace media of clip %d on track %d", itemIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		clip, err := clipAt(tr, itemIndex)
		if err != nil {
			return err
		}
		clip.Media = media
		return nil
	})
}
