package editor

import (
	"context"
	"fmt"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/checkpoint"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// AddMarker attaches a marker to the clip or gap at itemIndex.
func (e *Editor) AddMarker(ctx context.Context, req Request, trackIndex, itemIndex int, marker timeline.Marker) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": trackIndex, "item_index": itemIndex, "name": marker.Name}
	return e.apply(ctx, req, "add_marker", fmt.Sprintf("add marker %q to item %d on track %d", marker.Name, itemIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		item, err := itemAt(tr, itemIndex)
		if err != nil {
			return err
		}
		switch v := item.(type) {
		case *timeline.Clip:
			v.Markers = append(v.Markers, marker)
		case *timeline.Gap:
			v.Markers = append(v.Markers, marker)
		case *timeline.Stack:
			v.Markers = append(v.Markers, marker)
		default:
			return invalidf("item %d on track %q is %T and cannot carry markers", itemIndex, tr.Name, item)
		}
		return nil
	})
}

func (e *Editor) RemoveMarker(ctx context.Context, req Request, trackIndex, itemIndex, markerIndex int) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": trackIndex, "item_index": itemIndex, "marker_index": markerIndex}
	return e.apply(ctx, req, "remove_marker", fmt.Sprintf("remove marker %d from item %d on track %d", markerIndex, itemIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		item, err := itemAt(tr, itemIndex)
		if err != nil {
			return err
		}
		drop := func(markers []timeline.Marker) ([]timeline.Marker, error) {
			if markerIndex < 0 || markerIndex >= len(markers) {
				return nil, invalidf("marker index %d out of range (have %d)", markerIndex, len(markers))
			}
			return append(markers[:markerIndex], markers[markerIndex+1:]...), nil
		}
		var err2 error
		switch v := item.(type) {
		case *timeline.Clip:
			v.Markers, err2 = drop(v.Markers)
		case *timeline.Gap:
			v.Markers, err2 = drop(v.Markers)
		case *timeline.Stack:
			v.Markers, err2 = drop(v.Markers)
		default:
			return invalidf("item %d on track %q is %T and cannot carry markers", itemIndex, tr.Name, item)
		}
		return err2
	})
}

// AddEffect appends an effect to the clip at itemIndex.
func (e *Editor) AddEffect(ctx context.Context, req Request, trackIndex, itemIndex int, effect timeline.Effect) (checkpoint.Checkpoint, error) {
	if effect == nil {
		return checkpoint.Checkpoint{}, invalidf("effect is nil")
	}
	data := map[string]any{"track_index": trackIndex, "item_index": itemIndex, "effect": effect.EffectSchema()}
	return e.apply(ctx, req, "add_effect", fmt.Sprintf("add effect to clip %d on track %d", itemIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		clip, err := clipAt(tr, itemIndex)
		if err != nil {
			return err
		}
		clip.Effects = append(clip.Effects, effect)
		return nil
	})
}

func (e *Editor) RemoveEffect(ctx context.Context, req Request, trackIndex, itemIndex, effectIndex int) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": trackIndex, "item_index": itemIndex, "effect_index": effectIndex}
	return e.apply(ctx, req, "remove_effect", fmt.Sprintf("remove effect %d from clip %d on track %d", effectIndex, itemIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		clip, err := clipAt(tr, itemIndex)
		if err != nil {
			return err
		}
		if effectIndex < 0 || effectIndex >= len(clip.Effects) {
			return invalidf("effect index %d out of range (have %d)", effectIndex, len(clip.Effects))
		}
		clip.Effects = append(clip.Effects[:effectIndex], clip.Effects[effectIndex+1:]...)
		return nil
	})
}
