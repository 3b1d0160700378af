package editor

import (
	"context"
	"fmt"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/checkpoint"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// NestClipsAsStack wraps the contiguous child range [startIndex, endIndex]
// into a single nested Stack holding one inner track, preserving order.
func (e *Editor) NestClipsAsStack(ctx context.Context, req Request, trackIndex, startIndex, endIndex int, name string) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": trackIndex, "start": startIndex, "end": endIndex, "name": name}
	return e.apply(ctx, req, "nest_clips_as_stack", fmt.Sprintf("nest items %d-%d of track %d", startIndex, endIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		if startIndex < 0 || endIndex >= len(tr.Children) || startIndex > endIndex {
			return invalidf("nest range [%d, %d] out of range on track %q", startIndex, endIndex, tr.Name)
		}
		for i := startIndex; i <= endIndex; i++ {
			if _, ok := tr.Children[i].(*timeline.Transition); ok {
				return invalidf("cannot nest the transition at %d", i)
			}
		}

		nested := make([]timeline.Item, endIndex-startIndex+1)
		copy(nested, tr.Children[startIndex:endIndex+1])
		stack := &timeline.Stack{
			Name: name,
			Children: []timeline.Item{
				&timeline.Track{Name: name, Kind: tr.Kind, Children: nested},
			},
		}

		rest := append([]timeline.Item{}, tr.Children[endIndex+1:]...)
		tr.Children = append(tr.Children[:startIndex], stack)
		tr.Children = append(tr.Children, rest...)
		return nil
	})
}

// FlattenNestedStack replaces a nested stack with its inner track's
// children, in place.
func (e *Editor) FlattenNestedStack(ctx context.Context, req Request, trackIndex, itemIndex int) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": trackIndex, "item_index": itemIndex}
	return e.apply(ctx, req, "flatten_nested_stack", fmt.Sprintf("flatten stack %d on track %d", itemIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		item, err := itemAt(tr, itemIndex)
		if err != nil {
			return err
		}
		stack, ok := item.(*timeline.Stack)
		if !ok {
			return invalidf("item %d on track %q is %T, not a stack", itemIndex, tr.Name, item)
		}

		var inner []timeline.Item
		for _, child := range stack.Children {
			if innerTrack, ok := child.(*timeline.Track); ok {
				inner = append(inner, innerTrack.Children...)
			}
		}

		rest := append([]timeline.Item{}, tr.Children[itemIndex+1:]...)
		tr.Children = append(tr.Children[:itemIndex], inner...)
		tr.Children = append(tr.Children, rest...)
		return nil
	})
}
