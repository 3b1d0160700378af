package editor

import (
	"context"
	"fmt"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/checkpoint"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// AddTransition inserts a transition at position so it blends
// children[position-1] into children[position]. Placement needs a timed
// item on both sides: not at 0, not past the last item, and never next to
// another transition.
func (e *Editor) AddTransition(ctx context.Context, req Request, trackIndex, position int, transitionType string, inOffset, outOffset opentime.RationalTime) (checkpoint.Checkpoint, error) {
	if transitionType == "" {
		transitionType = timeline.TransitionTypeDissolve
	}
	data := map[string]any{"track_index": trackIndex, "position": position, "transition_type": transitionType}
	return e.apply(ctx, req, "add_transition", fmt.Sprintf("add %s at %d on track %d", transitionType, position, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		if inOffset.IsNegative() || outOffset.IsNegative() {
			return invalidf("transition offsets must be non-negative")
		}
		if position <= 0 {
			return invalidf("transition at position %d has no preceding item", position)
		}
		if position >= len(tr.Children) {
			return invalidf("transition at position %d has no following item", position)
		}
		if _, ok := tr.Children[position-1].(*timeline.Transition); ok {
			return invalidf("transition would be adjacent to the transition at %d", position-1)
		}
		if _, ok := tr.Children[position].(*timeline.Transition); ok {
			return invalidf("transition would be adjacent to the transition at %d", position)
		}
		tr.Children = insertItem(tr.Children, position, &timeline.Transition{
			TransitionType: transitionType,
			InOffset:       inOffset,
			OutOffset:      outOffset,
		})
		return nil
	})
}

func (e *Editor) RemoveTransition(ctx context.Context, req Request, trackIndex, itemIndex int) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": trackIndex, "item_index": itemIndex}
	return e.apply(ctx, req, "remove_transition", fmt.Sprintf("remove transition %d from track %d", itemIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		if _, err := transitionAt(tr, itemIndex); err != nil {
			return err
		}
		tr.Children = removeItem(tr.Children, itemIndex)
		return nil
	})
}

func (e *Editor) ModifyTransition(ctx context.Context, req Request, trackIndex, itemIndex int, transitionType string, inOffset, outOffset opentime.RationalTime) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": trackIndex, "item_index": itemIndex}
	return e.apply(ctx, req, "modify_transition", fmt.Sprintf("modify transition %d on track %d", itemIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		trans, err := transitionAt(tr, itemIndex)
		if err != nil {
			return err
		}
		if inOffset.IsNegative() || outOffset.IsNegative() {
			return invalidf("transition offsets must be non-negative")
		}
		if transitionType != "" {
			trans.TransitionType = transitionType
		}
		trans.InOffset = inOffset
		trans.OutOffset = outOffset
		return nil
	})
}
