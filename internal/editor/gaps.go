package editor

import (
	"context"
	"fmt"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/checkpoint"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// AddGap inserts a timed blank at the given position (append when at is nil).
func (e *Editor) AddGap(ctx context.Context, req Request, trackIndex int, at *int, duration opentime.RationalTime) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": trackIndex, "duration": duration.Value, "duration_rate": duration.Rate}
	if at != nil {
		data["at"] = *at
	}
	return e.apply(ctx, req, "add_gap", fmt.Sprintf("add gap to track %d", trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		if duration.IsNegative() {
			return invalidf("gap duration is negative")
		}
		gap := &timeline.Gap{SourceRange: opentime.NewTimeRange(opentime.NewRationalTime(0, duration.Rate), duration)}
		if at == nil {
			tr.Children = append(tr.Children, gap)
			return nil
		}
		if *at < 0 || *at > len(tr.Children) {
			return invalidf("insert index %d out of range on track %q", *at, tr.Name)
		}
		tr.Children = insertItem(tr.Children, *at, gap)
		return nil
	})
}

func (e *Editor) RemoveGap(ctx context.Context, req Request, trackIndex, itemIndex int) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": trackIndex, "item_index": itemIndex}
	return e.apply(ctx, req, "remove_gap", fmt.Sprintf("remove gap %d from track %d", itemIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		if _, err := gapAt(tr, itemIndex); err != nil {
			return err
		}
		tr.Children = removeItem(tr.Children, itemIndex)
		return nil
	})
}

func (e *Editor) AdjustGapDuration(ctx context.Context, req Request, trackIndex, itemIndex int, duration opentime.RationalTime) (checkpoint.Checkpoint, error) {
	data := map[string]any{"track_index": trackIndex, "item_index": itemIndex, "duration": duration.Value, "duration_rate": duration.Rate}
	return e.apply(ctx, req, "adjust_gap_duration", fmt.Sprintf("resize gap %d on track %d", itemIndex, trackIndex), data, func(tl *timeline.Timeline) error {
		tr, err := trackAt(tl, trackIndex)
		if err != nil {
			return err
		}
		gap, err := gapAt(tr, itemIndex)
		if err != nil {
			return err
		}
		if duration.IsNegative() {
			return invalidf("gap duration is negative")
		}
		gap.SourceRange.Duration = duration
		return nil
	})
}
