// Package editor implements the named timeline mutations. Every operation
// follows one shape: read the current snapshot at the caller's expected
// version, mutate the copy, validate, and commit through the checkpoint
// store's CAS. Validation failures surface before any checkpoint exists,
// so operations are all-or-nothing.
package editor

import (
	"context"
	"fmt"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/checkpoint"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// InvalidOperationError marks a mutation rejected before commit: bad
// index, wrong item kind at an index, or illegal transition placement.
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string { return "invalid operation: " + e.Reason }

func invalidf(format string, args ...any) error {
	return &InvalidOperationError{Reason: fmt.Sprintf(format, args...)}
}

type Editor struct {
	store checkpoint.Store
}

func New(store checkpoint.Store) *Editor {
	return &Editor{store: store}
}

// Request carries what every mutation needs: which timeline, the version
// the caller last saw, and who is editing.
type Request struct {
	TimelineID      string
	ExpectedVersion int
	Actor           string
}

// apply is the load-copy-mutate-commit spine shared by all operations.
func (e *Editor) apply(ctx context.Context, req Request, opType, description string, opData map[string]any, mutate func(*timeline.Timeline) error) (checkpoint.Checkpoint, error) {
	cur, err := e.store.CurrentCheckpoint(ctx, req.TimelineID)
	if err != nil {
		return checkpoint.Checkpoint{}, err
	}

	// the store hands back a fresh copy; mutating it cannot touch history
	snap := cur.Snapshot
	if err := mutate(snap); err != nil {
		return checkpoint.Checkpoint{}, err
	}
	if err := snap.Validate(); err != nil {
		return checkpoint.Checkpoint{}, &InvalidOperationError{Reason: err.Error()}
	}

	op := &checkpoint.OperationRecord{Type: opType, Data: opData}
	return e.store.CreateCheckpoint(ctx, req.TimelineID, snap, req.ExpectedVersion, description, req.Actor, op)
}

// Rollback re-publishes a historical version as a new checkpoint.
func (e *Editor) Rollback(ctx context.Context, req Request, targetVersion int) (checkpoint.Checkpoint, error) {
	return checkpoint.Rollback(ctx, e.store, req.TimelineID, targetVersion, req.ExpectedVersion, req.Actor)
}

// ReplaceTimeline swaps in a whole new snapshot, validating it first.
func (e *Editor) ReplaceTimeline(ctx context.Context, req Request, newSnapshot *timeline.Timeline) (checkpoint.Checkpoint, error) {
	if newSnapshot == nil {
		return checkpoint.Checkpoint{}, invalidf("replacement timeline is nil")
	}
	if err := newSnapshot.Validate(); err != nil {
		return checkpoint.Checkpoint{}, &InvalidOperationError{Reason: err.Error()}
	}
	op := &checkpoint.OperationRecord{Type: "replace_timeline"}
	return e.store.CreateCheckpoint(ctx, req.TimelineID, newSnapshot, req.ExpectedVersion, "replace whole timeline", req.Actor, op)
}

// --- shared index helpers ---

func trackAt(tl *timeline.Timeline, index int) (*timeline.Track, error) {
	if index < 0 || index >= len(tl.Tracks.Children) {
		return nil, invalidf("track index %d out of range (have %d tracks)", index, len(tl.Tracks.Children))
	}
	tr, ok := tl.Tracks.Children[index].(*timeline.Track)
	if !ok {
		return nil, invalidf("child %d is %T, not a track", index, tl.Tracks.Children[index])
	}
	return tr, nil
}

func itemAt(tr *timeline.Track, index int) (timeline.Item, error) {
	if index < 0 || index >= len(tr.Children) {
		return nil, invalidf("item index %d out of range on track %q (have %d items)", index, tr.Name, len(tr.Children))
	}
	return tr.Children[index], nil
}

func clipAt(tr *timeline.Track, index int) (*timeline.Clip, error) {
	item, err := itemAt(tr, index)
	if err != nil {
		return nil, err
	}
	clip, ok := item.(*timeline.Clip)
	if !ok {
		return nil, invalidf("item %d on track %q is %T, not a clip", index, tr.Name, item)
	}
	return clip, nil
}

func gapAt(tr *timeline.Track, index int) (*timeline.Gap, error) {
	item, err := itemAt(tr, index)
	if err != nil {
		return nil, err
	}
	gap, ok := item.(*timeline.Gap)
	if !ok {
		return nil, invalidf("item %d on track %q is %T, not a gap", index, tr.Name, item)
	}
	return gap, nil
}

func transitionAt(tr *timeline.Track, index int) (*timeline.Transition, error) {
	item, err := itemAt(tr, index)
	if err != nil {
		return nil, err
	}
	trans, ok := item.(*timeline.Transition)
	if !ok {
		return nil, invalidf("item %d on track %q is %T, not a transition", index, tr.Name, item)
	}
	return trans, nil
}

func insertItem(children []timeline.Item, index int, item timeline.Item) []timeline.Item {
	children = append(children, nil)
	copy(children[index+1:], children[index:])
	children[index] = item
	return children
}

func removeItem(children []timeline.Item, index int) []timeline.Item {
	return append(children[:index], children[index+1:]...)
}
