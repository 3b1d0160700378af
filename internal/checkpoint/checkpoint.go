// Package checkpoint versions timelines as append-only immutable
// snapshots with optimistic-concurrency commits. Exactly one commit wins
// per version slot; rollback writes a new checkpoint rather than
// rewriting history.
package checkpoint

import (
	"context"
	"strconv"
	"time"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// OperationRecord describes the editing operation that produced a
// checkpoint, kept for audit and replay.
type OperationRecord struct {
	Type string         `json:"operationType"`
	Data map[string]any `json:"operationData,omitempty"`
}

// Checkpoint is one immutable version of a timeline.
type Checkpoint struct {
	TimelineID    string             `json:"timelineId"`
	Version       int                `json:"version"`
	ParentVersion *int               `json:"parentVersion,omitempty"`
	Snapshot      *timeline.Timeline `json:"snapshot,omitempty"`
	Description   string             `json:"description"`
	CreatedBy     string             `json:"createdBy"`
	CreatedAt     time.Time          `json:"createdAt"`
	IsApproved    bool               `json:"isApproved"`
	Operation     *OperationRecord   `json:"operation,omitempty"`
}

// TimelineInfo is the mutable per-timeline row: just identity plus the
// current-version pointer.
type TimelineInfo struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"projectId"`
	Name           string    `json:"name"`
	CurrentVersion int       `json:"currentVersion"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Page is a reverse-chronological slice of a timeline's history.
// Snapshots are omitted from listings; fetch a single checkpoint for one.
type Page struct {
	Checkpoints []Checkpoint `json:"checkpoints"`
	Total       int          `json:"total"`
	Offset      int          `json:"offset"`
	Limit       int          `json:"limit"`
}

// Store is the persistence contract for timeline versions.
type Store interface {
	// CreateTimeline creates a timeline plus its empty version-0 checkpoint.
	CreateTimeline(ctx context.Context, projectID, name string, rate float64, createdBy string) (TimelineInfo, error)
	GetTimeline(ctx context.Context, timelineID string) (TimelineInfo, error)
	DeleteTimeline(ctx context.Context, timelineID string) error

	// GetCheckpoint returns one historical version including its snapshot.
	GetCheckpoint(ctx context.Context, timelineID string, version int) (Checkpoint, error)
	// CurrentCheckpoint returns the checkpoint at the current-version pointer.
	CurrentCheckpoint(ctx context.Context, timelineID string) (Checkpoint, error)
	ListCheckpoints(ctx context.Context, timelineID string, offset, limit int) (Page, error)

	// CreateCheckpoint is the CAS commit: succeeds only when the timeline's
	// current version still equals expectedVersion, otherwise fails with
	// *VersionConflictError and changes nothing.
	CreateCheckpoint(ctx context.Context, timelineID string, snap *timeline.Timeline, expectedVersion int, description, createdBy string, op *OperationRecord) (Checkpoint, error)

	// ApproveCheckpoint flips the audit flag on an existing version.
	ApproveCheckpoint(ctx context.Context, timelineID string, version int, approved bool) error
}

// Rollback re-publishes the snapshot at targetVersion as a new checkpoint.
// It rides the same CAS contract as any mutation and leaves the target
// checkpoint untouched.
func Rollback(ctx context.Context, s Store, timelineID string, targetVersion, expectedVersion int, createdBy string) (Checkpoint, error) {
	target, err := s.GetCheckpoint(ctx, timelineID, targetVersion)
	if err != nil {
		return Checkpoint{}, err
	}
	op := &OperationRecord{
		Type: "rollback",
		Data: map[string]any{"target_version": targetVersion},
	}
	desc := "rollback to version " + strconv.Itoa(targetVersion)
	return s.CreateCheckpoint(ctx, timelineID, target.Snapshot, expectedVersion, desc, createdBy, op)
}
