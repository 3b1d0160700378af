package checkpoint

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// MemStore is an in-memory Store. It backs unit tests and single-process
// deployments; the CAS guarantee comes from one mutex around the
// version-compare-and-increment.
type MemStore struct {
	mu        sync.Mutex
	timelines map[string]*TimelineInfo
	history   map[string][]Checkpoint
}

func NewMemStore() *MemStore {
	return &MemStore{
		timelines: make(map[string]*TimelineInfo),
		history:   make(map[string][]Checkpoint),
	}
}

func (m *MemStore) CreateTimeline(ctx context.Context, projectID, name string, rate float64, createdBy string) (TimelineInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := TimelineInfo{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	snap := timeline.New(name, rate)
	m.timelines[info.ID] = &info
	m.history[info.ID] = []Checkpoint{{
		TimelineID:  info.ID,
		Version:     0,
		Snapshot:    snap,
		Description: "initial empty timeline",
		CreatedBy:   createdBy,
		CreatedAt:   info.CreatedAt,
	}}
	return info, nil
}

func (m *MemStore) GetTimeline(ctx context.Context, timelineID string) (TimelineInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.timelines[timelineID]
	if !ok {
		return TimelineInfo{}, ErrTimelineNotFound
	}
	return *info, nil
}

func (m *MemStore) DeleteTimeline(ctx context.Context, timelineID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.timelines[timelineID]; !ok {
		return ErrTimelineNotFound
	}
	delete(m.timelines, timelineID)
	delete(m.history, timelineID)
	return nil
}

func (m *MemStore) GetCheckpoint(ctx context.Context, timelineID string, version int) (Checkpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(timelineID, version)
}

func (m *MemStore) getLocked(timelineID string, version int) (Checkpoint, error) {
	history, ok := m.history[timelineID]
	if !ok {
		return Checkpoint{}, ErrTimelineNotFound
	}
	if version < 0 || version >= len(history) {
		return Checkpoint{}, ErrCheckpointNotFound
	}
	cp := history[version]
	snap, err := cp.Snapshot.Clone()
	if err != nil {
		return Checkpoint{}, err
	}
	cp.Snapshot = snap
	return cp, nil
}

func (m *MemStore) CurrentCheckpoint(ctx context.Context, timelineID string) (Checkpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.timelines[timelineID]
	if !ok {
		return Checkpoint{}, ErrTimelineNotFound
	}
	return m.getLocked(timelineID, info.CurrentVersion)
}

func (m *MemStore) ListCheckpoints(ctx context.Context, timelineID string, offset, limit int) (Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	history, ok := m.history[timelineID]
	if !ok {
		return Page{}, ErrTimelineNotFound
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}
	page := Page{Total: len(history), Offset: offset, Limit: limit, Checkpoints: []Checkpoint{}}
	// newest first
	for i := len(history) - 1 - offset; i >= 0 && len(page.Checkpoints) < limit; i-- {
		cp := history[i]
		cp.Snapshot = nil
		page.Checkpoints = append(page.Checkpoints, cp)
	}
	return page, nil
}

func (m *MemStore) CreateCheckpoint(ctx context.Context, timelineID string, snap *timeline.Timeline, expectedVersion int, description, createdBy string, op *OperationRecord) (Checkpoint, error) {
	stored, err := snap.Clone()
	if err != nil {
		return Checkpoint{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.timelines[timelineID]
	if !ok {
		return Checkpoint{}, ErrTimelineNotFound
	}
	if info.CurrentVersion != expectedVersion {
		return Checkpoint{}, &VersionConflictError{Expected: expectedVersion, Current: info.CurrentVersion}
	}

	parent := info.CurrentVersion
	cp := Checkpoint{
		TimelineID:    timelineID,
		Version:       parent + 1,
		ParentVersion: &parent,
		Snapshot:      stored,
		Description:   description,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now().UTC(),
		Operation:     op,
	}
	m.history[timelineID] = append(m.history[timelineID], cp)
	info.CurrentVersion = cp.Version

	out := cp
	outSnap, err := stored.Clone()
	if err != nil {
		return Checkpoint{}, err
	}
	out.Snapshot = outSnap
	return out, nil
}

func (m *MemStore) ApproveCheckpoint(ctx context.Context, timelineID string, version int, approved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	history, ok := m.history[timelineID]
	if !ok {
		return ErrTimelineNotFound
	}
	if version < 0 || version >= len(history) {
		return ErrCheckpointNotFound
	}
	history[version].IsApproved = approved
	return nil
}
