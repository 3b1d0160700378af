package checkpoint

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

func newTestTimeline(t *testing.T, store *MemStore) TimelineInfo {
	t.Helper()
	info, err := store.CreateTimeline(context.Background(), "proj-1", "test timeline", 24, "tester")
	if err != nil {
		t.Fatalf("CreateTimeline: %v", err)
	}
	return info
}

func snapshotWithTrack(t *testing.T, store *MemStore, id, trackName string) *timeline.Timeline {
	t.Helper()
	cur, err := store.CurrentCheckpoint(context.Background(), id)
	if err != nil {
		t.Fatalf("CurrentCheckpoint: %v", err)
	}
	snap := cur.Snapshot
	snap.Tracks.Children = append(snap.Tracks.Children, &timeline.Track{
		Name: trackName,
		Kind: timeline.TrackKindVideo,
	})
	return snap
}

func TestVersionsIncreaseByOne(t *testing.T) {
	store := NewMemStore()
	info := newTestTimeline(t, store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		snap := snapshotWithTrack(t, store, info.ID, "V1")
		cp, err := store.CreateCheckpoint(ctx, info.ID, snap, i, "add track", "tester", nil)
		if err != nil {
			t.Fatalf("commit %d: %v", i, err)
		}
		if cp.Version != i+1 {
			t.Errorf("commit %d: version = %d, want %d", i, cp.Version, i+1)
		}
		if cp.ParentVersion == nil || *cp.ParentVersion != i {
			t.Errorf("commit %d: parent = %v, want %d", i, cp.ParentVersion, i)
		}
	}
}

func TestStaleVersionFails(t *testing.T) {
	store := NewMemStore()
	info := newTestTimeline(t, store)
	ctx := context.Background()

	snap := snapshotWithTrack(t, store, info.ID, "V1")
	if _, err := store.CreateCheckpoint(ctx, info.ID, snap, 0, "first", "a", nil); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	// second writer still holds expected_version 0
	_, err := store.CreateCheckpoint(ctx, info.ID, snap, 0, "second", "b", nil)
	vc, ok := IsConflict(err)
	if !ok {
		t.Fatalf("stale commit err = %v, want VersionConflictError", err)
	}
	if vc.Expected != 0 || vc.Current != 1 {
		t.Errorf("conflict = %+v, want expected 0 current 1", vc)
	}

	// no change was made
	got, err := store.GetTimeline(ctx, info.ID)
	if err != nil || got.CurrentVersion != 1 {
		t.Errorf("current version = %d, want 1", got.CurrentVersion)
	}
}

func TestConcurrentCommitsExactlyOneWins(t *testing.T) {
	store := NewMemStore()
	info := newTestTimeline(t, store)
	ctx := context.Background()
	snap := snapshotWithTrack(t, store, info.ID, "V1")

	const writers = 16
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.CreateCheckpoint(ctx, info.ID, snap, 0, "race", "w", nil)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		if _, ok := IsConflict(err); !ok {
			t.Errorf("loser got %v, want VersionConflictError", err)
		}
	}
	if wins != 1 {
		t.Errorf("%d writers won version slot 1, want exactly 1", wins)
	}
}

func TestRollbackCreatesNewCheckpoint(t *testing.T) {
	store := NewMemStore()
	info := newTestTimeline(t, store)
	ctx := context.Background()

	snapV1 := snapshotWithTrack(t, store, info.ID, "V1")
	if _, err := store.CreateCheckpoint(ctx, info.ID, snapV1, 0, "add V1", "a", nil); err != nil {
		t.Fatal(err)
	}
	snapV2 := snapshotWithTrack(t, store, info.ID, "V2")
	if _, err := store.CreateCheckpoint(ctx, info.ID, snapV2, 1, "add V2", "a", nil); err != nil {
		t.Fatal(err)
	}

	cp, err := Rollback(ctx, store, info.ID, 1, 2, "a")
	if err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if cp.Version != 3 {
		t.Errorf("rollback version = %d, want 3", cp.Version)
	}

	target, err := store.GetCheckpoint(ctx, info.ID, 1)
	if err != nil {
		t.Fatalf("target still retrievable: %v", err)
	}
	if !cp.Snapshot.Equal(target.Snapshot) {
		t.Error("rollback snapshot differs from target snapshot")
	}
	if cp.Operation == nil || cp.Operation.Type != "rollback" {
		t.Errorf("rollback op = %+v", cp.Operation)
	}
	if cp.Description != "rollback to version 1" {
		t.Errorf("description = %q", cp.Description)
	}
}

func TestRollbackHonorsCAS(t *testing.T) {
	store := NewMemStore()
	info := newTestTimeline(t, store)
	ctx := context.Background()

	snap := snapshotWithTrack(t, store, info.ID, "V1")
	if _, err := store.CreateCheckpoint(ctx, info.ID, snap, 0, "add", "a", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := Rollback(ctx, store, info.ID, 0, 0, "a"); err == nil {
		t.Error("rollback with stale expected version should conflict")
	}
}

func TestNotFoundErrors(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	if _, err := store.GetTimeline(ctx, "nope"); !errors.Is(err, ErrTimelineNotFound) {
		t.Errorf("missing timeline err = %v", err)
	}

	info := newTestTimeline(t, store)
	if _, err := store.GetCheckpoint(ctx, info.ID, 99); !errors.Is(err, ErrCheckpointNotFound) {
		t.Errorf("missing checkpoint err = %v", err)
	}
}

func TestListCheckpointsPagedNewestFirst(t *testing.T) {
	store := NewMemStore()
	info := newTestTimeline(t, store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		snap := snapshotWithTrack(t, store, info.ID, "V1")
		if _, err := store.CreateCheckpoint(ctx, info.ID, snap, i, "step", "a", nil); err != nil {
			t.Fatal(err)
		}
	}

	page, err := store.ListCheckpoints(ctx, info.ID, 0, 3)
	if err != nil {
		t.Fatalf("ListCheckpoints: %v", err)
	}
	if page.Total != 6 {
		t.Errorf("total = %d, want 6", page.Total)
	}
	if len(page.Checkpoints) != 3 || page.Checkpoints[0].Version != 5 {
		t.Errorf("first page = %v", page.Checkpoints)
	}
	for _, cp := range page.Checkpoints {
		if cp.Snapshot != nil {
			t.Error("listing should omit snapshots")
		}
	}

	page, err = store.ListCheckpoints(ctx, info.ID, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Checkpoints) != 3 || page.Checkpoints[0].Version != 2 {
		t.Errorf("second page starts at %d, want 2", page.Checkpoints[0].Version)
	}
}

func TestListCheckpointsNegativeOffset(t *testing.T) {
	store := NewMemStore()
	info := newTestTimeline(t, store)
	ctx := context.Background()

	// a hostile or buggy client can hand us any integer; negative
	// offsets clamp to the first page instead of blowing up
	page, err := store.ListCheckpoints(ctx, info.ID, -1, 10)
	if err != nil {
		t.Fatalf("ListCheckpoints: %v", err)
	}
	if page.Offset != 0 {
		t.Errorf("offset = %d, want 0", page.Offset)
	}
	if len(page.Checkpoints) != 1 || page.Checkpoints[0].Version != 0 {
		t.Errorf("page = %v", page.Checkpoints)
	}
}

func TestApproveCheckpoint(t *testing.T) {
	store := NewMemStore()
	info := newTestTimeline(t, store)
	ctx := context.Background()

	if err := store.ApproveCheckpoint(ctx, info.ID, 0, true); err != nil {
		t.Fatalf("ApproveCheckpoint: %v", err)
	}
	cp, err := store.GetCheckpoint(ctx, info.ID, 0)
	if err != nil || !cp.IsApproved {
		t.Errorf("checkpoint approved = %v, err = %v", cp.IsApproved, err)
	}
}

func TestStoredSnapshotIsIsolated(t *testing.T) {
	store := NewMemStore()
	info := newTestTimeline(t, store)
	ctx := context.Background()

	snap := snapshotWithTrack(t, store, info.ID, "V1")
	if _, err := store.CreateCheckpoint(ctx, info.ID, snap, 0, "add", "a", nil); err != nil {
		t.Fatal(err)
	}

	// mutate the caller's copy after commit
	snap.Tracks.Children = append(snap.Tracks.Children, &timeline.Track{Name: "sneaky", Kind: timeline.TrackKindAudio})

	cp, err := store.GetCheckpoint(ctx, info.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cp.Snapshot.Tracks.Children) != 1 {
		t.Errorf("stored snapshot has %d tracks, caller mutation leaked in", len(cp.Snapshot.Tracks.Children))
	}
}
