package checkpoint

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// PGStore persists timelines and checkpoints in Postgres. The CAS step is
// a row-level lock on the timeline row held only for the duration of the
// version compare and increment.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) CreateTimeline(ctx context.Context, projectID, name string, rate float64, createdBy string) (TimelineInfo, error) {
	snap := timeline.New(name, rate)
	snapJSON, err := json.Marshal(snap)
	if err != nil {
		return TimelineInfo{}, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return TimelineInfo{}, err
	}
	defer tx.Rollback(ctx)

	var info TimelineInfo
	info.ProjectID = projectID
	info.Name = name
	err = tx.QueryRow(ctx, `
		INSERT INTO timelines (project_id, name, current_version)
		VALUES ($1, $2, 0)
		RETURNING id, created_at
	`, projectID, name).Scan(&info.ID, &info.CreatedAt)
	if err != nil {
		return TimelineInfo{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO checkpoints (timeline_id, version, parent_version, snapshot, description, created_by, op_type, op_data)
		VALUES ($1, 0, NULL, $2, 'initial empty timeline', $3, 'create_timeline', NULL)
	`, info.ID, snapJSON, createdBy)
	if err != nil {
		return TimelineInfo{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return TimelineInfo{}, err
	}
	return info, nil
}

func (s *PGStore) GetTimeline(ctx context.Context, timelineID string) (TimelineInfo, error) {
	var info TimelineInfo
	err := s.db.QueryRow(ctx, `
		SELECT id, project_id, name, current_version, created_at
		FROM timelines
		WHERE id = $1
	`, timelineID).Scan(&info.ID, &info.ProjectID, &info.Name, &info.CurrentVersion, &info.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return TimelineInfo{}, ErrTimelineNotFound
	}
	if err != nil {
		return TimelineInfo{}, err
	}
	return info, nil
}

func (s *PGStore) DeleteTimeline(ctx context.Context, timelineID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM timelines WHERE id = $1`, timelineID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTimelineNotFound
	}
	return nil
}

func (s *PGStore) GetCheckpoint(ctx context.Context, timelineID string, version int) (Checkpoint, error) {
	row := s.db.QueryRow(ctx, `
		SELECT timeline_id, version, parent_version, snapshot, description, created_by, created_at, is_approved, op_type, op_data
		FROM checkpoints
		WHERE timeline_id = $1 AND version = $2
	`, timelineID, version)
	cp, err := scanCheckpoint(row, true)
	if errors.Is(err, pgx.ErrNoRows) {
		// distinguish a missing version from a missing timeline
		if _, terr := s.GetTimeline(ctx, timelineID); terr != nil {
			return Checkpoint{}, terr
		}
		return Checkpoint{}, ErrCheckpointNotFound
	}
	return cp, err
}

func (s *PGStore) CurrentCheckpoint(ctx context.Context, timelineID string) (Checkpoint, error) {
	info, err := s.GetTimeline(ctx, timelineID)
	if err != nil {
		return Checkpoint{}, err
	}
	return s.GetCheckpoint(ctx, timelineID, info.CurrentVersion)
}

func (s *PGStore) ListCheckpoints(ctx context.Context, timelineID string, offset, limit int) (Page, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}
	page := Page{Offset: offset, Limit: limit, Checkpoints: []Checkpoint{}}

	err := s.db.QueryRow(ctx, `
		SELECT count(*) FROM checkpoints WHERE timeline_id = $1
	`, timelineID).Scan(&page.Total)
	if err != nil {
		return Page{}, err
	}
	if page.Total == 0 {
		if _, terr := s.GetTimeline(ctx, timelineID); terr != nil {
			return Page{}, terr
		}
	}

	rows, err := s.db.Query(ctx, `
		SELECT timeline_id, version, parent_version, description, created_by, created_at, is_approved, op_type, op_data
		FROM checkpoints
		WHERE timeline_id = $1
		ORDER BY version DESC
		LIMIT $2 OFFSET $3
	`, timelineID, limit, offset)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var cp Checkpoint
		var opType *string
		var opData []byte
		if err := rows.Scan(&cp.TimelineID, &cp.Version, &cp.ParentVersion, &cp.Description,
			&cp.CreatedBy, &cp.CreatedAt, &cp.IsApproved, &opType, &opData); err != nil {
			return Page{}, err
		}
		if op, err := decodeOperation(opType, opData); err == nil {
			cp.Operation = op
		}
		page.Checkpoints = append(page.Checkpoints, cp)
	}
	return page, rows.Err()
}

func (s *PGStore) CreateCheckpoint(ctx context.Context, timelineID string, snap *timeline.Timeline, expectedVersion int, description, createdBy string, op *OperationRecord) (Checkpoint, error) {
	snapJSON, err := json.Marshal(snap)
	if err != nil {
		return Checkpoint{}, err
	}
	opType, opData, err := encodeOperation(op)
	if err != nil {
		return Checkpoint{}, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Checkpoint{}, err
	}
	defer tx.Rollback(ctx)

	// the lock is held only across compare-and-increment, never across
	// caller think time
	var current int
	err = tx.QueryRow(ctx, `
		SELECT current_version FROM timelines WHERE id = $1 FOR UPDATE
	`, timelineID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return Checkpoint{}, ErrTimelineNotFound
	}
	if err != nil {
		return Checkpoint{}, err
	}
	if current != expectedVersion {
		return Checkpoint{}, &VersionConflictError{Expected: expectedVersion, Current: current}
	}

	cp := Checkpoint{
		TimelineID:    timelineID,
		Version:       current + 1,
		ParentVersion: &current,
		Description:   description,
		CreatedBy:     createdBy,
		Operation:     op,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO checkpoints (timeline_id, version, parent_version, snapshot, description, created_by, op_type, op_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, timelineID, cp.Version, current, snapJSON, description, createdBy, opType, opData).Scan(&cp.CreatedAt)
	if err != nil {
		return Checkpoint{}, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE timelines SET current_version = $2 WHERE id = $1
	`, timelineID, cp.Version); err != nil {
		return Checkpoint{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Checkpoint{}, err
	}

	stored, err := snap.Clone()
	if err != nil {
		return Checkpoint{}, err
	}
	cp.Snapshot = stored
	return cp, nil
}

func (s *PGStore) ApproveCheckpoint(ctx context.Context, timelineID string, version int, approved bool) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE checkpoints SET is_approved = $3
		WHERE timeline_id = $1 AND version = $2
	`, timelineID, version, approved)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, terr := s.GetTimeline(ctx, timelineID); terr != nil {
			return terr
		}
		return ErrCheckpointNotFound
	}
	return nil
}

func scanCheckpoint(row pgx.Row, withSnapshot bool) (Checkpoint, error) {
	var cp Checkpoint
	var snapJSON []byte
	var opType *string
	var opData []byte
	err := row.Scan(&cp.TimelineID, &cp.Version, &cp.ParentVersion, &snapJSON, &cp.Description,
		&cp.CreatedBy, &cp.CreatedAt, &cp.IsApproved, &opType, &opData)
	if err != nil {
		return Checkpoint{}, err
	}
	if withSnapshot && len(snapJSON) > 0 {
		var snap timeline.Timeline
		if err := json.Unmarshal(snapJSON, &snap); err != nil {
			return Checkpoint{}, err
		}
		cp.Snapshot = &snap
	}
	op, err := decodeOperation(opType, opData)
	if err != nil {
		return Checkpoint{}, err
	}
	cp.Operation = op
	return cp, nil
}

func encodeOperation(op *OperationRecord) (*string, []byte, error) {
	if op == nil {
		return nil, nil, nil
	}
	var data []byte
	if op.Data != nil {
		var err error
		data, err = json.Marshal(op.Data)
		if err != nil {
			return nil, nil, err
		}
	}
	return &op.Type, data, nil
}

func decodeOperation(opType *string, opData []byte) (*OperationRecord, error) {
	if opType == nil || *opType == "" {
		return nil, nil
	}
	op := &OperationRecord{Type: *opType}
	if len(opData) > 0 {
		if err := json.Unmarshal(opData, &op.Data); err != nil {
			return nil, err
		}
	}
	return op, nil
}
