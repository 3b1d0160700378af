package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/checkpoint"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/editor"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// operationRequest is the envelope every edit shares: the operation name,
// the version the client last saw and the operation-specific parameters.
type operationRequest struct {
	Type            string          `json:"type"`
	ExpectedVersion *int            `json:"expectedVersion"`
	Params          json.RawMessage `json:"params"`
}

func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	actor := r.Header.Get("X-User-Id")

	var body operationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}
	if body.ExpectedVersion == nil {
		writeError(w, http.StatusBadRequest, "expectedVersion is required")
		return
	}

	req := editor.Request{TimelineID: id, ExpectedVersion: *body.ExpectedVersion, Actor: actor}
	cp, err := s.dispatchOperation(ctx, req, body.Type, body.Params)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.publishCheckpoint(ctx, cp)
	writeJSON(w, http.StatusCreated, cp)
}

func (s *Server) dispatchOperation(ctx context.Context, req editor.Request, opType string, params json.RawMessage) (checkpoint.Checkpoint, error) {
	switch opType {
	case "add_track":
		var p struct {
			Name string             `json:"name"`
			Kind timeline.TrackKind `json:"kind"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.AddTrack(ctx, req, p.Name, p.Kind)

	case "remove_track":
		var p struct {
			Track int `json:"track"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.RemoveTrack(ctx, req, p.Track)

	case "rename_track":
		var p struct {
			Track int    `json:"track"`
			Name  string `json:"name"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.RenameTrack(ctx, req, p.Track, p.Name)

	case "reorder_track":
		var p struct {
			From int `json:"from"`
			To   int `json:"to"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.ReorderTrack(ctx, req, p.From, p.To)

	case "clear_track":
		var p struct {
			Track int `json:"track"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.ClearTrack(ctx, req, p.Track)

	case "add_clip":
		var p struct {
			Track       int                `json:"track"`
			At          *int               `json:"at,omitempty"`
			Name        string             `json:"name"`
			Media       json.RawMessage    `json:"media"`
			SourceRange opentime.TimeRange `json:"source_range"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		media, err := timeline.UnmarshalMedia(p.Media)
		if err != nil {
			return checkpoint.Checkpoint{}, &editor.InvalidOperationError{Reason: err.Error()}
		}
		return s.editor.AddClip(ctx, req, p.Track, p.At, p.Name, media, p.SourceRange)

	case "remove_clip":
		var p struct {
			Track int `json:"track"`
			Item  int `json:"item"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.RemoveClip(ctx, req, p.Track, p.Item)

	case "trim_clip":
		var p struct {
			Track       int                `json:"track"`
			Item        int                `json:"item"`
			SourceRange opentime.TimeRange `json:"source_range"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.TrimClip(ctx, req, p.Track, p.Item, p.SourceRange)

	case "slip_clip":
		var p struct {
			Track  int                   `json:"track"`
			Item   int                   `json:"item"`
			Offset opentime.RationalTime `json:"offset"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.SlipClip(ctx, req, p.Track, p.Item, p.Offset)

	case "move_clip":
		var p struct {
			FromTrack int `json:"from_track"`
			FromIndex int `json:"from_index"`
			ToTrack   int `json:"to_track"`
			ToIndex   int `json:"to_index"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.MoveClip(ctx, req, p.FromTrack, p.FromIndex, p.ToTrack, p.ToIndex)

	case "replace_clip_media":
		var p struct {
			Track int             `json:"track"`
			Item  int             `json:"item"`
			Media json.RawMessage `json:"media"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		media, err := timeline.UnmarshalMedia(p.Media)
		if err != nil {
			return checkpoint.Checkpoint{}, &editor.InvalidOperationError{Reason: err.Error()}
		}
		return s.editor.ReplaceClipMedia(ctx, req, p.Track, p.Item, media)

	case "add_gap":
		var p struct {
			Track    int                   `json:"track"`
			At       *int                  `json:"at,omitempty"`
			Duration opentime.RationalTime `json:"duration"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.AddGap(ctx, req, p.Track, p.At, p.Duration)

	case "remove_gap":
		var p struct {
			Track int `json:"track"`
			Item  int `json:"item"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.RemoveGap(ctx, req, p.Track, p.Item)

	case "adjust_gap_duration":
		var p struct {
			Track    int                   `json:"track"`
			Item     int                   `json:"item"`
			Duration opentime.RationalTime `json:"duration"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.AdjustGapDuration(ctx, req, p.Track, p.Item, p.Duration)

	case "add_transition":
		var p struct {
			Track          int                   `json:"track"`
			Position       int                   `json:"position"`
			TransitionType string                `json:"transition_type"`
			InOffset       opentime.RationalTime `json:"in_offset"`
			OutOffset      opentime.RationalTime `json:"out_offset"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.AddTransition(ctx, req, p.Track, p.Position, p.TransitionType, p.InOffset, p.OutOffset)

	case "remove_transition":
		var p struct {
			Track int `json:"track"`
			Item  int `json:"item"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.RemoveTransition(ctx, req, p.Track, p.Item)

	case "modify_transition":
		var p struct {
			Track          int                   `json:"track"`
			Item           int                   `json:"item"`
			TransitionType string                `json:"transition_type"`
			InOffset       opentime.RationalTime `json:"in_offset"`
			OutOffset      opentime.RationalTime `json:"out_offset"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.ModifyTransition(ctx, req, p.Track, p.Item, p.TransitionType, p.InOffset, p.OutOffset)

	case "nest_clips":
		var p struct {
			Track int    `json:"track"`
			Start int    `json:"start"`
			End   int    `json:"end"`
			Name  string `json:"name"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.NestClipsAsStack(ctx, req, p.Track, p.Start, p.End, p.Name)

	case "flatten_stack":
		var p struct {
			Track int `json:"track"`
			Item  int `json:"item"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.FlattenNestedStack(ctx, req, p.Track, p.Item)

	case "add_marker":
		var p struct {
			Track  int             `json:"track"`
			Item   int             `json:"item"`
			Marker timeline.Marker `json:"marker"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.AddMarker(ctx, req, p.Track, p.Item, p.Marker)

	case "remove_marker":
		var p struct {
			Track  int `json:"track"`
			Item   int `json:"item"`
			Marker int `json:"marker"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.RemoveMarker(ctx, req, p.Track, p.Item, p.Marker)

	case "add_effect":
		var p struct {
			Track  int             `json:"track"`
			Item   int             `json:"item"`
			Effect json.RawMessage `json:"effect"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		effect, err := timeline.UnmarshalEffect(p.Effect)
		if err != nil {
			return checkpoint.Checkpoint{}, &editor.InvalidOperationError{Reason: err.Error()}
		}
		return s.editor.AddEffect(ctx, req, p.Track, p.Item, effect)

	case "remove_effect":
		var p struct {
			Track  int `json:"track"`
			Item   int `json:"item"`
			Effect int `json:"effect"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		return s.editor.RemoveEffect(ctx, req, p.Track, p.Item, p.Effect)

	case "replace_timeline":
		var p struct {
			Snapshot *timeline.Timeline `json:"snapshot"`
		}
		if err := decodeParams(params, &p); err != nil {
			return checkpoint.Checkpoint{}, err
		}
		if p.Snapshot == nil {
			return checkpoint.Checkpoint{}, &editor.InvalidOperationError{Reason: "snapshot is required"}
		}
		return s.editor.ReplaceTimeline(ctx, req, p.Snapshot)

	default:
		return checkpoint.Checkpoint{}, &editor.InvalidOperationError{Reason: "unknown operation type " + opType}
	}
}

func decodeParams(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		return &editor.InvalidOperationError{Reason: "params are required"}
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return &editor.InvalidOperationError{Reason: "invalid params: " + err.Error()}
	}
	return nil
}
