package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/checkpoint"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/editor"
)

func (s *Server) handleListCheckpoints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	page, err := s.store.ListCheckpoints(ctx, id, offset, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetCheckpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "version must be an integer")
		return
	}

	cp, err := s.store.GetCheckpoint(ctx, id, version)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cp)
}

func (s *Server) handleApproveCheckpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "version must be an integer")
		return
	}

	var body struct {
		Approved *bool `json:"approved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	approved := true
	if body.Approved != nil {
		approved = *body.Approved
	}

	if err := s.store.ApproveCheckpoint(ctx, id, version, approved); err != nil {
		writeDomainError(w, err)
		return
	}

	s.publishEvent(ctx, map[string]any{
		"type":       "timeline.approved",
		"timelineId": id,
		"version":    version,
		"approved":   approved,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"timelineId": id,
		"version":    version,
		"approved":   approved,
	})
}

// handleDiff compares two stored versions: ?from=N&to=M, with to
// defaulting to the current version.
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	from, err := strconv.Atoi(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from must be an integer version")
		return
	}

	fromCP, err := s.store.GetCheckpoint(ctx, id, from)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var toCP checkpoint.Checkpoint
	if toParam := r.URL.Query().Get("to"); toParam != "" {
		to, err := strconv.Atoi(toParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to must be an integer version")
			return
		}
		toCP, err = s.store.GetCheckpoint(ctx, id, to)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	} else {
		toCP, err = s.store.CurrentCheckpoint(ctx, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, checkpoint.DiffVersions(fromCP, toCP))
}

func (s *Server) handleRollback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	actor := r.Header.Get("X-User-Id")

	var body struct {
		TargetVersion   *int `json:"targetVersion"`
		ExpectedVersion *int `json:"expectedVersion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.TargetVersion == nil || body.ExpectedVersion == nil {
		writeError(w, http.StatusBadRequest, "targetVersion and expectedVersion are required")
		return
	}

	req := editor.Request{TimelineID: id, ExpectedVersion: *body.ExpectedVersion, Actor: actor}
	cp, err := s.editor.Rollback(ctx, req, *body.TargetVersion)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.publishCheckpoint(ctx, cp)
	writeJSON(w, http.StatusCreated, cp)
}
