package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateTimeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := r.Header.Get("X-User-Id")

	var body struct {
		ProjectID string  `json:"projectId"`
		Name      string  `json:"name"`
		Rate      float64 `json:"rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || len(body.Name) > 200 {
		writeError(w, http.StatusBadRequest, "name must be between 1 and 200 characters")
		return
	}
	if body.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "projectId is required")
		return
	}

	info, err := s.store.CreateTimeline(ctx, body.ProjectID, body.Name, body.Rate, actor)
	if err != nil {
		log.Printf("timeline-engine: create timeline: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, map[string]any{
		"type":       "timeline.created",
		"timelineId": info.ID,
		"projectId":  info.ProjectID,
	})
	writeJSON(w, http.StatusCreated, info)
}

func (s *Server) handleGetTimeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	info, err := s.store.GetTimeline(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	cp, err := s.store.CurrentCheckpoint(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"timeline":   info,
		"checkpoint": cp,
	})
}

func (s *Server) handleDeleteTimeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.store.DeleteTimeline(ctx, id); err != nil {
		writeDomainError(w, err)
		return
	}

	s.publishEvent(ctx, map[string]any{
		"type":       "timeline.deleted",
		"timelineId": id,
	})
	w.WriteHeader(http.StatusNoContent)
}
