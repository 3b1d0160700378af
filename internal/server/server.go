// Package server exposes the timeline engine over HTTP: timeline and
// checkpoint CRUD, the named editing operations, and render compilation.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/checkpoint"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/editor"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/render"
)

type Server struct {
	store   checkpoint.Store
	editor  *editor.Editor
	rdb     *redis.Client
	cache   *render.ManifestCache
	presets map[string]render.Preset
}

func NewServer(store checkpoint.Store, rdb *redis.Client, extraPresets map[string]render.Preset) *Server {
	return &Server{
		store:   store,
		editor:  editor.New(store),
		rdb:     rdb,
		cache:   render.NewManifestCache(rdb),
		presets: extraPresets,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Post("/timelines", s.handleCreateTimeline)
	r.Get("/timelines/{id}", s.handleGetTimeline)
	r.Delete("/timelines/{id}", s.handleDeleteTimeline)

	r.Get("/timelines/{id}/checkpoints", s.handleListCheckpoints)
	r.Get("/timelines/{id}/checkpoints/{version}", s.handleGetCheckpoint)
	r.Post("/timelines/{id}/checkpoints/{version}/approve", s.handleApproveCheckpoint)
	r.Get("/timelines/{id}/diff", s.handleDiff)

	r.Post("/timelines/{id}/operations", s.handleOperation)
	r.Post("/timelines/{id}/rollback", s.handleRollback)
	r.Post("/timelines/{id}/render", s.handleRender)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "timeline-engine",
	})
}

// resolvePreset looks up a named preset, file-loaded ones shadowing the
// built-ins.
func (s *Server) resolvePreset(name string) (render.Preset, bool) {
	if name == "" {
		return render.DefaultPreset(), true
	}
	if p, ok := s.presets[name]; ok {
		return p, true
	}
	return render.LookupPreset(name)
}

func (s *Server) publishEvent(ctx context.Context, event map[string]any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("timeline-engine: marshal event: %v", err)
		return
	}
	if err := s.rdb.Publish(ctx, "broadcast", string(data)).Err(); err != nil {
		log.Printf("timeline-engine: publish event: %v", err)
	}
}

func (s *Server) publishCheckpoint(ctx context.Context, cp checkpoint.Checkpoint) {
	event := map[string]any{
		"type":       "timeline.checkpoint",
		"timelineId": cp.TimelineID,
		"version":    cp.Version,
		"createdBy":  cp.CreatedBy,
	}
	if cp.Operation != nil {
		event["operation"] = cp.Operation.Type
	}
	s.publishEvent(ctx, event)
}
