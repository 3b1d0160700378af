package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/checkpoint"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/render"
)

// handleRender compiles a checkpoint into a render manifest. Repeat
// requests for the same (timeline, version, preset) come straight out of
// the manifest cache.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var body struct {
		Version    *int                `json:"version,omitempty"`
		Preset     string              `json:"preset"`
		AssetPaths map[string]string   `json:"assetPaths"`
		OutputPath string              `json:"outputPath"`
		Strict     bool                `json:"strict"`
		Mode       string              `json:"mode"`
		Range      *opentime.TimeRange `json:"range,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	preset, ok := s.resolvePreset(body.Preset)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown preset "+body.Preset)
		return
	}

	info, err := s.store.GetTimeline(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var cp checkpoint.Checkpoint
	if body.Version != nil {
		cp, err = s.store.GetCheckpoint(ctx, id, *body.Version)
	} else {
		cp, err = s.store.CurrentCheckpoint(ctx, id)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	opts := render.Options{
		Preset:     preset,
		AssetPaths: body.AssetPaths,
		OutputPath: body.OutputPath,
		Strict:     body.Strict,
		Mode:       body.Mode,
		Range:      body.Range,
	}

	if cached, err := s.cache.Get(ctx, id, cp.Version, opts); err != nil {
		log.Printf("timeline-engine: manifest cache get: %v", err)
	} else if cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	manifest, err := render.NewManifest(info.ProjectID, id, cp.Version, cp.Snapshot, opts)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.cache.Put(ctx, manifest, opts); err != nil {
		log.Printf("timeline-engine: manifest cache put: %v", err)
	}

	s.publishEvent(ctx, map[string]any{
		"type":       "timeline.render",
		"timelineId": id,
		"version":    cp.Version,
		"jobId":      manifest.JobID,
		"preset":     preset.Name,
	})
	writeJSON(w, http.StatusCreated, manifest)
}
