package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/checkpoint"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/editor"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/render"
)

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps engine errors onto HTTP statuses. Version
// conflicts carry both versions so the client can refetch and retry.
func writeDomainError(w http.ResponseWriter, err error) {
	if conflict, ok := checkpoint.IsConflict(err); ok {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":           "version conflict",
			"expectedVersion": conflict.Expected,
			"currentVersion":  conflict.Current,
		})
		return
	}
	if errors.Is(err, checkpoint.ErrTimelineNotFound) || errors.Is(err, checkpoint.ErrCheckpointNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var invalid *editor.InvalidOperationError
	if errors.As(err, &invalid) {
		writeError(w, http.StatusBadRequest, invalid.Error())
		return
	}
	var validation *render.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusUnprocessableEntity, validation.Error())
		return
	}
	var missing *render.MissingAssetsError
	if errors.As(err, &missing) {
		writeError(w, http.StatusUnprocessableEntity, missing.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}
