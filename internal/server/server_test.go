package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/checkpoint"
)

func newTestRouter(t *testing.T) (http.Handler, *checkpoint.MemStore) {
	t.Helper()
	store := checkpoint.NewMemStore()
	srv := NewServer(store, nil, nil)
	return srv.Router(), store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-User-Id", "user-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createTimeline(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/timelines", map[string]any{
		"projectId": "proj-1",
		"name":      "cut one",
		"rate":      24,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create timeline: %d %s", rec.Code, rec.Body.String())
	}
	var info checkpoint.TimelineInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	return info.ID
}

// postOp submits one editing operation and returns the response.
func postOp(t *testing.T, h http.Handler, id string, expected int, opType string, params map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, h, http.MethodPost, "/timelines/"+id+"/operations", map[string]any{
		"type":            opType,
		"expectedVersion": expected,
		"params":          params,
	})
}

func TestHandleCreateTimeline_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
	}{
		{
			name:     "Missing Name",
			body:     map[string]any{"projectId": "p"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Missing Project",
			body:     map[string]any{"name": "x"},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestRouter(t)
			rec := doJSON(t, h, http.MethodPost, "/timelines", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestTimelineLifecycle(t *testing.T) {
	h, _ := newTestRouter(t)
	id := createTimeline(t, h)

	rec := doJSON(t, h, http.MethodGet, "/timelines/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Checkpoint checkpoint.Checkpoint `json:"checkpoint"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Checkpoint.Version != 0 {
		t.Fatalf("fresh timeline at version %d, want 0", got.Checkpoint.Version)
	}

	rec = doJSON(t, h, http.MethodDelete, "/timelines/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/timelines/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d, want 404", rec.Code)
	}
}

func TestHandleOperation(t *testing.T) {
	h, _ := newTestRouter(t)
	id := createTimeline(t, h)

	rec := postOp(t, h, id, 0, "add_track", map[string]any{"name": "V1", "kind": "Video"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add_track: %d %s", rec.Code, rec.Body.String())
	}
	var cp checkpoint.Checkpoint
	if err := json.Unmarshal(rec.Body.Bytes(), &cp); err != nil {
		t.Fatal(err)
	}
	if cp.Version != 1 {
		t.Fatalf("version = %d, want 1", cp.Version)
	}
	if cp.Operation == nil || cp.Operation.Type != "add_track" {
		t.Fatalf("operation record = %+v", cp.Operation)
	}

	rec = postOp(t, h, id, 1, "add_clip", map[string]any{
		"track": 0,
		"name":  "intro",
		"media": map[string]any{"schema": "ExternalReference.1", "asset_id": "asset-a"},
		"source_range": map[string]any{
			"start_time": map[string]any{"value": 0, "rate": 24},
			"duration":   map[string]any{"value": 48, "rate": 24},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add_clip: %d %s", rec.Code, rec.Body.String())
	}
}

func TestHandleOperation_Errors(t *testing.T) {
	h, _ := newTestRouter(t)
	id := createTimeline(t, h)

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
	}{
		{
			name:     "Missing Type",
			body:     map[string]any{"expectedVersion": 0, "params": map[string]any{}},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Missing Expected Version",
			body:     map[string]any{"type": "add_track", "params": map[string]any{}},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "Unknown Operation",
			body: map[string]any{
				"type": "explode", "expectedVersion": 0, "params": map[string]any{},
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "Bad Track Kind",
			body: map[string]any{
				"type": "add_track", "expectedVersion": 0,
				"params": map[string]any{"name": "X", "kind": "Subtitle"},
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/timelines/"+id+"/operations", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestHandleOperation_VersionConflict(t *testing.T) {
	h, _ := newTestRouter(t)
	id := createTimeline(t, h)

	if rec := postOp(t, h, id, 0, "add_track", map[string]any{"name": "V1", "kind": "Video"}); rec.Code != http.StatusCreated {
		t.Fatalf("setup: %d", rec.Code)
	}

	rec := postOp(t, h, id, 0, "add_track", map[string]any{"name": "A1", "kind": "Audio"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("stale write: %d, want 409: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		ExpectedVersion int `json:"expectedVersion"`
		CurrentVersion  int `json:"currentVersion"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.ExpectedVersion != 0 || body.CurrentVersion != 1 {
		t.Fatalf("conflict body = %+v", body)
	}
}

func TestCheckpointHistoryAndRollback(t *testing.T) {
	h, _ := newTestRouter(t)
	id := createTimeline(t, h)

	postOp(t, h, id, 0, "add_track", map[string]any{"name": "V1", "kind": "Video"})
	postOp(t, h, id, 1, "rename_track", map[string]any{"track": 0, "name": "Main"})

	rec := doJSON(t, h, http.MethodGet, "/timelines/"+id+"/checkpoints", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	var page checkpoint.Page
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || page.Checkpoints[0].Version != 2 {
		t.Fatalf("page = total %d, first version %d", page.Total, page.Checkpoints[0].Version)
	}

	rec = doJSON(t, h, http.MethodPost, "/timelines/"+id+"/checkpoints/2/approve", map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/timelines/"+id+"/diff?from=0&to=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("diff: %d %s", rec.Code, rec.Body.String())
	}
	var diff checkpoint.Diff
	if err := json.Unmarshal(rec.Body.Bytes(), &diff); err != nil {
		t.Fatal(err)
	}
	if len(diff.AddedTracks) != 1 {
		t.Fatalf("diff = %+v", diff)
	}

	rec = doJSON(t, h, http.MethodPost, "/timelines/"+id+"/rollback", map[string]any{
		"targetVersion":   0,
		"expectedVersion": 2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("rollback: %d %s", rec.Code, rec.Body.String())
	}
	var cp checkpoint.Checkpoint
	if err := json.Unmarshal(rec.Body.Bytes(), &cp); err != nil {
		t.Fatal(err)
	}
	if cp.Version != 3 {
		t.Fatalf("rollback landed at version %d, want 3", cp.Version)
	}
}

func TestHandleRender(t *testing.T) {
	h, _ := newTestRouter(t)
	id := createTimeline(t, h)

	postOp(t, h, id, 0, "add_track", map[string]any{"name": "V1", "kind": "Video"})
	rec := postOp(t, h, id, 1, "add_clip", map[string]any{
		"track": 0,
		"name":  "slate",
		"media": map[string]any{
			"schema":     "GeneratorReference.1",
			"kind":       "solid_color",
			"parameters": map[string]any{"color": "black"},
		},
		"source_range": map[string]any{
			"start_time": map[string]any{"value": 0, "rate": 24},
			"duration":   map[string]any{"value": 48, "rate": 24},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add_clip: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/timelines/"+id+"/render", map[string]any{
		"preset":     "draft_720p",
		"outputPath": "/out/draft.mp4",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("render: %d %s", rec.Code, rec.Body.String())
	}
	var manifest struct {
		JobID           string   `json:"jobId"`
		TimelineVersion int      `json:"timelineVersion"`
		Command         []string `json:"command"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &manifest); err != nil {
		t.Fatal(err)
	}
	if manifest.JobID == "" || manifest.TimelineVersion != 2 {
		t.Fatalf("manifest = %+v", manifest)
	}
	if len(manifest.Command) == 0 || manifest.Command[0] != "ffmpeg" {
		t.Fatalf("command = %v", manifest.Command)
	}
}

func TestHandleRenderDifferingOptions(t *testing.T) {
	h, _ := newTestRouter(t)
	id := createTimeline(t, h)

	postOp(t, h, id, 0, "add_track", map[string]any{"name": "V1", "kind": "Video"})
	postOp(t, h, id, 1, "add_clip", map[string]any{
		"track": 0,
		"name":  "slate",
		"media": map[string]any{
			"schema":     "GeneratorReference.1",
			"kind":       "solid_color",
			"parameters": map[string]any{"color": "black"},
		},
		"source_range": map[string]any{
			"start_time": map[string]any{"value": 0, "rate": 24},
			"duration":   map[string]any{"value": 96, "rate": 24},
		},
	})

	type renderOut struct {
		Command    []string        `json:"command"`
		FrameRange *map[string]any `json:"frameRange"`
	}
	renderWith := func(body map[string]any) renderOut {
		rec := doJSON(t, h, http.MethodPost, "/timelines/"+id+"/render", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("render: %d %s", rec.Code, rec.Body.String())
		}
		var m renderOut
		if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
			t.Fatal(err)
		}
		return m
	}

	// same checkpoint, different options: each response must reflect its
	// own request, never an earlier compile's
	plain := renderWith(map[string]any{})
	custom := renderWith(map[string]any{
		"outputPath": "/out/custom.mp4",
		"range": map[string]any{
			"start_time": map[string]any{"value": 24, "rate": 24},
			"duration":   map[string]any{"value": 48, "rate": 24},
		},
	})

	if plain.Command[len(plain.Command)-1] != "output.mp4" {
		t.Fatalf("plain output = %v", plain.Command[len(plain.Command)-1])
	}
	if custom.Command[len(custom.Command)-1] != "/out/custom.mp4" {
		t.Fatalf("custom output = %v", custom.Command[len(custom.Command)-1])
	}
	if plain.FrameRange != nil {
		t.Fatalf("plain render carries a frame range: %v", *plain.FrameRange)
	}
	if custom.FrameRange == nil {
		t.Fatal("ranged render lost its frame range")
	}
}

func TestHandleRender_Errors(t *testing.T) {
	h, _ := newTestRouter(t)
	id := createTimeline(t, h)

	rec := doJSON(t, h, http.MethodPost, "/timelines/"+id+"/render", map[string]any{
		"preset": "betamax",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown preset: %d, want 400", rec.Code)
	}

	// a fresh timeline has nothing to render
	rec = doJSON(t, h, http.MethodPost, "/timelines/"+id+"/render", map[string]any{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty timeline: %d, want 422: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/timelines/%s/render", "missing-id"), map[string]any{})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing timeline: %d, want 404", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
}
