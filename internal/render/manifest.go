package render

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// Manifest is the self-contained description of one render job: which
// checkpoint it renders, the compiled plan and the command to run. A
// worker needs nothing else to execute it.
type Manifest struct {
	JobID           string              `json:"jobId"`
	ProjectID       string              `json:"projectId"`
	TimelineID      string              `json:"timelineId"`
	TimelineVersion int                 `json:"timelineVersion"`
	PresetName      string              `json:"presetName"`
	Mode            string              `json:"mode"`
	Snapshot        *timeline.Timeline  `json:"snapshot"`
	AssetPaths      map[string]string   `json:"assetPaths"`
	FrameRange      *opentime.TimeRange `json:"frameRange,omitempty"`
	Plan            *Plan               `json:"plan"`
	Command         []string            `json:"command"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// NewManifest compiles a snapshot and wraps the result in a job manifest.
func NewManifest(projectID, timelineID string, version int, tl *timeline.Timeline, opts Options) (*Manifest, error) {
	plan, err := Compile(tl, opts)
	if err != nil {
		return nil, err
	}
	mode := opts.Mode
	if mode == "" {
		mode = "full"
	}
	return &Manifest{
		JobID:           uuid.NewString(),
		ProjectID:       projectID,
		TimelineID:      timelineID,
		TimelineVersion: version,
		PresetName:      opts.Preset.Name,
		Mode:            mode,
		Snapshot:        tl,
		AssetPaths:      opts.AssetPaths,
		FrameRange:      opts.Range,
		Plan:            plan,
		Command:         plan.Command(),
		CreatedAt:       time.Now().UTC(),
	}, nil
}

func (m *Manifest) MarshalBinary() ([]byte, error) { return json.Marshal(m) }
func (m *Manifest) UnmarshalBinary(b []byte) error { return json.Unmarshal(b, m) }
