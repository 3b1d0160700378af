package render

import (
	"strings"
	"testing"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
)

func TestNewManifest(t *testing.T) {
	tl := testTimeline(videoTrack("V1", extClip("a", "asset-a", 96)))
	r := opentime.NewTimeRange(opentime.NewRationalTime(24, 24), opentime.NewRationalTime(48, 24))

	m, err := NewManifest("proj-1", "tl-1", 7, tl, Options{
		Preset:     DefaultPreset(),
		AssetPaths: testAssets(),
		OutputPath: "/out/cut.mp4",
		Mode:       "preview",
		Range:      &r,
	})
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}

	if m.JobID == "" {
		t.Fatal("manifest needs a job id")
	}
	if m.ProjectID != "proj-1" || m.TimelineID != "tl-1" || m.TimelineVersion != 7 {
		t.Fatalf("identity fields = %+v", m)
	}
	if m.Mode != "preview" {
		t.Fatalf("mode = %q", m.Mode)
	}
	if m.Snapshot == nil || m.AssetPaths == nil || m.FrameRange == nil {
		t.Fatal("manifest must carry snapshot, asset map and frame range")
	}

	// the bounded range replaces the full program duration on the command
	args := strings.Join(m.Command, " ")
	if !strings.Contains(args, "-ss 1") || !strings.Contains(args, "-t 2") {
		t.Fatalf("range not applied: %s", args)
	}
}

func TestNewManifestDefaultsMode(t *testing.T) {
	tl := testTimeline(videoTrack("V1", extClip("a", "asset-a", 48)))
	m, err := NewManifest("proj-1", "tl-1", 1, tl, Options{
		Preset:     DefaultPreset(),
		AssetPaths: testAssets(),
	})
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if m.Mode != "full" {
		t.Fatalf("mode = %q, want full", m.Mode)
	}
	if m.Plan == nil || len(m.Command) == 0 {
		t.Fatal("manifest must embed the compiled plan and command")
	}
}
