package render

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookupPreset(t *testing.T) {
	p, ok := LookupPreset("youtube_1080p")
	if !ok || p.Width != 1920 || p.Height != 1080 {
		t.Fatalf("youtube_1080p = %+v, ok=%v", p, ok)
	}
	if _, ok := LookupPreset("nope"); ok {
		t.Fatal("unknown preset should not resolve")
	}
}

func TestLoadPresetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	data := `presets:
  archive_4k:
    width: 3840
    height: 2160
    fps: 25
    quality: 16
    use_gpu: true
    audio_bitrate: 320k
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	presets, err := LoadPresetFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, ok := presets["archive_4k"]
	if !ok {
		t.Fatalf("archive_4k missing from %v", presets)
	}
	if p.Name != "archive_4k" {
		t.Fatalf("name should default to the map key, got %q", p.Name)
	}
	if p.Width != 3840 || p.FPS != 25 || !p.UseGPU || p.AudioBitrate != "320k" {
		t.Fatalf("parsed preset = %+v", p)
	}
}

func TestPresetNormalized(t *testing.T) {
	p := Preset{Name: "bare"}.normalized()
	if p.Width != 1920 || p.Height != 1080 || p.FPS != 30 {
		t.Fatalf("canvas defaults = %+v", p)
	}
	if p.PixelFormat != "yuv420p" || p.AudioCodec != "aac" || p.SampleRate != 48000 {
		t.Fatalf("format defaults = %+v", p)
	}
}
