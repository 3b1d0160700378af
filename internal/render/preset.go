// Package render compiles an immutable timeline snapshot plus an
// asset-id to file-path map and a quality preset into a deterministic
// ffmpeg filter graph and command. Compilation is a pure function of its
// inputs: no state survives between builds, so the same checkpoint always
// compiles to byte-identical output.
package render

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset captures the output side of a render: canvas, frame rate,
// encoder choice and audio format.
type Preset struct {
	Name         string  `yaml:"name" json:"name"`
	Width        int     `yaml:"width" json:"width"`
	Height       int     `yaml:"height" json:"height"`
	FPS          float64 `yaml:"fps" json:"fps"`
	VideoCodec   string  `yaml:"video_codec" json:"videoCodec"`
	Quality      int     `yaml:"quality" json:"quality"` // CRF on CPU, CQ on GPU
	UseGPU       bool    `yaml:"use_gpu" json:"useGpu"`
	PixelFormat  string  `yaml:"pixel_format" json:"pixelFormat"`
	AudioCodec   string  `yaml:"audio_codec" json:"audioCodec"`
	AudioBitrate string  `yaml:"audio_bitrate" json:"audioBitrate"`
	SampleRate   int     `yaml:"sample_rate" json:"sampleRate"`
	Channels     int     `yaml:"channels" json:"channels"`
	FastStart    bool    `yaml:"fast_start" json:"fastStart"`
}

// Built-in presets; a YAML file can add to or override these.
var builtinPresets = map[string]Preset{
	"youtube_1080p": {
		Name: "youtube_1080p", Width: 1920, Height: 1080, FPS: 30,
		VideoCodec: "h264", Quality: 18, PixelFormat: "yuv420p",
		AudioCodec: "aac", AudioBitrate: "192k", SampleRate: 48000, Channels: 2,
		FastStart: true,
	},
	"draft_720p": {
		Name: "draft_720p", Width: 1280, Height: 720, FPS: 30,
		VideoCodec: "h264", Quality: 28, PixelFormat: "yuv420p",
		AudioCodec: "aac", AudioBitrate: "128k", SampleRate: 44100, Channels: 2,
		FastStart: false,
	},
	"vertical_social": {
		Name: "vertical_social", Width: 1080, Height: 1920, FPS: 30,
		VideoCodec: "h264", Quality: 20, PixelFormat: "yuv420p",
		AudioCodec: "aac", AudioBitrate: "192k", SampleRate: 48000, Channels: 2,
		FastStart: true,
	},
}

// LookupPreset returns a built-in preset by name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := builtinPresets[name]
	return p, ok
}

// DefaultPreset is what renders use when no preset is named.
func DefaultPreset() Preset {
	return builtinPresets["youtube_1080p"]
}

// LoadPresetFile reads additional presets from a YAML file keyed by name.
func LoadPresetFile(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file struct {
		Presets map[string]Preset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse preset file %s: %w", path, err)
	}
	for name, p := range file.Presets {
		if p.Name == "" {
			p.Name = name
			file.Presets[name] = p
		}
	}
	return file.Presets, nil
}

func (p Preset) normalized() Preset {
	if p.Width <= 0 {
		p.Width = 1920
	}
	if p.Height <= 0 {
		p.Height = 1080
	}
	if p.FPS <= 0 {
		p.FPS = 30
	}
	if p.Quality <= 0 {
		p.Quality = 18
	}
	if p.PixelFormat == "" {
		p.PixelFormat = "yuv420p"
	}
	if p.AudioCodec == "" {
		p.AudioCodec = "aac"
	}
	if p.AudioBitrate == "" {
		p.AudioBitrate = "192k"
	}
	if p.SampleRate <= 0 {
		p.SampleRate = 48000
	}
	if p.Channels <= 0 {
		p.Channels = 2
	}
	return p
}
