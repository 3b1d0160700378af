package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// Input is one media file fed to ffmpeg, in -i order.
type Input struct {
	AssetID string `json:"assetId"`
	Path    string `json:"path"`
}

// Options control a single compile.
type Options struct {
	Preset     Preset
	AssetPaths map[string]string // asset id -> local path
	OutputPath string
	// Strict rejects unresolved assets instead of degrading them to
	// blank segments.
	Strict bool
	// Mode tells the executor how to run the job; defaults to "full".
	Mode string
	// Range optionally bounds the output to a sub-range of the program.
	Range *opentime.TimeRange
}

// Plan is the deterministic compile output: the resolved inputs, the
// complete filter graph text and the labels of its two final streams.
// Two compiles of the same snapshot with the same options produce
// byte-identical plans.
type Plan struct {
	Inputs      []Input             `json:"inputs"`
	FilterGraph string              `json:"filterGraph"`
	VideoLabel  string              `json:"videoLabel"`
	AudioLabel  string              `json:"audioLabel"`
	Duration    float64             `json:"duration"`
	Preset      Preset              `json:"preset"`
	OutputPath  string              `json:"outputPath"`
	Range       *opentime.TimeRange `json:"range,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// Compile flattens a timeline snapshot into an ffmpeg filter graph.
func Compile(tl *timeline.Timeline, opts Options) (*Plan, error) {
	preset := opts.Preset.normalized()
	if err := validateTimeline(tl); err != nil {
		return nil, err
	}

	b := &builder{preset: preset, inputIndex: map[string]int{}}
	inputs, missing := b.collectInputs(tl, opts.AssetPaths)
	if len(missing) > 0 {
		if opts.Strict {
			return nil, &MissingAssetsError{IDs: missing}
		}
		for _, id := range missing {
			b.warnf("asset %q unresolved, rendered as blank", id)
		}
	}

	vLabel, duration := b.composeVideo(tl)
	aLabel := b.composeAudio(tl, duration)

	// rename the finals so -map targets are stable regardless of how many
	// intermediate labels the graph needed
	b.add(fmt.Sprintf("[%s]format=%s[vout]", vLabel, preset.PixelFormat))
	b.add(fmt.Sprintf("[%s]anull[aout]", aLabel))

	return &Plan{
		Inputs:      inputs,
		FilterGraph: strings.Join(b.chains, ";"),
		VideoLabel:  "vout",
		AudioLabel:  "aout",
		Duration:    duration,
		Preset:      preset,
		OutputPath:  opts.OutputPath,
		Range:       opts.Range,
		Warnings:    b.warnings,
	}, nil
}

// collectInputs walks every clip in encounter order, assigning input
// indexes to resolvable external references. Missing asset ids come back
// sorted so the error text is stable.
func (b *builder) collectInputs(tl *timeline.Timeline, paths map[string]string) ([]Input, []string) {
	var inputs []Input
	missingSet := map[string]bool{}

	tl.EachClip(func(_ *timeline.Track, c *timeline.Clip) {
		ref, ok := c.Media.(*timeline.ExternalReference)
		if !ok || ref.AssetID == "" {
			return
		}
		if _, seen := b.inputIndex[ref.AssetID]; seen || missingSet[ref.AssetID] {
			return
		}
		path, resolved := paths[ref.AssetID]
		if !resolved {
			missingSet[ref.AssetID] = true
			return
		}
		b.inputIndex[ref.AssetID] = len(inputs)
		inputs = append(inputs, Input{AssetID: ref.AssetID, Path: path})
	})

	missing := make([]string, 0, len(missingSet))
	for id := range missingSet {
		missing = append(missing, id)
	}
	sort.Strings(missing)
	return inputs, missing
}

// composeVideo renders every video track and layers them. The first video
// track sets the program duration; higher tracks overlay on top of it.
func (b *builder) composeVideo(tl *timeline.Timeline) (string, float64) {
	tracks := tl.VideoTracks()

	var labels []string
	var durations []float64
	for _, tr := range tracks {
		segs := b.linearizeTrack(tr)
		if len(segs) == 0 {
			continue
		}
		segLabels := make([]string, len(segs))
		for i, s := range segs {
			segLabels[i] = b.videoSegment(s)
		}
		labels = append(labels, b.stitchVideo(segs, segLabels))
		durations = append(durations, trackDuration(segs))
	}

	if len(labels) == 0 {
		out := b.label("v")
		b.add(fmt.Sprintf("color=c=black:s=%dx%d:r=%s:d=0.04[%s]",
			b.preset.Width, b.preset.Height, ftoa(b.preset.FPS), out))
		return out, 0
	}

	// the first track sets the program length; shorter upper tracks are
	// padded with transparency so every layer spans the same range
	target := durations[0]
	base := labels[0]
	for i := 1; i < len(labels); i++ {
		layer := labels[i]
		if durations[i] < target {
			padded := b.label("v")
			b.add(fmt.Sprintf("[%s]format=yuva420p,tpad=stop_duration=%s:color=black@0.0[%s]",
				layer, ftoa(target-durations[i]), padded))
			layer = padded
		}
		next := b.label("v")
		b.add(fmt.Sprintf("[%s][%s]overlay=shortest=0:eof_action=pass[%s]", base, layer, next))
		base = next
	}
	return base, target
}

// stitchVideo joins per-segment labels in order. A segment opening with a
// transition cross-fades over the preceding output; the fade offset is
// the elapsed track output up to that boundary minus the blend duration.
func (b *builder) stitchVideo(segs []segment, labels []string) string {
	cur := labels[0]
	elapsed := segs[0].duration
	for i := 1; i < len(labels); i++ {
		next := b.label("v")
		var d float64
		if t := segs[i].transitionIn; t != nil {
			d = clampTransition(t, segs[i-1].duration, segs[i].duration)
		}
		if d > 0 {
			offset := elapsed - d
			b.add(fmt.Sprintf("[%s][%s]xfade=transition=%s:duration=%s:offset=%s[%s]",
				cur, labels[i], xfadeName(segs[i].transitionIn.TransitionType), ftoa(d), ftoa(offset), next))
			elapsed += segs[i].duration - d
		} else {
			b.add(fmt.Sprintf("[%s][%s]concat=n=2:v=1:a=0[%s]", cur, labels[i], next))
			elapsed += segs[i].duration
		}
		cur = next
	}
	return cur
}

// composeAudio renders every audio track and mixes them into one stream.
// A timeline without audio tracks gets program-length silence so the
// output container always carries an audio stream.
func (b *builder) composeAudio(tl *timeline.Timeline, programDur float64) string {
	var trackLabels []string
	for _, tr := range tl.AudioTracks() {
		segs := b.linearizeTrack(tr)
		if len(segs) == 0 {
			continue
		}
		segLabels := make([]string, len(segs))
		for i, s := range segs {
			segLabels[i] = b.audioSegment(s)
		}
		trackLabels = append(trackLabels, b.stitchAudio(segs, segLabels))
	}
	if len(trackLabels) == 0 {
		out := b.label("a")
		d := programDur
		if d <= 0 {
			d = 0.04
		}
		b.add(fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d,atrim=duration=%s[%s]",
			b.preset.SampleRate, ftoa(d), out))
		return out
	}
	return b.mixAudio(trackLabels)
}

func xfadeName(transitionType string) string {
	switch transitionType {
	case timeline.TransitionTypeDissolve, "":
		return "fade"
	case "SMPTE_WipeLeft":
		return "wipeleft"
	case "SMPTE_WipeRight":
		return "wiperight"
	case "FadeToBlack":
		return "fadeblack"
	default:
		return "fade"
	}
}
