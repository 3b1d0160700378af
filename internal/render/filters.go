package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"
)

// ftoa renders a float for a filter expression: fixed precision trimmed
// of trailing zeros so identical inputs always yield identical text.
func ftoa(f float64) string {
	s := strconv.FormatFloat(math.Round(f*1e6)/1e6, 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}

// builder holds the per-build state: label counters and accumulated
// filter chains. A fresh builder is made for every compile, which is what
// keeps generated label names deterministic.
type builder struct {
	preset     Preset
	inputIndex map[string]int
	chains     []string
	labelSeq   int
	warnings   []string
}

func (b *builder) label(prefix string) string {
	l := fmt.Sprintf("%s%d", prefix, b.labelSeq)
	b.labelSeq++
	return l
}

func (b *builder) add(chain string) {
	b.chains = append(b.chains, chain)
}

func (b *builder) warnf(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// --- per-segment video chains ---

// videoSegment emits the filter chain for one segment and returns its
// output label.
func (b *builder) videoSegment(seg segment) string {
	var out string
	switch seg.kind {
	case segBlank:
		out = b.label("v")
		b.add(fmt.Sprintf("color=c=black:s=%dx%d:r=%s:d=%s[%s]",
			b.preset.Width, b.preset.Height, ftoa(b.preset.FPS), ftoa(seg.duration), out))
		return out
	case segGenerator:
		out = b.generatorSource(seg)
	default:
		out = b.label("v")
		b.add(fmt.Sprintf("[%d:v]trim=start=%s:duration=%s,setpts=PTS-STARTPTS,scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,fps=%s[%s]",
			seg.inputIndex, ftoa(seg.sourceStart), ftoa(seg.sourceDur),
			b.preset.Width, b.preset.Height, b.preset.Width, b.preset.Height,
			ftoa(b.preset.FPS), out))
	}

	if seg.freeze {
		// the selected frame already occupies one frame period, so the
		// clone pad covers the remainder, keeping the segment exactly
		// seg.duration long
		hold := seg.duration - 1/b.preset.FPS
		if hold < 0 {
			hold = 0
		}
		next := b.label("v")
		b.add(fmt.Sprintf("[%s]select='eq(n\\,0)',tpad=stop_mode=clone:stop_duration=%s,setpts=PTS-STARTPTS[%s]",
			out, ftoa(hold), next))
		out = next
	} else if seg.speed != 1 && seg.speed > 0 {
		next := b.label("v")
		b.add(fmt.Sprintf("[%s]setpts=%s*PTS[%s]", out, ftoa(1/seg.speed), next))
		out = next
	}

	for _, e := range seg.effects {
		out = b.videoEffect(out, e, seg)
	}
	return out
}

func (b *builder) generatorSource(seg segment) string {
	out := b.label("v")
	size := fmt.Sprintf("%dx%d", b.preset.Width, b.preset.Height)
	switch seg.generator.Kind {
	case timeline.GeneratorBars:
		b.add(fmt.Sprintf("smptebars=s=%s:r=%s:d=%s[%s]", size, ftoa(b.preset.FPS), ftoa(seg.duration), out))
	case timeline.GeneratorCaption:
		text := escapeText(seg.generator.StringParam("text", ""))
		color := seg.generator.StringParam("font_color", "white")
		next := b.label("v")
		b.add(fmt.Sprintf("color=c=black:s=%s:r=%s:d=%s[%s]", size, ftoa(b.preset.FPS), ftoa(seg.duration), out))
		b.add(fmt.Sprintf("[%s]drawtext=text='%s':fontcolor=%s:fontsize=h/12:x=(w-text_w)/2:y=(h-text_h)/2[%s]",
			out, text, color, next))
		out = next
	default: // solid_color
		color := seg.generator.StringParam("color", "black")
		b.add(fmt.Sprintf("color=c=%s:s=%s:r=%s:d=%s[%s]", color, size, ftoa(b.preset.FPS), ftoa(seg.duration), out))
	}
	return out
}

// videoEffect appends one named effect stage, threading the label forward.
// Unknown effect names pass through untouched with a warning.
func (b *builder) videoEffect(in string, e *timeline.GenericEffect, seg segment) string {
	switch e.EffectName {
	case "color_grade":
		out := b.label("v")
		b.add(fmt.Sprintf("[%s]eq=brightness=%s:contrast=%s:saturation=%s[%s]",
			in, ftoa(e.FloatParam("brightness", 0)), ftoa(e.FloatParam("contrast", 1)),
			ftoa(e.FloatParam("saturation", 1)), out))
		return out
	case "curves":
		out := b.label("v")
		b.add(fmt.Sprintf("[%s]curves=preset=%s[%s]", in, e.StringParam("preset", "linear_contrast"), out))
		return out
	case "white_balance":
		out := b.label("v")
		b.add(fmt.Sprintf("[%s]colortemperature=temperature=%s[%s]", in, ftoa(e.FloatParam("temperature", 6500)), out))
		return out
	case "lut":
		return b.lutEffect(in, e)
	case "blur":
		out := b.label("v")
		b.add(fmt.Sprintf("[%s]gblur=sigma=%s[%s]", in, ftoa(e.FloatParam("sigma", 5)), out))
		return out
	case "vignette":
		// strength in [0,1] maps monotonically into the vignette angle
		strength := e.FloatParam("strength", 0.5)
		if strength < 0 {
			strength = 0
		}
		if strength > 1 {
			strength = 1
		}
		angle := strength * math.Pi / 4
		out := b.label("v")
		b.add(fmt.Sprintf("[%s]vignette=angle=%s[%s]", in, ftoa(angle), out))
		return out
	case "grain":
		out := b.label("v")
		b.add(fmt.Sprintf("[%s]noise=alls=%s:allf=t+u[%s]", in, ftoa(e.FloatParam("amount", 10)), out))
		return out
	case "stabilize":
		out := b.label("v")
		b.add(fmt.Sprintf("[%s]deshake[%s]", in, out))
		return out
	case "reframe":
		return b.reframeEffect(in, e)
	case "zoom":
		return b.zoomEffect(in, e, seg)
	default:
		b.warnf("unknown effect %q on %q, passed through", e.EffectName, seg.name)
		return in
	}
}

// lutEffect applies a 3D LUT. Full intensity is a direct lut3d; partial
// intensity splits the stream and blends the graded copy back over the
// original.
func (b *builder) lutEffect(in string, e *timeline.GenericEffect) string {
	path := e.StringParam("path", "")
	if path == "" {
		b.warnf("lut effect without path, skipped")
		return in
	}
	intensity := e.FloatParam("intensity", 1)
	if intensity >= 1 {
		out := b.label("v")
		b.add(fmt.Sprintf("[%s]lut3d=file='%s'[%s]", in, path, out))
		return out
	}
	plain := b.label("v")
	graded := b.label("v")
	lutted := b.label("v")
	out := b.label("v")
	b.add(fmt.Sprintf("[%s]split[%s][%s]", in, plain, graded))
	b.add(fmt.Sprintf("[%s]lut3d=file='%s'[%s]", graded, path, lutted))
	b.add(fmt.Sprintf("[%s][%s]blend=all_mode=normal:all_opacity=%s[%s]", plain, lutted, ftoa(intensity), out))
	return out
}

// reframeEffect crops and rescales. Coordinates at or below 1.0 are read
// as a ratio of the canvas and resolved against the preset resolution.
func (b *builder) reframeEffect(in string, e *timeline.GenericEffect) string {
	resolve := func(key string, full int, fallback float64) int {
		v := e.FloatParam(key, fallback)
		if v <= 1.0 {
			return int(math.Round(v * float64(full)))
		}
		return int(math.Round(v))
	}
	w := resolve("width", b.preset.Width, 1)
	h := resolve("height", b.preset.Height, 1)
	x := resolve("x", b.preset.Width, 0)
	y := resolve("y", b.preset.Height, 0)
	if w <= 0 || h <= 0 {
		b.warnf("reframe with empty crop, skipped")
		return in
	}
	out := b.label("v")
	b.add(fmt.Sprintf("[%s]crop=%d:%d:%d:%d,scale=%d:%d[%s]",
		in, w, h, x, y, b.preset.Width, b.preset.Height, out))
	return out
}

// zoomEffect emits a per-output-frame zoom expression interpolating
// start to end zoom about a normalized center.
func (b *builder) zoomEffect(in string, e *timeline.GenericEffect, seg segment) string {
	start := e.FloatParam("zoom_start", 1)
	end := e.FloatParam("zoom_end", 1.2)
	cx := e.FloatParam("center_x", 0.5)
	cy := e.FloatParam("center_y", 0.5)
	totalFrames := math.Max(1, math.Round(seg.duration*b.preset.FPS))

	out := b.label("v")
	zExpr := fmt.Sprintf("%s+(%s-%s)*on/%s", ftoa(start), ftoa(end), ftoa(start), ftoa(totalFrames))
	b.add(fmt.Sprintf("[%s]zoompan=z='%s':x='iw*%s-(iw/zoom)/2':y='ih*%s-(ih/zoom)/2':d=1:s=%dx%d:fps=%s[%s]",
		in, zExpr, ftoa(cx), ftoa(cy), b.preset.Width, b.preset.Height, ftoa(b.preset.FPS), out))
	return out
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, `:`, `\:`)
	return s
}
