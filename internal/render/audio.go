package render

import (
	"fmt"
	"math"
)

// atempoChain decomposes an arbitrary positive speed factor into stages
// the tempo filter accepts, each within [0.5, 2.0].
func atempoChain(speed float64) []float64 {
	if speed <= 0 || speed == 1 {
		return nil
	}
	var stages []float64
	for speed > 2.0 {
		stages = append(stages, 2.0)
		speed /= 2.0
	}
	for speed < 0.5 {
		stages = append(stages, 0.5)
		speed /= 0.5
	}
	// round away float drift so e.g. 4.0 decomposes to exactly [2, 2]
	speed = math.Round(speed*1e9) / 1e9
	if speed != 1 {
		stages = append(stages, speed)
	}
	return stages
}

// audioSegment emits the filter chain for one segment's audio and returns
// its output label. Segments with no decodable audio get rendered silence
// so downstream concatenation always has equal stream counts.
func (b *builder) audioSegment(seg segment) string {
	out := b.label("a")
	if seg.kind != segClip || seg.freeze {
		// blanks, generators and frozen frames carry silence
		b.add(fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d,atrim=duration=%s[%s]",
			b.preset.SampleRate, ftoa(seg.duration), out))
		return out
	}

	chain := fmt.Sprintf("[%d:a]atrim=start=%s:duration=%s,asetpts=PTS-STARTPTS,aresample=%d",
		seg.inputIndex, ftoa(seg.sourceStart), ftoa(seg.sourceDur), b.preset.SampleRate)
	for _, stage := range atempoChain(seg.speed) {
		chain += fmt.Sprintf(",atempo=%s", ftoa(stage))
	}
	b.add(fmt.Sprintf("%s[%s]", chain, out))
	return out
}

// stitchAudio joins per-segment audio labels in order, applying an
// acrossfade wherever the following segment opened with a transition.
func (b *builder) stitchAudio(segs []segment, labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	cur := labels[0]
	for i := 1; i < len(labels); i++ {
		next := b.label("a")
		var d float64
		if t := segs[i].transitionIn; t != nil {
			d = clampTransition(t, segs[i-1].duration, segs[i].duration)
		}
		if d > 0 {
			b.add(fmt.Sprintf("[%s][%s]acrossfade=d=%s:c1=tri:c2=tri[%s]", cur, labels[i], ftoa(d), next))
		} else {
			b.add(fmt.Sprintf("[%s][%s]concat=n=2:v=0:a=1[%s]", cur, labels[i], next))
		}
		cur = next
	}
	return cur
}

// mixAudio combines the per-track audio masters into one output stream.
func (b *builder) mixAudio(trackLabels []string) string {
	switch len(trackLabels) {
	case 0:
		out := b.label("a")
		b.add(fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d,atrim=duration=0.04[%s]",
			b.preset.SampleRate, out))
		return out
	case 1:
		return trackLabels[0]
	}
	out := b.label("a")
	inputs := ""
	for _, l := range trackLabels {
		inputs += "[" + l + "]"
	}
	b.add(fmt.Sprintf("%samix=inputs=%d:duration=longest:normalize=0[%s]", inputs, len(trackLabels), out))
	return out
}
