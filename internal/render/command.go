package render

import "strconv"

// Command assembles the full ffmpeg argument list for a plan. The slice
// starts with the binary name so it can be handed to exec verbatim.
func (p *Plan) Command() []string {
	args := []string{"ffmpeg", "-y", "-hide_banner"}

	for _, in := range p.Inputs {
		args = append(args, "-i", in.Path)
	}

	args = append(args,
		"-filter_complex", p.FilterGraph,
		"-map", "["+p.VideoLabel+"]",
		"-map", "["+p.AudioLabel+"]",
	)

	if p.Preset.UseGPU {
		args = append(args,
			"-c:v", "h264_nvenc",
			"-preset", "p5",
			"-cq", strconv.Itoa(p.Preset.Quality),
		)
	} else {
		args = append(args,
			"-c:v", "libx264",
			"-preset", "medium",
			"-crf", strconv.Itoa(p.Preset.Quality),
		)
	}
	args = append(args,
		"-pix_fmt", p.Preset.PixelFormat,
		"-r", ftoa(p.Preset.FPS),
		"-c:a", p.Preset.AudioCodec,
		"-b:a", p.Preset.AudioBitrate,
		"-ar", strconv.Itoa(p.Preset.SampleRate),
		"-ac", strconv.Itoa(p.Preset.Channels),
	)
	if p.Preset.FastStart {
		args = append(args, "-movflags", "+faststart")
	}
	if p.Range != nil {
		if start := p.Range.StartTime.Seconds(); start > 0 {
			args = append(args, "-ss", ftoa(start))
		}
		args = append(args, "-t", ftoa(p.Range.Duration.Seconds()))
	} else if p.Duration > 0 {
		args = append(args, "-t", ftoa(p.Duration))
	}

	out := p.OutputPath
	if out == "" {
		out = "output.mp4"
	}
	return append(args, out)
}
