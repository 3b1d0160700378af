package render

import "github.com/rudrasingh500/agentic-video-editor-sub000/internal/timeline"

// validateTimeline rejects snapshots that cannot produce any program
// output before a single filter chain is emitted.
func validateTimeline(tl *timeline.Timeline) error {
	if tl == nil {
		return &ValidationError{Reason: "timeline is nil"}
	}
	if err := tl.Validate(); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	if len(tl.VideoTracks()) == 0 {
		return &ValidationError{Reason: "timeline has no video tracks"}
	}

	renderable := 0
	tl.EachClip(func(_ *timeline.Track, c *timeline.Clip) {
		if c.SourceRange.Duration.Seconds() > 0 {
			renderable++
		}
	})
	if renderable == 0 {
		return &ValidationError{Reason: "timeline has no renderable clips"}
	}
	return nil
}
