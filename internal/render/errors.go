package render

import (
	"fmt"
	"strings"
)

// ValidationError means the snapshot cannot produce output at all: no
// tracks, or no clips to render.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "render validation: " + e.Reason }

// MissingAssetsError aggregates every unresolved asset id instead of
// failing on the first one.
type MissingAssetsError struct {
	IDs []string
}

func (e *MissingAssetsError) Error() string {
	return fmt.Sprintf("missing assets: %s", strings.Join(e.IDs, ", "))
}
