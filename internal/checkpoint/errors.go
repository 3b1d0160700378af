package checkpoint

import (
	"errors"
	"fmt"
)

var (
	ErrTimelineNotFound   = errors.New("timeline not found")
	ErrCheckpointNotFound = errors.New("checkpoint not found")
)

// VersionConflictError is the CAS failure: the caller's expected version
// went stale. Recoverable by re-fetching the current version and retrying;
// retry policy belongs to the caller, never the store.
type VersionConflictError struct {
	Expected int
	Current  int
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict: expected %d, current %d", e.Expected, e.Current)
}

// IsConflict reports whether err is a version conflict and returns it.
func IsConflict(err error) (*VersionConflictError, bool) {
	var vc *VersionConflictError
	if errors.As(err, &vc) {
		return vc, true
	}
	return nil, false
}
