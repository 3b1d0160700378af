package render

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

const manifestTTL = 24 * time.Hour

// ManifestCache keeps compiled manifests in redis so re-rendering the
// same checkpoint with the same options skips compilation. Compilation is
// deterministic, which is what makes the cache safe: a hit is guaranteed
// to equal a fresh compile.
type ManifestCache struct {
	rdb *redis.Client
}

func NewManifestCache(rdb *redis.Client) *ManifestCache {
	return &ManifestCache{rdb: rdb}
}

// manifestKey identifies one compile. Everything that shapes the output
// must land in the key: the checkpoint, the preset, and every option that
// reaches the command or the manifest (output path, strictness, mode,
// frame range).
func manifestKey(timelineID string, version int, opts Options) string {
	mode := opts.Mode
	if mode == "" {
		mode = "full"
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%t|%s", opts.OutputPath, opts.Strict, mode)
	if opts.Range != nil {
		fmt.Fprintf(h, "|%v+%v", opts.Range.StartTime, opts.Range.Duration)
	}
	return fmt.Sprintf("render:manifest:%s:%d:%s:%x", timelineID, version, opts.Preset.Name, h.Sum64())
}

// Get returns the cached manifest, or nil on a miss. Cache errors are
// returned so the caller can log them, but a miss is not an error.
func (c *ManifestCache) Get(ctx context.Context, timelineID string, version int, opts Options) (*Manifest, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, manifestKey(timelineID, version, opts)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *ManifestCache) Put(ctx context.Context, m *Manifest, opts Options) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	key := manifestKey(m.TimelineID, m.TimelineVersion, opts)
	return c.rdb.Set(ctx, key, m, manifestTTL).Err()
}
