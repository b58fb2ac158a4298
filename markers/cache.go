package markers

import (
	"time"

	"github.com/halcyon-player/halcyon/filesystem"
	"github.com/halcyon-player/halcyon/where"
	"github.com/metafates/gache"
)

// Source yields the marker set for a media item.
type Source interface {
	Fetch(mediaID string) (Set, error)
}

// CachedSource wraps a Source with a disk-backed registry so each item's
// markers are fetched from the network at most once per cache lifetime.
type CachedSource struct {
	inner  Source
	cacher *gache.Cache[map[string]Set]
}

// NewCachedSource builds the store-back cache around the given source.
func NewCachedSource(inner Source, lifetime time.Duration) *CachedSource {
	return &CachedSource{
		inner: inner,
		cacher: gache.New[map[string]Set](&gache.Options{
			Path:       where.Markers(),
			Lifetime:   lifetime,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

// Fetch returns cached markers when present, otherwise fetches and stores back.
func (c *CachedSource) Fetch(mediaID string) (Set, error) {
	cached, expired, err := c.cacher.Get()
	if err == nil && !expired && cached != nil {
		if set, ok := cached[mediaID]; ok {
			return set, nil
		}
	}

	set, err := c.inner.Fetch(mediaID)
	if err != nil {
		return Set{}, err
	}

	if cached == nil || expired {
		cached = make(map[string]Set)
	}
	cached[mediaID] = set
	_ = c.cacher.Set(cached)

	return set, nil
}
