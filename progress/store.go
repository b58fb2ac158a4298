package progress

import (
	"errors"
	"time"

	"github.com/halcyon-player/halcyon/filesystem"
	"github.com/halcyon-player/halcyon/where"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

// ErrNonPositiveDuration rejects writes that would persist meaningless progress.
var ErrNonPositiveDuration = errors.New("progress: non-positive duration")

// Store is a disk-backed registry of playback progress records keyed by media id.
type Store struct {
	cacher *gache.Cache[map[string]Record]
}

// NewStore opens the registry at the standard progress path.
func NewStore() *Store {
	return &Store{
		cacher: gache.New[map[string]Record](&gache.Options{
			Path:       where.Progress(),
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

// all returns the complete registry, mapping an empty store to an empty map.
func (s *Store) all() (map[string]Record, error) {
	cached, expired, err := s.cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]Record), nil
	}
	return cached, nil
}

// Load returns the saved progress for a media item, or None when unseen.
func (s *Store) Load(mediaID string) (mo.Option[Record], error) {
	saved, err := s.all()
	if err != nil {
		return mo.None[Record](), err
	}

	rec, ok := saved[mediaID]
	if !ok {
		return mo.None[Record](), nil
	}
	return mo.Some(rec), nil
}

// Save persists the playback progress of a media item.
//
// Idempotency: the watched flag never regresses from true to false, and a
// watched item keeps its furthest observed position, so a re-watch cannot
// erase completion state.
func (s *Store) Save(mediaID string, pos, dur time.Duration, watched bool) error {
	if dur <= 0 {
		return ErrNonPositiveDuration
	}

	saved, err := s.all()
	if err != nil {
		return err
	}

	record := NewRecord(pos, dur, watched)
	if existing, ok := saved[mediaID]; ok && existing.Watched {
		record.Watched = true
		if !watched && existing.PositionMs > record.PositionMs {
			record.PositionMs = existing.PositionMs
		}
	}

	saved[mediaID] = record
	return s.cacher.Set(saved)
}

// Remove permanently deletes the progress record of a media item.
func (s *Store) Remove(mediaID string) error {
	saved, err := s.all()
	if err != nil {
		return err
	}

	delete(saved, mediaID)
	return s.cacher.Set(saved)
}
