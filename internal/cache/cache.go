// Package cache provides maintenance for localized filesystem cache artifacts.
package cache

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/halcyon-player/halcyon/filesystem"
	"github.com/halcyon-player/halcyon/where"
)

// TTL is the age past which a cache artifact is considered abandoned.
const TTL = 7 * 24 * time.Hour

// CollectGarbage initializes an asynchronous background task pruning
// expired cache entries and leftover player sockets from the filesystem.
func CollectGarbage() {
	go func() {
		pruneOlderThan(where.Cache(), TTL)
		pruneSockets(where.Temp())
	}()
}

func pruneOlderThan(dir string, ttl time.Duration) {
	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if time.Since(entry.ModTime()) > ttl {
			_ = filesystem.API().Remove(filepath.Join(dir, entry.Name()))
		}
	}
}

// pruneSockets removes IPC sockets orphaned by crashed player processes.
func pruneSockets(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sock") {
			_ = os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
}
