package remote

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"os"
	"time"

	"github.com/halcyon-player/halcyon/filesystem"
	"github.com/halcyon-player/halcyon/log"
	"github.com/halcyon-player/halcyon/where"
)

// queuedPush is one deferred progress update awaiting reconciliation.
type queuedPush struct {
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// QueueFailure persists a failed progress push to a local JSON-log for deferred reconciliation.
func QueueFailure(payload []byte) error {
	f, err := filesystem.API().OpenFile(where.SyncQueue(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	entry := queuedPush{
		Timestamp: time.Now().Unix(),
		Payload:   json.RawMessage(payload),
	}

	// Stream JSON directly to the disk buffer
	encoder := json.NewEncoder(f)
	return encoder.Encode(entry)
}

// ReconcileFailures initializes an asynchronous background process to deliver
// previously failed progress pushes. The queue is truncated only when every
// entry synchronized, so partial failures are retried on the next run.
func (c *Client) ReconcileFailures() {
	go func() {
		path := where.SyncQueue()
		fs := filesystem.API()

		info, err := fs.Stat(path)
		if err != nil || info.Size() == 0 {
			return
		}

		content, err := fs.ReadFile(path)
		if err != nil {
			return
		}

		var entries []queuedPush
		decoder := json.NewDecoder(bytes.NewReader(content))
		for decoder.More() {
			var e queuedPush
			if err := decoder.Decode(&e); err == nil {
				entries = append(entries, e)
			}
		}

		if len(entries) == 0 {
			return
		}

		successCount := 0
		for i, entry := range entries {
			// Apply incremental delay with randomized jitter to manage request throttling.
			backoff := time.Duration((1<<i)*100)*time.Millisecond + time.Duration(rand.Intn(100))*time.Millisecond
			time.Sleep(backoff)

			if err := c.post(entry.Payload); err != nil {
				log.Warnf("reconcile push failed: %v", err)
				continue
			}
			successCount++
		}

		// Atomic state update: Truncate the failure log if all pushes synchronized.
		if successCount == len(entries) {
			if f, err := fs.OpenFile(path, os.O_TRUNC|os.O_WRONLY, 0644); err == nil {
				f.Close()
			}
		}
	}()
}
