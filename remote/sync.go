package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/halcyon-player/halcyon/constant"
	"github.com/halcyon-player/halcyon/log"
	"github.com/halcyon-player/halcyon/network"
	"github.com/halcyon-player/halcyon/player"
)

// StateTag is the remote play-queue vocabulary for transport state.
type StateTag string

const (
	TagPlaying   StateTag = "playing"
	TagPaused    StateTag = "paused"
	TagStopped   StateTag = "stopped"
	TagBuffering StateTag = "buffering"
)

// TagFor maps a local transport state onto the remote vocabulary.
// Idle and Error carry no remote session to update.
func TagFor(state player.State) (StateTag, bool) {
	switch state {
	case player.StatePlaying:
		return TagPlaying, true
	case player.StatePaused:
		return TagPaused, true
	case player.StateStopped:
		return TagStopped, true
	case player.StateLoading:
		return TagBuffering, true
	default:
		return "", false
	}
}

// Client pushes progress updates to the remote play-queue server.
type Client struct {
	baseURL string
	user    string
}

// NewClient creates a remote-queue client for the given server and user.
func NewClient(baseURL, user string) *Client {
	return &Client{baseURL: baseURL, user: user}
}

// progressUpdate is the wire payload of a single queue progress push.
type progressUpdate struct {
	QueueID    string   `json:"queue_id"`
	MediaID    string   `json:"media_id"`
	User       string   `json:"user,omitempty"`
	PositionMs int64    `json:"position_ms"`
	DurationMs int64    `json:"duration_ms"`
	State      StateTag `json:"state"`
	Timestamp  int64    `json:"timestamp"`
}

// Push sends one progress update for the correlated queue session.
// Best-effort: a failed push is queued for later reconciliation and the
// error is returned for logging only — callers never block playback on it.
func (c *Client) Push(queueID, mediaID string, pos, dur time.Duration, tag StateTag) error {
	update := progressUpdate{
		QueueID:    queueID,
		MediaID:    mediaID,
		User:       c.user,
		PositionMs: pos.Milliseconds(),
		DurationMs: dur.Milliseconds(),
		State:      tag,
		Timestamp:  time.Now().Unix(),
	}

	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal progress update: %w", err)
	}

	if err := c.post(payload); err != nil {
		if qErr := QueueFailure(payload); qErr != nil {
			log.Warnf("queue failed sync: %v", qErr)
		}
		return err
	}
	return nil
}

// post delivers one raw update payload to the queue endpoint.
func (c *Client) post(payload []byte) error {
	endpoint := fmt.Sprintf("%s/queues/progress", c.baseURL)
	if _, err := url.Parse(endpoint); err != nil {
		return fmt.Errorf("invalid remote server URL: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)

	// Use the stored access token if available.
	if token, err := GetToken(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := network.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote queue returned status %d", resp.StatusCode)
	}
	return nil
}
