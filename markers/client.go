package markers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/halcyon-player/halcyon/constant"
	"github.com/halcyon-player/halcyon/log"
	"github.com/halcyon-player/halcyon/network"
)

// Client retrieves chapter markers from a media server's segments endpoint.
type Client struct {
	baseURL string
	token   string
}

// NewClient creates a marker client for the given media-server base URL.
// The token is optional; servers without authentication accept anonymous reads.
func NewClient(baseURL, token string) *Client {
	return &Client{baseURL: baseURL, token: token}
}

// segmentDTO is the wire representation of a single server-side media segment.
type segmentDTO struct {
	Type    string  `json:"type"`
	StartMs float64 `json:"start_ms"`
	EndMs   float64 `json:"end_ms"`
}

// Fetch retrieves the intro/credits markers for a media item.
// Returns an empty set (not an error) when the server has no segment data;
// transport failures degrade gracefully so playback is never blocked on markers.
func (c *Client) Fetch(mediaID string) (Set, error) {
	endpoint := fmt.Sprintf("%s/media/%s/segments", c.baseURL, url.PathEscape(mediaID))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return Set{}, fmt.Errorf("build segments request: %w", err)
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := network.Client.Do(req)
	if err != nil {
		log.Warnf("segments request failed: %v", err)
		return Set{}, nil // Graceful degradation
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("segments endpoint returned status %d", resp.StatusCode)
		// Recover gracefully: playback proceeds without skip windows.
		return Set{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Set{}, fmt.Errorf("read segments response: %w", err)
	}

	var segments []segmentDTO
	if err := json.Unmarshal(body, &segments); err != nil {
		return Set{}, fmt.Errorf("parse segments response: %w", err)
	}

	return setFromSegments(segments), nil
}

// setFromSegments maps server segment records onto a marker set.
// Unknown segment types (previews, recaps) are ignored.
func setFromSegments(segments []segmentDTO) Set {
	var set Set
	for _, seg := range segments {
		marker := Marker{
			Start: time.Duration(seg.StartMs) * time.Millisecond,
			End:   time.Duration(seg.EndMs) * time.Millisecond,
		}
		if marker.End <= marker.Start {
			continue
		}

		switch seg.Type {
		case "intro", "opening":
			marker.Kind = KindIntro
			set.Intro = &marker
		case "credits", "outro", "ending":
			marker.Kind = KindCredits
			set.Credits = &marker
		}
	}
	return set
}
