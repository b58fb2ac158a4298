package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/halcyon-player/halcyon/key"
	"github.com/halcyon-player/halcyon/log"
	"github.com/halcyon-player/halcyon/where"
	"github.com/spf13/viper"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV implements the Backend interface using mpv's JSON-IPC protocol.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	mu         sync.Mutex    // Protects socket writes
}

// NewMPV creates a new MPV backend instance (does not start playback).
func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
	}
}

// binary returns the engine executable configured under player.default.
func binary() string {
	if bin := viper.GetString(key.Player); bin != "" {
		return bin
	}
	return "mpv"
}

// newSocketPath generates a unique IPC socket path inside the app temp
// dir, where startup garbage collection prunes orphans.
func newSocketPath() (string, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("generate socket name: %w", err)
	}
	return filepath.Join(where.Temp(), fmt.Sprintf("halcyon-%x.sock", randomBytes)), nil
}

// Load starts playback of the given URL. If mpv is already running,
// it loads the new file into the existing instance via IPC.
func (m *MPV) Load(rawURL string, title string, headers map[string]string) error {
	// Sanitize the URL to prevent flag injection from untrusted metadata
	safeURL, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	safeTitle := sanitizeTitle(title)

	if m.IsRunning() {
		if _, err := m.sendCommand([]interface{}{"set_property", "force-media-title", safeTitle}); err != nil {
			log.Warnf("set media title: %v", err)
		}
		_, err := m.sendCommand([]interface{}{"loadfile", safeURL, "replace"})
		if err != nil {
			return fmt.Errorf("load into running mpv: %w", err)
		}
		return nil
	}

	// Construct header string if present
	var headerString string
	if len(headers) > 0 {
		var hBuilder strings.Builder
		for k, v := range headers {
			if hBuilder.Len() > 0 {
				hBuilder.WriteString(",")
			}
			// Replace commas in values if any (simple sanitization)
			val := strings.ReplaceAll(v, ",", "%2C")
			hBuilder.WriteString(fmt.Sprintf("%s: %s", k, val))
		}
		headerString = hBuilder.String()
	}

	if m.socketPath == "" {
		path, err := newSocketPath()
		if err != nil {
			return err
		}
		m.socketPath = path
	}

	// Build mpv arguments.
	// Pass ONLY the socket, title, and URL; respect the user's mpv.conf
	// for --vo, --profile and --hwdec.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", safeTitle),
		fmt.Sprintf("--title=%s", safeTitle), // Some mpv builds only respect --title
		"--force-window=yes",
		"--idle=yes",
		"--pause=no",
	}

	if headerString != "" {
		args = append(args, fmt.Sprintf("--http-header-fields=%s", headerString))
	}

	args = append(args, safeURL)

	m.cmd = exec.Command(binary(), args...)

	// Detach from parent process group to prevent cascading shell panics.
	m.cmd.SysProcAttr = sysProcAttr()

	// Disable standard pipes to prevent resource leaks.
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Background goroutine to reap the process and prevent zombies
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	// Wait for the IPC socket to become available
	if err := m.waitForSocket(); err != nil {
		// If socket never became ready, kill the orphaned process
		if m.cmd.Process != nil {
			select {
			case <-m.exited:
				// Already exited
			default:
				log.Warnf("killing mpv: socket never became ready")
				_ = m.cmd.Process.Kill()
			}
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		// Check if process already exited
		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Play resumes a paused playback.
func (m *MPV) Play() error {
	return m.set("pause", false)
}

// Pause suspends playback.
func (m *MPV) Pause() error {
	return m.set("pause", true)
}

// Stop halts playback and unloads the current media, keeping the engine alive.
func (m *MPV) Stop() error {
	_, err := m.sendCommand([]interface{}{"stop"})
	return err
}

// Seek moves playback to the given absolute position.
func (m *MPV) Seek(pos time.Duration) error {
	_, err := m.sendCommand([]interface{}{"seek", pos.Seconds(), "absolute"})
	return err
}

// SetVolume adjusts the playback volume (0-100).
func (m *MPV) SetVolume(volume float64) error {
	return m.set("volume", volume)
}

// SetSpeed adjusts the playback speed multiplier.
func (m *MPV) SetSpeed(speed float64) error {
	return m.set("speed", speed)
}

// Position returns the current playback position.
func (m *MPV) Position() (time.Duration, error) {
	return m.getDurationProperty("time-pos")
}

// Duration returns the total duration of the current media.
func (m *MPV) Duration() (time.Duration, error) {
	return m.getDurationProperty("duration")
}

// State queries the engine's transport state.
// Idle means nothing is loaded; mpv reports pause/idle-active on demand only.
func (m *MPV) State() (State, error) {
	idle, err := m.getBoolProperty("idle-active")
	if err != nil {
		return StateError, err
	}
	if idle {
		return StateStopped, nil
	}

	paused, err := m.getBoolProperty("pause")
	if err != nil {
		return StateError, err
	}
	if paused {
		return StatePaused, nil
	}
	return StatePlaying, nil
}

// Dimensions returns the display dimensions of the active video.
// mpv exposes dwidth/dheight only after the first frame is decoded.
func (m *MPV) Dimensions() (width, height int, err error) {
	w, err := m.getFloatProperty("dwidth")
	if err != nil {
		return 0, 0, err
	}
	h, err := m.getFloatProperty("dheight")
	if err != nil {
		return 0, 0, err
	}
	return int(w), int(h), nil
}

// Tracks lists the selectable tracks of the given kind from mpv's track-list.
func (m *MPV) Tracks(kind TrackKind) ([]Track, error) {
	data, err := m.sendCommand([]interface{}{"get_property", "track-list"})
	if err != nil {
		return nil, err
	}

	raw, ok := data.([]interface{})
	if !ok {
		return nil, fmt.Errorf("track-list: expected array, got %T", data)
	}

	var tracks []Track
	for _, entry := range raw {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if t, _ := fields["type"].(string); t != string(kind) {
			continue
		}

		var track Track
		track.Kind = kind
		if id, ok := fields["id"].(float64); ok {
			track.ID = int(id)
		}
		track.Title, _ = fields["title"].(string)
		track.Language, _ = fields["lang"].(string)
		track.Selected, _ = fields["selected"].(bool)
		tracks = append(tracks, track)
	}

	return tracks, nil
}

// SelectTrack activates a track by id. Passing id 0 disables the track kind.
func (m *MPV) SelectTrack(kind TrackKind, id int) error {
	property, err := trackProperty(kind)
	if err != nil {
		return err
	}

	var value interface{} = id
	if id == 0 {
		value = "no"
	}
	return m.set(property, value)
}

// trackProperty maps a track kind to mpv's selection property.
func trackProperty(kind TrackKind) (string, error) {
	switch kind {
	case TrackAudio:
		return "aid", nil
	case TrackSubtitle:
		return "sid", nil
	case TrackVideo:
		return "vid", nil
	default:
		return "", fmt.Errorf("unknown track kind %q", kind)
	}
}

// FrameStep advances by one frame and leaves the engine paused.
func (m *MPV) FrameStep() error {
	_, err := m.sendCommand([]interface{}{"frame-step"})
	return err
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	// Fast check: process already exited?
	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	// Try graceful quit via IPC
	_, _ = m.sendCommand([]interface{}{"quit"})

	// Wait for process to exit (with timeout)
	select {
	case <-m.exited:
		// Clean exit
	case <-time.After(3 * time.Second):
		// Force kill if graceful quit didn't work
		_ = killProcess(m.cmd)
	}

	// Clean up the socket file
	_ = os.Remove(m.socketPath)

	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// set writes a property value via IPC.
func (m *MPV) set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// getDurationProperty retrieves a seconds-valued mpv property as a time.Duration.
func (m *MPV) getDurationProperty(name string) (time.Duration, error) {
	seconds, err := m.getFloatProperty(name)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// getBoolProperty retrieves a boolean mpv property via IPC.
func (m *MPV) getBoolProperty(name string) (bool, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return false, err
	}
	val, ok := data.(bool)
	if !ok {
		return false, fmt.Errorf("property %s: expected bool, got %T", name, data)
	}
	return val, nil
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
// Prevents flag injection from untrusted resolver metadata.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	// Reject control characters
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	// If it contains "://", validate as URL
	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the title for mpv.
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	// Remove null bytes
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}
