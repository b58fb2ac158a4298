// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Transport - these keys govern the core playback session behavior.
const (
	PlaybackAutoResume        = "playback.auto_resume"
	PlaybackResumeThresholdMs = "playback.resume_threshold_ms"
	PlaybackWatchedRatio      = "playback.watched_ratio"
	PlaybackCompletionRatio   = "playback.completion_ratio"
	PlaybackSaveIntervalSec   = "playback.save_interval_sec"
	PlaybackMaxLoadAttempts   = "playback.max_load_attempts"
	PlaybackSpeed             = "playback.speed"
	PlaybackVolume            = "playback.volume"
)

// Skip Markers - these keys configure intro/credits window handling.
const (
	SkipAutoIntro      = "skip.auto_intro"
	SkipAutoCredits    = "skip.auto_credits"
	SkipMinWindowSec   = "skip.min_window_sec"
	SkipFetchMarkers   = "skip.fetch_markers"
	SkipMarkerLifetime = "skip.marker_cache_days"
)

// Auto-Play - these keys govern playlist advancement at the end of an item.
const (
	AutoPlayEnabled      = "autoplay.enabled"
	AutoPlayNextDelaySec = "autoplay.next_delay_sec"
	AutoPlayExitDelaySec = "autoplay.exit_delay_sec"
)

// On-Screen Controls - these keys configure the pointer-driven controls overlay.
const (
	ControlsHideDelaySec    = "controls.hide_delay_sec"
	ControlsMinMoveDistance = "controls.min_move_distance"
)

// Remote Play Queue - these keys manage synchronization with a remote queue server.
const (
	RemoteEnabled = "remote.enabled"
	RemoteServer  = "remote.server"
	RemoteUser    = "remote.user"
)

// Media Player Backend - these keys select and configure the decode/render engine.
const (
	Player = "player.default"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
