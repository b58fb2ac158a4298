package session

import (
	"time"

	"github.com/halcyon-player/halcyon/key"
	"github.com/spf13/viper"
)

// Settings is the versioned configuration snapshot a session is constructed
// with. The session never polls global state; the host delivers replacement
// snapshots through Controller.OnConfigChanged.
type Settings struct {
	AutoResume      bool
	ResumeThreshold time.Duration
	// WatchedRatio marks an item watched during periodic persistence.
	WatchedRatio float64
	// CompletionRatio gates both resume (ceiling) and auto-play (trigger).
	// Deliberately independent from WatchedRatio.
	CompletionRatio float64
	SaveInterval    time.Duration
	MaxLoadAttempts int

	Volume float64
	Speed  float64

	FetchMarkers    bool
	AutoSkipIntro   bool
	AutoSkipCredits bool
	MinSkipWindow   time.Duration

	AutoPlayNextDelay time.Duration
	AutoPlayExitDelay time.Duration

	ControlsHideDelay time.Duration
	MinPointerDelta   float64

	RemoteEnabled bool
}

// SettingsFromConfig builds a snapshot from the global configuration engine.
func SettingsFromConfig() Settings {
	return Settings{
		AutoResume:      viper.GetBool(key.PlaybackAutoResume),
		ResumeThreshold: time.Duration(viper.GetInt(key.PlaybackResumeThresholdMs)) * time.Millisecond,
		WatchedRatio:    viper.GetFloat64(key.PlaybackWatchedRatio),
		CompletionRatio: viper.GetFloat64(key.PlaybackCompletionRatio),
		SaveInterval:    time.Duration(viper.GetInt(key.PlaybackSaveIntervalSec)) * time.Second,
		MaxLoadAttempts: viper.GetInt(key.PlaybackMaxLoadAttempts),

		Volume: float64(viper.GetInt(key.PlaybackVolume)),
		Speed:  viper.GetFloat64(key.PlaybackSpeed),

		FetchMarkers:    viper.GetBool(key.SkipFetchMarkers),
		AutoSkipIntro:   viper.GetBool(key.SkipAutoIntro),
		AutoSkipCredits: viper.GetBool(key.SkipAutoCredits),
		MinSkipWindow:   time.Duration(viper.GetInt(key.SkipMinWindowSec)) * time.Second,

		AutoPlayNextDelay: time.Duration(viper.GetInt(key.AutoPlayNextDelaySec)) * time.Second,
		AutoPlayExitDelay: time.Duration(viper.GetInt(key.AutoPlayExitDelaySec)) * time.Second,

		ControlsHideDelay: time.Duration(viper.GetInt(key.ControlsHideDelaySec)) * time.Second,
		MinPointerDelta:   viper.GetFloat64(key.ControlsMinMoveDistance),

		RemoteEnabled: viper.GetBool(key.RemoteEnabled),
	}
}
