// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/halcyon-player/halcyon/color"
	"github.com/halcyon-player/halcyon/constant"
	"github.com/halcyon-player/halcyon/key"
	"github.com/halcyon-player/halcyon/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Halcyon + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case float64:
		return "float"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.PlaybackAutoResume, true, "Resume playback from the last saved position when loading an item")
	register(key.PlaybackResumeThresholdMs, 5000, "Minimum saved position (milliseconds) before a resume seek is attempted")
	register(key.PlaybackWatchedRatio, 0.9, "Completion ratio past which an item is persisted as watched. From 0 to 1")
	register(key.PlaybackCompletionRatio, 0.95, "Completion ratio past which resume is skipped and auto-play arms. From 0 to 1")
	register(key.PlaybackSaveIntervalSec, 10, "Interval in seconds between periodic progress writes during playback")
	register(key.PlaybackMaxLoadAttempts, 3, "Maximum load attempts before a playback error is surfaced")
	register(key.PlaybackSpeed, 1.0, "Initial playback speed multiplier")
	register(key.PlaybackVolume, 100, "Initial playback volume (0-100)")
	register(key.SkipAutoIntro, false, "Automatically skip intro windows instead of showing a skip button")
	register(key.SkipAutoCredits, false, "Automatically skip credits windows instead of showing a skip button")
	register(key.SkipMinWindowSec, 3, "Minimum window length in seconds required for an automatic skip")
	register(key.SkipFetchMarkers, true, "Fetch intro/credits chapter markers for loaded items")
	register(key.SkipMarkerLifetime, 14, "Days fetched markers stay cached before being refreshed")
	register(key.AutoPlayEnabled, true, "Advance to the next playlist item when playback nears completion")
	register(key.AutoPlayNextDelaySec, 3, "Grace delay in seconds before the next item loads")
	register(key.AutoPlayExitDelaySec, 5, "Grace delay in seconds before navigating away after the last item")
	register(key.ControlsHideDelaySec, 4, "Seconds of pointer inactivity before the controls overlay hides")
	register(key.ControlsMinMoveDistance, 2.0, "Minimum pointer travel distance that reveals hidden controls")
	register(key.RemoteEnabled, false, "Push playback progress to the remote play-queue server")
	register(key.RemoteServer, "", "Base URL of the remote play-queue server")
	register(key.RemoteUser, "", "User identifier for remote play-queue sessions")
	register(key.Player, "mpv", "Media player backend to use (e.g., mpv)")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
