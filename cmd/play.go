// Package cmd implements the command-line interface for halcyon.
package cmd

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/halcyon-player/halcyon/key"
	"github.com/halcyon-player/halcyon/log"
	"github.com/halcyon-player/halcyon/markers"
	"github.com/halcyon-player/halcyon/player"
	"github.com/halcyon-player/halcyon/playlist"
	"github.com/halcyon-player/halcyon/progress"
	"github.com/halcyon-player/halcyon/remote"
	"github.com/halcyon-player/halcyon/session"
	"github.com/halcyon-player/halcyon/tui"
	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolP("picker", "p", false, "Open the episode picker instead of playing immediately")
	playCmd.Flags().Bool("no-auto-play", false, "Do not advance to the next item automatically")
	playCmd.Flags().String("queue", "", "Attach the session to a remote play-queue id")
	playCmd.Flags().String("title", "", "Override the traversal title")
}

// playCmd starts a playback session over the given files or URLs.
var playCmd = &cobra.Command{
	Use:     "play [files or urls...]",
	Short:   "Play the given files or URLs as one traversal",
	Aliases: []string{"p"},
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		var (
			picker     = lo.Must(cmd.Flags().GetBool("picker"))
			noAutoPlay = lo.Must(cmd.Flags().GetBool("no-auto-play"))
			queueID    = lo.Must(cmd.Flags().GetString("queue"))
			title      = lo.Must(cmd.Flags().GetString("title"))
		)

		autoPlay := viper.GetBool(key.AutoPlayEnabled) && !noAutoPlay
		ctx := buildContext(args, title, autoPlay)
		if queueID != "" {
			ctx = ctx.WithRemoteQueue(queueID)
		}

		ctrl := session.New(session.Options{
			Backend:  player.NewMPV(),
			Resolver: directResolver{},
			Store:    progress.NewStore(),
			Markers:  markerSource(),
			Remote:   remoteSync(),
			Sched:    session.NewScheduler(),
			Settings: session.SettingsFromConfig(),
		})
		defer func() {
			if err := ctrl.Close(); err != nil {
				log.Warnf("session close failed: %v", err)
			}
		}()

		viper.OnConfigChange(func(fsnotify.Event) {
			ctrl.OnConfigChanged(session.SettingsFromConfig())
		})
		viper.WatchConfig()

		handleErr(tui.Run(&tui.Options{
			Controller: ctrl,
			Context:    ctx,
			ShowPicker: picker,
		}))
	},
}

// buildContext turns the CLI arguments into a playback traversal.
func buildContext(args []string, title string, autoPlay bool) *playlist.Context {
	if len(args) == 1 {
		single := playlist.Single(args[0], displayTitle(args[0]))
		if title != "" {
			single = playlist.Series(title, single.Episodes(), 0, autoPlay)
		}
		return single
	}

	episodes := make([]playlist.EpisodeRef, len(args))
	for i, arg := range args {
		episodes[i] = playlist.EpisodeRef{ID: arg, Title: displayTitle(arg)}
	}

	if title == "" {
		title = "Queue"
	}
	return playlist.Series(title, episodes, 0, autoPlay)
}

// displayTitle derives a human-readable title from a path or URL.
func displayTitle(target string) string {
	base := filepath.Base(target)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base
}

// directResolver treats the media id itself as the playable target.
// Local files and direct URLs need no resolution step.
type directResolver struct{}

func (directResolver) Resolve(id session.MediaID) (session.Stream, error) {
	return session.Stream{URL: string(id)}, nil
}

// markerSource builds the cached skip-marker source, or nil when no
// marker server is configured.
func markerSource() session.MarkerSource {
	server := viper.GetString(key.RemoteServer)
	if server == "" || !viper.GetBool(key.SkipFetchMarkers) {
		return nil
	}

	token, err := remote.GetToken()
	if err != nil {
		log.Warnf("marker source disabled, no token: %v", err)
		token = ""
	}

	lifetime := time.Duration(viper.GetInt(key.SkipMarkerLifetime)) * 24 * time.Hour
	return markers.NewCachedSource(markers.NewClient(server, token), lifetime)
}

// remoteSync builds the remote queue client, or nil when disabled.
func remoteSync() session.RemoteSync {
	if !viper.GetBool(key.RemoteEnabled) {
		return nil
	}
	server := viper.GetString(key.RemoteServer)
	if server == "" {
		return nil
	}

	client := remote.NewClient(server, viper.GetString(key.RemoteUser))
	client.ReconcileFailures()
	return client
}
