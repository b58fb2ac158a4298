// Package cmd implements the command-line interface for halcyon.
package cmd

import (
	"fmt"

	"github.com/halcyon-player/halcyon/color"
	"github.com/halcyon-player/halcyon/icon"
	"github.com/halcyon-player/halcyon/key"
	"github.com/halcyon-player/halcyon/remote"
	"github.com/halcyon-player/halcyon/style"
	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(remoteCmd)
	remoteCmd.AddCommand(remoteLoginCmd)
	remoteCmd.AddCommand(remoteLogoutCmd)
	remoteCmd.AddCommand(remoteStatusCmd)
}

// remoteCmd serves as the parent command for remote play-queue management.
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Manage the remote play-queue connection",
}

// remoteLoginCmd interactively configures the remote server credentials.
var remoteLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Configure the remote play-queue server and store its access token",
	Run: func(cmd *cobra.Command, args []string) {
		answers := struct {
			Server string
			User   string
			Token  string
		}{}

		handleErr(survey.Ask([]*survey.Question{
			{
				Name: "server",
				Prompt: &survey.Input{
					Message: "Server URL:",
					Default: viper.GetString(key.RemoteServer),
				},
				Validate: survey.Required,
			},
			{
				Name: "user",
				Prompt: &survey.Input{
					Message: "User:",
					Default: viper.GetString(key.RemoteUser),
				},
				Validate: survey.Required,
			},
			{
				Name:     "token",
				Prompt:   &survey.Password{Message: "Access token:"},
				Validate: survey.Required,
			},
		}, &answers))

		handleErr(remote.SetToken(answers.Token))

		viper.Set(key.RemoteEnabled, true)
		viper.Set(key.RemoteServer, answers.Server)
		viper.Set(key.RemoteUser, answers.User)
		switch err := viper.WriteConfig(); err.(type) {
		case viper.ConfigFileNotFoundError:
			handleErr(viper.SafeWriteConfig())
		default:
			handleErr(err)
		}

		fmt.Printf("%s logged in to %s\n", icon.Get(icon.Success), answers.Server)
	},
}

// remoteLogoutCmd removes the stored token and disables mirroring.
var remoteLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored access token and disable queue mirroring",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(remote.DeleteToken())

		viper.Set(key.RemoteEnabled, false)
		switch err := viper.WriteConfig(); err.(type) {
		case viper.ConfigFileNotFoundError:
			handleErr(viper.SafeWriteConfig())
		default:
			handleErr(err)
		}

		fmt.Printf("%s logged out\n", icon.Get(icon.Success))
	},
}

// remoteStatusCmd displays the current remote connection configuration.
var remoteStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the current remote play-queue configuration",
	Run: func(cmd *cobra.Command, args []string) {
		header := style.New().Bold(true).Foreground(color.HiPurple).Render

		fmt.Printf("%s %v\n", header("Enabled:"), viper.GetBool(key.RemoteEnabled))
		fmt.Printf("%s %s\n", header("Server:"), viper.GetString(key.RemoteServer))
		fmt.Printf("%s %s\n", header("User:"), viper.GetString(key.RemoteUser))

		if _, err := remote.GetToken(); err == nil {
			fmt.Printf("%s %s\n", header("Token:"), style.Fg(color.Green)("stored"))
		} else {
			fmt.Printf("%s %s\n", header("Token:"), style.Fg(color.Red)("missing"))
		}
	},
}
