// Package cmd implements the command-line interface for halcyon.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/halcyon-player/halcyon/color"
	"github.com/halcyon-player/halcyon/icon"
	"github.com/halcyon-player/halcyon/key"
	"github.com/halcyon-player/halcyon/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// CheckDependencies verifies the availability of required system dependencies.
// It validates that the configured player binary is present in the system PATH.
func CheckDependencies() {
	dep := viper.GetString(key.Player)
	if dep == "" {
		dep = "mpv"
	}

	if _, err := exec.LookPath(dep); err != nil {
		printMissingDependencyError(dep)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install mpv"
	case "linux":
		installCmd = "sudo apt install mpv" // Generic, maybe check distro
	case "windows":
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(color.White).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(color.Orange).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
