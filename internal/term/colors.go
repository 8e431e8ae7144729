// Package term configures color output for terminals and CI logs.
package term

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/viper"
)

// IsGitHubActions reports whether the process runs in GitHub Actions.
func IsGitHubActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// IsCI reports whether any CI environment is detected.
func IsCI() bool {
	return os.Getenv("CI") != "" || IsGitHubActions()
}

// ConfigureColors picks the color profile for the current environment
// and applies it to lipgloss. GitHub Actions log viewers render ANSI
// colors; other CI systems get plain output unless forced.
func ConfigureColors() termenv.Profile {
	profile := detectProfile()
	lipgloss.SetColorProfile(profile)
	return profile
}

func detectProfile() termenv.Profile {
	if viper.GetBool("no_color") || os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if os.Getenv("CLICOLOR_FORCE") != "" {
		return termenv.TrueColor
	}
	if IsGitHubActions() {
		return termenv.TrueColor
	}
	if IsCI() {
		return termenv.Ascii
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsTerminal(os.Stderr.Fd()) {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// ProfileName returns a readable name for a profile, for debug logs.
func ProfileName(p termenv.Profile) string {
	switch p {
	case termenv.Ascii:
		return "ascii"
	case termenv.ANSI:
		return "ansi"
	case termenv.ANSI256:
		return "ansi256"
	case termenv.TrueColor:
		return "truecolor"
	default:
		return "unknown"
	}
}
