package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The board must stay readable on both light and dark terminal backgrounds,
// so colors are lipgloss.AdaptiveColor throughout.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorCardBorder lipgloss.TerminalColor = ac("250", "243")
	colorSelected   lipgloss.TerminalColor = ac("232", "255")
	colorAccent     lipgloss.TerminalColor = ac("26", "39")
	colorAllow      lipgloss.TerminalColor = ac("28", "40")
	colorDeny       lipgloss.TerminalColor = ac("124", "203")

	styleListTitle = lipgloss.NewStyle().Bold(true)
	styleMuted     = lipgloss.NewStyle().Foreground(colorMuted)
	styleStatus    = lipgloss.NewStyle().Foreground(colorMuted)

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCardBorder)
	styleCardSelected = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorSelected)
	styleCardDragged = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted).
				Foreground(colorMuted)
	styleCardDropOK = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorAllow)
	styleCardDropNo = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDeny)
)

// applyColorProfile sets Lip Gloss's color profile before the program starts.
// Only NO_COLOR is honored explicitly; color probing can under-report on some
// terminals, so COLORTERM/TERM hints upgrade the detected profile.
func applyColorProfile() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}
