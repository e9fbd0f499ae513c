package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Habitline theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconHabit   = "🔁"
	IconAvoid   = "🚫"
	IconSparkle = "✨"
	IconDone    = "✅"
	IconSlip    = "💥"
	IconTrophy  = "🏆"
	IconFlame   = "🔥"
	IconDue     = "⏳"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconProfile = "👤"
	IconSeed    = "🌱"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	BadgeLevelUp   = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
	BadgeMilestone = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("MILESTONE")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// PolarityIcon marks positive habits with the loop and negative ones with the
// no-entry sign.
func PolarityIcon(negative bool) string {
	if negative {
		return IconAvoid
	}
	return IconHabit
}

func DueText(due bool) string {
	if due {
		return Warn.Render("due")
	}
	return Good.Render("done")
}
