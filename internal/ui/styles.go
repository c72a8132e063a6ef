package ui

import (
	"fmt"

	"github.com/TracecatHQ/caseboard/internal/model"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = 74  // blue
	colorMuted  = 245 // medium gray

	colorRed    = 196
	colorOrange = 208
	colorYellow = 220
	colorGreen  = 114
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderPriority returns the priority colored by urgency.
func RenderPriority(p model.Priority) string {
	return renderRank(p.String(), p.Rank(), 4)
}

// RenderSeverity returns the severity colored by impact. Fatal and
// critical render red, high orange, medium yellow, the rest muted.
func RenderSeverity(s model.Severity) string {
	return renderRank(s.String(), s.Rank(), 5)
}

// RenderStatus returns the status with closed/resolved states in green.
func RenderStatus(s model.Status) string {
	if noColor {
		return s.String()
	}
	switch s {
	case model.StatusResolved, model.StatusClosed:
		return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorGreen, s)
	}
	return s.String()
}

// renderRank colors text by how close rank is to redThreshold.
func renderRank(text string, rank, redThreshold int) string {
	if noColor {
		return text
	}
	var color int
	switch {
	case rank >= redThreshold:
		color = colorRed
	case rank == redThreshold-1:
		color = colorOrange
	case rank == redThreshold-2:
		color = colorYellow
	default:
		color = colorMuted
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, text)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
