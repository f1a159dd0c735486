// Package tui provides terminal output components for cliengo.
//
// Colors use lipgloss.AdaptiveColor for light and dark terminals. Status and
// priority badges keep icon, color, and text together so a record reads the
// same with colors disabled.
//
// Call CheckNoColor() before rendering to respect NO_COLOR and TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/cliengo/internal/client"
)

//nolint:gochecknoglobals // package-level style API
var (
	// ColorPrimary is blue, used for headings and focused fields.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies faint formatting to text.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// toneColors maps every client.Tone to a terminal color.
//
//nolint:gochecknoglobals // lookup table
var toneColors = map[client.Tone]lipgloss.AdaptiveColor{
	client.ToneNeutral: {Light: "#444444", Dark: "#D0D0D0"},
	client.TonePurple:  {Light: "#8700AF", Dark: "#D787FF"},
	client.ToneYellow:  {Light: "#AF8700", Dark: "#FFD700"},
	client.ToneOrange:  {Light: "#D75F00", Dark: "#FFAF5F"},
	client.ToneGray:    {Light: "#585858", Dark: "#8A8A8A"},
	client.ToneRed:     {Light: "#AF0000", Dark: "#FF5F5F"},
	client.ToneBlue:    {Light: "#0087AF", Dark: "#5FD7FF"},
	client.ToneGreen:   {Light: "#008700", Dark: "#00FF87"},
}

// ToneColor returns the color for t. Unknown tones render as neutral.
func ToneColor(t client.Tone) lipgloss.AdaptiveColor {
	if c, ok := toneColors[t]; ok {
		return c
	}
	return toneColors[client.ToneNeutral]
}

// StatusIcon returns the icon shown next to a status label.
func StatusIcon(s client.Status) string {
	switch s {
	case client.StatusNotStarted:
		return "○"
	case client.StatusNegotiating:
		return "◇"
	case client.StatusInProgress:
		return "●"
	case client.StatusAwaitingFeedback:
		return "◔"
	case client.StatusPaused:
		return "⏸"
	case client.StatusProblematic:
		return "⚠"
	case client.StatusFixedRecurring:
		return "↻"
	case client.StatusCompleted:
		return "✓"
	default:
		return "?"
	}
}

// PriorityIcon returns the icon shown next to a priority label.
func PriorityIcon(p client.Priority) string {
	switch p {
	case client.PriorityHigh:
		return "▲"
	case client.PriorityNormal:
		return "■"
	case client.PriorityLow:
		return "▼"
	default:
		return "?"
	}
}

// StatusBadge renders a status as a colored icon and label.
func StatusBadge(s client.Status) string {
	return lipgloss.NewStyle().Foreground(ToneColor(s.Tone())).Render(StatusIcon(s) + " " + s.Label())
}

// PriorityBadge renders a priority as a colored icon and label.
func PriorityBadge(p client.Priority) string {
	return lipgloss.NewStyle().Foreground(ToneColor(p.Tone())).Render(PriorityIcon(p) + " " + p.Label())
}

// TableStyles holds lipgloss styles for table rendering.
type TableStyles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Dim    lipgloss.Style
}

// NewTableStyles creates styles for table rendering.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		Cell: lipgloss.NewStyle(),
		Dim:  lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// OutputStyles holds common message styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Heading lipgloss.Style
}

// NewOutputStyles creates the common message styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
		Heading: lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
	}
}

// CheckNoColor disables colors when the environment asks for it.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is set (any value, including
// empty) or TERM=dumb. See https://no-color.org/.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}
