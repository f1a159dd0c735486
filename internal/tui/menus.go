package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
)

// Terminal layout constants.
const (
	// DefaultMenuWidth is used when the terminal size is unknown.
	DefaultMenuWidth = 72

	// TerminalEdgeMargin is kept between menu content and the terminal edge.
	TerminalEdgeMargin = 4

	// MinMenuWidth is the narrowest width a menu is rendered at.
	MinMenuWidth = 40
)

// ErrMenuCanceled is returned when the user cancels a form with q or Esc.
var ErrMenuCanceled = cliengoerrors.ErrMenuCanceled

// Option is one choice in a Select menu.
type Option struct {
	Label       string
	Description string
	Value       string
}

// MenuConfig holds configuration for interactive forms.
type MenuConfig struct {
	// Width is the maximum width. Zero adapts to the terminal.
	Width int
	// Accessible renders prompts for screen readers.
	Accessible bool
	// ShowKeyHints controls the help line below the form.
	ShowKeyHints bool
}

// NewMenuConfig returns the default configuration. Accessible mode follows
// the ACCESSIBLE environment variable.
func NewMenuConfig() *MenuConfig {
	_, accessible := os.LookupEnv("ACCESSIBLE")
	return &MenuConfig{
		Width:        DefaultMenuWidth,
		Accessible:   accessible,
		ShowKeyHints: true,
	}
}

// IsInteractive reports whether stdin is a terminal that can answer prompts.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func adaptWidth(maxWidth int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		if maxWidth <= 0 {
			return DefaultMenuWidth
		}
		return maxWidth
	}

	available := width - TerminalEdgeMargin
	if maxWidth > 0 && maxWidth < available {
		return maxWidth
	}
	if available < MinMenuWidth {
		return MinMenuWidth
	}
	return available
}

// RunForm runs form with the cliengo theme. It returns ErrMenuCanceled when
// the user aborts and ErrNonInteractiveMode when stdin is not a terminal, so
// callers never hang waiting on a pipe.
func RunForm(form *huh.Form, cfg *MenuConfig) error {
	if !IsInteractive() {
		return cliengoerrors.ErrNonInteractiveMode
	}
	if cfg == nil {
		cfg = NewMenuConfig()
	}

	CheckNoColor()

	form = form.
		WithTheme(CliengoTheme()).
		WithWidth(adaptWidth(cfg.Width)).
		WithAccessible(cfg.Accessible).
		WithShowHelp(cfg.ShowKeyHints)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrMenuCanceled
		}
		return fmt.Errorf("form failed: %w", err)
	}
	return nil
}

// CliengoTheme returns the huh theme built from the package colors.
func CliengoTheme() *huh.Theme {
	CheckNoColor()

	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorPrimary)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(ColorSuccess)

	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)

	t.Blurred.Base = t.Blurred.Base.BorderForeground(ColorMuted)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Help.Ellipsis = t.Help.Ellipsis.Foreground(ColorMuted)

	return t
}

// BuildSelectOptions converts options for huh. Descriptions are appended to
// the label since huh options have no description line.
func BuildSelectOptions(options []Option) []huh.Option[string] {
	out := make([]huh.Option[string], len(options))
	for i, opt := range options {
		label := opt.Label
		if opt.Description != "" {
			label = opt.Label + " - " + opt.Description
		}
		out[i] = huh.NewOption(label, opt.Value)
	}
	return out
}

// Select presents a single-choice menu and returns the chosen value.
func Select(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", cliengoerrors.ErrNoMenuOptions
	}

	var selected string
	field := huh.NewSelect[string]().
		Title(title).
		Options(BuildSelectOptions(options)...).
		Value(&selected)

	if err := RunForm(huh.NewForm(huh.NewGroup(field)), nil); err != nil {
		return "", err
	}
	return selected, nil
}

// Confirm presents a yes/no prompt.
func Confirm(message string, defaultYes bool) (bool, error) {
	confirmed := defaultYes
	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := RunForm(huh.NewForm(huh.NewGroup(field)), nil); err != nil {
		return false, err
	}
	return confirmed, nil
}
