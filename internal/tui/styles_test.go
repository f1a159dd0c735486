package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/cliengo/internal/client"
)

func TestToneColor_CoversEveryStatusAndPriority(t *testing.T) {
	for _, s := range client.ValidStatuses() {
		_, ok := toneColors[s.Tone()]
		assert.True(t, ok, "status %s has no color", s)
		assert.NotEqual(t, "?", StatusIcon(s), "status %s has no icon", s)
	}
	for _, p := range client.ValidPriorities() {
		_, ok := toneColors[p.Tone()]
		assert.True(t, ok, "priority %s has no color", p)
		assert.NotEqual(t, "?", PriorityIcon(p), "priority %s has no icon", p)
	}
}

func TestToneColor_UnknownFallsBackToNeutral(t *testing.T) {
	assert.Equal(t, toneColors[client.ToneNeutral], ToneColor("mauve"))
}

func TestBadges_KeepText(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	CheckNoColor()

	assert.Equal(t, "✓ "+client.StatusCompleted.Label(), StatusBadge(client.StatusCompleted))
	assert.Equal(t, "▲ "+client.PriorityHigh.Label(), PriorityBadge(client.PriorityHigh))
}

func TestHasColorSupport(t *testing.T) {
	t.Run("NO_COLOR set", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		assert.False(t, HasColorSupport())
	})
	t.Run("dumb terminal", func(t *testing.T) {
		t.Setenv("TERM", "dumb")
		assert.False(t, HasColorSupport())
	})
}
