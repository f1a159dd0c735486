package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownWrapWidth is the column at which rendered descriptions wrap.
const MarkdownWrapWidth = 80

//nolint:gochecknoglobals // cached renderer
var (
	markdownRenderer     *glamour.TermRenderer
	markdownRendererOnce sync.Once
)

func getMarkdownRenderer() *glamour.TermRenderer {
	markdownRendererOnce.Do(func() {
		opts := []glamour.TermRendererOption{glamour.WithWordWrap(MarkdownWrapWidth)}
		if HasColorSupport() {
			opts = append(opts, glamour.WithAutoStyle())
		} else {
			opts = append(opts, glamour.WithStandardStyle("notty"))
		}
		r, err := glamour.NewTermRenderer(opts...)
		if err == nil {
			markdownRenderer = r
		}
	})
	return markdownRenderer
}

// RenderMarkdown writes text rendered as markdown, indented by two spaces.
// Plain text is written when rendering fails.
func RenderMarkdown(w io.Writer, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if r := getMarkdownRenderer(); r != nil {
		if rendered, err := r.Render(text); err == nil {
			for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
				_, _ = fmt.Fprintf(w, "  %s\n", line)
			}
			return
		}
	}
	for _, line := range strings.Split(text, "\n") {
		_, _ = fmt.Fprintf(w, "  %s\n", line)
	}
}
