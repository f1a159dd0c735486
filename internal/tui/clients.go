package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/constants"
)

// Column widths for the client list.
const (
	NameColumnWidth = 24
	TaskColumnWidth = 32
)

// ClientHeaders are the columns of the client list.
//
//nolint:gochecknoglobals // shared column set
var ClientHeaders = []string{"#", "NAME", "TASK", "STATUS", "PRIORITY", "START", "END"}

// FormatDate renders the start date, or the end date when end is set, as
// YYYY-MM-DD. A missing end date renders as "-".
func FormatDate(r *client.Record, end bool) string {
	if end {
		if r.EndDate == nil {
			return "-"
		}
		return r.EndDate.Format(constants.DateLayout)
	}
	return r.StartDate.Format(constants.DateLayout)
}

// ClientRows builds table rows for records. Row numbers are one-based
// display indices, the values accepted by `client move`.
func ClientRows(records []client.Record, styled bool) [][]string {
	rows := make([][]string, 0, len(records))
	for i := range records {
		r := &records[i]
		status, priority := string(r.Status), string(r.Priority)
		if styled {
			status, priority = StatusBadge(r.Status), PriorityBadge(r.Priority)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			Truncate(r.Name, NameColumnWidth),
			Truncate(r.Task, TaskColumnWidth),
			status,
			priority,
			FormatDate(r, false),
			FormatDate(r, true),
		})
	}
	return rows
}

// StatsLine renders the dashboard counters on one line.
func StatsLine(s client.Stats) string {
	return fmt.Sprintf("%d clients · %d in progress · %d awaiting feedback · %d completed",
		s.Total, s.InProgress, s.AwaitingFeedback, s.Completed)
}

// RenderClientDetail writes a full record with its description as markdown.
func RenderClientDetail(w io.Writer, r client.Record) {
	styles := NewOutputStyles()
	label := func(s string) string { return styles.Dim.Render(PadRight(s, 10)) }

	_, _ = fmt.Fprintln(w, styles.Heading.Render(r.Name))
	_, _ = fmt.Fprintln(w, strings.Repeat("─", max(CellWidth(r.Name), 20)))
	_, _ = fmt.Fprintf(w, "%s %s\n", label("Task"), r.Task)
	_, _ = fmt.Fprintf(w, "%s %s\n", label("Status"), StatusBadge(r.Status))
	_, _ = fmt.Fprintf(w, "%s %s\n", label("Priority"), PriorityBadge(r.Priority))
	_, _ = fmt.Fprintf(w, "%s %s\n", label("Start"), FormatDate(&r, false))
	_, _ = fmt.Fprintf(w, "%s %s\n", label("End"), FormatDate(&r, true))
	_, _ = fmt.Fprintf(w, "%s %s\n", label("ID"), styles.Dim.Render(r.ID))

	if strings.TrimSpace(r.Description) != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.Dim.Render("Description"))
		RenderMarkdown(w, r.Description)
	}
}
