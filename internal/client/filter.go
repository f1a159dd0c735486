package client

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
)

// All matches every status or priority in a Filter.
const All = "all"

// Filter specifies criteria for the displayed list. The zero value matches everything.
type Filter struct {
	Search   string   // substring of name or task, case-insensitive
	Status   Status   // "" or All = any status
	Priority Priority // "" or All = any priority
}

// NewFilter parses user supplied filter values.
func NewFilter(search, status, priority string) (Filter, error) {
	f := Filter{Search: search}
	if status = strings.TrimSpace(status); status != "" && !strings.EqualFold(status, All) {
		s, err := ParseStatus(status)
		if err != nil {
			return Filter{}, err
		}
		f.Status = s
	}
	if priority = strings.TrimSpace(priority); priority != "" && !strings.EqualFold(priority, All) {
		p, err := ParsePriority(priority)
		if err != nil {
			return Filter{}, err
		}
		f.Priority = p
	}
	return f, nil
}

// Validate checks that non-wildcard values are known.
func (f Filter) Validate() error {
	if !f.anyStatus() && !f.Status.IsValid() {
		return cliengoerrors.NewValidationError("status", cliengoerrors.ErrInvalidStatus,
			fmt.Sprintf("%q is not a valid status filter", f.Status))
	}
	if !f.anyPriority() && !f.Priority.IsValid() {
		return cliengoerrors.NewValidationError("priority", cliengoerrors.ErrInvalidPriority,
			fmt.Sprintf("%q is not a valid priority filter", f.Priority))
	}
	return nil
}

// IsZero reports whether the filter matches every record.
func (f Filter) IsZero() bool {
	return f.Search == "" && f.anyStatus() && f.anyPriority()
}

func (f Filter) anyStatus() bool {
	return f.Status == "" || f.Status == All
}

func (f Filter) anyPriority() bool {
	return f.Priority == "" || f.Priority == All
}

// Match returns true if the record matches every criterion.
func (f Filter) Match(r Record) bool {
	return newMatcher(f).match(r)
}

// ApplyFilter returns the records matching f, in their original order.
// The input is not modified.
func ApplyFilter(records []Record, f Filter) []Record {
	m := newMatcher(f)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// matcher holds a case folder, which is stateful and must not be shared
// between goroutines.
type matcher struct {
	filter Filter
	folder cases.Caser
	needle string
}

func newMatcher(f Filter) *matcher {
	m := &matcher{filter: f, folder: cases.Fold()}
	m.needle = m.folder.String(f.Search)
	return m
}

func (m *matcher) match(r Record) bool {
	if m.needle != "" &&
		!strings.Contains(m.folder.String(r.Name), m.needle) &&
		!strings.Contains(m.folder.String(r.Task), m.needle) {
		return false
	}
	if !m.filter.anyStatus() && r.Status != m.filter.Status {
		return false
	}
	if !m.filter.anyPriority() && r.Priority != m.filter.Priority {
		return false
	}
	return true
}
