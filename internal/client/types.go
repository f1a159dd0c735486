// Package client models the client records of a cliengo owner and the ordered,
// filterable list the dashboard works with.
//
// Records are persisted through a Store. The Manager keeps the authoritative
// display order in memory and reconciles local reordering with the integer
// position each record carries in the store.
package client

import (
	"fmt"
	"strings"
	"time"

	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
)

// Status represents where the work for a client currently stands.
type Status string

const (
	StatusNotStarted       Status = "not-started"
	StatusNegotiating      Status = "negotiating"
	StatusInProgress       Status = "in-progress"
	StatusAwaitingFeedback Status = "awaiting-feedback"
	StatusPaused           Status = "paused"
	StatusProblematic      Status = "problematic"
	StatusFixedRecurring   Status = "fixed-recurring"
	StatusCompleted        Status = "completed"
)

// ValidStatuses returns all valid status values in display order.
func ValidStatuses() []Status {
	return []Status{
		StatusNotStarted,
		StatusNegotiating,
		StatusInProgress,
		StatusAwaitingFeedback,
		StatusPaused,
		StatusProblematic,
		StatusFixedRecurring,
		StatusCompleted,
	}
}

// IsValid checks if the status is a valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusNegotiating, StatusInProgress, StatusAwaitingFeedback,
		StatusPaused, StatusProblematic, StatusFixedRecurring, StatusCompleted:
		return true
	default:
		return false
	}
}

// Label returns the human readable name of the status.
func (s Status) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not started"
	case StatusNegotiating:
		return "Negotiating"
	case StatusInProgress:
		return "In progress"
	case StatusAwaitingFeedback:
		return "Awaiting feedback"
	case StatusPaused:
		return "Paused"
	case StatusProblematic:
		return "Problematic"
	case StatusFixedRecurring:
		return "Fixed (recurring)"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// Tone returns the color family used to render the status.
func (s Status) Tone() Tone {
	switch s {
	case StatusNotStarted:
		return ToneNeutral
	case StatusNegotiating:
		return TonePurple
	case StatusInProgress:
		return ToneYellow
	case StatusAwaitingFeedback:
		return ToneOrange
	case StatusPaused:
		return ToneGray
	case StatusProblematic:
		return ToneRed
	case StatusFixedRecurring:
		return ToneBlue
	case StatusCompleted:
		return ToneGreen
	default:
		return ToneNeutral
	}
}

// ParseStatus accepts a status value or its label, case-insensitively.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, v := range ValidStatuses() {
		if strings.EqualFold(s, string(v)) || strings.EqualFold(s, v.Label()) {
			return v, nil
		}
	}
	return "", cliengoerrors.NewValidationError("status", cliengoerrors.ErrInvalidStatus,
		fmt.Sprintf("%q is not a valid status", s))
}

// Priority indicates how urgent a client's task is.
type Priority string

// Priority constants define the valid urgency levels.
const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// ValidPriorities returns all valid priority values, most urgent first.
func ValidPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityNormal, PriorityLow}
}

// IsValid checks if the priority is a valid value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	default:
		return false
	}
}

// Label returns the human readable name of the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityNormal:
		return "Normal"
	case PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

// Tone returns the color family used to render the priority.
func (p Priority) Tone() Tone {
	switch p {
	case PriorityHigh:
		return ToneRed
	case PriorityNormal:
		return ToneBlue
	case PriorityLow:
		return ToneGreen
	default:
		return ToneNeutral
	}
}

// ParsePriority accepts a priority value case-insensitively.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for _, v := range ValidPriorities() {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", cliengoerrors.NewValidationError("priority", cliengoerrors.ErrInvalidPriority,
		fmt.Sprintf("%q is not a valid priority", s))
}

// Tone is a presentation-neutral color family. Renderers map it to real colors.
type Tone string

// Tone constants.
const (
	ToneNeutral Tone = "neutral"
	TonePurple  Tone = "purple"
	ToneYellow  Tone = "yellow"
	ToneOrange  Tone = "orange"
	ToneGray    Tone = "gray"
	ToneRed     Tone = "red"
	ToneBlue    Tone = "blue"
	ToneGreen   Tone = "green"
)

// Record is a single client entry owned by one principal.
type Record struct {
	ID            string     `yaml:"id" json:"id"`
	OwnerID       string     `yaml:"owner_id" json:"owner_id"`
	Name          string     `yaml:"name" json:"name"`
	Task          string     `yaml:"task" json:"task"`
	Description   string     `yaml:"description,omitempty" json:"description,omitempty"`
	Status        Status     `yaml:"status" json:"status"`
	Priority      Priority   `yaml:"priority" json:"priority"`
	StartDate     time.Time  `yaml:"start_date" json:"start_date"`
	EndDate       *time.Time `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	OrderPosition *int       `yaml:"order_position,omitempty" json:"order_position,omitempty"`
	CreatedAt     time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `yaml:"updated_at" json:"updated_at"`
}

// Fields returns the user-editable part of the record.
func (r Record) Fields() Fields {
	return Fields{
		Name:        r.Name,
		Task:        r.Task,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// Validate checks the user-editable fields of the record.
func (r Record) Validate() error {
	return r.Fields().Validate()
}

// HasPosition reports whether the record has been placed by a reorder.
func (r Record) HasPosition() bool {
	return r.OrderPosition != nil
}

// Fields is the input for creating a record.
type Fields struct {
	Name        string
	Task        string
	Description string
	Status      Status
	Priority    Priority
	StartDate   time.Time
	EndDate     *time.Time
}

// WithDefaults fills an empty status, priority, or start date the way the
// creation form does.
func (f Fields) WithDefaults(now time.Time) Fields {
	if f.Status == "" {
		f.Status = StatusNotStarted
	}
	if f.Priority == "" {
		f.Priority = PriorityNormal
	}
	if f.StartDate.IsZero() {
		f.StartDate = TruncateDate(now)
	}
	f.Name = strings.TrimSpace(f.Name)
	f.Task = strings.TrimSpace(f.Task)
	return f
}

// Validate checks required fields and value domains.
func (f Fields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return cliengoerrors.NewValidationError("name", cliengoerrors.ErrEmptyValue, "name is required")
	}
	if strings.TrimSpace(f.Task) == "" {
		return cliengoerrors.NewValidationError("task", cliengoerrors.ErrEmptyValue, "task is required")
	}
	if !f.Status.IsValid() {
		return cliengoerrors.NewValidationError("status", cliengoerrors.ErrInvalidStatus,
			fmt.Sprintf("%q is not a valid status", f.Status))
	}
	if !f.Priority.IsValid() {
		return cliengoerrors.NewValidationError("priority", cliengoerrors.ErrInvalidPriority,
			fmt.Sprintf("%q is not a valid priority", f.Priority))
	}
	if f.StartDate.IsZero() {
		return cliengoerrors.NewValidationError("start_date", cliengoerrors.ErrEmptyValue, "start date is required")
	}
	if f.EndDate != nil && f.EndDate.Before(f.StartDate) {
		return cliengoerrors.NewValidationError("end_date", cliengoerrors.ErrInvalidDate, "end date is before start date")
	}
	return nil
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name          *string
	Task          *string
	Description   *string
	Status        *Status
	Priority      *Priority
	StartDate     *time.Time
	EndDate       *time.Time
	ClearEndDate  bool
	OrderPosition *int
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Task == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.StartDate == nil && p.EndDate == nil && !p.ClearEndDate &&
		p.OrderPosition == nil
}

// Validate checks each field the patch sets. Cross-field rules need the
// merged record and are checked by Record.Validate.
func (p Patch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return cliengoerrors.NewValidationError("name", cliengoerrors.ErrEmptyValue, "name is required")
	}
	if p.Task != nil && strings.TrimSpace(*p.Task) == "" {
		return cliengoerrors.NewValidationError("task", cliengoerrors.ErrEmptyValue, "task is required")
	}
	if p.Status != nil && !p.Status.IsValid() {
		return cliengoerrors.NewValidationError("status", cliengoerrors.ErrInvalidStatus,
			fmt.Sprintf("%q is not a valid status", *p.Status))
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return cliengoerrors.NewValidationError("priority", cliengoerrors.ErrInvalidPriority,
			fmt.Sprintf("%q is not a valid priority", *p.Priority))
	}
	if p.StartDate != nil && p.StartDate.IsZero() {
		return cliengoerrors.NewValidationError("start_date", cliengoerrors.ErrEmptyValue, "start date is required")
	}
	if p.OrderPosition != nil && *p.OrderPosition < 0 {
		return cliengoerrors.NewValidationError("order_position", cliengoerrors.ErrIndexOutOfRange, "position cannot be negative")
	}
	return nil
}

// Apply writes the patch onto r. It does not touch timestamps.
func (p Patch) Apply(r *Record) {
	if p.Name != nil {
		r.Name = strings.TrimSpace(*p.Name)
	}
	if p.Task != nil {
		r.Task = strings.TrimSpace(*p.Task)
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Priority != nil {
		r.Priority = *p.Priority
	}
	if p.StartDate != nil {
		r.StartDate = TruncateDate(*p.StartDate)
	}
	if p.EndDate != nil {
		r.EndDate = truncateDatePtr(p.EndDate)
	}
	if p.ClearEndDate {
		r.EndDate = nil
	}
	if p.OrderPosition != nil {
		pos := *p.OrderPosition
		r.OrderPosition = &pos
	}
}

// NewRecord builds a record from validated fields. Stores call this so every
// backend fills the same columns.
func NewRecord(id, ownerID string, f Fields, now time.Time) Record {
	return Record{
		ID:          id,
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(f.Name),
		Task:        strings.TrimSpace(f.Task),
		Description: f.Description,
		Status:      f.Status,
		Priority:    f.Priority,
		StartDate:   TruncateDate(f.StartDate),
		EndDate:     truncateDatePtr(f.EndDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TruncateDate drops the time of day, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func truncateDatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := TruncateDate(*t)
	return &d
}

// Stats are the dashboard header counters.
type Stats struct {
	Total            int `json:"total"`
	InProgress       int `json:"in_progress"`
	Completed        int `json:"completed"`
	AwaitingFeedback int `json:"awaiting_feedback"`
}
