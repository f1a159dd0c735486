package sqlstore

import (
	"time"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/constants"
	"github.com/mrz1836/cliengo/internal/profile"
)

// clientRow stores dates as YYYY-MM-DD text and timestamps as unix
// milliseconds, which SQLite compares and sorts natively.
type clientRow struct {
	ID            string  `gorm:"column:id;primaryKey"`
	OwnerID       string  `gorm:"column:owner_id;not null;index:idx_clients_owner_created,priority:1"`
	Name          string  `gorm:"column:name;not null;default:''"`
	Task          string  `gorm:"column:task;not null;default:''"`
	Description   string  `gorm:"column:description;not null;default:''"`
	Status        string  `gorm:"column:status;not null;default:'not-started'"`
	Priority      string  `gorm:"column:priority;not null;default:'normal'"`
	StartDate     string  `gorm:"column:start_date;not null;default:''"`
	EndDate       *string `gorm:"column:end_date"`
	OrderPosition *int    `gorm:"column:order_position"`
	CreatedMs     int64   `gorm:"column:created_at;not null;default:0;index:idx_clients_owner_created,priority:2"`
	UpdatedMs     int64   `gorm:"column:updated_at;not null;default:0"`
}

func (clientRow) TableName() string { return "clients" }

type profileRow struct {
	OwnerID   string `gorm:"column:owner_id;primaryKey"`
	Name      string `gorm:"column:name;not null;default:''"`
	AvatarURL string `gorm:"column:avatar_url;not null;default:''"`
	UpdatedMs int64  `gorm:"column:updated_at;not null;default:0"`
}

func (profileRow) TableName() string { return "profiles" }

func toClientRow(r client.Record) clientRow {
	row := clientRow{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		Name:          r.Name,
		Task:          r.Task,
		Description:   r.Description,
		Status:        string(r.Status),
		Priority:      string(r.Priority),
		StartDate:     r.StartDate.Format(constants.DateLayout),
		OrderPosition: r.OrderPosition,
		CreatedMs:     r.CreatedAt.UnixMilli(),
		UpdatedMs:     r.UpdatedAt.UnixMilli(),
	}
	if r.EndDate != nil {
		end := r.EndDate.Format(constants.DateLayout)
		row.EndDate = &end
	}
	return row
}

func (row clientRow) record() client.Record {
	r := client.Record{
		ID:            row.ID,
		OwnerID:       row.OwnerID,
		Name:          row.Name,
		Task:          row.Task,
		Description:   row.Description,
		Status:        client.Status(row.Status),
		Priority:      client.Priority(row.Priority),
		StartDate:     parseDate(row.StartDate),
		OrderPosition: row.OrderPosition,
		CreatedAt:     time.UnixMilli(row.CreatedMs).UTC(),
		UpdatedAt:     time.UnixMilli(row.UpdatedMs).UTC(),
	}
	if row.EndDate != nil && *row.EndDate != "" {
		end := parseDate(*row.EndDate)
		r.EndDate = &end
	}
	return r
}

func parseDate(s string) time.Time {
	t, err := time.Parse(constants.DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func toProfileRow(p profile.Profile) profileRow {
	return profileRow{
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		UpdatedMs: p.UpdatedAt.UnixMilli(),
	}
}

func (row profileRow) profile() profile.Profile {
	return profile.Profile{
		OwnerID:   row.OwnerID,
		Name:      row.Name,
		AvatarURL: row.AvatarURL,
		UpdatedAt: time.UnixMilli(row.UpdatedMs).UTC(),
	}
}
