package redisstore

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/constants"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/profile"
)

// Optional hash fields. They are deleted rather than written empty.
const (
	fieldEndDate       = "end_date"
	fieldOrderPosition = "order_position"
)

// recordToHash converts a record to hash fields plus the optional fields that
// must be removed because the record leaves them unset.
func recordToHash(r client.Record) (fields map[string]any, absent []string) {
	fields = map[string]any{
		"id":            r.ID,
		"owner_id":      r.OwnerID,
		"name":          r.Name,
		"task":          r.Task,
		"description":   r.Description,
		"status":        string(r.Status),
		"priority":      string(r.Priority),
		"start_date":    r.StartDate.Format(constants.DateLayout),
		"created_at_ms": r.CreatedAt.UnixMilli(),
		"updated_at_ms": r.UpdatedAt.UnixMilli(),
	}
	if r.EndDate != nil {
		fields[fieldEndDate] = r.EndDate.Format(constants.DateLayout)
	} else {
		absent = append(absent, fieldEndDate)
	}
	if r.OrderPosition != nil {
		fields[fieldOrderPosition] = *r.OrderPosition
	} else {
		absent = append(absent, fieldOrderPosition)
	}
	return fields, absent
}

// hashToRecord converts a Redis hash back to a record.
func hashToRecord(hash map[string]string) (client.Record, error) {
	if hash["id"] == "" {
		return client.Record{}, fmt.Errorf("%w: missing id", cliengoerrors.ErrMalformedRecord)
	}
	start, err := time.Parse(constants.DateLayout, hash["start_date"])
	if err != nil {
		return client.Record{}, fmt.Errorf("%w: start_date: %w", cliengoerrors.ErrMalformedRecord, err)
	}
	createdMs, _ := strconv.ParseInt(hash["created_at_ms"], 10, 64)
	updatedMs, _ := strconv.ParseInt(hash["updated_at_ms"], 10, 64)

	r := client.Record{
		ID:          hash["id"],
		OwnerID:     hash["owner_id"],
		Name:        hash["name"],
		Task:        hash["task"],
		Description: hash["description"],
		Status:      client.Status(hash["status"]),
		Priority:    client.Priority(hash["priority"]),
		StartDate:   start,
		CreatedAt:   time.UnixMilli(createdMs).UTC(),
		UpdatedAt:   time.UnixMilli(updatedMs).UTC(),
	}
	if v, ok := hash[fieldEndDate]; ok && v != "" {
		end, err := time.Parse(constants.DateLayout, v)
		if err != nil {
			return client.Record{}, fmt.Errorf("%w: end_date: %w", cliengoerrors.ErrMalformedRecord, err)
		}
		r.EndDate = &end
	}
	if v, ok := hash[fieldOrderPosition]; ok && v != "" {
		pos, err := strconv.Atoi(v)
		if err != nil {
			return client.Record{}, fmt.Errorf("%w: order_position: %w", cliengoerrors.ErrMalformedRecord, err)
		}
		r.OrderPosition = &pos
	}
	return r, nil
}

func profileToHash(p profile.Profile) map[string]any {
	return map[string]any{
		"owner_id":      p.OwnerID,
		"name":          p.Name,
		"avatar_url":    p.AvatarURL,
		"updated_at_ms": p.UpdatedAt.UnixMilli(),
	}
}

func hashToProfile(hash map[string]string) profile.Profile {
	updatedMs, _ := strconv.ParseInt(hash["updated_at_ms"], 10, 64)
	return profile.Profile{
		OwnerID:   hash["owner_id"],
		Name:      hash["name"],
		AvatarURL: hash["avatar_url"],
		UpdatedAt: time.UnixMilli(updatedMs).UTC(),
	}
}
