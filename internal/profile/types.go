package profile

import (
	"context"
	"time"
)

// Profile is the stored part of a user's profile.
type Profile struct {
	OwnerID   string    `yaml:"owner_id" json:"owner_id"`
	Name      string    `yaml:"name,omitempty" json:"name,omitempty"`
	AvatarURL string    `yaml:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	UpdatedAt time.Time `yaml:"updated_at" json:"updated_at"`
}

// Store persists one profile per owner.
type Store interface {
	// Get returns cliengoerrors.ErrProfileNotFound when the owner has no profile.
	Get(ctx context.Context, ownerID string) (Profile, error)

	// Save inserts or replaces the owner's profile.
	Save(ctx context.Context, p Profile) (Profile, error)
}
