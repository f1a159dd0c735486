package profile

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mrz1836/cliengo/internal/avatar"
	"github.com/mrz1836/cliengo/internal/clock"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/session"
)

// DefaultName is shown when neither a profile name nor an email is known.
const DefaultName = "User"

// AvatarStore is the blob storage behind avatar uploads.
type AvatarStore interface {
	Put(ctx context.Context, path string, data []byte) error
	Latest(ctx context.Context, prefix string) (path string, ok bool, err error)
	PublicURL(path string) string
}

// State is what the rest of the program sees of the signed-in user's profile.
// The zero State is the signed-out state.
type State struct {
	OwnerID   string `json:"owner_id,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// SignedIn reports whether the state belongs to a user.
func (s State) SignedIn() bool {
	return s.OwnerID != ""
}

// Initials returns up to two upper-case letters for an avatar placeholder.
func (s State) Initials() string {
	src := s.Name
	if src == "" {
		src = emailName(s.Email)
	}
	r := []rune(strings.ReplaceAll(src, " ", ""))
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

// Context holds the signed-in user's profile and the operations that change it.
// It is safe for concurrent use.
type Context struct {
	store   Store
	avatars AvatarStore
	limits  avatar.Limits
	clock   clock.Clock

	mu    sync.RWMutex
	state State
}

// NewContext returns a Context in the signed-out state.
func NewContext(store Store, avatars AvatarStore, limits avatar.Limits, c clock.Clock) *Context {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Context{store: store, avatars: avatars, limits: limits, clock: c}
}

// Snapshot returns a copy of the current state.
func (c *Context) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Populate signs p in and loads their profile.
func (c *Context) Populate(ctx context.Context, p session.Principal) error {
	c.mu.Lock()
	c.state = State{OwnerID: p.ID, Email: p.Email, Name: emailName(p.Email)}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Clear returns to the signed-out state.
func (c *Context) Clear() {
	c.mu.Lock()
	c.state = State{}
	c.mu.Unlock()
}

// Refresh reloads the profile from the store.
//
// A missing profile falls back to the email's local part without error. Any
// other failure also falls back but is returned. Without a stored avatar the
// most recent uploaded blob is used.
func (c *Context) Refresh(ctx context.Context) error {
	current := c.Snapshot()
	if !current.SignedIn() {
		return nil
	}

	next := State{OwnerID: current.OwnerID, Email: current.Email, Name: emailName(current.Email)}
	p, err := c.store.Get(ctx, current.OwnerID)
	switch {
	case err == nil:
		if p.Name != "" {
			next.Name = p.Name
		}
		next.AvatarURL = p.AvatarURL
	case errors.Is(err, cliengoerrors.ErrProfileNotFound):
		err = nil
	default:
		zerolog.Ctx(ctx).Warn().Err(err).Str("owner_id", current.OwnerID).Msg("failed to load profile, using email fallback")
	}

	if err == nil && next.AvatarURL == "" && c.avatars != nil {
		next.AvatarURL = c.latestAvatar(ctx, current.OwnerID)
	}

	c.mu.Lock()
	// Discard the result if the user changed while loading.
	if c.state.OwnerID == current.OwnerID {
		c.state = next
	}
	c.mu.Unlock()
	return err
}

func (c *Context) latestAvatar(ctx context.Context, ownerID string) string {
	path, ok, err := c.avatars.Latest(ctx, ownerID)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("owner_id", ownerID).Msg("avatar lookup failed")
		return ""
	}
	if !ok {
		return ""
	}
	return c.avatars.PublicURL(path)
}

// UpdateLocal changes the in-memory state without touching the store.
// Empty arguments leave the field as it is.
func (c *Context) UpdateLocal(name, avatarURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.SignedIn() {
		return
	}
	if name != "" {
		c.state.Name = name
	}
	if avatarURL != "" {
		c.state.AvatarURL = avatarURL
	}
}

// SetName stores a new display name.
func (c *Context) SetName(ctx context.Context, name string) (State, error) {
	current := c.Snapshot()
	if !current.SignedIn() {
		return State{}, cliengoerrors.ErrNotSignedIn
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return State{}, cliengoerrors.NewValidationError("name", cliengoerrors.ErrEmptyValue, "name is required")
	}

	p, err := c.storedProfile(ctx, current)
	if err != nil {
		return State{}, err
	}
	p.Name = name
	if _, err := c.store.Save(ctx, p); err != nil {
		return State{}, cliengoerrors.Wrap(err, "failed to save profile")
	}

	c.UpdateLocal(name, "")
	return c.Snapshot(), nil
}

// UploadAvatar validates u, stores it as a new blob, and points the profile at it.
func (c *Context) UploadAvatar(ctx context.Context, u avatar.Upload) (State, error) {
	current := c.Snapshot()
	if !current.SignedIn() {
		return State{}, cliengoerrors.ErrNotSignedIn
	}
	_, ext, err := avatar.Validate(u, c.limits)
	if err != nil {
		return State{}, err
	}

	path := avatar.ObjectPath(current.OwnerID, c.clock.Now(), ext)
	if err := c.avatars.Put(ctx, path, u.Data); err != nil {
		return State{}, cliengoerrors.Wrap(err, "failed to upload avatar")
	}
	url := c.avatars.PublicURL(path)

	p, err := c.storedProfile(ctx, current)
	if err != nil {
		return State{}, err
	}
	p.AvatarURL = url
	if _, err := c.store.Save(ctx, p); err != nil {
		return State{}, cliengoerrors.Wrap(err, "failed to save profile")
	}

	zerolog.Ctx(ctx).Info().Str("owner_id", current.OwnerID).Str("path", path).Msg("avatar uploaded")
	c.UpdateLocal("", url)
	return c.Snapshot(), nil
}

// storedProfile returns the owner's stored profile, or a new one seeded from
// the local state.
func (c *Context) storedProfile(ctx context.Context, current State) (Profile, error) {
	p, err := c.store.Get(ctx, current.OwnerID)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, cliengoerrors.ErrProfileNotFound) {
		return Profile{OwnerID: current.OwnerID, Name: current.Name, AvatarURL: current.AvatarURL}, nil
	}
	return Profile{}, cliengoerrors.Wrap(err, "failed to load profile")
}

func emailName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return DefaultName
	}
	return local
}
