package profile_test

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/cliengo/internal/avatar"
	"github.com/mrz1836/cliengo/internal/clock"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/profile"
	"github.com/mrz1836/cliengo/internal/session"
	"github.com/mrz1836/cliengo/internal/store/memstore"
	"github.com/mrz1836/cliengo/internal/testutil"
)

var (
	epoch  = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ana    = session.Principal{ID: "owner-ana", Email: "ana.souza@example.com"}
	limits = avatar.Limits{MaxBytes: 64, AllowedTypes: []string{"image/png", "image/jpeg", "image/webp"}}
	png    = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
)

// brokenStore fails every profile read with err.
type brokenStore struct {
	profile.Store

	err error
}

func (b brokenStore) Get(context.Context, string) (profile.Profile, error) {
	return profile.Profile{}, b.err
}

type fixture struct {
	store   *memstore.Store
	fs      afero.Fs
	avatars *avatar.Store
	pc      *profile.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := clock.NewStepper(epoch, time.Second)
	f := &fixture{store: memstore.New(memstore.WithClock(c)), fs: afero.NewMemMapFs()}
	f.avatars = avatar.New(f.fs, "/avatars", "https://cdn.test/avatars")
	f.pc = profile.NewContext(f.store, f.avatars, limits, c)
	return f
}

func TestContext_EmptyState(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	s := f.pc.Snapshot()
	assert.False(t, s.SignedIn())
	assert.Equal(t, profile.State{}, s)
	require.NoError(t, f.pc.Refresh(context.Background()), "refresh while signed out is a no-op")

	_, err := f.pc.SetName(context.Background(), "Ana")
	require.ErrorIs(t, err, cliengoerrors.ErrNotSignedIn)
}

func TestContext_PopulateFallsBackToEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	require.NoError(t, f.pc.Populate(context.Background(), ana))

	s := f.pc.Snapshot()
	assert.True(t, s.SignedIn())
	assert.Equal(t, "ana.souza", s.Name)
	assert.Empty(t, s.AvatarURL)
}

func TestContext_PopulateUsesStoredProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.store.Save(ctx, profile.Profile{OwnerID: ana.ID, Name: "Ana Souza", AvatarURL: "https://cdn.test/a.png"})
	require.NoError(t, err)

	require.NoError(t, f.pc.Populate(ctx, ana))

	s := f.pc.Snapshot()
	assert.Equal(t, "Ana Souza", s.Name)
	assert.Equal(t, "https://cdn.test/a.png", s.AvatarURL)
	assert.Equal(t, "AN", s.Initials())
}

func TestContext_StoredProfileWithoutNameUsesEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.store.Save(ctx, profile.Profile{OwnerID: ana.ID})
	require.NoError(t, err)

	require.NoError(t, f.pc.Populate(ctx, ana))
	assert.Equal(t, "ana.souza", f.pc.Snapshot().Name)
}

func TestContext_AvatarFallsBackToLatestBlob(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.avatars.Put(ctx, "owner-ana/owner-ana-1.png", png))

	require.NoError(t, f.pc.Populate(ctx, ana))
	assert.Equal(t, "https://cdn.test/avatars/owner-ana/owner-ana-1.png", f.pc.Snapshot().AvatarURL)
}

func TestContext_RefreshStoreFailure(t *testing.T) {
	t.Parallel()
	pc := profile.NewContext(brokenStore{err: testutil.ErrMockStoreUnavailable}, nil, limits, nil)

	err := pc.Populate(context.Background(), session.Principal{ID: "x", Email: "bia@example.com"})
	require.ErrorIs(t, err, testutil.ErrMockStoreUnavailable)

	s := pc.Snapshot()
	assert.Equal(t, "bia", s.Name, "email fallback still applies")
	assert.Empty(t, s.AvatarURL)
}

func TestContext_Clear(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	require.NoError(t, f.pc.Populate(context.Background(), ana))

	f.pc.Clear()
	assert.Equal(t, profile.State{}, f.pc.Snapshot())

	f.pc.UpdateLocal("ghost", "")
	assert.Equal(t, profile.State{}, f.pc.Snapshot(), "local updates need a signed-in user")
}

func TestContext_UpdateLocal(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	require.NoError(t, f.pc.Populate(context.Background(), ana))

	f.pc.UpdateLocal("", "https://cdn.test/b.png")
	f.pc.UpdateLocal("Ana", "")

	s := f.pc.Snapshot()
	assert.Equal(t, "Ana", s.Name)
	assert.Equal(t, "https://cdn.test/b.png", s.AvatarURL)

	_, err := f.store.Get(context.Background(), ana.ID)
	require.ErrorIs(t, err, cliengoerrors.ErrProfileNotFound, "nothing is persisted")
}

func TestContext_SetName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.pc.Populate(ctx, ana))

	_, err := f.pc.SetName(ctx, "   ")
	require.ErrorIs(t, err, cliengoerrors.ErrValidation)

	s, err := f.pc.SetName(ctx, "  Ana Souza ")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", s.Name)

	stored, err := f.store.Get(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", stored.Name)
}

func TestContext_UploadAvatar(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.pc.Populate(ctx, ana))
	_, err := f.pc.SetName(ctx, "Ana")
	require.NoError(t, err)

	s, err := f.pc.UploadAvatar(ctx, avatar.Upload{Filename: "me.png", Data: png})
	require.NoError(t, err)
	require.NotEmpty(t, s.AvatarURL)
	assert.Contains(t, s.AvatarURL, "https://cdn.test/avatars/owner-ana/owner-ana-")
	assert.Equal(t, "Ana", s.Name)

	stored, err := f.store.Get(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, s.AvatarURL, stored.AvatarURL)
	assert.Equal(t, "Ana", stored.Name, "name survives the avatar update")

	path, ok, err := f.avatars.Latest(ctx, ana.ID)
	require.NoError(t, err)
	require.True(t, ok)
	data, err := afero.ReadFile(f.fs, path)
	require.NoError(t, err)
	assert.Equal(t, png, data)
}

func TestContext_UploadAvatarRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.pc.Populate(ctx, ana))

	_, err := f.pc.UploadAvatar(ctx, avatar.Upload{ContentType: "image/gif", Data: []byte("GIF89a")})
	require.ErrorIs(t, err, cliengoerrors.ErrAvatarUnsupportedType)

	_, err = f.pc.UploadAvatar(ctx, avatar.Upload{ContentType: "image/png", Data: make([]byte, 65)})
	require.ErrorIs(t, err, cliengoerrors.ErrAvatarTooLarge)

	_, ok, err := f.avatars.Latest(ctx, ana.ID)
	require.NoError(t, err)
	assert.False(t, ok, "rejected uploads write nothing")
	assert.Empty(t, f.pc.Snapshot().AvatarURL)
}

func TestState_Initials(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "AS", profile.State{Email: "asouza@example.com"}.Initials())
	assert.Equal(t, "BI", profile.State{Name: "bia"}.Initials())
	assert.Equal(t, "J", profile.State{Name: "j"}.Initials())
}
