package cli

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrz1836/cliengo/internal/avatar"
	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/clock"
	"github.com/mrz1836/cliengo/internal/config"
	"github.com/mrz1836/cliengo/internal/constants"
	"github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/profile"
	"github.com/mrz1836/cliengo/internal/session"
	"github.com/mrz1836/cliengo/internal/store"
)

// app is the set of services one command invocation works with.
type app struct {
	cfg      *config.Config
	backend  store.Backend
	sessions *session.FileStore
	avatars  *avatar.Store
	clock    clock.Clock
}

// openApp loads configuration and opens the configured store.
// The caller must Close the returned app.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	home, err := config.HomeDir()
	if err != nil {
		return nil, err
	}

	if cfg.Store.Backend == config.BackendMemory {
		return nil, errors.NewExitCode2Error(errors.Wrapf(errors.ErrEphemeralBackend, "store.backend %q", cfg.Store.Backend))
	}

	backend, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		backend:  backend,
		sessions: session.NewFileStore(filepath.Join(home, constants.SessionFileName)),
		avatars:  avatar.NewOS(cfg.Avatar.Dir, cfg.Avatar.BaseURL),
		clock:    clock.RealClock{},
	}, nil
}

func (a *app) Close() error {
	return a.backend.Close()
}

// principal returns the signed-in user or ErrNotSignedIn.
func (a *app) principal() (session.Principal, error) {
	return a.sessions.Load()
}

// manager returns a loaded client manager for the signed-in user.
func (a *app) manager(ctx context.Context) (*client.Manager, error) {
	p, err := a.principal()
	if err != nil {
		return nil, err
	}
	m, err := client.NewManager(a.backend, p.ID,
		client.WithConcurrency(a.cfg.Reorder.Concurrency),
		client.WithClock(a.clock),
	)
	if err != nil {
		return nil, err
	}
	if err := m.Load(ctx); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("owner_id", p.ID).
		Int("records", len(m.Records())).
		Msg("client list loaded")
	return m, nil
}

// profileContext returns a profile context populated for the signed-in user.
func (a *app) profileContext(ctx context.Context) (*profile.Context, error) {
	p, err := a.principal()
	if err != nil {
		return nil, err
	}
	pc := profile.NewContext(a.backend, a.avatars, avatar.Limits{
		MaxBytes:     a.cfg.Avatar.MaxSizeBytes,
		AllowedTypes: a.cfg.Avatar.AllowedTypes,
	}, a.clock)
	if err := pc.Populate(ctx, p); err != nil {
		return nil, errors.Wrap(err, "failed to load profile")
	}
	return pc, nil
}

// withApp opens the app, runs fn, and closes the app.
func withApp(ctx context.Context, fn func(*app) error) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			zerolog.Ctx(ctx).Warn().Err(cerr).Msg("failed to close store")
		}
	}()
	return fn(a)
}
