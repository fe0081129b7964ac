package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"preserva/internal/api"
)

// Backend is the slice of the API client the session layer needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password string) (string, error)
	Me(ctx context.Context) (api.User, error)
}

// Manager owns the {user, isLoading} pair. The user is re-derived from the
// token store on a fixed interval (Check) so a logout or login performed in
// another process is picked up without a push channel; the fsnotify watcher
// shortens that window when the platform delivers events.
type Manager struct {
	mu      sync.RWMutex
	backend Backend
	store   *TokenStore
	log     *zap.Logger

	user    *api.User
	loading bool
}

// NewManager builds a Manager. The session is loading until the first
// Refresh completes.
func NewManager(backend Backend, store *TokenStore, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{backend: backend, store: store, log: log, loading: true}
}

// User returns the current identity, if any.
func (m *Manager) User() (api.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return api.User{}, false
	}
	return *m.user, true
}

// Loading reports whether the initial resolution has not finished yet.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Refresh re-resolves the user from the stored token. Failure — including a
// missing token — clears the user and is never fatal: the caller just sees
// an unauthenticated session.
func (m *Manager) Refresh(ctx context.Context) {
	if m.store.Token() == "" {
		m.setUser(nil)
		return
	}
	u, err := m.backend.Me(ctx)
	if err != nil {
		if !api.IsUnauthorized(err) {
			m.log.Debug("resolving user failed", zap.Error(err))
		}
		m.setUser(nil)
		return
	}
	m.setUser(&u)
}

// Check is the periodic token re-check: token gone while a user is set
// means an out-of-band logout; token present while no user is set means an
// out-of-band login worth resolving.
func (m *Manager) Check(ctx context.Context) {
	hasToken := m.store.Token() != ""
	_, hasUser := m.User()

	switch {
	case !hasToken && hasUser:
		m.setUser(nil)
	case hasToken && !hasUser:
		m.Refresh(ctx)
	}
}

// Login exchanges credentials for a token, stores it, and resolves the user.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	tok, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := m.store.Set(tok); err != nil {
		return err
	}
	m.Refresh(ctx)
	return nil
}

// Register creates an account, stores its token, and resolves the user.
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	tok, err := m.backend.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	if err := m.store.Set(tok); err != nil {
		return err
	}
	m.Refresh(ctx)
	return nil
}

// Logout clears the token and the user. Returning to the login entry point
// is the caller's job (the TUI switches pages, the CLI just exits).
func (m *Manager) Logout() error {
	err := m.store.Clear()
	m.setUser(nil)
	return err
}

func (m *Manager) setUser(u *api.User) {
	m.mu.Lock()
	m.user = u
	m.loading = false
	m.mu.Unlock()
}
