package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/olyox/partner-cli/internal/client/api"
	"github.com/olyox/partner-cli/internal/client/storage"
	"github.com/olyox/partner-cli/internal/models"
)

// State is the session lifecycle state
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// ProfileState tracks hydration separately from authentication: a token can
// be valid while the profile fetch failed.
type ProfileState int

const (
	ProfileUnknown ProfileState = iota
	ProfileLoaded
)

func (p ProfileState) String() string {
	switch p {
	case ProfileUnknown:
		return "unknown"
	case ProfileLoaded:
		return "loaded"
	default:
		return "invalid"
	}
}

// ErrSessionExpired is returned when the server rejected the stored token.
// The local session has already been cleared by the time callers see it.
var ErrSessionExpired = errors.New("session expired, please login again")

// ErrNoToken is returned by operations that need an authenticated session
var ErrNoToken = errors.New("not authenticated")

// ProfileFetcher hydrates the partner profile for a token
type ProfileFetcher interface {
	Fetch(ctx context.Context, token string) (*models.User, error)
}

// hydrateKey coalesces concurrent Bootstrap/RefreshProfile flights
const hydrateKey = "hydrate"

// Manager owns the in-memory session state: token, hydrated user, lifecycle
// state. Constructed once at process start and passed explicitly to every
// consumer. Only token presence gates authentication; the user object may be
// stale or absent even while authenticated.
type Manager struct {
	store   storage.AuthStorage
	fetcher ProfileFetcher
	logger  *slog.Logger
	flights singleflight.Group

	mu           sync.Mutex
	state        State
	profileState ProfileState
	token        string
	bhID         string
	nodeID       string
	user         *models.User
	loading      bool
}

// Snapshot is a consistent copy of the session state
type Snapshot struct {
	State           State
	ProfileState    ProfileState
	Token           string
	BhID            string
	NodeID          string
	User            *models.User
	Loading         bool
	IsAuthenticated bool
}

// NewManager creates a session manager over the given store and fetcher
func NewManager(store storage.AuthStorage, fetcher ProfileFetcher, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:   store,
		fetcher: fetcher,
		logger:  logger,
		state:   StateUninitialized,
	}
}

// Bootstrap runs the startup hydration sequence: read the token store, and if
// a token exists hydrate the profile. A transient profile-fetch failure keeps
// the session authenticated; only a token rejected by the server forces
// logout. Concurrent calls coalesce into the in-flight sequence.
func (m *Manager) Bootstrap(ctx context.Context) error {
	_, err, _ := m.flights.Do(hydrateKey, func() (interface{}, error) {
		return nil, m.bootstrap(ctx)
	})
	return err
}

func (m *Manager) bootstrap(ctx context.Context) error {
	m.mu.Lock()
	m.state = StateLoading
	m.loading = true
	m.mu.Unlock()

	// loading must reach false exactly once per attempt, success or failure
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	auth, err := m.store.GetAuth(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrAuthNotFound) {
			// Broken storage reads as "no token", never as a crash
			m.logger.Warn("failed to read token store, treating as no token", "error", err)
		}
		m.mu.Lock()
		m.state = StateUnauthenticated
		m.mu.Unlock()
		return nil
	}

	m.mu.Lock()
	m.token = auth.Token
	m.bhID = auth.BhID
	m.nodeID = auth.NodeID
	m.mu.Unlock()

	return m.hydrate(ctx, auth.Token)
}

// hydrate fetches and merges the profile for token, updating session state
// according to the error taxonomy
func (m *Manager) hydrate(ctx context.Context, token string) error {
	user, err := m.fetcher.Fetch(ctx, token)
	if err != nil {
		if api.IsAuthError(err) {
			m.logger.Info("token rejected by server, clearing session", "error", err)
			if delErr := m.DeleteToken(ctx); delErr != nil {
				m.logger.Error("failed to clear expired session", "error", delErr)
			}
			return ErrSessionExpired
		}

		// Transient failure: keep the token, surface the profile as absent
		m.logger.Warn("profile hydration failed, keeping session", "error", err)
		m.mu.Lock()
		m.state = StateAuthenticated
		m.profileState = ProfileUnknown
		m.mu.Unlock()
		return nil
	}

	m.mu.Lock()
	m.user = user
	m.state = StateAuthenticated
	m.profileState = ProfileLoaded
	m.mu.Unlock()
	return nil
}

// SetToken persists the token and updates the in-memory session, then
// hydrates the profile. Persistence is best-effort: a storage write failure
// is logged but the in-memory session still becomes authenticated.
func (m *Manager) SetToken(ctx context.Context, token, bhID string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	m.mu.Lock()
	nodeID := m.nodeID
	m.mu.Unlock()

	auth := &storage.AuthData{
		Token:   token,
		BhID:    bhID,
		NodeID:  nodeID,
		SavedAt: time.Now().Unix(),
	}
	if err := m.store.SaveAuth(ctx, auth); err != nil {
		m.logger.Error("failed to persist token, session will not survive restart", "error", err)
	}

	m.mu.Lock()
	m.token = token
	m.bhID = bhID
	m.state = StateAuthenticated
	m.profileState = ProfileUnknown
	m.mu.Unlock()

	_, err, _ := m.flights.Do(hydrateKey, func() (interface{}, error) {
		return nil, m.hydrate(ctx, token)
	})
	return err
}

// DeleteToken clears the token store and the in-memory token and user
// together. No consumer can observe a state where one is cleared and the
// other is not.
func (m *Manager) DeleteToken(ctx context.Context) error {
	if err := m.store.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		m.logger.Warn("failed to clear token store", "error", err)
	}

	m.mu.Lock()
	m.token = ""
	m.bhID = ""
	m.user = nil
	m.state = StateUnauthenticated
	m.profileState = ProfileUnknown
	m.mu.Unlock()

	return nil
}

// RefreshProfile re-runs hydration with the current token. Used after any
// operation that changes server-side profile state. Does not alter the token.
// Concurrent calls coalesce with any in-flight hydration.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == "" {
		return ErrNoToken
	}

	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	_, err, _ := m.flights.Do(hydrateKey, func() (interface{}, error) {
		return nil, m.hydrate(ctx, token)
	})
	return err
}

// SetNodeID records the device identifier persisted alongside the token
func (m *Manager) SetNodeID(id string) {
	m.mu.Lock()
	m.nodeID = id
	m.mu.Unlock()
}

// IsAuthenticated reports token presence. Derived, never stored.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}

// Token returns the current session token, empty when unauthenticated
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Snapshot returns a consistent copy of the session state
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:           m.state,
		ProfileState:    m.profileState,
		Token:           m.token,
		BhID:            m.bhID,
		NodeID:          m.nodeID,
		User:            m.user,
		Loading:         m.loading,
		IsAuthenticated: m.token != "",
	}
}
