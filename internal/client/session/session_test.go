package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olyox/partner-cli/internal/client/api"
	"github.com/olyox/partner-cli/internal/client/storage"
	"github.com/olyox/partner-cli/internal/models"
	pkgapi "github.com/olyox/partner-cli/pkg/api"
)

// mockStore implements storage.AuthStorage for testing
type mockStore struct {
	mu        sync.Mutex
	data      *storage.AuthData
	getErr    error
	saveErr   error
	deleteErr error
}

func (m *mockStore) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	record := *auth
	m.data = &record
	return nil
}

func (m *mockStore) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.data == nil {
		return nil, storage.ErrAuthNotFound
	}
	record := *m.data
	return &record, nil
}

func (m *mockStore) DeleteAuth(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.data = nil
	return nil
}

func (m *mockStore) stored() *storage.AuthData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

// mockFetcher implements ProfileFetcher for testing
type mockFetcher struct {
	mu    sync.Mutex
	user  *models.User
	err   error
	calls int
}

func (m *mockFetcher) Fetch(ctx context.Context, token string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func testUser() *models.User {
	return &models.User{
		Profile: pkgapi.Profile{ID: "p-1", Name: "Anish Jha", BhID: "BH960114"},
	}
}

func TestBootstrap_NoToken(t *testing.T) {
	store := &mockStore{}
	fetcher := &mockFetcher{}
	m := NewManager(store, fetcher, nil)

	err := m.Bootstrap(context.Background())
	require.NoError(t, err)

	snap := m.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.User)
	assert.Equal(t, 0, fetcher.callCount(), "no profile fetch without a token")
}

func TestBootstrap_TokenPresent(t *testing.T) {
	store := &mockStore{data: &storage.AuthData{Token: "tok-1", BhID: "BH960114"}}
	fetcher := &mockFetcher{user: testUser()}
	m := NewManager(store, fetcher, nil)

	err := m.Bootstrap(context.Background())
	require.NoError(t, err)

	snap := m.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Equal(t, ProfileLoaded, snap.ProfileState)
	assert.True(t, snap.IsAuthenticated)
	assert.False(t, snap.Loading)
	assert.Equal(t, "tok-1", snap.Token)
	assert.Equal(t, "BH960114", snap.BhID)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Anish Jha", snap.User.Profile.Name)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestBootstrap_StorageFailureTreatedAsNoToken(t *testing.T) {
	store := &mockStore{getErr: errors.New("keychain unavailable")}
	fetcher := &mockFetcher{}
	m := NewManager(store, fetcher, nil)

	err := m.Bootstrap(context.Background())
	require.NoError(t, err)

	snap := m.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.False(t, snap.Loading)
}

func TestBootstrap_FetchFailureKeepsToken(t *testing.T) {
	store := &mockStore{data: &storage.AuthData{Token: "tok-1"}}
	fetcher := &mockFetcher{err: errors.New("network unreachable")}
	m := NewManager(store, fetcher, nil)

	err := m.Bootstrap(context.Background())
	require.NoError(t, err)

	snap := m.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State, "transient fetch failure must not log the user out")
	assert.Equal(t, ProfileUnknown, snap.ProfileState)
	assert.True(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Equal(t, "tok-1", snap.Token)
	assert.NotNil(t, store.stored(), "token store untouched")
}

func TestBootstrap_AuthErrorClearsSession(t *testing.T) {
	store := &mockStore{data: &storage.AuthData{Token: "stale"}}
	fetcher := &mockFetcher{err: &api.Error{StatusCode: http.StatusUnauthorized, Code: api.CodeUnauthorized}}
	m := NewManager(store, fetcher, nil)

	err := m.Bootstrap(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)

	snap := m.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Empty(t, snap.Token)
	assert.Nil(t, snap.User)
	assert.Nil(t, store.stored(), "store cleared on rejected token")
}

func TestSetToken_PersistsAndHydrates(t *testing.T) {
	store := &mockStore{}
	fetcher := &mockFetcher{user: testUser()}
	m := NewManager(store, fetcher, nil)
	m.SetNodeID("node-1")

	err := m.SetToken(context.Background(), "tok-new", "BH960114")
	require.NoError(t, err)

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "tok-new", m.Token())

	stored := store.stored()
	require.NotNil(t, stored)
	assert.Equal(t, "tok-new", stored.Token)
	assert.Equal(t, "BH960114", stored.BhID)
	assert.Equal(t, "node-1", stored.NodeID)

	snap := m.Snapshot()
	assert.Equal(t, ProfileLoaded, snap.ProfileState)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestSetToken_PersistFailureStillAuthenticates(t *testing.T) {
	store := &mockStore{saveErr: errors.New("storage full")}
	fetcher := &mockFetcher{user: testUser()}
	m := NewManager(store, fetcher, nil)

	err := m.SetToken(context.Background(), "tok-new", "BH960114")
	require.NoError(t, err)

	assert.True(t, m.IsAuthenticated(), "best-effort durability: memory updates despite write failure")
}

func TestSetToken_Empty(t *testing.T) {
	m := NewManager(&mockStore{}, &mockFetcher{}, nil)
	assert.Error(t, m.SetToken(context.Background(), "", ""))
}

func TestSetToken_ThenBootstrapInFreshProcess(t *testing.T) {
	// Property: setToken followed by bootstrap in a fresh process yields an
	// authenticated session and an attempted profile fetch.
	store := &mockStore{}
	fetcher := &mockFetcher{user: testUser()}

	first := NewManager(store, fetcher, nil)
	require.NoError(t, first.SetToken(context.Background(), "tok-1", "BH960114"))

	// Fresh process: new manager over the same durable store
	fresh := NewManager(store, fetcher, nil)
	require.NoError(t, fresh.Bootstrap(context.Background()))

	assert.True(t, fresh.IsAuthenticated())
	assert.Equal(t, 2, fetcher.callCount(), "bootstrap attempted a profile fetch")
}

func TestDeleteToken_ClearsEverything(t *testing.T) {
	store := &mockStore{data: &storage.AuthData{Token: "tok-1"}}
	fetcher := &mockFetcher{user: testUser()}
	m := NewManager(store, fetcher, nil)
	require.NoError(t, m.Bootstrap(context.Background()))
	require.True(t, m.IsAuthenticated())

	err := m.DeleteToken(context.Background())
	require.NoError(t, err)

	snap := m.Snapshot()
	assert.Empty(t, snap.Token)
	assert.Nil(t, snap.User)
	assert.False(t, snap.IsAuthenticated)
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, store.stored())
}

func TestDeleteToken_StoreFailureStillClearsMemory(t *testing.T) {
	store := &mockStore{data: &storage.AuthData{Token: "tok-1"}, deleteErr: errors.New("io error")}
	m := NewManager(store, &mockFetcher{user: testUser()}, nil)
	require.NoError(t, m.Bootstrap(context.Background()))

	require.NoError(t, m.DeleteToken(context.Background()))
	assert.False(t, m.IsAuthenticated())
}

func TestDeleteToken_Atomic(t *testing.T) {
	// No interleaving may observe token cleared with user still set, or the
	// reverse. Snapshots taken concurrently with DeleteToken must always see
	// both or neither.
	store := &mockStore{data: &storage.AuthData{Token: "tok-1"}}
	fetcher := &mockFetcher{user: testUser()}
	m := NewManager(store, fetcher, nil)
	require.NoError(t, m.Bootstrap(context.Background()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			snap := m.Snapshot()
			hasToken := snap.Token != ""
			hasUser := snap.User != nil
			assert.Equal(t, hasToken, hasUser, "token and user cleared together")
		}
	}()

	require.NoError(t, m.DeleteToken(context.Background()))
	<-done
}

func TestRefreshProfile(t *testing.T) {
	store := &mockStore{data: &storage.AuthData{Token: "tok-1"}}
	fetcher := &mockFetcher{user: testUser()}
	m := NewManager(store, fetcher, nil)
	require.NoError(t, m.Bootstrap(context.Background()))

	require.NoError(t, m.RefreshProfile(context.Background()))
	assert.Equal(t, 2, fetcher.callCount())
	assert.Equal(t, "tok-1", m.Token(), "refresh does not alter the token")
	assert.False(t, m.Snapshot().Loading)
}

func TestRefreshProfile_NoToken(t *testing.T) {
	m := NewManager(&mockStore{}, &mockFetcher{}, nil)
	require.NoError(t, m.Bootstrap(context.Background()))

	err := m.RefreshProfile(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
}

// blockingFetcher holds Fetch until released, to exercise coalescing
type blockingFetcher struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
	user    *models.User
}

func (f *blockingFetcher) Fetch(ctx context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	f.calls++
	first := f.calls == 1
	f.mu.Unlock()
	if first {
		close(f.entered)
	}
	<-f.release
	return f.user, nil
}

func TestBootstrap_ConcurrentCallsCoalesce(t *testing.T) {
	store := &mockStore{data: &storage.AuthData{Token: "tok-1"}}
	fetcher := &blockingFetcher{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		user:    testUser(),
	}
	m := NewManager(store, fetcher, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, m.Bootstrap(context.Background()))
	}()

	// Wait until the first flight is inside the fetch, then start a second
	// call that must join it instead of issuing a duplicate request
	<-fetcher.entered
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, m.Bootstrap(context.Background()))
	}()

	time.Sleep(50 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	assert.Equal(t, 1, fetcher.calls, "second bootstrap coalesced into the first")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "unauthenticated", StateUnauthenticated.String())
}

func TestProfileStateString(t *testing.T) {
	assert.Equal(t, "unknown", ProfileUnknown.String())
	assert.Equal(t, "loaded", ProfileLoaded.String())
}
