// Package session owns the authentication state machine and the persistent
// identity cache entry. All state lives in an explicit Manager; the
// rendering side observes it through snapshots and subscriptions instead of
// ambient globals.
package session

import (
	"context"
	"sync"
	"time"

	"cloudbox/internal/client/api"
	"cloudbox/internal/client/models"
	"cloudbox/internal/client/repositories/identity"
	"cloudbox/internal/common"
	"cloudbox/internal/logging"
)

// Status is the authentication state.
type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
	StatusFailed         Status = "failed"
)

// logoutNotifyTimeout bounds the detached best-effort logout notification.
const logoutNotifyTimeout = 5 * time.Second

// Snapshot is a read-only view of the session handed to observers.
// Invariant: Identity is non-nil iff Status is StatusAuthenticated.
// Verifying marks the optimistic bootstrap window: the identity was
// restored from the cache and server confirmation is still in flight.
type Snapshot struct {
	Status    Status
	Identity  *models.UserIdentity
	LastError *common.Error
	Verifying bool
}

// Manager is the only writer of session state and of the identity cache.
type Manager struct {
	client api.Client
	cache  identity.Repository
	log    logging.Logger

	mu        sync.Mutex
	status    Status
	identity  *models.UserIdentity
	lastErr   *common.Error
	verifying bool
	subs      map[int]func(Snapshot)
	nextSub   int

	wg sync.WaitGroup
}

func NewManager(client api.Client, cache identity.Repository, log logging.Logger) *Manager {
	return &Manager{
		client: client,
		cache:  cache,
		log:    log.With("component", "session"),
		status: StatusAnonymous,
		subs:   make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{Status: m.status, LastError: m.lastErr, Verifying: m.verifying}
	if m.identity != nil {
		id := *m.identity
		snap.Identity = &id
	}
	return snap
}

// Subscribe registers an observer that is invoked after every state change.
// The returned function removes the subscription.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// transition applies mutate under the lock, then notifies subscribers with
// the resulting snapshot outside of it.
func (m *Manager) transition(mutate func()) {
	m.mu.Lock()
	mutate()
	snap := m.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Authenticated reports whether the session currently holds an identity.
func (m *Manager) Authenticated() bool {
	return m.Snapshot().Status == StatusAuthenticated
}

// Bootstrap synchronously restores the session from the identity cache.
// A cached identity authenticates the session immediately, before any
// network traffic, so dependent loads can start right away; the caller is
// expected to follow up with VerifyCached. Returns whether an identity was
// restored.
func (m *Manager) Bootstrap(ctx context.Context) bool {
	cached, err := m.cache.Get(ctx)
	if err != nil {
		m.log.Warn(ctx, "identity cache unreadable, starting anonymous", "error", err)
		return false
	}
	if cached == nil {
		return false
	}

	m.transition(func() {
		m.status = StatusAuthenticated
		m.identity = cached
		m.lastErr = nil
		m.verifying = true
	})
	m.log.Info(ctx, "session restored from cache", "user", cached.Username)
	return true
}

// VerifyCached reconciles a cache-restored identity against the server's
// account listing. Unauthorized revokes the session and empties the cache;
// any other failure keeps the cached identity, trading staleness for not
// logging the user out spuriously.
func (m *Manager) VerifyCached(ctx context.Context) {
	m.mu.Lock()
	if !m.verifying || m.identity == nil {
		m.mu.Unlock()
		return
	}
	cachedID := m.identity.ID
	m.mu.Unlock()

	users, err := m.client.ListUsers(ctx)
	if err != nil {
		if common.IsKind(err, common.KindUnauthorized) {
			m.log.Info(ctx, "cached session rejected by server")
			m.Expire(ctx)
			return
		}
		m.log.Warn(ctx, "could not verify cached identity, keeping it", "error", err)
		m.transition(func() { m.verifying = false })
		return
	}

	for i := range users {
		if users[i].ID == cachedID {
			confirmed := users[i]
			if err := m.cache.Set(ctx, confirmed); err != nil {
				m.log.Warn(ctx, "failed to refresh cached identity", "error", err)
			}
			m.transition(func() {
				m.identity = &confirmed
				m.verifying = false
			})
			return
		}
	}
	// The listing did not include us; keep the cached identity and let any
	// later Unauthorized response settle it.
	m.transition(func() { m.verifying = false })
}

// Login authenticates against the server. On success the session becomes
// Authenticated and the identity is cached; on failure it becomes Failed
// with the classified error and the cache entry is left as it was. No
// automatic retry.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) (*models.UserIdentity, error) {
	if verr := creds.Validate(); verr != nil {
		m.transition(func() {
			m.status = StatusFailed
			m.identity = nil
			m.verifying = false
			m.lastErr = verr
		})
		return nil, verr
	}
	return m.authenticate(ctx, func() (*models.UserIdentity, error) {
		return m.client.Login(ctx, creds)
	})
}

// Register creates an account; same transition contract as Login. Profiles
// that fail local validation never reach the network.
func (m *Manager) Register(ctx context.Context, profile models.RegisterProfile) (*models.UserIdentity, error) {
	if verr := profile.Validate(); verr != nil {
		m.transition(func() {
			m.status = StatusFailed
			m.identity = nil
			m.verifying = false
			m.lastErr = verr
		})
		return nil, verr
	}
	return m.authenticate(ctx, func() (*models.UserIdentity, error) {
		return m.client.Register(ctx, profile)
	})
}

func (m *Manager) authenticate(ctx context.Context, call func() (*models.UserIdentity, error)) (*models.UserIdentity, error) {
	m.transition(func() {
		m.status = StatusAuthenticating
		m.identity = nil
		m.lastErr = nil
		m.verifying = false
	})

	user, err := call()
	if err != nil {
		aerr := common.Ensure(err)
		m.transition(func() {
			m.status = StatusFailed
			m.identity = nil
			m.lastErr = aerr
		})
		return nil, aerr
	}

	if err := m.cache.Set(ctx, *user); err != nil {
		m.log.Warn(ctx, "failed to cache identity", "error", err)
	}
	m.transition(func() {
		m.status = StatusAuthenticated
		m.identity = user
		m.lastErr = nil
	})
	return user, nil
}

// Logout resets the session and empties the cache synchronously; the server
// notification runs detached and its failure is discarded. Local state
// correctness never depends on the server acknowledging the logout.
func (m *Manager) Logout(ctx context.Context) {
	m.transition(func() {
		m.status = StatusAnonymous
		m.identity = nil
		m.lastErr = nil
		m.verifying = false
	})
	if err := m.cache.Clear(ctx); err != nil {
		m.log.Warn(ctx, "failed to clear identity cache", "error", err)
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		nctx, cancel := context.WithTimeout(context.Background(), logoutNotifyTimeout)
		defer cancel()
		if err := m.client.Logout(nctx); err != nil {
			m.log.Warn(nctx, "logout notification failed", "error", err)
		}
	}()
}

// ClearError discards the last error without changing the status.
func (m *Manager) ClearError() {
	m.transition(func() { m.lastErr = nil })
}

// Expire handles an Unauthorized classification from anywhere in the
// system: the session resets to Anonymous and the cache entry is removed.
func (m *Manager) Expire(ctx context.Context) {
	m.transition(func() {
		m.status = StatusAnonymous
		m.identity = nil
		m.lastErr = nil
		m.verifying = false
	})
	if err := m.cache.Clear(ctx); err != nil {
		m.log.Warn(ctx, "failed to clear identity cache", "error", err)
	}
}

// Close waits for detached notifications to settle.
func (m *Manager) Close() {
	m.wg.Wait()
}
