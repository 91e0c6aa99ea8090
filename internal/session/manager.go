package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
	"github.com/aliakborswe/travel-buddy-client/internal/state"
)

// CookieName carries the browser session id. The cookie holds nothing but the
// id; user and token live server-side in the store and its persister.
const CookieName = "tb_session"

const cookieMaxAge = 7 * 24 * 60 * 60

// storeIdleTTL is how long a retained store may sit unused before the sweep
// drops it. The durable snapshot outlives the in-memory store, so an evicted
// session is re-seeded on its next request.
const storeIdleTTL = time.Hour

const sweepInterval = 10 * time.Minute

// Manager hands out one state.Store per browser session. Stores are created
// lazily, seeded from durable storage on first sight, and evicted after
// sitting idle. Requests without a session cookie get a throwaway store;
// memory is only held for sessions that were explicitly established.
type Manager struct {
	mu        sync.Mutex
	stores    map[string]*storeEntry
	lastSweep time.Time
	client    *api.Client
	redis     *redis.Client
	fileDir   string
}

type storeEntry struct {
	store    *state.Store
	lastSeen time.Time
}

// NewManager creates a session manager backed by Redis when redisAddr is set,
// falling back to file persistence under fileDir otherwise.
func NewManager(client *api.Client, redisAddr, fileDir string) *Manager {
	m := &Manager{
		stores:  map[string]*storeEntry{},
		client:  client,
		fileDir: fileDir,
	}
	if redisAddr != "" {
		m.redis = redis.NewClient(&redis.Options{Addr: redisAddr})
	}
	return m
}

func (m *Manager) persister(sid string) state.Persister {
	if m.redis != nil {
		return NewRedisPersister(m.redis, sid)
	}
	return NewFilePersister(m.fileDir, sid)
}

// storeFor returns the retained store for sid, creating and restoring it on
// first use.
func (m *Manager) storeFor(ctx context.Context, sid string) *state.Store {
	now := time.Now()
	m.mu.Lock()
	m.sweepLocked(now)
	entry, ok := m.stores[sid]
	if !ok {
		entry = &storeEntry{store: state.NewStore(m.client, m.persister(sid))}
		m.stores[sid] = entry
	}
	entry.lastSeen = now
	m.mu.Unlock()
	if !ok {
		// First sight of this sid in this process: seed from durable storage.
		_ = entry.store.Restore(ctx)
	}
	return entry.store
}

// sweepLocked drops stores idle longer than storeIdleTTL. Callers hold the
// manager lock.
func (m *Manager) sweepLocked(now time.Time) {
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now
	for sid, entry := range m.stores {
		if now.Sub(entry.lastSeen) > storeIdleTTL {
			delete(m.stores, sid)
		}
	}
}

// Store resolves the request's session store. Without a session cookie the
// caller gets an anonymous throwaway store: no cookie is minted and nothing
// is retained, so crawler traffic on public pages holds no memory.
func (m *Manager) Store(c *gin.Context) *state.Store {
	sid, err := c.Cookie(CookieName)
	if err != nil || sid == "" {
		return state.NewStore(m.client, nullPersister{})
	}
	return m.storeFor(c.Request.Context(), sid)
}

// Establish resolves the request's session store, minting the session cookie
// first when the browser has none. Flows that are about to write session
// state (login, register) call this instead of Store.
func (m *Manager) Establish(c *gin.Context) *state.Store {
	sid, err := c.Cookie(CookieName)
	if err != nil || sid == "" {
		sid = uuid.NewString()
		c.SetCookie(CookieName, sid, cookieMaxAge, "/", "", false, true)
	}
	return m.storeFor(c.Request.Context(), sid)
}

// Drop removes the in-memory store for the request's session and clears its
// cookie. Durable state is cleared by the store's own logout path.
func (m *Manager) Drop(c *gin.Context) {
	sid, err := c.Cookie(CookieName)
	if err != nil || sid == "" {
		return
	}
	m.mu.Lock()
	delete(m.stores, sid)
	m.mu.Unlock()
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

// RequireAuth is a middleware that redirects anonymous sessions to /login.
// The cached flag is only a hint; backend authority is re-checked when pages
// call authenticated endpoints.
func (m *Manager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		store := m.Store(c)
		if !store.IsAuthenticated() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		_ = store.RefreshIfNeeded(c.Request.Context())
		c.Next()
	}
}

// RequireAdmin gates admin pages on the cached role.
func (m *Manager) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		store := m.Store(c)
		user := store.CurrentUser()
		if user == nil || !user.IsAdmin() {
			c.Redirect(http.StatusFound, "/error?msg=Admin+access+required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// nullPersister backs anonymous throwaway stores; they never hold anything
// worth keeping.
type nullPersister struct{}

func (nullPersister) Load(context.Context) (*state.Snapshot, error) { return nil, nil }

func (nullPersister) Save(context.Context, *state.Snapshot) error { return nil }

func (nullPersister) Clear(context.Context) error { return nil }
