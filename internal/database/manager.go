package database

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pgscope/pgscope/internal/errs"
	"github.com/pgscope/pgscope/internal/logger"
)

// healthCheckQuery must succeed on a new pool before it becomes visible.
const healthCheckQuery = "SELECT NOW()"

// reservedDatabases may never be created or dropped through this service.
var reservedDatabases = map[string]struct{}{
	"template0": {},
	"template1": {},
}

// Opener creates a pool for a target. Injectable so tests can run the
// manager against fakes.
type Opener func(ctx context.Context, target Target) (DB, error)

// ConnectionInfo describes the installed active connection. It carries no
// password and is safe to expose.
type ConnectionInfo struct {
	Database    string    `json:"database"`
	Host        string    `json:"host"`
	Port        uint16    `json:"port"`
	User        string    `json:"user"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// Manager owns the two pools of the service: the always-on admin pool
// (database-level DDL and catalog listing) and the single active slot that
// Connect installs into. The slot holds zero or one pool; a pool becomes
// visible to readers only after its health check succeeds.
type Manager struct {
	admin    DB
	defaults Target // admin target; fills omitted connect fields
	open     Opener
	log      *logger.Logger

	mu     sync.RWMutex
	active DB
	info   *ConnectionInfo
}

// NewManager opens and verifies the admin pool, returning a ready Manager.
func NewManager(ctx context.Context, admin Target, settings PoolSettings, log *logger.Logger) (*Manager, error) {
	open := func(ctx context.Context, t Target) (DB, error) {
		return Open(ctx, t, settings)
	}

	pool, err := open(ctx, admin)
	if err != nil {
		return nil, err
	}
	var one int
	if err := pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		pool.Close()
		return nil, errs.Wrap(errs.ErrKindConnectionFailed,
			"admin connection check failed for "+admin.Redacted(), err)
	}

	log.Info("admin connection pool established", "target", admin.Redacted())

	return &Manager{
		admin:    pool,
		defaults: admin,
		open:     open,
		log:      log,
	}, nil
}

// Admin returns the admin pool.
func (m *Manager) Admin() DB {
	return m.admin
}

// Active returns the installed pool, or ErrKindNotConnected when the slot
// is empty. Every introspection and constraint operation calls this first.
func (m *Manager) Active() (DB, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == nil {
		return nil, errs.New(errs.ErrKindNotConnected,
			"no active database connection; connect first")
	}
	return m.active, nil
}

// Info returns a copy of the active connection's description, or nil when
// disconnected.
func (m *Manager) Info() *ConnectionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.info == nil {
		return nil
	}
	info := *m.info
	return &info
}

// Connect opens a pool against target, health-checks it, and installs it as
// the active pool, closing the one it replaces. On any failure the new pool
// is closed and the previously active pool is left untouched, so a failed
// reconnect never tears down a working session.
//
// Omitted target fields (everything except the database name) fall back to
// the admin connection's values.
func (m *Manager) Connect(ctx context.Context, target Target) (*ConnectionInfo, error) {
	if target.Database == "" {
		return nil, errs.New(errs.ErrKindValidation, "database name is required")
	}
	target = m.withDefaults(target)

	pool, err := m.open(ctx, target)
	if err != nil {
		return nil, err
	}

	var now time.Time
	if err := pool.QueryRow(ctx, healthCheckQuery).Scan(&now); err != nil {
		pool.Close()
		if errs.KindOf(err) == errs.ErrKindTimeout {
			return nil, err
		}
		return nil, errs.Wrap(errs.ErrKindConnectionFailed,
			"connection test failed for "+target.Redacted(), err)
	}

	info := &ConnectionInfo{
		Database:    target.Database,
		Host:        target.Host,
		Port:        target.Port,
		User:        target.User,
		ConnectedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	displaced := m.active
	m.active = pool
	m.info = info
	m.mu.Unlock()

	// Closing outside the lock: Close blocks until checked-out connections
	// return, and readers must not wait on that.
	if displaced != nil {
		displaced.Close()
	}

	m.log.Info("connected to database", "target", target.Redacted())

	out := *info
	return &out, nil
}

// Disconnect closes and clears the active pool. Calling it with no active
// pool is a no-op.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	displaced := m.active
	m.active = nil
	m.info = nil
	m.mu.Unlock()

	if displaced != nil {
		displaced.Close()
		m.log.Info("disconnected from database")
	}
}

// Close shuts down both the active slot and the admin pool.
func (m *Manager) Close() {
	m.Disconnect()
	m.admin.Close()
}

// CreateDatabase creates a database via the admin pool. The name passes
// through the identifier sanitizer; template databases are refused.
func (m *Manager) CreateDatabase(ctx context.Context, name string) error {
	if _, reserved := reservedDatabases[strings.ToLower(name)]; reserved {
		return errs.Newf(errs.ErrKindInvalidIdentifier, "%q is a reserved database name", name)
	}
	sql, err := BuildCreateDatabase(name)
	if err != nil {
		return err
	}
	if _, err := m.admin.Exec(ctx, sql); err != nil {
		return err
	}
	m.log.Info("database created", "name", name)
	return nil
}

// DropDatabase drops a database via the admin pool. Engine failures
// (nonexistent database, open sessions) surface verbatim.
func (m *Manager) DropDatabase(ctx context.Context, name string) error {
	if _, reserved := reservedDatabases[strings.ToLower(name)]; reserved {
		return errs.Newf(errs.ErrKindInvalidIdentifier, "%q is a reserved database name", name)
	}
	sql, err := BuildDropDatabase(name)
	if err != nil {
		return err
	}
	if _, err := m.admin.Exec(ctx, sql); err != nil {
		return err
	}
	m.log.Info("database dropped", "name", name)
	return nil
}

func (m *Manager) withDefaults(t Target) Target {
	if t.Host == "" {
		t.Host = m.defaults.Host
	}
	if t.Port == 0 {
		t.Port = m.defaults.Port
	}
	if t.User == "" {
		t.User = m.defaults.User
	}
	if t.Password == "" {
		t.Password = m.defaults.Password
	}
	return t
}
