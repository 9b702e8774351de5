// Package session owns the connection to an IPFS node: it binds a Kubo RPC
// client to a user-supplied endpoint, probes the node for liveness and keeps
// the single active Session.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shamank/ipfs-upload-go/pkg/config"
	"github.com/shamank/ipfs-upload-go/pkg/storage"
)

var (
	// ErrEmptyEndpoint is returned when Connect is called without an endpoint.
	ErrEmptyEndpoint = errors.New("endpoint is required")
	// ErrNodeOffline is returned when the probe succeeds but the node reports
	// no listen addresses and the configuration requires an online node.
	ErrNodeOffline = errors.New("node reports offline")
	// ErrSuperseded is returned by a connect attempt that finished after a
	// newer attempt was started. The newer attempt decides the active Session.
	ErrSuperseded = errors.New("connect attempt superseded by a newer one")
)

// ConnectError describes a failed connect attempt.
type ConnectError struct {
	Endpoint string
	Err      error
}

func (e *ConnectError) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("connect: %v", e.Err)
	}
	return fmt.Sprintf("connect %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Session is a client handle bound to one endpoint. It is created only by a
// completed liveness probe and never changes afterwards.
type Session struct {
	// ID correlates log lines of one session.
	ID uuid.UUID
	// Endpoint is the API root as given by the user.
	Endpoint string
	// Online is the liveness result observed when the session was created.
	Online bool
	// ConnectedAt is when the probe completed.
	ConnectedAt time.Time

	node storage.Node
}

// New binds an already constructed node to endpoint without probing it.
// Manager.Connect is the usual way to obtain a Session.
func New(endpoint string, node storage.Node, online bool) *Session {
	return &Session{
		ID:          uuid.New(),
		Endpoint:    endpoint,
		Online:      online,
		ConnectedAt: time.Now(),
		node:        node,
	}
}

// Node returns the node client the session is bound to.
func (s *Session) Node() storage.Node {
	return s.node
}

// Dialer builds a node client for endpoint. It must not perform I/O beyond
// what is needed to construct the client.
type Dialer func(endpoint string, timeouts config.Timeouts) (storage.Node, error)

// DialKubo is the default Dialer, backed by the Kubo RPC client.
func DialKubo(endpoint string, timeouts config.Timeouts) (storage.Node, error) {
	return storage.NewClient(endpoint, timeouts.Dial)
}

// Option customizes a Manager.
type Option func(*Manager)

// WithDialer replaces the node client constructor.
func WithDialer(d Dialer) Option {
	return func(m *Manager) { m.dial = d }
}

// Manager creates Sessions and holds the active one. It is safe for
// concurrent use.
type Manager struct {
	dial          Dialer
	timeouts      config.Timeouts
	requireOnline bool

	attempts atomic.Uint64

	mu      sync.RWMutex
	current *Session
}

// NewManager returns a Manager configured from cfg.
func NewManager(cfg *config.Config, opts ...Option) *Manager {
	m := &Manager{
		dial:          DialKubo,
		timeouts:      cfg.Timeouts.WithDefaults(),
		requireOnline: cfg.RequireOnline,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the active Session, or nil when no connect has succeeded.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Connect builds a client for endpoint, probes the node and, on success,
// makes the new Session the active one. Failed attempts leave the active
// Session as it was. Only the most recently started attempt may install its
// Session; older attempts fail with ErrSuperseded.
func (m *Manager) Connect(ctx context.Context, endpoint string) (*Session, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, &ConnectError{Err: ErrEmptyEndpoint}
	}

	attempt := m.attempts.Add(1)
	log := zap.L().With(zap.String("endpoint", endpoint), zap.Uint64("attempt", attempt))

	node, err := m.dial(endpoint, m.timeouts)
	if err != nil {
		log.Error("failed to create ipfs client", zap.Error(err))
		return nil, &ConnectError{Endpoint: endpoint, Err: err}
	}

	probeCtx, cancel := context.WithTimeout(ctx, m.timeouts.Probe)
	defer cancel()

	id, err := node.ID(probeCtx)
	if err != nil {
		log.Error("liveness probe failed", zap.Error(err))
		return nil, &ConnectError{Endpoint: endpoint, Err: err}
	}

	online := id.Online()
	if !online {
		if m.requireOnline {
			log.Warn("node reports offline, rejecting session")
			return nil, &ConnectError{Endpoint: endpoint, Err: ErrNodeOffline}
		}
		log.Warn("node reports offline, keeping session")
	}

	s := New(endpoint, node, online)

	m.mu.Lock()
	defer m.mu.Unlock()
	if latest := m.attempts.Load(); latest != attempt {
		log.Info("discarding session of superseded attempt", zap.Uint64("latest", latest))
		return nil, &ConnectError{Endpoint: endpoint, Err: ErrSuperseded}
	}
	m.current = s

	log.Info("connected to ipfs node",
		zap.String("session", s.ID.String()),
		zap.String("peer", id.ID),
		zap.Bool("online", online))
	return s, nil
}
