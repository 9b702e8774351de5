// Package identity reads informational metadata (peer identity and daemon
// version) from the node a Session is bound to. Nothing here affects uploads.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shamank/ipfs-upload-go/pkg/config"
	"github.com/shamank/ipfs-upload-go/pkg/model"
	"github.com/shamank/ipfs-upload-go/pkg/session"
)

// ErrNoSession is returned when a query is issued without a Session.
var ErrNoSession = errors.New("no active session")

// QueryError describes a failed identity or version query.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Reader issues read-only queries. Queries are idempotent and safe to repeat.
type Reader struct {
	timeout time.Duration
}

// NewReader returns a Reader configured from cfg.
func NewReader(cfg *config.Config) *Reader {
	return &Reader{timeout: cfg.Timeouts.WithDefaults().Query}
}

// FetchIdentity returns the node identity (`id`).
func (r *Reader) FetchIdentity(ctx context.Context, s *session.Session) (*model.IdentitySnapshot, error) {
	if s == nil {
		return nil, &QueryError{Query: "id", Err: ErrNoSession}
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id, err := s.Node().ID(ctx)
	if err != nil {
		zap.L().Warn("identity query failed", zap.String("session", s.ID.String()), zap.Error(err))
		return nil, &QueryError{Query: "id", Err: err}
	}
	return id, nil
}

// FetchVersion returns the daemon version (`version`).
func (r *Reader) FetchVersion(ctx context.Context, s *session.Session) (*model.VersionInfo, error) {
	if s == nil {
		return nil, &QueryError{Query: "version", Err: ErrNoSession}
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	v, err := s.Node().Version(ctx)
	if err != nil {
		zap.L().Warn("version query failed", zap.String("session", s.ID.String()), zap.Error(err))
		return nil, &QueryError{Query: "version", Err: err}
	}
	return v, nil
}

// Snapshot is what is known about the node of one Session. A failed query
// leaves its section nil and records the error.
type Snapshot struct {
	SessionID   uuid.UUID
	Identity    *model.IdentitySnapshot
	Version     *model.VersionInfo
	IdentityErr error
	VersionErr  error
}

// Connected reports whether at least one section is available.
func (s Snapshot) Connected() bool {
	return s.Identity != nil || s.Version != nil
}

// Fields returns the display fields of the available sections.
func (s Snapshot) Fields() []model.Field {
	return append(s.Identity.Display(), s.Version.Display()...)
}

// Fetch runs both queries concurrently and returns whatever succeeded.
func (r *Reader) Fetch(ctx context.Context, s *session.Session) Snapshot {
	var snap Snapshot
	if s == nil {
		snap.IdentityErr = &QueryError{Query: "id", Err: ErrNoSession}
		snap.VersionErr = &QueryError{Query: "version", Err: ErrNoSession}
		return snap
	}
	snap.SessionID = s.ID

	var wg sync.WaitGroup
	wg.Go(func() {
		snap.Identity, snap.IdentityErr = r.FetchIdentity(ctx, s)
	})
	wg.Go(func() {
		snap.Version, snap.VersionErr = r.FetchVersion(ctx, s)
	})
	wg.Wait()
	return snap
}
