// Package sdk exposes the high-level entry point of the upload client. It
// wires together the session manager, the upload coordinator and the
// identity reader, and keeps the state a front end displays: the active
// session, the node details of that session, and the latest upload outcome.
package sdk

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/shamank/ipfs-upload-go/pkg/config"
	"github.com/shamank/ipfs-upload-go/pkg/identity"
	"github.com/shamank/ipfs-upload-go/pkg/session"
	"github.com/shamank/ipfs-upload-go/pkg/upload"
)

// ErrNotConnected is returned by Upload before any successful Connect.
var ErrNotConnected = errors.New("not connected to an ipfs node")

// Uploader is the public interface of the client.
type Uploader interface {
	// Connect binds the client to endpoint after a liveness probe. An empty
	// endpoint means the configured default node. On success the node
	// identity and version are fetched once for the new session.
	Connect(ctx context.Context, endpoint string) (*session.Session, error)

	// Upload submits the first of files over the active session. With no
	// files it does nothing and returns (nil, nil).
	Upload(ctx context.Context, files []upload.File, preserveName bool, opts ...upload.Option) (*upload.Result, error)

	// Session returns the active session or nil.
	Session() *session.Session

	// Identity returns the node details fetched for the active session.
	Identity() identity.Snapshot

	// LastResult returns the most recent successful upload, if any.
	LastResult() *upload.Result

	// LastError returns the most recent connect or upload failure, if any.
	LastError() error
}

// logLevel controls the global logger installed by init.
var logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

// init configures a default global zap logger. Applications may replace it
// with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	c := zap.Config{
		Level:            logLevel,
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// Core is the concrete Uploader. It embeds the validated configuration.
type Core struct {
	*config.Config

	sessions *session.Manager
	uploads  *upload.Coordinator
	reader   *identity.Reader

	connects atomic.Uint64

	mu       sync.RWMutex
	snapshot identity.Snapshot
	result   *upload.Result
	lastErr  error
}

// NewSDK validates config, applies default timeouts and returns a ready
// Uploader. No network request is made until Connect.
func NewSDK(config *config.Config, opts ...session.Option) (Uploader, error) {
	if err := config.Validate(); err != nil {
		zap.L().Error("Invalid config", zap.Error(err))
		return nil, err
	}

	config.Timeouts = config.Timeouts.WithDefaults()

	if config.Debug {
		logLevel.SetLevel(zap.DebugLevel)
		zap.L().Debug("debug logging enabled", zap.String("node", config.NodeURL))
	}

	return &Core{
		Config:   config,
		sessions: session.NewManager(config, opts...),
		uploads:  upload.NewCoordinator(config),
		reader:   identity.NewReader(config),
	}, nil
}

// Connect implements Uploader.
func (c *Core) Connect(ctx context.Context, endpoint string) (*session.Session, error) {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = c.NodeURL
	}

	attempt := c.connects.Add(1)
	s, err := c.sessions.Connect(ctx, endpoint)
	if err != nil {
		// A late failure of an older attempt must not overwrite the outcome
		// of the newer one.
		c.mu.Lock()
		if !errors.Is(err, session.ErrSuperseded) && c.connects.Load() == attempt {
			c.lastErr = err
		}
		c.mu.Unlock()
		return nil, err
	}

	snap := c.reader.Fetch(ctx, s)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = nil
	if c.sessions.Current() == s {
		c.snapshot = snap
	}
	return s, nil
}

// Upload implements Uploader.
func (c *Core) Upload(ctx context.Context, files []upload.File, preserveName bool, opts ...upload.Option) (*upload.Result, error) {
	if len(files) == 0 {
		return nil, nil
	}

	s := c.sessions.Current()
	if s == nil {
		c.mu.Lock()
		c.lastErr = ErrNotConnected
		c.mu.Unlock()
		return nil, ErrNotConnected
	}

	res, err := c.uploads.UploadFiles(ctx, s, files, preserveName, opts...)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastErr = err
		return nil, err
	}
	c.result = res
	c.lastErr = nil
	return res, nil
}

// Session implements Uploader.
func (c *Core) Session() *session.Session {
	return c.sessions.Current()
}

// Identity implements Uploader. The snapshot is empty until a Connect
// succeeds.
func (c *Core) Identity() identity.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// LastResult implements Uploader.
func (c *Core) LastResult() *upload.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// LastError implements Uploader.
func (c *Core) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}
