// Package upload submits file content to a connected IPFS node and returns
// the resulting content identifier.
package upload

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/shamank/ipfs-upload-go/pkg/config"
	"github.com/shamank/ipfs-upload-go/pkg/model"
	"github.com/shamank/ipfs-upload-go/pkg/session"
	"github.com/shamank/ipfs-upload-go/pkg/storage"
)

// sniffLen is how many leading bytes are inspected for the media type.
const sniffLen = 3072

var (
	// ErrNoSession is returned when Upload is called without a Session.
	ErrNoSession = errors.New("no active session")
	// ErrNoContent is returned when the request carries no content reader.
	ErrNoContent = errors.New("no content to upload")
	// ErrNoName is returned when the original name must be preserved but none was given.
	ErrNoName = errors.New("name is required to preserve the filename")
)

// UploadError describes a failed submission.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("upload: %v", e.Err)
	}
	return fmt.Sprintf("upload %s: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Request is a single upload attempt.
type Request struct {
	// Content is read to EOF and streamed to the node.
	Content io.Reader
	// Name is the original display name of the content.
	Name string
	// PreserveName wraps the content in a directory so Name is kept. The
	// returned CID then addresses the directory, not the content.
	PreserveName bool
}

// Result is the outcome of a successful upload.
type Result struct {
	// CID is the canonical string form of the returned content identifier.
	CID string
	// Name is the display name of the uploaded content.
	Name string
	// Path addresses the content itself: "<cid>/<name>" for wrapped
	// uploads, "<cid>" otherwise.
	Path string
	// Size is the number of bytes read from the request content.
	Size int64
	// MediaType is sniffed from the leading bytes, for display only.
	MediaType string
	// GatewayURL is the public retrieval link for CID.
	GatewayURL string
}

// Coordinator drives the add protocol against a Session. It holds no state
// between uploads and is safe for concurrent use.
type Coordinator struct {
	gateway string
	timeout time.Duration
}

// NewCoordinator returns a Coordinator configured from cfg.
func NewCoordinator(cfg *config.Config) *Coordinator {
	return &Coordinator{
		gateway: cfg.GatewayURL,
		timeout: cfg.Timeouts.WithDefaults().Upload,
	}
}

// Upload submits req over s. Bare requests return the CID of the content;
// PreserveName requests return the CID of a wrapping directory whose single
// entry is req.Name.
func (c *Coordinator) Upload(ctx context.Context, s *session.Session, req Request, opts ...Option) (*Result, error) {
	if s == nil {
		return nil, &UploadError{Name: req.Name, Err: ErrNoSession}
	}
	if req.Content == nil {
		return nil, &UploadError{Name: req.Name, Err: ErrNoContent}
	}
	if req.PreserveName && strings.TrimSpace(req.Name) == "" {
		return nil, &UploadError{Err: ErrNoName}
	}

	o := newOptions(opts)
	log := zap.L().With(
		zap.String("session", s.ID.String()),
		zap.String("name", req.Name),
		zap.Bool("wrap", req.PreserveName))

	br := bufio.NewReaderSize(req.Content, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to read upload content", zap.Error(err))
		return nil, &UploadError{Name: req.Name, Err: err}
	}
	mediaType := mimetype.Detect(head).String()
	counter := &countingReader{r: br}

	params := storage.AddParams{
		Content:  counter,
		Wrap:     req.PreserveName,
		Progress: true,
	}
	if req.PreserveName {
		params.Name = req.Name
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var last int64
	onEvent := func(ev model.AddEvent) {
		if ev.Bytes <= last {
			return
		}
		last = ev.Bytes
		log.Debug("received", zap.Int64("bytes", ev.Bytes))
		if o.observer != nil {
			o.observer.OnProgress(req.Name, ev.Bytes)
		}
	}

	final, err := s.Node().Add(ctx, params, onEvent)
	if err != nil {
		log.Error("ipfs add failed", zap.Error(err))
		return nil, &UploadError{Name: req.Name, Err: err}
	}

	id, err := storage.ParseCID(final.Hash)
	if err != nil {
		log.Error("node returned an invalid cid", zap.String("hash", final.Hash), zap.Error(err))
		return nil, &UploadError{Name: req.Name, Err: err}
	}

	res := &Result{
		CID:        id.String(),
		Name:       req.Name,
		Path:       id.String(),
		Size:       counter.n,
		MediaType:  mediaType,
		GatewayURL: GatewayLinkWithBase(c.gateway, id.String()),
	}
	if req.PreserveName {
		res.Path = id.String() + "/" + req.Name
	}

	log.Info("uploaded to ipfs",
		zap.String("cid", res.CID),
		zap.Int64("size", res.Size),
		zap.String("mediaType", res.MediaType))
	return res, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
