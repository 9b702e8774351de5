// Package storage talks to an IPFS node through the Kubo RPC HTTP API. It
// wraps the Kubo client with the handful of commands the uploader needs:
// `id` (liveness and identity), `version` and `add`.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/ipfs/kubo/client/rpc"

	"github.com/shamank/ipfs-upload-go/pkg/model"
)

const (
	// IpfsPrefix is the URI scheme prefix recognized for IPFS content.
	IpfsPrefix = "ipfs://"
	// PathPrefix is the path prefix used by gateways and the Kubo API.
	PathPrefix = "/ipfs/"
	// apiSuffix is appended by the Kubo RPC client to every endpoint.
	apiSuffix = "/api/v0"
)

// Node is the subset of the Kubo RPC API used by the session, upload and
// identity layers.
type Node interface {
	// ID returns the node identity; it doubles as the liveness probe.
	ID(ctx context.Context) (*model.IdentitySnapshot, error)
	// Version returns the daemon version.
	Version(ctx context.Context) (*model.VersionInfo, error)
	// Add submits content and returns the final completion event. Progress
	// events are passed to onEvent as they arrive; onEvent may be nil.
	Add(ctx context.Context, params AddParams, onEvent func(model.AddEvent)) (model.AddEvent, error)
}

// AddParams describes a single add submission.
type AddParams struct {
	// Name is the entry name sent with the content. Empty for bare uploads.
	Name string
	// Content is streamed to the node as the only file part.
	Content io.Reader
	// Wrap asks the node to wrap the entry in a directory so Name is kept.
	Wrap bool
	// Progress asks the node to stream byte-count progress events.
	Progress bool
}

// Client is a Node backed by a connected Kubo HTTP API client.
type Client struct {
	// HttpApi is the Kubo HTTP API client used for all commands.
	*rpc.HttpApi
	// Endpoint is the normalized API root the client is bound to.
	Endpoint string
}

// NormalizeEndpoint trims whitespace, trailing slashes and a trailing
// /api/v0 from endpoint. The Kubo client appends /api/v0 on its own, so both
// "http://host:5001" and "http://host:5001/api/v0" address the same API.
func NormalizeEndpoint(endpoint string) string {
	e := strings.TrimSpace(endpoint)
	e = strings.TrimRight(e, "/")
	e = strings.TrimSuffix(e, apiSuffix)
	return strings.TrimRight(e, "/")
}

// ParseCID parses a CID as returned by the node, tolerating ipfs:// and
// /ipfs/ prefixes.
func ParseCID(hash string) (cid.Cid, error) {
	c, err := cid.Decode(formatHash(hash))
	if err != nil {
		return cid.Undef, fmt.Errorf("invalid cid %q: %w", hash, err)
	}
	return c, nil
}

// formatHash removes known URI scheme and path prefixes and surrounding
// whitespace from the supplied hash.
func formatHash(hash string) string {
	hash = strings.TrimSpace(hash)
	hash = strings.TrimPrefix(hash, IpfsPrefix)
	hash = strings.TrimPrefix(hash, PathPrefix)
	return strings.TrimRight(hash, "/")
}
