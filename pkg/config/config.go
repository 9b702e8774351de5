// Package config defines the runtime configuration for the uploader, including
// the IPFS node endpoint, the public gateway used for retrieval links, the
// liveness policy, debug mode and operation timeouts. It also provides
// validation and defaulting helpers.
package config

import (
	"errors"
	"strings"
	"time"
)

const (
	// DefaultNodeURL is the endpoint pre-filled when none is supplied.
	DefaultNodeURL = "http://provider.palmito.duckdns.org:32534/api/v0"
	// DefaultGatewayURL is the public gateway used to build retrieval links.
	DefaultGatewayURL = "https://ipfs.io/ipfs/"
)

// Config holds all settings required to connect to a node and upload content.
// Use Validate to fill implicit defaults and to check field values.
type Config struct {
	// NodeURL is the Kubo RPC API root of the IPFS node (internal port 5001),
	// with or without the /api/v0 suffix.
	// Default: http://provider.palmito.duckdns.org:32534/api/v0
	NodeURL string `json:"node_url" yaml:"node_url"`
	// GatewayURL is the HTTP gateway prefix retrieval links are built on.
	// Default: https://ipfs.io/ipfs/
	GatewayURL string `json:"gateway_url" yaml:"gateway_url"`
	// RequireOnline makes Connect fail when the liveness probe completes but
	// the node reports no listen addresses. When false the probe result is
	// informational only.
	RequireOnline bool `json:"require_online" yaml:"require_online"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug"`
	// Timeouts configures per-operation timeouts. See Timeouts.WithDefaults for defaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// Timeouts controls operation deadlines.
// Zero values will be replaced by sane defaults in WithDefaults.
type Timeouts struct {
	Dial   time.Duration // TCP connect to the node
	Probe  time.Duration // liveness probe
	Upload time.Duration // whole add request, including transfer
	Query  time.Duration // id / version
}

// Validate normalizes the configuration by applying implicit defaults for
// NodeURL and GatewayURL and verifies that the gateway is an http(s) URL.
func (c *Config) Validate() error {

	if strings.TrimSpace(c.NodeURL) == "" {
		c.NodeURL = DefaultNodeURL
	}

	if c.GatewayURL == "" {
		c.GatewayURL = DefaultGatewayURL
	}

	if !strings.HasPrefix(c.GatewayURL, "http://") && !strings.HasPrefix(c.GatewayURL, "https://") {
		return errors.New("gateway URL must use http or https")
	}

	if !strings.HasSuffix(c.GatewayURL, "/") {
		c.GatewayURL += "/"
	}

	return nil
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Dial:   5s
//	Probe:  5s
//	Upload: 120s
//	Query:  10s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Dial == 0 {
		tt.Dial = 5 * time.Second
	}
	if tt.Probe == 0 {
		tt.Probe = 5 * time.Second
	}
	if tt.Upload == 0 {
		tt.Upload = 120 * time.Second
	}
	if tt.Query == 0 {
		tt.Query = 10 * time.Second
	}
	return tt
}
