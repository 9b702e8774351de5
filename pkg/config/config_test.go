package config

import (
	"testing"
	"time"
)

// TestConfigValidate_AppliesDefaults verifies that Validate applies default values
// for NodeURL and GatewayURL when they are not explicitly set.
func TestConfigValidate_AppliesDefaults(t *testing.T) {
	cfg := &Config{}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if cfg.NodeURL != DefaultNodeURL {
		t.Fatalf("unexpected NodeURL: %s", cfg.NodeURL)
	}
	if cfg.GatewayURL != "https://ipfs.io/ipfs/" {
		t.Fatalf("unexpected GatewayURL: %s", cfg.GatewayURL)
	}
	if cfg.RequireOnline {
		t.Fatal("RequireOnline should default to false")
	}
}

// TestConfigValidate_KeepsCustomValues verifies that explicit values survive
// validation and that a missing trailing slash on the gateway is added.
func TestConfigValidate_KeepsCustomValues(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		wantNode    string
		wantGateway string
	}{
		{
			name:        "local node",
			config:      &Config{NodeURL: "http://127.0.0.1:5001"},
			wantNode:    "http://127.0.0.1:5001",
			wantGateway: DefaultGatewayURL,
		},
		{
			name:        "custom gateway without slash",
			config:      &Config{NodeURL: "http://node:5001/api/v0", GatewayURL: "https://dweb.link/ipfs"},
			wantNode:    "http://node:5001/api/v0",
			wantGateway: "https://dweb.link/ipfs/",
		},
		{
			name:        "whitespace node falls back",
			config:      &Config{NodeURL: "   "},
			wantNode:    DefaultNodeURL,
			wantGateway: DefaultGatewayURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if tt.config.NodeURL != tt.wantNode {
				t.Errorf("NodeURL = %v, want %v", tt.config.NodeURL, tt.wantNode)
			}
			if tt.config.GatewayURL != tt.wantGateway {
				t.Errorf("GatewayURL = %v, want %v", tt.config.GatewayURL, tt.wantGateway)
			}
		})
	}
}

// TestConfigValidate_RejectsGatewayScheme verifies that a gateway that is not
// an http(s) URL is refused.
func TestConfigValidate_RejectsGatewayScheme(t *testing.T) {
	cfg := &Config{GatewayURL: "ipfs://gateway"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for non-http gateway")
	}

	expectedErr := "gateway URL must use http or https"
	if err.Error() != expectedErr {
		t.Fatalf("expected error %q, got %q", expectedErr, err.Error())
	}
}

// TestTimeoutsWithDefaults verifies that WithDefaults preserves explicitly set
// timeout values and fills in defaults for zero values.
func TestTimeoutsWithDefaults(t *testing.T) {
	tests := []struct {
		name     string
		timeouts Timeouts
		want     Timeouts
	}{
		{
			name:     "empty timeouts",
			timeouts: Timeouts{},
			want: Timeouts{
				Dial:   5 * time.Second,
				Probe:  5 * time.Second,
				Upload: 120 * time.Second,
				Query:  10 * time.Second,
			},
		},
		{
			name: "partial timeouts",
			timeouts: Timeouts{
				Dial:   time.Second,
				Upload: 42 * time.Second,
			},
			want: Timeouts{
				Dial:   time.Second,
				Probe:  5 * time.Second,
				Upload: 42 * time.Second,
				Query:  10 * time.Second,
			},
		},
		{
			name: "all custom timeouts",
			timeouts: Timeouts{
				Dial:   1 * time.Second,
				Probe:  2 * time.Second,
				Upload: 3 * time.Second,
				Query:  4 * time.Second,
			},
			want: Timeouts{
				Dial:   1 * time.Second,
				Probe:  2 * time.Second,
				Upload: 3 * time.Second,
				Query:  4 * time.Second,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.timeouts.WithDefaults()
			if got != tt.want {
				t.Errorf("WithDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
