// Package config provides configuration management for the IPFS upload client.
//
// The Config structure controls which node the client talks to, where
// retrieval links point, whether the liveness probe gates a connection, and
// how long each network operation may take.
//
// # Basic Configuration
//
// The zero value is usable; Validate fills in the defaults:
//
//	cfg := &config.Config{}
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//	// cfg.NodeURL    == config.DefaultNodeURL
//	// cfg.GatewayURL == "https://ipfs.io/ipfs/"
//
// # Node Endpoint
//
// NodeURL is the root of the Kubo RPC API (port 5001 on a default install).
// Both "http://host:5001" and "http://host:5001/api/v0" are accepted; the
// session layer strips the /api/v0 suffix before building the client.
//
// # Liveness Policy
//
// By default a completed liveness probe never blocks a connection, even when
// the node reports that it has no listen addresses. Set RequireOnline to make
// such a node a connect failure:
//
//	cfg.RequireOnline = true
//
// # Timeouts
//
// Zero timeouts are replaced by WithDefaults:
//
//	Dial:   5s   TCP connect to the node
//	Probe:  5s   liveness probe (id)
//	Upload: 120s whole add request
//	Query:  10s  id / version for display
package config
