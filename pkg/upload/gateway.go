package upload

import "strings"

// PublicGateway is the gateway retrieval links point to by default.
const PublicGateway = "https://ipfs.io/ipfs/"

// GatewayLink returns the public retrieval URL for cid.
func GatewayLink(cid string) string {
	return PublicGateway + cid
}

// GatewayLinkWithBase returns the retrieval URL for cid on base. An empty
// base means the public gateway.
func GatewayLinkWithBase(base, cid string) string {
	if base == "" {
		return GatewayLink(cid)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + cid
}
