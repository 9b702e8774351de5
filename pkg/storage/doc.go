// Package storage provides the low-level connection to an IPFS node used by
// the upload client.
//
// # Kubo RPC API
//
// Everything goes through the Kubo HTTP RPC API (github.com/ipfs/kubo/client/rpc).
// The client appends /api/v0 to the endpoint itself, so NormalizeEndpoint
// strips it from user input:
//
//	c, err := storage.NewClient("http://localhost:5001/api/v0", 5*time.Second)
//	if err != nil {
//		log.Fatal(err)
//	}
//	// c.Endpoint == "http://localhost:5001"
//
// # Commands
//
//   - ID: `id`, used as liveness probe and identity display
//   - Version: `version`
//   - Add: `add`, with optional progress and wrap-with-directory
//
// The add body is a multipart stream built with boxo/files holding exactly
// one file entry. With Wrap the entry is named and the node returns the CID
// of a synthetic directory containing it:
//
//	ev, err := c.Add(ctx, storage.AddParams{
//		Name:    "notes.txt",
//		Content: strings.NewReader("hi"),
//		Wrap:    true,
//	}, nil)
//	// ev.Hash addresses the directory; <ev.Hash>/notes.txt is the file
//
// # CID Formats
//
// CIDs returned by the node are parsed with go-cid. Both CIDv0 ("Qm...") and
// CIDv1 ("bafy...") are accepted; ParseCID also tolerates ipfs:// and /ipfs/
// prefixes.
package storage
