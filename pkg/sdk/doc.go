// Package sdk provides the high-level entry point for uploading files to an
// IPFS node over its HTTP RPC API.
//
// # Quick Start
//
//	cfg := &config.Config{NodeURL: "http://127.0.0.1:5001/api/v0"}
//
//	client, err := sdk.NewSDK(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if _, err := client.Connect(ctx, ""); err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := client.Upload(ctx, []upload.File{upload.FileFromPath("notes.txt")}, true)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.CID, res.GatewayURL)
//
// # State
//
// The client keeps exactly one active session. A successful Connect replaces
// it and refreshes the node details returned by Identity; a failed Connect
// leaves both as they were. LastResult and LastError hold the latest outcome
// only, there is no history. A failed upload never invalidates the session.
//
// # Logging
//
// The package installs a console zap logger as the global logger at init.
// Config.Debug switches it to debug level, which includes per-event upload
// progress. Replace it with zap.ReplaceGlobals for custom output.
package sdk
