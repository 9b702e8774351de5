// Command ipfs-upload connects to an IPFS node over its HTTP RPC API, uploads
// a file and prints the resulting CID together with a public gateway link.
//
//	ipfs-upload [-node URL] [-keep-filename] [-require-online] [-info] [-debug] FILE...
//
// Only the first FILE is uploaded. Without FILE the command only connects,
// which together with -info is a quick way to inspect a node.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/shamank/ipfs-upload-go/pkg/config"
	"github.com/shamank/ipfs-upload-go/pkg/identity"
	"github.com/shamank/ipfs-upload-go/pkg/sdk"
	"github.com/shamank/ipfs-upload-go/pkg/upload"
)

type options struct {
	cfg          config.Config
	keepFilename bool
	info         bool
	files        []string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("ipfs-upload", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.cfg.NodeURL, "node", config.DefaultNodeURL, "IPFS node RPC API URL (internal port 5001), with or without /api/v0")
	fs.StringVar(&o.cfg.GatewayURL, "gateway", config.DefaultGatewayURL, "gateway prefix used for the retrieval link")
	fs.BoolVar(&o.keepFilename, "keep-filename", false, "wrap the file in a directory to keep its original name")
	fs.BoolVar(&o.cfg.RequireOnline, "require-online", false, "fail when the node reports no listen addresses")
	fs.BoolVar(&o.info, "info", false, "print node identity and version after connecting")
	fs.BoolVar(&o.cfg.Debug, "debug", false, "enable debug logging")
	fs.DurationVar(&o.cfg.Timeouts.Upload, "timeout", 0, "upload timeout (default 2m)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.files = fs.Args()
	return o, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Println(err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options, out io.Writer) error {
	client, err := sdk.NewSDK(&opts.cfg)
	if err != nil {
		return err
	}

	if _, err := client.Connect(ctx, opts.cfg.NodeURL); err != nil {
		return err
	}

	if opts.info {
		printIdentity(out, client.Identity())
	}

	var files []upload.File
	for _, path := range opts.files {
		files = append(files, upload.FileFromPath(path))
	}

	var uploadOpts []upload.Option
	interactive := term.IsTerminal(int(os.Stderr.Fd()))
	if interactive {
		uploadOpts = append(uploadOpts, upload.WithProgress(upload.ProgressFunc(func(name string, bytes int64) {
			fmt.Fprintf(os.Stderr, "\rreceived: %d bytes", bytes)
		})))
	}

	res, err := client.Upload(ctx, files, opts.keepFilename, uploadOpts...)
	if interactive && res != nil {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}

	printResult(out, res)
	return nil
}

func printIdentity(out io.Writer, snap identity.Snapshot) {
	if !snap.Connected() {
		fmt.Fprintln(out, "Connected to IPFS (node details unavailable)")
		return
	}
	fmt.Fprintln(out, "Connected to IPFS")
	for _, f := range snap.Fields() {
		fmt.Fprintf(out, "%-16s %s\n", f.Key, f.Value)
	}
}

func printResult(out io.Writer, res *upload.Result) {
	fmt.Fprintf(out, "CID: %s\n", res.CID)
	if res.Path != res.CID {
		fmt.Fprintf(out, "Path: %s\n", res.Path)
	}
	fmt.Fprintf(out, "Gateway: %s\n", res.GatewayURL)
}
