package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/ipfs/boxo/files"
	"github.com/ipfs/kubo/client/rpc"
	"go.uber.org/zap"

	"github.com/shamank/ipfs-upload-go/pkg/model"
)

// NewIPFSClient constructs a Kubo HTTP API client pointed at url. Only the
// TCP connect is bounded by dial; request deadlines come from the caller's
// context so long uploads are not cut short.
func NewIPFSClient(url string, dial time.Duration) (client *rpc.HttpApi, err error) {
	httpClient := http.Client{
		Transport: &http.Transport{
			Proxy:       http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{Timeout: dial}).DialContext,
		},
	}
	client, err = rpc.NewURLApiWithClient(url, &httpClient)
	if err != nil {
		zap.L().Error("Connection failed to IPFS", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	return client, nil
}

// NewClient builds a Client bound to endpoint. No request is sent.
func NewClient(endpoint string, dial time.Duration) (*Client, error) {
	e := NormalizeEndpoint(endpoint)
	if e == "" {
		return nil, errors.New("empty endpoint")
	}
	api, err := NewIPFSClient(e, dial)
	if err != nil {
		return nil, err
	}
	return &Client{HttpApi: api, Endpoint: e}, nil
}

// ID runs `id` against the node.
func (c *Client) ID(ctx context.Context) (*model.IdentitySnapshot, error) {
	var out model.IdentitySnapshot
	if err := c.Request("id").Exec(ctx, &out); err != nil {
		zap.L().Debug("ipfs id failed", zap.String("endpoint", c.Endpoint), zap.Error(err))
		return nil, err
	}
	return &out, nil
}

// Version runs `version` against the node.
func (c *Client) Version(ctx context.Context) (*model.VersionInfo, error) {
	var out model.VersionInfo
	if err := c.Request("version").Exec(ctx, &out); err != nil {
		zap.L().Debug("ipfs version failed", zap.String("endpoint", c.Endpoint), zap.Error(err))
		return nil, err
	}
	return &out, nil
}

// Add uploads params.Content with the `add` command as a multipart body
// holding a single file entry. The node streams one JSON object per event;
// the last event carrying a hash is returned. With Wrap set that is the
// wrapping directory.
func (c *Client) Add(ctx context.Context, params AddParams, onEvent func(model.AddEvent)) (model.AddEvent, error) {
	if params.Content == nil {
		return model.AddEvent{}, errors.New("no content to add")
	}

	dir := files.NewMapDirectory(map[string]files.Node{
		params.Name: files.NewReaderFile(params.Content),
	})

	req := c.Request("add").
		Option("progress", params.Progress).
		Option("wrap-with-directory", params.Wrap).
		Body(files.NewMultiFileReader(dir, false, false))

	resp, err := req.Send(ctx)
	if err != nil {
		zap.L().Error("error uploading to ipfs", zap.String("endpoint", c.Endpoint), zap.Error(err))
		return model.AddEvent{}, err
	}
	defer func(resp *rpc.Response) {
		err := resp.Close()
		if err != nil {
			zap.L().Error("error closing ipfs response", zap.Error(err))
		}
	}(resp)

	if resp.Error != nil {
		zap.L().Error("ipfs add command returned error", zap.Error(resp.Error))
		return model.AddEvent{}, resp.Error
	}

	var last model.AddEvent
	dec := json.NewDecoder(resp.Output)
	for {
		var ev model.AddEvent
		err := dec.Decode(&ev)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			zap.L().Error("error decoding ipfs add response", zap.Error(err))
			return model.AddEvent{}, fmt.Errorf("decode add response: %w", err)
		}
		if ev.IsProgress() {
			if onEvent != nil {
				onEvent(ev)
			}
			continue
		}
		if ev.Hash == "" {
			continue
		}
		zap.L().Debug("ipfs add entry", zap.String("path", ev.Path()), zap.String("hash", ev.Hash))
		last = ev
	}

	if last.Hash == "" {
		return model.AddEvent{}, errors.New("ipfs add returned no hash")
	}
	return last, nil
}
