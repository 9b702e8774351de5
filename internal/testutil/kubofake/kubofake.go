// Package kubofake runs an in-process HTTP server that speaks enough of the
// Kubo RPC API (id, version, add) for tests. Added content is kept in memory
// so tests can resolve returned CIDs back to bytes.
//
// CIDs are CIDv1 derived from content (raw codec, sha2-256). Directory CIDs
// hash the entry name and child CID; they are stable but are not the UnixFS
// encoding a real node would produce.
package kubofake

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"

	"github.com/shamank/ipfs-upload-go/pkg/model"
)

const apiPrefix = "/api/v0/"

// Node is a fake Kubo daemon.
type Node struct {
	srv *httptest.Server

	mu        sync.Mutex
	identity  model.IdentitySnapshot
	version   model.VersionInfo
	failures  map[string]string
	holds     map[string]chan struct{}
	calls     map[string]int
	queries   map[string]url.Values
	blocks    map[string][]byte
	dirs      map[string]map[string]string
	chunkSize int
}

// New starts a fake node and registers its shutdown with t.Cleanup.
func New(t testing.TB) *Node {
	t.Helper()
	n := &Node{
		identity: model.IdentitySnapshot{
			ID:              "12D3KooWFakeNode",
			PublicKey:       "CAESIFakeKey",
			Addresses:       []string{"/ip4/127.0.0.1/tcp/4001"},
			AgentVersion:    "kubo/0.36.0/fake",
			ProtocolVersion: "ipfs/0.1.0",
		},
		version: model.VersionInfo{
			Version: "0.36.0",
			Commit:  "fake",
			Repo:    "16",
			System:  "amd64/linux",
			Golang:  "go1.25.0",
		},
		failures:  make(map[string]string),
		holds:     make(map[string]chan struct{}),
		calls:     make(map[string]int),
		queries:   make(map[string]url.Values),
		blocks:    make(map[string][]byte),
		dirs:      make(map[string]map[string]string),
		chunkSize: 2,
	}
	n.srv = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.srv.Close)
	return n
}

// URL returns the server root, without the /api/v0 suffix.
func (n *Node) URL() string { return n.srv.URL }

// APIURL returns the API root in the form users usually type it.
func (n *Node) APIURL() string { return n.srv.URL + "/api/v0" }

// SetOffline makes `id` report no listen addresses.
func (n *Node) SetOffline() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.identity.Addresses = nil
}

// Fail makes cmd answer with a daemon error carrying msg.
func (n *Node) Fail(cmd, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures[cmd] = msg
}

// Recover clears a failure set with Fail.
func (n *Node) Recover(cmd string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.failures, cmd)
}

// Hold blocks every cmd request until the returned function is called.
func (n *Node) Hold(cmd string) (release func()) {
	ch := make(chan struct{})
	n.mu.Lock()
	n.holds[cmd] = ch
	n.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.holds, cmd)
			n.mu.Unlock()
			close(ch)
		})
	}
}

// SetChunkSize sets the byte step between progress events. Zero disables
// progress events even when requested.
func (n *Node) SetChunkSize(size int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chunkSize = size
}

// Calls returns how many times cmd was invoked.
func (n *Node) Calls(cmd string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[cmd]
}

// LastQuery returns the query options of the most recent cmd request.
func (n *Node) LastQuery(cmd string) url.Values {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.queries[cmd]
}

// Cat resolves "<cid>" or "<cid>/<name>" to stored content.
func (n *Node) Cat(p string) ([]byte, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	root, name, _ := strings.Cut(strings.TrimPrefix(p, "/ipfs/"), "/")
	if name == "" {
		b, ok := n.blocks[root]
		return b, ok
	}
	entries, ok := n.dirs[root]
	if !ok {
		return nil, false
	}
	child, ok := entries[name]
	if !ok {
		return nil, false
	}
	b, ok := n.blocks[child]
	return b, ok
}

// Entries returns the names listed in directory dirCID.
func (n *Node) Entries(dirCID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var names []string
	for name := range n.dirs[dirCID] {
		names = append(names, name)
	}
	return names
}

func (n *Node) serve(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, apiPrefix) {
		http.NotFound(w, r)
		return
	}
	cmd := strings.TrimPrefix(r.URL.Path, apiPrefix)

	n.mu.Lock()
	n.calls[cmd]++
	n.queries[cmd] = r.URL.Query()
	failure, failing := n.failures[cmd]
	hold := n.holds[cmd]
	n.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	if failing {
		writeError(w, http.StatusInternalServerError, failure)
		return
	}

	switch cmd {
	case "id":
		n.mu.Lock()
		id := n.identity
		n.mu.Unlock()
		writeJSON(w, id)
	case "version":
		n.mu.Lock()
		v := n.version
		n.mu.Unlock()
		writeJSON(w, v)
	case "add":
		n.add(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (n *Node) add(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		writeError(w, http.StatusBadRequest, "file argument 'path' is required")
		return
	}
	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		name    string
		content []byte
		found   bool
	)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if part.Header.Get("Content-Type") == "application/x-directory" {
			continue
		}
		if found {
			writeError(w, http.StatusBadRequest, "fake node accepts a single file")
			return
		}
		content, err = io.ReadAll(part)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		name, _ = url.QueryUnescape(part.FileName())
		found = true
	}
	if !found {
		writeError(w, http.StatusBadRequest, "file argument 'path' is required")
		return
	}

	q := r.URL.Query()
	progress := q.Get("progress") == "true"
	wrap := q.Get("wrap-with-directory") == "true"

	fileCID, err := rawCID(content)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	n.mu.Lock()
	n.blocks[fileCID.String()] = content
	chunk := n.chunkSize
	n.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Chunked-Output", "1")
	enc := json.NewEncoder(w)

	if progress && chunk > 0 {
		for sent := chunk; ; sent += chunk {
			if sent > len(content) {
				sent = len(content)
			}
			if sent == 0 {
				break
			}
			_ = enc.Encode(model.AddEvent{Name: name, Bytes: int64(sent)})
			if sent == len(content) {
				break
			}
		}
	}
	_ = enc.Encode(model.AddEvent{Name: name, Hash: fileCID.String(), Size: fmt.Sprint(len(content))})

	if !wrap {
		return
	}
	dir, err := dirCID(name, fileCID)
	if err != nil {
		return
	}
	n.mu.Lock()
	n.dirs[dir.String()] = map[string]string{name: fileCID.String()}
	n.mu.Unlock()
	_ = enc.Encode(model.AddEvent{Name: "", Hash: dir.String(), Size: fmt.Sprint(len(content))})
}

func rawCID(data []byte) (cid.Cid, error) {
	sum, err := mh.Sum(data, mh.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

func dirCID(name string, child cid.Cid) (cid.Cid, error) {
	sum, err := mh.Sum([]byte("dir\x00"+name+"\x00"+child.String()), mh.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.DagProtobuf, sum), nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"Message": msg,
		"Code":    0,
		"Type":    "error",
	})
}
