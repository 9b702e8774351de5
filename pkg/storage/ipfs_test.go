package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ipfs/kubo/client/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamank/ipfs-upload-go/internal/testutil/kubofake"
	"github.com/shamank/ipfs-upload-go/pkg/model"
)

func newTestClient(t *testing.T) (*Client, *kubofake.Node) {
	t.Helper()
	node := kubofake.New(t)
	c, err := NewClient(node.APIURL(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, node.URL(), c.Endpoint)
	return c, node
}

func TestClient_IDAndVersion(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	id, err := c.ID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12D3KooWFakeNode", id.ID)
	assert.True(t, id.Online())

	v, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.36.0", v.Version)
}

func TestClient_IDError(t *testing.T) {
	c, node := newTestClient(t)
	node.Fail("id", "node is shutting down")

	_, err := c.ID(context.Background())
	require.Error(t, err)

	var rpcErr *rpc.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Contains(t, rpcErr.Message, "node is shutting down")
}

func TestClient_AddBare(t *testing.T) {
	c, node := newTestClient(t)

	var progress []int64
	ev, err := c.Add(context.Background(), AddParams{
		Content:  strings.NewReader("hello"),
		Progress: true,
	}, func(e model.AddEvent) {
		progress = append(progress, e.Bytes)
	})
	require.NoError(t, err)

	data, ok := node.Cat(ev.Hash)
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, []int64{2, 4, 5}, progress)
	assert.Equal(t, "true", node.LastQuery("add").Get("progress"))
	assert.Equal(t, "false", node.LastQuery("add").Get("wrap-with-directory"))
}

func TestClient_AddWrapped(t *testing.T) {
	c, node := newTestClient(t)

	ev, err := c.Add(context.Background(), AddParams{
		Name:    "notes.txt",
		Content: strings.NewReader("hi"),
		Wrap:    true,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", ev.Name)

	data, ok := node.Cat(ev.Hash + "/notes.txt")
	require.True(t, ok)
	assert.Equal(t, "hi", string(data))
	assert.Equal(t, []string{"notes.txt"}, node.Entries(ev.Hash))
}

func TestClient_AddSkipsEmptyEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"Name":"a.txt"}`+"\n")
		_, _ = io.WriteString(w, `{"Name":"a.txt","Bytes":1}`+"\n")
		_, _ = io.WriteString(w, `{"Name":"/a.txt","Hash":"bafkreifzjut3te2nhyekklss27nh3k72ysco7y32koao5eei66wof36n5e","Size":"1"}`+"\n")
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	var progress []model.AddEvent
	ev, err := c.Add(context.Background(), AddParams{Content: strings.NewReader("a"), Progress: true}, func(e model.AddEvent) {
		progress = append(progress, e)
	})
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.EqualValues(t, 1, progress[0].Bytes)
	assert.Equal(t, "a.txt", ev.Path())
}

func TestClient_AddRejected(t *testing.T) {
	c, node := newTestClient(t)
	node.Fail("add", "blockstore: disk full")

	_, err := c.Add(context.Background(), AddParams{Content: strings.NewReader("x")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestClient_AddNoContent(t *testing.T) {
	c, node := newTestClient(t)

	_, err := c.Add(context.Background(), AddParams{}, nil)
	require.Error(t, err)
	assert.Zero(t, node.Calls("add"))
}
