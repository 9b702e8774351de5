package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "http://127.0.0.1:5001", want: "http://127.0.0.1:5001"},
		{in: "http://127.0.0.1:5001/", want: "http://127.0.0.1:5001"},
		{in: "http://127.0.0.1:5001/api/v0", want: "http://127.0.0.1:5001"},
		{in: "  http://node:32534/api/v0/ ", want: "http://node:32534"},
		{in: "node:5001", want: "node:5001"},
		{in: "/api/v0", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEndpoint(tt.in))
		})
	}
}

func TestParseCID(t *testing.T) {
	const v1 = "bafkreifzjut3te2nhyekklss27nh3k72ysco7y32koao5eei66wof36n5e"
	const v0 = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

	for _, in := range []string{v1, "ipfs://" + v1, "/ipfs/" + v1 + "/", " " + v1 + "\n"} {
		c, err := ParseCID(in)
		require.NoError(t, err, in)
		assert.Equal(t, v1, c.String())
	}

	c, err := ParseCID(v0)
	require.NoError(t, err)
	assert.Equal(t, v0, c.String())

	_, err = ParseCID("not-a-cid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cid")
}

func TestNewClient_EmptyEndpoint(t *testing.T) {
	_, err := NewClient(" /api/v0 ", 0)
	require.Error(t, err)
}
