// Package model defines data structures exchanged with an IPFS node over the
// Kubo RPC API: node identity, daemon version and the event stream produced by
// the add command. Field names and JSON tags mirror the daemon's responses.
package model

import "strings"

// IdentitySnapshot is the response of the `id` command. It is fetched once
// per session and replaced wholesale when a new session is established.
type IdentitySnapshot struct {
	ID              string   `json:"ID"`
	PublicKey       string   `json:"PublicKey"`
	Addresses       []string `json:"Addresses"`
	AgentVersion    string   `json:"AgentVersion"`
	ProtocolVersion string   `json:"ProtocolVersion,omitempty"`
	Protocols       []string `json:"Protocols,omitempty"`
}

// Online reports whether the node advertises at least one listen address.
func (s *IdentitySnapshot) Online() bool {
	return s != nil && len(s.Addresses) > 0
}

// Display returns the identity fields shown after connecting, in order.
func (s *IdentitySnapshot) Display() []Field {
	if s == nil {
		return nil
	}
	fields := []Field{
		{Key: "id", Value: s.ID},
		{Key: "agentVersion", Value: s.AgentVersion},
	}
	if s.ProtocolVersion != "" {
		fields = append(fields, Field{Key: "protocolVersion", Value: s.ProtocolVersion})
	}
	return fields
}

// VersionInfo is the response of the `version` command.
type VersionInfo struct {
	Version string `json:"Version"`
	Commit  string `json:"Commit"`
	Repo    string `json:"Repo"`
	System  string `json:"System"`
	Golang  string `json:"Golang"`
}

// Display returns the version fields shown after connecting.
func (v *VersionInfo) Display() []Field {
	if v == nil {
		return nil
	}
	return []Field{{Key: "version", Value: v.Version}}
}

// Field is a labelled value rendered in a details section.
type Field struct {
	Key   string
	Value string
}

// AddEvent is a single JSON object from the streamed output of `add`.
// Progress events carry Bytes and no Hash; completion events carry Hash.
type AddEvent struct {
	Name  string `json:"Name"`
	Hash  string `json:"Hash,omitempty"`
	Bytes int64  `json:"Bytes,omitempty"`
	Size  string `json:"Size,omitempty"`
}

// IsProgress reports whether the event is a transfer progress notification.
func (e AddEvent) IsProgress() bool {
	return e.Hash == "" && e.Bytes > 0
}

// Path returns the path of the added entry relative to the returned root,
// with any leading slash removed.
func (e AddEvent) Path() string {
	return strings.TrimPrefix(e.Name, "/")
}
