package model

import "testing"

func TestIdentitySnapshot_Online(t *testing.T) {
	tests := []struct {
		name string
		snap *IdentitySnapshot
		want bool
	}{
		{name: "nil snapshot", snap: nil, want: false},
		{name: "no addresses", snap: &IdentitySnapshot{ID: "12D3Koo"}, want: false},
		{
			name: "listening",
			snap: &IdentitySnapshot{ID: "12D3Koo", Addresses: []string{"/ip4/127.0.0.1/tcp/4001"}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.Online(); got != tt.want {
				t.Fatalf("Online() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDisplayFields(t *testing.T) {
	id := &IdentitySnapshot{ID: "peer", AgentVersion: "kubo/0.36.0/"}
	fields := id.Display()
	if len(fields) != 2 || fields[0].Key != "id" || fields[1].Value != "kubo/0.36.0/" {
		t.Fatalf("unexpected identity fields: %+v", fields)
	}

	v := &VersionInfo{Version: "0.36.0"}
	if got := v.Display(); len(got) != 1 || got[0].Value != "0.36.0" {
		t.Fatalf("unexpected version fields: %+v", got)
	}

	var nilVersion *VersionInfo
	if nilVersion.Display() != nil {
		t.Fatal("expected nil fields for nil version")
	}
}

func TestAddEvent(t *testing.T) {
	progress := AddEvent{Name: "notes.txt", Bytes: 1024}
	if !progress.IsProgress() {
		t.Fatal("expected progress event")
	}

	done := AddEvent{Name: "/notes.txt", Hash: "bafkqaaa", Size: "2"}
	if done.IsProgress() {
		t.Fatal("completion reported as progress")
	}
	if done.Path() != "notes.txt" {
		t.Fatalf("Path() = %q", done.Path())
	}
}
