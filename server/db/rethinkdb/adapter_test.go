//go:build rethinkdb
// +build rethinkdb

package rethinkdb

import (
	"testing"

	t "github.com/echowaves/chat/server/store/types"
	"github.com/google/go-cmp/cmp"
)

func TestUserUniques(tt *testing.T) {
	cases := []struct {
		login, email string
		want         []string
	}{
		{"", "", nil},
		{"alice", "", []string{"login:alice"}},
		{"", "alice@example.com", []string{"email:alice@example.com"}},
		{"alice", "alice@example.com", []string{"login:alice", "email:alice@example.com"}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, userUniques(tc.login, tc.email)); diff != "" {
			tt.Errorf("userUniques(%q, %q): %s", tc.login, tc.email, diff)
		}
	}
}

func TestCompositeIds(tt *testing.T) {
	if got := visitId("usr", "cnv"); got != "usr:cnv" {
		tt.Errorf("visitId=%q", got)
	}
	if got := taggingId("cnv", "usr", "go"); got != "cnv:usr:go" {
		tt.Errorf("taggingId=%q", got)
	}
	if got := reportId("msg", "usr"); got != "msg:usr" {
		tt.Errorf("reportId=%q", got)
	}
	// Distinct tags of the same user must not collide.
	if taggingId("c", "u", "a") == taggingId("c", "u", "b") {
		tt.Error("tagging ids collide")
	}
}

func TestToInterfaces(tt *testing.T) {
	ids := []t.Uid{t.Uid(7), t.Uid(9)}
	want := []interface{}{t.Uid(7).String(), t.Uid(9).String()}
	if diff := cmp.Diff(want, uidsToInterfaces(ids)); diff != "" {
		tt.Error(diff)
	}
	if diff := cmp.Diff([]interface{}{"a", "b"}, stringsToInterfaces([]string{"a", "b"})); diff != "" {
		tt.Error(diff)
	}
}

func TestOpenConfig(tt *testing.T) {
	a := &adapter{}
	if err := a.Open(nil); err == nil {
		tt.Error("expected error on missing config")
	}
	if err := a.Open([]byte(`{"addresses": [1, 2]}`)); err == nil {
		tt.Error("expected error on malformed addresses")
	}
	if a.IsOpen() {
		tt.Error("adapter must not be open after failed Open")
	}
}
