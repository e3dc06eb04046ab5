//go:build mongodb
// +build mongodb

package mongodb

import (
	"errors"
	"testing"

	t "github.com/echowaves/chat/server/store/types"
	"github.com/google/go-cmp/cmp"
	mdb "go.mongodb.org/mongo-driver/mongo"
)

func TestUidStrings(tt *testing.T) {
	ids := []t.Uid{t.Uid(1), t.Uid(42)}
	want := []string{t.Uid(1).String(), t.Uid(42).String()}
	if diff := cmp.Diff(want, uidStrings(ids)); diff != "" {
		tt.Error(diff)
	}
	if got := uidStrings(nil); len(got) != 0 {
		tt.Errorf("expected empty slice, got %v", got)
	}
}

func TestIsDuplicateErr(tt *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("connection refused"), false},
		{errors.New("E11000 duplicate key error collection: convo.users index: login_1"), true},
		{mdb.WriteException{WriteErrors: []mdb.WriteError{{Code: 11000, Message: "dup"}}}, true},
	}
	for i, tc := range cases {
		if got := isDuplicateErr(tc.err); got != tc.want {
			tt.Errorf("%d: isDuplicateErr=%v, expected %v", i, got, tc.want)
		}
	}
}

func TestOpenConfig(tt *testing.T) {
	a := &adapter{}
	if err := a.Open(nil); err == nil {
		tt.Error("expected error on missing config")
	}
	if err := a.Open([]byte(`{"addresses": 5}`)); err == nil {
		tt.Error("expected error on malformed addresses")
	}
	if a.IsOpen() {
		tt.Error("adapter must not be open after failed Open")
	}
}

func TestSetMaxResults(tt *testing.T) {
	a := &adapter{}
	a.SetMaxResults(0)
	if a.maxResults != defaultMaxResults {
		tt.Errorf("expected default, got %d", a.maxResults)
	}
	a.SetMaxResults(10)
	if a.maxResults != 10 {
		tt.Errorf("expected 10, got %d", a.maxResults)
	}
}
