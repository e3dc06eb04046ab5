package testsuite

import (
	"testing"

	adapter "github.com/echowaves/chat/server/db"
	"github.com/echowaves/chat/server/db/common/test_data"
)

// RunInviteCreate runs the shared InviteCreate and InviteFind tests used by adapters.
func RunInviteCreate(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	inv := td.Invites[0]
	if err := adp.InviteCreate(inv); err != nil {
		t.Fatal(err)
	}

	got, err := adp.InviteFind(td.Users[1].Uid(), td.Convs[1].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("Invite not found")
	}
	if got.Id != inv.Id || got.Token != inv.Token || got.RequestedBy != inv.RequestedBy {
		t.Error(mismatchErrorString("Invite", got, inv))
	}
	if got.IsConsumed() {
		t.Error("New invite is consumed")
	}

	got, err = adp.InviteFind(td.Users[2].Uid(), td.Convs[1].Uid())
	if err != nil || got != nil {
		t.Error(mismatchErrorString("Missing invite", got, nil), err)
	}
}

// RunInviteConsume runs the shared InviteConsume tests used by adapters: a token is spent once.
func RunInviteConsume(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	inv := td.Invites[0]
	ok, err := adp.InviteConsume(inv.Uid(), "not-the-token", "replacement-1", td.Now)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Invite consumed with a wrong token")
	}

	ok, err = adp.InviteConsume(inv.Uid(), inv.Token, "replacement-1", td.Now)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Invite not consumed with the right token")
	}

	// Second spend of the same token.
	ok, err = adp.InviteConsume(inv.Uid(), inv.Token, "replacement-2", td.Now)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Invite consumed twice")
	}

	got, err := adp.InviteFind(td.Users[1].Uid(), td.Convs[1].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("Invite not found")
	}
	if !got.IsConsumed() || !got.ConsumedAt.Equal(td.Now) {
		t.Error(mismatchErrorString("ConsumedAt", got.ConsumedAt, td.Now))
	}
	if got.Token != "replacement-1" {
		t.Error(mismatchErrorString("Token", got.Token, "replacement-1"))
	}
}

// RunInviteRestore runs the shared InviteRestore tests used by adapters. Expects the invite
// consumed by RunInviteConsume.
func RunInviteRestore(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	inv := td.Invites[0]
	ok, err := adp.InviteRestore(inv.Uid(), "replacement-2", inv.Token, td.Now)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Invite restored with a wrong spent token")
	}

	ok, err = adp.InviteRestore(inv.Uid(), "replacement-1", inv.Token, td.Now)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Invite not restored")
	}

	got, err := adp.InviteFind(td.Users[1].Uid(), td.Convs[1].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("Invite not found")
	}
	if got.IsConsumed() || got.Token != inv.Token {
		t.Error(mismatchErrorString("Restored invite", got, inv))
	}

	// Not consumed anymore.
	ok, err = adp.InviteRestore(inv.Uid(), "replacement-1", inv.Token, td.Now)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Unconsumed invite restored")
	}
}

// RunInviteConsumeConcurrent runs the shared concurrent InviteConsume test used by adapters.
// Of several requests presenting the same token exactly one wins. Expects the invite
// restored by RunInviteRestore.
func RunInviteConsumeConcurrent(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	type result struct {
		ok  bool
		err error
	}
	inv := td.Invites[0]
	results := race(8, func() result {
		ok, err := adp.InviteConsume(inv.Uid(), inv.Token, "replacement-3", td.Now)
		return result{ok, err}
	})

	won := 0
	for _, r := range results {
		if r.err != nil {
			t.Fatal(r.err)
		}
		if r.ok {
			won++
		}
	}
	if won != 1 {
		t.Error(mismatchErrorString("Successful spends", won, 1))
	}
}
