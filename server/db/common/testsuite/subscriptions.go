package testsuite

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	adapter "github.com/echowaves/chat/server/db"
	"github.com/echowaves/chat/server/db/common/test_data"
	"github.com/echowaves/chat/server/store/types"
)

// RunSubsCreate runs the shared SubsCreate tests used by adapters.
func RunSubsCreate(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	for _, sub := range td.Subs {
		if err := adp.SubsCreate(sub); err != nil {
			t.Fatal(err)
		}
	}

	// A user has at most one subscription per conversation.
	dupe := *td.Subs[0]
	dupe.ActivatedAt = td.Now
	if err := adp.SubsCreate(&dupe); err != types.ErrDuplicate {
		t.Error(mismatchErrorString("Duplicate subscription", err, types.ErrDuplicate))
	}

	got, err := adp.SubsGet(td.Convs[0].Uid(), td.Users[0].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("Subscription not found")
	}
	if !got.ActivatedAt.Equal(td.Subs[0].ActivatedAt) {
		t.Error(mismatchErrorString("ActivatedAt", got.ActivatedAt, td.Subs[0].ActivatedAt))
	}

	got, err = adp.SubsGet(td.Convs[1].Uid(), td.Users[1].Uid())
	if err != nil || got != nil {
		t.Error(mismatchErrorString("Missing subscription", got, nil), err)
	}
}

// RunSubsForUser runs the shared SubsForUser tests used by adapters. The result limit
// must apply to the ordered list.
func RunSubsForUser(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	conversations := func(subs []types.Subscription) []string {
		var ids []string
		for i := range subs {
			ids = append(ids, subs[i].Conversation)
		}
		return ids
	}

	got, err := adp.SubsForUser(td.Users[0].Uid())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{td.Convs[1].Id, td.Convs[2].Id, td.Convs[0].Id}
	if diff := cmp.Diff(want, conversations(got)); diff != "" {
		t.Error("Subscriptions order:", diff)
	}

	// The oldest subscription was created first so a limit applied before ordering
	// would return it.
	adp.SetMaxResults(1)
	defer adp.SetMaxResults(0)
	got, err = adp.SubsForUser(td.Users[0].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{td.Convs[1].Id}, conversations(got)); diff != "" {
		t.Error("Subscriptions with limit:", diff)
	}
}

// RunSubsUnread runs the shared unread counter tests used by adapters.
func RunSubsUnread(t *testing.T, adp adapter.Adapter, td *test_data.TestData, want int) {
	t.Helper()

	got, err := adp.SubsGet(td.Convs[0].Uid(), td.Users[0].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("Subscription not found")
	}
	if got.GetUnread() != want {
		t.Error(mismatchErrorString("Unread", got.GetUnread(), want))
	}
}
