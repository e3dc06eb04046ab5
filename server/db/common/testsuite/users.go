package testsuite

import (
	"testing"

	adapter "github.com/echowaves/chat/server/db"
	"github.com/echowaves/chat/server/db/common/test_data"
	"github.com/echowaves/chat/server/store/types"
)

// RunUserCreate runs the shared UserCreate tests used by adapters.
func RunUserCreate(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	for _, user := range td.Users {
		if err := adp.UserCreate(user); err != nil {
			t.Fatal(err)
		}
	}

	// Same login, different id.
	dupe := *td.Users[0]
	dupe.SetUid(td.UGen.Get())
	dupe.Email = "alice2@test.example.com"
	if err := adp.UserCreate(&dupe); err != types.ErrDuplicate {
		t.Error(mismatchErrorString("Duplicate login", err, types.ErrDuplicate))
	}
}

// RunUserGet runs the shared UserGet and UserGetByLogin tests used by adapters.
func RunUserGet(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	got, err := adp.UserGet(td.Users[0].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("User not found")
	}
	want := td.Users[0]
	if got.Id != want.Id || got.Login != want.Login || got.Email != want.Email ||
		got.ReceiveEmailNotifications != want.ReceiveEmailNotifications {
		t.Error(mismatchErrorString("User", got, want))
	}
	if got.ActivatedAt == nil || !got.ActivatedAt.Equal(*want.ActivatedAt) {
		t.Error(mismatchErrorString("ActivatedAt", got.ActivatedAt, want.ActivatedAt))
	}

	got, err = adp.UserGetByLogin("carol")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Id != td.Users[2].Id {
		t.Error(mismatchErrorString("User by login", got, td.Users[2]))
	}
	if got != nil && got.ActivatedAt != nil {
		t.Error("User must not be activated:", got.ActivatedAt)
	}

	// Missing user is not an error.
	got, err = adp.UserGet(td.UGen.Get())
	if err != nil || got != nil {
		t.Error(mismatchErrorString("Missing user", got, nil), err)
	}
}
