package testsuite

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	adapter "github.com/echowaves/chat/server/db"
	"github.com/echowaves/chat/server/db/common/test_data"
	"github.com/echowaves/chat/server/store/types"
)

// RunConvCreate runs the shared ConvCreate and ConvGet tests used by adapters.
func RunConvCreate(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	for _, conv := range td.Convs {
		if err := adp.ConvCreate(conv); err != nil {
			t.Fatal(err)
		}
	}

	got, err := adp.ConvGet(td.Convs[1].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("Conversation not found")
	}
	if !got.IsPrivate() || !got.IsOwner(td.Users[0].Uid()) || got.Name != td.Convs[1].Name {
		t.Error(mismatchErrorString("Conversation", got, td.Convs[1]))
	}

	got, err = adp.ConvGet(td.UGen.Get())
	if err != nil || got != nil {
		t.Error(mismatchErrorString("Missing conversation", got, nil), err)
	}
}

// RunConvTags runs the shared tagging tests used by adapters.
func RunConvTags(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	conv := td.Convs[0].Uid()
	if err := adp.ConvTagsAdd(conv, td.Users[0].Uid(), []string{"go", "chat"}); err != nil {
		t.Fatal(err)
	}
	if err := adp.ConvTagsAdd(conv, td.Users[1].Uid(), []string{"go"}); err != nil {
		t.Fatal(err)
	}
	// Repeated tagging by the same user is not counted twice.
	if err := adp.ConvTagsAdd(conv, td.Users[0].Uid(), []string{"go"}); err != nil {
		t.Fatal(err)
	}

	got, err := adp.ConvTagCounts(conv)
	if err != nil {
		t.Fatal(err)
	}
	want := []types.TagCount{{Tag: "chat", Count: 1}, {Tag: "go", Count: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error("Tag counts:", diff)
	}

	if err := adp.ConvTagsRemove(conv, td.Users[1].Uid(), []string{"go"}); err != nil {
		t.Fatal(err)
	}
	got, err = adp.ConvTagCounts(conv)
	if err != nil {
		t.Fatal(err)
	}
	want = []types.TagCount{{Tag: "chat", Count: 1}, {Tag: "go", Count: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error("Tag counts after removal:", diff)
	}
}

// RunConvVisits runs the shared visit tracking tests used by adapters.
func RunConvVisits(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	user := td.Users[0].Uid()
	visits := []struct {
		conv *types.Conversation
		when time.Time
	}{
		{td.Convs[0], td.Now.Add(-time.Hour)},
		{td.Convs[2], td.Now.Add(-30 * time.Minute)},
		// Revisit moves the conversation to the top.
		{td.Convs[0], td.Now},
	}
	for _, v := range visits {
		if err := adp.ConvUpsertVisit(v.conv.Uid(), user, v.when); err != nil {
			t.Fatal(err)
		}
	}

	got, err := adp.ConvRecentForUser(user, 0)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{td.Convs[0].Id, td.Convs[2].Id}, convIds(got)); diff != "" {
		t.Error("Recent conversations:", diff)
	}

	got, err = adp.ConvRecentForUser(user, 1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{td.Convs[0].Id}, convIds(got)); diff != "" {
		t.Error("Recent conversations with limit:", diff)
	}
}
