package testsuite

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	adapter "github.com/echowaves/chat/server/db"
	"github.com/echowaves/chat/server/db/common/test_data"
	"github.com/echowaves/chat/server/store/types"
)

// RunMessageSave runs the shared MessageSave and MessageGet tests used by adapters.
func RunMessageSave(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	for _, msg := range td.Msgs {
		if err := adp.MessageSave(msg); err != nil {
			t.Fatal(err)
		}
	}

	want := td.Msgs[2]
	got, err := adp.MessageGet(want.Uid())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("Message not found")
	}
	if got.Body != want.Body || got.Attachment != want.Attachment || got.AttachmentType != want.AttachmentType ||
		got.User != want.User || got.Conversation != want.Conversation {
		t.Error(mismatchErrorString("Message", got, want))
	}
	if !got.IsPublished() {
		t.Error("New message is not published")
	}

	got, err = adp.MessageGet(td.UGen.Get())
	if err != nil || got != nil {
		t.Error(mismatchErrorString("Missing message", got, nil), err)
	}
}

// RunAbuseReportCreate runs the shared AbuseReportCreate tests used by adapters: one report
// per user and message.
func RunAbuseReportCreate(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	if err := adp.AbuseReportCreate(td.Reports[0]); err != nil {
		t.Fatal(err)
	}
	// Same user, same message.
	if err := adp.AbuseReportCreate(td.Reports[1]); err != types.ErrDuplicate {
		t.Error(mismatchErrorString("Duplicate report", err, types.ErrDuplicate))
	}
	if err := adp.AbuseReportCreate(td.Reports[2]); err != nil {
		t.Fatal(err)
	}

	msg, user := td.Msgs[1].Uid(), td.Users[0].Uid()
	got, err := adp.AbuseReportGet(msg, user)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Id != td.Reports[0].Id {
		t.Error(mismatchErrorString("Report", got, td.Reports[0]))
	}

	// The rejected duplicate leaves nothing behind.
	reps, err := adp.AbuseReportsForMessage(msg)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for i := range reps {
		ids = append(ids, reps[i].Id)
	}
	if diff := cmp.Diff([]string{td.Reports[0].Id, td.Reports[2].Id}, ids); diff != "" {
		t.Error("Reports for message:", diff)
	}

	got, err = adp.AbuseReportGet(msg, td.Users[1].Uid())
	if err != nil || got != nil {
		t.Error(mismatchErrorString("Missing report", got, nil), err)
	}
}

// RunAbuseReportCreateConcurrent runs the shared concurrent AbuseReportCreate test used by
// adapters. Concurrent reports by the same user are either stored or rejected as duplicates.
func RunAbuseReportCreateConcurrent(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	msg := td.Msgs[2]
	errs := race(8, func() error {
		rep := &types.AbuseReport{User: td.Users[0].Id, Message: msg.Id}
		rep.SetUid(td.UGen.Get())
		rep.InitTimes()
		return adp.AbuseReportCreate(rep)
	})

	stored := 0
	for _, err := range errs {
		switch err {
		case nil:
			stored++
		case types.ErrDuplicate:
		default:
			t.Error(mismatchErrorString("Concurrent report", err, types.ErrDuplicate))
		}
	}
	if stored != 1 {
		t.Error(mismatchErrorString("Stored reports", stored, 1))
	}

	reps, err := adp.AbuseReportsForMessage(msg.Uid())
	if err != nil {
		t.Fatal(err)
	}
	if len(reps) != 1 {
		t.Error(mismatchErrorString("Reports for message", len(reps), 1))
	}
}

// RunMessageDeactivate runs the shared MessageDeactivate tests used by adapters: only the
// first report takes the message down.
func RunMessageDeactivate(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	msg := td.Msgs[1].Uid()
	ok, err := adp.MessageDeactivate(msg, td.Reports[0].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Message not deactivated")
	}

	ok, err = adp.MessageDeactivate(msg, td.Reports[2].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Message deactivated twice")
	}

	got, err := adp.MessageGet(msg)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("Message not found")
	}
	if got.IsPublished() || got.AbuseReport != td.Reports[0].Id {
		t.Error(mismatchErrorString("AbuseReport", got.AbuseReport, td.Reports[0].Id))
	}

	ok, err = adp.MessageDeactivate(td.UGen.Get(), td.Reports[0].Uid())
	if err != nil || ok {
		t.Error(mismatchErrorString("Missing message deactivated", ok, false), err)
	}
}
