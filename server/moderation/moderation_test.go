package moderation

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/echowaves/chat/server/media/mock_media"
	"github.com/echowaves/chat/server/store"
	"github.com/echowaves/chat/server/store/mock_store"
	"github.com/echowaves/chat/server/store/types"
)

var (
	owner  = types.Uid(11)
	userX  = types.Uid(21)
	userY  = types.Uid(22)
	userZ  = types.Uid(23)
	convId = types.Uid(31)
	msgId  = types.Uid(41)
)

// memStore keeps messages and reports of a single conversation in memory.
type memStore struct {
	msg     *types.Message
	conv    *types.Conversation
	reports []types.AbuseReport
	nextId  types.Uid
}

type env struct {
	mem   *memStore
	msgs  *mock_store.MockMessagesObjMapperInterface
	reps  *mock_store.MockAbuseReportsObjMapperInterface
	convs *mock_store.MockConversationsObjMapperInterface
	media *mock_media.MockHandler
}

func setup(t *testing.T, threshold int) *env {
	ctrl := gomock.NewController(t)

	mem := &memStore{
		msg:    &types.Message{User: userX.String(), Conversation: convId.String(), Body: "spam", Attachment: "a.png"},
		conv:   &types.Conversation{Owner: owner.String()},
		nextId: 1000,
	}
	mem.msg.SetUid(msgId)
	mem.conv.SetUid(convId)

	e := &env{
		mem:   mem,
		msgs:  mock_store.NewMockMessagesObjMapperInterface(ctrl),
		reps:  mock_store.NewMockAbuseReportsObjMapperInterface(ctrl),
		convs: mock_store.NewMockConversationsObjMapperInterface(ctrl),
		media: mock_media.NewMockHandler(ctrl),
	}
	ps := mock_store.NewMockPersistentStorageInterface(ctrl)
	ps.EXPECT().GetMediaHandler().Return(e.media).AnyTimes()

	store.Store = ps
	store.Messages = e.msgs
	store.AbuseReports = e.reps
	store.Conversations = e.convs

	e.msgs.EXPECT().Get(msgId).DoAndReturn(func(id types.Uid) (*types.Message, error) {
		copied := *mem.msg
		return &copied, nil
	}).AnyTimes()
	e.msgs.EXPECT().Deactivate(msgId, gomock.Any()).DoAndReturn(func(id, rep types.Uid) (bool, error) {
		if mem.msg.AbuseReport != "" {
			return false, nil
		}
		mem.msg.AbuseReport = rep.String()
		return true, nil
	}).AnyTimes()
	e.reps.EXPECT().Get(msgId, gomock.Any()).DoAndReturn(func(msg, user types.Uid) (*types.AbuseReport, error) {
		for i := range mem.reports {
			if mem.reports[i].User == user.String() {
				rep := mem.reports[i]
				return &rep, nil
			}
		}
		return nil, nil
	}).AnyTimes()
	e.reps.EXPECT().Create(gomock.Any()).DoAndReturn(func(rep *types.AbuseReport) error {
		mem.nextId++
		rep.SetUid(mem.nextId)
		mem.reports = append(mem.reports, *rep)
		return nil
	}).AnyTimes()
	e.reps.EXPECT().GetForMessage(msgId).DoAndReturn(func(msg types.Uid) ([]types.AbuseReport, error) {
		return append([]types.AbuseReport(nil), mem.reports...), nil
	}).AnyTimes()
	e.convs.EXPECT().Get(convId).Return(mem.conv, nil).AnyTimes()

	cfg, _ := json.Marshal(map[string]interface{}{"abuse_threshold": threshold})
	if err := Init(cfg); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		Shutdown()
		store.Store = nil
		store.Messages = nil
		store.AbuseReports = nil
		store.Conversations = nil
		ctrl.Finish()
	})
	return e
}

func (e *env) published() bool {
	return e.mem.msg.IsPublished()
}

// Threshold 2: the third distinct reporter takes the message down.
func TestReportAbuseThreshold(t *testing.T) {
	e := setup(t, 2)
	e.media.EXPECT().RestrictAccess(msgId).Return(nil).Times(1)

	if _, err := ReportAbuse(msgId, userX); err != nil {
		t.Fatal(err)
	}
	if !e.published() {
		t.Fatal("unpublished after 1 report")
	}
	if _, err := ReportAbuse(msgId, userY); err != nil {
		t.Fatal(err)
	}
	if !e.published() {
		t.Fatal("unpublished after 2 reports")
	}
	rep, err := ReportAbuse(msgId, userZ)
	if err != nil {
		t.Fatal(err)
	}
	if e.published() {
		t.Fatal("still published after 3 reports")
	}
	if e.mem.msg.AbuseReport != rep.Id {
		t.Errorf("defining report: got '%s', want '%s'", e.mem.msg.AbuseReport, rep.Id)
	}
}

func TestReportAbuseIdempotent(t *testing.T) {
	e := setup(t, 2)

	first, err := ReportAbuse(msgId, userX)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ReportAbuse(msgId, userX)
	if err != nil {
		t.Fatal(err)
	}
	if first.Id != second.Id {
		t.Errorf("repeated report created a new record: '%s' vs '%s'", first.Id, second.Id)
	}
	if len(e.mem.reports) != 1 {
		t.Errorf("expected 1 report, got %d", len(e.mem.reports))
	}
	// Repeats by one user never reach the threshold.
	for i := 0; i < 5; i++ {
		ReportAbuse(msgId, userX)
	}
	if !e.published() {
		t.Error("repeated reports by one user took the message down")
	}
}

func TestReportAbuseByOwner(t *testing.T) {
	e := setup(t, 3)
	e.media.EXPECT().RestrictAccess(msgId).Return(nil)

	if _, err := ReportAbuse(msgId, owner); err != nil {
		t.Fatal(err)
	}
	if e.published() {
		t.Error("owner's report must take the message down")
	}
}

func TestReportAbuseFirstReportWins(t *testing.T) {
	e := setup(t, 0)
	e.media.EXPECT().RestrictAccess(msgId).Return(nil).Times(1)

	first, err := ReportAbuse(msgId, userX)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ReportAbuse(msgId, userY); err != nil {
		t.Fatal(err)
	}
	if e.mem.msg.AbuseReport != first.Id {
		t.Errorf("defining report replaced: got '%s', want '%s'", e.mem.msg.AbuseReport, first.Id)
	}
}

func TestReportAbuseLockdownFailure(t *testing.T) {
	e := setup(t, 3)
	e.media.EXPECT().RestrictAccess(msgId).Return(errors.New("permission denied"))

	if _, err := ReportAbuse(msgId, owner); err != nil {
		t.Errorf("lockdown failure must not fail the report: %v", err)
	}
	if e.published() {
		t.Error("message not taken down")
	}
}

func TestReportAbuseLockdownPool(t *testing.T) {
	e := setup(t, 3)
	if err := Init(json.RawMessage(`{"abuse_threshold":3,"lockdown_workers":2}`)); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	e.media.EXPECT().RestrictAccess(msgId).DoAndReturn(func(types.Uid) error {
		close(done)
		return nil
	})

	if _, err := ReportAbuse(msgId, owner); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lockdown was not run")
	}
}

func TestReportAbuseLockdownAfterShutdown(t *testing.T) {
	e := setup(t, 3)
	if err := Init(json.RawMessage(`{"abuse_threshold":3,"lockdown_workers":1}`)); err != nil {
		t.Fatal(err)
	}
	Shutdown()

	restricted := false
	e.media.EXPECT().RestrictAccess(msgId).DoAndReturn(func(types.Uid) error {
		restricted = true
		return nil
	})

	if _, err := ReportAbuse(msgId, owner); err != nil {
		t.Fatal(err)
	}
	if !restricted {
		t.Error("lockdown must run on the caller once the pool is shut down")
	}
}

func TestReportAbuseLockdownPoolBusy(t *testing.T) {
	e := setup(t, 3)
	if err := Init(json.RawMessage(`{"abuse_threshold":3,"lockdown_workers":1}`)); err != nil {
		t.Fatal(err)
	}

	// Occupy the only worker and the queue.
	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})
	globals.pool.TrySchedule(func() {
		close(started)
		<-release
	})
	<-started
	globals.pool.TrySchedule(func() {})

	restricted := false
	e.media.EXPECT().RestrictAccess(msgId).DoAndReturn(func(types.Uid) error {
		restricted = true
		return nil
	})

	if _, err := ReportAbuse(msgId, owner); err != nil {
		t.Fatal(err)
	}
	if !restricted {
		t.Error("lockdown must run on the caller when the pool is busy")
	}
}

// Rows left by a concurrent duplicate report of the same user are counted once.
func TestReportAbuseCountsDistinctReporters(t *testing.T) {
	e := setup(t, 1)
	for i := 0; i < 2; i++ {
		rep := types.AbuseReport{User: userX.String(), Message: msgId.String()}
		rep.SetUid(types.Uid(500 + i))
		e.mem.reports = append(e.mem.reports, rep)
	}

	if _, err := ReportAbuse(msgId, userX); err != nil {
		t.Fatal(err)
	}
	if !e.published() {
		t.Fatal("one reporter must not exceed threshold 1")
	}

	e.media.EXPECT().RestrictAccess(msgId).Return(nil)
	if _, err := ReportAbuse(msgId, userY); err != nil {
		t.Fatal(err)
	}
	if e.published() {
		t.Error("second reporter must take the message down")
	}
}

func TestReportAbuseConcurrentDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	msgs := mock_store.NewMockMessagesObjMapperInterface(ctrl)
	reps := mock_store.NewMockAbuseReportsObjMapperInterface(ctrl)
	convs := mock_store.NewMockConversationsObjMapperInterface(ctrl)
	store.Messages, store.AbuseReports, store.Conversations = msgs, reps, convs
	defer func() { store.Messages, store.AbuseReports, store.Conversations = nil, nil, nil }()
	Init(nil)

	msg := &types.Message{Conversation: convId.String()}
	winner := &types.AbuseReport{User: userX.String(), Message: msgId.String()}
	winner.SetUid(types.Uid(77))

	gomock.InOrder(
		msgs.EXPECT().Get(msgId).Return(msg, nil),
		reps.EXPECT().Get(msgId, userX).Return(nil, nil),
		reps.EXPECT().Create(gomock.Any()).Return(types.ErrDuplicate),
		reps.EXPECT().Get(msgId, userX).Return(winner, nil),
		reps.EXPECT().GetForMessage(msgId).Return([]types.AbuseReport{*winner}, nil),
		convs.EXPECT().Get(convId).Return(&types.Conversation{Owner: owner.String()}, nil),
	)

	rep, err := ReportAbuse(msgId, userX)
	if err != nil {
		t.Fatal(err)
	}
	if rep != winner {
		t.Error("expected the concurrently created report")
	}
}

func TestReportAbuseErrors(t *testing.T) {
	e := setup(t, 3)

	if _, err := ReportAbuse(types.ZeroUid, userX); err != types.ErrMalformed {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
	e.msgs.EXPECT().Get(types.Uid(999)).Return(nil, nil)
	if _, err := ReportAbuse(types.Uid(999), userX); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInit(t *testing.T) {
	defer Shutdown()

	if err := Init(nil); err != nil || Threshold() != DefaultAbuseThreshold {
		t.Errorf("defaults: %v, %d", err, Threshold())
	}
	if err := Init(json.RawMessage(`{"abuse_threshold":7}`)); err != nil || Threshold() != 7 {
		t.Errorf("explicit threshold: %v, %d", err, Threshold())
	}
	if err := Init(json.RawMessage(`{"abuse_threshold":-1}`)); err == nil {
		t.Error("negative threshold accepted")
	}
	if err := Init(json.RawMessage(`{bad`)); err == nil {
		t.Error("malformed config accepted")
	}
}

func TestIsPublished(t *testing.T) {
	if !IsPublished(&types.Message{}) {
		t.Error("message without defining report must be published")
	}
	if IsPublished(&types.Message{AbuseReport: "rep"}) {
		t.Error("message with defining report must not be published")
	}
}
