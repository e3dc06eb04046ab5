package store

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"

	adapter "github.com/echowaves/chat/server/db"
	"github.com/echowaves/chat/server/media/mock_media"
	"github.com/echowaves/chat/server/store/types"
)

// fakeAdapter records writes. Methods not overridden panic through the nil embedded interface.
type fakeAdapter struct {
	adapter.Adapter

	users    map[types.Uid]*types.User
	convs    []*types.Conversation
	subs     []*types.Subscription
	subsErr  error
	invites  []*types.Invite
	consumed []string
	restored []string
	messages []*types.Message
	tags     map[string][]string
	updates  map[types.Uid]map[string]interface{}
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		users:   make(map[types.Uid]*types.User),
		tags:    make(map[string][]string),
		updates: make(map[types.Uid]map[string]interface{}),
	}
}

func (a *fakeAdapter) GetName() string { return "fake" }
func (a *fakeAdapter) IsOpen() bool    { return false }

func (a *fakeAdapter) UserCreate(user *types.User) error {
	a.users[user.Uid()] = user
	return nil
}

func (a *fakeAdapter) UserGet(uid types.Uid) (*types.User, error) {
	if u, ok := a.users[uid]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (a *fakeAdapter) UserGetByLogin(login string) (*types.User, error) {
	for _, u := range a.users {
		if u.Login == login {
			return u, nil
		}
	}
	return nil, nil
}

func (a *fakeAdapter) UserUpdate(uid types.Uid, update map[string]interface{}) error {
	a.updates[uid] = update
	if u, ok := a.users[uid]; ok {
		if when, ok := update["ActivatedAt"].(time.Time); ok {
			u.ActivatedAt = &when
		}
		if pc, ok := update["PersonalConversation"].(string); ok {
			u.PersonalConversation = pc
		}
	}
	return nil
}

func (a *fakeAdapter) ConvCreate(conv *types.Conversation) error {
	a.convs = append(a.convs, conv)
	return nil
}

func (a *fakeAdapter) ConvTagsAdd(id, user types.Uid, tags []string) error {
	a.tags[id.String()] = append(a.tags[id.String()], tags...)
	return nil
}

func (a *fakeAdapter) ConvTagCounts(id types.Uid) ([]types.TagCount, error) {
	var counts []types.TagCount
	for _, tag := range a.tags[id.String()] {
		counts = append(counts, types.TagCount{Tag: tag, Count: 1})
	}
	return counts, nil
}

func (a *fakeAdapter) SubsCreate(sub *types.Subscription) error {
	if a.subsErr != nil {
		return a.subsErr
	}
	a.subs = append(a.subs, sub)
	return nil
}

func (a *fakeAdapter) InviteCreate(inv *types.Invite) error {
	a.invites = append(a.invites, inv)
	return nil
}

func (a *fakeAdapter) InviteConsume(id types.Uid, token, replacement string, when time.Time) (bool, error) {
	for _, inv := range a.invites {
		if inv.Uid() == id && inv.Token == token && inv.ConsumedAt == nil {
			a.consumed = append(a.consumed, token)
			return true, nil
		}
	}
	return false, nil
}

func (a *fakeAdapter) InviteRestore(id types.Uid, spent, token string, when time.Time) (bool, error) {
	for _, inv := range a.invites {
		if inv.Uid() == id && inv.Token == spent && inv.ConsumedAt != nil {
			a.restored = append(a.restored, token)
			return true, nil
		}
	}
	return false, nil
}

func (a *fakeAdapter) MessageSave(msg *types.Message) error {
	a.messages = append(a.messages, msg)
	return nil
}

func TestMain(m *testing.M) {
	if err := uGen.Init(1, []byte("la6YsO+bNX/+XIkOqc5Svw==")[:16]); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func useFakeAdapter(t *testing.T) *fakeAdapter {
	t.Helper()
	fa := newFakeAdapter()
	saved := adp
	adp = fa
	t.Cleanup(func() { adp = saved })
	return fa
}

func TestUsersCreateNormalizes(t *testing.T) {
	fa := useFakeAdapter(t)

	user, err := Users.Create(&types.User{Login: "  Alice.Smith ", Email: "Alice@Example.COM"})
	if err != nil {
		t.Fatal(err)
	}
	if user.Uid().IsZero() {
		t.Error("uid not assigned")
	}
	if user.Login != "alice.smith" || user.Email != "alice@example.com" {
		t.Errorf("not normalized: '%s' '%s'", user.Login, user.Email)
	}
	if user.CreatedAt.IsZero() || !user.UpdatedAt.Equal(user.CreatedAt) {
		t.Error("times not initialized")
	}

	found, err := Users.GetByLogin("ALICE.SMITH")
	if err != nil || found == nil || found.Id != user.Id {
		t.Errorf("lookup by login failed: %v %v", found, err)
	}
	if len(fa.users) != 1 {
		t.Errorf("expected one stored user, got %d", len(fa.users))
	}
}

func TestUsersActivate(t *testing.T) {
	fa := useFakeAdapter(t)

	user, _ := Users.Create(&types.User{Login: "bob", Email: "bob@example.com"})

	active, err := Users.Activate(user.Uid())
	if err != nil {
		t.Fatal(err)
	}
	if !active.IsActive() {
		t.Error("user not activated")
	}
	if len(fa.convs) != 1 {
		t.Fatalf("expected one personal conversation, got %d", len(fa.convs))
	}
	conv := fa.convs[0]
	if !conv.Personal || conv.Private || conv.Owner != user.Id {
		t.Errorf("unexpected personal conversation: %+v", conv)
	}
	if active.PersonalConversation != conv.Id {
		t.Errorf("personal conversation id: got '%s', want '%s'", active.PersonalConversation, conv.Id)
	}
	if len(fa.subs) != 1 || fa.subs[0].User != user.Id || fa.subs[0].Conversation != conv.Id {
		t.Errorf("owner not subscribed: %+v", fa.subs)
	}

	// Second call is a no-op.
	again, err := Users.Activate(user.Uid())
	if err != nil {
		t.Fatal(err)
	}
	if len(fa.convs) != 1 {
		t.Error("personal conversation created twice")
	}
	if again.PersonalConversation != conv.Id {
		t.Error("personal conversation changed")
	}
}

func TestUsersActivateTolerates(t *testing.T) {
	fa := useFakeAdapter(t)
	fa.subsErr = types.ErrDuplicate

	user, _ := Users.Create(&types.User{Login: "carol"})
	if _, err := Users.Activate(user.Uid()); err != nil {
		t.Errorf("duplicate subscription must be tolerated: %v", err)
	}

	if _, err := Users.Activate(Store.GetUid()); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound for missing user, got %v", err)
	}
}

func TestUsersUpdate(t *testing.T) {
	fa := useFakeAdapter(t)
	uid := Store.GetUid()

	if err := Users.Update(uid, map[string]interface{}{"Email": "Dave@Example.com"}); err != nil {
		t.Fatal(err)
	}
	upd := fa.updates[uid]
	if upd["Email"] != "dave@example.com" {
		t.Errorf("email not normalized: %v", upd["Email"])
	}
	if _, ok := upd["UpdatedAt"]; !ok {
		t.Error("UpdatedAt not set")
	}
}

func TestSubsCreate(t *testing.T) {
	fa := useFakeAdapter(t)

	sub := &types.Subscription{User: "usr", Conversation: "conv"}
	if err := Subs.Create(sub); err != nil {
		t.Fatal(err)
	}
	if sub.Id != "conv:usr" {
		t.Errorf("subscription id: got '%s'", sub.Id)
	}
	if !sub.ActivatedAt.Equal(sub.CreatedAt) || !sub.LastReadAt.Equal(sub.CreatedAt) {
		t.Error("new subscription must be active and read")
	}
	if len(fa.subs) != 1 {
		t.Error("subscription not stored")
	}

	fa.subsErr = types.ErrDuplicate
	if err := Subs.Create(&types.Subscription{User: "usr", Conversation: "conv"}); err != types.ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestInvites(t *testing.T) {
	fa := useFakeAdapter(t)

	inv := &types.Invite{User: "usr", Conversation: "conv", RequestedBy: "own"}
	if err := Invites.Create(inv); err != nil {
		t.Fatal(err)
	}
	if inv.Token == "" || inv.Uid().IsZero() {
		t.Fatalf("invite not initialized: %+v", inv)
	}
	token := inv.Token

	if ok, err := Invites.Consume(inv, "wrong"); ok || err != nil {
		t.Errorf("wrong token: got %v, %v", ok, err)
	}
	if ok, err := Invites.Consume(inv, ""); ok || err != nil {
		t.Errorf("empty token: got %v, %v", ok, err)
	}
	if ok, err := Invites.Consume(nil, token); ok || err != nil {
		t.Errorf("nil invite: got %v, %v", ok, err)
	}

	ok, err := Invites.Consume(inv, token)
	if !ok || err != nil {
		t.Fatalf("valid token rejected: %v, %v", ok, err)
	}
	if inv.Token == token {
		t.Error("token not replaced")
	}
	if !inv.IsConsumed() {
		t.Error("invite not marked consumed")
	}
	if ok, _ := Invites.Consume(inv, inv.Token); ok {
		t.Error("consumed invite accepted twice")
	}
	if diff := cmp.Diff([]string{token}, fa.consumed); diff != "" {
		t.Errorf("consumed tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestInvitesRestore(t *testing.T) {
	fa := useFakeAdapter(t)

	inv := &types.Invite{User: "usr", Conversation: "conv", RequestedBy: "own"}
	if err := Invites.Create(inv); err != nil {
		t.Fatal(err)
	}
	token := inv.Token

	if ok, err := Invites.Restore(inv, token); ok || err != nil {
		t.Errorf("unconsumed invite restored: %v, %v", ok, err)
	}

	if ok, err := Invites.Consume(inv, token); !ok || err != nil {
		t.Fatalf("valid token rejected: %v, %v", ok, err)
	}
	if ok, err := Invites.Restore(inv, token); !ok || err != nil {
		t.Fatalf("restore failed: %v, %v", ok, err)
	}
	if inv.Token != token || inv.IsConsumed() {
		t.Errorf("invite not restored: %+v", inv)
	}
	if diff := cmp.Diff([]string{token}, fa.restored); diff != "" {
		t.Errorf("restored tokens mismatch (-want +got):\n%s", diff)
	}

	// The restored token works again.
	if ok, _ := Invites.Consume(inv, token); !ok {
		t.Error("restored token rejected")
	}
}

func TestNewInviteToken(t *testing.T) {
	a, b := NewInviteToken(), NewInviteToken()
	if len(a) != 24 {
		t.Errorf("token length: got %d, want 24", len(a))
	}
	if a == b {
		t.Error("tokens are not random")
	}
}

func TestTags(t *testing.T) {
	useFakeAdapter(t)
	conv := Store.GetUid()
	user := Store.GetUid()

	if err := Conversations.AddTags(conv, user, " news ", "", "sport", "news"); err != nil {
		t.Fatal(err)
	}
	// Nothing to add.
	if err := Conversations.AddTags(conv, user, "  "); err != nil {
		t.Fatal(err)
	}
	tags, err := Conversations.Tags(conv)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"news", "sport"}, tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestMessagesSave(t *testing.T) {
	fa := useFakeAdapter(t)

	msg := &types.Message{User: "usr", Conversation: "conv", Body: "hi", AbuseReport: "rep"}
	if err := Messages.Save(msg); err != nil {
		t.Fatal(err)
	}
	if !msg.IsPublished() {
		t.Error("new message must be published")
	}
	if len(fa.messages) != 1 || msg.Uid().IsZero() {
		t.Error("message not saved")
	}
}

func TestMediaHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mh := mock_media.NewMockHandler(ctrl)
	mh.EXPECT().Init(`{"upload_dir":"/tmp"}`).Return(nil)

	RegisterMediaHandler("mock", mh)
	defer delete(fileHandlers, "mock")

	if err := Store.UseMediaHandler("missing", ""); err == nil {
		t.Error("unknown handler accepted")
	}
	if err := Store.UseMediaHandler("mock", `{"upload_dir":"/tmp"}`); err != nil {
		t.Fatal(err)
	}
	if Store.GetMediaHandler() != mh {
		t.Error("handler not selected")
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate registration must panic")
		}
	}()
	RegisterMediaHandler("mock", mh)
}

func TestOpenAdapterErrors(t *testing.T) {
	saved, savedAvail := adp, availableAdapters
	defer func() { adp, availableAdapters = saved, savedAvail }()

	adp = nil
	availableAdapters = map[string]adapter.Adapter{}

	if err := openAdapter(1, json.RawMessage(`{bad`)); err == nil {
		t.Error("malformed config accepted")
	}
	if err := openAdapter(1, json.RawMessage(`{"use_adapter":"mysql"}`)); err == nil {
		t.Error("unavailable adapter accepted")
	}
	if err := openAdapter(1, json.RawMessage(`{}`)); err == nil {
		t.Error("missing adapter name accepted")
	}

	RegisterAdapter(newFakeAdapter())
	if err := openAdapter(5000, json.RawMessage(`{}`)); err == nil {
		t.Error("invalid worker id accepted")
	}
}

func TestNormalizeLogin(t *testing.T) {
	cases := map[string]string{
		"Alice":            "alice",
		" BOB@Example.org": "bob@example.org",
		"":                 "",
	}
	for in, want := range cases {
		if got := NormalizeLogin(in); got != want {
			t.Errorf("NormalizeLogin(%q) = %q, want %q", in, got, want)
		}
	}
}
