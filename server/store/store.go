// Package store provides methods for registering and accessing database adapters.
package store

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	adapter "github.com/echowaves/chat/server/db"
	"github.com/echowaves/chat/server/media"
	"github.com/echowaves/chat/server/store/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var adp adapter.Adapter
var availableAdapters = make(map[string]adapter.Adapter)
var mediaHandler media.Handler

// Unique ID generator
var uGen types.UidGenerator

// Length of invite tokens in bytes before encoding.
const inviteTokenLength = 18

type configType struct {
	// 16-byte key for XTEA. Used to initialize types.UidGenerator.
	UidKey []byte `json:"uid_key"`
	// Maximum number of results to return from adapter.
	MaxResults int `json:"max_results"`
	// DB adapter name to use. Should be one of those specified in `Adapters`.
	UseAdapter string `json:"use_adapter"`
	// Configurations for individual adapters.
	Adapters map[string]json.RawMessage `json:"adapters"`
}

func openAdapter(workerId int, jsonconf json.RawMessage) error {
	var config configType
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		return errors.New("store: failed to parse config: " + err.Error() + "(" + string(jsonconf) + ")")
	}

	if adp == nil {
		if len(config.UseAdapter) > 0 {
			// Adapter name specified explicitly.
			if ad, ok := availableAdapters[config.UseAdapter]; ok {
				adp = ad
			} else {
				return errors.New("store: " + config.UseAdapter + " adapter is not available in this binary")
			}
		} else if len(availableAdapters) == 1 {
			// Default to the only entry in availableAdapters.
			for _, v := range availableAdapters {
				adp = v
			}
		} else {
			return errors.New("store: db adapter is not specified. Please set `store_config.use_adapter` in `convo.conf`")
		}
	}

	if adp.IsOpen() {
		return errors.New("store: connection is already opened")
	}

	// Initialize snowflake.
	if workerId < 0 || workerId > 1023 {
		return errors.New("store: invalid worker ID")
	}

	if err := uGen.Init(uint(workerId), config.UidKey); err != nil {
		return errors.New("store: failed to init snowflake: " + err.Error())
	}

	if err := adp.SetMaxResults(config.MaxResults); err != nil {
		return err
	}

	var adapterConfig json.RawMessage
	if config.Adapters != nil {
		adapterConfig = config.Adapters[adp.GetName()]
	}

	return adp.Open(adapterConfig)
}

// PersistentStorageInterface defines methods used for interation with persistent storage.
type PersistentStorageInterface interface {
	Open(workerId int, jsonconf json.RawMessage) error
	Close() error
	IsOpen() bool
	GetAdapter() adapter.Adapter
	GetAdapterName() string
	GetAdapterVersion() int
	GetDbVersion() int
	InitDb(jsonconf json.RawMessage, reset bool) error
	UpgradeDb(jsonconf json.RawMessage) error
	GetUid() types.Uid
	GetUidString() string
	DbStats() func() interface{}
	GetMediaHandler() media.Handler
	UseMediaHandler(name, config string) error
}

// Store is the main object for interacting with persistent storage.
var Store PersistentStorageInterface

type storeObj struct{}

// Open initializes the persistence system. Adapter holds a connection pool for a database instance.
//
//	name - name of the adapter rquested in the config file
//	jsonconf - configuration string
func (storeObj) Open(workerId int, jsonconf json.RawMessage) error {
	if err := openAdapter(workerId, jsonconf); err != nil {
		return err
	}

	return adp.CheckDbVersion()
}

// Close terminates connection to persistent storage.
func (storeObj) Close() error {
	if adp.IsOpen() {
		return adp.Close()
	}

	return nil
}

// IsOpen checks if persistent storage connection has been initialized.
func (storeObj) IsOpen() bool {
	if adp != nil {
		return adp.IsOpen()
	}

	return false
}

// GetAdapter returns the currently configured adapter.
func (storeObj) GetAdapter() adapter.Adapter {
	return adp
}

// GetAdapterName returns the name of the current adater.
func (storeObj) GetAdapterName() string {
	if adp != nil {
		return adp.GetName()
	}

	return ""
}

// GetAdapterVersion returns version of the current adater.
func (storeObj) GetAdapterVersion() int {
	if adp != nil {
		return adp.Version()
	}

	return -1
}

// GetDbVersion returns version of the underlying database.
func (storeObj) GetDbVersion() int {
	if adp != nil {
		vers, _ := adp.GetDbVersion()
		return vers
	}

	return -1
}

// InitDb creates and configures a new database instance. If 'reset' is true it will first
// attempt to drop an existing database. If jsconf is nil it will assume that the adapter is
// already open. If it's non-nil and the adapter is not open, it will use the config string
// to open the adapter first.
func (s storeObj) InitDb(jsonconf json.RawMessage, reset bool) error {
	if !s.IsOpen() {
		if err := openAdapter(1, jsonconf); err != nil {
			return err
		}
	}
	return adp.CreateDb(reset)
}

// UpgradeDb performes an upgrade of the database to the current adapter version.
// If jsconf is nil it will assume that the adapter is already open. If it's non-nil and the
// adapter is not open, it will use the config string to open the adapter first.
func (s storeObj) UpgradeDb(jsonconf json.RawMessage) error {
	if !s.IsOpen() {
		if err := openAdapter(1, jsonconf); err != nil {
			return err
		}
	}
	return adp.UpgradeDb()
}

// RegisterAdapter makes a persistence adapter available.
// If Register is called twice or if the adapter is nil, it panics.
func RegisterAdapter(a adapter.Adapter) {
	if a == nil {
		panic("store: Register adapter is nil")
	}

	adapterName := a.GetName()
	if _, ok := availableAdapters[adapterName]; ok {
		panic("store: adapter '" + adapterName + "' is already registered")
	}
	availableAdapters[adapterName] = a
}

// GetUid generates a unique ID suitable for use as a primary key.
func (storeObj) GetUid() types.Uid {
	return uGen.Get()
}

// GetUidString generate unique ID as string
func (storeObj) GetUidString() string {
	return uGen.GetStr()
}

// SetTestUidGenerator replaces the Uid generator. Used by integration tests.
func SetTestUidGenerator(ug types.UidGenerator) {
	uGen = ug
}

// DecodeUid takes an XTEA encrypted Uid and decrypts it into an int64.
// This is needed for sql compatibility. Tte original int64 values
// are generated by snowflake which ensures that the top bit is unset.
func DecodeUid(uid types.Uid) int64 {
	if uid.IsZero() {
		return 0
	}
	return uGen.DecodeUid(uid)
}

// EncodeUid applies XTEA encryption to an int64 value. It's the inverse of DecodeUid.
func EncodeUid(id int64) types.Uid {
	if id == 0 {
		return types.ZeroUid
	}
	return uGen.EncodeInt64(id)
}

// DbStats returns a callback returning db connection stats object.
func (s storeObj) DbStats() func() interface{} {
	if !s.IsOpen() {
		return nil
	}
	return adp.Stats
}

// NewInviteToken generates a random URL-safe token.
func NewInviteToken() string {
	buf := make([]byte, inviteTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// NormalizeLogin converts login or email to the canonical lower-case form.
func NormalizeLogin(login string) string {
	// Caser is stateful, not safe to share between goroutines.
	return cases.Lower(language.Und).String(strings.TrimSpace(login))
}

// UsersObjMapperInterface is an interface which defines methods for persistence mapping of User objects.
type UsersObjMapperInterface interface {
	Create(user *types.User) (*types.User, error)
	Get(uid types.Uid) (*types.User, error)
	GetAll(uid ...types.Uid) ([]types.User, error)
	GetByLogin(login string) (*types.User, error)
	Activate(uid types.Uid) (*types.User, error)
	Update(uid types.Uid, update map[string]interface{}) error
}

// UsersObjMapper is a users struct to hold methods for persistence mapping for the User object.
type UsersObjMapper struct{}

// Users is the ancor for storing/retrieving User objects
var Users UsersObjMapperInterface

// Create inserts User object into a database, updates creation time and assigns UID.
// Login and email are stored lower-cased.
func (UsersObjMapper) Create(user *types.User) (*types.User, error) {
	user.SetUid(Store.GetUid())
	user.InitTimes()
	user.Login = NormalizeLogin(user.Login)
	user.Email = NormalizeLogin(user.Email)

	if err := adp.UserCreate(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Get returns a user object for the given user id
func (UsersObjMapper) Get(uid types.Uid) (*types.User, error) {
	return adp.UserGet(uid)
}

// GetAll returns a slice of user objects for the given user ids
func (UsersObjMapper) GetAll(uid ...types.Uid) ([]types.User, error) {
	return adp.UserGetAll(uid...)
}

// GetByLogin finds a user by login. Lookup is case-insensitive.
func (UsersObjMapper) GetByLogin(login string) (*types.User, error) {
	return adp.UserGetByLogin(NormalizeLogin(login))
}

// Activate marks the user as active and creates the user's personal conversation.
// Calling Activate on an already active user returns the user unchanged.
func (UsersObjMapper) Activate(uid types.Uid) (*types.User, error) {
	user, err := adp.UserGet(uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, types.ErrNotFound
	}
	if user.IsActive() && user.PersonalConversation != "" {
		return user, nil
	}

	conv := &types.Conversation{
		Name:     user.Login,
		Owner:    user.Id,
		Personal: true,
	}
	if err := Conversations.Create(conv); err != nil {
		return nil, err
	}

	sub := &types.Subscription{User: user.Id, Conversation: conv.Id}
	if err := Subs.Create(sub); err != nil && err != types.ErrDuplicate {
		return nil, err
	}

	now := types.TimeNow()
	if err := adp.UserUpdate(uid, map[string]interface{}{
		"ActivatedAt":          now,
		"PersonalConversation": conv.Id,
		"UpdatedAt":            now,
	}); err != nil {
		return nil, err
	}

	user.ActivatedAt = &now
	user.PersonalConversation = conv.Id
	user.UpdatedAt = now
	return user, nil
}

// Update is a general-purpose update of user data.
func (UsersObjMapper) Update(uid types.Uid, update map[string]interface{}) error {
	if _, ok := update["UpdatedAt"]; !ok {
		update["UpdatedAt"] = types.TimeNow()
	}
	for _, key := range []string{"Login", "Email"} {
		if val, ok := update[key].(string); ok {
			update[key] = NormalizeLogin(val)
		}
	}
	return adp.UserUpdate(uid, update)
}

// ConversationsObjMapperInterface is an interface which defines methods for persistence mapping of Conversation objects.
type ConversationsObjMapperInterface interface {
	Create(conv *types.Conversation) error
	Get(id types.Uid) (*types.Conversation, error)
	GetAll(ids ...types.Uid) ([]types.Conversation, error)
	Update(id types.Uid, update map[string]interface{}) error
	AddVisit(id, user types.Uid) error
	RecentForUser(user types.Uid, limit int) ([]types.Conversation, error)
	Tags(id types.Uid) ([]string, error)
	TagCounts(id types.Uid) ([]types.TagCount, error)
	AddTags(id, user types.Uid, tags ...string) error
	RemoveTags(id, user types.Uid, tags ...string) error
}

// ConversationsObjMapper is a struct to hold methods for persistence mapping for the Conversation object.
type ConversationsObjMapper struct{}

// Conversations is an instance of ConversationsObjMapper to map methods to.
var Conversations ConversationsObjMapperInterface

// Create assigns an ID and stores the conversation.
func (ConversationsObjMapper) Create(conv *types.Conversation) error {
	conv.SetUid(Store.GetUid())
	conv.InitTimes()
	return adp.ConvCreate(conv)
}

// Get fetches a conversation by ID.
func (ConversationsObjMapper) Get(id types.Uid) (*types.Conversation, error) {
	return adp.ConvGet(id)
}

// GetAll fetches conversations by ID.
func (ConversationsObjMapper) GetAll(ids ...types.Uid) ([]types.Conversation, error) {
	return adp.ConvGetAll(ids...)
}

// Update updates conversation record.
func (ConversationsObjMapper) Update(id types.Uid, update map[string]interface{}) error {
	update["UpdatedAt"] = types.TimeNow()
	return adp.ConvUpdate(id, update)
}

// AddVisit records that the user has just visited the conversation.
func (ConversationsObjMapper) AddVisit(id, user types.Uid) error {
	return adp.ConvUpsertVisit(id, user, types.TimeNow())
}

// RecentForUser returns conversations recently visited by the user.
func (ConversationsObjMapper) RecentForUser(user types.Uid, limit int) ([]types.Conversation, error) {
	return adp.ConvRecentForUser(user, limit)
}

// Tags returns the distinct tags applied to the conversation.
func (ConversationsObjMapper) Tags(id types.Uid) ([]string, error) {
	counts, err := adp.ConvTagCounts(id)
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, tc := range counts {
		tags = append(tags, tc.Tag)
	}
	return tags, nil
}

// TagCounts returns tags applied to the conversation with their counts.
func (ConversationsObjMapper) TagCounts(id types.Uid) ([]types.TagCount, error) {
	return adp.ConvTagCounts(id)
}

// AddTags tags the conversation on behalf of the user.
func (ConversationsObjMapper) AddTags(id, user types.Uid, tags ...string) error {
	if tags = normalizeTags(tags); len(tags) == 0 {
		return nil
	}
	return adp.ConvTagsAdd(id, user, tags)
}

// RemoveTags removes user's tags from the conversation.
func (ConversationsObjMapper) RemoveTags(id, user types.Uid, tags ...string) error {
	if tags = normalizeTags(tags); len(tags) == 0 {
		return nil
	}
	return adp.ConvTagsRemove(id, user, tags)
}

// normalizeTags trims tags and drops empty and repeated values.
func normalizeTags(tags []string) []string {
	var out types.StringSlice
	for _, tag := range tags {
		tag = types.NormalizeTag(tag)
		if tag != "" && !out.Contains(tag) {
			out = append(out, tag)
		}
	}
	return out
}

// SubsObjMapperInterface is an interface which defines methods for persistence mapping of Subscription objects.
type SubsObjMapperInterface interface {
	Create(sub *types.Subscription) error
	Get(conv, user types.Uid) (*types.Subscription, error)
	GetForUser(user types.Uid) ([]types.Subscription, error)
	GetForConv(conv types.Uid) ([]types.Subscription, error)
	Update(conv, user types.Uid, update map[string]interface{}) error
	Delete(conv, user types.Uid) error
}

// SubsObjMapper is a struct to hold methods for persistence mapping for the Subscription object.
type SubsObjMapper struct{}

// Subs is an instance of SubsObjMapper to map methods to.
var Subs SubsObjMapperInterface

// Create creates a subscription. A new subscription is active and has nothing unread.
// Returns types.ErrDuplicate if the subscription already exists.
func (SubsObjMapper) Create(sub *types.Subscription) error {
	sub.Id = types.SubscriptionId(sub.Conversation, sub.User)
	sub.InitTimes()
	if sub.ActivatedAt.IsZero() {
		sub.ActivatedAt = sub.CreatedAt
	}
	if sub.LastReadAt.IsZero() {
		sub.LastReadAt = sub.CreatedAt
	}
	return adp.SubsCreate(sub)
}

// Get given subscription
func (SubsObjMapper) Get(conv, user types.Uid) (*types.Subscription, error) {
	return adp.SubsGet(conv, user)
}

// GetForUser returns user's subscriptions, most recently activated first.
func (SubsObjMapper) GetForUser(user types.Uid) ([]types.Subscription, error) {
	return adp.SubsForUser(user)
}

// GetForConv returns all subscriptions to the conversation.
func (SubsObjMapper) GetForConv(conv types.Uid) ([]types.Subscription, error) {
	return adp.SubsForConv(conv)
}

// Update values of the subscription.
func (SubsObjMapper) Update(conv, user types.Uid, update map[string]interface{}) error {
	update["UpdatedAt"] = types.TimeNow()
	return adp.SubsUpdate(conv, user, update)
}

// Delete deletes a subscription
func (SubsObjMapper) Delete(conv, user types.Uid) error {
	return adp.SubsDelete(conv, user)
}

// InvitesObjMapperInterface is an interface which defines methods for persistence mapping of Invite objects.
type InvitesObjMapperInterface interface {
	Create(inv *types.Invite) error
	FindActive(user, conv types.Uid) (*types.Invite, error)
	Consume(inv *types.Invite, token string) (bool, error)
	Restore(inv *types.Invite, token string) (bool, error)
	Delete(user, conv types.Uid) error
}

// InvitesObjMapper is a struct to hold methods for persistence mapping for the Invite object.
type InvitesObjMapper struct{}

// Invites is an instance of InvitesObjMapper to map methods to.
var Invites InvitesObjMapperInterface

// Create stores a new invite generating a token if one is not provided.
func (InvitesObjMapper) Create(inv *types.Invite) error {
	inv.SetUid(Store.GetUid())
	inv.InitTimes()
	inv.ConsumedAt = nil
	if inv.Token == "" {
		if inv.Token = NewInviteToken(); inv.Token == "" {
			return errors.New("store: failed to generate invite token")
		}
	}
	return adp.InviteCreate(inv)
}

// FindActive returns the most recent invite of the user to the conversation.
func (InvitesObjMapper) FindActive(user, conv types.Uid) (*types.Invite, error) {
	return adp.InviteFind(user, conv)
}

// Consume spends the invite if the token matches. The check and the reset is a single
// conditional write so a token can authorize at most one request.
func (InvitesObjMapper) Consume(inv *types.Invite, token string) (bool, error) {
	if inv == nil || token == "" || inv.IsConsumed() {
		return false, nil
	}
	replacement := NewInviteToken()
	if replacement == "" {
		return false, errors.New("store: failed to generate invite token")
	}
	now := types.TimeNow()
	ok, err := adp.InviteConsume(inv.Uid(), token, replacement, now)
	if err != nil || !ok {
		return false, err
	}
	inv.Token = replacement
	inv.ConsumedAt = &now
	inv.UpdatedAt = now
	return true, nil
}

// Restore undoes Consume: the invite gets its original token back unless it was changed
// since it was consumed.
func (InvitesObjMapper) Restore(inv *types.Invite, token string) (bool, error) {
	if inv == nil || token == "" || !inv.IsConsumed() {
		return false, nil
	}
	now := types.TimeNow()
	ok, err := adp.InviteRestore(inv.Uid(), inv.Token, token, now)
	if err != nil || !ok {
		return false, err
	}
	inv.Token = token
	inv.ConsumedAt = nil
	inv.UpdatedAt = now
	return true, nil
}

// Delete destroys all invites of the user to the conversation.
func (InvitesObjMapper) Delete(user, conv types.Uid) error {
	return adp.InviteDelete(user, conv)
}

// AbuseReportsObjMapperInterface is an interface which defines methods for persistence mapping of AbuseReport objects.
type AbuseReportsObjMapperInterface interface {
	Create(rep *types.AbuseReport) error
	Get(msg, user types.Uid) (*types.AbuseReport, error)
	GetForMessage(msg types.Uid) ([]types.AbuseReport, error)
}

// AbuseReportsObjMapper is a struct to hold methods for persistence mapping for the AbuseReport object.
type AbuseReportsObjMapper struct{}

// AbuseReports is an instance of AbuseReportsObjMapper to map methods to.
var AbuseReports AbuseReportsObjMapperInterface

// Create stores the report. Returns types.ErrDuplicate if the user already reported the message.
func (AbuseReportsObjMapper) Create(rep *types.AbuseReport) error {
	rep.SetUid(Store.GetUid())
	rep.InitTimes()
	return adp.AbuseReportCreate(rep)
}

// Get returns the report of the user against the message.
func (AbuseReportsObjMapper) Get(msg, user types.Uid) (*types.AbuseReport, error) {
	return adp.AbuseReportGet(msg, user)
}

// GetForMessage returns all reports against the message.
func (AbuseReportsObjMapper) GetForMessage(msg types.Uid) ([]types.AbuseReport, error) {
	return adp.AbuseReportsForMessage(msg)
}

// MessagesObjMapperInterface is an interface which defines methods for persistence mapping of Message objects.
type MessagesObjMapperInterface interface {
	Save(msg *types.Message) error
	Get(id types.Uid) (*types.Message, error)
	Deactivate(id, report types.Uid) (bool, error)
}

// MessagesObjMapper is a struct to hold methods for persistence mapping for the Message object.
type MessagesObjMapper struct{}

// Messages is an instance of MessagesObjMapper to map methods to.
var Messages MessagesObjMapperInterface

// Save message. New messages are always published.
func (MessagesObjMapper) Save(msg *types.Message) error {
	msg.SetUid(Store.GetUid())
	msg.InitTimes()
	msg.AbuseReport = ""
	return adp.MessageSave(msg)
}

// Get fetches a message by ID.
func (MessagesObjMapper) Get(id types.Uid) (*types.Message, error) {
	return adp.MessageGet(id)
}

// Deactivate attaches the defining report to the message. The first report wins:
// returns false if the message was already deactivated.
func (MessagesObjMapper) Deactivate(id, report types.Uid) (bool, error) {
	return adp.MessageDeactivate(id, report)
}

// Registered media/file handlers.
var fileHandlers map[string]media.Handler

// RegisterMediaHandler saves reference to a media handler.
func RegisterMediaHandler(name string, mh media.Handler) {
	if fileHandlers == nil {
		fileHandlers = make(map[string]media.Handler)
	}

	if mh == nil {
		panic("RegisterMediaHandler: handler is nil")
	}
	if _, dup := fileHandlers[name]; dup {
		panic("RegisterMediaHandler: called twice for handler " + name)
	}
	fileHandlers[name] = mh
}

// GetMediaHandler returns default media handler.
func (storeObj) GetMediaHandler() media.Handler {
	return mediaHandler
}

// UseMediaHandler sets specified media handler as default.
func (storeObj) UseMediaHandler(name, config string) error {
	mh := fileHandlers[name]
	if mh == nil {
		return errors.New("UseMediaHandler: unknown handler '" + name + "'")
	}
	if err := mh.Init(config); err != nil {
		return err
	}
	mediaHandler = mh
	return nil
}

func init() {
	Store = storeObj{}
	Users = UsersObjMapper{}
	Conversations = ConversationsObjMapper{}
	Subs = SubsObjMapper{}
	Invites = InvitesObjMapper{}
	AbuseReports = AbuseReportsObjMapper{}
	Messages = MessagesObjMapper{}
}
