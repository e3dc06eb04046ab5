// Package adapter contains the interfaces to be implemented by the database adapter
package adapter

import (
	"encoding/json"
	"time"

	t "github.com/echowaves/chat/server/store/types"
)

// Adapter is the interface that must be implemented by a database
// adapter. The current schema supports a single connection by database type.
type Adapter interface {
	// General

	// Open and configure the adapter
	Open(config json.RawMessage) error
	// Close the adapter
	Close() error
	// IsOpen checks if the adapter is ready for use
	IsOpen() bool
	// GetDbVersion returns current database version.
	GetDbVersion() (int, error)
	// CheckDbVersion checks if the actual database version matches adapter version.
	CheckDbVersion() error
	// GetName returns the name of the adapter
	GetName() string
	// SetMaxResults configures how many results can be returned in a single DB call.
	SetMaxResults(val int) error
	// CreateDb creates the database optionally dropping an existing database first.
	CreateDb(reset bool) error
	// UpgradeDb upgrades database to the current adapter version.
	UpgradeDb() error
	// Version returns adapter version
	Version() int
	// DB connection stats object.
	Stats() interface{}

	// User management

	// UserCreate creates user record. Returns t.ErrDuplicate if login or email is taken.
	UserCreate(user *t.User) error
	// UserGet returns record for a given user ID or (nil, nil) if not found.
	UserGet(uid t.Uid) (*t.User, error)
	// UserGetAll returns user records for a given list of user IDs
	UserGetAll(ids ...t.Uid) ([]t.User, error)
	// UserGetByLogin returns user record by login or (nil, nil) if not found.
	UserGetByLogin(login string) (*t.User, error)
	// UserUpdate updates user record
	UserUpdate(uid t.Uid, update map[string]interface{}) error

	// Conversation management

	// ConvCreate creates a conversation record.
	ConvCreate(conv *t.Conversation) error
	// ConvGet returns a conversation or (nil, nil) if not found.
	ConvGet(id t.Uid) (*t.Conversation, error)
	// ConvGetAll returns conversations for the given list of IDs.
	ConvGetAll(ids ...t.Uid) ([]t.Conversation, error)
	// ConvUpdate updates conversation record.
	ConvUpdate(id t.Uid, update map[string]interface{}) error
	// ConvUpsertVisit records the time when the user has visited the conversation.
	ConvUpsertVisit(id, user t.Uid, when time.Time) error
	// ConvRecentForUser returns conversations most recently visited by the user,
	// newest first. Conversations the user has not visited are not returned.
	ConvRecentForUser(user t.Uid, limit int) ([]t.Conversation, error)
	// ConvTagCounts returns tags applied to the conversation with the number of
	// times each tag was applied, sorted by tag.
	ConvTagCounts(id t.Uid) ([]t.TagCount, error)
	// ConvTagsAdd adds taggings by the given user. Already present taggings are ignored.
	ConvTagsAdd(id, user t.Uid, tags []string) error
	// ConvTagsRemove removes taggings by the given user.
	ConvTagsRemove(id, user t.Uid, tags []string) error

	// Subscriptions

	// SubsCreate creates a subscription. Returns t.ErrDuplicate if the user is
	// already subscribed to the conversation.
	SubsCreate(sub *t.Subscription) error
	// SubsGet returns the subscription of a user to a conversation or (nil, nil).
	SubsGet(conv, user t.Uid) (*t.Subscription, error)
	// SubsForUser returns user's subscriptions ordered by ActivatedAt, most recent first,
	// with unread counts populated.
	SubsForUser(user t.Uid) ([]t.Subscription, error)
	// SubsForConv returns all subscriptions to the conversation.
	SubsForConv(conv t.Uid) ([]t.Subscription, error)
	// SubsUpdate updates a single subscription.
	SubsUpdate(conv, user t.Uid, update map[string]interface{}) error
	// SubsDelete removes a subscription. Returns t.ErrNotFound if there was none.
	SubsDelete(conv, user t.Uid) error

	// Invites

	// InviteCreate stores a new invite.
	InviteCreate(inv *t.Invite) error
	// InviteFind returns the most recent invite of the user to the conversation or (nil, nil).
	InviteFind(user, conv t.Uid) (*t.Invite, error)
	// InviteConsume replaces the token of an unconsumed invite with a new value if and only
	// if the current token matches. Returns true if this call has consumed the invite.
	InviteConsume(id t.Uid, token, replacement string, when time.Time) (bool, error)
	// InviteRestore reverts a consumed invite to the given token if and only if its current
	// token is the one set by InviteConsume. Returns true if the invite was restored.
	InviteRestore(id t.Uid, spent, token string, when time.Time) (bool, error)
	// InviteDelete removes all invites of the user to the conversation.
	InviteDelete(user, conv t.Uid) error

	// Abuse reports

	// AbuseReportCreate stores a report. Returns t.ErrDuplicate if the user has
	// already reported the message.
	AbuseReportCreate(rep *t.AbuseReport) error
	// AbuseReportGet returns the report of the user against the message or (nil, nil).
	AbuseReportGet(msg, user t.Uid) (*t.AbuseReport, error)
	// AbuseReportsForMessage returns all reports against the message, oldest first.
	AbuseReportsForMessage(msg t.Uid) ([]t.AbuseReport, error)

	// Messages

	// MessageSave saves message to database
	MessageSave(msg *t.Message) error
	// MessageGet returns a message or (nil, nil) if not found.
	MessageGet(id t.Uid) (*t.Message, error)
	// MessageDeactivate attaches the report to the message unless another report is
	// already attached. Returns true if this call has deactivated the message.
	MessageDeactivate(id, report t.Uid) (bool, error)
}
