// Package types provides data types for persisting objects in the databases.
package types

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"sort"
	"strings"
	"time"
)

// StoreError satisfies Error interface but allows constant values for
// direct comparison.
type StoreError string

// Error is required by error interface.
func (s StoreError) Error() string {
	return string(s)
}

const (
	// ErrInternal means DB or other internal failure.
	ErrInternal = StoreError("internal")
	// ErrMalformed means the input cannot be parsed or is otherwise wrong.
	ErrMalformed = StoreError("malformed")
	// ErrDuplicate means a unique key constraint was violated.
	ErrDuplicate = StoreError("duplicate value")
	// ErrNotFound means the referenced object was not found.
	ErrNotFound = StoreError("not found")
	// ErrUnsupported means an operation is not supported by the adapter.
	ErrUnsupported = StoreError("unsupported")
	// ErrPermissionDenied means the operation is not permitted to the user.
	ErrPermissionDenied = StoreError("denied")
)

// Uid is a database-specific record id, suitable to be used as a primary key.
type Uid uint64

// ZeroUid is a constant representing uninitialized Uid.
const ZeroUid Uid = 0

// Lengths of various Uid representations.
const (
	uidBase64Unpadded = 11
	uidBase64Padded   = 12
)

// IsZero checks if Uid is uninitialized.
func (uid Uid) IsZero() bool {
	return uid == ZeroUid
}

// Compare returns 0 if uid is equal to u2, 1 if u2 is greater than uid, -1 if u2 is smaller.
func (uid Uid) Compare(u2 Uid) int {
	if uid < u2 {
		return -1
	} else if uid > u2 {
		return 1
	}
	return 0
}

// MarshalBinary converts Uid to byte slice.
func (uid Uid) MarshalBinary() ([]byte, error) {
	dst := make([]byte, 8)
	binary.LittleEndian.PutUint64(dst, uint64(uid))
	return dst, nil
}

// UnmarshalBinary reads Uid from byte slice.
func (uid *Uid) UnmarshalBinary(b []byte) error {
	if len(b) < 8 {
		return errors.New("Uid.UnmarshalBinary: invalid length")
	}
	*uid = Uid(binary.LittleEndian.Uint64(b))
	return nil
}

// UnmarshalText reads Uid from string represented as byte slice.
func (uid *Uid) UnmarshalText(src []byte) error {
	if len(src) != uidBase64Unpadded {
		return errors.New("Uid.UnmarshalText: invalid length")
	}
	dec := make([]byte, base64.URLEncoding.DecodedLen(uidBase64Padded))
	for len(src) < uidBase64Padded {
		src = append(src, '=')
	}
	count, err := base64.URLEncoding.Decode(dec, src)
	if count < 8 {
		if err != nil {
			return errors.New("Uid.UnmarshalText: failed to decode " + err.Error())
		}
		return errors.New("Uid.UnmarshalText: failed to decode")
	}
	*uid = Uid(binary.LittleEndian.Uint64(dec))
	return nil
}

// MarshalText converts Uid to string represented as byte slice.
func (uid Uid) MarshalText() ([]byte, error) {
	if uid.IsZero() {
		return []byte{}, nil
	}
	src := make([]byte, 8)
	dst := make([]byte, base64.URLEncoding.EncodedLen(8))
	binary.LittleEndian.PutUint64(src, uint64(uid))
	base64.URLEncoding.Encode(dst, src)
	return dst[0:uidBase64Unpadded], nil
}

// MarshalJSON converts Uid to double quoted ("ajjj") string.
func (uid Uid) MarshalJSON() ([]byte, error) {
	dst, _ := uid.MarshalText()
	return append(append([]byte{'"'}, dst...), '"'), nil
}

// UnmarshalJSON reads Uid from a double quoted string.
func (uid *Uid) UnmarshalJSON(b []byte) error {
	size := len(b)
	if size != (uidBase64Unpadded + 2) {
		return errors.New("Uid.UnmarshalJSON: invalid length")
	} else if b[0] != '"' || b[size-1] != '"' {
		return errors.New("Uid.UnmarshalJSON: unrecognized")
	}
	return uid.UnmarshalText(b[1 : size-1])
}

// String converts Uid to base64 string.
func (uid Uid) String() string {
	buf, _ := uid.MarshalText()
	return string(buf)
}

// ParseUid parses string NOT prefixed with anything.
func ParseUid(s string) Uid {
	var uid Uid
	uid.UnmarshalText([]byte(s))
	return uid
}

// UidSlice is a slice of Uids sorted in ascending order.
type UidSlice []Uid

func (us UidSlice) find(uid Uid) (int, bool) {
	idx := sort.Search(len(us), func(i int) bool { return us[i] >= uid })
	return idx, idx < len(us) && us[idx] == uid
}

// Add uid to UidSlice keeping it sorted. Duplicates are ignored.
func (us *UidSlice) Add(uid Uid) bool {
	idx, found := us.find(uid)
	if found {
		return false
	}
	*us = append(*us, ZeroUid)
	copy((*us)[idx+1:], (*us)[idx:])
	(*us)[idx] = uid
	return true
}

// Contains checks if the UidSlice contains the given uid.
func (us UidSlice) Contains(uid Uid) bool {
	_, contains := us.find(uid)
	return contains
}

// ObjHeader is the header shared by all stored objects.
type ObjHeader struct {
	// using string to get around rethinkdb's problems with uint64;
	// `bson:"_id"` tag is for mongodb to use as primary key '_id'.
	Id        string `bson:"_id"`
	id        Uid
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Uid assigns Uid header field.
func (h *ObjHeader) Uid() Uid {
	if h.id.IsZero() && h.Id != "" {
		h.id.UnmarshalText([]byte(h.Id))
	}
	return h.id
}

// SetUid assigns given Uid to appropriate header fields.
func (h *ObjHeader) SetUid(uid Uid) {
	h.id = uid
	h.Id = uid.String()
}

// TimeNow returns current wall time in UTC rounded to milliseconds.
func TimeNow() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}

// InitTimes initializes time.Time variables in the header to current time.
func (h *ObjHeader) InitTimes() {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = TimeNow()
	}
	h.UpdatedAt = h.CreatedAt
}

// User is a representation of a DB-stored user record.
type User struct {
	ObjHeader `bson:",inline"`

	// Unique, lower-cased.
	Login string
	Name  string
	// Unique, lower-cased.
	Email string

	// Conversation created for the user on activation.
	PersonalConversation string
	// Nil until the account is activated.
	ActivatedAt *time.Time

	ReceiveEmailNotifications bool
}

// IsActive checks if the user account has been activated.
func (u *User) IsActive() bool {
	return u.ActivatedAt != nil
}

// Conversation is a stored conversation.
type Conversation struct {
	ObjHeader `bson:",inline"`

	Name string
	// Uid of the user who created the conversation.
	Owner string
	// Private conversations can be followed by invitation only.
	Private bool
	// Personal conversation of the owner, one per user.
	Personal bool
	// Message which spawned this conversation, if any.
	ParentMessage string
}

// IsPrivate checks if the conversation requires an invite to follow.
func (c *Conversation) IsPrivate() bool {
	return c.Private
}

// GetOwner returns the owner's Uid.
func (c *Conversation) GetOwner() Uid {
	return ParseUid(c.Owner)
}

// IsOwner checks if the given user owns the conversation.
func (c *Conversation) IsOwner(user Uid) bool {
	return !user.IsZero() && c.GetOwner() == user
}

// Subscription to a conversation. Identified by the (Conversation, User) pair.
type Subscription struct {
	ObjHeader `bson:",inline"`

	User         string
	Conversation string

	// Most recently activated subscriptions go first.
	ActivatedAt time.Time
	// Messages created after this moment are unread.
	LastReadAt time.Time

	// Count of published messages newer than LastReadAt. Not stored.
	unread int
}

// SubscriptionId returns the identity of the user's subscription to the conversation.
func SubscriptionId(conv string, user string) string {
	return conv + ":" + user
}

// SetUnread assigns the derived unread count.
func (s *Subscription) SetUnread(count int) {
	s.unread = count
}

// GetUnread returns the derived unread count.
func (s *Subscription) GetUnread() int {
	return s.unread
}

// Invite is a single-use token granting access to a private conversation.
type Invite struct {
	ObjHeader `bson:",inline"`

	// User being invited.
	User         string
	Conversation string
	// User who issued the invite.
	RequestedBy string
	Token       string
	// Non-nil once the token has been spent.
	ConsumedAt *time.Time
}

// IsConsumed checks if the invite has already been used.
func (i *Invite) IsConsumed() bool {
	return i.ConsumedAt != nil
}

// AbuseReport is a single user's report against a message.
type AbuseReport struct {
	ObjHeader `bson:",inline"`

	// Reporting user.
	User    string
	Message string
}

// Message is a stored message.
type Message struct {
	ObjHeader `bson:",inline"`

	// Author.
	User         string
	Conversation string
	Body         string
	// Messages generated by the server rather than by users.
	System bool

	// Location of the attached file, if any.
	Attachment     string
	AttachmentType string

	// Id of the report which deactivated the message. Empty while the message is published.
	AbuseReport string
}

// IsPublished checks if the message is visible, i.e. has not been deactivated.
func (m *Message) IsPublished() bool {
	return m.AbuseReport == ""
}

// HasAttachment checks if a file is attached to the message.
func (m *Message) HasAttachment() bool {
	return m.Attachment != ""
}

// Tagging is a label applied by a user to a conversation.
type Tagging struct {
	Conversation string
	User         string
	Tag          string
}

// TagCount is the number of times a tag was applied to a conversation.
type TagCount struct {
	Tag   string
	Count int
}

// Visit records when the user last opened a conversation.
type Visit struct {
	User         string
	Conversation string
	UpdatedAt    time.Time
}

// StringSlice is defined so Scanner and Valuer can be attached to it.
type StringSlice []string

// Contains checks if the slice has the given value.
func (ss StringSlice) Contains(val string) bool {
	for _, s := range ss {
		if s == val {
			return true
		}
	}
	return false
}

// NormalizeTag trims surrounding whitespace. Tags are otherwise compared as-is.
func NormalizeTag(tag string) string {
	return strings.TrimSpace(tag)
}
