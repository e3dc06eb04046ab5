// Package push contains interfaces to be implemented by push notification plugins.
package push

import (
	"encoding/json"
	"errors"
	"time"

	t "github.com/echowaves/chat/server/store/types"
	"github.com/rivo/uniseg"
)

// Push actions
const (
	// New message.
	ActMsg = "msg"
	// New subscription.
	ActSub = "sub"
	// Messages read: clear unread count.
	ActRead = "read"
)

// MaxPayloadLength is the maximum length of push payload in grapheme clusters.
const MaxPayloadLength = 128

// Receipt is the push payload with a list of recipients.
type Receipt struct {
	// Users affected by the event, if known.
	To []t.Uid `json:"to,omitempty"`
	// Conversation the event belongs to. Handlers use it as the fan-out key.
	Channel string `json:"channel"`
	// Actual content to be delivered to the client.
	Payload Payload `json:"payload"`
}

// Payload is content of the push.
type Payload struct {
	// Action type of the push: new message (msg), new subscription (sub), etc.
	What string `json:"what"`
	// If this is a silent push: perform action but do not show a notification to the user.
	Silent bool `json:"silent"`
	// Conversation which was affected by the action.
	Conversation string `json:"conv"`
	// Timestamp of the action.
	Timestamp time.Time `json:"ts"`

	// User who caused the event.
	From string `json:"from"`
	// ID of the message for 'msg' pushes.
	Message string `json:"msg,omitempty"`
	// Truncated message body.
	Content string `json:"content,omitempty"`
	// MIME type of the attachment, if any.
	AttachmentType string `json:"atype,omitempty"`
}

// Handler is an interface which must be implemented by handlers.
type Handler interface {
	// Init initializes the handler.
	Init(jsonconf json.RawMessage) (bool, error)

	// IsReady сhecks if the handler is initialized.
	IsReady() bool

	// Push returns a channel that the server will use to send messages to.
	// The message will be dropped if the channel blocks.
	Push() chan<- *Receipt

	// Stop terminates the handler's worker and stops sending pushes.
	Stop()
}

type configType struct {
	Name   string          `json:"name"`
	Config json.RawMessage `json:"config"`
}

var handlers map[string]Handler

// Register a push handler
func Register(name string, hnd Handler) {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}

	if hnd == nil {
		panic("Register: push handler is nil")
	}
	if _, dup := handlers[name]; dup {
		panic("Register: called twice for handler " + name)
	}
	handlers[name] = hnd
}

// Init initializes registered handlers.
func Init(jsconfig json.RawMessage) ([]string, error) {
	if len(jsconfig) == 0 {
		return nil, nil
	}

	var config []configType
	if err := json.Unmarshal(jsconfig, &config); err != nil {
		return nil, errors.New("failed to parse config: " + err.Error())
	}

	var enabled []string
	for _, cc := range config {
		if hnd := handlers[cc.Name]; hnd != nil {
			if ok, err := hnd.Init(cc.Config); err != nil {
				return nil, err
			} else if ok {
				enabled = append(enabled, cc.Name)
			}
		}
	}

	return enabled, nil
}

// Push a single message to all ready handlers. Returns the number of handlers
// which dropped the message because their queue was full.
func Push(msg *Receipt) int {
	if handlers == nil || msg == nil {
		return 0
	}

	dropped := 0
	for _, hnd := range handlers {
		if !hnd.IsReady() {
			continue
		}

		// Push without delay or skip
		select {
		case hnd.Push() <- msg:
		default:
			dropped++
		}
	}
	return dropped
}

// Stop all pushes
func Stop() {
	if handlers == nil {
		return
	}

	for _, hnd := range handlers {
		if hnd.IsReady() {
			// Will potentially block
			hnd.Stop()
		}
	}
}

// Preview shortens the text to at most length grapheme clusters appending an ellipsis
// if anything was cut.
func Preview(text string, length int) string {
	if length <= 0 {
		return ""
	}
	count := 0
	for state, remaining, cluster, offset := -1, text, "", 0; len(remaining) > 0; count++ {
		if count == length {
			return text[:offset] + "…"
		}
		cluster, remaining, _, state = uniseg.StepString(remaining, state)
		offset += len(cluster)
	}
	return text
}

// NewMessageReceipt builds a 'msg' push for a newly posted message.
func NewMessageReceipt(msg *t.Message) *Receipt {
	return &Receipt{
		Channel: msg.Conversation,
		Payload: Payload{
			What:           ActMsg,
			Conversation:   msg.Conversation,
			Timestamp:      msg.CreatedAt,
			From:           msg.User,
			Message:        msg.Id,
			Content:        Preview(msg.Body, MaxPayloadLength),
			AttachmentType: msg.AttachmentType,
		},
	}
}

// NewSubReceipt builds a 'sub' push announcing a new follower of the conversation.
func NewSubReceipt(user, conv t.Uid) *Receipt {
	return &Receipt{
		To:      []t.Uid{user},
		Channel: conv.String(),
		Payload: Payload{
			What:         ActSub,
			Silent:       true,
			Conversation: conv.String(),
			Timestamp:    t.TimeNow(),
			From:         user.String(),
		},
	}
}

// NewReadReceipt builds a silent 'read' push which tells user's clients to clear the unread count.
func NewReadReceipt(user, conv t.Uid) *Receipt {
	return &Receipt{
		To:      []t.Uid{user},
		Channel: conv.String(),
		Payload: Payload{
			What:         ActRead,
			Silent:       true,
			Conversation: conv.String(),
			Timestamp:    t.TimeNow(),
			From:         user.String(),
		},
	}
}
