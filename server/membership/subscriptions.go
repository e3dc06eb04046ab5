// Package membership implements the rules of following conversations: subscription
// bookkeeping, invite-gated follows, visit tracking and tag aggregation over the
// user's subscriptions.
package membership

import (
	"github.com/echowaves/chat/server/logs"
	"github.com/echowaves/chat/server/metrics"
	"github.com/echowaves/chat/server/push"
	"github.com/echowaves/chat/server/store"
	"github.com/echowaves/chat/server/store/types"
)

// EnsureSubscribed returns the user's subscription to the conversation creating it if necessary.
// Concurrent calls for the same pair converge on a single record: the loser of the insert
// race re-reads the winner's subscription.
func EnsureSubscribed(user, conv types.Uid) (*types.Subscription, error) {
	if user.IsZero() || conv.IsZero() {
		return nil, types.ErrMalformed
	}

	sub, err := store.Subs.Get(conv, user)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		return sub, nil
	}

	sub = &types.Subscription{User: user.String(), Conversation: conv.String()}
	err = store.Subs.Create(sub)
	if err == nil {
		metrics.SubscriptionCreated()
		return sub, nil
	}
	if err != types.ErrDuplicate {
		return nil, err
	}

	sub, err = store.Subs.Get(conv, user)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		// Deleted between the failed insert and the re-read.
		return nil, types.ErrNotFound
	}
	return sub, nil
}

// MarkRead moves the subscription's last-read marker to now. Marking a missing
// subscription is a no-op.
func MarkRead(sub *types.Subscription) error {
	if sub == nil {
		return nil
	}

	now := types.TimeNow()
	err := store.Subs.Update(types.ParseUid(sub.Conversation), types.ParseUid(sub.User),
		map[string]interface{}{"LastReadAt": now})
	if err == types.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	sub.LastReadAt = now
	sub.SetUnread(0)
	return nil
}

// OnMessagePosted makes sure the author follows the conversation of the message and
// does not see the message as unread.
func OnMessagePosted(msg *types.Message) error {
	user, conv := types.ParseUid(msg.User), types.ParseUid(msg.Conversation)
	sub, err := EnsureSubscribed(user, conv)
	if err != nil {
		return err
	}
	return MarkRead(sub)
}

// PostMessage saves a new message, updates the author's subscription and notifies the
// conversation's listeners.
func PostMessage(msg *types.Message) error {
	if types.ParseUid(msg.User).IsZero() || types.ParseUid(msg.Conversation).IsZero() {
		return types.ErrMalformed
	}

	if err := store.Messages.Save(msg); err != nil {
		return err
	}
	if err := OnMessagePosted(msg); err != nil {
		return err
	}

	sendPush(push.NewMessageReceipt(msg))
	return nil
}

// sendPush hands the receipt to push handlers. Dropped pushes are logged and counted.
func sendPush(rcpt *push.Receipt) {
	if dropped := push.Push(rcpt); dropped > 0 {
		logs.Warn.Printf("membership: '%s' push for %s dropped by %d handler(s)",
			rcpt.Payload.What, rcpt.Channel, dropped)
		metrics.SideEffectFailed(metrics.KindPush)
	}
}
