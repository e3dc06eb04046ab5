package membership

import (
	"crypto/subtle"

	"github.com/echowaves/chat/server/logs"
	"github.com/echowaves/chat/server/metrics"
	"github.com/echowaves/chat/server/push"
	"github.com/echowaves/chat/server/store"
	"github.com/echowaves/chat/server/store/types"
)

// Follow subscribes the user to the conversation if the user is allowed to read it.
// Public conversations can be followed by anyone, private ones by the owner or by
// a user presenting the token of an unused invite. Each token authorizes one follow.
// Returns false with nil error when the request is denied.
func Follow(user, conv types.Uid, token string) (bool, error) {
	ok, spent, err := authorizeFollow(user, conv, token)
	if err != nil {
		metrics.FollowRequested(metrics.FollowFailed)
		return false, err
	}
	if !ok {
		metrics.FollowRequested(metrics.FollowDenied)
		return false, nil
	}

	sub, err := EnsureSubscribed(user, conv)
	if err != nil {
		if spent != nil {
			// Give the token back so the user can retry.
			restoreInvite(spent, token)
		}
		metrics.FollowRequested(metrics.FollowFailed)
		return false, err
	}
	if err := MarkRead(sub); err != nil {
		// The user is subscribed at this point.
		logs.Warn.Println("membership: failed to mark new subscription read", conv, user, err)
		metrics.SideEffectFailed(metrics.KindMarkRead)
	}

	metrics.FollowRequested(metrics.FollowAuthorized)
	sendPush(push.NewSubReceipt(user, conv))
	return true, nil
}

// authorizeFollow checks if the user may follow the conversation. When access is granted
// by an invite, the invite is spent and returned.
func authorizeFollow(user, conv types.Uid, token string) (bool, *types.Invite, error) {
	if user.IsZero() || conv.IsZero() {
		return false, nil, types.ErrMalformed
	}

	c, err := store.Conversations.Get(conv)
	if err != nil {
		return false, nil, err
	}
	if c == nil {
		return false, nil, types.ErrNotFound
	}

	if !c.IsPrivate() || c.IsOwner(user) {
		return true, nil, nil
	}

	inv, err := store.Invites.FindActive(user, conv)
	if err != nil {
		return false, nil, err
	}
	if inv == nil || inv.IsConsumed() || token == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(inv.Token)) != 1 {
		return false, nil, nil
	}

	// Check-and-spend is a single conditional write: of two concurrent requests with
	// the same token only one gets true.
	ok, err := store.Invites.Consume(inv, token)
	if err != nil || !ok {
		return false, nil, err
	}
	return true, inv, nil
}

// restoreInvite makes a spent invite usable again after the follow has failed.
func restoreInvite(inv *types.Invite, token string) {
	ok, err := store.Invites.Restore(inv, token)
	if err != nil || !ok {
		logs.Warn.Println("membership: failed to restore invite", inv.Id, err)
		metrics.SideEffectFailed(metrics.KindInvite)
	}
}

// Unfollow removes the user's subscription to the conversation, if any, and destroys the
// user's invites to it so the user can be invited again.
func Unfollow(user, conv types.Uid) error {
	if user.IsZero() || conv.IsZero() {
		return types.ErrMalformed
	}

	if err := store.Subs.Delete(conv, user); err != nil && err != types.ErrNotFound {
		return err
	}
	return store.Invites.Delete(user, conv)
}

// Invite issues a new invite of the user to the conversation on behalf of requestedBy.
// Only the owner can invite to a private conversation.
func Invite(requestedBy, user, conv types.Uid) (*types.Invite, error) {
	if requestedBy.IsZero() || user.IsZero() || conv.IsZero() {
		return nil, types.ErrMalformed
	}

	c, err := store.Conversations.Get(conv)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, types.ErrNotFound
	}
	if c.IsPrivate() && !c.IsOwner(requestedBy) {
		return nil, types.ErrPermissionDenied
	}

	inv := &types.Invite{
		User:         user.String(),
		Conversation: conv.String(),
		RequestedBy:  requestedBy.String(),
	}
	if err := store.Invites.Create(inv); err != nil {
		return nil, err
	}
	return inv, nil
}
