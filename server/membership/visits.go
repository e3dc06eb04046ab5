package membership

import (
	"github.com/echowaves/chat/server/push"
	"github.com/echowaves/chat/server/store"
	"github.com/echowaves/chat/server/store/types"
)

// RecordVisit is called when the user opens the conversation. It records the visit,
// marks read the subscription which was the most recently active before this visit,
// then makes the subscription to this conversation the most recently active one.
// The order matters: the conversation the user is leaving is the one being marked read.
func RecordVisit(user, conv types.Uid) error {
	if user.IsZero() || conv.IsZero() {
		return types.ErrMalformed
	}

	if err := store.Conversations.AddVisit(conv, user); err != nil {
		return err
	}

	// Most recently activated first.
	subs, err := store.Subs.GetForUser(user)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}

	last := &subs[0]
	if err := MarkRead(last); err != nil {
		return err
	}
	sendPush(push.NewReadReceipt(user, types.ParseUid(last.Conversation)))

	convId := conv.String()
	for i := range subs {
		if subs[i].Conversation == convId {
			return store.Subs.Update(conv, user, map[string]interface{}{"ActivatedAt": types.TimeNow()})
		}
	}
	return nil
}
