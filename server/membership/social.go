package membership

import (
	"github.com/echowaves/chat/server/store"
	"github.com/echowaves/chat/server/store/types"
)

// RecentLimit is the maximum number of recently visited conversations returned.
const RecentLimit = 10

// News returns the user's subscriptions which have unread messages.
func News(user types.Uid) ([]types.Subscription, error) {
	subs, err := store.Subs.GetForUser(user)
	if err != nil {
		return nil, err
	}

	var news []types.Subscription
	for _, sub := range subs {
		if sub.GetUnread() > 0 {
			news = append(news, sub)
		}
	}
	return news, nil
}

// Friends returns users the user follows, i.e. owners of followed personal conversations.
func Friends(user types.Uid) ([]types.User, error) {
	subs, err := store.Subs.GetForUser(user)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}

	ids := make([]types.Uid, 0, len(subs))
	for i := range subs {
		ids = append(ids, types.ParseUid(subs[i].Conversation))
	}
	convs, err := store.Conversations.GetAll(ids...)
	if err != nil {
		return nil, err
	}

	var owners types.UidSlice
	for i := range convs {
		if owner := convs[i].GetOwner(); convs[i].Personal && owner != user && !owner.IsZero() {
			owners.Add(owner)
		}
	}
	if len(owners) == 0 {
		return nil, nil
	}
	return store.Users.GetAll(owners...)
}

// Followers returns users who follow the user's personal conversation.
func Followers(user types.Uid) ([]types.User, error) {
	u, err := store.Users.Get(user)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, types.ErrNotFound
	}
	if u.PersonalConversation == "" {
		return nil, nil
	}

	subs, err := store.Subs.GetForConv(types.ParseUid(u.PersonalConversation))
	if err != nil {
		return nil, err
	}

	var ids types.UidSlice
	for i := range subs {
		if follower := types.ParseUid(subs[i].User); follower != user && !follower.IsZero() {
			ids.Add(follower)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return store.Users.GetAll(ids...)
}

// RecentConversations returns conversations most recently visited by the user.
func RecentConversations(user types.Uid) ([]types.Conversation, error) {
	return store.Conversations.RecentForUser(user, RecentLimit)
}
