package membership

import (
	"github.com/echowaves/chat/server/store"
	"github.com/echowaves/chat/server/store/types"
)

// AllTags returns tags of all conversations the user follows. Each tag is listed once.
func AllTags(user types.Uid) ([]string, error) {
	subs, err := store.Subs.GetForUser(user)
	if err != nil {
		return nil, err
	}

	var all types.StringSlice
	for i := range subs {
		tags, err := store.Conversations.Tags(types.ParseUid(subs[i].Conversation))
		if err != nil {
			return nil, err
		}
		for _, tag := range tags {
			if !all.Contains(tag) {
				all = append(all, tag)
			}
		}
	}
	return all, nil
}

// AllTagCounts returns tag counts of all conversations the user follows. Counts of
// the same tag in different conversations are not added up: the count from the most
// recently active subscription is used.
func AllTagCounts(user types.Uid) ([]types.TagCount, error) {
	subs, err := store.Subs.GetForUser(user)
	if err != nil {
		return nil, err
	}

	var all []types.TagCount
	seen := make(map[string]bool)
	for i := range subs {
		counts, err := store.Conversations.TagCounts(types.ParseUid(subs[i].Conversation))
		if err != nil {
			return nil, err
		}
		for _, tc := range counts {
			if !seen[tc.Tag] {
				seen[tc.Tag] = true
				all = append(all, tc)
			}
		}
	}
	return all, nil
}

// ConversationsByTag returns conversations followed by the user which are tagged with the tag.
func ConversationsByTag(user types.Uid, tag string) ([]types.Conversation, error) {
	tag = types.NormalizeTag(tag)
	if tag == "" {
		return nil, nil
	}

	subs, err := store.Subs.GetForUser(user)
	if err != nil {
		return nil, err
	}

	var ids []types.Uid
	for i := range subs {
		conv := types.ParseUid(subs[i].Conversation)
		tags, err := store.Conversations.Tags(conv)
		if err != nil {
			return nil, err
		}
		if types.StringSlice(tags).Contains(tag) {
			ids = append(ids, conv)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return store.Conversations.GetAll(ids...)
}
