// Package test_data holds the data set shared by the adapter integration tests.
package test_data

import (
	"time"

	"github.com/echowaves/chat/server/store/types"
)

type TestData struct {
	UGen    *types.UidGenerator
	Users   []*types.User
	Convs   []*types.Conversation
	Subs    []*types.Subscription
	Invites []*types.Invite
	Msgs    []*types.Message
	Reports []*types.AbuseReport
	Now     time.Time
}

func header(uGen *types.UidGenerator, at time.Time) types.ObjHeader {
	var h types.ObjHeader
	h.SetUid(uGen.Get())
	h.CreatedAt = at
	h.UpdatedAt = at
	return h
}

func initUsers(uGen *types.UidGenerator, now time.Time) []*types.User {
	activated := now.Add(-time.Hour)
	users := make([]*types.User, 0, 3)
	users = append(users, &types.User{ // 0
		ObjHeader:                 header(uGen, now.Add(-3*time.Hour)),
		Login:                     "alice",
		Name:                      "Alice",
		Email:                     "alice@test.example.com",
		ActivatedAt:               &activated,
		ReceiveEmailNotifications: true,
	})
	users = append(users, &types.User{ // 1
		ObjHeader:   header(uGen, now.Add(-2*time.Hour)),
		Login:       "bob",
		Name:        "Bob",
		Email:       "bob@test.example.com",
		ActivatedAt: &activated,
	})
	users = append(users, &types.User{ // 2, never activated
		ObjHeader: header(uGen, now.Add(-time.Hour)),
		Login:     "carol",
		Name:      "Carol",
		Email:     "carol@test.example.com",
	})
	return users
}

func initConvs(uGen *types.UidGenerator, now time.Time, users []*types.User) []*types.Conversation {
	convs := make([]*types.Conversation, 0, 3)
	convs = append(convs, &types.Conversation{ // 0
		ObjHeader: header(uGen, now.Add(-3*time.Hour)),
		Name:      "general",
		Owner:     users[0].Id,
	})
	convs = append(convs, &types.Conversation{ // 1
		ObjHeader: header(uGen, now.Add(-2*time.Hour)),
		Name:      "secret",
		Owner:     users[0].Id,
		Private:   true,
	})
	convs = append(convs, &types.Conversation{ // 2
		ObjHeader: header(uGen, now.Add(-time.Hour)),
		Name:      "random",
		Owner:     users[1].Id,
	})
	return convs
}

func initSubs(now time.Time, users []*types.User, convs []*types.Conversation) []*types.Subscription {
	newSub := func(user *types.User, conv *types.Conversation, activated time.Time) *types.Subscription {
		sub := &types.Subscription{
			User:         user.Id,
			Conversation: conv.Id,
			ActivatedAt:  activated,
			LastReadAt:   now.Add(-time.Hour),
		}
		sub.Id = types.SubscriptionId(conv.Id, user.Id)
		sub.CreatedAt = activated
		sub.UpdatedAt = activated
		return sub
	}
	return []*types.Subscription{
		// Alice's subscriptions are deliberately out of activation order.
		newSub(users[0], convs[0], now.Add(-3*time.Hour)),    // 0
		newSub(users[0], convs[1], now.Add(-time.Minute)),    // 1
		newSub(users[0], convs[2], now.Add(-time.Hour)),      // 2
		newSub(users[1], convs[0], now.Add(-2*time.Hour)),    // 3
		newSub(users[1], convs[2], now.Add(-30*time.Minute)), // 4
	}
}

func initInvites(uGen *types.UidGenerator, now time.Time, users []*types.User, convs []*types.Conversation) []*types.Invite {
	return []*types.Invite{
		{ // 0
			ObjHeader:    header(uGen, now.Add(-time.Hour)),
			User:         users[1].Id,
			Conversation: convs[1].Id,
			RequestedBy:  users[0].Id,
			Token:        "ZGVhZGJlZWZkZWFkYmVlZmRlYWRiZWVm",
		},
	}
}

func initMessages(uGen *types.UidGenerator, now time.Time, users []*types.User, convs []*types.Conversation) []*types.Message {
	return []*types.Message{
		{ // 0
			ObjHeader:    header(uGen, now.Add(-2*time.Hour)),
			User:         users[0].Id,
			Conversation: convs[0].Id,
			Body:         "hello",
		},
		{ // 1, unread by alice
			ObjHeader:    header(uGen, now.Add(-10*time.Minute)),
			User:         users[1].Id,
			Conversation: convs[0].Id,
			Body:         "spam spam spam",
		},
		{ // 2
			ObjHeader:      header(uGen, now.Add(-5*time.Minute)),
			User:           users[1].Id,
			Conversation:   convs[0].Id,
			Body:           "look at this",
			Attachment:     "attachments/2021/06/12/photo.jpg",
			AttachmentType: "image/jpeg",
		},
	}
}

func initReports(uGen *types.UidGenerator, now time.Time, users []*types.User, msgs []*types.Message) []*types.AbuseReport {
	return []*types.AbuseReport{
		{ // 0
			ObjHeader: header(uGen, now.Add(-3*time.Minute)),
			User:      users[0].Id,
			Message:   msgs[1].Id,
		},
		{ // 1, same reporter and message as 0
			ObjHeader: header(uGen, now.Add(-2*time.Minute)),
			User:      users[0].Id,
			Message:   msgs[1].Id,
		},
		{ // 2
			ObjHeader: header(uGen, now.Add(-time.Minute)),
			User:      users[2].Id,
			Message:   msgs[1].Id,
		},
	}
}

// InitTestData builds the data set. Returns nil if the Uid generator fails to initialize.
func InitTestData() *TestData {
	// Use fixed timestamp to make tests more predictable
	var now = time.Date(2021, time.June, 12, 11, 39, 24, 15, time.Local).UTC().Round(time.Millisecond)
	var uGen = &types.UidGenerator{}
	if err := uGen.Init(11, []byte("testtesttesttest")); err != nil {
		return nil
	}
	users := initUsers(uGen, now)
	convs := initConvs(uGen, now, users)
	msgs := initMessages(uGen, now, users, convs)
	return &TestData{
		UGen:    uGen,
		Users:   users,
		Convs:   convs,
		Subs:    initSubs(now, users, convs),
		Invites: initInvites(uGen, now, users, convs),
		Msgs:    msgs,
		Reports: initReports(uGen, now, users, msgs),
		Now:     now,
	}
}
