package main

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/echowaves/chat/server/logs"
	"github.com/echowaves/chat/server/membership"
	"github.com/echowaves/chat/server/moderation"
	"github.com/echowaves/chat/server/store"
	"github.com/echowaves/chat/server/store/types"
)

/*
User object in data.json

	"createdAt": "-140h",
	"login": "alice",
	"name": "Alice Johnson",
	"email": "alice@example.com",
	"active": true
*/
type User struct {
	CreatedAt string `json:"createdAt"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Active    bool   `json:"active"`
}

/*
Conversation object in data.json

	"createdAt": "-128h",
	"name": "flowers",
	"owner": "carol",
	"private": false,
	"tags": ["garden", "spring"]
*/
type Conversation struct {
	CreatedAt string   `json:"createdAt"`
	Name      string   `json:"name"`
	Owner     string   `json:"owner"`
	Private   bool     `json:"private"`
	Tags      []string `json:"tags"`
}

/*
Follow object in data.json. Followers of private conversations are invited by the owner first.

	"user": "alice",
	"conversation": "flowers",
	"tags": ["favorite"]
*/
type Follow struct {
	User         string   `json:"user"`
	Conversation string   `json:"conversation"`
	Tags         []string `json:"tags"`
	Visit        bool     `json:"visit"`
}

/*
Message object in data.json

	"label": "spam1",
	"user": "dave",
	"conversation": "flowers",
	"body": "Buy cheap seeds!",
	"reportedBy": ["alice", "bob"]
*/
type Message struct {
	Label        string   `json:"label"`
	User         string   `json:"user"`
	Conversation string   `json:"conversation"`
	Body         string   `json:"body"`
	ReportedBy   []string `json:"reportedBy"`
}

// Data is the content of data.json.
type Data struct {
	Users         []User         `json:"users"`
	Conversations []Conversation `json:"conversations"`
	Follows       []Follow       `json:"follows"`
	Messages      []Message      `json:"messages"`
}

func parseData(r io.Reader) (*Data, error) {
	var data Data
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, err
	}
	if err := data.check(); err != nil {
		return nil, err
	}
	return &data, nil
}

// check verifies that all references to users and conversations can be resolved.
func (d *Data) check() error {
	users := make(map[string]bool, len(d.Users))
	for _, uu := range d.Users {
		if uu.Login == "" {
			return errors.New("user without login")
		}
		if users[uu.Login] {
			return errors.New("duplicate user " + uu.Login)
		}
		users[uu.Login] = true
	}
	convs := make(map[string]bool, len(d.Conversations))
	for _, cc := range d.Conversations {
		if !users[cc.Owner] {
			return errors.New("unknown owner '" + cc.Owner + "' of conversation " + cc.Name)
		}
		if convs[cc.Name] {
			return errors.New("duplicate conversation " + cc.Name)
		}
		convs[cc.Name] = true
	}
	for _, ff := range d.Follows {
		if !users[ff.User] || !convs[ff.Conversation] {
			return errors.New("invalid follow " + ff.User + " -> " + ff.Conversation)
		}
	}
	for _, mm := range d.Messages {
		if !users[mm.User] || !convs[mm.Conversation] {
			return errors.New("invalid message " + mm.User + " -> " + mm.Conversation)
		}
		for _, r := range mm.ReportedBy {
			if !users[r] {
				return errors.New("unknown reporter " + r)
			}
		}
	}
	return nil
}

func genDb(data *Data) {
	if len(data.Users) == 0 {
		logs.Info.Println("No data provided, stopping")
		return
	}
	if err := loadData(data); err != nil {
		logs.Err.Fatal(err)
	}
	logs.Info.Println("All done.")
}

func loadData(data *Data) error {
	userIndex := make(map[string]types.Uid, len(data.Users))
	convIndex := make(map[string]*types.Conversation, len(data.Conversations))

	logs.Info.Println("Generating users...")
	for _, uu := range data.Users {
		user := &types.User{
			Login:                     uu.Login,
			Name:                      uu.Name,
			Email:                     uu.Email,
			ReceiveEmailNotifications: true,
		}
		user.CreatedAt = getCreatedTime(uu.CreatedAt)
		if _, err := store.Users.Create(user); err != nil {
			return errors.New("user " + uu.Login + ": " + err.Error())
		}
		if uu.Active {
			if _, err := store.Users.Activate(user.Uid()); err != nil {
				return errors.New("activate " + uu.Login + ": " + err.Error())
			}
		}
		userIndex[uu.Login] = user.Uid()
	}

	logs.Info.Println("Generating conversations...")
	for _, cc := range data.Conversations {
		owner := userIndex[cc.Owner]
		conv := &types.Conversation{
			Name:    cc.Name,
			Owner:   owner.String(),
			Private: cc.Private,
		}
		conv.CreatedAt = getCreatedTime(cc.CreatedAt)
		if err := store.Conversations.Create(conv); err != nil {
			return errors.New("conversation " + cc.Name + ": " + err.Error())
		}
		if _, err := membership.EnsureSubscribed(owner, conv.Uid()); err != nil {
			return err
		}
		if len(cc.Tags) > 0 {
			if err := store.Conversations.AddTags(conv.Uid(), owner, cc.Tags...); err != nil {
				return err
			}
		}
		convIndex[cc.Name] = conv
	}

	logs.Info.Println("Generating follows...")
	for _, ff := range data.Follows {
		user := userIndex[ff.User]
		conv := convIndex[ff.Conversation]

		var token string
		if conv.IsPrivate() && !conv.IsOwner(user) {
			inv, err := membership.Invite(conv.GetOwner(), user, conv.Uid())
			if err != nil {
				return err
			}
			token = inv.Token
		}
		ok, err := membership.Follow(user, conv.Uid(), token)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("follow denied " + ff.User + " -> " + ff.Conversation)
		}
		if len(ff.Tags) > 0 {
			if err := store.Conversations.AddTags(conv.Uid(), user, ff.Tags...); err != nil {
				return err
			}
		}
		if ff.Visit {
			if err := membership.RecordVisit(user, conv.Uid()); err != nil {
				return err
			}
		}
	}

	logs.Info.Println("Generating messages...")
	for _, mm := range data.Messages {
		msg := &types.Message{
			User:         userIndex[mm.User].String(),
			Conversation: convIndex[mm.Conversation].Id,
			Body:         mm.Body,
		}
		if err := membership.PostMessage(msg); err != nil {
			return err
		}
		for _, r := range mm.ReportedBy {
			if _, err := moderation.ReportAbuse(msg.Uid(), userIndex[r]); err != nil {
				return err
			}
		}
	}

	return nil
}

// getCreatedTime converts a duration relative to now, like "-140h", into a timestamp.
func getCreatedTime(delta string) time.Time {
	dd, err := time.ParseDuration(delta)
	if err != nil && delta != "" {
		logs.Warn.Println("Invalid duration string", delta)
	}
	return types.TimeNow().Add(dd)
}
