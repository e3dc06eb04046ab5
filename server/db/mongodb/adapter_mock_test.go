//go:build mongodb
// +build mongodb

package mongodb

import (
	"context"
	"testing"
	"time"

	t "github.com/echowaves/chat/server/store/types"
	b "go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// Runs the adapter against a mock deployment: no server is needed.
func mockAdapter(mt *mtest.T) *adapter {
	return &adapter{
		conn:       mt.Client,
		db:         mt.DB,
		dbName:     mt.DB.Name(),
		ctx:        context.Background(),
		maxResults: defaultMaxResults,
	}
}

func updated(n int32) b.D {
	return mtest.CreateSuccessResponse(b.E{Key: "n", Value: n}, b.E{Key: "nModified", Value: n})
}

func duplicateKey() b.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error",
	})
}

// The filter of the last update command.
func updateFilter(mt *mtest.T) b.Raw {
	evt := mt.GetStartedEvent()
	if evt == nil || evt.CommandName != "update" {
		mt.Fatalf("expected an update command, got %+v", evt)
	}
	return evt.Command.Lookup("updates", "0", "q").Document()
}

func TestInviteConsumeConditional(tt *testing.T) {
	mt := mtest.New(tt, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("spent once", func(mt *mtest.T) {
		a := mockAdapter(mt)
		id := t.Uid(301)
		now := time.Now().UTC()

		mt.AddMockResponses(updated(1))
		ok, err := a.InviteConsume(id, "abc123", "replaced", now)
		if err != nil || !ok {
			mt.Fatalf("first spend: %v, %v", ok, err)
		}
		q := updateFilter(mt)
		if got := q.Lookup("token").StringValue(); got != "abc123" {
			mt.Errorf("filter token: %q", got)
		}
		if got := q.Lookup("consumedat").Type; got != bsontype.Null {
			mt.Errorf("filter must require an unconsumed invite, got %v", got)
		}

		// The token no longer matches: nothing is modified.
		mt.AddMockResponses(updated(0))
		ok, err = a.InviteConsume(id, "abc123", "replaced-again", now)
		if err != nil || ok {
			mt.Errorf("second spend: %v, %v", ok, err)
		}
	})

	mt.Run("restore", func(mt *mtest.T) {
		a := mockAdapter(mt)

		mt.AddMockResponses(updated(1), updated(0))
		ok, err := a.InviteRestore(t.Uid(301), "replaced", "abc123", time.Now())
		if err != nil || !ok {
			mt.Fatalf("restore: %v, %v", ok, err)
		}
		if got := updateFilter(mt).Lookup("token").StringValue(); got != "replaced" {
			mt.Errorf("filter token: %q", got)
		}
		ok, err = a.InviteRestore(t.Uid(301), "replaced", "abc123", time.Now())
		if err != nil || ok {
			mt.Errorf("second restore: %v, %v", ok, err)
		}
	})
}

func TestMessageDeactivateConditional(tt *testing.T) {
	mt := mtest.New(tt, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("first report wins", func(mt *mtest.T) {
		a := mockAdapter(mt)
		msg := t.Uid(501)

		mt.AddMockResponses(updated(1))
		ok, err := a.MessageDeactivate(msg, t.Uid(601))
		if err != nil || !ok {
			mt.Fatalf("first deactivation: %v, %v", ok, err)
		}
		if got := updateFilter(mt).Lookup("abusereport").StringValue(); got != "" {
			mt.Errorf("filter must require a published message, got %q", got)
		}

		// Already deactivated by the first report.
		mt.AddMockResponses(updated(0))
		ok, err = a.MessageDeactivate(msg, t.Uid(602))
		if err != nil || ok {
			mt.Errorf("second deactivation: %v, %v", ok, err)
		}
	})
}

func TestCreateDuplicate(tt *testing.T) {
	mt := mtest.New(tt, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("subscription", func(mt *mtest.T) {
		a := mockAdapter(mt)
		sub := &t.Subscription{User: t.Uid(101).String(), Conversation: t.Uid(201).String()}
		sub.Id = t.SubscriptionId(sub.Conversation, sub.User)

		mt.AddMockResponses(mtest.CreateSuccessResponse(), duplicateKey())
		if err := a.SubsCreate(sub); err != nil {
			mt.Fatal(err)
		}
		if err := a.SubsCreate(sub); err != t.ErrDuplicate {
			mt.Errorf("expected ErrDuplicate, got %v", err)
		}
	})

	mt.Run("abuse report", func(mt *mtest.T) {
		a := mockAdapter(mt)
		rep := &t.AbuseReport{User: t.Uid(101).String(), Message: t.Uid(501).String()}
		rep.SetUid(t.Uid(601))

		mt.AddMockResponses(mtest.CreateSuccessResponse(), duplicateKey())
		if err := a.AbuseReportCreate(rep); err != nil {
			mt.Fatal(err)
		}
		dupe := &t.AbuseReport{User: rep.User, Message: rep.Message}
		dupe.SetUid(t.Uid(602))
		if err := a.AbuseReportCreate(dupe); err != t.ErrDuplicate {
			mt.Errorf("expected ErrDuplicate, got %v", err)
		}
	})
}
