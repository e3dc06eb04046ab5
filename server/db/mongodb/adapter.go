//go:build mongodb
// +build mongodb

// Package mongodb is a database adapter for MongoDB.
package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/echowaves/chat/server/db/common"
	"github.com/echowaves/chat/server/logs"
	"github.com/echowaves/chat/server/store"
	t "github.com/echowaves/chat/server/store/types"
	b "go.mongodb.org/mongo-driver/bson"
	mdb "go.mongodb.org/mongo-driver/mongo"
	mdbopts "go.mongodb.org/mongo-driver/mongo/options"
)

// adapter holds MongoDB connection data.
type adapter struct {
	conn            *mdb.Client
	db              *mdb.Database
	dbName          string
	maxResults      int
	version         int
	ctx             context.Context
	useTransactions bool
}

const (
	defaultHost     = "localhost:27017"
	defaultDatabase = "convo"

	adpVersion  = 2
	adapterName = "mongodb"

	defaultMaxResults = 1024
)

// See https://godoc.org/go.mongodb.org/mongo-driver/mongo/options#ClientOptions for explanations.
type configType struct {
	Addresses      interface{} `json:"addresses,omitempty"`
	ConnectTimeout int         `json:"timeout,omitempty"`

	// Options separately from ClientOptions (custom options):
	Database   string `json:"database,omitempty"`
	ReplicaSet string `json:"replica_set,omitempty"`

	AuthSource string `json:"auth_source,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
}

// Open initializes mongodb session
func (a *adapter) Open(jsonconfig json.RawMessage) error {
	if a.conn != nil {
		return errors.New("adapter mongodb is already connected")
	}

	if len(jsonconfig) < 2 {
		return errors.New("adapter mongodb missing config")
	}

	var err error
	var config configType
	if err = json.Unmarshal(jsonconfig, &config); err != nil {
		return errors.New("adapter mongodb failed to parse config: " + err.Error())
	}

	var opts mdbopts.ClientOptions

	switch addr := config.Addresses.(type) {
	case nil:
		opts.SetHosts([]string{defaultHost})
	case string:
		opts.SetHosts([]string{addr})
	case []interface{}:
		// JSON arrays are decoded as []interface{}.
		var hosts []string
		for _, h := range addr {
			host, ok := h.(string)
			if !ok {
				return errors.New("adapter mongodb failed to parse config.Addresses")
			}
			hosts = append(hosts, host)
		}
		opts.SetHosts(hosts)
	default:
		return errors.New("adapter mongodb failed to parse config.Addresses")
	}

	if config.Database == "" {
		a.dbName = defaultDatabase
	} else {
		a.dbName = config.Database
	}

	if config.ReplicaSet == "" {
		logs.Info.Println("MongoDB configured as standalone or replica_set option not set. Transaction support is disabled.")
	} else {
		opts.SetReplicaSet(config.ReplicaSet)
		a.useTransactions = true
	}

	if config.ConnectTimeout > 0 {
		opts.SetConnectTimeout(time.Duration(config.ConnectTimeout) * time.Second)
	}

	if config.Username != "" {
		var passwordSet bool
		if config.AuthSource == "" {
			config.AuthSource = "admin"
		}
		if config.Password != "" {
			passwordSet = true
		}
		opts.SetAuth(
			mdbopts.Credential{
				AuthMechanism: "SCRAM-SHA-256",
				AuthSource:    config.AuthSource,
				Username:      config.Username,
				Password:      config.Password,
				PasswordSet:   passwordSet,
			})
	}

	if a.maxResults <= 0 {
		a.maxResults = defaultMaxResults
	}

	a.ctx = context.Background()
	a.conn, err = mdb.Connect(a.ctx, &opts)
	if err != nil {
		a.conn = nil
		return err
	}
	a.db = a.conn.Database(a.dbName)
	a.version = -1

	return nil
}

// Close the adapter
func (a *adapter) Close() error {
	var err error
	if a.conn != nil {
		err = a.conn.Disconnect(a.ctx)
		a.conn = nil
		a.version = -1
	}
	return err
}

// IsOpen checks if the adapter is ready for use
func (a *adapter) IsOpen() bool {
	return a.conn != nil
}

// GetDbVersion returns current database version.
func (a *adapter) GetDbVersion() (int, error) {
	if a.version > 0 {
		return a.version, nil
	}

	var result struct {
		Key   string `bson:"_id"`
		Value int
	}
	if err := a.db.Collection("kvmeta").FindOne(a.ctx, b.M{"_id": "version"}).Decode(&result); err != nil {
		if err == mdb.ErrNoDocuments {
			err = errors.New("Database not initialized")
		}
		return -1, err
	}

	a.version = result.Value
	return result.Value, nil
}

// CheckDbVersion checks if the actual database version matches adapter version.
func (a *adapter) CheckDbVersion() error {
	version, err := a.GetDbVersion()
	if err != nil {
		return err
	}

	if version != adpVersion {
		return errors.New("Invalid database version " + strconv.Itoa(version) +
			". Expected " + strconv.Itoa(adpVersion))
	}

	return nil
}

// Version returns adapter version
func (a *adapter) Version() int {
	return adpVersion
}

// Stats is not implemented for MongoDB.
func (a *adapter) Stats() interface{} {
	return nil
}

// GetName returns the name of the adapter
func (a *adapter) GetName() string {
	return adapterName
}

// SetMaxResults configures how many results can be returned in a single DB call.
func (a *adapter) SetMaxResults(val int) error {
	if val <= 0 {
		a.maxResults = defaultMaxResults
	} else {
		a.maxResults = val
	}

	return nil
}

// CreateDb creates the database optionally dropping an existing database first.
func (a *adapter) CreateDb(reset bool) error {
	if reset {
		logs.Info.Print("Dropping database...")
		if err := a.db.Drop(a.ctx); err != nil {
			return err
		}
	} else if a.isDbInitialized() {
		return errors.New("Database already initialized")
	}
	// Collections (tables) do not need to be explicitly created since MongoDB creates them with first write operation

	indexes := []struct {
		Collection string
		Field      string
		IndexOpts  mdb.IndexModel
	}{
		// Users: login and email are unique.
		{
			Collection: "users",
			IndexOpts:  mdb.IndexModel{Keys: b.M{"login": 1}, Options: mdbopts.Index().SetUnique(true)},
		},
		{
			Collection: "users",
			IndexOpts:  mdb.IndexModel{Keys: b.M{"email": 1}, Options: mdbopts.Index().SetUnique(true)},
		},

		// Conversations by owner.
		{
			Collection: "conversations",
			Field:      "owner",
		},

		// Subscription to a conversation. The primary key is a conversation:user string.
		// Compound index for listing user's subscriptions most recent first.
		{
			Collection: "subscriptions",
			IndexOpts:  mdb.IndexModel{Keys: b.D{{"user", 1}, {"activatedat", -1}}},
		},
		{
			Collection: "subscriptions",
			Field:      "conversation",
		},

		// Invites of a user to a conversation.
		{
			Collection: "invites",
			IndexOpts:  mdb.IndexModel{Keys: b.D{{"user", 1}, {"conversation", 1}, {"createdat", -1}}},
		},

		// One report per user per message.
		{
			Collection: "abusereports",
			IndexOpts: mdb.IndexModel{
				Keys:    b.D{{"message", 1}, {"user", 1}},
				Options: mdbopts.Index().SetUnique(true),
			},
		},

		// Messages in a conversation for counting unread.
		{
			Collection: "messages",
			IndexOpts:  mdb.IndexModel{Keys: b.D{{"conversation", 1}, {"createdat", 1}}},
		},

		// Taggings: a tag is applied by a user to a conversation only once.
		{
			Collection: "taggings",
			IndexOpts: mdb.IndexModel{
				Keys:    b.D{{"conversation", 1}, {"user", 1}, {"tag", 1}},
				Options: mdbopts.Index().SetUnique(true),
			},
		},
		{
			Collection: "taggings",
			Field:      "tag",
		},

		// Visits: one record per user per conversation.
		{
			Collection: "visits",
			IndexOpts: mdb.IndexModel{
				Keys:    b.D{{"user", 1}, {"conversation", 1}},
				Options: mdbopts.Index().SetUnique(true),
			},
		},
		{
			Collection: "visits",
			IndexOpts:  mdb.IndexModel{Keys: b.D{{"user", 1}, {"updatedat", -1}}},
		},
	}

	var err error
	for _, idx := range indexes {
		if idx.Field != "" {
			_, err = a.db.Collection(idx.Collection).Indexes().CreateOne(a.ctx, mdb.IndexModel{Keys: b.M{idx.Field: 1}})
		} else {
			_, err = a.db.Collection(idx.Collection).Indexes().CreateOne(a.ctx, idx.IndexOpts)
		}
		if err != nil {
			return err
		}
	}

	// Collection "kvmeta" with metadata key-value pairs.
	// Key in "_id" field.
	// Record current DB version.
	if _, err := a.db.Collection("kvmeta").InsertOne(a.ctx, map[string]interface{}{"_id": "version", "value": adpVersion}); err != nil {
		return err
	}

	return nil
}

// UpgradeDb upgrades database to the current adapter version.
func (a *adapter) UpgradeDb() error {
	bumpVersion := func(a *adapter, x int) error {
		if err := a.updateDbVersion(x); err != nil {
			return err
		}
		_, err := a.GetDbVersion()
		return err
	}

	_, err := a.GetDbVersion()
	if err != nil {
		return err
	}

	if a.version == 1 {
		// Perform database upgrade from version 1 to version 2.

		// Index for the most recent visits.
		if _, err = a.db.Collection("visits").Indexes().CreateOne(a.ctx,
			mdb.IndexModel{Keys: b.D{{"user", 1}, {"updatedat", -1}}}); err != nil {
			return err
		}

		if err := bumpVersion(a, 2); err != nil {
			return err
		}
	}

	if a.version != adpVersion {
		return errors.New("Failed to perform database upgrade to version " + strconv.Itoa(adpVersion) +
			". DB is still at " + strconv.Itoa(a.version))
	}
	return nil
}

func (a *adapter) updateDbVersion(v int) error {
	a.version = -1
	_, err := a.db.Collection("kvmeta").UpdateOne(a.ctx,
		b.M{"_id": "version"},
		b.M{"$set": b.M{"value": v}},
	)
	return err
}

func (a *adapter) maybeStartTransaction(sess mdb.Session) error {
	if a.useTransactions {
		return sess.StartTransaction()
	}
	return nil
}

func (a *adapter) maybeCommitTransaction(ctx context.Context, sess mdb.Session) error {
	if a.useTransactions {
		return sess.CommitTransaction(ctx)
	}
	return nil
}

// insertOne inserts a document translating duplicate key errors.
func (a *adapter) insertOne(collection string, doc interface{}) error {
	if _, err := a.db.Collection(collection).InsertOne(a.ctx, doc); err != nil {
		if isDuplicateErr(err) {
			return t.ErrDuplicate
		}
		return err
	}
	return nil
}

// findOne decodes a single document into result. Returns false if nothing was found.
func (a *adapter) findOne(collection string, filter b.M, result interface{}, opts ...*mdbopts.FindOneOptions) (bool, error) {
	if err := a.db.Collection(collection).FindOne(a.ctx, filter, opts...).Decode(result); err != nil {
		if err == mdb.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// User management

// UserCreate creates user record
func (a *adapter) UserCreate(usr *t.User) error {
	return a.insertOne("users", usr)
}

// UserGet fetches a single user by user id. If user is not found it returns (nil, nil)
func (a *adapter) UserGet(id t.Uid) (*t.User, error) {
	var user t.User
	if found, err := a.findOne("users", b.M{"_id": id.String()}, &user); !found {
		return nil, err
	}
	return &user, nil
}

// UserGetAll returns user records for a given list of user IDs
func (a *adapter) UserGetAll(ids ...t.Uid) ([]t.User, error) {
	users := []t.User{}
	cur, err := a.db.Collection("users").Find(a.ctx, b.M{"_id": b.M{"$in": uidStrings(ids)}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(a.ctx)

	for cur.Next(a.ctx) {
		var user t.User
		if err := cur.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, cur.Err()
}

// UserGetByLogin finds user by login.
func (a *adapter) UserGetByLogin(login string) (*t.User, error) {
	var user t.User
	if found, err := a.findOne("users", b.M{"login": login}, &user); !found {
		return nil, err
	}
	return &user, nil
}

// UserUpdate updates user record
func (a *adapter) UserUpdate(uid t.Uid, update map[string]interface{}) error {
	_, err := a.db.Collection("users").UpdateOne(a.ctx, b.M{"_id": uid.String()},
		b.M{"$set": common.NormalizeUpdateMap(update)})
	if isDuplicateErr(err) {
		return t.ErrDuplicate
	}
	return err
}

// Conversations

// ConvCreate creates a conversation.
func (a *adapter) ConvCreate(conv *t.Conversation) error {
	return a.insertOne("conversations", conv)
}

// ConvGet loads a single conversation by id. Returns (nil, nil) if not found.
func (a *adapter) ConvGet(id t.Uid) (*t.Conversation, error) {
	var conv t.Conversation
	if found, err := a.findOne("conversations", b.M{"_id": id.String()}, &conv); !found {
		return nil, err
	}
	return &conv, nil
}

func (a *adapter) convsByFilter(filter b.M) ([]t.Conversation, error) {
	convs := []t.Conversation{}
	cur, err := a.db.Collection("conversations").Find(a.ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(a.ctx)

	for cur.Next(a.ctx) {
		var conv t.Conversation
		if err := cur.Decode(&conv); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, cur.Err()
}

// ConvGetAll loads conversations with the given ids.
func (a *adapter) ConvGetAll(ids ...t.Uid) ([]t.Conversation, error) {
	return a.convsByFilter(b.M{"_id": b.M{"$in": uidStrings(ids)}})
}

// ConvUpdate updates conversation record.
func (a *adapter) ConvUpdate(id t.Uid, update map[string]interface{}) error {
	_, err := a.db.Collection("conversations").UpdateOne(a.ctx, b.M{"_id": id.String()},
		b.M{"$set": common.NormalizeUpdateMap(update)})
	return err
}

// ConvUpsertVisit records the time of the user's visit to the conversation.
func (a *adapter) ConvUpsertVisit(id, user t.Uid, when time.Time) error {
	_, err := a.db.Collection("visits").UpdateOne(a.ctx,
		b.M{"user": user.String(), "conversation": id.String()},
		b.M{"$set": b.M{"updatedat": when}},
		mdbopts.Update().SetUpsert(true))
	if isDuplicateErr(err) {
		// Concurrent upsert created the record first. Retry as a plain update.
		_, err = a.db.Collection("visits").UpdateOne(a.ctx,
			b.M{"user": user.String(), "conversation": id.String()},
			b.M{"$set": b.M{"updatedat": when}})
	}
	return err
}

// ConvRecentForUser returns conversations recently visited by the user, newest visit first.
func (a *adapter) ConvRecentForUser(user t.Uid, limit int) ([]t.Conversation, error) {
	if limit <= 0 || limit > a.maxResults {
		limit = a.maxResults
	}

	findOpts := mdbopts.Find().SetSort(b.D{{"updatedat", -1}}).SetLimit(int64(limit))
	cur, err := a.db.Collection("visits").Find(a.ctx, b.M{"user": user.String()}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(a.ctx)

	var ids []t.Uid
	for cur.Next(a.ctx) {
		var visit t.Visit
		if err := cur.Decode(&visit); err != nil {
			return nil, err
		}
		ids = append(ids, t.ParseUid(visit.Conversation))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []t.Conversation{}, nil
	}

	convs, err := a.ConvGetAll(ids...)
	if err != nil {
		return nil, err
	}

	// Restore the order of visits.
	order := common.OrderByIds(ids, func(i int) t.Uid { return convs[i].Uid() }, len(convs))
	result := make([]t.Conversation, 0, len(order))
	for _, i := range order {
		result = append(result, convs[i])
	}
	return result, nil
}

// ConvTagCounts returns tags applied to the conversation with their counts, ordered by tag.
func (a *adapter) ConvTagCounts(id t.Uid) ([]t.TagCount, error) {
	pipeline := b.A{
		b.M{"$match": b.M{"conversation": id.String()}},
		b.M{"$group": b.M{"_id": "$tag", "count": b.M{"$sum": 1}}},
		b.M{"$sort": b.M{"_id": 1}},
	}
	cur, err := a.db.Collection("taggings").Aggregate(a.ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(a.ctx)

	var counts []t.TagCount
	for cur.Next(a.ctx) {
		var row struct {
			Tag   string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts = append(counts, t.TagCount{Tag: row.Tag, Count: row.Count})
	}
	return counts, cur.Err()
}

// ConvTagsAdd adds user's taggings. Existing taggings are left intact.
func (a *adapter) ConvTagsAdd(id, user t.Uid, tags []string) error {
	tags = common.UniqueTags(tags)
	if len(tags) == 0 {
		return nil
	}

	sess, err := a.conn.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(a.ctx)

	if err = a.maybeStartTransaction(sess); err != nil {
		return err
	}

	return mdb.WithSession(a.ctx, sess, func(sc mdb.SessionContext) error {
		coll := a.db.Collection("taggings")
		for _, tag := range tags {
			tagging := t.Tagging{Conversation: id.String(), User: user.String(), Tag: tag}
			if _, err := coll.InsertOne(sc, &tagging); err != nil && !isDuplicateErr(err) {
				return err
			}
		}
		return a.maybeCommitTransaction(sc, sess)
	})
}

// ConvTagsRemove deletes user's taggings.
func (a *adapter) ConvTagsRemove(id, user t.Uid, tags []string) error {
	tags = common.UniqueTags(tags)
	if len(tags) == 0 {
		return nil
	}

	_, err := a.db.Collection("taggings").DeleteMany(a.ctx, b.M{
		"conversation": id.String(),
		"user":         user.String(),
		"tag":          b.M{"$in": tags},
	})
	return err
}

// Subscriptions

// countUnread counts published messages newer than the subscription's read marker.
func (a *adapter) countUnread(sub *t.Subscription) error {
	count, err := a.db.Collection("messages").CountDocuments(a.ctx, b.M{
		"conversation": sub.Conversation,
		"createdat":    b.M{"$gt": sub.LastReadAt},
		"abusereport":  "",
	})
	if err != nil {
		return err
	}
	sub.SetUnread(int(count))
	return nil
}

func (a *adapter) subsByFilter(filter b.M, findOpts *mdbopts.FindOptions) ([]t.Subscription, error) {
	cur, err := a.db.Collection("subscriptions").Find(a.ctx, filter, findOpts.SetLimit(int64(a.maxResults)))
	if err != nil {
		return nil, err
	}
	defer cur.Close(a.ctx)

	var subs []t.Subscription
	for cur.Next(a.ctx) {
		var ss t.Subscription
		if err := cur.Decode(&ss); err != nil {
			return nil, err
		}
		if err := a.countUnread(&ss); err != nil {
			return nil, err
		}
		subs = append(subs, ss)
	}

	return subs, cur.Err()
}

// SubsCreate creates a subscription. Returns t.ErrDuplicate if one already exists.
func (a *adapter) SubsCreate(sub *t.Subscription) error {
	return a.insertOne("subscriptions", sub)
}

// SubsGet reads a subscription of a user to a conversation.
func (a *adapter) SubsGet(conv, user t.Uid) (*t.Subscription, error) {
	sub := new(t.Subscription)
	found, err := a.findOne("subscriptions", b.M{"_id": t.SubscriptionId(conv.String(), user.String())}, sub)
	if !found {
		return nil, err
	}
	if err = a.countUnread(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// SubsForUser loads user's subscriptions, most recently activated first.
func (a *adapter) SubsForUser(user t.Uid) ([]t.Subscription, error) {
	return a.subsByFilter(b.M{"user": user.String()}, mdbopts.Find().SetSort(b.D{{"activatedat", -1}}))
}

// SubsForConv loads all subscriptions to the conversation.
func (a *adapter) SubsForConv(conv t.Uid) ([]t.Subscription, error) {
	return a.subsByFilter(b.M{"conversation": conv.String()}, mdbopts.Find().SetSort(b.D{{"createdat", 1}}))
}

// SubsUpdate updates part of a subscription object.
func (a *adapter) SubsUpdate(conv, user t.Uid, update map[string]interface{}) error {
	_, err := a.db.Collection("subscriptions").UpdateOne(a.ctx,
		b.M{"_id": t.SubscriptionId(conv.String(), user.String())},
		b.M{"$set": common.NormalizeUpdateMap(update)})
	return err
}

// SubsDelete deletes a single subscription
func (a *adapter) SubsDelete(conv, user t.Uid) error {
	res, err := a.db.Collection("subscriptions").DeleteOne(a.ctx,
		b.M{"_id": t.SubscriptionId(conv.String(), user.String())})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return t.ErrNotFound
	}
	return nil
}

// Invites

// InviteCreate stores a new invite.
func (a *adapter) InviteCreate(inv *t.Invite) error {
	return a.insertOne("invites", inv)
}

// InviteFind returns the most recent invite of the user to the conversation or (nil, nil).
func (a *adapter) InviteFind(user, conv t.Uid) (*t.Invite, error) {
	var inv t.Invite
	found, err := a.findOne("invites", b.M{"user": user.String(), "conversation": conv.String()}, &inv,
		mdbopts.FindOne().SetSort(b.D{{"createdat", -1}}))
	if !found {
		return nil, err
	}
	return &inv, nil
}

// InviteConsume swaps the token of an unconsumed invite if the current token matches.
func (a *adapter) InviteConsume(id t.Uid, token, replacement string, when time.Time) (bool, error) {
	res, err := a.db.Collection("invites").UpdateOne(a.ctx,
		b.M{"_id": id.String(), "token": token, "consumedat": nil},
		b.M{"$set": b.M{"token": replacement, "consumedat": when, "updatedat": when}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// InviteRestore makes a consumed invite usable again if it still holds the spent token.
func (a *adapter) InviteRestore(id t.Uid, spent, token string, when time.Time) (bool, error) {
	res, err := a.db.Collection("invites").UpdateOne(a.ctx,
		b.M{"_id": id.String(), "token": spent, "consumedat": b.M{"$ne": nil}},
		b.M{"$set": b.M{"token": token, "consumedat": nil, "updatedat": when}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// InviteDelete removes all invites of the user to the conversation.
func (a *adapter) InviteDelete(user, conv t.Uid) error {
	_, err := a.db.Collection("invites").DeleteMany(a.ctx,
		b.M{"user": user.String(), "conversation": conv.String()})
	return err
}

// Abuse reports

// AbuseReportCreate stores a report. Returns t.ErrDuplicate if the user already reported the message.
func (a *adapter) AbuseReportCreate(rep *t.AbuseReport) error {
	return a.insertOne("abusereports", rep)
}

// AbuseReportGet returns user's report against the message or (nil, nil).
func (a *adapter) AbuseReportGet(msg, user t.Uid) (*t.AbuseReport, error) {
	var rep t.AbuseReport
	if found, err := a.findOne("abusereports", b.M{"message": msg.String(), "user": user.String()}, &rep); !found {
		return nil, err
	}
	return &rep, nil
}

// AbuseReportsForMessage returns all reports against the message, oldest first.
func (a *adapter) AbuseReportsForMessage(msg t.Uid) ([]t.AbuseReport, error) {
	findOpts := mdbopts.Find().SetSort(b.D{{"createdat", 1}, {"_id", 1}})
	cur, err := a.db.Collection("abusereports").Find(a.ctx, b.M{"message": msg.String()}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(a.ctx)

	var reps []t.AbuseReport
	for cur.Next(a.ctx) {
		var rep t.AbuseReport
		if err := cur.Decode(&rep); err != nil {
			return nil, err
		}
		reps = append(reps, rep)
	}
	return reps, cur.Err()
}

// Messages

// MessageSave saves message to database
func (a *adapter) MessageSave(msg *t.Message) error {
	return a.insertOne("messages", msg)
}

// MessageGet loads a message by id or returns (nil, nil).
func (a *adapter) MessageGet(id t.Uid) (*t.Message, error) {
	var msg t.Message
	if found, err := a.findOne("messages", b.M{"_id": id.String()}, &msg); !found {
		return nil, err
	}
	return &msg, nil
}

// MessageDeactivate attaches the report to a published message.
func (a *adapter) MessageDeactivate(id, report t.Uid) (bool, error) {
	res, err := a.db.Collection("messages").UpdateOne(a.ctx,
		b.M{"_id": id.String(), "abusereport": ""},
		b.M{"$set": b.M{"abusereport": report.String(), "updatedat": t.TimeNow()}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (a *adapter) isDbInitialized() bool {
	var result map[string]int

	findOpts := mdbopts.FindOneOptions{Projection: b.M{"value": 1, "_id": 0}}
	if err := a.db.Collection("kvmeta").FindOne(a.ctx, b.M{"_id": "version"}, &findOpts).Decode(&result); err != nil {
		return false
	}
	return true
}

func init() {
	store.RegisterAdapter(&adapter{})
}

// GetTestAdapter returns an unregistered adapter. Used by integration tests.
func GetTestAdapter() *adapter {
	return &adapter{}
}

func uidStrings(ids []t.Uid) []string {
	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = id.String()
	}
	return result
}

func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}

	if mdb.IsDuplicateKeyError(err) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key error")
}
