//go:build rethinkdb
// +build rethinkdb

// Package rethinkdb is a database adapter for RethinkDB.
package rethinkdb

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/echowaves/chat/server/db/common"
	"github.com/echowaves/chat/server/logs"
	"github.com/echowaves/chat/server/store"
	t "github.com/echowaves/chat/server/store/types"
	rdb "gopkg.in/rethinkdb/rethinkdb-go.v6"
)

// adapter holds RethinkDb connection data.
type adapter struct {
	conn       *rdb.Session
	dbName     string
	maxResults int
	version    int
}

const (
	defaultHost     = "localhost:28015"
	defaultDatabase = "convo"

	adpVersion = 2

	adapterName = "rethinkdb"

	defaultMaxResults = 1024

	// Compound index [User, ActivatedAt] on subscriptions.
	subsActivationIndex = "User_ActivatedAt"
)

// See https://godoc.org/gopkg.in/rethinkdb/rethinkdb-go.v6#ConnectOpts for explanations.
type configType struct {
	Database            string      `json:"database,omitempty"`
	Addresses           interface{} `json:"addresses,omitempty"`
	Username            string      `json:"username,omitempty"`
	Password            string      `json:"password,omitempty"`
	AuthKey             string      `json:"authkey,omitempty"`
	Timeout             int         `json:"timeout,omitempty"`
	WriteTimeout        int         `json:"write_timeout,omitempty"`
	ReadTimeout         int         `json:"read_timeout,omitempty"`
	MaxIdle             int         `json:"max_idle,omitempty"`
	MaxOpen             int         `json:"max_open,omitempty"`
	DiscoverHosts       bool        `json:"discover_hosts,omitempty"`
	NodeRefreshInterval int         `json:"node_refresh_interval,omitempty"`
}

// Open initializes rethinkdb session
func (a *adapter) Open(jsonconfig json.RawMessage) error {
	if a.conn != nil {
		return errors.New("adapter rethinkdb is already connected")
	}

	if len(jsonconfig) < 2 {
		return errors.New("adapter rethinkdb missing config")
	}

	var err error
	var config configType
	if err = json.Unmarshal(jsonconfig, &config); err != nil {
		return errors.New("adapter rethinkdb failed to parse config: " + err.Error())
	}

	var opts rdb.ConnectOpts

	switch addr := config.Addresses.(type) {
	case nil:
		opts.Address = defaultHost
	case string:
		opts.Address = addr
	case []interface{}:
		for _, h := range addr {
			host, ok := h.(string)
			if !ok {
				return errors.New("adapter rethinkdb failed to parse config.Addresses")
			}
			opts.Addresses = append(opts.Addresses, host)
		}
	default:
		return errors.New("adapter rethinkdb failed to parse config.Addresses")
	}

	if config.Database == "" {
		a.dbName = defaultDatabase
	} else {
		a.dbName = config.Database
	}

	if a.maxResults <= 0 {
		a.maxResults = defaultMaxResults
	}

	opts.Database = a.dbName
	opts.Username = config.Username
	opts.Password = config.Password
	opts.AuthKey = config.AuthKey
	opts.Timeout = time.Duration(config.Timeout) * time.Second
	opts.WriteTimeout = time.Duration(config.WriteTimeout) * time.Second
	opts.ReadTimeout = time.Duration(config.ReadTimeout) * time.Second
	opts.MaxIdle = config.MaxIdle
	opts.MaxOpen = config.MaxOpen
	opts.DiscoverHosts = config.DiscoverHosts
	opts.NodeRefreshInterval = time.Duration(config.NodeRefreshInterval) * time.Second

	a.conn, err = rdb.Connect(opts)
	if err != nil {
		a.conn = nil
		return err
	}

	a.version = -1

	return nil
}

// Close closes the underlying database connection
func (a *adapter) Close() error {
	var err error
	if a.conn != nil {
		// Close will wait for all outstanding requests to finish
		err = a.conn.Close()
		a.conn = nil
		a.version = -1
	}
	return err
}

// IsOpen returns true if connection to database has been established. It does not check if
// connection is actually live.
func (a *adapter) IsOpen() bool {
	return a.conn != nil
}

// GetDbVersion returns current database version.
func (a *adapter) GetDbVersion() (int, error) {
	if a.version > 0 {
		return a.version, nil
	}

	cursor, err := rdb.DB(a.dbName).Table("kvmeta").Get("version").Field("value").Run(a.conn)
	if err != nil {
		return -1, err
	}
	defer cursor.Close()

	if cursor.IsNil() {
		return -1, errors.New("Database not initialized")
	}

	var vers int
	if err = cursor.One(&vers); err != nil {
		return -1, err
	}

	a.version = vers

	return vers, nil
}

// CheckDbVersion checks whether the actual DB version matches the expected version of this adapter.
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

// Version returns adapter version.
func (adapter) Version() int {
	return adpVersion
}

// Stats is not implemented for RethinkDB.
func (a *adapter) Stats() interface{} {
	return nil
}

// GetName returns string that adapter uses to register itself with store.
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

// CreateDb initializes the storage. If reset is true, the database is first deleted losing all the data.
func (a *adapter) CreateDb(reset bool) error {
	// Drop database if exists, ignore error if it does not.
	if reset {
		rdb.DBDrop(a.dbName).RunWrite(a.conn)
	}

	if _, err := rdb.DBCreate(a.dbName).RunWrite(a.conn); err != nil {
		return err
	}

	// Table with metadata key-value pairs.
	if _, err := rdb.DB(a.dbName).TableCreate("kvmeta", rdb.TableCreateOpts{PrimaryKey: "key"}).RunWrite(a.conn); err != nil {
		return err
	}

	// Users
	if _, err := rdb.DB(a.dbName).TableCreate("users", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}
	// Secondary index on Login so user can be found by login.
	if _, err := rdb.DB(a.dbName).Table("users").IndexCreate("Login").RunWrite(a.conn); err != nil {
		return err
	}
	// Index of unique user identifiers as strings, such as "login:jdoe" or "email:jdoe@example.com":
	// {Id: <unique>, Source: <uid>} to ensure uniqueness.
	if _, err := rdb.DB(a.dbName).TableCreate("userunique", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}

	// Conversations
	if _, err := rdb.DB(a.dbName).TableCreate("conversations", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}
	if _, err := rdb.DB(a.dbName).Table("conversations").IndexCreate("Owner").RunWrite(a.conn); err != nil {
		return err
	}

	// Subscription to a conversation. The primary key is a Conversation:User string
	if _, err := rdb.DB(a.dbName).TableCreate("subscriptions", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}
	if _, err := rdb.DB(a.dbName).Table("subscriptions").IndexCreate("User").RunWrite(a.conn); err != nil {
		return err
	}
	if _, err := rdb.DB(a.dbName).Table("subscriptions").IndexCreate("Conversation").RunWrite(a.conn); err != nil {
		return err
	}
	if err := a.createSubsActivationIndex(); err != nil {
		return err
	}

	// Invites
	if _, err := rdb.DB(a.dbName).TableCreate("invites", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}
	if _, err := rdb.DB(a.dbName).Table("invites").IndexCreateFunc("User_Conversation",
		func(row rdb.Term) interface{} {
			return []interface{}{row.Field("User"), row.Field("Conversation")}
		}).RunWrite(a.conn); err != nil {
		return err
	}

	// Abuse reports. The uniqueness of Message:User pairs is guaranteed by the primary key
	// of the "reportunique" table.
	if _, err := rdb.DB(a.dbName).TableCreate("abusereports", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}
	if _, err := rdb.DB(a.dbName).Table("abusereports").IndexCreate("Message").RunWrite(a.conn); err != nil {
		return err
	}
	if _, err := rdb.DB(a.dbName).TableCreate("reportunique", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}

	// Stored message
	if _, err := rdb.DB(a.dbName).TableCreate("messages", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}
	if _, err := rdb.DB(a.dbName).Table("messages").IndexCreateFunc("Conversation_CreatedAt",
		func(row rdb.Term) interface{} {
			return []interface{}{row.Field("Conversation"), row.Field("CreatedAt")}
		}).RunWrite(a.conn); err != nil {
		return err
	}

	// Taggings. The primary key is a Conversation:User:Tag string.
	if _, err := rdb.DB(a.dbName).TableCreate("taggings", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}
	if _, err := rdb.DB(a.dbName).Table("taggings").IndexCreate("Conversation").RunWrite(a.conn); err != nil {
		return err
	}

	// Visits. The primary key is a User:Conversation string.
	if err := a.createVisitsTable(); err != nil {
		return err
	}

	// Record current DB version.
	if _, err := rdb.DB(a.dbName).Table("kvmeta").Insert(
		map[string]interface{}{"key": "version", "value": adpVersion}).RunWrite(a.conn); err != nil {
		return err
	}

	return nil
}

func (a *adapter) createVisitsTable() error {
	if _, err := rdb.DB(a.dbName).TableCreate("visits", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}
	if _, err := rdb.DB(a.dbName).Table("visits").IndexCreateFunc("User_UpdatedAt",
		func(row rdb.Term) interface{} {
			return []interface{}{row.Field("User"), row.Field("UpdatedAt")}
		}).RunWrite(a.conn); err != nil {
		return err
	}
	return nil
}

// Index for listing user's subscriptions by activation time.
func (a *adapter) createSubsActivationIndex() error {
	_, err := rdb.DB(a.dbName).Table("subscriptions").IndexCreateFunc(subsActivationIndex,
		func(row rdb.Term) interface{} {
			return []interface{}{row.Field("User"), row.Field("ActivatedAt")}
		}).RunWrite(a.conn)
	return err
}

// UpgradeDb upgrades the database, if necessary.
func (a *adapter) UpgradeDb() error {
	bumpVersion := func(a *adapter, x int) error {
		if err := a.updateDbVersion(x); err != nil {
			return err
		}
		_, err := a.GetDbVersion()
		return err
	}

	if _, err := a.GetDbVersion(); err != nil {
		return err
	}

	if a.version == 1 {
		// Version 2 introduced visits and the subscription activation index.
		if err := a.createVisitsTable(); err != nil {
			return err
		}
		if err := a.createSubsActivationIndex(); err != nil {
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
	if _, err := rdb.DB(a.dbName).Table("kvmeta").Get("version").
		Update(map[string]interface{}{"value": v}).RunWrite(a.conn); err != nil {
		return err
	}
	return nil
}

// insert stores a document translating primary key conflicts.
func (a *adapter) insert(table string, doc interface{}) error {
	if _, err := rdb.DB(a.dbName).Table(table).Insert(doc).RunWrite(a.conn); err != nil {
		if rdb.IsConflictErr(err) {
			return t.ErrDuplicate
		}
		return err
	}
	return nil
}

// getOne fetches a single document by primary key. Returns false if the document does not exist.
func (a *adapter) getOne(table, id string, result interface{}) (bool, error) {
	cursor, err := rdb.DB(a.dbName).Table(table).Get(id).Run(a.conn)
	if err != nil {
		return false, err
	}
	defer cursor.Close()

	if cursor.IsNil() {
		return false, nil
	}
	if err = cursor.One(result); err != nil {
		return false, err
	}
	return true, nil
}

// User management

// userUniques returns unique identifiers of the user.
func userUniques(login, email string) []string {
	var uniques []string
	if login != "" {
		uniques = append(uniques, "login:"+login)
	}
	if email != "" {
		uniques = append(uniques, "email:"+email)
	}
	return uniques
}

// claimUniques records unique identifiers of the user. On conflict the successfully
// inserted identifiers are removed.
func (a *adapter) claimUniques(uid string, uniques []string) error {
	if len(uniques) == 0 {
		return nil
	}

	type unique struct {
		Id     string
		Source string
	}
	docs := make([]unique, 0, len(uniques))
	for _, u := range uniques {
		docs = append(docs, unique{Id: u, Source: uid})
	}
	res, err := rdb.DB(a.dbName).Table("userunique").Insert(docs).RunWrite(a.conn)
	if err != nil || res.Inserted != len(uniques) {
		if res.Inserted > 0 {
			// Something went wrong, do best effort delete of inserted uniques.
			rdb.DB(a.dbName).Table("userunique").GetAll(stringsToInterfaces(uniques)...).
				Filter(map[string]interface{}{"Source": uid}).Delete().RunWrite(a.conn)
		}
		if err == nil || rdb.IsConflictErr(err) {
			return t.ErrDuplicate
		}
		return err
	}
	return nil
}

// UserCreate creates a new user.
func (a *adapter) UserCreate(user *t.User) error {
	uniques := userUniques(user.Login, user.Email)
	if err := a.claimUniques(user.Id, uniques); err != nil {
		return err
	}

	if err := a.insert("users", user); err != nil {
		rdb.DB(a.dbName).Table("userunique").GetAll(stringsToInterfaces(uniques)...).Delete().RunWrite(a.conn)
		return err
	}
	return nil
}

// UserGet fetches a single user by user id. If user is not found it returns (nil, nil)
func (a *adapter) UserGet(uid t.Uid) (*t.User, error) {
	var user t.User
	if found, err := a.getOne("users", uid.String(), &user); !found {
		return nil, err
	}
	return &user, nil
}

// UserGetAll returns user records for a given list of user IDs
func (a *adapter) UserGetAll(ids ...t.Uid) ([]t.User, error) {
	users := []t.User{}
	if len(ids) == 0 {
		return users, nil
	}

	cursor, err := rdb.DB(a.dbName).Table("users").GetAll(uidsToInterfaces(ids)...).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	for {
		var user t.User
		if !cursor.Next(&user) {
			break
		}
		users = append(users, user)
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// UserGetByLogin finds user by login.
func (a *adapter) UserGetByLogin(login string) (*t.User, error) {
	cursor, err := rdb.DB(a.dbName).Table("users").GetAllByIndex("Login", login).Limit(1).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var user t.User
	if !cursor.Next(&user) {
		return nil, cursor.Err()
	}
	return &user, nil
}

// UserUpdate updates user record. Changes of login or email are checked for uniqueness.
func (a *adapter) UserUpdate(uid t.Uid, update map[string]interface{}) error {
	login, _ := update["Login"].(string)
	email, _ := update["Email"].(string)
	if uniques := userUniques(login, email); len(uniques) > 0 {
		old, err := a.UserGet(uid)
		if err != nil {
			return err
		}
		if old == nil {
			return t.ErrNotFound
		}
		var claim, release []string
		if login != "" && login != old.Login {
			claim = append(claim, "login:"+login)
			release = append(release, "login:"+old.Login)
		}
		if email != "" && email != old.Email {
			claim = append(claim, "email:"+email)
			release = append(release, "email:"+old.Email)
		}
		if err := a.claimUniques(uid.String(), claim); err != nil {
			return err
		}
		if len(release) > 0 {
			if _, err := rdb.DB(a.dbName).Table("userunique").GetAll(stringsToInterfaces(release)...).
				Filter(map[string]interface{}{"Source": uid.String()}).Delete().RunWrite(a.conn); err != nil {
				logs.Warn.Println("rethinkdb: failed to release user uniques", uid, err)
			}
		}
	}

	_, err := rdb.DB(a.dbName).Table("users").Get(uid.String()).Update(update).RunWrite(a.conn)
	return err
}

// Conversations

// ConvCreate creates a conversation.
func (a *adapter) ConvCreate(conv *t.Conversation) error {
	return a.insert("conversations", conv)
}

// ConvGet loads a single conversation by id. Returns (nil, nil) if not found.
func (a *adapter) ConvGet(id t.Uid) (*t.Conversation, error) {
	var conv t.Conversation
	if found, err := a.getOne("conversations", id.String(), &conv); !found {
		return nil, err
	}
	return &conv, nil
}

// ConvGetAll loads conversations with the given ids.
func (a *adapter) ConvGetAll(ids ...t.Uid) ([]t.Conversation, error) {
	convs := []t.Conversation{}
	if len(ids) == 0 {
		return convs, nil
	}

	cursor, err := rdb.DB(a.dbName).Table("conversations").GetAll(uidsToInterfaces(ids)...).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	for {
		var conv t.Conversation
		if !cursor.Next(&conv) {
			break
		}
		convs = append(convs, conv)
	}
	return convs, cursor.Err()
}

// ConvUpdate updates conversation record.
func (a *adapter) ConvUpdate(id t.Uid, update map[string]interface{}) error {
	_, err := rdb.DB(a.dbName).Table("conversations").Get(id.String()).Update(update).RunWrite(a.conn)
	return err
}

// ConvUpsertVisit records the time of the user's visit to the conversation.
func (a *adapter) ConvUpsertVisit(id, user t.Uid, when time.Time) error {
	_, err := rdb.DB(a.dbName).Table("visits").Insert(
		map[string]interface{}{
			"Id":           visitId(user.String(), id.String()),
			"User":         user.String(),
			"Conversation": id.String(),
			"UpdatedAt":    when,
		}, rdb.InsertOpts{Conflict: "update"}).RunWrite(a.conn)
	return err
}

// ConvRecentForUser returns conversations recently visited by the user, newest visit first.
func (a *adapter) ConvRecentForUser(user t.Uid, limit int) ([]t.Conversation, error) {
	if limit <= 0 || limit > a.maxResults {
		limit = a.maxResults
	}

	cursor, err := rdb.DB(a.dbName).Table("visits").
		Between([]interface{}{user.String(), rdb.MinVal}, []interface{}{user.String(), rdb.MaxVal},
			rdb.BetweenOpts{Index: "User_UpdatedAt"}).
		OrderBy(rdb.OrderByOpts{Index: rdb.Desc("User_UpdatedAt")}).
		Limit(limit).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var ids []t.Uid
	var visit t.Visit
	for cursor.Next(&visit) {
		ids = append(ids, t.ParseUid(visit.Conversation))
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	convs, err := a.ConvGetAll(ids...)
	if err != nil {
		return nil, err
	}

	// GetAll does not preserve the order of keys.
	order := common.OrderByIds(ids, func(i int) t.Uid { return convs[i].Uid() }, len(convs))
	result := make([]t.Conversation, 0, len(order))
	for _, i := range order {
		result = append(result, convs[i])
	}
	return result, nil
}

// ConvTagCounts returns tags applied to the conversation with their counts, ordered by tag.
func (a *adapter) ConvTagCounts(id t.Uid) ([]t.TagCount, error) {
	var taggings []t.Tagging
	if err := rdb.DB(a.dbName).Table("taggings").GetAllByIndex("Conversation", id.String()).
		ReadAll(&taggings, a.conn); err != nil {
		return nil, err
	}
	return common.CountTags(taggings), nil
}

// ConvTagsAdd adds user's taggings. Existing taggings are left intact.
func (a *adapter) ConvTagsAdd(id, user t.Uid, tags []string) error {
	tags = common.UniqueTags(tags)
	if len(tags) == 0 {
		return nil
	}

	docs := make([]map[string]interface{}, 0, len(tags))
	for _, tag := range tags {
		docs = append(docs, map[string]interface{}{
			"Id":           taggingId(id.String(), user.String(), tag),
			"Conversation": id.String(),
			"User":         user.String(),
			"Tag":          tag,
		})
	}
	// Conflict "update" with identical documents leaves existing taggings unchanged.
	_, err := rdb.DB(a.dbName).Table("taggings").Insert(docs, rdb.InsertOpts{Conflict: "update"}).RunWrite(a.conn)
	return err
}

// ConvTagsRemove deletes user's taggings.
func (a *adapter) ConvTagsRemove(id, user t.Uid, tags []string) error {
	tags = common.UniqueTags(tags)
	if len(tags) == 0 {
		return nil
	}

	keys := make([]interface{}, 0, len(tags))
	for _, tag := range tags {
		keys = append(keys, taggingId(id.String(), user.String(), tag))
	}
	_, err := rdb.DB(a.dbName).Table("taggings").GetAll(keys...).Delete().RunWrite(a.conn)
	return err
}

// Subscriptions

// countUnread counts published messages newer than the subscription's read marker.
func (a *adapter) countUnread(sub *t.Subscription) error {
	var count int
	if err := rdb.DB(a.dbName).Table("messages").
		Between([]interface{}{sub.Conversation, sub.LastReadAt}, []interface{}{sub.Conversation, rdb.MaxVal},
			rdb.BetweenOpts{Index: "Conversation_CreatedAt", LeftBound: "open"}).
		Filter(map[string]interface{}{"AbuseReport": ""}).
		Count().ReadOne(&count, a.conn); err != nil {
		return err
	}
	sub.SetUnread(count)
	return nil
}

func (a *adapter) subsByQuery(q rdb.Term) ([]t.Subscription, error) {
	cursor, err := q.Limit(a.maxResults).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var subs []t.Subscription
	for {
		var ss t.Subscription
		if !cursor.Next(&ss) {
			break
		}
		if err = a.countUnread(&ss); err != nil {
			return nil, err
		}
		subs = append(subs, ss)
	}
	return subs, cursor.Err()
}

// SubsCreate creates a subscription. Returns t.ErrDuplicate if one already exists.
func (a *adapter) SubsCreate(sub *t.Subscription) error {
	sub.Id = t.SubscriptionId(sub.Conversation, sub.User)
	return a.insert("subscriptions", sub)
}

// SubsGet reads a subscription of a user to a conversation.
func (a *adapter) SubsGet(conv, user t.Uid) (*t.Subscription, error) {
	sub := new(t.Subscription)
	found, err := a.getOne("subscriptions", t.SubscriptionId(conv.String(), user.String()), sub)
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
	// Ordering happens on the index before the limit is applied.
	return a.subsByQuery(rdb.DB(a.dbName).Table("subscriptions").
		Between([]interface{}{user.String(), rdb.MinVal}, []interface{}{user.String(), rdb.MaxVal},
			rdb.BetweenOpts{Index: subsActivationIndex}).
		OrderBy(rdb.OrderByOpts{Index: rdb.Desc(subsActivationIndex)}))
}

// SubsForConv loads all subscriptions to the conversation.
func (a *adapter) SubsForConv(conv t.Uid) ([]t.Subscription, error) {
	return a.subsByQuery(rdb.DB(a.dbName).Table("subscriptions").
		GetAllByIndex("Conversation", conv.String()).OrderBy("CreatedAt"))
}

// SubsUpdate updates part of a subscription object.
func (a *adapter) SubsUpdate(conv, user t.Uid, update map[string]interface{}) error {
	_, err := rdb.DB(a.dbName).Table("subscriptions").Get(t.SubscriptionId(conv.String(), user.String())).
		Update(update).RunWrite(a.conn)
	return err
}

// SubsDelete deletes a single subscription
func (a *adapter) SubsDelete(conv, user t.Uid) error {
	res, err := rdb.DB(a.dbName).Table("subscriptions").Get(t.SubscriptionId(conv.String(), user.String())).
		Delete().RunWrite(a.conn)
	if err != nil {
		return err
	}
	if res.Deleted == 0 {
		return t.ErrNotFound
	}
	return nil
}

// Invites

// InviteCreate stores a new invite.
func (a *adapter) InviteCreate(inv *t.Invite) error {
	return a.insert("invites", inv)
}

// InviteFind returns the most recent invite of the user to the conversation or (nil, nil).
func (a *adapter) InviteFind(user, conv t.Uid) (*t.Invite, error) {
	cursor, err := rdb.DB(a.dbName).Table("invites").
		GetAllByIndex("User_Conversation", []interface{}{user.String(), conv.String()}).
		OrderBy(rdb.Desc("CreatedAt")).Limit(1).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var inv t.Invite
	if !cursor.Next(&inv) {
		return nil, cursor.Err()
	}
	return &inv, nil
}

// InviteConsume swaps the token of an unconsumed invite if the current token matches.
func (a *adapter) InviteConsume(id t.Uid, token, replacement string, when time.Time) (bool, error) {
	res, err := rdb.DB(a.dbName).Table("invites").Get(id.String()).Update(func(row rdb.Term) interface{} {
		return rdb.Branch(row.Field("Token").Eq(token).And(row.Field("ConsumedAt").Default(nil).Eq(nil)),
			map[string]interface{}{"Token": replacement, "ConsumedAt": when, "UpdatedAt": when},
			map[string]interface{}{})
	}).RunWrite(a.conn)
	if err != nil {
		return false, err
	}
	return res.Replaced == 1, nil
}

// InviteRestore makes a consumed invite usable again if it still holds the spent token.
func (a *adapter) InviteRestore(id t.Uid, spent, token string, when time.Time) (bool, error) {
	res, err := rdb.DB(a.dbName).Table("invites").Get(id.String()).Update(func(row rdb.Term) interface{} {
		return rdb.Branch(row.Field("Token").Eq(spent).And(row.Field("ConsumedAt").Default(nil).Ne(nil)),
			map[string]interface{}{"Token": token, "ConsumedAt": nil, "UpdatedAt": when},
			map[string]interface{}{})
	}).RunWrite(a.conn)
	if err != nil {
		return false, err
	}
	return res.Replaced == 1, nil
}

// InviteDelete removes all invites of the user to the conversation.
func (a *adapter) InviteDelete(user, conv t.Uid) error {
	_, err := rdb.DB(a.dbName).Table("invites").
		GetAllByIndex("User_Conversation", []interface{}{user.String(), conv.String()}).
		Delete().RunWrite(a.conn)
	return err
}

// Abuse reports

// AbuseReportCreate stores a report. Returns t.ErrDuplicate if the user already reported the message.
func (a *adapter) AbuseReportCreate(rep *t.AbuseReport) error {
	// The report goes in first so the uniqueness record never points to a missing report.
	if err := a.insert("abusereports", rep); err != nil {
		return err
	}

	if err := a.insert("reportunique", map[string]interface{}{
		"Id":     reportId(rep.Message, rep.User),
		"Source": rep.Id,
	}); err != nil {
		// Roll back: the user already reported the message or the write failed.
		rdb.DB(a.dbName).Table("abusereports").Get(rep.Id).Delete().RunWrite(a.conn)
		return err
	}
	return nil
}

// AbuseReportGet returns user's report against the message or (nil, nil).
func (a *adapter) AbuseReportGet(msg, user t.Uid) (*t.AbuseReport, error) {
	var unique struct {
		Id     string
		Source string
	}
	found, err := a.getOne("reportunique", reportId(msg.String(), user.String()), &unique)
	if !found {
		return nil, err
	}

	var rep t.AbuseReport
	if found, err = a.getOne("abusereports", unique.Source, &rep); !found {
		return nil, err
	}
	return &rep, nil
}

// AbuseReportsForMessage returns all reports against the message, oldest first.
func (a *adapter) AbuseReportsForMessage(msg t.Uid) ([]t.AbuseReport, error) {
	var reps []t.AbuseReport
	if err := rdb.DB(a.dbName).Table("abusereports").GetAllByIndex("Message", msg.String()).
		OrderBy("CreatedAt", "Id").ReadAll(&reps, a.conn); err != nil {
		return nil, err
	}
	return reps, nil
}

// Messages

// MessageSave saves message to database
func (a *adapter) MessageSave(msg *t.Message) error {
	return a.insert("messages", msg)
}

// MessageGet loads a message by id or returns (nil, nil).
func (a *adapter) MessageGet(id t.Uid) (*t.Message, error) {
	var msg t.Message
	if found, err := a.getOne("messages", id.String(), &msg); !found {
		return nil, err
	}
	return &msg, nil
}

// MessageDeactivate attaches the report to a published message.
func (a *adapter) MessageDeactivate(id, report t.Uid) (bool, error) {
	now := t.TimeNow()
	res, err := rdb.DB(a.dbName).Table("messages").Get(id.String()).Update(func(row rdb.Term) interface{} {
		return rdb.Branch(row.Field("AbuseReport").Default("").Eq(""),
			map[string]interface{}{"AbuseReport": report.String(), "UpdatedAt": now},
			map[string]interface{}{})
	}).RunWrite(a.conn)
	if err != nil {
		return false, err
	}
	return res.Replaced == 1, nil
}

func init() {
	store.RegisterAdapter(&adapter{})
}

// GetTestAdapter returns an unregistered adapter. Used by integration tests.
func GetTestAdapter() *adapter {
	return &adapter{}
}
