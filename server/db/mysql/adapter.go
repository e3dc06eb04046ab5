//go:build mysql
// +build mysql

// Package mysql is a database adapter for MySQL.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/echowaves/chat/server/db/common"
	"github.com/echowaves/chat/server/store"
	t "github.com/echowaves/chat/server/store/types"
	ms "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// adapter holds MySQL connection data.
type adapter struct {
	db     *sqlx.DB
	cfg    *ms.Config
	dbName string
	// Maximum number of records to return
	maxResults int
	version    int

	// Single query timeout.
	sqlTimeout time.Duration
	// DB transaction timeout.
	txTimeout time.Duration
}

const (
	defaultDSN      = "root:@tcp(localhost:3306)/convo?parseTime=true"
	defaultDatabase = "convo"

	adpVersion  = 2
	adapterName = "mysql"

	defaultMaxResults = 1024
)

type configType struct {
	// DB connection settings.
	// Please, see https://pkg.go.dev/github.com/go-sql-driver/mysql#Config
	// for the full list of fields.
	ms.Config
	// Deprecated.
	DSN      string `json:"dsn,omitempty"`
	Database string `json:"database,omitempty"`

	// Connection pool settings.
	//
	// Maximum number of open connections to the database.
	MaxOpenConns int `json:"max_open_conns,omitempty"`
	// Maximum number of connections in the idle connection pool.
	MaxIdleConns int `json:"max_idle_conns,omitempty"`
	// Maximum amount of time a connection may be reused (in seconds).
	ConnMaxLifetime int `json:"conn_max_lifetime,omitempty"`

	// DB request timeout (in seconds).
	// If 0 (or negative), no timeout is applied.
	SqlTimeout int `json:"sql_timeout,omitempty"`
}

// Database rows. Columns are matched to fields by lower-cased field names.
type userRow struct {
	Id                        int64
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
	Login                     string
	Name                      string
	Email                     string
	PersonalConversation      int64
	ActivatedAt               *time.Time
	ReceiveEmailNotifications bool
}

func (r *userRow) toUser() t.User {
	user := t.User{
		Login:                     r.Login,
		Name:                      r.Name,
		Email:                     r.Email,
		PersonalConversation:      encodeUid(r.PersonalConversation),
		ActivatedAt:               r.ActivatedAt,
		ReceiveEmailNotifications: r.ReceiveEmailNotifications,
	}
	user.SetUid(store.EncodeUid(r.Id))
	user.CreatedAt, user.UpdatedAt = r.CreatedAt, r.UpdatedAt
	return user
}

type convRow struct {
	Id            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Name          string
	Owner         int64
	Private       bool
	Personal      bool
	ParentMessage int64
}

func (r *convRow) toConv() t.Conversation {
	conv := t.Conversation{
		Name:          r.Name,
		Owner:         encodeUid(r.Owner),
		Private:       r.Private,
		Personal:      r.Personal,
		ParentMessage: encodeUid(r.ParentMessage),
	}
	conv.SetUid(store.EncodeUid(r.Id))
	conv.CreatedAt, conv.UpdatedAt = r.CreatedAt, r.UpdatedAt
	return conv
}

type subRow struct {
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserId       int64
	Conversation int64
	ActivatedAt  time.Time
	LastReadAt   time.Time
	Unread       int
}

func (r *subRow) toSub() t.Subscription {
	sub := t.Subscription{
		User:         encodeUid(r.UserId),
		Conversation: encodeUid(r.Conversation),
		ActivatedAt:  r.ActivatedAt,
		LastReadAt:   r.LastReadAt,
	}
	sub.Id = t.SubscriptionId(sub.Conversation, sub.User)
	sub.CreatedAt, sub.UpdatedAt = r.CreatedAt, r.UpdatedAt
	sub.SetUnread(r.Unread)
	return sub
}

type inviteRow struct {
	Id           int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserId       int64
	Conversation int64
	RequestedBy  int64
	Token        string
	ConsumedAt   *time.Time
}

type reportRow struct {
	Id        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	UserId    int64
	Message   int64
}

func (r *reportRow) toReport() t.AbuseReport {
	rep := t.AbuseReport{
		User:    encodeUid(r.UserId),
		Message: encodeUid(r.Message),
	}
	rep.SetUid(store.EncodeUid(r.Id))
	rep.CreatedAt, rep.UpdatedAt = r.CreatedAt, r.UpdatedAt
	return rep
}

type messageRow struct {
	Id             int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	UserId         int64
	Conversation   int64
	Body           string
	System         bool `db:"issystem"`
	Attachment     string
	AttachmentType string
	AbuseReport    sql.NullInt64
}

const (
	userColumns = "id,createdat,updatedat,login,name,email,personalconversation,activatedat,receiveemailnotifications"
	convColumns = "id,createdat,updatedat,name,owner,private,personal,parentmessage"
	// Published messages newer than the read marker.
	unreadCount = `(SELECT COUNT(*) FROM messages AS m WHERE m.conversation=s.conversation AND
		m.createdat>s.lastreadat AND m.abusereport IS NULL) AS unread`
	subsColumns = "s.createdat,s.updatedat,s.userid,s.conversation,s.activatedat,s.lastreadat," + unreadCount
	invColumns  = "id,createdat,updatedat,userid,conversation,requestedby,token,consumedat"
	repColumns  = "id,createdat,updatedat,userid,message"
	msgColumns  = "id,createdat,updatedat,userid,conversation,body,issystem,attachment,attachmenttype,abusereport"
)

func (a *adapter) getContext() (context.Context, context.CancelFunc) {
	if a.sqlTimeout > 0 {
		return context.WithTimeout(context.Background(), a.sqlTimeout)
	}
	return context.Background(), nil
}

func (a *adapter) getContextForTx() (context.Context, context.CancelFunc) {
	if a.txTimeout > 0 {
		return context.WithTimeout(context.Background(), a.txTimeout)
	}
	return context.Background(), nil
}

// Open initializes database session
func (a *adapter) Open(jsonconfig json.RawMessage) error {
	if a.db != nil {
		return errors.New("mysql adapter is already connected")
	}

	if len(jsonconfig) < 2 {
		return errors.New("adapter mysql missing config")
	}

	var err error
	defaultCfg := ms.NewConfig()
	config := configType{Config: *defaultCfg}
	if err = json.Unmarshal(jsonconfig, &config); err != nil {
		return errors.New("mysql adapter failed to parse config: " + err.Error())
	}

	if dsn := config.FormatDSN(); dsn != defaultCfg.FormatDSN() {
		// MySql config is specified. Use it.
		a.dbName = config.DBName
		a.cfg = &config.Config
		if config.DSN != "" || config.Database != "" {
			return errors.New("mysql config: `dsn` and `database` fields are deprecated. Please, specify individual connection settings via mysql.Config: https://pkg.go.dev/github.com/go-sql-driver/mysql#Config")
		}
	} else {
		// Otherwise, use DSN and Database to configure database connection.
		// Note: this method is deprecated.
		dsn := config.DSN
		if dsn == "" {
			dsn = defaultDSN
		}
		if a.cfg, err = ms.ParseDSN(dsn); err != nil {
			return errors.New("mysql adapter failed to parse dsn: " + err.Error())
		}
		a.dbName = config.Database
		if a.dbName == "" {
			a.dbName = a.cfg.DBName
		}
	}

	if a.dbName == "" {
		a.dbName = defaultDatabase
	}
	a.cfg.DBName = a.dbName
	// Timestamps are scanned into time.Time.
	a.cfg.ParseTime = true

	if a.maxResults <= 0 {
		a.maxResults = defaultMaxResults
	}

	a.sqlTimeout, a.txTimeout = common.Timeouts(config.SqlTimeout)

	if err = a.connect(); isMissingDb(err) {
		// Missing DB is OK if we are initializing the database.
		a.cfg.DBName = ""
		err = a.connect()
		a.cfg.DBName = a.dbName
	}
	if err != nil {
		return err
	}

	if config.MaxOpenConns > 0 {
		a.db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		a.db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		a.db.SetConnMaxLifetime(time.Duration(config.ConnMaxLifetime) * time.Second)
	}

	a.version = -1
	return nil
}

// connect opens the connection pool and forces a network connection.
func (a *adapter) connect() error {
	db, err := sqlx.Open("mysql", a.cfg.FormatDSN())
	if err != nil {
		return err
	}

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}
	// sql.Open does not open the network connection.
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}
	a.db = db
	return nil
}

// Close closes the underlying database connection
func (a *adapter) Close() error {
	var err error
	if a.db != nil {
		err = a.db.Close()
		a.db = nil
		a.version = -1
	}
	return err
}

// IsOpen returns true if connection to database has been established. It does not check if
// connection is actually live.
func (a *adapter) IsOpen() bool {
	return a.db != nil
}

// GetDbVersion returns current database version.
func (a *adapter) GetDbVersion() (int, error) {
	if a.version > 0 {
		return a.version, nil
	}

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}
	var vers int
	err := a.db.GetContext(ctx, &vers, "SELECT `value` FROM kvmeta WHERE `key`='version'")
	if err != nil {
		if isMissingDb(err) || isMissingTable(err) || err == sql.ErrNoRows {
			err = errors.New("Database not initialized")
		}
		return -1, err
	}
	a.version = vers

	return vers, nil
}

func (a *adapter) updateDbVersion(v int) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}
	a.version = -1
	if _, err := a.db.ExecContext(ctx, "UPDATE kvmeta SET `value`=? WHERE `key`='version'", v); err != nil {
		return err
	}
	return nil
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

// DB connection stats object.
func (a *adapter) Stats() interface{} {
	if a.db == nil {
		return nil
	}
	return a.db.Stats()
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

// CreateDb initializes the storage.
func (a *adapter) CreateDb(reset bool) error {
	var err error
	var tx *sql.Tx

	ctx, cancel := a.getContextForTx()
	if cancel != nil {
		defer cancel()
	}

	// Can't use an existing connection because it's configured with a database name which may not exist.
	// Don't care if it does not close cleanly.
	if a.db != nil {
		a.db.Close()
	}
	a.cfg.DBName = ""
	if err = a.connect(); err != nil {
		return err
	}

	if reset {
		if _, err = a.db.ExecContext(ctx, "DROP DATABASE IF EXISTS "+a.dbName); err != nil {
			return err
		}
	}

	if _, err = a.db.ExecContext(ctx, "CREATE DATABASE "+a.dbName+" CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"); err != nil {
		return err
	}

	a.db.Close()
	a.cfg.DBName = a.dbName
	if err = a.connect(); err != nil {
		return err
	}

	if tx, err = a.db.BeginTx(ctx, nil); err != nil {
		return err
	}

	defer func() {
		if err != nil {
			// MySQL auto-commits on every CREATE TABLE.
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(
		`CREATE TABLE kvmeta(` +
			"`key` VARCHAR(64) NOT NULL," +
			"`value` TEXT," +
			"PRIMARY KEY(`key`)" +
			`)`); err != nil {
		return err
	}
	if _, err = tx.Exec("INSERT INTO kvmeta(`key`, `value`) VALUES('version', ?)", strconv.Itoa(adpVersion)); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE users(
			id        BIGINT NOT NULL,
			createdat DATETIME(3) NOT NULL,
			updatedat DATETIME(3) NOT NULL,
			login     VARCHAR(100) NOT NULL,
			name      VARCHAR(100) NOT NULL DEFAULT '',
			email     VARCHAR(100) NOT NULL,
			personalconversation BIGINT NOT NULL DEFAULT 0,
			activatedat DATETIME(3),
			receiveemailnotifications BOOLEAN NOT NULL DEFAULT TRUE,
			PRIMARY KEY(id),
			UNIQUE INDEX users_login(login),
			UNIQUE INDEX users_email(email)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE conversations(
			id        BIGINT NOT NULL,
			createdat DATETIME(3) NOT NULL,
			updatedat DATETIME(3) NOT NULL,
			name      VARCHAR(255) NOT NULL DEFAULT '',
			owner     BIGINT NOT NULL DEFAULT 0,
			private   BOOLEAN NOT NULL DEFAULT FALSE,
			personal  BOOLEAN NOT NULL DEFAULT FALSE,
			parentmessage BIGINT NOT NULL DEFAULT 0,
			PRIMARY KEY(id),
			INDEX conversations_owner(owner)
		)`); err != nil {
		return err
	}

	// One subscription per user per conversation.
	if _, err = tx.Exec(
		`CREATE TABLE subscriptions(
			id           INT NOT NULL AUTO_INCREMENT,
			createdat    DATETIME(3) NOT NULL,
			updatedat    DATETIME(3) NOT NULL,
			userid       BIGINT NOT NULL,
			conversation BIGINT NOT NULL,
			activatedat  DATETIME(3) NOT NULL,
			lastreadat   DATETIME(3) NOT NULL,
			PRIMARY KEY(id),
			FOREIGN KEY(userid) REFERENCES users(id),
			UNIQUE INDEX subscriptions_conversation_userid(conversation, userid),
			INDEX subscriptions_userid_activatedat(userid, activatedat)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE invites(
			id           BIGINT NOT NULL,
			createdat    DATETIME(3) NOT NULL,
			updatedat    DATETIME(3) NOT NULL,
			userid       BIGINT NOT NULL,
			conversation BIGINT NOT NULL,
			requestedby  BIGINT NOT NULL,
			token        VARCHAR(64) NOT NULL,
			consumedat   DATETIME(3),
			PRIMARY KEY(id),
			INDEX invites_userid_conversation(userid, conversation, createdat)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE messages(
			id             BIGINT NOT NULL,
			createdat      DATETIME(3) NOT NULL,
			updatedat      DATETIME(3) NOT NULL,
			userid         BIGINT NOT NULL,
			conversation   BIGINT NOT NULL,
			body           TEXT NOT NULL,
			issystem       BOOLEAN NOT NULL DEFAULT FALSE,
			attachment     VARCHAR(255) NOT NULL DEFAULT '',
			attachmenttype VARCHAR(64) NOT NULL DEFAULT '',
			abusereport    BIGINT,
			PRIMARY KEY(id),
			INDEX messages_conversation_createdat(conversation, createdat)
		)`); err != nil {
		return err
	}

	// One report per user per message.
	if _, err = tx.Exec(
		`CREATE TABLE abusereports(
			id        BIGINT NOT NULL,
			createdat DATETIME(3) NOT NULL,
			updatedat DATETIME(3) NOT NULL,
			userid    BIGINT NOT NULL,
			message   BIGINT NOT NULL,
			PRIMARY KEY(id),
			FOREIGN KEY(message) REFERENCES messages(id),
			UNIQUE INDEX abusereports_message_userid(message, userid)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE taggings(
			id           INT NOT NULL AUTO_INCREMENT,
			createdat    DATETIME(3) NOT NULL,
			conversation BIGINT NOT NULL,
			userid       BIGINT NOT NULL,
			tag          VARCHAR(64) NOT NULL,
			PRIMARY KEY(id),
			UNIQUE INDEX taggings_conversation_userid_tag(conversation, userid, tag),
			INDEX taggings_tag(tag)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE visits(
			id           INT NOT NULL AUTO_INCREMENT,
			updatedat    DATETIME(3) NOT NULL,
			userid       BIGINT NOT NULL,
			conversation BIGINT NOT NULL,
			PRIMARY KEY(id),
			UNIQUE INDEX visits_userid_conversation(userid, conversation),
			INDEX visits_userid_updatedat(userid, updatedat)
		)`); err != nil {
		return err
	}

	return tx.Commit()
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

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	if a.version == 1 {
		// Perform database upgrade from version 1 to version 2.

		// Index for the most recent visits.
		if _, err := a.db.ExecContext(ctx, "CREATE INDEX visits_userid_updatedat ON visits(userid, updatedat)"); err != nil {
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

// UserCreate creates a new user. Returns t.ErrDuplicate if login or email is already taken.
func (a *adapter) UserCreate(user *t.User) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	_, err := a.db.ExecContext(ctx, "INSERT INTO users("+userColumns+") VALUES(?,?,?,?,?,?,?,?,?)",
		store.DecodeUid(user.Uid()),
		user.CreatedAt,
		user.UpdatedAt,
		user.Login,
		user.Name,
		user.Email,
		decodeUidString(user.PersonalConversation),
		user.ActivatedAt,
		user.ReceiveEmailNotifications)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

func (a *adapter) userGet(query string, args ...interface{}) (*t.User, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var row userRow
	err := a.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			// Nothing found - clear the error
			err = nil
		}
		return nil, err
	}
	user := row.toUser()
	return &user, nil
}

// UserGet fetches a single user by user id. If user is not found it returns (nil, nil)
func (a *adapter) UserGet(uid t.Uid) (*t.User, error) {
	return a.userGet("SELECT "+userColumns+" FROM users WHERE id=?", store.DecodeUid(uid))
}

// UserGetAll returns users with the given ids. Missing users are skipped.
func (a *adapter) UserGetAll(ids ...t.Uid) ([]t.User, error) {
	users := []t.User{}
	if len(ids) == 0 {
		return users, nil
	}

	q, args, err := sqlx.In("SELECT "+userColumns+" FROM users WHERE id IN (?)", decodeUids(ids))
	if err != nil {
		return nil, err
	}

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}
	rows, err := a.db.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row userRow
		if err = rows.StructScan(&row); err != nil {
			users = nil
			break
		}
		users = append(users, row.toUser())
	}
	if err == nil {
		err = rows.Err()
	}

	return users, err
}

// UserGetByLogin finds user by login.
func (a *adapter) UserGetByLogin(login string) (*t.User, error) {
	return a.userGet("SELECT "+userColumns+" FROM users WHERE login=?", login)
}

// UserUpdate updates user object.
func (a *adapter) UserUpdate(uid t.Uid, update map[string]interface{}) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	cols, args := updateByMap(update)
	args = append(args, store.DecodeUid(uid))
	_, err := a.db.ExecContext(ctx, "UPDATE users SET "+strings.Join(cols, ",")+" WHERE id=?", args...)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

func (a *adapter) convsByQuery(query string, args ...interface{}) ([]t.Conversation, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var rows []convRow
	if err := a.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	convs := make([]t.Conversation, 0, len(rows))
	for i := range rows {
		convs = append(convs, rows[i].toConv())
	}
	return convs, nil
}

// ConvCreate creates a conversation.
func (a *adapter) ConvCreate(conv *t.Conversation) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	_, err := a.db.ExecContext(ctx, "INSERT INTO conversations("+convColumns+") VALUES(?,?,?,?,?,?,?,?)",
		store.DecodeUid(conv.Uid()),
		conv.CreatedAt,
		conv.UpdatedAt,
		conv.Name,
		decodeUidString(conv.Owner),
		conv.Private,
		conv.Personal,
		decodeUidString(conv.ParentMessage))
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// ConvGet loads a single conversation by id. Returns (nil, nil) if not found.
func (a *adapter) ConvGet(id t.Uid) (*t.Conversation, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var row convRow
	err := a.db.GetContext(ctx, &row, "SELECT "+convColumns+" FROM conversations WHERE id=?", store.DecodeUid(id))
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		}
		return nil, err
	}
	conv := row.toConv()
	return &conv, nil
}

// ConvGetAll loads conversations with the given ids.
func (a *adapter) ConvGetAll(ids ...t.Uid) ([]t.Conversation, error) {
	if len(ids) == 0 {
		return []t.Conversation{}, nil
	}

	q, args, err := sqlx.In("SELECT "+convColumns+" FROM conversations WHERE id IN (?)", decodeUids(ids))
	if err != nil {
		return nil, err
	}
	return a.convsByQuery(q, args...)
}

// ConvUpdate updates conversation record.
func (a *adapter) ConvUpdate(id t.Uid, update map[string]interface{}) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	cols, args := updateByMap(update)
	args = append(args, store.DecodeUid(id))
	_, err := a.db.ExecContext(ctx, "UPDATE conversations SET "+strings.Join(cols, ",")+" WHERE id=?", args...)
	return err
}

// ConvUpsertVisit records the time of the user's visit to the conversation.
func (a *adapter) ConvUpsertVisit(id, user t.Uid, when time.Time) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	_, err := a.db.ExecContext(ctx, `INSERT INTO visits(updatedat,userid,conversation) VALUES(?,?,?)
		ON DUPLICATE KEY UPDATE updatedat=VALUES(updatedat)`,
		when, store.DecodeUid(user), store.DecodeUid(id))
	return err
}

// ConvRecentForUser returns conversations recently visited by the user, newest visit first.
func (a *adapter) ConvRecentForUser(user t.Uid, limit int) ([]t.Conversation, error) {
	if limit <= 0 || limit > a.maxResults {
		limit = a.maxResults
	}

	return a.convsByQuery("SELECT c."+strings.ReplaceAll(convColumns, ",", ",c.")+
		" FROM conversations AS c INNER JOIN visits AS v ON v.conversation=c.id"+
		" WHERE v.userid=? ORDER BY v.updatedat DESC LIMIT ?", store.DecodeUid(user), limit)
}

// ConvTagCounts returns tags applied to the conversation with their counts, ordered by tag.
func (a *adapter) ConvTagCounts(id t.Uid) ([]t.TagCount, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var counts []t.TagCount
	err := a.db.SelectContext(ctx, &counts,
		"SELECT tag, COUNT(*) AS count FROM taggings WHERE conversation=? GROUP BY tag ORDER BY tag",
		store.DecodeUid(id))
	return counts, err
}

// ConvTagsAdd adds user's taggings. Existing taggings are left intact.
func (a *adapter) ConvTagsAdd(id, user t.Uid, tags []string) error {
	tags = common.UniqueTags(tags)
	if len(tags) == 0 {
		return nil
	}

	ctx, cancel := a.getContextForTx()
	if cancel != nil {
		defer cancel()
	}
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	now := t.TimeNow()
	convId, userId := store.DecodeUid(id), store.DecodeUid(user)
	for _, tag := range tags {
		if _, err = tx.ExecContext(ctx, "INSERT IGNORE INTO taggings(createdat,conversation,userid,tag) VALUES(?,?,?,?)",
			now, convId, userId, tag); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ConvTagsRemove deletes user's taggings.
func (a *adapter) ConvTagsRemove(id, user t.Uid, tags []string) error {
	tags = common.UniqueTags(tags)
	if len(tags) == 0 {
		return nil
	}

	q, args, err := sqlx.In("DELETE FROM taggings WHERE conversation=? AND userid=? AND tag IN (?)",
		store.DecodeUid(id), store.DecodeUid(user), tags)
	if err != nil {
		return err
	}

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}
	_, err = a.db.ExecContext(ctx, q, args...)
	return err
}

func (a *adapter) subsByQuery(query string, args ...interface{}) ([]t.Subscription, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var rows []subRow
	if err := a.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	var subs []t.Subscription
	for i := range rows {
		subs = append(subs, rows[i].toSub())
	}
	return subs, nil
}

// SubsCreate creates a subscription. Returns t.ErrDuplicate if one already exists.
func (a *adapter) SubsCreate(sub *t.Subscription) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	_, err := a.db.ExecContext(ctx, `INSERT INTO subscriptions(createdat,updatedat,userid,conversation,activatedat,lastreadat)
		VALUES(?,?,?,?,?,?)`,
		sub.CreatedAt, sub.UpdatedAt, decodeUidString(sub.User), decodeUidString(sub.Conversation),
		sub.ActivatedAt, sub.LastReadAt)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// SubsGet returns user's subscription to the conversation or (nil, nil).
func (a *adapter) SubsGet(conv, user t.Uid) (*t.Subscription, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var row subRow
	err := a.db.GetContext(ctx, &row, "SELECT "+subsColumns+
		" FROM subscriptions AS s WHERE s.conversation=? AND s.userid=?",
		store.DecodeUid(conv), store.DecodeUid(user))
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		}
		return nil, err
	}
	sub := row.toSub()
	return &sub, nil
}

// SubsForUser loads user's subscriptions, most recently activated first.
func (a *adapter) SubsForUser(user t.Uid) ([]t.Subscription, error) {
	return a.subsByQuery("SELECT "+subsColumns+
		" FROM subscriptions AS s WHERE s.userid=? ORDER BY s.activatedat DESC LIMIT ?",
		store.DecodeUid(user), a.maxResults)
}

// SubsForConv loads all subscriptions to the conversation.
func (a *adapter) SubsForConv(conv t.Uid) ([]t.Subscription, error) {
	return a.subsByQuery("SELECT "+subsColumns+
		" FROM subscriptions AS s WHERE s.conversation=? ORDER BY s.createdat LIMIT ?",
		store.DecodeUid(conv), a.maxResults)
}

// SubsUpdate updates a single subscription. Missing subscription is not an error.
func (a *adapter) SubsUpdate(conv, user t.Uid, update map[string]interface{}) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	cols, args := updateByMap(update)
	args = append(args, store.DecodeUid(conv), store.DecodeUid(user))
	_, err := a.db.ExecContext(ctx, "UPDATE subscriptions SET "+strings.Join(cols, ",")+
		" WHERE conversation=? AND userid=?", args...)
	return err
}

// SubsDelete deletes a subscription.
func (a *adapter) SubsDelete(conv, user t.Uid) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	res, err := a.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE conversation=? AND userid=?",
		store.DecodeUid(conv), store.DecodeUid(user))
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return t.ErrNotFound
	}
	return nil
}

// InviteCreate stores a new invite.
func (a *adapter) InviteCreate(inv *t.Invite) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	_, err := a.db.ExecContext(ctx, "INSERT INTO invites("+invColumns+") VALUES(?,?,?,?,?,?,?,?)",
		store.DecodeUid(inv.Uid()), inv.CreatedAt, inv.UpdatedAt,
		decodeUidString(inv.User), decodeUidString(inv.Conversation), decodeUidString(inv.RequestedBy),
		inv.Token, inv.ConsumedAt)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// InviteFind returns the most recent invite of the user to the conversation or (nil, nil).
func (a *adapter) InviteFind(user, conv t.Uid) (*t.Invite, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var row inviteRow
	err := a.db.GetContext(ctx, &row, "SELECT "+invColumns+
		" FROM invites WHERE userid=? AND conversation=? ORDER BY createdat DESC, id DESC LIMIT 1",
		store.DecodeUid(user), store.DecodeUid(conv))
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		}
		return nil, err
	}

	inv := t.Invite{
		User:         encodeUid(row.UserId),
		Conversation: encodeUid(row.Conversation),
		RequestedBy:  encodeUid(row.RequestedBy),
		Token:        row.Token,
		ConsumedAt:   row.ConsumedAt,
	}
	inv.SetUid(store.EncodeUid(row.Id))
	inv.CreatedAt, inv.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return &inv, nil
}

// InviteConsume swaps the token of an unconsumed invite if the current token matches.
func (a *adapter) InviteConsume(id t.Uid, token, replacement string, when time.Time) (bool, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	res, err := a.db.ExecContext(ctx, `UPDATE invites SET token=?,consumedat=?,updatedat=?
		WHERE id=? AND token=? AND consumedat IS NULL`,
		replacement, when, when, store.DecodeUid(id), token)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected == 1, err
}

// InviteRestore makes a consumed invite usable again if it still holds the spent token.
func (a *adapter) InviteRestore(id t.Uid, spent, token string, when time.Time) (bool, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	res, err := a.db.ExecContext(ctx, `UPDATE invites SET token=?,consumedat=NULL,updatedat=?
		WHERE id=? AND token=? AND consumedat IS NOT NULL`,
		token, when, store.DecodeUid(id), spent)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected == 1, err
}

// InviteDelete removes all invites of the user to the conversation.
func (a *adapter) InviteDelete(user, conv t.Uid) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	_, err := a.db.ExecContext(ctx, "DELETE FROM invites WHERE userid=? AND conversation=?",
		store.DecodeUid(user), store.DecodeUid(conv))
	return err
}

// AbuseReportCreate stores a report. Returns t.ErrDuplicate if the user already reported the message.
func (a *adapter) AbuseReportCreate(rep *t.AbuseReport) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	_, err := a.db.ExecContext(ctx, "INSERT INTO abusereports("+repColumns+") VALUES(?,?,?,?,?)",
		store.DecodeUid(rep.Uid()), rep.CreatedAt, rep.UpdatedAt,
		decodeUidString(rep.User), decodeUidString(rep.Message))
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// AbuseReportGet returns user's report against the message or (nil, nil).
func (a *adapter) AbuseReportGet(msg, user t.Uid) (*t.AbuseReport, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var row reportRow
	err := a.db.GetContext(ctx, &row, "SELECT "+repColumns+" FROM abusereports WHERE message=? AND userid=?",
		store.DecodeUid(msg), store.DecodeUid(user))
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		}
		return nil, err
	}
	rep := row.toReport()
	return &rep, nil
}

// AbuseReportsForMessage returns all reports against the message, oldest first.
func (a *adapter) AbuseReportsForMessage(msg t.Uid) ([]t.AbuseReport, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var rows []reportRow
	if err := a.db.SelectContext(ctx, &rows, "SELECT "+repColumns+
		" FROM abusereports WHERE message=? ORDER BY createdat, id", store.DecodeUid(msg)); err != nil {
		return nil, err
	}

	var reps []t.AbuseReport
	for i := range rows {
		reps = append(reps, rows[i].toReport())
	}
	return reps, nil
}

// MessageSave saves message to database.
func (a *adapter) MessageSave(msg *t.Message) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var report sql.NullInt64
	if msg.AbuseReport != "" {
		report = sql.NullInt64{Int64: decodeUidString(msg.AbuseReport), Valid: true}
	}
	_, err := a.db.ExecContext(ctx, "INSERT INTO messages("+msgColumns+") VALUES(?,?,?,?,?,?,?,?,?,?)",
		store.DecodeUid(msg.Uid()), msg.CreatedAt, msg.UpdatedAt,
		decodeUidString(msg.User), decodeUidString(msg.Conversation),
		msg.Body, msg.System, msg.Attachment, msg.AttachmentType, report)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// MessageGet loads a message by id or returns (nil, nil).
func (a *adapter) MessageGet(id t.Uid) (*t.Message, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var row messageRow
	err := a.db.GetContext(ctx, &row, "SELECT "+msgColumns+" FROM messages WHERE id=?", store.DecodeUid(id))
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		}
		return nil, err
	}

	msg := t.Message{
		User:           encodeUid(row.UserId),
		Conversation:   encodeUid(row.Conversation),
		Body:           row.Body,
		System:         row.System,
		Attachment:     row.Attachment,
		AttachmentType: row.AttachmentType,
	}
	msg.SetUid(store.EncodeUid(row.Id))
	msg.CreatedAt, msg.UpdatedAt = row.CreatedAt, row.UpdatedAt
	if row.AbuseReport.Valid {
		msg.AbuseReport = encodeUid(row.AbuseReport.Int64)
	}
	return &msg, nil
}

// MessageDeactivate attaches the report to a published message.
func (a *adapter) MessageDeactivate(id, report t.Uid) (bool, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	res, err := a.db.ExecContext(ctx,
		"UPDATE messages SET abusereport=?,updatedat=? WHERE id=? AND abusereport IS NULL",
		store.DecodeUid(report), t.TimeNow(), store.DecodeUid(id))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected == 1, err
}

func mysqlErrorNumber(err error) uint16 {
	var myerr *ms.MySQLError
	if errors.As(err, &myerr) {
		return myerr.Number
	}
	return 0
}

func isDupe(err error) bool {
	return mysqlErrorNumber(err) == 1062
}

func isMissingDb(err error) bool {
	return mysqlErrorNumber(err) == 1049
}

func isMissingTable(err error) bool {
	return mysqlErrorNumber(err) == 1146
}

// UIDs are stored as decoded int64 values.
func encodeUid(id int64) string {
	return store.EncodeUid(id).String()
}

func decodeUidString(str string) int64 {
	return store.DecodeUid(t.ParseUid(str))
}

func decodeUids(ids []t.Uid) []int64 {
	decoded := make([]int64, len(ids))
	for i, id := range ids {
		decoded[i] = store.DecodeUid(id)
	}
	return decoded
}

// Columns holding references to other objects.
var uidColumns = map[string]bool{
	"owner":                true,
	"parentmessage":        true,
	"personalconversation": true,
	"requestedby":          true,
}

// Convert update to a list of columns and arguments.
func updateByMap(update map[string]interface{}) (cols []string, args []interface{}) {
	cols, args = common.UpdateByMap(update, func(col string, val interface{}) interface{} {
		if str, ok := val.(string); ok && uidColumns[col] {
			return decodeUidString(str)
		}
		return val
	})
	for i, col := range cols {
		switch col {
		case "user":
			col = "userid"
		case "system":
			col = "issystem"
		}
		cols[i] = col + "=?"
	}
	return
}

func init() {
	store.RegisterAdapter(&adapter{})
}

// GetTestAdapter returns an unregistered adapter. Used by integration tests.
func GetTestAdapter() *adapter {
	return &adapter{}
}
