//go:build postgres
// +build postgres

package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgconn"
)

func TestExpandQuery(t *testing.T) {
	q, args := expandQuery("DELETE FROM taggings WHERE conversation=? AND userid=? AND tag IN (?)",
		int64(1), int64(2), []string{"go", "db"})
	if q != "DELETE FROM taggings WHERE conversation=$1 AND userid=$2 AND tag IN ($3, $4)" {
		t.Errorf("unexpected query %q", q)
	}
	if diff := cmp.Diff([]interface{}{int64(1), int64(2), "go", "db"}, args); diff != "" {
		t.Error(diff)
	}
}

func TestUpdateByMap(t *testing.T) {
	when := time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC)
	cols, args := updateByMap(map[string]interface{}{
		"LastReadAt": when,
		"UpdatedAt":  when,
		"User":       int64(7),
	})
	if diff := cmp.Diff([]string{"lastreadat=?", "updatedat=?", "userid=?"}, cols); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]interface{}{when, when, int64(7)}, args); diff != "" {
		t.Error(diff)
	}
}

func TestSetConnStr(t *testing.T) {
	dsn, err := setConnStr(configType{User: "u", Passwd: "p", Host: "h", Port: "5432", DBName: "convo", SqlTimeout: 10})
	if err != nil {
		t.Fatal(err)
	}
	if dsn != "postgres://u:p@h:5432/convo?sslmode=disable&connect_timeout=10" {
		t.Errorf("unexpected dsn %q", dsn)
	}
	if _, err := setConnStr(configType{Host: "h"}); err == nil {
		t.Error("incomplete config must fail")
	}
}

func TestErrorClassification(t *testing.T) {
	if !isDupe(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation is a dupe")
	}
	if isDupe(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation is not a dupe")
	}
	if !isMissingTable(errors.New("ERROR: relation \"kvmeta\" does not exist (SQLSTATE 42P01)")) {
		t.Error("missing table not detected")
	}
	if !isMissingDb(errors.New("FATAL: database \"convo\" does not exist (SQLSTATE 3D000)")) {
		t.Error("missing db not detected")
	}
	if isDupe(nil) || isMissingTable(nil) || isMissingDb(nil) {
		t.Error("nil is not an error")
	}
}
