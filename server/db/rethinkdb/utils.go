//go:build rethinkdb
// +build rethinkdb

package rethinkdb

import (
	t "github.com/echowaves/chat/server/store/types"
)

// Composite primary keys of tables without their own Uid.

func visitId(user, conv string) string {
	return user + ":" + conv
}

func taggingId(conv, user, tag string) string {
	return conv + ":" + user + ":" + tag
}

func reportId(msg, user string) string {
	return msg + ":" + user
}

// GetAll takes keys as variadic interface{}.

func uidsToInterfaces(ids []t.Uid) []interface{} {
	result := make([]interface{}, len(ids))
	for i, id := range ids {
		result[i] = id.String()
	}
	return result
}

func stringsToInterfaces(vals []string) []interface{} {
	result := make([]interface{}, len(vals))
	for i, val := range vals {
		result[i] = val
	}
	return result
}
