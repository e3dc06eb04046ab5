//go:build rethinkdb
// +build rethinkdb

package main

import (
	_ "github.com/echowaves/chat/server/db/rethinkdb"
)
