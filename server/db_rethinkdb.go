//go:build rethinkdb
// +build rethinkdb

package main

// This file is needed for conditional compilation. It's used when
// the build tag 'rethinkdb' is defined. Otherwise the adapter is compiled out.

import (
	_ "github.com/echowaves/chat/server/db/rethinkdb"
)
