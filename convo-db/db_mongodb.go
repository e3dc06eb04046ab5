//go:build mongodb
// +build mongodb

package main

import (
	_ "github.com/echowaves/chat/server/db/mongodb"
)
