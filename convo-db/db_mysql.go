//go:build mysql
// +build mysql

package main

import (
	_ "github.com/echowaves/chat/server/db/mysql"
)
