//go:build postgres
// +build postgres

package main

import (
	_ "github.com/echowaves/chat/server/db/postgres"
)
