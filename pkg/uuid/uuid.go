// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates and checks the identifiers used for every forum row.

New returns Version 7 values, which sort by creation time, so "newest first"
listings and B-tree inserts both follow the key order.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string in canonical lower-case form.
//
// It panics only if the OS random source is unavailable.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// Canonical parses s and returns its lower-case hyphenated form.
// ok is false when s is not a UUID.
func Canonical(s string) (canonical string, ok bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
