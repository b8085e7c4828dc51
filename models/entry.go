// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// EncryptedEntry is a journal entry as it is persisted: every user-authored
// field is ciphertext, only the id and timestamps are plaintext.
type EncryptedEntry struct {
	ID string

	// Title is nil for entries saved without a title.
	Title *CipheredField
	Body  CipheredField

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlainEntry is the user-authored content of an entry.
type PlainEntry struct {
	Title string
	Body  string
}

// DecryptedEntry is an entry opened for display.
//
// When Err is non-nil the entry could not be decrypted: Title holds a
// placeholder, Body is empty and the timestamps are still valid.
type DecryptedEntry struct {
	ID        string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Err       error
}

// Failed reports whether the entry is a decryption placeholder.
func (d DecryptedEntry) Failed() bool {
	return d.Err != nil
}
