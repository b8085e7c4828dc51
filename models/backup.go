// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BackupVersion is written into every exported document.
const BackupVersion = "1.0.0"

// BackupDocument is the portable export format. Binary values are standard
// base64, timestamps are RFC 3339 UTC strings. Checksum is the hex SHA-256
// of the canonical JSON form of the document without the checksum member.
type BackupDocument struct {
	Version   string        `json:"version"`
	CreatedAt string        `json:"createdAt"`
	Vault     *BackupVault  `json:"vault"`
	Entries   []BackupEntry `json:"entries"`
	Checksum  string        `json:"checksum,omitempty"`
}

// BackupVault mirrors [VaultMetadata]. Iterations is absent in documents
// written before the work factor was persisted.
type BackupVault struct {
	Salt         string `json:"salt"`
	EncryptedDEK string `json:"encryptedDEK"`
	DEKIV        string `json:"dekIv"`
	Iterations   int    `json:"iterations,omitempty"`
}

// BackupEntry mirrors [EncryptedEntry].
type BackupEntry struct {
	ID              BackupEntryID `json:"id"`
	CreatedAt       string        `json:"createdAt"`
	UpdatedAt       string        `json:"updatedAt"`
	TitleCiphertext string        `json:"titleCiphertext,omitempty"`
	TitleIV         string        `json:"titleIv,omitempty"`
	BodyCiphertext  string        `json:"bodyCiphertext"`
	BodyIV          string        `json:"bodyIv"`
}

// ImportResult summarizes an applied backup.
type ImportResult struct {
	Version string
	Entries int
}

// BackupEntryID is an entry id inside a backup. Documents from stores with
// integer keys carry numeric ids; they are read as their decimal text.
type BackupEntryID string

func (id *BackupEntryID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = BackupEntryID(s)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("entry id must be a string or an integer: %w", err)
	}
	if _, err := n.Int64(); err != nil {
		return fmt.Errorf("entry id must be a string or an integer: %w", err)
	}
	*id = BackupEntryID(n.String())
	return nil
}
