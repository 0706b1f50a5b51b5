// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the time-ordered identifiers used for sessions and
request correlation.

Version 7 values sort by creation time, so session IDs in logs read in the
order they were created.
*/
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// NewV7 returns a new UUIDv7 string.
func NewV7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("uuid: failed to generate v7: %w", err)
	}
	return id.String(), nil
}

// New returns a UUIDv7 string, falling back to a random v4 when the v7
// generator fails. Use it where an ID is needed but failure is not an option.
func New() string {
	if id, err := NewV7(); err == nil {
		return id
	}
	return uuid.NewString()
}
