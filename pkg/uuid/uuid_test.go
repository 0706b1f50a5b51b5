// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/rickmorty/pkg/uuid"
)

func TestNewV7(t *testing.T) {
	first, err := uuid.NewV7()
	require.NoError(t, err)
	second, err := uuid.NewV7()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, googleuuid.Version(7), googleuuid.MustParse(first).Version())
}

func TestNew(t *testing.T) {
	id := uuid.New()
	require.NoError(t, googleuuid.Validate(id))
	assert.Equal(t, googleuuid.Version(7), googleuuid.MustParse(id).Version())
}
