// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClone(t *testing.T) {
	assert.Nil(t, Clone[string](nil))

	original := To("Human")
	copied := Clone(original)
	assert.Equal(t, "Human", *copied)

	*original = "Alien"
	assert.Equal(t, "Human", *copied)
}

func TestFallback(t *testing.T) {
	assert.Equal(t, "any", Fallback(nil, "any"))
	assert.Equal(t, "Dead", Fallback(To("Dead"), "any"))
}
