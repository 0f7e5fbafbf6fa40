// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-support/pkg/uuid"
)

func TestNew_TimeOrdered(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.Len(t, first, 36)
	assert.Equal(t, byte('7'), first[14], "version nibble")
	assert.Less(t, first, second)
}

func TestCanonical(t *testing.T) {
	got, ok := uuid.Canonical("0190A6E4-3C1B-7A2E-8F00-1234567890AB")
	assert.True(t, ok)
	assert.Equal(t, "0190a6e4-3c1b-7a2e-8f00-1234567890ab", got)

	_, ok = uuid.Canonical("not-a-uuid")
	assert.False(t, ok)
}
