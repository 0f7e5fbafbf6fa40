// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-support/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := map[string]string{
		"Server won't start!":       "server-won-t-start",
		"  Café  déjà vu  ":         "cafe-deja-vu",
		"Plugin / Mod --- conflict": "plugin-mod-conflict",
		"日本語":                       "",
		"1.20.4 crash on boot":      "1-20-4-crash-on-boot",
	}

	for in, want := range tests {
		assert.Equal(t, want, slug.From(in), in)
	}
}

func TestTruncated(t *testing.T) {
	assert.Equal(t, "how-do-i", slug.Truncated("How do I configure backups", 10))
	assert.Equal(t, "short", slug.Truncated("Short", 10))
}
