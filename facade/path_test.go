package facade_test

import (
	"testing"

	"github.com/nicolagi/kvgate/facade"
	"github.com/stretchr/testify/assert"
)

func TestMatchPath(t *testing.T) {
	t.Run("both present", func(t *testing.T) {
		table, key, ok := facade.MatchPath(map[string]string{"table": "users", "key": "alice", "extra": "ignored"})
		assert.True(t, ok)
		assert.Equal(t, "users", table)
		assert.Equal(t, "alice", key)
	})
	for _, params := range []map[string]string{
		nil,
		{},
		{"table": "users"},
		{"key": "alice"},
		{"table": "", "key": "alice"},
		{"table": "users", "key": ""},
		{"Table": "users", "Key": "alice"},
	} {
		table, key, ok := facade.MatchPath(params)
		assert.False(t, ok, "params: %v", params)
		assert.Empty(t, table)
		assert.Empty(t, key)
	}
}
