package model

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// XP去重靠数据库唯一索引兜底，三列缺一不可：
// 并发重复发放时只有一条能插进账本。
func TestXPEventLedgerUniqueIndex(t *testing.T) {
	eventType := reflect.TypeOf(XPEvent{})

	for _, name := range []string{"UserID", "Source", "ReferenceID"} {
		field, found := eventType.FieldByName(name)
		require.True(t, found, name)
		assert.Contains(t, field.Tag.Get("gorm"), "uniqueIndex:idx_xp_user_source_ref", name)
	}

	amount, found := eventType.FieldByName("Amount")
	require.True(t, found)
	assert.False(t, strings.Contains(amount.Tag.Get("gorm"), "uniqueIndex"), "金额不参与去重")
}
