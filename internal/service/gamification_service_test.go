package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateLevel_Thresholds(t *testing.T) {
	cases := []struct {
		totalXP int
		level   int
	}{
		{0, 1},
		{99, 1},
		{100, 2}, // 正好达到阈值即升级
		{299, 2},
		{300, 3},
		{599, 3},
		{600, 4},
		{1000, 5},
	}

	for _, tc := range cases {
		info := CalculateLevel(tc.totalXP)
		assert.Equal(t, tc.level, info.Level, "totalXP=%d", tc.totalXP)
	}
}

func TestCalculateLevel_Progress(t *testing.T) {
	// L2 从 100 开始，升 L3 需要 200
	info := CalculateLevel(150)
	require.Equal(t, 2, info.Level)
	assert.Equal(t, 50, info.XPIntoLevel)
	assert.Equal(t, 200, info.XPForNextLevel)
}

func TestCalculateLevel_NegativeClampedToZero(t *testing.T) {
	info := CalculateLevel(-500)
	assert.Equal(t, 1, info.Level)
	assert.Equal(t, 0, info.XPIntoLevel)
}

// 每级所需XP严格递增
func TestLevelThreshold_StrictlyIncreasingCost(t *testing.T) {
	prevCost := 0
	for level := 2; level <= 50; level++ {
		cost := levelThreshold(level) - levelThreshold(level-1)
		require.Greater(t, cost, prevCost, "level %d", level)
		prevCost = cost
	}
}

// 等级关于累计XP单调不减
func TestCalculateLevel_Monotonic(t *testing.T) {
	prev := 1
	for xp := 0; xp <= 20000; xp += 50 {
		level := CalculateLevel(xp).Level
		require.GreaterOrEqual(t, level, prev, "xp=%d", xp)
		prev = level
	}
}
