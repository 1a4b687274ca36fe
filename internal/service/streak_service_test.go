package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextStreak_FirstActivity(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	streak, changed := NextStreak(0, time.Time{}, now)
	assert.Equal(t, 1, streak)
	assert.True(t, changed)
}

// 同一UTC日历日内的重复活动不改变连续天数
func TestNextStreak_SameDayIdempotent(t *testing.T) {
	morning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)

	streak, changed := NextStreak(5, morning, evening)
	assert.Equal(t, 5, streak)
	assert.False(t, changed)
}

func TestNextStreak_ConsecutiveDay(t *testing.T) {
	yesterday := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)

	streak, changed := NextStreak(5, yesterday, today)
	assert.Equal(t, 6, streak)
	assert.True(t, changed)
}

// 隔一天以上重置为1，不是0
func TestNextStreak_GapResets(t *testing.T) {
	last := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	streak, changed := NextStreak(30, last, now)
	assert.Equal(t, 1, streak)
	assert.True(t, changed)
}

// 边界按UTC日历日判断，不是24小时滑动窗口
func TestNextStreak_UTCCalendarBoundary(t *testing.T) {
	// 23:50 -> 次日 00:10，间隔20分钟但跨了日历日
	last := time.Date(2026, 3, 9, 23, 50, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 0, 10, 0, 0, time.UTC)

	streak, changed := NextStreak(3, last, now)
	assert.Equal(t, 4, streak)
	assert.True(t, changed)
}

func TestNextStreak_NonUTCInputNormalized(t *testing.T) {
	tz := time.FixedZone("UTC+8", 8*3600)
	// 本地 2026-03-11 07:00 = UTC 2026-03-10 23:00，和 last 同一UTC日
	last := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 11, 7, 0, 0, 0, tz)

	streak, changed := NextStreak(2, last, now)
	assert.Equal(t, 2, streak)
	assert.False(t, changed)
}
