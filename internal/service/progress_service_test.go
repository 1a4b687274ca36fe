package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCourseProgress_Rounding(t *testing.T) {
	cases := []struct {
		completed  int
		total      int
		percentage int
		done       bool
	}{
		{0, 4, 0, false},
		{1, 4, 25, false},
		{3, 4, 75, false},
		{4, 4, 100, true},
		{1, 3, 33, false}, // 33.33 -> 33
		{2, 3, 67, false}, // 66.67 -> 67
		{1, 8, 13, false}, // 12.5 -> 13，四舍五入
		{7, 7, 100, true},
	}

	for _, tc := range cases {
		percentage, done := ComputeCourseProgress(tc.completed, tc.total)
		assert.Equal(t, tc.percentage, percentage, "%d/%d", tc.completed, tc.total)
		assert.Equal(t, tc.done, done, "%d/%d", tc.completed, tc.total)
	}
}

// 没有模块的课程定义为0%且不算完成，不会除零
func TestComputeCourseProgress_NoModules(t *testing.T) {
	percentage, done := ComputeCourseProgress(0, 0)
	assert.Equal(t, 0, percentage)
	assert.False(t, done)
}

// 199/200 = 99.5% 四舍五入会到100，但未全部完成时必须压回99
func TestComputeCourseProgress_NeverRoundsUpTo100(t *testing.T) {
	percentage, done := ComputeCourseProgress(199, 200)
	assert.Equal(t, 99, percentage)
	assert.False(t, done)
}

// 完成标志当且仅当百分比为100
func TestComputeCourseProgress_CompletedIff100(t *testing.T) {
	for total := 1; total <= 20; total++ {
		for completed := 0; completed <= total; completed++ {
			percentage, done := ComputeCourseProgress(completed, total)
			if done {
				assert.Equal(t, 100, percentage)
				assert.Equal(t, total, completed)
			}
			if completed == total {
				assert.True(t, done)
			}
		}
	}
}
