package service

import (
	"testing"

	"kiongozi_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func badge(id uint, criteria model.BadgeCriteria, threshold int) model.Badge {
	b := model.Badge{CriteriaType: criteria, Threshold: threshold, Enabled: true}
	b.ID = id
	return b
}

func TestQualifiesFor_AllCriteria(t *testing.T) {
	stats := LearnerStats{
		ModulesCompleted: 10,
		CurrentStreak:    7,
		QuizzesPassed:    3,
		CoursesCompleted: 1,
		TotalXP:          950,
	}

	assert.True(t, QualifiesFor(stats, badge(1, model.CriteriaModulesCompleted, 10)), "正好达到阈值")
	assert.False(t, QualifiesFor(stats, badge(2, model.CriteriaModulesCompleted, 11)))
	assert.True(t, QualifiesFor(stats, badge(3, model.CriteriaStreakDays, 7)))
	assert.True(t, QualifiesFor(stats, badge(4, model.CriteriaQuizzesPassed, 1)))
	assert.False(t, QualifiesFor(stats, badge(5, model.CriteriaCoursesCompleted, 2)))
	assert.False(t, QualifiesFor(stats, badge(6, model.CriteriaXPTotal, 1000)))
}

func TestQualifiesFor_UnknownCriteria(t *testing.T) {
	stats := LearnerStats{ModulesCompleted: 100}
	assert.False(t, QualifiesFor(stats, badge(1, "unknown_criteria", 1)))
}

func TestNewlyQualified_SkipsOwned(t *testing.T) {
	stats := LearnerStats{ModulesCompleted: 5, QuizzesPassed: 2}
	badges := []model.Badge{
		badge(1, model.CriteriaModulesCompleted, 1),
		badge(2, model.CriteriaModulesCompleted, 5),
		badge(3, model.CriteriaQuizzesPassed, 5),
	}

	// 徽章1已持有，不再返回
	qualified := NewlyQualified(stats, badges, map[uint]bool{1: true})

	require.Len(t, qualified, 1)
	assert.Equal(t, uint(2), qualified[0].ID)
}

// 重复评估同一快照：第一轮授予后标记为已持有，第二轮不再返回
func TestNewlyQualified_ExactlyOnce(t *testing.T) {
	stats := LearnerStats{CurrentStreak: 7}
	badges := []model.Badge{badge(1, model.CriteriaStreakDays, 7)}
	owned := map[uint]bool{}

	first := NewlyQualified(stats, badges, owned)
	require.Len(t, first, 1)

	for _, b := range first {
		owned[b.ID] = true
	}

	second := NewlyQualified(stats, badges, owned)
	assert.Empty(t, second)
}

func TestNewlyQualified_NoneQualified(t *testing.T) {
	stats := LearnerStats{}
	badges := []model.Badge{
		badge(1, model.CriteriaModulesCompleted, 1),
		badge(2, model.CriteriaXPTotal, 100),
	}

	assert.Empty(t, NewlyQualified(stats, badges, nil))
}
