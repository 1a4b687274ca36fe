package service

import (
	"testing"
	"time"

	"kiongozi_backend/internal/model"
	"kiongozi_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(id uint, points int, correctOption uint, options ...uint) model.QuizQuestion {
	q := model.QuizQuestion{Points: points}
	q.ID = id
	for _, optID := range options {
		opt := model.QuizOption{IsCorrect: optID == correctOption}
		opt.ID = optID
		q.Options = append(q.Options, opt)
	}
	return q
}

func TestScoreQuiz_PartialCredit(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, 10, 11, 11, 12),
		question(2, 20, 21, 21, 22),
		question(3, 30, 31, 31, 32),
	}

	// 第一题答对，第二题答错，第三题未作答
	score := ScoreQuiz(questions, map[uint]uint{1: 11, 2: 22})

	assert.Equal(t, 10, score.EarnedPoints)
	assert.Equal(t, 60, score.TotalPoints)
	assert.Equal(t, 17, score.Percentage) // 10/60 = 16.67 -> 17
}

func TestScoreQuiz_WeightedPercentage(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, 10, 11, 11, 12),
		question(2, 20, 21, 21, 22),
		question(3, 30, 31, 31, 32),
	}

	// 答对30分的题，30/60 = 50%
	score := ScoreQuiz(questions, map[uint]uint{3: 31})
	assert.Equal(t, 50, score.Percentage)
}

func TestScoreQuiz_AllCorrect(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, 10, 11, 11, 12),
		question(2, 20, 21, 21, 22),
	}

	score := ScoreQuiz(questions, map[uint]uint{1: 11, 2: 21})
	assert.Equal(t, 100, score.Percentage)
	assert.Equal(t, 30, score.EarnedPoints)
}

func TestScoreQuiz_NoAnswers(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, 10, 11, 11, 12),
	}

	score := ScoreQuiz(questions, map[uint]uint{})
	assert.Equal(t, 0, score.EarnedPoints)
	assert.Equal(t, 0, score.Percentage)
}

// 总分为0的退化测验定义为0%，永远不及格
func TestScoreQuiz_ZeroTotalPoints(t *testing.T) {
	score := ScoreQuiz(nil, map[uint]uint{})

	assert.Equal(t, 0, score.Percentage)
	assert.False(t, score.Passed(0), "零分值测验即使阈值为0也不及格")
	assert.False(t, score.Passed(70))
}

// 及格阈值为闭区间下界
func TestQuizScore_PassedInclusive(t *testing.T) {
	score := QuizScore{EarnedPoints: 70, TotalPoints: 100, Percentage: 70}
	assert.True(t, score.Passed(70), "正好等于阈值算通过")

	score = QuizScore{EarnedPoints: 69, TotalPoints: 100, Percentage: 69}
	assert.False(t, score.Passed(70))
}

func TestValidateQuestionOptions(t *testing.T) {
	correct := model.QuizOption{IsCorrect: true}
	wrong := model.QuizOption{IsCorrect: false}

	require.NoError(t, ValidateQuestionOptions([]model.QuizOption{correct, wrong, wrong}))

	err := ValidateQuestionOptions([]model.QuizOption{wrong, wrong})
	assert.ErrorIs(t, err, util.ErrOneCorrectOption, "没有正确选项")

	err = ValidateQuestionOptions([]model.QuizOption{correct, correct})
	assert.ErrorIs(t, err, util.ErrOneCorrectOption, "多个正确选项")

	err = ValidateQuestionOptions(nil)
	assert.ErrorIs(t, err, util.ErrOneCorrectOption, "没有任何选项")
}

// 数据不完整（无正确选项）的题目没人能得分，但分值仍计入总分
func TestScoreQuiz_QuestionWithoutCorrectOption(t *testing.T) {
	broken := question(1, 10, 0, 11, 12)
	questions := []model.QuizQuestion{broken, question(2, 10, 21, 21, 22)}

	score := ScoreQuiz(questions, map[uint]uint{1: 11, 2: 21})
	assert.Equal(t, 10, score.EarnedPoints)
	assert.Equal(t, 20, score.TotalPoints)
	assert.Equal(t, 50, score.Percentage)
}

func TestRecordAnswer_LastWriteWins(t *testing.T) {
	questions := []model.QuizQuestion{question(1, 10, 11, 11, 12)}
	session := &attemptSession{Answers: make(map[uint]uint)}

	// 先选对，再改选错：只有最后一次选择生效
	require.NoError(t, session.recordAnswer(questions, 1, 11))
	require.NoError(t, session.recordAnswer(questions, 1, 12))

	assert.Equal(t, uint(12), session.Answers[1])
	assert.Len(t, session.Answers, 1)

	score := ScoreQuiz(questions, session.Answers)
	assert.Equal(t, 0, score.EarnedPoints)

	// 改回正确答案后按正确计分
	require.NoError(t, session.recordAnswer(questions, 1, 11))
	score = ScoreQuiz(questions, session.Answers)
	assert.Equal(t, 10, score.EarnedPoints)
}

func TestRecordAnswer_RejectsForeignQuestionAndOption(t *testing.T) {
	questions := []model.QuizQuestion{question(1, 10, 11, 11, 12)}
	session := &attemptSession{Answers: make(map[uint]uint)}

	err := session.recordAnswer(questions, 99, 11)
	assert.ErrorIs(t, err, util.ErrQuestionNeedsAnswer, "题目不属于本测验")

	err = session.recordAnswer(questions, 1, 99)
	assert.ErrorIs(t, err, util.ErrQuestionNeedsAnswer, "选项不属于该题")

	assert.Empty(t, session.Answers)
}

func TestAttemptSessionExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	untimed := &attemptSession{}
	assert.False(t, untimed.expired(now), "不限时会话永不过期")

	deadline := now.Add(10 * time.Minute)
	timed := &attemptSession{Deadline: &deadline}
	assert.False(t, timed.expired(now))
	assert.False(t, timed.expired(deadline), "正好到截止时刻还能提交")
	assert.True(t, timed.expired(deadline.Add(time.Second)))
}

func TestParseSessionMember(t *testing.T) {
	userID, quizID, ok := parseSessionMember("7:42")
	require.True(t, ok)
	assert.Equal(t, uint(7), userID)
	assert.Equal(t, uint(42), quizID)

	for _, member := range []string{"", "7", "abc:42", "7:xyz", ":"} {
		_, _, ok := parseSessionMember(member)
		assert.False(t, ok, member)
	}
}
