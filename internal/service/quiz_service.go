package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"kiongozi_backend/internal/model"
	"kiongozi_backend/internal/repository"
	"kiongozi_backend/internal/util"
	"kiongozi_backend/pkg/logger"
	"kiongozi_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	quizSessionKeyPrefix  = "quiz:session:"
	quizDeadlineSetKey    = "quiz:session:deadlines"
	untimedSessionTTL     = 24 * time.Hour
	timedSessionTTLSlack  = 5 * time.Minute
)

// QuizService 测验引擎：单次作答的状态机
// （NotStarted → InProgress → Submitted，无取消态），
// 计分，以及限时测验的服务端倒计时与到点自动提交。
// 作答会话放在redis里，答案逐题累积，后写覆盖先写。
type QuizService struct {
	QuizRepo     *repository.QuizRepository
	Gamification *GamificationService
	Badges       *BadgeService
	Streaks      *StreakService
	Redis        *redis.Client

	QuizPassXP int
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	gamification *GamificationService,
	badges *BadgeService,
	streaks *StreakService,
	rdb *redis.Client,
	quizPassXP int,
) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		Gamification: gamification,
		Badges:       badges,
		Streaks:      streaks,
		Redis:        rdb,
		QuizPassXP:   quizPassXP,
	}
}

// ---- 纯计分逻辑 ----

// QuizScore 一次作答的计分结果
type QuizScore struct {
	EarnedPoints int `json:"earnedPoints"`
	TotalPoints  int `json:"totalPoints"`
	Percentage   int `json:"percentage"` // 0-100，四舍五入
}

// correctOptionID 题目的正确选项ID；0 表示数据不完整（该题无人能得分）
func correctOptionID(question model.QuizQuestion) uint {
	for _, option := range question.Options {
		if option.IsCorrect {
			return option.ID
		}
	}
	return 0
}

// ScoreQuiz 计分：选中的选项等于该题的正确选项才得分，
// 未作答或答错记0分。总分为0的退化测验定义为0%。
func ScoreQuiz(questions []model.QuizQuestion, answers map[uint]uint) QuizScore {
	var score QuizScore

	for _, question := range questions {
		score.TotalPoints += question.Points

		correctID := correctOptionID(question)
		if correctID == 0 {
			continue
		}
		if selected, ok := answers[question.ID]; ok && selected == correctID {
			score.EarnedPoints += question.Points
		}
	}

	if score.TotalPoints > 0 {
		score.Percentage = int(math.Round(100 * float64(score.EarnedPoints) / float64(score.TotalPoints)))
	}

	return score
}

// Passed 及格判定，阈值为闭区间下界（正好等于阈值算通过）。
// 零分值测验永远不及格。
func (s QuizScore) Passed(passingScore int) bool {
	if s.TotalPoints <= 0 {
		return false
	}
	return s.Percentage >= passingScore
}

// ValidateQuestionOptions 出题校验：每道题必须恰好一个正确选项
func ValidateQuestionOptions(options []model.QuizOption) error {
	correct := 0
	for _, option := range options {
		if option.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return util.ErrOneCorrectOption
	}
	return nil
}

// ---- 作答会话 ----

type attemptSession struct {
	UserID    uint          `json:"userId"`
	QuizID    uint          `json:"quizId"`
	StartedAt time.Time     `json:"startedAt"`
	Deadline  *time.Time    `json:"deadline,omitempty"` // nil 表示不限时
	Answers   map[uint]uint `json:"answers"`
}

func sessionKey(userID, quizID uint) string {
	return fmt.Sprintf("%s%d:%d", quizSessionKeyPrefix, userID, quizID)
}

func sessionMember(userID, quizID uint) string {
	return fmt.Sprintf("%d:%d", userID, quizID)
}

// parseSessionMember 解析有序集合成员 "user:quiz"，格式不对返回 false
func parseSessionMember(member string) (userID, quizID uint, ok bool) {
	parts := strings.SplitN(member, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	user, err1 := strconv.ParseUint(parts[0], 10, 64)
	quiz, err2 := strconv.ParseUint(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return uint(user), uint(quiz), true
}

// expired 限时会话是否已过截止时刻；不限时会话永不过期
func (session *attemptSession) expired(now time.Time) bool {
	return session.Deadline != nil && now.After(*session.Deadline)
}

// recordAnswer 校验题目和选项都属于本测验后记录选择。
// 同一题重复选择时后写覆盖先写，单选语义：每题至多保留一个选项。
func (session *attemptSession) recordAnswer(questions []model.QuizQuestion, questionID, optionID uint) error {
	for _, question := range questions {
		if question.ID != questionID {
			continue
		}
		for _, option := range question.Options {
			if option.ID == optionID {
				session.Answers[questionID] = optionID
				return nil
			}
		}
		break
	}
	return util.ErrQuestionNeedsAnswer
}

func (s *QuizService) loadSession(ctx context.Context, userID, quizID uint) (*attemptSession, error) {
	data, err := s.Redis.Get(ctx, sessionKey(userID, quizID)).Result()
	if err == redis.Nil {
		return nil, util.ErrAttemptNotStarted
	}
	if err != nil {
		return nil, err
	}
	var session attemptSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *QuizService) saveSession(ctx context.Context, session *attemptSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := untimedSessionTTL
	if session.Deadline != nil {
		ttl = time.Until(*session.Deadline) + timedSessionTTLSlack
	}
	return s.Redis.Set(ctx, sessionKey(session.UserID, session.QuizID), data, ttl).Err()
}

func (s *QuizService) dropSession(ctx context.Context, userID, quizID uint) {
	s.Redis.Del(ctx, sessionKey(userID, quizID))
	s.Redis.ZRem(ctx, quizDeadlineSetKey, sessionMember(userID, quizID))
}

// ---- 学习者视图 DTO（不泄露 IsCorrect）----

type QuizOptionView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuizQuestionView struct {
	ID      uint             `json:"id"`
	Text    string           `json:"text"`
	Points  int              `json:"points"`
	Options []QuizOptionView `json:"options"`
}

type QuizAttemptView struct {
	QuizID           uint               `json:"quizId"`
	Title            string             `json:"title"`
	PassingScore     int                `json:"passingScore"`
	TimeLimitMinutes int                `json:"timeLimitMinutes"`
	RemainingSeconds int                `json:"remainingSeconds"` // 不限时为0
	Questions        []QuizQuestionView `json:"questions"`
	Answers          map[uint]uint      `json:"answers"`
}

func buildQuizView(quiz *model.Quiz, session *attemptSession) *QuizAttemptView {
	view := &QuizAttemptView{
		QuizID:           quiz.ID,
		Title:            quiz.Title,
		PassingScore:     quiz.PassingScore,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		Answers:          session.Answers,
	}
	if session.Deadline != nil {
		remaining := int(time.Until(*session.Deadline).Seconds())
		if remaining < 0 {
			remaining = 0
		}
		view.RemainingSeconds = remaining
	}
	for _, question := range quiz.Questions {
		qv := QuizQuestionView{
			ID:     question.ID,
			Text:   question.Text,
			Points: question.Points,
		}
		for _, option := range question.Options {
			qv.Options = append(qv.Options, QuizOptionView{ID: option.ID, Text: option.Text})
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

// ---- 操作 ----

// StartAttempt 开始（或恢复）一次作答。限时测验从开始时刻起倒计时，
// 截止时间登记到redis有序集合供后台清扫器自动提交。
func (s *QuizService) StartAttempt(userID, quizID uint) (*QuizAttemptView, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if !quiz.Published {
		return nil, util.ErrQuizNotPublished
	}

	ctx := context.Background()

	// 已有进行中的会话则恢复，不重置倒计时
	if session, err := s.loadSession(ctx, userID, quizID); err == nil {
		return buildQuizView(quiz, session), nil
	} else if !errors.Is(err, util.ErrAttemptNotStarted) {
		return nil, err
	}

	now := time.Now()
	session := &attemptSession{
		UserID:    userID,
		QuizID:    quizID,
		StartedAt: now,
		Answers:   make(map[uint]uint),
	}
	if quiz.TimeLimitMinutes > 0 {
		deadline := now.Add(time.Duration(quiz.TimeLimitMinutes) * time.Minute)
		session.Deadline = &deadline

		err = s.Redis.ZAdd(ctx, quizDeadlineSetKey, &redis.Z{
			Score:  float64(deadline.Unix()),
			Member: sessionMember(userID, quizID),
		}).Err()
		if err != nil {
			return nil, err
		}
	}

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	return buildQuizView(quiz, session), nil
}

// SaveAnswer 记录某题的选择。同一题重复选择时后写覆盖先写，
// 单选语义：每题至多一个选项。
func (s *QuizService) SaveAnswer(userID, quizID, questionID, optionID uint) error {
	ctx := context.Background()

	session, err := s.loadSession(ctx, userID, quizID)
	if err != nil {
		return err
	}

	// 倒计时归零后不再接受作答，直接按现有答案自动提交
	if session.expired(time.Now()) {
		if _, err := s.finalize(ctx, session, true); err != nil {
			return err
		}
		return util.ErrAttemptSubmitted
	}

	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		return util.ErrQuizNotFound
	}

	if err := session.recordAnswer(quiz.Questions, questionID, optionID); err != nil {
		return err
	}
	return s.saveSession(ctx, session)
}

// QuizResultView 提交后的结果
type QuizResultView struct {
	Score        int           `json:"score"`
	EarnedPoints int           `json:"earnedPoints"`
	TotalPoints  int           `json:"totalPoints"`
	Passed       bool          `json:"passed"`
	XPAwarded    int           `json:"xpAwarded"`
	NewBadges    []model.Badge `json:"newBadges"`
	AutoSubmit   bool          `json:"autoSubmit"`
}

// Submit 显式提交。会话即刻转入终态，重复提交返回错误。
func (s *QuizService) Submit(userID, quizID uint) (*QuizResultView, error) {
	ctx := context.Background()

	session, err := s.loadSession(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}

	// 赶在清扫器之前的超时提交也按自动提交结算
	return s.finalize(ctx, session, session.expired(time.Now()))
}

// finalize 计分并落库。通过时的XP奖励只在首次通过发放
// （允许重复练习，但总XP保持可信）。
func (s *QuizService) finalize(ctx context.Context, session *attemptSession, auto bool) (*QuizResultView, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(session.QuizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}

	score := ScoreQuiz(quiz.Questions, session.Answers)
	passed := score.Passed(quiz.PassingScore)

	// 先看是否已经通过过，再插入新的作答记录
	passedBefore, err := s.QuizRepo.HasPassedAttempt(session.UserID, session.QuizID)
	if err != nil {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		UserID:       session.UserID,
		QuizID:       session.QuizID,
		Score:        score.Percentage,
		EarnedPoints: score.EarnedPoints,
		TotalPoints:  score.TotalPoints,
		Passed:       passed,
		AutoSubmit:   auto,
		Answers:      session.Answers,
		StartedAt:    session.StartedAt,
		SubmittedAt:  time.Now(),
	}
	if err := s.QuizRepo.SaveAttempt(attempt); err != nil {
		return nil, err
	}

	// 终态：会话删除后这次作答不可再提交
	s.dropSession(ctx, session.UserID, session.QuizID)

	result := &QuizResultView{
		Score:        score.Percentage,
		EarnedPoints: score.EarnedPoints,
		TotalPoints:  score.TotalPoints,
		Passed:       passed,
		AutoSubmit:   auto,
	}

	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	monitoring.QuizSubmissionCounter.WithLabelValues(outcome).Inc()

	if passed && !passedBefore {
		xp := quiz.XPReward
		if xp <= 0 {
			xp = s.QuizPassXP
		}
		awarded, err := s.Gamification.AwardXP(session.UserID, model.XPSourceQuizPass, session.QuizID, xp)
		if err != nil {
			return nil, err
		}
		if awarded {
			result.XPAwarded = xp
		}
	}

	if _, err := s.Streaks.UpdateStreak(session.UserID); err != nil {
		return nil, err
	}

	badges, err := s.Badges.CheckAndAwardBadges(session.UserID)
	if err != nil {
		return nil, err
	}
	result.NewBadges = badges

	return result, nil
}

// SweepExpiredAttempts 后台清扫：倒计时归零的会话按现有答案自动提交，
// 未作答的题目按答错计分。由 app 层的定时器驱动。
func (s *QuizService) SweepExpiredAttempts() error {
	ctx := context.Background()

	members, err := s.Redis.ZRangeByScore(ctx, quizDeadlineSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(time.Now().Unix(), 10),
	}).Result()
	if err != nil {
		return err
	}

	for _, member := range members {
		s.sweepMember(ctx, member)
	}

	return nil
}

// sweepMember 处理一个到期成员。任何失败都只影响该成员，
// 坏数据从集合里摘掉，不阻塞后面的自动提交。
func (s *QuizService) sweepMember(ctx context.Context, member string) {
	userID, quizID, ok := parseSessionMember(member)
	if !ok {
		s.Redis.ZRem(ctx, quizDeadlineSetKey, member)
		return
	}

	session, err := s.loadSession(ctx, userID, quizID)
	if errors.Is(err, util.ErrAttemptNotStarted) {
		// 学习者赶在清扫前提交了
		s.Redis.ZRem(ctx, quizDeadlineSetKey, member)
		return
	}
	if err != nil {
		logger.Log.Error("quiz session unreadable, dropping from sweep",
			zap.String("member", member),
			zap.Error(err))
		s.Redis.ZRem(ctx, quizDeadlineSetKey, member)
		return
	}

	if _, err := s.finalize(ctx, session, true); err != nil {
		logger.Log.Error("auto-submit failed",
			zap.Uint("userID", userID),
			zap.Uint("quizID", quizID),
			zap.Error(err))
	}
}

// ListAttempts 作答历史
func (s *QuizService) ListAttempts(userID, quizID uint) ([]model.QuizAttempt, error) {
	return s.QuizRepo.ListAttempts(userID, quizID)
}

func (s *QuizService) ListByCourse(courseID uint) ([]model.Quiz, error) {
	return s.QuizRepo.FindPublishedByCourse(courseID)
}

// ---- 出题（教师/管理员）----

type QuizOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuizQuestionRequest struct {
	Text    string              `json:"text" binding:"required"`
	Points  int                 `json:"points" binding:"required,min=1"`
	Options []QuizOptionRequest `json:"options" binding:"required,min=2"`
}

type QuizRequest struct {
	CourseID         uint                  `json:"courseId" binding:"required"`
	ModuleID         *uint                 `json:"moduleId"`
	Title            string                `json:"title" binding:"required"`
	PassingScore     int                   `json:"passingScore" binding:"min=0,max=100"`
	TimeLimitMinutes int                   `json:"timeLimitMinutes" binding:"min=0"`
	XPReward         int                   `json:"xpReward" binding:"min=0"`
	Published        bool                  `json:"published"`
	Questions        []QuizQuestionRequest `json:"questions" binding:"required,min=1"`
}

// CreateQuiz 级联创建，落库前校验每道题恰好一个正确选项
func (s *QuizService) CreateQuiz(req QuizRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{
		CourseID:         req.CourseID,
		ModuleID:         req.ModuleID,
		Title:            req.Title,
		PassingScore:     req.PassingScore,
		TimeLimitMinutes: req.TimeLimitMinutes,
		XPReward:         req.XPReward,
		Published:        req.Published,
	}

	for qi, questionReq := range req.Questions {
		question := model.QuizQuestion{
			Text:     questionReq.Text,
			Points:   questionReq.Points,
			Position: qi,
		}
		for oi, optionReq := range questionReq.Options {
			question.Options = append(question.Options, model.QuizOption{
				Text:      optionReq.Text,
				IsCorrect: optionReq.IsCorrect,
				Position:  oi,
			})
		}
		if err := ValidateQuestionOptions(question.Options); err != nil {
			return nil, err
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.QuizRepo.CreateWithQuestions(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(id uint) error {
	return s.QuizRepo.Delete(id)
}
