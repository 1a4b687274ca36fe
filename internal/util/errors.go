package util

import "errors"

var (
	ErrUserNotFound         = errors.New("用户不存在")
	ErrEmailRegistered      = errors.New("该邮箱已被注册")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrCourseNotFound       = errors.New("course not found")
	ErrModuleNotFound       = errors.New("module not found")
	ErrNotEnrolled          = errors.New("not enrolled in course")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrQuizNotPublished     = errors.New("quiz not published or not accessible")
	ErrAttemptNotStarted    = errors.New("quiz attempt not started")
	ErrAttemptSubmitted     = errors.New("quiz attempt already submitted")
	ErrQuestionNeedsAnswer  = errors.New("question does not belong to this quiz")
	ErrOneCorrectOption     = errors.New("每道题必须恰好有一个正确选项")
	ErrEventFull            = errors.New("event is at capacity")
	ErrAlreadyAttending     = errors.New("already attending this event")
	ErrAssistantUnavailable = errors.New("AI助手暂不可用")
)
