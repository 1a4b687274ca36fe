package service

import (
	"time"

	"kiongozi_backend/internal/repository"
)

// StreakService 连续学习天数追踪。
// 日界采用UTC日历日：同一天内的多次活动不重复计数，
// 隔天递增，断档（>=2天）或首次活动重置为1。
type StreakService struct {
	UserRepo *repository.UserRepository

	// now 便于测试注入，默认 time.Now
	now func() time.Time
}

func NewStreakService(userRepo *repository.UserRepository) *StreakService {
	return &StreakService{
		UserRepo: userRepo,
		now:      time.Now,
	}
}

// utcDay 截断到UTC日历日
func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextStreak 纯函数的状态机：返回新的连续天数以及是否需要落库。
// last 为零值表示从未活跃。
func NextStreak(current int, last time.Time, now time.Time) (int, bool) {
	today := utcDay(now)

	if !last.IsZero() {
		lastDay := utcDay(last)
		switch int(today.Sub(lastDay).Hours() / 24) {
		case 0:
			// 同一天的重复活动，不变
			return current, false
		case 1:
			return current + 1, true
		}
	}

	// 断档或首次活动
	return 1, true
}

// UpdateStreak 记录一次学习活动并返回最新的连续天数。
// 连续天数与最后活跃日期在同一条UPDATE内持久化。
func (s *StreakService) UpdateStreak(userID uint) (int, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return 0, err
	}

	var last time.Time
	if user.LastActivityDate != nil {
		last = *user.LastActivityDate
	}

	now := s.now()
	streak, changed := NextStreak(user.CurrentStreak, last, now)
	if !changed {
		return streak, nil
	}

	if err := s.UserRepo.UpdateStreak(userID, streak, utcDay(now)); err != nil {
		return 0, err
	}
	return streak, nil
}
