package service

import (
	"context"
	"encoding/json"
	"time"

	"kiongozi_backend/internal/model"
	"kiongozi_backend/internal/repository"
	"kiongozi_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	leaderboardCacheKey = "gamification:leaderboard"
	leaderboardCacheTTL = 30 * time.Second
)

// GamificationService 维护XP账本和派生的等级/排行榜。
// users.total_xp 是 xp_events 的聚合值，两者在同一事务内更新，
// 并发会话不会出现丢失更新。
type GamificationService struct {
	UserRepo    *repository.UserRepository
	XPEventRepo *repository.XPEventRepository
	BadgeRepo   *repository.BadgeRepository
	Redis       *redis.Client
	DB          *gorm.DB
}

func NewGamificationService(
	userRepo *repository.UserRepository,
	xpEventRepo *repository.XPEventRepository,
	badgeRepo *repository.BadgeRepository,
	rdb *redis.Client,
	db *gorm.DB,
) *GamificationService {
	return &GamificationService{
		UserRepo:    userRepo,
		XPEventRepo: xpEventRepo,
		BadgeRepo:   badgeRepo,
		Redis:       rdb,
		DB:          db,
	}
}

// LevelInfo 等级计算结果
type LevelInfo struct {
	Level          int `json:"level"`
	XPIntoLevel    int `json:"xpIntoLevel"`
	XPForNextLevel int `json:"xpForNextLevel"`
}

// levelThreshold 达到 level 所需的累计XP。
// 升到下一级需要 100*level XP，逐级递增：
// L1=0, L2=100, L3=300, L4=600, L5=1000 ...
func levelThreshold(level int) int {
	if level <= 1 {
		return 0
	}
	return 50 * level * (level - 1)
}

// CalculateLevel 把累计XP映射为等级。对所有非负输入是纯函数；
// 负数按0处理（等级恒 >= 1）。
func CalculateLevel(totalXP int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}

	level := 1
	for levelThreshold(level+1) <= totalXP {
		level++
	}

	return LevelInfo{
		Level:          level,
		XPIntoLevel:    totalXP - levelThreshold(level),
		XPForNextLevel: levelThreshold(level+1) - levelThreshold(level),
	}
}

// AwardXP 追加一条账本记录并在同一事务内更新派生聚合。
// 同一 (user, source, reference) 只记一次账，重复调用为空操作。
// 返回本次是否真正发放。
func (s *GamificationService) AwardXP(userID uint, source model.XPSource, referenceID uint, amount int) (bool, error) {
	if amount <= 0 {
		return false, nil
	}

	awarded := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		event := &model.XPEvent{
			UserID:      userID,
			Source:      source,
			ReferenceID: referenceID,
			Amount:      amount,
		}
		// 唯一索引冲突忽略：并发的重复发放只有一条能插进账本，
		// 没插进去就不动聚合
		created, err := s.XPEventRepo.AppendTx(tx, event)
		if err != nil {
			return err
		}
		if !created {
			return nil
		}
		awarded = true

		if err := tx.Model(&model.User{}).
			Where("id = ?", userID).
			Update("total_xp", gorm.Expr("total_xp + ?", amount)).
			Error; err != nil {
			return err
		}

		// 等级是派生值，读回新总量后重算
		var user model.User
		if err := tx.Select("id", "total_xp", "level").First(&user, userID).Error; err != nil {
			return err
		}
		info := CalculateLevel(user.TotalXP)
		if info.Level != user.Level {
			if err := tx.Model(&model.User{}).
				Where("id = ?", userID).
				Update("level", info.Level).
				Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if !awarded {
		return false, nil
	}

	monitoring.XPAwardCounter.WithLabelValues(string(source)).Add(float64(amount))
	return true, nil
}

// RecomputeTotalXP 从账本重建聚合（维护工具，不在正常路径上）
func (s *GamificationService) RecomputeTotalXP(userID uint) (int, error) {
	total, err := s.XPEventRepo.SumByUser(userID)
	if err != nil {
		return 0, err
	}
	info := CalculateLevel(total)
	err = s.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"total_xp": total, "level": info.Level}).
		Error
	return total, err
}

type UserAchievements struct {
	TotalXP        int                `json:"totalXp"`
	CurrentLevel   int                `json:"currentLevel"`
	XPIntoLevel    int                `json:"xpIntoLevel"`
	XPForNextLevel int                `json:"xpForNextLevel"`
	CurrentStreak  int                `json:"currentStreak"`
	Badges         []model.Badge      `json:"badges"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	User   string `json:"user"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
	Avatar string `json:"avatar,omitempty"`
}

func (s *GamificationService) GetUserAchievements(userID uint) (*UserAchievements, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	badges, err := s.BadgeRepo.ListUserBadges(userID)
	if err != nil {
		return nil, err
	}

	leaderboard, err := s.GetLeaderboard(10)
	if err != nil {
		return nil, err
	}

	info := CalculateLevel(user.TotalXP)

	return &UserAchievements{
		TotalXP:        user.TotalXP,
		CurrentLevel:   info.Level,
		XPIntoLevel:    info.XPIntoLevel,
		XPForNextLevel: info.XPForNextLevel,
		CurrentStreak:  user.CurrentStreak,
		Badges:         badges,
		Leaderboard:    leaderboard,
	}, nil
}

// GetLeaderboard 排行榜带30秒redis缓存
func (s *GamificationService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	ctx := context.Background()

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var leaderboard []LeaderboardEntry
			if json.Unmarshal([]byte(cached), &leaderboard) == nil && len(leaderboard) >= limit {
				return leaderboard[:limit], nil
			}
		}
	}

	users, err := s.UserRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	leaderboard := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		leaderboard[i] = LeaderboardEntry{
			Rank:   i + 1,
			User:   user.Name,
			XP:     user.TotalXP,
			Level:  user.Level,
			Avatar: user.Avatar,
		}
	}

	if s.Redis != nil {
		if data, err := json.Marshal(leaderboard); err == nil {
			s.Redis.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL)
		}
	}

	return leaderboard, nil
}
