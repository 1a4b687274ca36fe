package service

import (
	"kiongozi_backend/internal/model"
	"kiongozi_backend/internal/repository"
	"kiongozi_backend/internal/util"
)

// CommunityService 社区：帖子与评论，活动与签到。
// 活动签到走XP账本，来源 event_attendance，同一活动只发一次。
type CommunityService struct {
	CommunityRepo *repository.CommunityRepository
	EventRepo     *repository.EventRepository
	Gamification  *GamificationService
	Streaks       *StreakService

	EventAttendanceXP int
}

func NewCommunityService(
	communityRepo *repository.CommunityRepository,
	eventRepo *repository.EventRepository,
	gamification *GamificationService,
	streaks *StreakService,
	eventAttendanceXP int,
) *CommunityService {
	return &CommunityService{
		CommunityRepo:     communityRepo,
		EventRepo:         eventRepo,
		Gamification:      gamification,
		Streaks:           streaks,
		EventAttendanceXP: eventAttendanceXP,
	}
}

// ---- 帖子与评论 ----

type PostList struct {
	Posts []model.Post `json:"posts"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (s *CommunityService) ListPosts(page, limit int) (*PostList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	posts, total, err := s.CommunityRepo.ListPosts(page, limit)
	if err != nil {
		return nil, err
	}
	return &PostList{Posts: posts, Total: total, Page: page, Limit: limit}, nil
}

func (s *CommunityService) GetPost(id uint) (*model.Post, error) {
	return s.CommunityRepo.FindPostByID(id)
}

func (s *CommunityService) CreatePost(userID uint, title, content string) (*model.Post, error) {
	post := &model.Post{UserID: userID, Title: title, Content: content}
	if err := s.CommunityRepo.CreatePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost 只有作者本人或管理员可以删除
func (s *CommunityService) DeletePost(postID, userID uint, isAdmin bool) error {
	post, err := s.CommunityRepo.FindPostByID(postID)
	if err != nil {
		return err
	}
	if post.UserID != userID && !isAdmin {
		return util.ErrPermissionDenied
	}
	return s.CommunityRepo.DeletePost(postID)
}

func (s *CommunityService) AddComment(postID, userID uint, content string) (*model.Comment, error) {
	if _, err := s.CommunityRepo.FindPostByID(postID); err != nil {
		return nil, err
	}
	comment := &model.Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.CommunityRepo.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommunityService) DeleteComment(commentID, userID uint, isAdmin bool) error {
	comment, err := s.CommunityRepo.FindCommentByID(commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID && !isAdmin {
		return util.ErrPermissionDenied
	}
	return s.CommunityRepo.DeleteComment(commentID)
}

// ---- 活动 ----

type EventList struct {
	Events []model.Event `json:"events"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

func (s *CommunityService) ListUpcomingEvents(page, limit int) (*EventList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	events, total, err := s.EventRepo.ListUpcoming(page, limit)
	if err != nil {
		return nil, err
	}
	return &EventList{Events: events, Total: total, Page: page, Limit: limit}, nil
}

type EventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartsAt    string `json:"startsAt" binding:"required"` // RFC3339
	Capacity    int    `json:"capacity" binding:"min=0"`
}

func (s *CommunityService) CreateEvent(event *model.Event) error {
	return s.EventRepo.Create(event)
}

// AttendResult 签到结果
type AttendResult struct {
	XPAwarded int `json:"xpAwarded"`
}

// AttendEvent 活动签到。容量满或重复签到时拒绝，
// 签到算一次活跃，会推进连续学习天数。
func (s *CommunityService) AttendEvent(eventID, userID uint) (*AttendResult, error) {
	event, err := s.EventRepo.FindByID(eventID)
	if err != nil {
		return nil, err
	}

	if event.Capacity > 0 {
		count, err := s.EventRepo.CountAttendance(eventID)
		if err != nil {
			return nil, err
		}
		if count >= int64(event.Capacity) {
			return nil, util.ErrEventFull
		}
	}

	created, err := s.EventRepo.Attend(eventID, userID)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, util.ErrAlreadyAttending
	}

	result := &AttendResult{}

	awarded, err := s.Gamification.AwardXP(userID, model.XPSourceEventAttendance, eventID, s.EventAttendanceXP)
	if err != nil {
		return nil, err
	}
	if awarded {
		result.XPAwarded = s.EventAttendanceXP
	}

	if _, err := s.Streaks.UpdateStreak(userID); err != nil {
		return nil, err
	}

	return result, nil
}
