package service

import (
	"context"
	"encoding/json"
	"lms_backend/internal/model"
	"lms_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const eventsChannel = "lms:events"

// NotificationService 事件下沉通道：发布尽力而为，
// 失败只记日志，绝不影响主操作
type NotificationService struct {
	Redis *redis.Client
}

func NewNotificationService(rdb *redis.Client) *NotificationService {
	return &NotificationService{Redis: rdb}
}

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     uint      `json:"userId"`
	CourseID   uint      `json:"courseId"`
	RefID      uint      `json:"refId"`
	Score      int       `json:"score,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (s *NotificationService) QuizPassed(userID, quizID, courseID uint, score int) {
	s.publish(Event{
		ID:         model.GenerateUUID(),
		Type:       "quiz_passed",
		UserID:     userID,
		CourseID:   courseID,
		RefID:      quizID,
		Score:      score,
		OccurredAt: time.Now(),
	})
}

func (s *NotificationService) ModuleCompleted(userID, moduleID, courseID uint) {
	s.publish(Event{
		ID:         model.GenerateUUID(),
		Type:       "module_completed",
		UserID:     userID,
		CourseID:   courseID,
		RefID:      moduleID,
		OccurredAt: time.Now(),
	})
}

func (s *NotificationService) publish(evt Event) {
	if s.Redis == nil {
		return
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		logger.Log.Warn("failed to encode event", zap.String("type", evt.Type), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.Redis.Publish(ctx, eventsChannel, payload).Err(); err != nil {
		logger.Log.Warn("failed to publish event",
			zap.String("type", evt.Type),
			zap.Uint("userId", evt.UserID),
			zap.Error(err))
	}
}
