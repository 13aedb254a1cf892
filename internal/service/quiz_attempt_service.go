package service

import (
	"encoding/json"
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
)

// QuizAttemptService 测验尝试的生命周期管理：开始、提交评分、查询。
// 次数上限检查与插入由仓储在同一事务内完成，服务层不做预检查
type QuizAttemptService struct {
	AttemptRepo repository.QuizAttemptRepository
	CourseRepo  repository.CourseRepository
	Progress    *ProgressService
	Notifier    *NotificationService
}

func NewQuizAttemptService(
	attemptRepo repository.QuizAttemptRepository,
	courseRepo repository.CourseRepository,
	progress *ProgressService,
	notifier *NotificationService,
) *QuizAttemptService {
	return &QuizAttemptService{
		AttemptRepo: attemptRepo,
		CourseRepo:  courseRepo,
		Progress:    progress,
		Notifier:    notifier,
	}
}

// QuestionView 下发给学员的题目视图，不含标准答案
type QuestionView struct {
	ID      uint               `json:"id"`
	Text    string             `json:"text"`
	Type    model.QuestionType `json:"type"`
	Options []string           `json:"options,omitempty"`
	Points  int                `json:"points"`
}

type StartAttemptResult struct {
	Attempt           *model.QuizAttempt `json:"attempt"`
	Questions         []QuestionView     `json:"questions"`
	TimeLimit         int                `json:"timeLimit"`
	RemainingAttempts int                `json:"remainingAttempts"` // -1 表示不限次
}

type SubmittedAnswer struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer"`
	Confidence int    `json:"confidence"`
}

type AttemptResult struct {
	Attempt   *model.QuizAttempt     `json:"attempt"`
	Responses []model.AnswerResponse `json:"responses"`
}

func (s *QuizAttemptService) StartAttempt(quizID, userID uint) (*StartAttemptResult, error) {
	quiz, err := s.CourseRepo.FindQuizByID(quizID)
	if err != nil {
		return nil, fmt.Errorf("%w: quiz %d", util.ErrNotFound, quizID)
	}

	attempt, err := s.AttemptRepo.StartAttempt(quiz, userID)
	if err != nil {
		return nil, err
	}
	monitoring.AttemptsStarted.Inc()

	logger.Log.Info("quiz attempt started",
		zap.Uint("quizId", quizID),
		zap.Uint("userId", userID),
		zap.Int("attemptNumber", attempt.AttemptNumber))

	questions := make([]QuestionView, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Type:    q.Type,
			Options: ParseOptions(q.Options),
			Points:  q.Points,
		})
	}

	remaining := -1
	if quiz.AttemptsAllowed > 0 {
		remaining = quiz.AttemptsAllowed - attempt.AttemptNumber
	}

	return &StartAttemptResult{
		Attempt:           attempt,
		Questions:         questions,
		TimeLimit:         quiz.TimeLimit,
		RemainingAttempts: remaining,
	}, nil
}

// SubmitAttempt 评分并落库。未知题目 ID 静默跳过，不计入得分也不报错；
// 同一题目重复提交时以最后一次为准，每题至多产生一条答题记录；
// 得分 = round(获得分 / 可得分 * 100)，可得分只统计实际提交的已知题目
func (s *QuizAttemptService) SubmitAttempt(attemptID, userID uint, answers []SubmittedAnswer) (*AttemptResult, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, fmt.Errorf("%w: attempt %d", util.ErrNotFound, attemptID)
	}
	if attempt.UserID != userID {
		return nil, fmt.Errorf("%w: attempt belongs to another user", util.ErrAccessDenied)
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, fmt.Errorf("%w: attempt already %s", util.ErrInvalidState, attempt.Status)
	}

	quiz, err := s.CourseRepo.FindQuizByID(attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("%w: quiz %d", util.ErrNotFound, attempt.QuizID)
	}

	questionsByID := make(map[uint]model.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questionsByID[q.ID] = q
	}

	// 去重后再评分，答题记录上的 (attempt_id, question_id) 唯一索引才不会拒绝整次提交
	deduped := make([]SubmittedAnswer, 0, len(answers))
	position := make(map[uint]int, len(answers))
	for _, sub := range answers {
		if i, ok := position[sub.QuestionID]; ok {
			deduped[i] = sub
			continue
		}
		position[sub.QuestionID] = len(deduped)
		deduped = append(deduped, sub)
	}

	var (
		responses      []model.AnswerResponse
		earnedPoints   int
		possiblePoints int
	)
	for _, sub := range deduped {
		question, known := questionsByID[sub.QuestionID]
		if !known {
			logger.Log.Warn("skipping answer for unknown question",
				zap.Uint("attemptId", attemptID),
				zap.Uint("questionId", sub.QuestionID))
			continue
		}

		options := ParseOptions(question.Options)
		normalized := NormalizeCorrectAnswer(question.CorrectAnswer, options)
		correct := IsCorrect(question.Type, sub.Answer, normalized)

		possiblePoints += question.Points
		points := 0
		if correct {
			points = question.Points
			earnedPoints += points
		}

		responses = append(responses, model.AnswerResponse{
			QuestionID:   sub.QuestionID,
			Answer:       sub.Answer,
			IsCorrect:    correct,
			PointsEarned: points,
			Confidence:   sub.Confidence,
		})
	}

	sort.Slice(responses, func(i, j int) bool {
		return responses[i].QuestionID < responses[j].QuestionID
	})

	score := 0
	if possiblePoints > 0 {
		score = int(math.Round(float64(earnedPoints) / float64(possiblePoints) * 100))
	}

	now := time.Now()
	attempt.Status = model.AttemptCompleted
	attempt.Score = score
	attempt.Passed = score >= quiz.PassingScore
	attempt.CompletedAt = &now
	if raw, err := json.Marshal(deduped); err == nil {
		attempt.Answers = string(raw)
	}

	if err := s.AttemptRepo.SaveCompleted(attempt, responses); err != nil {
		return nil, err
	}
	monitoring.AttemptsSubmitted.WithLabelValues(fmt.Sprintf("%t", attempt.Passed)).Inc()

	logger.Log.Info("quiz attempt submitted",
		zap.Uint("attemptId", attemptID),
		zap.Uint("userId", userID),
		zap.Int("score", score),
		zap.Bool("passed", attempt.Passed))

	module, err := s.CourseRepo.FindModuleByID(quiz.ModuleID)
	if err != nil {
		logger.Log.Error("failed to resolve module for progress update",
			zap.Uint("moduleId", quiz.ModuleID), zap.Error(err))
	} else if _, err := s.Progress.Recalculate(userID, module.CourseID, 0); err != nil {
		logger.Log.Error("failed to recalculate progress after submission",
			zap.Uint("userId", userID),
			zap.Uint("courseId", module.CourseID),
			zap.Error(err))
	}

	if attempt.Passed && module != nil && s.Notifier != nil {
		s.Notifier.QuizPassed(userID, quiz.ID, module.CourseID, score)
	}

	return &AttemptResult{Attempt: attempt, Responses: responses}, nil
}

// CheckStatus 查询某用户在某测验上的剩余次数与通过情况
type AttemptStatusResult struct {
	QuizID            uint `json:"quizId"`
	AttemptsUsed      int  `json:"attemptsUsed"`
	AttemptsAllowed   int  `json:"attemptsAllowed"`
	RemainingAttempts int  `json:"remainingAttempts"` // -1 表示不限次
	CanAttempt        bool `json:"canAttempt"`
}

func (s *QuizAttemptService) CheckStatus(quizID, userID uint) (*AttemptStatusResult, error) {
	quiz, err := s.CourseRepo.FindQuizByID(quizID)
	if err != nil {
		return nil, fmt.Errorf("%w: quiz %d", util.ErrNotFound, quizID)
	}

	used, err := s.AttemptRepo.CountActive(quizID, userID)
	if err != nil {
		return nil, err
	}

	result := &AttemptStatusResult{
		QuizID:          quizID,
		AttemptsUsed:    int(used),
		AttemptsAllowed: quiz.AttemptsAllowed,
	}
	if quiz.AttemptsAllowed > 0 {
		result.RemainingAttempts = quiz.AttemptsAllowed - int(used)
		if result.RemainingAttempts < 0 {
			result.RemainingAttempts = 0
		}
		result.CanAttempt = result.RemainingAttempts > 0
	} else {
		result.RemainingAttempts = -1
		result.CanAttempt = true
	}
	return result, nil
}

// GetAttemptResult 只对已完成的尝试开放结果查询
func (s *QuizAttemptService) GetAttemptResult(attemptID, userID uint) (*AttemptResult, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, fmt.Errorf("%w: attempt %d", util.ErrNotFound, attemptID)
	}
	if attempt.UserID != userID {
		return nil, fmt.Errorf("%w: attempt belongs to another user", util.ErrAccessDenied)
	}
	if attempt.Status != model.AttemptCompleted {
		return nil, fmt.Errorf("%w: attempt not completed", util.ErrInvalidState)
	}

	responses, err := s.AttemptRepo.ListResponses(attemptID)
	if err != nil {
		return nil, err
	}
	return &AttemptResult{Attempt: attempt, Responses: responses}, nil
}
