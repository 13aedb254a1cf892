package repository

import (
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttemptStats 课程范围内某用户的测验统计，供进度聚合器使用
type AttemptStats struct {
	TestsAttempted int
	TestsPassed    int
	TotalPoints    int
	CorrectAnswers int
	TotalAnswers   int
}

type QuizAttemptRepository interface {
	// StartAttempt 在一个事务内完成次数检查和插入：锁定测验行，
	// 统计非放弃的已用次数，超限返回 util.ErrMaxAttemptsExceeded
	StartAttempt(quiz *model.Quiz, userID uint) (*model.QuizAttempt, error)
	FindByID(id uint) (*model.QuizAttempt, error)
	CountActive(quizID, userID uint) (int64, error)
	// SaveCompleted 原子地保存已完成的尝试及其全部答题记录
	SaveCompleted(attempt *model.QuizAttempt, responses []model.AnswerResponse) error
	ListResponses(attemptID uint) ([]model.AnswerResponse, error)
	StatsByCourse(userID, courseID uint) (*AttemptStats, error)
}

type quizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) QuizAttemptRepository {
	return &quizAttemptRepository{DB: db}
}

func (r *quizAttemptRepository) StartAttempt(quiz *model.Quiz, userID uint) (*model.QuizAttempt, error) {
	var attempt *model.QuizAttempt
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		// 行锁串行化同一测验上的并发开始请求；
		// (quiz_id,user_id,attempt_number) 唯一索引兜底
		var locked model.Quiz
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, quiz.ID).Error; err != nil {
			return err
		}

		var used int64
		if err := tx.Model(&model.QuizAttempt{}).
			Where("quiz_id = ? AND user_id = ? AND status <> ?", quiz.ID, userID, model.AttemptAbandoned).
			Count(&used).Error; err != nil {
			return err
		}
		if locked.AttemptsAllowed > 0 && int(used) >= locked.AttemptsAllowed {
			return fmt.Errorf("%w: %d of %d attempts used", util.ErrMaxAttemptsExceeded, used, locked.AttemptsAllowed)
		}

		attempt = &model.QuizAttempt{
			QuizID:        quiz.ID,
			UserID:        userID,
			AttemptNumber: int(used) + 1,
			Status:        model.AttemptInProgress,
			StartedAt:     time.Now(),
		}
		return tx.Create(attempt).Error
	})
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

func (r *quizAttemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := r.DB.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *quizAttemptRepository) CountActive(quizID, userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("quiz_id = ? AND user_id = ? AND status <> ?", quizID, userID, model.AttemptAbandoned).
		Count(&count).Error
	return count, err
}

func (r *quizAttemptRepository) SaveCompleted(attempt *model.QuizAttempt, responses []model.AnswerResponse) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(attempt).Error; err != nil {
			return err
		}
		if len(responses) > 0 {
			for i := range responses {
				responses[i].AttemptID = attempt.ID
			}
			if err := tx.Create(&responses).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *quizAttemptRepository) ListResponses(attemptID uint) ([]model.AnswerResponse, error) {
	var responses []model.AnswerResponse
	err := r.DB.Where("attempt_id = ?", attemptID).
		Order("question_id asc").Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *quizAttemptRepository) StatsByCourse(userID, courseID uint) (*AttemptStats, error) {
	stats := &AttemptStats{}

	// 已完成尝试按测验去重统计
	row := r.DB.Model(&model.QuizAttempt{}).
		Select("COUNT(DISTINCT quiz_attempts.quiz_id) AS attempted, COUNT(DISTINCT CASE WHEN quiz_attempts.passed THEN quiz_attempts.quiz_id END) AS passed").
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Joins("JOIN course_modules ON course_modules.id = quizzes.module_id").
		Where("quiz_attempts.user_id = ? AND course_modules.course_id = ? AND quiz_attempts.status = ?",
			userID, courseID, model.AttemptCompleted).
		Row()
	if err := row.Scan(&stats.TestsAttempted, &stats.TestsPassed); err != nil {
		return nil, err
	}

	type answerTotals struct {
		Points  int
		Correct int
		Total   int
	}
	var totals answerTotals
	err := r.DB.Model(&model.AnswerResponse{}).
		Select("COALESCE(SUM(answer_responses.points_earned),0) AS points, COALESCE(SUM(answer_responses.is_correct),0) AS correct, COUNT(*) AS total").
		Joins("JOIN quiz_attempts ON quiz_attempts.id = answer_responses.attempt_id").
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Joins("JOIN course_modules ON course_modules.id = quizzes.module_id").
		Where("quiz_attempts.user_id = ? AND course_modules.course_id = ? AND quiz_attempts.status = ?",
			userID, courseID, model.AttemptCompleted).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	stats.TotalPoints = totals.Points
	stats.CorrectAnswers = totals.Correct
	stats.TotalAnswers = totals.Total
	return stats, nil
}
