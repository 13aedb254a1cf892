package service

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"time"

	"gorm.io/gorm"
)

// ProgressService 进度聚合器：UserProgress 汇总行的唯一写入方。
// 除耗时外所有字段都从子表整体重算；耗时按调用方传入的增量累加
// （子表无法完整还原，为兼容既有调用方式保留增量语义）
type ProgressService struct {
	UserProgressRepo   repository.UserProgressRepository
	ModuleProgressRepo repository.ModuleProgressRepository
	AttemptRepo        repository.QuizAttemptRepository
	CourseRepo         repository.CourseRepository
}

func NewProgressService(
	userProgressRepo repository.UserProgressRepository,
	moduleProgressRepo repository.ModuleProgressRepository,
	attemptRepo repository.QuizAttemptRepository,
	courseRepo repository.CourseRepository,
) *ProgressService {
	return &ProgressService{
		UserProgressRepo:   userProgressRepo,
		ModuleProgressRepo: moduleProgressRepo,
		AttemptRepo:        attemptRepo,
		CourseRepo:         courseRepo,
	}
}

func (s *ProgressService) Recalculate(userID, courseID uint, timeSpentDelta int) (*model.UserProgress, error) {
	totalModules, err := s.CourseRepo.CountModules(courseID)
	if err != nil {
		return nil, err
	}

	completed, err := s.ModuleProgressRepo.CountCompleted(userID, courseID)
	if err != nil {
		return nil, err
	}

	stats, err := s.AttemptRepo.StatsByCourse(userID, courseID)
	if err != nil {
		return nil, err
	}

	progress, err := s.UserProgressRepo.GetByUserAndCourse(userID, courseID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		progress = &model.UserProgress{UserID: userID, CourseID: courseID}
	}

	progress.ModulesCompleted = int(completed)
	progress.TotalModules = int(totalModules)
	progress.TestsPassed = stats.TestsPassed
	progress.TestsAttempted = stats.TestsAttempted
	progress.TotalPointsEarned = stats.TotalPoints
	progress.CorrectAnswers = stats.CorrectAnswers
	progress.TotalAnswers = stats.TotalAnswers

	if totalModules > 0 {
		progress.CompletionPercentage = int(completed) * 100 / int(totalModules)
	} else {
		progress.CompletionPercentage = 0
	}

	switch progress.CompletionPercentage {
	case 0:
		progress.Status = model.ProgressNotStarted
	case 100:
		progress.Status = model.ProgressCompleted
	default:
		progress.Status = model.ProgressInProgress
	}

	if timeSpentDelta > 0 {
		progress.TimeSpentMinutes += timeSpentDelta
	}
	progress.LastActivityAt = time.Now()

	if err := s.UserProgressRepo.Upsert(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// GetCourseProgress 仪表盘读取入口，没有任何活动时返回零值汇总
func (s *ProgressService) GetCourseProgress(userID, courseID uint) (*model.UserProgress, error) {
	progress, err := s.UserProgressRepo.GetByUserAndCourse(userID, courseID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	totalModules, err := s.CourseRepo.CountModules(courseID)
	if err != nil {
		return nil, err
	}
	return &model.UserProgress{
		UserID:       userID,
		CourseID:     courseID,
		TotalModules: int(totalModules),
		Status:       model.ProgressNotStarted,
	}, nil
}
