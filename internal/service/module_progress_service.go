package service

import (
	"errors"
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModuleProgressService 模块顺序解锁：完成当前模块才解锁下一个。
// 解锁是单向的，已解锁的模块不会因任何后续操作回锁
type ModuleProgressService struct {
	ModuleProgressRepo repository.ModuleProgressRepository
	CourseRepo         repository.CourseRepository
	Aggregator         *ProgressService
	Notifier           *NotificationService
}

func NewModuleProgressService(
	moduleProgressRepo repository.ModuleProgressRepository,
	courseRepo repository.CourseRepository,
	aggregator *ProgressService,
	notifier *NotificationService,
) *ModuleProgressService {
	return &ModuleProgressService{
		ModuleProgressRepo: moduleProgressRepo,
		CourseRepo:         courseRepo,
		Aggregator:         aggregator,
		Notifier:           notifier,
	}
}

// Initialize 为用户初始化课程全部模块的进度行，幂等。
// 按 sequence 最小的模块解锁，其余保持锁定
func (s *ModuleProgressService) Initialize(userID, courseID uint) error {
	modules, err := s.CourseRepo.ListModulesByCourse(courseID)
	if err != nil {
		return err
	}
	if len(modules) == 0 {
		return fmt.Errorf("%w: course %d has no modules", util.ErrNotFound, courseID)
	}

	rows := make([]model.ModuleProgress, 0, len(modules))
	for i, m := range modules {
		rows = append(rows, model.ModuleProgress{
			UserID:   userID,
			ModuleID: m.ID,
			CourseID: courseID,
			Status:   model.ProgressNotStarted,
			IsLocked: i != 0,
		})
	}
	return s.ModuleProgressRepo.CreateBatch(rows)
}

type ModuleAccess struct {
	ModuleID uint   `json:"moduleId"`
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason,omitempty"`
}

// CheckAccess 判定用户能否进入某模块。用户首次触碰课程时惰性初始化进度行
func (s *ModuleProgressService) CheckAccess(userID, moduleID uint) (*ModuleAccess, error) {
	module, err := s.CourseRepo.FindModuleByID(moduleID)
	if err != nil {
		return nil, fmt.Errorf("%w: module %d", util.ErrNotFound, moduleID)
	}

	progress, err := s.ModuleProgressRepo.GetByUserAndModule(userID, moduleID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.Initialize(userID, module.CourseID); err != nil {
			return nil, err
		}
		progress, err = s.ModuleProgressRepo.GetByUserAndModule(userID, moduleID)
		if err != nil {
			return nil, err
		}
	}

	access := &ModuleAccess{ModuleID: moduleID, Allowed: !progress.IsLocked}
	if progress.IsLocked {
		access.Reason = "previous module must be completed first"
	}
	return access, nil
}

// UpdateProgress 更新模块完成度。完成度只增不减，达到 100 时标记完成
// 并解锁后继模块；completed 的迁移只发生一次，事件也只发一次
func (s *ModuleProgressService) UpdateProgress(userID, moduleID uint, percentage, timeSpentDelta int) (*model.ModuleProgress, error) {
	if percentage < 0 || percentage > 100 {
		return nil, fmt.Errorf("%w: completion percentage must be 0-100", util.ErrValidation)
	}
	if timeSpentDelta < 0 {
		return nil, fmt.Errorf("%w: time spent delta must not be negative", util.ErrValidation)
	}

	module, err := s.CourseRepo.FindModuleByID(moduleID)
	if err != nil {
		return nil, fmt.Errorf("%w: module %d", util.ErrNotFound, moduleID)
	}

	progress, err := s.ModuleProgressRepo.GetByUserAndModule(userID, moduleID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.Initialize(userID, module.CourseID); err != nil {
			return nil, err
		}
		progress, err = s.ModuleProgressRepo.GetByUserAndModule(userID, moduleID)
		if err != nil {
			return nil, err
		}
	}

	if progress.IsLocked {
		return nil, fmt.Errorf("%w: module is locked", util.ErrAccessDenied)
	}

	wasCompleted := progress.Status == model.ProgressCompleted
	now := time.Now()

	if percentage > progress.CompletionPercentage {
		progress.CompletionPercentage = percentage
	}
	progress.TimeSpentMinutes += timeSpentDelta

	if progress.StartedAt == nil && progress.CompletionPercentage > 0 {
		progress.StartedAt = &now
	}

	switch {
	case progress.CompletionPercentage >= 100:
		progress.Status = model.ProgressCompleted
		if progress.CompletedAt == nil {
			progress.CompletedAt = &now
		}
	case progress.CompletionPercentage > 0:
		progress.Status = model.ProgressInProgress
	}

	justCompleted := !wasCompleted && progress.Status == model.ProgressCompleted

	var nextModuleID uint
	if justCompleted {
		next, err := s.CourseRepo.NextModuleInSequence(module.CourseID, module.Sequence)
		switch {
		case err == nil:
			nextModuleID = next.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 已是最后一个模块
		default:
			return nil, err
		}
	}

	if err := s.ModuleProgressRepo.SaveAndUnlock(progress, nextModuleID); err != nil {
		return nil, err
	}

	if _, err := s.Aggregator.Recalculate(userID, module.CourseID, timeSpentDelta); err != nil {
		logger.Log.Error("failed to recalculate progress after module update",
			zap.Uint("userId", userID),
			zap.Uint("courseId", module.CourseID),
			zap.Error(err))
	}

	if justCompleted {
		logger.Log.Info("module completed",
			zap.Uint("userId", userID),
			zap.Uint("moduleId", moduleID),
			zap.Uint("courseId", module.CourseID))
		if s.Notifier != nil {
			s.Notifier.ModuleCompleted(userID, moduleID, module.CourseID)
		}
	}

	return progress, nil
}

// MarkCompleted 直接将模块标记为完成，最后一次学习的耗时随完成一并上报
func (s *ModuleProgressService) MarkCompleted(userID, moduleID uint, timeSpentDelta int) (*model.ModuleProgress, error) {
	return s.UpdateProgress(userID, moduleID, 100, timeSpentDelta)
}

// ListCourseProgress 返回用户在课程内所有模块的进度，按模块顺序排列。
// 没有进度行时先初始化
func (s *ModuleProgressService) ListCourseProgress(userID, courseID uint) ([]model.ModuleProgress, error) {
	rows, err := s.ModuleProgressRepo.ListByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		if err := s.Initialize(userID, courseID); err != nil {
			return nil, err
		}
		rows, err = s.ModuleProgressRepo.ListByUserAndCourse(userID, courseID)
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}
