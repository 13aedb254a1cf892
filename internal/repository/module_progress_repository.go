package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ModuleProgressRepository interface {
	GetByUserAndModule(userID, moduleID uint) (*model.ModuleProgress, error)
	ListByUserAndCourse(userID, courseID uint) ([]model.ModuleProgress, error)
	// CreateBatch 幂等初始化：(user_id,module_id) 冲突时忽略
	CreateBatch(rows []model.ModuleProgress) error
	Save(progress *model.ModuleProgress) error
	// SaveAndUnlock 原子地保存进度并解锁下一模块；解锁只清锁标志，从不回锁
	SaveAndUnlock(progress *model.ModuleProgress, nextModuleID uint) error
	CountCompleted(userID, courseID uint) (int64, error)
}

type moduleProgressRepository struct {
	DB *gorm.DB
}

func NewModuleProgressRepository(db *gorm.DB) ModuleProgressRepository {
	return &moduleProgressRepository{DB: db}
}

func (r *moduleProgressRepository) GetByUserAndModule(userID, moduleID uint) (*model.ModuleProgress, error) {
	var progress model.ModuleProgress
	err := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *moduleProgressRepository) ListByUserAndCourse(userID, courseID uint) ([]model.ModuleProgress, error) {
	var rows []model.ModuleProgress
	err := r.DB.Model(&model.ModuleProgress{}).
		Joins("JOIN course_modules ON course_modules.id = module_progress.module_id").
		Where("module_progress.user_id = ? AND module_progress.course_id = ?", userID, courseID).
		Order("course_modules.sequence asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *moduleProgressRepository) CreateBatch(rows []model.ModuleProgress) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *moduleProgressRepository) Save(progress *model.ModuleProgress) error {
	return r.DB.Save(progress).Error
}

func (r *moduleProgressRepository) SaveAndUnlock(progress *model.ModuleProgress, nextModuleID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(progress).Error; err != nil {
			return err
		}
		if nextModuleID == 0 {
			return nil
		}
		return tx.Model(&model.ModuleProgress{}).
			Where("user_id = ? AND module_id = ?", progress.UserID, nextModuleID).
			Update("is_locked", false).Error
	})
}

func (r *moduleProgressRepository) CountCompleted(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ModuleProgress{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, model.ProgressCompleted).
		Count(&count).Error
	return count, err
}
