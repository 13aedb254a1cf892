package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProgressRepository interface {
	GetByUserAndCourse(userID, courseID uint) (*model.UserProgress, error)
	// Upsert 以 (user_id,course_id) 为键创建或原地更新汇总行
	Upsert(progress *model.UserProgress) error
	ListByCourse(courseID uint) ([]model.UserProgress, error)
	DistinctCourseIDs() ([]uint, error)
}

type userProgressRepository struct {
	DB *gorm.DB
}

func NewUserProgressRepository(db *gorm.DB) UserProgressRepository {
	return &userProgressRepository{DB: db}
}

func (r *userProgressRepository) GetByUserAndCourse(userID, courseID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *userProgressRepository) Upsert(progress *model.UserProgress) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		UpdateAll: true,
	}).Create(progress).Error
}

func (r *userProgressRepository) ListByCourse(courseID uint) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	if err := r.DB.Where("course_id = ?", courseID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userProgressRepository) DistinctCourseIDs() ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.UserProgress{}).
		Distinct("course_id").Order("course_id asc").Pluck("course_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
