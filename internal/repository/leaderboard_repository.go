package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type LeaderboardRepository interface {
	// ReplaceIndividual 整体重建某课程的个人榜（删除后批量插入）
	ReplaceIndividual(courseID uint, entries []model.LeaderboardEntry) error
	ListIndividual(courseID uint, limit int) ([]model.LeaderboardEntry, error)
	ReplaceTeam(courseID uint, entries []model.TeamLeaderboardEntry) error
	ListTeam(courseID uint, limit int) ([]model.TeamLeaderboardEntry, error)
}

type leaderboardRepository struct {
	DB *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{DB: db}
}

func (r *leaderboardRepository) ReplaceIndividual(courseID uint, entries []model.LeaderboardEntry) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("course_id = ?", courseID).
			Delete(&model.LeaderboardEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

func (r *leaderboardRepository) ListIndividual(courseID uint, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	q := r.DB.Order("`rank` asc")
	if courseID > 0 {
		q = q.Where("course_id = ?", courseID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *leaderboardRepository) ReplaceTeam(courseID uint, entries []model.TeamLeaderboardEntry) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("course_id = ?", courseID).
			Delete(&model.TeamLeaderboardEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

func (r *leaderboardRepository) ListTeam(courseID uint, limit int) ([]model.TeamLeaderboardEntry, error) {
	var entries []model.TeamLeaderboardEntry
	q := r.DB.Order("`rank` asc")
	if courseID > 0 {
		q = q.Where("course_id = ?", courseID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
