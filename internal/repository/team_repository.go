package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type TeamRepository interface {
	Create(team *model.Team) error
	FindByID(id uint) (*model.Team, error)
	ListAll() ([]model.Team, error)
	AddMember(teamID, userID uint) error
	RemoveMember(userID uint) error
	Delete(id uint) error
}

type teamRepository struct {
	DB *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{DB: db}
}

func (r *teamRepository) Create(team *model.Team) error {
	return r.DB.Create(team).Error
}

func (r *teamRepository) FindByID(id uint) (*model.Team, error) {
	var team model.Team
	if err := r.DB.Preload("Members").First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) ListAll() ([]model.Team, error) {
	var teams []model.Team
	if err := r.DB.Preload("Members").Order("id asc").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *teamRepository) AddMember(teamID, userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("team_id", teamID).Error
}

func (r *teamRepository) RemoveMember(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("team_id", nil).Error
}

func (r *teamRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("team_id = ?", id).
			Update("team_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Team{}, id).Error
	})
}
