package service

import (
	"errors"
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type TeamService struct {
	TeamRepo repository.TeamRepository
	UserRepo repository.UserRepository
}

func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{TeamRepo: teamRepo, UserRepo: userRepo}
}

type TeamInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *TeamService) CreateTeam(creatorID uint, input TeamInput) (*model.Team, error) {
	team := &model.Team{
		Name:        input.Name,
		Description: input.Description,
		CreatorID:   creatorID,
	}
	if err := s.TeamRepo.Create(team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) GetTeam(teamID uint) (*model.Team, error) {
	team, err := s.TeamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: team %d", util.ErrNotFound, teamID)
		}
		return nil, err
	}
	return team, nil
}

func (s *TeamService) ListTeams() ([]model.Team, error) {
	return s.TeamRepo.ListAll()
}

// AddMember 一个用户同时只能属于一个团队，加入即覆盖原团队
func (s *TeamService) AddMember(teamID, userID uint) error {
	if _, err := s.GetTeam(teamID); err != nil {
		return err
	}
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", util.ErrNotFound, userID)
		}
		return err
	}
	return s.TeamRepo.AddMember(teamID, userID)
}

func (s *TeamService) RemoveMember(userID uint) error {
	return s.TeamRepo.RemoveMember(userID)
}

func (s *TeamService) DeleteTeam(teamID uint) error {
	if _, err := s.GetTeam(teamID); err != nil {
		return err
	}
	return s.TeamRepo.Delete(teamID)
}
