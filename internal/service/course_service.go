package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"mime/multipart"
	"path/filepath"
	"time"

	"gorm.io/gorm"
)

// CourseService 课程目录的教师端入口：课程、模块、测验与题库的编写。
// 学员侧的进度和评分从不经过这里
type CourseService struct {
	CourseRepo repository.CourseRepository
	Storage    *StorageService
}

func NewCourseService(courseRepo repository.CourseRepository, storage *StorageService) *CourseService {
	return &CourseService{CourseRepo: courseRepo, Storage: storage}
}

type CourseInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (s *CourseService) CreateCourse(creatorID uint, input CourseInput) (*model.Course, error) {
	course := &model.Course{
		Title:       input.Title,
		Description: input.Description,
		CreatorID:   creatorID,
	}
	if err := s.CourseRepo.CreateCourse(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(courseID uint, input CourseInput) (*model.Course, error) {
	course, err := s.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	course.Title = input.Title
	course.Description = input.Description
	if err := s.CourseRepo.UpdateCourse(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) PublishCourse(courseID uint) (*model.Course, error) {
	course, err := s.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		now := time.Now()
		course.IsPublished = true
		course.PublishedAt = &now
		if err := s.CourseRepo.UpdateCourse(course); err != nil {
			return nil, err
		}
	}
	return course, nil
}

func (s *CourseService) GetCourse(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindCourseByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course %d", util.ErrNotFound, courseID)
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListCourses(publishedOnly bool) ([]model.Course, error) {
	return s.CourseRepo.ListCourses(publishedOnly)
}

// UploadCover 上传课程封面，仅接受常见图片类型
func (s *CourseService) UploadCover(courseID uint, file *multipart.FileHeader) (*model.Course, error) {
	course, err := s.GetCourse(courseID)
	if err != nil {
		return nil, err
	}

	if !util.IsImageMimeType(file.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("%w: cover must be an image", util.ErrValidation)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	filename := fmt.Sprintf("covers/%d/%s%s", courseID, model.GenerateUUID(), filepath.Ext(file.Filename))
	url, err := s.Storage.Provider.Upload(context.Background(), filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	course.CoverURL = url
	if err := s.CourseRepo.UpdateCourse(course); err != nil {
		return nil, err
	}
	return course, nil
}

type ModuleInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Sequence    int    `json:"sequence" binding:"required"`
}

func (s *CourseService) AddModule(courseID uint, input ModuleInput) (*model.CourseModule, error) {
	if _, err := s.GetCourse(courseID); err != nil {
		return nil, err
	}
	module := &model.CourseModule{
		CourseID:    courseID,
		Title:       input.Title,
		Description: input.Description,
		Sequence:    input.Sequence,
	}
	if err := s.CourseRepo.CreateModule(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CourseService) ListModules(courseID uint) ([]model.CourseModule, error) {
	return s.CourseRepo.ListModulesByCourse(courseID)
}

type QuestionInput struct {
	Text          string             `json:"text" binding:"required"`
	Type          model.QuestionType `json:"type" binding:"required"`
	Options       []string           `json:"options"`
	CorrectAnswer interface{}        `json:"correctAnswer" binding:"required"`
	Points        int                `json:"points"`
	Order         int                `json:"order"`
}

type QuizInput struct {
	Title           string          `json:"title" binding:"required"`
	Description     string          `json:"description"`
	PassingScore    int             `json:"passingScore"`
	AttemptsAllowed int             `json:"attemptsAllowed"`
	TimeLimit       int             `json:"timeLimit"`
	Questions       []QuestionInput `json:"questions" binding:"required,min=1"`
}

// CreateQuiz 为模块创建测验。标准答案以作者提交的原始形态
// （下标、文本、布尔或列表）JSON 编码入库，归一化留给评分器
func (s *CourseService) CreateQuiz(moduleID uint, input QuizInput) (*model.Quiz, error) {
	if _, err := s.CourseRepo.FindModuleByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: module %d", util.ErrNotFound, moduleID)
		}
		return nil, err
	}

	quiz := &model.Quiz{
		ModuleID:        moduleID,
		Title:           input.Title,
		Description:     input.Description,
		PassingScore:    input.PassingScore,
		AttemptsAllowed: input.AttemptsAllowed,
		TimeLimit:       input.TimeLimit,
	}
	if quiz.PassingScore <= 0 {
		quiz.PassingScore = 70
	}

	for i, q := range input.Questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d options: %v", util.ErrValidation, i, err)
		}
		correct, err := json.Marshal(q.CorrectAnswer)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d correct answer: %v", util.ErrValidation, i, err)
		}

		points := q.Points
		if points <= 0 {
			points = 1
		}
		order := q.Order
		if order == 0 {
			order = i + 1
		}

		quiz.Questions = append(quiz.Questions, model.Question{
			Text:          q.Text,
			Type:          q.Type,
			Options:       string(options),
			CorrectAnswer: string(correct),
			Points:        points,
			Order:         order,
		})
	}

	if err := s.CourseRepo.CreateQuiz(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// GetQuizForModule 学员视角的测验视图，不含标准答案
func (s *CourseService) GetQuizForModule(moduleID uint) (*model.Quiz, []QuestionView, error) {
	quiz, err := s.CourseRepo.FindQuizByModule(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: no quiz for module %d", util.ErrNotFound, moduleID)
		}
		return nil, nil, err
	}

	views := make([]QuestionView, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		views = append(views, QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Type:    q.Type,
			Options: ParseOptions(q.Options),
			Points:  q.Points,
		})
	}
	quiz.Questions = nil
	return quiz, views, nil
}
