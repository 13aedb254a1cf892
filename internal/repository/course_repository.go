package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

// CourseRepository 课程目录：模块顺序、测验参数、题库的只读来源，
// 引擎不通过它修改目录数据（写操作仅供教师端 CRUD 使用）
type CourseRepository interface {
	CreateCourse(course *model.Course) error
	UpdateCourse(course *model.Course) error
	FindCourseByID(id uint) (*model.Course, error)
	ListCourses(publishedOnly bool) ([]model.Course, error)
	CountModules(courseID uint) (int64, error)

	CreateModule(module *model.CourseModule) error
	FindModuleByID(id uint) (*model.CourseModule, error)
	ListModulesByCourse(courseID uint) ([]model.CourseModule, error)
	NextModuleInSequence(courseID uint, sequence int) (*model.CourseModule, error)

	CreateQuiz(quiz *model.Quiz) error
	FindQuizByID(id uint) (*model.Quiz, error)
	FindQuizByModule(moduleID uint) (*model.Quiz, error)
}

type courseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{DB: db}
}

func (r *courseRepository) CreateCourse(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *courseRepository) UpdateCourse(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *courseRepository) FindCourseByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Modules", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence asc")
	}).First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) ListCourses(publishedOnly bool) ([]model.Course, error) {
	var courses []model.Course
	q := r.DB.Order("id asc")
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if err := q.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) CountModules(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CourseModule{}).
		Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *courseRepository) CreateModule(module *model.CourseModule) error {
	return r.DB.Create(module).Error
}

func (r *courseRepository) FindModuleByID(id uint) (*model.CourseModule, error) {
	var module model.CourseModule
	if err := r.DB.First(&module, id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *courseRepository) ListModulesByCourse(courseID uint) ([]model.CourseModule, error) {
	var modules []model.CourseModule
	err := r.DB.Where("course_id = ?", courseID).
		Order("sequence asc").Find(&modules).Error
	if err != nil {
		return nil, err
	}
	return modules, nil
}

// NextModuleInSequence 返回同一课程中紧随其后的模块，没有则返回 gorm.ErrRecordNotFound
func (r *courseRepository) NextModuleInSequence(courseID uint, sequence int) (*model.CourseModule, error) {
	var module model.CourseModule
	err := r.DB.Where("course_id = ? AND sequence > ?", courseID, sequence).
		Order("sequence asc").First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *courseRepository) CreateQuiz(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *courseRepository) FindQuizByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc")
	}).First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *courseRepository) FindQuizByModule(moduleID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc")
	}).Where("module_id = ?", moduleID).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}
