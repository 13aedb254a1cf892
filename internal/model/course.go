package model

import "time"

// swagger:model Course
type Course struct {
	BaseModel
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	CoverURL    string         `gorm:"size:255" json:"coverUrl"`
	CreatorID   uint           `gorm:"index;type:bigint unsigned" json:"creatorId"`
	IsPublished bool           `gorm:"default:false" json:"isPublished"`
	PublishedAt *time.Time     `json:"publishedAt,omitempty"`
	Modules     []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseModule 课程中的一个有序学习单元，可挂一个测验
// swagger:model CourseModule
type CourseModule struct {
	BaseModel
	CourseID    uint   `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Sequence    int    `gorm:"not null;default:0" json:"sequence"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}
