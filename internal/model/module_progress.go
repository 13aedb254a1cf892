package model

import "time"

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// ModuleProgress 每个 (user, module) 恰好一行；课程第一个模块永不锁定
// swagger:model ModuleProgress
type ModuleProgress struct {
	BaseModel
	UserID               uint           `gorm:"uniqueIndex:idx_user_module;type:bigint unsigned;not null" json:"userId"`
	ModuleID             uint           `gorm:"uniqueIndex:idx_user_module;type:bigint unsigned;not null" json:"moduleId"`
	CourseID             uint           `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Status               ProgressStatus `gorm:"type:enum('not_started','in_progress','completed');default:'not_started'" json:"status"`
	IsLocked             bool           `gorm:"default:true" json:"isLocked"`
	CompletionPercentage int            `gorm:"default:0" json:"completionPercentage"`
	TimeSpentMinutes     int            `gorm:"default:0" json:"timeSpentMinutes"`
	StartedAt            *time.Time     `json:"startedAt,omitempty"`
	CompletedAt          *time.Time     `json:"completedAt,omitempty"`
}

func (ModuleProgress) TableName() string {
	return "module_progress"
}
