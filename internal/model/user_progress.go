package model

import "time"

// UserProgress 每个 (user, course) 的汇总行，仅由进度聚合器写入；
// 仪表盘和排行榜只读这一行
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID               uint           `gorm:"uniqueIndex:idx_user_course;type:bigint unsigned;not null" json:"userId"`
	CourseID             uint           `gorm:"uniqueIndex:idx_user_course;type:bigint unsigned;not null" json:"courseId"`
	Status               ProgressStatus `gorm:"type:enum('not_started','in_progress','completed');default:'not_started'" json:"status"`
	ModulesCompleted     int            `gorm:"default:0" json:"modulesCompleted"`
	TotalModules         int            `gorm:"default:0" json:"totalModules"`
	TestsPassed          int            `gorm:"default:0" json:"testsPassed"`
	TestsAttempted       int            `gorm:"default:0" json:"testsAttempted"`
	TotalPointsEarned    int            `gorm:"default:0" json:"totalPointsEarned"`
	CorrectAnswers       int            `gorm:"default:0" json:"correctAnswers"`
	TotalAnswers         int            `gorm:"default:0" json:"totalAnswers"`
	CompletionPercentage int            `gorm:"default:0" json:"completionPercentage"`
	TimeSpentMinutes     int            `gorm:"default:0" json:"timeSpentMinutes"`
	LastActivityAt       time.Time      `json:"lastActivityAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
