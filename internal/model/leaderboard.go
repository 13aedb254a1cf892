package model

// LeaderboardEntry 个人排行榜快照，每次计算整体重建
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	BaseModel
	CourseID         uint    `gorm:"uniqueIndex:idx_lb_course_user;type:bigint unsigned;not null" json:"courseId"`
	UserID           uint    `gorm:"uniqueIndex:idx_lb_course_user;type:bigint unsigned;not null" json:"userId"`
	UserName         string  `gorm:"size:100" json:"userName"`
	TotalPoints      int     `gorm:"default:0" json:"totalPoints"`
	ModulesCompleted int     `gorm:"default:0" json:"modulesCompleted"`
	TimeSpentMinutes int     `gorm:"default:0" json:"timeSpentMinutes"`
	CorrectAnswers   int     `gorm:"default:0" json:"correctAnswers"`
	TotalAnswers     int     `gorm:"default:0" json:"totalAnswers"`
	WeightedScore    float64 `gorm:"default:0" json:"weightedScore"`
	Rank             int     `gorm:"index" json:"rank"`
}

func (LeaderboardEntry) TableName() string {
	return "leaderboard_entries"
}

// TeamLeaderboardEntry 团队排行榜快照
// swagger:model TeamLeaderboardEntry
type TeamLeaderboardEntry struct {
	BaseModel
	CourseID              uint    `gorm:"uniqueIndex:idx_lb_course_team;type:bigint unsigned;not null" json:"courseId"`
	TeamID                uint    `gorm:"uniqueIndex:idx_lb_course_team;type:bigint unsigned;not null" json:"teamId"`
	TeamName              string  `gorm:"size:100" json:"teamName"`
	TotalMembers          int     `gorm:"default:0" json:"totalMembers"`
	TotalPoints           int     `gorm:"default:0" json:"totalPoints"`
	AverageCompletionRate float64 `gorm:"default:0" json:"averageCompletionRate"`
	WeightedScore         float64 `gorm:"default:0" json:"weightedScore"`
	Rank                  int     `gorm:"index" json:"rank"`
}

func (TeamLeaderboardEntry) TableName() string {
	return "team_leaderboard_entries"
}
