package model

import "time"

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	QuizID        uint          `gorm:"uniqueIndex:idx_quiz_user_attempt;type:bigint unsigned;not null" json:"quizId"`
	UserID        uint          `gorm:"uniqueIndex:idx_quiz_user_attempt;type:bigint unsigned;not null" json:"userId"`
	AttemptNumber int           `gorm:"uniqueIndex:idx_quiz_user_attempt;not null" json:"attemptNumber"`
	Status        AttemptStatus `gorm:"type:enum('in_progress','completed','abandoned');default:'in_progress'" json:"status"`
	Score         int           `gorm:"default:0" json:"score"` // 0-100
	Passed        bool          `gorm:"default:false" json:"passed"`
	Answers       string        `gorm:"type:json" json:"-"` // 原始提交快照
	StartedAt     time.Time     `json:"startedAt"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// AnswerResponse 每题一行，提交时创建，之后不可变
// swagger:model AnswerResponse
type AnswerResponse struct {
	BaseModel
	AttemptID    uint   `gorm:"uniqueIndex:idx_attempt_question;type:bigint unsigned;not null" json:"attemptId"`
	QuestionID   uint   `gorm:"uniqueIndex:idx_attempt_question;type:bigint unsigned;not null" json:"questionId"`
	Answer       string `gorm:"type:text" json:"answer"`
	IsCorrect    bool   `gorm:"default:false" json:"isCorrect"`
	PointsEarned int    `gorm:"default:0" json:"pointsEarned"`
	Confidence   int    `gorm:"default:0" json:"confidence"` // 0-100，可选
}

func (AnswerResponse) TableName() string {
	return "answer_responses"
}
