package model

type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
	TrueFalse    QuestionType = "true_false"
	ShortAnswer  QuestionType = "short_answer"
	FillBlank    QuestionType = "fill_blank"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	ModuleID        uint       `gorm:"index;type:bigint unsigned;not null" json:"moduleId"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	PassingScore    int        `gorm:"default:70" json:"passingScore"`
	AttemptsAllowed int        `gorm:"default:3" json:"attemptsAllowed"`
	TimeLimit       int        `gorm:"default:0" json:"timeLimit"` // 分钟，0 表示不限时
	Questions       []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Question 题目，Options 为 JSON 数组；CorrectAnswer 存储原始编码
// （选项下标、JSON 标量/列表或纯文本），由评分器在读取时归一化
// swagger:model Question
type Question struct {
	BaseModel
	QuizID        uint         `gorm:"index;type:bigint unsigned;not null" json:"quizId"`
	Text          string       `gorm:"type:text;not null" json:"text"`
	Type          QuestionType `gorm:"type:enum('single_choice','true_false','short_answer','fill_blank');not null" json:"type"`
	Options       string       `gorm:"type:json" json:"options"`
	CorrectAnswer string       `gorm:"type:text" json:"-"`
	Points        int          `gorm:"default:1" json:"points"`
	Order         int          `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}
