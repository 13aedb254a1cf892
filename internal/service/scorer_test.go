package service

import (
	"lms_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCorrectAnswer(t *testing.T) {
	options := []string{"thread", "goroutine", "process"}

	tests := []struct {
		name    string
		raw     string
		options []string
		want    string
	}{
		{"选项下标", "1", options, "goroutine"},
		{"下标越界按字面处理", "7", options, "7"},
		{"负数下标按字面处理", "-1", options, "-1"},
		{"JSON 字符串", `"Paris"`, nil, "Paris"},
		{"JSON 字符串带空格", `"  Paris  "`, nil, "Paris"},
		{"JSON 布尔", "true", nil, "true"},
		{"JSON 列表取首元素", `["Paris","paris"]`, nil, "Paris"},
		{"JSON 列表首元素为下标", `[2]`, options, "process"},
		{"空列表", `[]`, nil, ""},
		{"纯文本", "package", nil, "package"},
		{"带空白的纯文本", "  package  ", nil, "package"},
		{"空串", "", options, ""},
		{"null", "null", nil, ""},
		{"非法 JSON 按字面处理", `{"a":`, nil, `{"a":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCorrectAnswer(tt.raw, tt.options))
		})
	}
}

func TestNormalizeCorrectAnswerDeterministic(t *testing.T) {
	options := []string{"a", "b"}
	first := NormalizeCorrectAnswer(`["b","a"]`, options)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, NormalizeCorrectAnswer(`["b","a"]`, options))
	}
}

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		name      string
		qType     model.QuestionType
		submitted string
		correct   string
		want      bool
	}{
		{"精确匹配", model.ShortAnswer, "package", "package", true},
		{"忽略大小写", model.ShortAnswer, "PACKAGE", "package", true},
		{"去首尾空格", model.ShortAnswer, "  package  ", "package", true},
		{"错误答案", model.ShortAnswer, "import", "package", false},
		{"单选按文本比较", model.SingleChoice, "goroutine", "goroutine", true},
		{"判断题", model.TrueFalse, "False", "false", true},
		{"填空题", model.FillBlank, "nil", "nil", true},
		{"标准答案为空永远判错", model.ShortAnswer, "", "", false},
		{"提交为空", model.ShortAnswer, "", "package", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorrect(tt.qType, tt.submitted, tt.correct))
		})
	}
}

func TestParseOptions(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseOptions(`["a","b"]`))
	assert.Nil(t, ParseOptions(""))
	assert.Nil(t, ParseOptions("not json"))
}
