package service

import (
	"encoding/json"
	"fmt"
	"lms_backend/pkg/logger"
	"strconv"
	"strings"

	"lms_backend/internal/model"

	"go.uber.org/zap"
)

// 评分器是纯函数层：相同输入永远得到相同判定（重判分依赖这一点），
// 存储数据畸形时降级为判错并记录日志，从不报错

// NormalizeCorrectAnswer 将存储的标准答案归一化为可比较的字符串。
// 原始编码可能是选项下标、JSON 标量/列表，或纯文本：
//   - 整数且落在选项范围内 → 解析为对应选项文本
//   - JSON 列表 → 取第一个元素作为标准值
//   - JSON 解析失败 → 按字面文本处理
func NormalizeCorrectAnswer(raw string, options []string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	// 选项下标（裸数字或 JSON 数字形式相同）
	if idx, err := strconv.Atoi(trimmed); err == nil {
		if idx >= 0 && idx < len(options) {
			return strings.TrimSpace(options[idx])
		}
		return trimmed
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		// 纯文本答案
		return trimmed
	}

	return normalizeDecoded(decoded, options)
}

func normalizeDecoded(decoded interface{}, options []string) string {
	switch v := decoded.(type) {
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if v == float64(int(v)) {
			idx := int(v)
			if idx >= 0 && idx < len(options) {
				return strings.TrimSpace(options[idx])
			}
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []interface{}:
		// 列表只取第一个元素作为标准值
		if len(v) == 0 {
			return ""
		}
		return normalizeDecoded(v[0], options)
	case nil:
		return ""
	default:
		logger.Log.Warn("unexpected correct-answer encoding, treating as text",
			zap.Any("value", decoded))
		return strings.TrimSpace(fmt.Sprint(decoded))
	}
}

// IsCorrect 判定提交答案是否正确。所有题型统一采用
// 去首尾空格后忽略大小写的比较，避免临界误判；
// questionType 保留给将来的按题型策略
func IsCorrect(questionType model.QuestionType, submitted, normalizedCorrect string) bool {
	if normalizedCorrect == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(submitted), normalizedCorrect)
}

// ParseOptions 解析存储为 JSON 数组的选项列表，失败时返回空列表
func ParseOptions(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var options []string
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		logger.Log.Warn("malformed question options", zap.String("raw", raw), zap.Error(err))
		return nil
	}
	return options
}
