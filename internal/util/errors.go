package util

import "errors"

// 引擎错误分类，在控制器边界统一转换为 HTTP 响应
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAccessDenied        = errors.New("access denied")
	ErrInvalidState        = errors.New("invalid state")
	ErrMaxAttemptsExceeded = errors.New("maximum attempts exceeded")
	ErrValidation          = errors.New("validation failed")

	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
