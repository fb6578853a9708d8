package util

import "errors"

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrEmailRegistered = errors.New("该邮箱已被注册")

	ErrChallengeNotFound     = errors.New("challenge not found")
	ErrLanguageNotAllowed    = errors.New("language not allowed for this challenge")
	ErrUnsupportedLanguage   = errors.New("language not supported by the execution service")
	ErrExecutionService      = errors.New("code execution service unavailable")
	ErrProgressionConflict   = errors.New("progression update conflict, retries exhausted")
	ErrNoChallengesAvailable = errors.New("no challenges available")
)
