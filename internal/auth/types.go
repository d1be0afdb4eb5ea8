package auth

import "errors"

// Ошибки авторизации
var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("access denied")
)

// Ограничения Telegram на username
const (
	minUsernameLen = 5
	maxUsernameLen = 32
)
