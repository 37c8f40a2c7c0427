package auth

import (
	"unicode"
)

// 密码强度下限
const minPasswordLength = 8

// ValidatePassword 校验密码强度
//
// 规则：长度不少于8个字符，且不能全为数字
func ValidatePassword(password string) *ValidationError {
	if len(password) < minPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: "This password is too short. It must contain at least 8 characters.",
		}
	}

	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return &ValidationError{
			Field:   "password",
			Message: "This password is entirely numeric.",
		}
	}

	return nil
}
