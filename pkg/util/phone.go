package util

import "strings"

// DigitsOnly 전화번호 등에서 숫자만 남김 ("010-1234-5678" -> "01012345678")
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsPhoneFormatted 숫자, 하이픈, 공백으로만 이루어졌는지 (숫자 최소 1개)
func IsPhoneFormatted(s string) bool {
	s = strings.TrimSpace(s)
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '-' || r == ' ':
		default:
			return false
		}
	}
	return hasDigit
}

// IsMobileNumber 국내 휴대폰 번호 형식 (01로 시작하는 10~11자리, 하이픈/공백 허용)
func IsMobileNumber(s string) bool {
	if !IsPhoneFormatted(s) {
		return false
	}
	digits := DigitsOnly(s)
	if len(digits) < 10 || len(digits) > 11 {
		return false
	}
	return strings.HasPrefix(digits, "01")
}
