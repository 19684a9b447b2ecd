package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrConcurrentModification 버전 불일치로 갱신된 행이 없음
var ErrConcurrentModification = errors.New("record was modified concurrently")

// IsDuplicateKey 유니크 제약 위반 여부 (드라이버 번역 실패 시 메시지로 판별)
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
