package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt 입력 한도 (바이트)
const maxSecretBytes = 72

// ErrSecretTooLong bcrypt 가 자르지 않도록 미리 거부
var ErrSecretTooLong = errors.New("secret exceeds 72 bytes")

// 예약서 비밀번호는 요청마다 검증되므로 기본 비용 사용
var bcryptCost = bcrypt.DefaultCost

// HashPassword 관리자 비밀번호와 예약서 비밀번호(전화번호 숫자 포함)를 해시한다
func HashPassword(password string) (string, error) {
	if len(password) > maxSecretBytes {
		return "", ErrSecretTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword 해시와 평문 비교. 해시 형식이 잘못되었으면 false
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
