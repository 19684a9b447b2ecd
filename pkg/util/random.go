package util

import (
	"crypto/rand"
	"errors"
	"math/big"
)

var ErrInvalidAlphabet = errors.New("code alphabet must contain at least two characters")

// GenerateCode 지정된 문자 집합에서 length 길이의 난수 코드를 생성
func GenerateCode(alphabet string, length int) (string, error) {
	chars := []rune(alphabet)
	if len(chars) < 2 {
		return "", ErrInvalidAlphabet
	}
	if length <= 0 {
		return "", errors.New("code length must be positive")
	}

	max := big.NewInt(int64(len(chars)))
	code := make([]rune, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = chars[n.Int64()]
	}
	return string(code), nil
}
