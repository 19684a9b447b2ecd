package service

import (
	"fmt"
	"strings"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/pkg/util"
)

// Credential 예약서 열람/수정 권한. 관리자 세션이면 비밀번호 없이 허용
type Credential struct {
	Password string
	Admin    bool
}

// CredentialResolver 예약서 접근 비밀번호를 정하는 전략
type CredentialResolver interface {
	Resolve(role model.ContractorRole, overseas bool, r *model.Reservation) (string, error)
}

// ContactCredentialResolver 계약자 휴대폰 번호(숫자만), 해외 거주자는 이메일
type ContactCredentialResolver struct{}

func (ContactCredentialResolver) Resolve(role model.ContractorRole, overseas bool, r *model.Reservation) (string, error) {
	if overseas {
		email := strings.ToLower(strings.TrimSpace(r.Email))
		if email == "" {
			return "", fmt.Errorf("%w: email is required for overseas residents", ErrInvalidInput)
		}
		if len(email) > 72 {
			return "", fmt.Errorf("%w: email is too long to use as a password", ErrInvalidInput)
		}
		return email, nil
	}

	phone := r.GroomPhone
	if role == model.ContractorBride {
		phone = r.BridePhone
	}
	digits := util.DigitsOnly(phone)
	if digits == "" {
		return "", fmt.Errorf("%w: contractor phone is required", ErrInvalidInput)
	}
	return digits, nil
}

// secretCandidates 입력 비밀번호의 허용 표기 (하이픈 포함 전화번호, 대소문자 다른 이메일)
func secretCandidates(password string) []string {
	password = strings.TrimSpace(password)
	if password == "" {
		return nil
	}

	candidates := []string{password}
	if lower := strings.ToLower(password); lower != password {
		candidates = append(candidates, lower)
	}
	// 하이픈/공백으로 구분된 전화번호만 숫자 형태로 비교
	if util.IsPhoneFormatted(password) {
		if digits := util.DigitsOnly(password); digits != password {
			candidates = append(candidates, digits)
		}
	}
	return candidates
}

func matchesCredential(hash string, cred Credential) bool {
	if cred.Admin {
		return true
	}
	for _, candidate := range secretCandidates(cred.Password) {
		if util.VerifyPassword(hash, candidate) {
			return true
		}
	}
	return false
}
