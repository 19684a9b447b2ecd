// Package intake validates customer reservation drafts section by section.
package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"
	"github.com/ikkim/weddingfilm-backend/config"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/pricing"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"github.com/ikkim/weddingfilm-backend/pkg/util"
)

// fieldRules gin 의 binding 태그와 같은 규칙으로 단일 값 검사
var fieldRules = playground.New()

// Section 예약서 작성 단계
type Section string

const (
	SectionContractor Section = "contractor"
	SectionSchedule   Section = "schedule"
	SectionOptions    Section = "options"
	SectionDiscounts  Section = "discounts"
	SectionCustom     Section = "custom"
	SectionAll        Section = "all"
)

// Sections 작성 순서
var Sections = []Section{
	SectionContractor,
	SectionSchedule,
	SectionOptions,
	SectionDiscounts,
	SectionCustom,
}

func (s Section) IsValid() bool {
	if s == SectionAll {
		return true
	}
	for _, section := range Sections {
		if section == s {
			return true
		}
	}
	return false
}

const (
	maxNotesLength   = 2000
	maxRequestLength = 1000
)

// ReferralChecker 파트너 코드 사용 가능 여부 확인 (유일하게 허용된 외부 호출)
type ReferralChecker interface {
	Validate(ctx context.Context, code string) (bool, error)
}

type Validator struct {
	rules   *pricing.Rules
	checker ReferralChecker
	timeout time.Duration
	retry   util.RetryPolicy
}

func NewValidator(rules *pricing.Rules, checker ReferralChecker, cfg config.ReferralConfig) *Validator {
	timeout := cfg.ValidateTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Validator{
		rules:   rules,
		checker: checker,
		timeout: timeout,
		retry: util.RetryPolicy{
			MaxRetries:    cfg.ValidateMaxRetries,
			InitialDelay:  cfg.ValidateRetryDelay,
			MaxDelay:      cfg.ValidateRetryMax,
			BackoffFactor: 2,
		},
	}
}

// redeemedChecker 이미 사용 처리된 코드는 다시 조회하지 않는다
type redeemedChecker struct {
	code string
	next ReferralChecker
}

func (c redeemedChecker) Validate(ctx context.Context, code string) (bool, error) {
	if code == c.code {
		return true, nil
	}
	return c.next.Validate(ctx, code)
}

// AcceptingRedeemed returns a copy of v that treats code as valid without a lookup.
// Used when editing a reservation whose booking already redeemed code, so a later
// cancellation of the code owner does not lock the customer out.
func (v *Validator) AcceptingRedeemed(code string) *Validator {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return v
	}
	clone := *v
	clone.checker = redeemedChecker{code: code, next: v.checker}
	return &clone
}

// Validate checks one section (or all of them) of the draft without modifying it.
// It returns nil, a *ValidationError, or a transient error (ErrReferralUnavailable / ErrValidationTimeout).
func (v *Validator) Validate(ctx context.Context, r *model.Reservation, section Section) error {
	if !section.IsValid() {
		return fmt.Errorf("unknown section %q", section)
	}

	sections := []Section{section}
	if section == SectionAll {
		sections = Sections
	}

	var issues []Issue
	for _, s := range sections {
		sectionIssues, err := v.validateSection(ctx, r, s)
		if err != nil {
			return err
		}
		issues = append(issues, sectionIssues...)
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues, Focus: issues[0].Field}
}

func (v *Validator) validateSection(ctx context.Context, r *model.Reservation, section Section) ([]Issue, error) {
	switch section {
	case SectionContractor:
		return validateContractor(r), nil
	case SectionSchedule:
		return validateSchedule(r), nil
	case SectionOptions:
		return validateOptions(r), nil
	case SectionDiscounts:
		return v.validateDiscounts(ctx, r)
	case SectionCustom:
		return validateCustom(r), nil
	}
	return nil, nil
}

func validateContractor(r *model.Reservation) []Issue {
	var issues []Issue

	if r.Contractor() == "" {
		issues = append(issues, Issue{Field: FieldContractor, Code: IssueRequired})
	}
	if strings.TrimSpace(r.GroomName) == "" {
		issues = append(issues, Issue{Field: FieldGroomName, Code: IssueRequired})
	}
	issues = appendPhoneIssue(issues, FieldGroomPhone, r.GroomPhone, !r.Overseas && r.Contractor() != model.ContractorBride)
	if strings.TrimSpace(r.BrideName) == "" {
		issues = append(issues, Issue{Field: FieldBrideName, Code: IssueRequired})
	}
	issues = appendPhoneIssue(issues, FieldBridePhone, r.BridePhone, !r.Overseas && r.Contractor() == model.ContractorBride)

	// 해외 거주자는 전화번호 대신 이메일이 접근 수단
	email := strings.TrimSpace(r.Email)
	switch {
	case email == "" && r.Overseas:
		issues = append(issues, Issue{Field: FieldEmail, Code: IssueRequired})
	case email != "":
		if err := fieldRules.Var(email, "email"); err != nil {
			issues = append(issues, Issue{Field: FieldEmail, Code: IssueInvalid})
		}
	}

	return issues
}

func appendPhoneIssue(issues []Issue, field Field, phone string, required bool) []Issue {
	phone = strings.TrimSpace(phone)
	switch {
	case phone == "" && required:
		return append(issues, Issue{Field: field, Code: IssueRequired})
	case phone != "" && !util.IsMobileNumber(phone):
		return append(issues, Issue{Field: field, Code: IssueInvalid})
	}
	return issues
}

func validateSchedule(r *model.Reservation) []Issue {
	var issues []Issue

	if !r.ProductType.IsValid() {
		issues = append(issues, Issue{Field: FieldProductType, Code: IssueInvalid})
	}

	required := r.ProductType.IsWeddingVideo()

	date := strings.TrimSpace(r.WeddingDate)
	switch {
	case date == "" && required:
		issues = append(issues, Issue{Field: FieldWeddingDate, Code: IssueRequired})
	case date != "":
		if _, err := time.Parse("2006-01-02", date); err != nil {
			issues = append(issues, Issue{Field: FieldWeddingDate, Code: IssueInvalid})
		}
	}

	clock := strings.TrimSpace(r.WeddingTime)
	switch {
	case clock == "" && required:
		issues = append(issues, Issue{Field: FieldWeddingTime, Code: IssueRequired})
	case clock != "":
		if _, err := time.Parse("15:04", clock); err != nil {
			issues = append(issues, Issue{Field: FieldWeddingTime, Code: IssueInvalid})
		}
	}

	if required && strings.TrimSpace(r.Venue) == "" {
		issues = append(issues, Issue{Field: FieldVenue, Code: IssueRequired})
	}

	return issues
}

func validateOptions(r *model.Reservation) []Issue {
	var issues []Issue
	if r.AddOns.USB && strings.TrimSpace(r.USBAddress) == "" {
		issues = append(issues, Issue{Field: FieldUSBAddress, Code: IssueRequired})
	}
	if utf8.RuneCountInString(r.Notes) > maxNotesLength {
		issues = append(issues, Issue{Field: FieldNotes, Code: IssueTooLong})
	}
	return issues
}

func (v *Validator) validateDiscounts(ctx context.Context, r *model.Reservation) ([]Issue, error) {
	intents, code := v.rules.Normalize(r.ProductType, r.MainVendor, r.Discounts, r.PartnerCode)
	if !intents.Couple {
		return nil, nil
	}
	if code == "" {
		return []Issue{{Field: FieldPartnerCode, Code: IssueRequired}}, nil
	}

	ok, err := v.checkPartnerCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Issue{{Field: FieldPartnerCode, Code: IssueUnverified}}, nil
	}
	return nil, nil
}

var customFields = []struct {
	name  string
	field Field
}{
	{"style", FieldCustomStyle},
	{"edit_style", FieldCustomEditStyle},
	{"music", FieldCustomMusic},
	{"length", FieldCustomLength},
	{"effects", FieldCustomEffects},
	{"content", FieldCustomContent},
}

func validateCustom(r *model.Reservation) []Issue {
	if r.CustomRequest == nil {
		return nil
	}

	var issues []Issue
	values := r.CustomRequest.Values()
	for _, cf := range customFields {
		value := values[cf.name]
		if value == "" {
			continue
		}
		if !contains(model.CustomShootOptions[cf.name], value) {
			issues = append(issues, Issue{Field: cf.field, Code: IssueInvalid})
		}
	}
	if utf8.RuneCountInString(r.CustomRequest.Request) > maxRequestLength {
		issues = append(issues, Issue{Field: FieldCustomRequest, Code: IssueTooLong})
	}
	return issues
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

type checkResult struct {
	ok  bool
	err error
}

// checkPartnerCode calls the checker with a per-attempt deadline and retries
// timeouts and unavailability with exponential backoff.
func (v *Validator) checkPartnerCode(ctx context.Context, code string) (bool, error) {
	var lastErr error

	for attempt := 0; attempt <= v.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := v.retry.NextDelay(attempt)
			logger.Warn("Retrying partner code validation", map[string]interface{}{
				"attempt": attempt,
				"delay":   delay.String(),
				"error":   lastErr.Error(),
			})
			if err := sleepContext(ctx, delay); err != nil {
				return false, err
			}
		}

		ok, err := v.checkOnce(ctx, code)
		if err == nil {
			return ok, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if !errors.Is(err, ErrValidationTimeout) && !errors.Is(err, ErrReferralUnavailable) {
			return false, err
		}
		lastErr = err
	}

	return false, lastErr
}

func (v *Validator) checkOnce(ctx context.Context, code string) (bool, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	// 확인 함수가 컨텍스트를 무시해도 제한 시간 안에 반환
	results := make(chan checkResult, 1)
	go func() {
		ok, err := v.checker.Validate(attemptCtx, code)
		results <- checkResult{ok: ok, err: err}
	}()

	select {
	case res := <-results:
		if res.err != nil && errors.Is(res.err, context.DeadlineExceeded) {
			return false, fmt.Errorf("%w: %v", ErrValidationTimeout, res.err)
		}
		return res.ok, res.err
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("%w after %s", ErrValidationTimeout, v.timeout)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
