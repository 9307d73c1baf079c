package entity

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrFlowNotFound    = errors.New("signin: flow not found")
	ErrInvalidStage    = errors.New("signin: operation not valid at current stage")
	ErrSendInProgress  = errors.New("signin: otp delivery already in progress")
	ErrResendCooldown  = errors.New("signin: resend is not available yet")
	ErrOTPFormat       = errors.New("signin: otp must be 6 digits")
	ErrOTPMismatch     = errors.New("signin: invalid otp")
	ErrInvalidDigit    = errors.New("signin: otp accepts digits only")
	ErrDeliveryFailure = errors.New("signin: otp delivery failed")
	ErrNoticeNotFound  = errors.New("signin: notification not found")
)

// FieldValidationError carries the per-field messages of a rejected submit.
type FieldValidationError struct {
	Fields ValidationResult
}

func (e *FieldValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return "signin: invalid credentials (" + strings.Join(parts, ", ") + ")"
}
