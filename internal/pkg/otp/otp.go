package otp

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	defaultPeriod uint = 30
	defaultSkew   uint = 1
)

// OTP issues and checks time-based codes for a base32 secret.
type OTP interface {
	// Validate checks whether a code is valid at the given time.
	Validate(code, secret string, at time.Time) bool
	// GenerateCode creates a code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)
}

// TOTP implements OTP with RFC 6238 over SHA1.
type TOTP struct {
	issuer string
	opts   totp.ValidateOpts
}

// NewTOTP constructs a TOTP instance.
//
// Digits other than 6 or 8 fall back to 6. A zero period means 30 seconds and
// a zero skew accepts one step either side.
func NewTOTP(issuer string, period, skew uint, digits otp.Digits) *TOTP {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}
	if period == 0 {
		period = defaultPeriod
	}
	if skew == 0 {
		skew = defaultSkew
	}

	return &TOTP{
		issuer: issuer,
		opts: totp.ValidateOpts{
			Period:    period,
			Skew:      skew,
			Digits:    digits,
			Algorithm: otp.AlgorithmSHA1,
		},
	}
}

// Issuer is the label shown by authenticator apps.
func (o *TOTP) Issuer() string {
	return o.issuer
}

// Period is the lifetime of a single code.
func (o *TOTP) Period() time.Duration {
	return time.Duration(o.opts.Period) * time.Second
}

// Validate checks whether a code is valid at the given time.
func (o *TOTP) Validate(code, secret string, at time.Time) bool {
	rv, err := totp.ValidateCustom(code, secret, at, o.opts)

	return rv && err == nil
}

// GenerateCode creates a code for the given secret and time.
func (o *TOTP) GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, o.opts)
}
