package code

import (
	"context"
	"crypto/sha256"
	"encoding/base32"
	"errors"
	"io"
	"strings"

	"github.com/shandysiswandi/glintai/internal/pkg/clock"
	"github.com/shandysiswandi/glintai/internal/pkg/otp"
	"golang.org/x/crypto/hkdf"
)

// ErrSecretTooShort is returned when the master secret is under 32 bytes.
var ErrSecretTooShort = errors.New("code: totp master secret must be at least 32 bytes")

const (
	secretSize = 20
	hkdfInfo   = "glintai/signin/otp:"
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// TOTP issues time-based codes from a per-address secret derived from one
// master secret, so nothing has to be stored between issue and check.
type TOTP struct {
	master []byte
	otp    otp.OTP
	clock  clock.Clocker
}

// NewTOTP builds a TOTP checker.
func NewTOTP(master []byte, gen otp.OTP, clk clock.Clocker) (*TOTP, error) {
	if len(master) < 32 {
		return nil, ErrSecretTooShort
	}

	return &TOTP{master: master, otp: gen, clock: clk}, nil
}

// Issue returns the code valid now for email.
func (t *TOTP) Issue(_ context.Context, email string) (string, error) {
	secret, err := t.secret(email)
	if err != nil {
		return "", err
	}

	return t.otp.GenerateCode(secret, t.clock.Now())
}

// Check reports whether code is valid now for email, within the configured skew.
func (t *TOTP) Check(_ context.Context, email, code string) (bool, error) {
	secret, err := t.secret(email)
	if err != nil {
		return false, err
	}

	return t.otp.Validate(code, secret, t.clock.Now()), nil
}

func (t *TOTP) secret(email string) (string, error) {
	info := hkdfInfo + strings.ToLower(strings.TrimSpace(email))
	r := hkdf.New(sha256.New, t.master, nil, []byte(info))

	raw := make([]byte, secretSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", err
	}

	return b32.EncodeToString(raw), nil
}
