package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type credentialForm struct {
	Email    string `validate:"required,loginemail"`
	Password string `validate:"required,min=5,hasupper,hasdigit,hassymbol"`
}

func TestV10Validator_Credentials(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   credentialForm
		want map[string]string
	}{
		{
			name: "Valid",
			in:   credentialForm{Email: "a@b.com", Password: "Abcdef1!"},
			want: nil,
		},
		{
			name: "BothEmpty",
			in:   credentialForm{},
			want: map[string]string{
				"email":    "Email is required",
				"password": "Password is required",
			},
		},
		{
			name: "EmailWithoutDot",
			in:   credentialForm{Email: "a@bcom", Password: "Abcdef1!"},
			want: map[string]string{"email": "Invalid email format"},
		},
		{
			name: "EmailWithWhitespace",
			in:   credentialForm{Email: "a b@c.com", Password: "Abcdef1!"},
			want: map[string]string{"email": "Invalid email format"},
		},
		{
			name: "EmailWithoutAt",
			in:   credentialForm{Email: "ab.com", Password: "Abcdef1!"},
			want: map[string]string{"email": "Invalid email format"},
		},
		{
			name: "PasswordTooShort",
			in:   credentialForm{Email: "a@b.com", Password: "A1!a"},
			want: map[string]string{"password": "Password must be at least 5 characters"},
		},
		{
			name: "PasswordWithoutCapital",
			in:   credentialForm{Email: "a@b.com", Password: "abcdef1!"},
			want: map[string]string{"password": "Password must contain at least one capital letter"},
		},
		{
			name: "PasswordWithNonASCIICapitalOnly",
			in:   credentialForm{Email: "a@b.com", Password: "ébcdÉ1!"},
			want: map[string]string{"password": "Password must contain at least one capital letter"},
		},
		{
			name: "PasswordWithoutNumber",
			in:   credentialForm{Email: "a@b.com", Password: "Abcdefg!"},
			want: map[string]string{"password": "Password must contain at least one number"},
		},
		{
			name: "PasswordWithoutSymbol",
			in:   credentialForm{Email: "a@b.com", Password: "Abcdefg1"},
			want: map[string]string{"password": "Password must contain at least one special character"},
		},
		{
			name: "ErrorsFromBothFieldsTogether",
			in:   credentialForm{Email: "nope", Password: "abc"},
			want: map[string]string{
				"email":    "Invalid email format",
				"password": "Password must be at least 5 characters",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}

			var verr V10ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.Values())
		})
	}
}

func TestV10Validator_ShortPasswordsAlwaysFailOnLength(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	for n := 1; n < 5; n++ {
		pw := strings.Repeat("A", n)
		err := v.Validate(credentialForm{Email: "a@b.com", Password: pw})

		var verr V10ValidationError
		require.True(t, errors.As(err, &verr), "len %d", n)
		assert.Equal(t, "Password must be at least 5 characters", verr["password"])
	}
}

func TestV10Validator_EverySymbolIsAccepted(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	for _, r := range SymbolSet {
		pw := "Abcde1" + string(r)
		assert.NoError(t, v.Validate(credentialForm{Email: "a@b.com", Password: pw}), "symbol %q", r)
	}
}
