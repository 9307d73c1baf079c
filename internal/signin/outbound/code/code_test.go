package code

import (
	"context"
	"strings"
	"testing"
	"time"

	pqotp "github.com/pquerna/otp"
	"github.com/shandysiswandi/glintai/internal/pkg/clock/clocktest"
	"github.com/shandysiswandi/glintai/internal/pkg/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	tests := []struct {
		name   string
		fixed  string
		input  string
		wantOK bool
	}{
		{name: "DefaultAccepted", input: "123456", wantOK: true},
		{name: "DefaultRejected", input: "000000", wantOK: false},
		{name: "CustomAccepted", fixed: "654321", input: "654321", wantOK: true},
		{name: "CustomRejectsDefault", fixed: "654321", input: "123456", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStatic(tt.fixed)

			ok, err := s.Check(context.Background(), "a@b.com", tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
		})
	}

	issued, err := NewStatic("").Issue(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", issued)
}

func TestTOTP(t *testing.T) {
	clk := clocktest.New(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	gen := otp.NewTOTP("glintai", 30, 1, pqotp.DigitsSix)
	c, err := NewTOTP([]byte(strings.Repeat("s", 32)), gen, clk)
	require.NoError(t, err)
	ctx := context.Background()

	issued, err := c.Issue(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Len(t, issued, 6)

	ok, err := c.Check(ctx, "a@b.com", issued)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Check(ctx, " A@B.com ", issued)
	require.NoError(t, err)
	assert.True(t, ok, "address is normalised before deriving the secret")

	other, err := c.Issue(ctx, "c@d.com")
	require.NoError(t, err)
	if other != issued {
		ok, err = c.Check(ctx, "a@b.com", other)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	clk.Advance(5 * time.Minute)
	ok, err = c.Check(ctx, "a@b.com", issued)
	require.NoError(t, err)
	assert.False(t, ok, "code expires after the skew window")
}

func TestNewTOTP_ShortSecret(t *testing.T) {
	_, err := NewTOTP([]byte("short"), nil, nil)

	assert.ErrorIs(t, err, ErrSecretTooShort)
}
