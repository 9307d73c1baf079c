package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type fixedID string

func (id fixedID) Generate() string { return string(id) }

func newTestSymmetric(t *testing.T, clk *fixedClock) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("k", 64)),
		Issuer:    "glintai",
		Audiences: []string{"glintai-web"},
		TTL:       15 * time.Minute,
		Clock:     clk,
		UUID:      fixedID("jti-1"),
	})
	require.NoError(t, err)

	return s
}

func TestNewHS512_ShortSecret(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("short")})

	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestSymmetric_GenerateVerify(t *testing.T) {
	// Arrange
	clk := &fixedClock{now: time.Now().Truncate(time.Second)}
	s := newTestSymmetric(t, clk)

	// Act
	token, err := s.Generate("flow-1", "a@b.com")
	require.NoError(t, err)
	claims, err := s.Verify(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "flow-1", claims.SessionID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "a@b.com", claims.Subject)
	assert.Equal(t, "jti-1", claims.ID)
	assert.WithinDuration(t, clk.now.Add(15*time.Minute), claims.ExpiresAt.Time, 0)
}

func TestSymmetric_Verify_Expired(t *testing.T) {
	clk := &fixedClock{now: time.Now()}
	s := newTestSymmetric(t, clk)

	token, err := s.Generate("flow-1", "a@b.com")
	require.NoError(t, err)

	clk.now = clk.now.Add(16 * time.Minute)
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSymmetric_Verify_MissingSession(t *testing.T) {
	s := newTestSymmetric(t, &fixedClock{now: time.Now()})

	token, err := s.Generate("", "a@b.com")
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrMissingSession)
}

func TestSymmetric_Verify_WrongAudience(t *testing.T) {
	clk := &fixedClock{now: time.Now()}
	s := newTestSymmetric(t, clk)

	other, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("k", 64)),
		Issuer:    "glintai",
		Audiences: []string{"glintai-admin"},
		TTL:       15 * time.Minute,
		Clock:     clk,
		UUID:      fixedID("jti-2"),
	})
	require.NoError(t, err)

	token, err := other.Generate("flow-1", "a@b.com")
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSymmetric_Verify_Tampered(t *testing.T) {
	s := newTestSymmetric(t, &fixedClock{now: time.Now()})

	token, err := s.Generate("flow-1", "a@b.com")
	require.NoError(t, err)

	_, err = s.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
