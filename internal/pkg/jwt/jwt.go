package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSigningKeyTooShort = errors.New("jwt: HS512 signing key must be at least 64 bytes")
	ErrTokenExpired       = errors.New("jwt: token has expired")
	ErrInvalidToken       = errors.New("jwt: invalid token")
	ErrMissingSession     = errors.New("jwt: token has no sign-in session")
)

// JWT issues the access token of an authenticated sign-in flow and verifies
// it on later requests.
type JWT interface {
	Generate(sessionID, email string) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	// UUID generates the jti claim.
	UUID generator
}

// Claims are the registered claims plus the flow that produced the token.
// Subject and Email both hold the verified address.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	Email     string `json:"email"`
}

type authKey struct{}

// GetAuth returns the verified claims of the request, or nil on public routes.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(authKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}
