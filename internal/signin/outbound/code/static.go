package code

import (
	"context"
	"crypto/subtle"

	"github.com/shandysiswandi/glintai/internal/signin/entity"
)

// Static issues and accepts one fixed code for every address.
type Static struct {
	code string
}

// NewStatic returns a Static checker. An empty code means entity.DefaultAcceptedCode.
func NewStatic(code string) *Static {
	if code == "" {
		code = entity.DefaultAcceptedCode
	}
	return &Static{code: code}
}

// Issue returns the fixed code.
func (s *Static) Issue(_ context.Context, _ string) (string, error) {
	return s.code, nil
}

// Check compares code with the fixed code in constant time.
func (s *Static) Check(_ context.Context, _, code string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(code), []byte(s.code)) == 1, nil
}
