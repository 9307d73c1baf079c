package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shandysiswandi/glintai/internal/pkg/jwt"
)

// middlewareAuthentication requires a valid bearer token on every route not
// listed in public (method -> route path).
func middlewareAuthentication(verifier jwt.JWT, public map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := public[r.Method][matchedRoutePath(r)]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "Authentication required")
				return
			}

			claims, err := verifier.Verify(token)
			if errors.Is(err, jwt.ErrTokenExpired) {
				unauthorized(w, "Session expired, please sign in again")
				return
			}
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="glintai"`)
	writeJSON(w, errorResponse{Message: msg}, http.StatusUnauthorized)
}
