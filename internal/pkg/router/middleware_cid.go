package router

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/pkg/uid"
)

const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderRequestID     = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// cidHeaders are read in order; the first usable value wins.
var cidHeaders = []string{HeaderCorrelationID, HeaderRequestID}

// sanitizeCID trims v and rejects it when it holds control characters, so a
// client value can never split log lines or response headers.
func sanitizeCID(v string) string {
	v = strings.TrimSpace(v)
	if strings.IndexFunc(v, unicode.IsControl) >= 0 {
		return ""
	}
	if len(v) > maxCorrelationIDLen {
		v = v[:maxCorrelationIDLen]
	}
	return v
}

func correlationID(r *http.Request, gen uid.StringID) string {
	for _, h := range cidHeaders {
		if cid := sanitizeCID(r.Header.Get(h)); cid != "" {
			return cid
		}
	}
	if gen == nil {
		return ""
	}
	return gen.Generate()
}

// middlewareCorrelationID echoes the request's correlation id, or a fresh
// one, and stores it in the context for logging and event headers.
func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cid := correlationID(r, gen); cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
