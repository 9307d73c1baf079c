package router

import (
	"bufio"
	"bytes"
	"net"
	"net/http"
	"strings"
)

const maxLoggedBodyBytes = 32 * 1024

// responseRecorder remembers what a handler wrote so the observability
// middleware can log it. Event streams are counted but never buffered.
type responseRecorder struct {
	http.ResponseWriter
	status    int
	written   int
	body      bytes.Buffer
	truncated bool
	stream    bool
	err       error
}

func isEventStream(h http.Header) bool {
	return strings.HasPrefix(strings.ToLower(h.Get("Content-Type")), "text/event-stream")
}

func (w *responseRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
		w.stream = isEventStream(w.Header())
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	if !w.stream {
		w.capture(p)
	}

	n, err := w.ResponseWriter.Write(p)
	w.written += n
	return n, err
}

func (w *responseRecorder) capture(p []byte) {
	room := maxLoggedBodyBytes - w.body.Len()
	if room <= 0 {
		w.truncated = w.truncated || len(p) > 0
		return
	}
	if len(p) > room {
		p = p[:room]
		w.truncated = true
	}
	w.body.Write(p)
}

// Status is the written status, 200 when the handler wrote nothing.
func (w *responseRecorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// SetError lets the error codec hand the handler error to the span.
func (w *responseRecorder) SetError(err error) {
	w.err = err
}

func (w *responseRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

func (w *responseRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
