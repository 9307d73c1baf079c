package inbound

import (
	"net/http"

	"github.com/shandysiswandi/glintai/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/signin/flows", end.StartFlow)
	r.GET("/api/v1/signin/flows/:id", end.GetFlow)
	r.DELETE("/api/v1/signin/flows/:id", end.CancelFlow)

	r.POST("/api/v1/signin/flows/:id/submit", end.Submit)
	r.PUT("/api/v1/signin/flows/:id/otp", end.InputOTP)
	r.POST("/api/v1/signin/flows/:id/otp/digits", end.EnterDigit)
	r.DELETE("/api/v1/signin/flows/:id/otp/digits", end.DeleteDigit)
	r.POST("/api/v1/signin/flows/:id/verify", end.Verify)
	r.POST("/api/v1/signin/flows/:id/resend", end.Resend)
	r.POST("/api/v1/signin/flows/:id/change-email", end.ChangeEmail)
	r.POST("/api/v1/signin/flows/:id/notifications/:nid/ack", end.AckNotification)

	r.GET("/api/v1/signin/me", end.Me)

	// everything but /me runs before a token exists
	r.Public(http.MethodGet, "/api/v1/signin/flows/:id")
	r.Public(http.MethodPost,
		"/api/v1/signin/flows",
		"/api/v1/signin/flows/:id/submit",
		"/api/v1/signin/flows/:id/otp/digits",
		"/api/v1/signin/flows/:id/verify",
		"/api/v1/signin/flows/:id/resend",
		"/api/v1/signin/flows/:id/change-email",
		"/api/v1/signin/flows/:id/notifications/:nid/ack",
	)
	r.Public(http.MethodPut, "/api/v1/signin/flows/:id/otp")
	r.Public(http.MethodDelete, "/api/v1/signin/flows/:id", "/api/v1/signin/flows/:id/otp/digits")
}

// RegisterSSEEndpoint mounts the event stream on the long-lived connection server.
func RegisterSSEEndpoint(r *router.Router, uc ucStream) {
	end := &SSEEndpoint{uc: uc, heartbeat: defaultHeartbeat}

	r.GETRaw("/api/v1/signin/flows/:id/events", http.HandlerFunc(end.StreamFlow))
	r.Public(http.MethodGet, "/api/v1/signin/flows/:id/events")
}
