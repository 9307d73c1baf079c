package inbound

import (
	"net/http"

	"github.com/shandysiswandi/glintai/internal/pkg/router"
	"github.com/shandysiswandi/glintai/internal/signin/usecase"
)

const headerIdempotencyKey = "Idempotency-Key"

type HTTPEndpoint struct {
	uc uc
}

// StartFlow opens a new sign-in flow.
// @Summary Start sign-in
// @Description Creates a sign-in flow waiting for credentials.
// @Tags Signin
// @Produce json
// @Success 201 {object} router.successResponse{data=FlowResponse} "Flow created"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/signin/flows [post]
func (h *HTTPEndpoint) StartFlow(r *router.Request) (any, error) {
	st, err := h.uc.StartFlow(r.Context())
	if err != nil {
		return nil, err
	}

	resp := toFlowResponse(st)
	resp.status = http.StatusCreated
	return resp, nil
}

// GetFlow returns the current state of a flow.
// @Summary Get sign-in flow
// @Tags Signin
// @Produce json
// @Param id path string true "Flow ID"
// @Success 200 {object} router.successResponse{data=FlowResponse} "Flow state"
// @Failure 404 {object} router.errorResponse "Flow not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/signin/flows/{id} [get]
func (h *HTTPEndpoint) GetFlow(r *router.Request) (any, error) {
	st, err := h.uc.GetFlow(r.Context(), usecase.GetFlowInput{FlowID: r.GetParam("id")})
	if err != nil {
		return nil, err
	}

	return toFlowResponse(st), nil
}

// CancelFlow discards a flow.
// @Summary Cancel sign-in flow
// @Tags Signin
// @Param id path string true "Flow ID"
// @Success 204 "No Content"
// @Failure 404 {object} router.errorResponse "Flow not found"
// @Router /api/v1/signin/flows/{id} [delete]
func (h *HTTPEndpoint) CancelFlow(r *router.Request) (any, error) {
	return nil, h.uc.CancelFlow(r.Context(), usecase.CancelFlowInput{FlowID: r.GetParam("id")})
}

// Submit validates the credentials and sends a code.
// @Summary Submit credentials
// @Description Validates email and password; on success a code is sent and the flow waits for it.
// @Tags Signin
// @Accept json
// @Produce json
// @Param id path string true "Flow ID"
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body SubmitRequest true "Credentials"
// @Success 200 {object} router.successResponse{data=FlowResponse} "Code sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Not in credentials step"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Code could not be sent"
// @Router /api/v1/signin/flows/{id}/submit [post]
func (h *HTTPEndpoint) Submit(r *router.Request) (any, error) {
	var req SubmitRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	st, err := h.uc.Submit(r.Context(), usecase.SubmitInput{
		FlowID:         r.GetParam("id"),
		IdempotencyKey: r.GetHeader(headerIdempotencyKey),
		Email:          req.Email,
		Password:       req.Password,
	})
	if err != nil {
		return nil, err
	}

	return toFlowResponse(st), nil
}

// InputOTP replaces the code typed so far.
// @Summary Set code buffer
// @Tags Signin
// @Accept json
// @Produce json
// @Param id path string true "Flow ID"
// @Param request body InputOTPRequest true "Code"
// @Success 200 {object} router.successResponse{data=FlowResponse} "Flow state"
// @Failure 409 {object} router.errorResponse "Not in code step"
// @Router /api/v1/signin/flows/{id}/otp [put]
func (h *HTTPEndpoint) InputOTP(r *router.Request) (any, error) {
	var req InputOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	st, err := h.uc.InputOTP(r.Context(), usecase.InputOTPInput{FlowID: r.GetParam("id"), Code: req.Code})
	if err != nil {
		return nil, err
	}

	return toFlowResponse(st), nil
}

// EnterDigit appends one digit to the code.
// @Summary Append digit
// @Tags Signin
// @Accept json
// @Produce json
// @Param id path string true "Flow ID"
// @Param request body EnterDigitRequest true "Digit"
// @Success 200 {object} router.successResponse{data=FlowResponse} "Flow state"
// @Failure 422 {object} router.errorResponse "Not a digit"
// @Router /api/v1/signin/flows/{id}/otp/digits [post]
func (h *HTTPEndpoint) EnterDigit(r *router.Request) (any, error) {
	var req EnterDigitRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	st, err := h.uc.EnterDigit(r.Context(), usecase.EnterDigitInput{FlowID: r.GetParam("id"), Digit: req.Digit})
	if err != nil {
		return nil, err
	}

	return toFlowResponse(st), nil
}

// DeleteDigit removes the last digit of the code.
// @Summary Delete digit
// @Tags Signin
// @Produce json
// @Param id path string true "Flow ID"
// @Success 200 {object} router.successResponse{data=FlowResponse} "Flow state"
// @Router /api/v1/signin/flows/{id}/otp/digits [delete]
func (h *HTTPEndpoint) DeleteDigit(r *router.Request) (any, error) {
	st, err := h.uc.DeleteDigit(r.Context(), usecase.DeleteDigitInput{FlowID: r.GetParam("id")})
	if err != nil {
		return nil, err
	}

	return toFlowResponse(st), nil
}

// Verify checks the code and completes the sign-in.
// @Summary Verify code
// @Description Verifies the given code, or the typed buffer when the body has no code.
// @Tags Signin
// @Accept json
// @Produce json
// @Param id path string true "Flow ID"
// @Param request body VerifyRequest false "Code"
// @Success 200 {object} router.successResponse{data=VerifyResponse} "Signed in"
// @Failure 409 {object} router.errorResponse "Not in code step"
// @Failure 422 {object} router.errorResponse "Invalid code"
// @Router /api/v1/signin/flows/{id}/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeOptionalBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Verify(r.Context(), usecase.VerifyInput{FlowID: r.GetParam("id"), Code: req.Code})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{
		Flow:        toFlowResponse(&out.Flow),
		AccessToken: out.AccessToken,
		TokenType:   out.TokenType,
		ExpiresAt:   out.ExpiresAt,
		RedirectTo:  out.RedirectTo,
	}, nil
}

// Resend asks for a new code once the cooldown is over.
// @Summary Resend code
// @Tags Signin
// @Produce json
// @Param id path string true "Flow ID"
// @Success 200 {object} router.successResponse{data=FlowResponse} "Code sent"
// @Failure 429 {object} router.errorResponse "Cooldown running"
// @Router /api/v1/signin/flows/{id}/resend [post]
func (h *HTTPEndpoint) Resend(r *router.Request) (any, error) {
	st, err := h.uc.Resend(r.Context(), usecase.ResendInput{FlowID: r.GetParam("id")})
	if err != nil {
		return nil, err
	}

	return toFlowResponse(st), nil
}

// ChangeEmail goes back to the credentials step.
// @Summary Change email
// @Tags Signin
// @Produce json
// @Param id path string true "Flow ID"
// @Success 200 {object} router.successResponse{data=FlowResponse} "Flow state"
// @Router /api/v1/signin/flows/{id}/change-email [post]
func (h *HTTPEndpoint) ChangeEmail(r *router.Request) (any, error) {
	st, err := h.uc.ChangeEmail(r.Context(), usecase.ChangeEmailInput{FlowID: r.GetParam("id")})
	if err != nil {
		return nil, err
	}

	return toFlowResponse(st), nil
}

// AckNotification marks the current notification as shown.
// @Summary Acknowledge notification
// @Tags Signin
// @Param id path string true "Flow ID"
// @Param nid path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 404 {object} router.errorResponse "Notification not found"
// @Router /api/v1/signin/flows/{id}/notifications/{nid}/ack [post]
func (h *HTTPEndpoint) AckNotification(r *router.Request) (any, error) {
	nid, err := r.GetParamInt64("nid")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.AckNotification(r.Context(), usecase.AckNotificationInput{
		FlowID:         r.GetParam("id"),
		NotificationID: nid,
	})
}

// Me describes the session of the bearer token.
// @Summary Current session
// @Tags Signin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=MeResponse} "Session"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Router /api/v1/signin/me [get]
func (h *HTTPEndpoint) Me(r *router.Request) (any, error) {
	out, err := h.uc.Me(r.Context())
	if err != nil {
		return nil, err
	}

	return MeResponse{
		Email:     out.Email,
		SessionID: out.SessionID,
		IssuedAt:  out.IssuedAt,
		ExpiresAt: out.ExpiresAt,
	}, nil
}
