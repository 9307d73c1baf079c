package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/glintai/internal/signin/entity"
)

type SubmitRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type InputOTPRequest struct {
	Code string `json:"code"`
}

type EnterDigitRequest struct {
	Digit string `json:"digit"`
}

type VerifyRequest struct {
	Code *string `json:"code"`
}

type OTPResponse struct {
	Code                  string    `json:"code"`
	Sent                  bool      `json:"sent"`
	Verified              bool      `json:"verified"`
	Error                 string    `json:"error,omitempty"`
	ResendCooldownSeconds int       `json:"resend_cooldown_seconds"`
	CanResend             bool      `json:"can_resend"`
	SentAt                time.Time `json:"sent_at"`
}

type NotificationResponse struct {
	ID        int64           `json:"id"`
	Message   string          `json:"message"`
	Severity  entity.Severity `json:"severity" swaggertype:"string"`
	Visible   bool            `json:"visible"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type FlowResponse struct {
	ID           string                `json:"id"`
	Stage        entity.Stage          `json:"stage" swaggertype:"string"`
	Email        string                `json:"email,omitempty"`
	Fields       map[string]string     `json:"fields,omitempty"`
	OTP          *OTPResponse          `json:"otp,omitempty"`
	Notification *NotificationResponse `json:"notification,omitempty"`
	Sending      bool                  `json:"sending"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`

	status int
}

func (r FlowResponse) StatusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

type VerifyResponse struct {
	Flow        FlowResponse `json:"flow"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	RedirectTo  string       `json:"redirect_to"`
}

func (VerifyResponse) Message() string {
	return entity.MsgOTPVerified
}

type MeResponse struct {
	Email     string    `json:"email"`
	SessionID string    `json:"session_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type EventResponse struct {
	Seq             uint64                `json:"seq"`
	Kind            entity.EventKind      `json:"kind"`
	Stage           entity.Stage          `json:"stage" swaggertype:"string"`
	CooldownSeconds int                   `json:"cooldown_seconds"`
	OTPError        string                `json:"otp_error,omitempty"`
	Notification    *NotificationResponse `json:"notification,omitempty"`
	At              time.Time             `json:"at"`
}

func toFlowResponse(st *entity.FlowState) FlowResponse {
	resp := FlowResponse{
		ID:           st.ID,
		Stage:        st.Stage,
		Email:        st.Email,
		Fields:       st.Fields,
		Notification: toNotificationResponse(st.Notification),
		Sending:      st.Sending,
		CreatedAt:    st.CreatedAt,
		UpdatedAt:    st.UpdatedAt,
	}

	if st.OTP != nil {
		resp.OTP = &OTPResponse{
			Code:                  st.OTP.Code,
			Sent:                  st.OTP.Sent,
			Verified:              st.OTP.Verified,
			Error:                 st.OTP.Error,
			ResendCooldownSeconds: st.OTP.ResendCooldownSeconds,
			CanResend:             st.OTP.CanResend(),
			SentAt:                st.OTP.SentAt,
		}
	}

	return resp
}

func toNotificationResponse(n *entity.Notification) *NotificationResponse {
	if n == nil {
		return nil
	}

	return &NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		Severity:  n.Severity,
		Visible:   n.Visible,
		CreatedAt: n.CreatedAt,
		ExpiresAt: n.ExpiresAt,
	}
}

func toEventResponse(evt entity.Event) EventResponse {
	return EventResponse{
		Seq:             evt.Seq,
		Kind:            evt.Kind,
		Stage:           evt.Stage,
		CooldownSeconds: evt.CooldownSeconds,
		OTPError:        evt.OTPError,
		Notification:    toNotificationResponse(evt.Notification),
		At:              evt.At,
	}
}
