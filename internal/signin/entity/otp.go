package entity

import "time"

const (
	// OTPLength is the number of digits of a one-time code.
	OTPLength = 6

	// DefaultResendCooldown is how long a visitor waits before asking for a new code.
	DefaultResendCooldown = 30 * time.Second

	// DefaultAcceptedCode is the stand-in code accepted by the static checker.
	DefaultAcceptedCode = "123456"
)

// OTPSession holds the code step state. It exists only while the flow is in
// StageOTPPending.
type OTPSession struct {
	Code                  string
	Sent                  bool
	Verified              bool
	Error                 string
	ResendCooldownSeconds int
	SentAt                time.Time
}

// CanResend reports whether the cooldown has elapsed.
func (s OTPSession) CanResend() bool {
	return s.ResendCooldownSeconds == 0
}

// Delivery is a request to hand a code to the visitor.
type Delivery struct {
	FlowID string
	Email  string
	Resend bool
}

// Receipt describes an accepted delivery.
type Receipt struct {
	Channel   string
	Reference string
	SentAt    time.Time
}

// OTPDispatch is the payload handed to a delivery channel: the code and the
// address it goes to.
type OTPDispatch struct {
	FlowID      string
	Email       string
	Code        string
	Resend      bool
	RequestedAt time.Time
}

// SignedIn records a completed sign-in for downstream consumers.
type SignedIn struct {
	FlowID string
	Email  string
	At     time.Time
}
