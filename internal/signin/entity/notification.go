package entity

import "time"

// Severity classifies a notification banner.
type Severity int8

const (
	SeverityUnknown Severity = 0
	SeveritySuccess Severity = 1
	SeverityError   Severity = 2
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity name in JSON payloads.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Notification is a transient banner. It is informational only; the flow
// state is authoritative.
type Notification struct {
	ID        int64
	Message   string
	Severity  Severity
	Visible   bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

const (
	MsgOTPSent      = "OTP sent to your email"
	MsgOTPVerified  = "OTP verified successfully"
	MsgSendFailed   = "Check your email and password"
	MsgOTPFormat    = "OTP must be 6 digits"
	MsgOTPMismatch  = "Invalid OTP"
	MsgResendNotYet = "Please wait before requesting a new OTP"
)
