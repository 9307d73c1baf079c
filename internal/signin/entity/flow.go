package entity

import "time"

// FlowState is a point-in-time copy of a sign-in flow, safe to share.
type FlowState struct {
	ID           string
	Stage        Stage
	Email        string
	Fields       ValidationResult
	OTP          *OTPSession
	Notification *Notification
	Sending      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
