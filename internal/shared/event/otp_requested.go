package event

import "time"

const OTPRequestedDestination string = "signin.otp_requested"
const OTPRequestedConsumerCourier string = "signin.otp_requested.courier"

type OTPRequestedMessage struct {
	FlowID      string    `json:"flow_id"`
	Email       string    `json:"email"`
	Code        string    `json:"code"`
	Resend      bool      `json:"resend"`
	RequestedAt time.Time `json:"requested_at"`
}
