package entity

type TriggerKey string

const (
	TriggerKeyOTPCode       TriggerKey = "otp_code"
	TriggerKeyOTPCodeResend TriggerKey = "otp_code_resend"
	TriggerKeySigninAlert   TriggerKey = "signin_alert"
)

func (t TriggerKey) String() string {
	return string(t)
}

// Template is an e-mail rendered with html/template; Body may reference the
// keys of the data map built by the consumer.
type Template struct {
	TriggerKey TriggerKey
	Subject    string
	Body       string
}
