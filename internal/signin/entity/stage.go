package entity

// Stage is a named mode of a sign-in flow; it decides which operations are valid.
type Stage int8

const (
	// StageUnknown is the zero value and never assigned to a live flow.
	StageUnknown Stage = 0

	// StageCredentials mean the flow waits for email and password.
	StageCredentials Stage = 1

	// StageOTPPending mean a code was sent and the flow waits for it.
	StageOTPPending Stage = 2

	// StageAuthenticated mean the code was accepted. Terminal.
	StageAuthenticated Stage = 3
)

func (s Stage) String() string {
	switch s {
	case StageCredentials:
		return "credentials"
	case StageOTPPending:
		return "otpPending"
	case StageAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// MarshalText renders the stage name in JSON payloads.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsTerminal reports whether no further transition is possible.
func (s Stage) IsTerminal() bool {
	return s == StageAuthenticated
}
