package entity

import "time"

// EventKind tells subscribers what changed in a flow.
type EventKind string

const (
	EventStage        EventKind = "stage"
	EventCooldown     EventKind = "cooldown"
	EventNotification EventKind = "notification"
	EventOTP          EventKind = "otp"
)

// Event is pushed to flow observers after every visible change. Seq grows by
// one per event of a flow, in the order the changes were applied.
type Event struct {
	FlowID          string
	Seq             uint64
	Kind            EventKind
	Stage           Stage
	CooldownSeconds int
	OTPError        string
	Notification    *Notification
	At              time.Time
}
