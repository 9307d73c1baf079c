package event

import "time"

const AuthenticatedDestination string = "signin.authenticated"
const AuthenticatedConsumerCourier string = "signin.authenticated.courier"

type AuthenticatedMessage struct {
	FlowID          string    `json:"flow_id"`
	Email           string    `json:"email"`
	AuthenticatedAt time.Time `json:"authenticated_at"`
}
