// Package sender holds the channels that hand a one-time code to a visitor.
package sender

import (
	"context"
)

const (
	ChannelSimulated = "simulated"
	ChannelBroker    = "broker"
	ChannelMail      = "mail"
)

// Issuer produces the code to deliver for an address.
type Issuer interface {
	Issue(ctx context.Context, email string) (string, error)
}
