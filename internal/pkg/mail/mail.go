package mail

import (
	"context"
	"io"
)

// Message is a single e-mail. HTMLBody wins over TextBody when both are set
// and the SMTP backend sends them as multipart/alternative.
type Message struct {
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Recipients returns every envelope recipient in To, Cc, Bcc order.
func (m Message) Recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	out = append(out, m.To...)
	out = append(out, m.Cc...)
	return append(out, m.Bcc...)
}

// Mail delivers messages. Send must honour ctx cancellation while dialing.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
