// Package mail sends email through a provider-agnostic Message.
//
// SMTP is the only provider. Modules that can run without a mail server take
// a nil Mail and fall back to logging.
package mail
