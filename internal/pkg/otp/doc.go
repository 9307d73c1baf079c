// Package otp wraps github.com/pquerna/otp for time-based one-time codes.
//
// Sign-in derives a per-address secret and uses this package to issue and
// check the six digit code, so no code is stored between the two steps.
package otp
