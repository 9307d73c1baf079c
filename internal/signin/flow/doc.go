// Package flow implements the sign-in state machine of a single visitor.
//
// A Flow moves from StageCredentials to StageOTPPending once the credentials
// pass validation and a code was handed to the Sender, and from there to the
// terminal StageAuthenticated once the Checker accepts the code. While in
// StageOTPPending a one-second countdown gates the resend action.
//
// All operations of one Flow are serialised by its mutex. The Sender is called
// without holding the lock so a slow delivery never blocks readers; a sending
// flag rejects a second submit or resend in the meantime. Observers receive
// events after the lock is released, one call at a time and in Seq order.
package flow
