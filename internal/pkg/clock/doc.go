// Package clock provides a tiny time abstraction.
//
// Production code should depend on the Clocker interface instead of calling
// time.Now() or time.AfterFunc() directly. Business logic that schedules work
// (countdowns, expiry sweeps) can then be driven by the fake clock in the
// clocktest package, which fires due callbacks deterministically.
package clock
