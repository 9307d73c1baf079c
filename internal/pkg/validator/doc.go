// Package validator checks tagged structs and reports failures as a map of
// snake_case field names to human readable messages. The v10 implementation
// registers the credential rules used by the sign-in form.
package validator
