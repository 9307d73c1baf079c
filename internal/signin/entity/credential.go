package entity

// Credentials is what the visitor types on the first step. It is never stored
// beyond the lifetime of the flow; only the email is kept so it can be edited
// after going back from the code step.
type Credentials struct {
	Email    string `validate:"required,loginemail"`
	Password string `validate:"required,min=5,hasupper,hasdigit,hassymbol"`
}

// ValidationResult maps a field name to its error message. Empty means valid.
type ValidationResult map[string]string

// Valid reports whether no field has an error.
func (v ValidationResult) Valid() bool {
	return len(v) == 0
}

// Clone returns an independent copy (nil stays nil).
func (v ValidationResult) Clone() ValidationResult {
	if v == nil {
		return nil
	}

	out := make(ValidationResult, len(v))
	for k, msg := range v {
		out[k] = msg
	}

	return out
}
