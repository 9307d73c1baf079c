package validator

// Validator validates structs annotated with `validate` tags.
type Validator interface {
	// Validate returns nil when data is valid. Field violations are returned
	// as an error that also exposes Values() map[string]string.
	Validate(data any) error
}
