package uid

import "github.com/google/uuid"

// UUID generates time-ordered version 7 UUIDs, used for flow, token and
// correlation ids.
type UUID struct {
	newV7 func() (uuid.UUID, error)
}

func NewUUID() *UUID {
	return &UUID{newV7: uuid.NewV7}
}

// Generate falls back to a random version 4 UUID when the v7 clock source
// fails.
func (u *UUID) Generate() string {
	if id, err := u.newV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
