package users

import "time"

// Credential is a persisted user identity record. The bcrypt hash is
// serialized under "password" to keep the on-disk document compatible with
// earlier deployments. Credentials are created once at registration and are
// never mutated or deleted.
type Credential struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"`
	CreatedAt    time.Time `json:"createdAt"`
}
