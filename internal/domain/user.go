package domain

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	OAuthID      string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword indica si la cuenta admite login local.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

// HasOAuth indica si la cuenta esta vinculada a un proveedor externo.
func (u User) HasOAuth() bool {
	return u.OAuthID != ""
}

// WithoutCredentials devuelve una copia sin hash ni identificador externo.
func (u User) WithoutCredentials() User {
	u.PasswordHash = ""
	u.OAuthID = ""
	return u
}
