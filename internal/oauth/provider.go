package oauth

import (
	"context"
	"errors"
)

var (
	ErrExchange         = errors.New("oauth code exchange failed")
	ErrUserInfo         = errors.New("oauth userinfo request failed")
	ErrEmailNotVerified = errors.New("oauth email not verified")
)

// Profile es la identidad que devuelve el proveedor tras el intercambio.
type Profile struct {
	Subject       string
	Email         string
	Name          string
	EmailVerified bool
}

// Provider define la interfaz de un proveedor OAuth2 de login.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (Profile, error)
}
