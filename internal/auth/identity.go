package auth

import (
	"context"

	"job-portal/internal/domain"
)

// Identity es el usuario autenticado de la peticion en curso.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   domain.Role
}

type identityKey struct{}

func FromUser(user domain.User) Identity {
	return Identity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}

// HasRole devuelve true si el rol de la identidad esta en roles.
func (i Identity) HasRole(roles ...domain.Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
