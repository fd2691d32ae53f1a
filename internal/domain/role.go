package domain

import "strings"

// Role define el nivel de acceso de un usuario.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleRecruiter Role = "recruiter"
	RoleCandidate Role = "candidate"
)

// DefaultRole se asigna a cuentas nuevas sin rol explicito.
const DefaultRole = RoleCandidate

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleRecruiter, RoleCandidate:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole normaliza y valida un rol recibido como texto.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}
