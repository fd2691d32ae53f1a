package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"job-portal/internal/domain"
)

const jwtIssuer = "job-portal"

// JWTService emite y valida tokens JWT autocontenidos.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type Claims struct {
	UserID string      `json:"id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

var (
	ErrJWTSecretMissing = errors.New("jwt secret not configured")
	ErrJWTInvalid       = errors.New("jwt invalid")
	ErrJWTExpired       = fmt.Errorf("%w: expired", ErrJWTInvalid)
)

// NewJWTService falla si secret esta vacio para que el arranque aborte.
func NewJWTService(secret string, ttl time.Duration) (*JWTService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrJWTSecretMissing
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: jwtIssuer,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// TTL es la vigencia por defecto de los tokens emitidos.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// IssueForUser emite un token con la vigencia por defecto.
func (s *JWTService) IssueForUser(user domain.User) (string, error) {
	return s.Issue(Claims{UserID: user.ID, Role: user.Role}, s.ttl)
}

// Issue firma claims con expiracion absoluta now+ttl.
func (s *JWTService) Issue(claims Claims, ttl time.Duration) (string, error) {
	if strings.TrimSpace(claims.UserID) == "" || !claims.Role.Valid() {
		return "", ErrJWTInvalid
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) Verify(tokenString string) (Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrJWTInvalid
	}
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrJWTExpired
		}
		return Claims{}, ErrJWTInvalid
	}
	if !s.isValidClaims(claims) {
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	if claims.Subject != claims.UserID {
		return false
	}
	return claims.Role.Valid()
}
