package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"job-portal/internal/domain"
	"job-portal/internal/repository"
)

// UserService coordina registro, login y administracion de usuarios.
type UserService struct {
	logger     *zap.Logger
	users      repository.UserRepository
	limiter    LoginRateLimiter
	bcryptCost int
	now        func() time.Time
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, limiter LoginRateLimiter, bcryptCost int) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = noopLoginRateLimiter{}
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		logger:     logger,
		users:      users,
		limiter:    limiter,
		bcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register crea una cuenta local. El rol admin no se puede autoasignar.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	name := domain.NormalizeName(input.Name)
	email := domain.NormalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return domain.User{}, invalid("", "all fields are required")
	}
	if !domain.ValidName(name) {
		return domain.User{}, invalid("name", "must be between 2 and 50 characters")
	}
	if !domain.ValidEmail(email) {
		return domain.User{}, invalid("email", "please enter a valid email address")
	}
	if err := checkPassword("password", input.Password); err != nil {
		return domain.User{}, err
	}

	role := domain.DefaultRole
	if strings.TrimSpace(input.Role) != "" {
		parsed, ok := domain.ParseRole(input.Role)
		if !ok {
			return domain.User{}, invalid("role", "unknown role")
		}
		if parsed == domain.RoleAdmin {
			return domain.User{}, invalid("role", "admin role cannot be self-assigned")
		}
		role = parsed
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", role.String()))
	return user.WithoutCredentials(), nil
}

// Authenticate compara la contrasena con el hash almacenado.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	emailAddr = domain.NormalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, invalid("", "all fields are required")
	}
	if !s.limiter.Allow(emailAddr) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmailWithPassword(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if !user.HasPassword() {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	s.limiter.Reset(emailAddr)
	return user.WithoutCredentials(), nil
}

type OAuthInput struct {
	Subject string
	Email   string
	Name    string
}

// LoginWithOAuth resuelve la cuenta local de una identidad externa y la crea
// si no existe. Si el email ya pertenece a una cuenta local sin identidad
// externa, la vincula.
func (s *UserService) LoginWithOAuth(ctx context.Context, input OAuthInput) (domain.User, error) {
	subject := strings.TrimSpace(input.Subject)
	emailAddr := domain.NormalizeEmail(input.Email)
	if subject == "" || !domain.ValidEmail(emailAddr) {
		return domain.User{}, ErrOAuthInvalid
	}

	now := s.now()
	candidate := domain.User{
		ID:        uuid.NewString(),
		Name:      oauthDisplayName(input.Name, emailAddr),
		Email:     emailAddr,
		OAuthID:   subject,
		Role:      domain.DefaultRole,
		CreatedAt: now,
		UpdatedAt: now,
	}

	user, err := s.users.FindOrCreateByOAuthID(ctx, candidate)
	if err == nil {
		return user.WithoutCredentials(), nil
	}

	var cerr *repository.ConstraintError
	if !errors.As(err, &cerr) || cerr.Constraint != repository.ConstraintUsersEmail {
		return domain.User{}, err
	}

	user, err = s.users.LinkOAuthByEmail(ctx, emailAddr, subject, now)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrOAuthConflict
		}
		return domain.User{}, err
	}
	s.logger.Info("oauth identity linked", zap.String("user_id", user.ID))
	return user.WithoutCredentials(), nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user.WithoutCredentials(), nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].WithoutCredentials()
	}
	return users, nil
}

func (s *UserService) UpdateRole(ctx context.Context, id, role string) (domain.User, error) {
	parsed, ok := domain.ParseRole(role)
	if !ok {
		return domain.User{}, invalid("role", "must be one of admin, recruiter, candidate")
	}
	user, err := s.users.UpdateRole(ctx, id, parsed, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	s.logger.Info("user role updated", zap.String("user_id", id), zap.String("role", parsed.String()))
	return user.WithoutCredentials(), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id, name string) (domain.User, error) {
	name = domain.NormalizeName(name)
	if !domain.ValidName(name) {
		return domain.User{}, invalid("name", "must be between 2 and 50 characters")
	}
	user, err := s.users.UpdateProfile(ctx, id, name, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user.WithoutCredentials(), nil
}

// ChangePassword exige la contrasena actual salvo en cuentas solo OAuth,
// que asi obtienen un login local.
func (s *UserService) ChangePassword(ctx context.Context, id, current, next string) error {
	if err := checkPassword("new_password", next); err != nil {
		return err
	}
	user, err := s.users.GetByIDWithPassword(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.HasPassword() {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
			return ErrInvalidCredentials
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, string(hash), s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

// checkPassword aplica las reglas de longitud antes de llamar a bcrypt.
func checkPassword(field, password string) error {
	if domain.PasswordTooLong(password) {
		return invalid(field, fmt.Sprintf("must be at most %d bytes", domain.PasswordMaxBytes))
	}
	if !domain.ValidPassword(password) {
		return invalid(field, "must be at least 6 characters")
	}
	return nil
}

// oauthDisplayName usa la parte local del email si el proveedor no da un
// nombre valido.
func oauthDisplayName(name, emailAddr string) string {
	name = domain.NormalizeName(name)
	if domain.ValidName(name) {
		return name
	}
	name, _, _ = strings.Cut(emailAddr, "@")
	if utf8.RuneCountInString(name) > domain.NameMaxLen {
		name = string([]rune(name)[:domain.NameMaxLen])
	}
	if !domain.ValidName(name) {
		return "user"
	}
	return name
}
