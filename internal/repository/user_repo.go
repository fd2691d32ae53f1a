package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"job-portal/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
// Solo los metodos WithPassword leen el hash de la contrasena.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByIDWithPassword(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByEmailWithPassword(ctx context.Context, email string) (domain.User, error)
	GetByOAuthID(ctx context.Context, oauthID string) (domain.User, error)
	FindOrCreateByOAuthID(ctx context.Context, user domain.User) (domain.User, error)
	LinkOAuthByEmail(ctx context.Context, email, oauthID string, now time.Time) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role, now time.Time) (domain.User, error)
	UpdateProfile(ctx context.Context, id, name string, now time.Time) (domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) error
	Delete(ctx context.Context, id string) error
}

const (
	userColumns = `id, name, email, COALESCE(oauth_id, ''), role, created_at, updated_at`
	// credentialColumns agrega el hash al final de userColumns.
	credentialColumns = userColumns + `, COALESCE(password_hash, '')`
)

// PgUserRepository implementa UserRepository usando pgx.
type PgUserRepository struct {
	pool DBTX
}

func NewPgUserRepository(pool DBTX) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, name, email, password_hash, oauth_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		nullable(user.PasswordHash),
		nullable(user.OAuthID),
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	return translateErr(err)
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id), false)
}

func (r *PgUserRepository) GetByIDWithPassword(ctx context.Context, id string) (domain.User, error) {
	query := `SELECT ` + credentialColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id), true)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email), false)
}

func (r *PgUserRepository) GetByEmailWithPassword(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT ` + credentialColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email), true)
}

func (r *PgUserRepository) GetByOAuthID(ctx context.Context, oauthID string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE oauth_id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, oauthID), false)
}

// FindOrCreateByOAuthID inserta el usuario o devuelve el existente con el
// mismo oauth_id en una sola sentencia. Un email ya registrado con otra
// identidad devuelve *ConstraintError sobre users_email_key.
func (r *PgUserRepository) FindOrCreateByOAuthID(ctx context.Context, user domain.User) (domain.User, error) {
	query := `
		INSERT INTO users (id, name, email, oauth_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (oauth_id) DO UPDATE SET oauth_id = EXCLUDED.oauth_id
		RETURNING ` + userColumns
	row := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.OAuthID,
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	return scanUser(row, false)
}

// LinkOAuthByEmail vincula oauthID a una cuenta sin identidad externa previa.
func (r *PgUserRepository) LinkOAuthByEmail(ctx context.Context, email, oauthID string, now time.Time) (domain.User, error) {
	query := `
		UPDATE users SET oauth_id = $2, updated_at = $3
		WHERE email = $1 AND (oauth_id IS NULL OR oauth_id = $2)
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, email, oauthID, now), false)
}

func (r *PgUserRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows, false)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) UpdateRole(ctx context.Context, id string, role domain.Role, now time.Time) (domain.User, error) {
	query := `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1 RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id, string(role), now), false)
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, id, name string, now time.Time) (domain.User, error) {
	query := `UPDATE users SET name = $2, updated_at = $3 WHERE id = $1 RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id, name, now), false)
}

func (r *PgUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, passwordHash, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgUserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row, withPassword bool) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	dest := []any{&u.ID, &u.Name, &u.Email, &u.OAuthID, &role, &u.CreatedAt, &u.UpdatedAt}
	if withPassword {
		dest = append(dest, &u.PasswordHash)
	}
	if err := row.Scan(dest...); err != nil {
		return domain.User{}, translateErr(err)
	}
	u.Role = domain.Role(role)
	return u, nil
}
