package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"job-portal/internal/domain"
)

// MemoryUserRepository es una implementacion en memoria con las mismas
// restricciones de unicidad que la tabla users.
type MemoryUserRepository struct {
	mu    sync.Mutex
	byID  map[string]domain.User
	email map[string]string
	oauth map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:  make(map[string]domain.User),
		email: make(map[string]string),
		oauth: make(map[string]string),
	}
}

func (m *MemoryUserRepository) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(user)
}

func (m *MemoryUserRepository) insertLocked(user domain.User) error {
	if _, ok := m.email[user.Email]; ok {
		return &ConstraintError{Constraint: ConstraintUsersEmail}
	}
	if user.OAuthID != "" {
		if _, ok := m.oauth[user.OAuthID]; ok {
			return &ConstraintError{Constraint: ConstraintUsersOAuthID}
		}
		m.oauth[user.OAuthID] = user.ID
	}
	m.byID[user.ID] = user
	m.email[user.Email] = user.ID
	return nil
}

func (m *MemoryUserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	u.PasswordHash = ""
	return u, nil
}

func (m *MemoryUserRepository) GetByIDWithPassword(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := m.GetByEmailWithPassword(ctx, email)
	u.PasswordHash = ""
	return u, err
}

func (m *MemoryUserRepository) GetByEmailWithPassword(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.email[email]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return m.byID[id], nil
}

func (m *MemoryUserRepository) GetByOAuthID(_ context.Context, oauthID string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.oauth[oauthID]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	u := m.byID[id]
	u.PasswordHash = ""
	return u, nil
}

func (m *MemoryUserRepository) FindOrCreateByOAuthID(_ context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.oauth[user.OAuthID]; ok {
		u := m.byID[id]
		u.PasswordHash = ""
		return u, nil
	}
	if err := m.insertLocked(user); err != nil {
		return domain.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (m *MemoryUserRepository) LinkOAuthByEmail(_ context.Context, email, oauthID string, now time.Time) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.email[email]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	u := m.byID[id]
	if u.OAuthID != "" && u.OAuthID != oauthID {
		return domain.User{}, ErrNotFound
	}
	u.OAuthID = oauthID
	u.UpdatedAt = now
	m.byID[id] = u
	m.oauth[oauthID] = id
	u.PasswordHash = ""
	return u, nil
}

func (m *MemoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]domain.User, 0, len(m.byID))
	for _, u := range m.byID {
		u.PasswordHash = ""
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (m *MemoryUserRepository) UpdateRole(_ context.Context, id string, role domain.Role, now time.Time) (domain.User, error) {
	return m.update(id, func(u *domain.User) {
		u.Role = role
		u.UpdatedAt = now
	})
}

func (m *MemoryUserRepository) UpdateProfile(_ context.Context, id, name string, now time.Time) (domain.User, error) {
	return m.update(id, func(u *domain.User) {
		u.Name = name
		u.UpdatedAt = now
	})
}

func (m *MemoryUserRepository) UpdatePassword(_ context.Context, id, passwordHash string, now time.Time) error {
	_, err := m.update(id, func(u *domain.User) {
		u.PasswordHash = passwordHash
		u.UpdatedAt = now
	})
	return err
}

func (m *MemoryUserRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	delete(m.email, u.Email)
	if u.OAuthID != "" {
		delete(m.oauth, u.OAuthID)
	}
	return nil
}

func (m *MemoryUserRepository) update(id string, fn func(*domain.User)) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	fn(&u)
	m.byID[id] = u
	u.PasswordHash = ""
	return u, nil
}

// MemoryJobRepository guarda ofertas en memoria.
type MemoryJobRepository struct {
	mu   sync.Mutex
	jobs map[string]domain.Job
}

func NewMemoryJobRepository() *MemoryJobRepository {
	return &MemoryJobRepository{jobs: make(map[string]domain.Job)}
}

func (m *MemoryJobRepository) Create(_ context.Context, job domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; ok {
		return &ConstraintError{Constraint: "jobs_pkey"}
	}
	m.jobs[job.ID] = job
	return nil
}

func (m *MemoryJobRepository) GetByID(_ context.Context, id string) (domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return domain.Job{}, ErrNotFound
	}
	return job, nil
}

func (m *MemoryJobRepository) List(_ context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	jobs := make([]domain.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if filter.Type != "" && job.Type != filter.Type {
			continue
		}
		if filter.PostedBy != "" && job.PostedBy != filter.PostedBy {
			continue
		}
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(jobs) {
			return []domain.Job{}, nil
		}
		jobs = jobs[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(jobs) {
		jobs = jobs[:filter.Limit]
	}
	return jobs, nil
}

func (m *MemoryJobRepository) Update(_ context.Context, job domain.Job) (domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.jobs[job.ID]
	if !ok {
		return domain.Job{}, ErrNotFound
	}
	job.PostedBy = existing.PostedBy
	job.CreatedAt = existing.CreatedAt
	m.jobs[job.ID] = job
	return job, nil
}

func (m *MemoryJobRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(m.jobs, id)
	return nil
}

var (
	_ UserRepository = (*MemoryUserRepository)(nil)
	_ UserRepository = (*PgUserRepository)(nil)
	_ JobRepository  = (*MemoryJobRepository)(nil)
	_ JobRepository  = (*PgJobRepository)(nil)
)
