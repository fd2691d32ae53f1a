package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"job-portal/internal/domain"
)

// JobRepository define el contrato de persistencia para ofertas.
type JobRepository interface {
	Create(ctx context.Context, job domain.Job) error
	GetByID(ctx context.Context, id string) (domain.Job, error)
	List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
	Update(ctx context.Context, job domain.Job) (domain.Job, error)
	Delete(ctx context.Context, id string) error
}

const jobColumns = `id, title, company, location, type, description, COALESCE(posted_by, ''), created_at, updated_at`

type PgJobRepository struct {
	pool DBTX
}

func NewPgJobRepository(pool DBTX) *PgJobRepository {
	return &PgJobRepository{pool: pool}
}

func (r *PgJobRepository) Create(ctx context.Context, job domain.Job) error {
	const query = `
		INSERT INTO jobs (id, title, company, location, type, description, posted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		string(job.Type),
		job.Description,
		nullable(job.PostedBy),
		job.CreatedAt,
		job.UpdatedAt,
	)
	return translateErr(err)
}

func (r *PgJobRepository) GetByID(ctx context.Context, id string) (domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return scanJob(r.pool.QueryRow(ctx, query, id))
}

func (r *PgJobRepository) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	var (
		where []string
		args  []any
	)
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.PostedBy != "" {
		args = append(args, filter.PostedBy)
		where = append(where, fmt.Sprintf("posted_by = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + jobColumns + ` FROM jobs`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *PgJobRepository) Update(ctx context.Context, job domain.Job) (domain.Job, error) {
	query := `
		UPDATE jobs
		SET title = $2, company = $3, location = $4, type = $5, description = $6, updated_at = $7
		WHERE id = $1
		RETURNING ` + jobColumns
	row := r.pool.QueryRow(ctx, query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		string(job.Type),
		job.Description,
		job.UpdatedAt,
	)
	return scanJob(row)
}

func (r *PgJobRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM jobs WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (domain.Job, error) {
	var (
		job     domain.Job
		jobType string
	)
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&job.Location,
		&jobType,
		&job.Description,
		&job.PostedBy,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return domain.Job{}, translateErr(err)
	}
	job.Type = domain.JobType(jobType)
	return job, nil
}
