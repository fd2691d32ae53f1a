package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"job-portal/internal/domain"
	"job-portal/internal/repository"
)

const (
	defaultJobPageSize = 50
	maxJobPageSize     = 100
)

// JobService cubre el CRUD de ofertas.
type JobService struct {
	logger *zap.Logger
	jobs   repository.JobRepository
	now    func() time.Time
}

func NewJobService(logger *zap.Logger, jobs repository.JobRepository) *JobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobService{
		logger: logger,
		jobs:   jobs,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type JobInput struct {
	Title       string
	Company     string
	Location    string
	Type        string
	Description string
}

// JobPatch solo modifica los campos no nulos.
type JobPatch struct {
	Title       *string
	Company     *string
	Location    *string
	Type        *string
	Description *string
}

func (s *JobService) Create(ctx context.Context, postedBy string, input JobInput) (domain.Job, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Job{}, invalid("title", "is required")
	}
	jobType, ok := domain.ParseJobType(input.Type)
	if !ok {
		return domain.Job{}, invalid("type", "must be one of full-time, part-time, internship")
	}

	now := s.now()
	job := domain.Job{
		ID:          uuid.NewString(),
		Title:       title,
		Company:     strings.TrimSpace(input.Company),
		Location:    strings.TrimSpace(input.Location),
		Type:        jobType,
		Description: strings.TrimSpace(input.Description),
		PostedBy:    postedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return domain.Job{}, err
	}
	s.logger.Info("job created", zap.String("job_id", job.ID), zap.String("posted_by", postedBy))
	return job, nil
}

func (s *JobService) Get(ctx context.Context, id string) (domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Job{}, ErrJobNotFound
		}
		return domain.Job{}, err
	}
	return job, nil
}

func (s *JobService) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, invalid("type", "must be one of full-time, part-time, internship")
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultJobPageSize
	}
	if filter.Limit > maxJobPageSize {
		filter.Limit = maxJobPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.jobs.List(ctx, filter)
}

func (s *JobService) Update(ctx context.Context, id string, patch JobPatch) (domain.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return domain.Job{}, invalid("title", "is required")
		}
		job.Title = title
	}
	if patch.Company != nil {
		job.Company = strings.TrimSpace(*patch.Company)
	}
	if patch.Location != nil {
		job.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Type != nil {
		jobType, ok := domain.ParseJobType(*patch.Type)
		if !ok {
			return domain.Job{}, invalid("type", "must be one of full-time, part-time, internship")
		}
		job.Type = jobType
	}
	if patch.Description != nil {
		job.Description = strings.TrimSpace(*patch.Description)
	}
	job.UpdatedAt = s.now()

	updated, err := s.jobs.Update(ctx, job)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Job{}, ErrJobNotFound
		}
		return domain.Job{}, err
	}
	return updated, nil
}

func (s *JobService) Delete(ctx context.Context, id string) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrJobNotFound
		}
		return err
	}
	s.logger.Info("job deleted", zap.String("job_id", id))
	return nil
}
