package domain

import (
	"strings"
	"time"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeInternship JobType = "internship"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeInternship:
		return true
	}
	return false
}

// ParseJobType devuelve full-time para valores vacios.
func ParseJobType(s string) (JobType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return JobTypeFullTime, true
	}
	t := JobType(s)
	return t, t.Valid()
}

type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company,omitempty"`
	Location    string    `json:"location,omitempty"`
	Type        JobType   `json:"type"`
	Description string    `json:"description,omitempty"`
	PostedBy    string    `json:"posted_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobFilter acota los listados de ofertas.
type JobFilter struct {
	Type     JobType
	PostedBy string
	Limit    int
	Offset   int
}
