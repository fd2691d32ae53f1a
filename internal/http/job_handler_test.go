package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobHandler_RoleGates(t *testing.T) {
	env := newTestEnv(t, false)
	_, candidateToken := env.seedUser(t, "Ann", "ann@x.com", "candidate")
	recruiter, recruiterToken := env.seedUser(t, "Rita", "rita@x.com", "recruiter")
	_, adminToken := env.seedUser(t, "Root", "root@x.com", "admin")

	payload := map[string]string{"title": "Go Developer", "company": "Acme", "type": "internship"}

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/jobs", payload, "").Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/jobs", payload, candidateToken).Code)

	rec := env.do(http.MethodPost, "/api/jobs", payload, recruiterToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	job := decodeBody(t, rec)["job"].(map[string]any)
	assert.Equal(t, recruiter.ID, job["posted_by"])
	jobID := job["id"].(string)

	update := map[string]string{"title": "Senior Go Developer"}
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPatch, "/api/jobs/"+jobID, update, recruiterToken).Code)

	rec = env.do(http.MethodPatch, "/api/jobs/"+jobID, update, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Senior Go Developer", decodeBody(t, rec)["job"].(map[string]any)["title"])

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodDelete, "/api/jobs/"+jobID, nil, recruiterToken).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/api/jobs/"+jobID, nil, adminToken).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/jobs/"+jobID, nil, "").Code)
}

func TestJobHandler_PublicListing(t *testing.T) {
	env := newTestEnv(t, false)
	_, recruiterToken := env.seedUser(t, "Rita", "rita@x.com", "recruiter")

	for _, typ := range []string{"full-time", "internship", "internship"} {
		rec := env.do(http.MethodPost, "/api/jobs", map[string]string{"title": "Job", "type": typ}, recruiterToken)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(http.MethodGet, "/api/jobs", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["jobs"].([]any), 3)

	rec = env.do(http.MethodGet, "/api/jobs?type=internship&limit=1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["jobs"].([]any), 1)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/jobs?type=remote", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/jobs?limit=abc", nil, "").Code)
}

func TestJobHandler_CreateValidation(t *testing.T) {
	env := newTestEnv(t, false)
	_, recruiterToken := env.seedUser(t, "Rita", "rita@x.com", "recruiter")

	rec := env.do(http.MethodPost, "/api/jobs", map[string]string{"company": "Acme"}, recruiterToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title: is required", decodeBody(t, rec)["error"])
}
