package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-portal/internal/oauth"
)

func TestAuthFlow_RegisterLoginMe(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
	assert.NotContains(t, rec.Body.String(), "password")

	cookie := findCookie(rec, tokenCookieName)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)
	assert.Equal(t, body["token"], cookie.Value)

	rec = env.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ann@x.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "candidate", user["role"])
	token := body["token"].(string)

	rec = env.do(http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "ann@x.com", me["email"])
	assert.Equal(t, "Ann", me["name"])
	assert.NotContains(t, me, "password")
	assert.NotContains(t, me, "password_hash")
}

func TestAuthRegister_Errors(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedUser(t, "Ann", "ann@x.com", "candidate")

	cases := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"duplicate email", map[string]string{"name": "Ann", "email": "ANN@x.com", "password": "secret1"}, http.StatusConflict},
		{"missing fields", map[string]string{"email": "bob@x.com"}, http.StatusBadRequest},
		{"short password", map[string]string{"name": "Bob", "email": "bob@x.com", "password": "123"}, http.StatusBadRequest},
		{"admin self-assigned", map[string]string{"name": "Bob", "email": "bob@x.com", "password": "secret1", "role": "admin"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/auth/register", tc.body, "")
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeBody(t, rec)["error"])
			assert.Nil(t, findCookie(rec, tokenCookieName))
		})
	}
}

func TestAuthRegister_MalformedJSON(t *testing.T) {
	env := newTestEnv(t, false)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedUser(t, "Ann", "ann@x.com", "candidate")

	rec := env.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@x.com", "password": "nope-nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decodeBody(t, rec)["error"])

	rec = env.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@x.com"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(http.MethodPost, "/api/auth/logout", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(rec, tokenCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "", cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestAuthUpdateMeAndChangePassword(t *testing.T) {
	env := newTestEnv(t, false)
	_, token := env.seedUser(t, "Ann", "ann@x.com", "candidate")

	rec := env.do(http.MethodPatch, "/api/auth/me", map[string]string{"name": "Ann Lee"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Ann Lee", decodeBody(t, rec)["user"].(map[string]any)["name"])

	rec = env.do(http.MethodPost, "/api/auth/password", map[string]string{
		"current_password": "wrong", "new_password": "newsecret",
	}, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/password", map[string]string{
		"current_password": "secret1", "new_password": "newsecret",
	}, token)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@x.com", "password": "newsecret"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func startGoogle(t *testing.T, env *testEnv) (string, *http.Cookie) {
	t.Helper()
	rec := env.do(http.MethodGet, "/api/auth/google", nil, "")
	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	cookie := findCookie(rec, stateCookieName)
	require.NotNil(t, cookie)
	require.Equal(t, state, cookie.Value)
	return state, cookie
}

func googleCallback(env *testEnv, state string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc&state="+url.QueryEscape(state), nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestGoogleCallback_Success(t *testing.T) {
	env := newTestEnv(t, true)
	env.provider.Profile = oauth.Profile{Subject: "g-1", Email: "new@x.com", Name: "New User", EmailVerified: true}

	state, cookie := startGoogle(t, env)
	rec := googleCallback(env, state, cookie)
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:5173", loc.Host)
	assert.Equal(t, "/", loc.Path)
	assert.Equal(t, "success", loc.Query().Get("google_login"))
	token := loc.Query().Get("token")
	require.NotEmpty(t, token)
	assert.Equal(t, []string{"abc"}, env.provider.Codes)

	tokenCookie := findCookie(rec, tokenCookieName)
	require.NotNil(t, tokenCookie)
	assert.Equal(t, token, tokenCookie.Value)

	user, err := env.users.GetByOAuthID(context.Background(), "g-1")
	require.NoError(t, err)
	assert.Equal(t, "candidate", user.Role.String())
	assert.False(t, user.HasPassword())

	rec = env.do(http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGoogleCallback_StateReplayRejected(t *testing.T) {
	env := newTestEnv(t, true)
	env.provider.Profile = oauth.Profile{Subject: "g-1", Email: "new@x.com", EmailVerified: true}

	state, cookie := startGoogle(t, env)
	require.Equal(t, http.StatusFound, googleCallback(env, state, cookie).Code)

	rec := googleCallback(env, state, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, testClientURL+"/login?error=not_registered", rec.Header().Get("Location"))
}

func TestGoogleCallback_Failures(t *testing.T) {
	t.Run("missing state cookie", func(t *testing.T) {
		env := newTestEnv(t, true)
		state, _ := startGoogle(t, env)
		rec := googleCallback(env, state, nil)
		assert.Equal(t, testClientURL+"/login?error=not_registered", rec.Header().Get("Location"))
		assert.Empty(t, env.provider.Codes)
	})
	t.Run("exchange error", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.provider.Err = errors.New("boom")
		state, cookie := startGoogle(t, env)
		rec := googleCallback(env, state, cookie)
		assert.Equal(t, testClientURL+"/login?error=not_registered", rec.Header().Get("Location"))
		assert.Nil(t, findCookie(rec, tokenCookieName))
	})
	t.Run("provider denied", func(t *testing.T) {
		env := newTestEnv(t, true)
		req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?error=access_denied", nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, testClientURL+"/login?error=not_registered", rec.Header().Get("Location"))
	})
}

func TestGoogleRoutes_Disabled(t *testing.T) {
	env := newTestEnv(t, false)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/auth/google", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/auth/google/callback", nil, "").Code)
}

func TestAuthRegister_PasswordOverBcryptLimit(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": strings.Repeat("p", 80),
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "password: must be at most 72 bytes", decodeBody(t, rec)["error"])

	_, token := env.seedUser(t, "Bob", "bob@x.com", "candidate")
	rec = env.do(http.MethodPost, "/api/auth/password", map[string]string{
		"current_password": "secret1", "new_password": strings.Repeat("p", 80),
	}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}
