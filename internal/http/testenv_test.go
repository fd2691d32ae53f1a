package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"job-portal/internal/domain"
	"job-portal/internal/oauth"
	"job-portal/internal/repository"
	"job-portal/internal/service"
)

const testClientURL = "http://localhost:5173"

type testEnv struct {
	router   *gin.Engine
	users    *repository.MemoryUserRepository
	userServ *service.UserService
	jwtServ  *service.JWTService
	provider *oauth.MockProvider
	states   service.OAuthStateStore
}

func newTestEnv(t *testing.T, withGoogle bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	users := repository.NewMemoryUserRepository()
	userServ := service.NewUserService(logger, users, nil, bcrypt.MinCost)
	jobServ := service.NewJobService(logger, repository.NewMemoryJobRepository())
	jwtServ, err := service.NewJWTService("secret", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("jwt service: %v", err)
	}

	env := &testEnv{
		users:    users,
		userServ: userServ,
		jwtServ:  jwtServ,
	}

	authH := NewAuthHandler(logger, userServ, jwtServ, CookieConfig{MaxAge: jwtServ.TTL()}, testClientURL+"/")
	if withGoogle {
		env.provider = &oauth.MockProvider{}
		env.states = service.NewMemoryOAuthStateStore(time.Minute)
		authH.WithGoogle(env.provider, env.states, time.Minute)
	}

	env.router = NewRouter(
		logger,
		RouterConfig{ClientURL: testClientURL},
		AuthMiddleware(logger, jwtServ, userServ),
		authH,
		NewUserHandler(logger, userServ),
		NewJobHandler(logger, jobServ),
	)
	return env
}

// seedUser crea un usuario con el rol dado y devuelve su token.
func (e *testEnv) seedUser(t *testing.T, name, email string, role domain.Role) (domain.User, string) {
	t.Helper()
	user, err := e.userServ.Register(context.Background(), service.RegisterInput{
		Name:     name,
		Email:    email,
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	if role != user.Role {
		user, err = e.userServ.UpdateRole(context.Background(), user.ID, role.String())
		if err != nil {
			t.Fatalf("update role: %v", err)
		}
	}
	token, err := e.jwtServ.IssueForUser(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return user, token
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
