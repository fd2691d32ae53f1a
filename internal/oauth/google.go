package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleProvider implementa Provider con el flujo authorization code de Google.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
	client      *http.Client
}

func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "profile", "email"},
		},
		userInfoURL: googleUserInfoURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// Exchange canjea el code y pide el perfil. Solo acepta emails verificados.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (Profile, error) {
	if strings.TrimSpace(code) == "" {
		return Profile{}, fmt.Errorf("%w: missing code", ErrExchange)
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: create request: %v", ErrUserInfo, err)
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Profile{}, fmt.Errorf("%w: read response: %v", ErrUserInfo, err)
	}
	if resp.StatusCode >= 400 {
		return Profile{}, fmt.Errorf("%w: status %d", ErrUserInfo, resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return Profile{}, fmt.Errorf("%w: decode: %v", ErrUserInfo, err)
	}
	if info.Sub == "" || info.Email == "" {
		return Profile{}, fmt.Errorf("%w: incomplete profile", ErrUserInfo)
	}
	if !info.EmailVerified {
		return Profile{}, ErrEmailNotVerified
	}
	return Profile{
		Subject:       info.Sub,
		Email:         info.Email,
		Name:          info.Name,
		EmailVerified: info.EmailVerified,
	}, nil
}
