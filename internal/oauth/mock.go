package oauth

import (
	"context"
	"net/url"
)

// MockProvider permite tests sin llamar a Google.
type MockProvider struct {
	AuthURL string
	Profile Profile
	Err     error
	Codes   []string
}

func (m *MockProvider) AuthCodeURL(state string) string {
	base := m.AuthURL
	if base == "" {
		base = "https://accounts.example.com/auth"
	}
	return base + "?state=" + url.QueryEscape(state)
}

func (m *MockProvider) Exchange(_ context.Context, code string) (Profile, error) {
	m.Codes = append(m.Codes, code)
	if m.Err != nil {
		return Profile{}, m.Err
	}
	return m.Profile, nil
}
