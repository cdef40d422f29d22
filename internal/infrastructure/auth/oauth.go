package auth

import (
	"errors"
	"strings"

	"golang.org/x/oauth2"

	"github.com/natjungquist/c1-wxautomator-backend/internal/config"
)

// Webex OAuth endpoints.
const (
	authURL  = "https://webexapis.com/v1/authorize"
	tokenURL = "https://webexapis.com/v1/access_token"
)

// NewOAuthConfig builds the authorization-code flow configuration for Webex.
func NewOAuthConfig(cfg config.OAuthConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.CallbackURL,
		Scopes:       cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}
}

// OrgIDFromCode extracts the organization id embedded in a Webex
// authorization code. The code is three underscore-separated segments with
// the org id last.
func OrgIDFromCode(code string) (string, error) {
	parts := strings.Split(code, "_")
	if len(parts) < 3 || parts[2] == "" {
		return "", errors.New("authorization code does not carry an organization id")
	}
	return parts[2], nil
}
