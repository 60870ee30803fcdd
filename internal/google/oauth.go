package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

// Scopes requested on the consent screen. Identity scopes are always present;
// calendar and fitness scopes are added only when the user asked for that sync.
const (
	scopeEmail           = "https://www.googleapis.com/auth/userinfo.email"
	scopeProfile         = "https://www.googleapis.com/auth/userinfo.profile"
	scopeCalendar        = "https://www.googleapis.com/auth/calendar"
	scopeFitnessActivity = "https://www.googleapis.com/auth/fitness.activity.read"
	scopeFitnessBody     = "https://www.googleapis.com/auth/fitness.body.read"
)

// ErrNotConfigured is returned when the Google client credentials are missing.
// It fires before any network call is made.
var ErrNotConfigured = errors.New("google client is not configured")

// ErrReauthorizationRequired is returned when a stored refresh token is no
// longer accepted by the provider and the user must re-consent.
var ErrReauthorizationRequired = errors.New("google re-authorization required")

// ExchangeError carries the provider's error code and description from a
// failed token-endpoint call.
type ExchangeError struct {
	Code        string
	Description string
}

func (e *ExchangeError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("google token exchange failed: %s (%s)", e.Code, e.Description)
	}
	return fmt.Sprintf("google token exchange failed: %s", e.Code)
}

// Token is the subset of the provider's token response the sync flow needs.
// RefreshToken is only present on first consent (or forced re-consent).
type Token struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// LinkConfig performs the OAuth2 grants used to link a Google account for
// offline calendar/fitness access. It is distinct from the sign-in flow in
// internal/auth: linking always requests offline access and forced consent so
// a refresh token is issued.
type LinkConfig struct {
	clientID     string
	clientSecret string
	redirectURL  string
	endpoint     oauth2.Endpoint
	client       *http.Client
}

// LinkOption configures a LinkConfig during construction.
type LinkOption func(*LinkConfig)

// WithEndpoint overrides the provider endpoints, used by tests.
func WithEndpoint(endpoint oauth2.Endpoint) LinkOption {
	return func(c *LinkConfig) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets the HTTP client used for token-endpoint calls.
func WithHTTPClient(client *http.Client) LinkOption {
	return func(c *LinkConfig) {
		c.client = client
	}
}

// NewLinkConfig constructs a LinkConfig. Empty credentials are tolerated here;
// every operation fails fast with ErrNotConfigured until they are set.
func NewLinkConfig(clientID, clientSecret, redirectURL string, opts ...LinkOption) *LinkConfig {
	cfg := &LinkConfig{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		endpoint:     googleoauth.Endpoint,
		client:       &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *LinkConfig) configured() bool {
	return c.clientID != "" && c.clientSecret != "" && c.redirectURL != ""
}

func (c *LinkConfig) oauthConfig(scopes []string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURL:  c.redirectURL,
		Endpoint:     c.endpoint,
		Scopes:       scopes,
	}
}

func (c *LinkConfig) httpContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.client)
}

// AuthCodeURL builds the consent-screen URL with the minimal scope set for the
// requested syncs, offline access, and the given opaque state.
func (c *LinkConfig) AuthCodeURL(state string, calendar, fitness bool) (string, error) {
	if !c.configured() {
		return "", ErrNotConfigured
	}

	scopes := []string{scopeEmail, scopeProfile}
	if fitness {
		scopes = append(scopes, scopeFitnessActivity, scopeFitnessBody)
	}
	if calendar {
		scopes = append(scopes, scopeCalendar)
	}

	return c.oauthConfig(scopes).AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

// ExchangeCode performs the authorization-code grant. Authorization codes are
// single use, so failures are never retried.
func (c *LinkConfig) ExchangeCode(ctx context.Context, code string) (Token, error) {
	if !c.configured() {
		return Token{}, ErrNotConfigured
	}

	tok, err := c.oauthConfig(nil).Exchange(c.httpContext(ctx), code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return Token{}, &ExchangeError{
				Code:        retrieveErr.ErrorCode,
				Description: retrieveErr.ErrorDescription,
			}
		}
		return Token{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	return Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, nil
}

// Refresh performs the refresh-token grant and returns a fresh access token.
// A provider rejection (revoked or expired refresh token) surfaces as
// ErrReauthorizationRequired so callers re-run the consent flow instead of
// retrying blindly.
func (c *LinkConfig) Refresh(ctx context.Context, refreshToken string) (Token, error) {
	if !c.configured() {
		return Token{}, ErrNotConfigured
	}
	if refreshToken == "" {
		return Token{}, fmt.Errorf("refresh: %w", ErrReauthorizationRequired)
	}

	source := c.oauthConfig(nil).TokenSource(c.httpContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return Token{}, fmt.Errorf("refresh rejected (%s): %w", retrieveErr.ErrorCode, ErrReauthorizationRequired)
		}
		return Token{}, fmt.Errorf("refresh access token: %w", err)
	}

	return Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, nil
}
