package http

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"log/slog"

	calendar "google.golang.org/api/calendar/v3"

	"wellspring/internal/auth"
	"wellspring/internal/config"
	"wellspring/internal/events"
	"wellspring/internal/fitness"
	"wellspring/internal/google"
	"wellspring/internal/integrations"
	"wellspring/internal/profiles"
	"wellspring/internal/tasks"
)

type stubAuthenticator struct {
	claims *auth.GoogleClaims
}

func (s *stubAuthenticator) AuthURL(state string) string {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state
}

func (s *stubAuthenticator) Exchange(_ context.Context, code string) (*auth.GoogleClaims, error) {
	return s.claims, nil
}

type stubExchanger struct {
	token      google.Token
	refreshErr error
}

func (s *stubExchanger) AuthCodeURL(state string, calendarSync, fitnessSync bool) (string, error) {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state, nil
}

func (s *stubExchanger) ExchangeCode(_ context.Context, code string) (google.Token, error) {
	return s.token, nil
}

func (s *stubExchanger) Refresh(_ context.Context, refreshToken string) (google.Token, error) {
	if s.refreshErr != nil {
		return google.Token{}, s.refreshErr
	}
	return google.Token{AccessToken: "access"}, nil
}

type stubFetcher struct {
	events []*calendar.Event
	err    error
}

func (s *stubFetcher) FetchEvents(_ context.Context, accessToken string, from, to time.Time) ([]*calendar.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

type testEnv struct {
	router       http.Handler
	authService  *auth.Service
	eventRepo    *events.InMemoryRepository
	integrations *integrations.InMemoryRepository
}

func newTestEnv(t *testing.T, exchanger *stubExchanger, fetcher *stubFetcher) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		Environment:    "development",
		AllowedOrigins: []string{"*"},
		FrontendURL:    "http://localhost:5173",
	}

	authRepo := auth.NewInMemoryRepository()
	authService := auth.NewService(authRepo, 24*time.Hour)

	eventRepo := events.NewInMemoryRepository()
	integrationRepo := integrations.NewInMemoryRepository()
	if exchanger == nil {
		exchanger = &stubExchanger{token: google.Token{AccessToken: "access", RefreshToken: "refresh"}}
	}
	if fetcher == nil {
		fetcher = &stubFetcher{}
	}

	svcs := Services{
		Auth:   authService,
		Google: &stubAuthenticator{claims: &auth.GoogleClaims{Sub: "sub", Email: "u@example.com", EmailVerified: true, Name: "Test User"}},
		Integrations: integrations.NewService(
			integrationRepo, exchanger, fetcher,
			integrations.NewReconciler(eventRepo), logger),
		Events:   events.NewService(eventRepo),
		Tasks:    tasks.NewService(tasks.NewInMemoryRepository()),
		Fitness:  fitness.NewService(fitness.NewInMemoryRepository()),
		Profiles: profiles.NewService(profiles.NewInMemoryRepository()),
	}

	return &testEnv{
		router:       NewRouter(cfg, svcs, logger),
		authService:  authService,
		eventRepo:    eventRepo,
		integrations: integrationRepo,
	}
}

// loginTestUser creates an account with an active session and returns the
// user plus the raw session token.
func (e *testEnv) loginTestUser(t *testing.T) (*auth.User, string) {
	t.Helper()

	ctx := context.Background()
	user, err := e.authService.CreateOrUpdateUser(ctx, &auth.GoogleClaims{
		Sub:           "sub-" + t.Name(),
		Email:         "user@example.com",
		EmailVerified: true,
		Name:          "Test User",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := e.authService.CreateSession(ctx, user.ID, "go-test", "127.0.0.1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return user, token
}

func withSession(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	return req
}
