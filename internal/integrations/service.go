package integrations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	calendar "google.golang.org/api/calendar/v3"

	"wellspring/internal/google"
)

// Sync window bounds relative to the current time.
const (
	syncWindowPastMonths   = 1
	syncWindowFutureMonths = 3
)

// TokenExchanger is the OAuth surface the service depends on.
type TokenExchanger interface {
	AuthCodeURL(state string, calendarSync, fitnessSync bool) (string, error)
	ExchangeCode(ctx context.Context, code string) (google.Token, error)
	Refresh(ctx context.Context, refreshToken string) (google.Token, error)
}

// EventFetcher retrieves calendar events for an access token within a window.
type EventFetcher interface {
	FetchEvents(ctx context.Context, accessToken string, from, to time.Time) ([]*calendar.Event, error)
}

// CallbackResult reports the outcome of an authorization callback. SyncWarning
// carries a sync failure that did not prevent the link from being stored.
type CallbackResult struct {
	Record      *Record
	EventsCount int
	SyncWarning error
}

// Service coordinates account linking and calendar synchronization.
type Service struct {
	repo       Repository
	tokens     TokenExchanger
	fetcher    EventFetcher
	reconciler *Reconciler
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires the sync service. All dependencies are required.
func NewService(repo Repository, tokens TokenExchanger, fetcher EventFetcher, reconciler *Reconciler, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		fetcher:    fetcher,
		reconciler: reconciler,
		logger:     logger,
		now:        time.Now,
	}
}

// AuthorizationURL builds the provider consent URL for the requested feature
// scopes. The caller owns the state value and its verification.
func (s *Service) AuthorizationURL(state string, calendarSync, fitnessSync bool) (string, error) {
	return s.tokens.AuthCodeURL(state, calendarSync, fitnessSync)
}

// HandleCallback exchanges the authorization code, persists the linked record
// and, when calendar sync was requested, runs an immediate synchronization.
// A failed immediate sync does not fail the callback: the link is stored and
// the failure is surfaced in the result so the caller can report it.
func (s *Service) HandleCallback(ctx context.Context, userID uuid.UUID, code string, calendarSync, fitnessSync bool) (*CallbackResult, error) {
	token, err := s.tokens.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	// A repeat consent may come back without a refresh token; the store
	// keeps the previously issued one in that case.
	record, err := s.repo.Upsert(ctx, Record{
		UserID:       userID,
		RefreshToken: token.RefreshToken,
		CalendarSync: calendarSync,
		FitnessSync:  fitnessSync,
	})
	if err != nil {
		return nil, fmt.Errorf("store integration: %w", err)
	}

	result := &CallbackResult{Record: &record}
	if !calendarSync {
		return result, nil
	}

	count, err := s.syncCalendar(ctx, userID, &record)
	if err != nil {
		s.logger.Warn("initial calendar sync failed after linking",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		result.SyncWarning = err
		return result, nil
	}
	result.EventsCount = count
	return result, nil
}

// SyncCalendar refreshes credentials, fetches the current window and replaces
// the user's imported events. It returns the number of events stored.
func (s *Service) SyncCalendar(ctx context.Context, userID uuid.UUID) (int, error) {
	record, err := s.repo.Get(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load integration: %w", err)
	}
	if record == nil || !record.Linked() || !record.CalendarSync {
		return 0, ErrNotLinked
	}
	return s.syncCalendar(ctx, userID, record)
}

// Status returns the stored integration record, or nil when the user has
// never linked an account.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (*Record, error) {
	record, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load integration: %w", err)
	}
	return record, nil
}

func (s *Service) syncCalendar(ctx context.Context, userID uuid.UUID, record *Record) (int, error) {
	token, err := s.tokens.Refresh(ctx, record.RefreshToken)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	from := now.AddDate(0, -syncWindowPastMonths, 0)
	to := now.AddDate(0, syncWindowFutureMonths, 0)

	rawEvents, err := s.fetcher.FetchEvents(ctx, token.AccessToken, from, to)
	if err != nil {
		return 0, err
	}

	count, err := s.reconciler.Reconcile(ctx, userID, rawEvents)
	if err != nil {
		return 0, err
	}

	if err := s.repo.TouchSyncTimestamp(ctx, userID, now); err != nil {
		return 0, fmt.Errorf("record sync time: %w", err)
	}

	s.logger.Info("calendar synchronized",
		slog.String("user_id", userID.String()),
		slog.Int("events", count))
	return count, nil
}
