package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Google Calendar API max page size.
const maxResults = 250

// FetchError is a non-success response from the calendar API. An expired
// access token shows up here as a 401; the caller should have refreshed first.
type FetchError struct {
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("google calendar returned status %d: %s", e.StatusCode, e.Message)
}

// CalendarClient retrieves events from the user's primary Google calendar.
type CalendarClient struct {
	client   *http.Client
	endpoint string
}

// CalendarOption configures a CalendarClient during construction.
type CalendarOption func(*CalendarClient)

// WithCalendarEndpoint overrides the API base URL, used by tests.
func WithCalendarEndpoint(endpoint string) CalendarOption {
	return func(c *CalendarClient) {
		c.endpoint = endpoint
	}
}

// NewCalendarClient constructs a CalendarClient. A nil client gets a default
// with a request timeout so a slow provider cannot hang the handler.
func NewCalendarClient(client *http.Client, opts ...CalendarOption) *CalendarClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	c := &CalendarClient{client: client}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchEvents lists the primary calendar's events between windowStart and
// windowEnd, following continuation tokens until exhausted. An empty window is
// a valid, non-error outcome.
func (c *CalendarClient) FetchEvents(ctx context.Context, accessToken string, windowStart, windowEnd time.Time) ([]*calendar.Event, error) {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	var out []*calendar.Event
	pageToken := ""
	for {
		call := svc.Events.List("primary").
			MaxResults(maxResults).
			SingleEvents(true).
			OrderBy("startTime").
			TimeMin(windowStart.Format(time.RFC3339)).
			TimeMax(windowEnd.Format(time.RFC3339)).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			var apiErr *googleapi.Error
			if errors.As(err, &apiErr) {
				return nil, &FetchError{StatusCode: apiErr.Code, Message: apiErr.Message}
			}
			return nil, fmt.Errorf("list calendar events: %w", err)
		}

		out = append(out, resp.Items...)
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return out, nil
}

func (c *CalendarClient) service(ctx context.Context, accessToken string) (*calendar.Service, error) {
	// Route the bearer token through an oauth2 transport on top of the
	// injected base client so test servers can speak plain HTTP.
	baseCtx := context.WithValue(ctx, oauth2.HTTPClient, c.client)
	authed := oauth2.NewClient(baseCtx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))

	opts := []option.ClientOption{option.WithHTTPClient(authed)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	return calendar.NewService(ctx, opts...)
}
