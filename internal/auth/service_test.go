package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestServiceCreateOrUpdateUserCreatesNewUser(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, time.Hour)

	claims := &GoogleClaims{
		Sub:           "sub-123",
		Email:         "new@example.com",
		EmailVerified: true,
		Name:          "New User",
		Picture:       "avatar.png",
	}

	user, err := svc.CreateOrUpdateUser(context.Background(), claims)
	if err != nil {
		t.Fatalf("CreateOrUpdateUser returned error: %v", err)
	}

	if user.Email != "new@example.com" || user.OAuthProviderID != "sub-123" {
		t.Fatalf("unexpected user: %+v", user)
	}

	again, err := svc.CreateOrUpdateUser(context.Background(), claims)
	if err != nil {
		t.Fatalf("second CreateOrUpdateUser returned error: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("expected existing user %s to be reused, got %s", user.ID, again.ID)
	}
}

func TestServiceCreateOrUpdateUserRefreshesProfile(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, time.Hour)

	first, err := svc.CreateOrUpdateUser(context.Background(), &GoogleClaims{
		Sub: "sub-1", Email: "a@example.com", Name: "Old Name", Picture: "old.png",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.CreateOrUpdateUser(context.Background(), &GoogleClaims{
		Sub: "sub-1", Email: "a@example.com", Name: "New Name", Picture: "new.png",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.ID != first.ID {
		t.Fatalf("expected same user id")
	}
	if updated.Name != "New Name" || updated.AvatarURL != "new.png" {
		t.Fatalf("profile not refreshed: %+v", updated)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, time.Hour)

	user, err := svc.CreateOrUpdateUser(context.Background(), &GoogleClaims{Sub: "s", Email: "s@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := svc.CreateSession(context.Background(), user.ID, "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty session token")
	}

	got, err := svc.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateSession returned error: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Fatalf("expected session to resolve to user %s, got %+v", user.ID, got)
	}

	if err := svc.DeleteSession(context.Background(), token); err != nil {
		t.Fatalf("DeleteSession returned error: %v", err)
	}

	got, err = svc.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateSession after delete returned error: %v", err)
	}
	if got != nil {
		t.Fatal("expected deleted session to be invalid")
	}
}

func TestValidateSessionRejectsExpired(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, time.Hour)

	user, err := svc.CreateOrUpdateUser(context.Background(), &GoogleClaims{Sub: "e", Email: "e@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := svc.CreateSession(context.Background(), user.ID, "", "")
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}

	// Force the stored session to be expired.
	hash := hashToken(token)
	repo.mu.Lock()
	s := repo.sessions[hash]
	s.ExpiresAt = time.Now().Add(-time.Minute)
	repo.sessions[hash] = s
	repo.mu.Unlock()

	got, err := svc.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateSession returned error: %v", err)
	}
	if got != nil {
		t.Fatal("expected expired session to be rejected")
	}
}

func TestValidateSessionEmptyToken(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), time.Hour)

	got, err := svc.ValidateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("ValidateSession returned error: %v", err)
	}
	if got != nil {
		t.Fatal("expected empty token to be invalid")
	}
}

func TestGenerateStateIsUnique(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState returned error: %v", err)
	}
	b, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState returned error: %v", err)
	}
	if a == "" || a == b {
		t.Fatalf("expected unique non-empty states, got %q and %q", a, b)
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, time.Hour)

	userID := uuid.New()
	_ = repo.CreateSession(context.Background(), Session{
		ID: uuid.New(), UserID: userID, ExpiresAt: time.Now().Add(-time.Hour),
	}, "expired-hash")
	_ = repo.CreateSession(context.Background(), Session{
		ID: uuid.New(), UserID: userID, ExpiresAt: time.Now().Add(time.Hour),
	}, "live-hash")

	removed, err := svc.CleanupExpiredSessions(context.Background())
	if err != nil {
		t.Fatalf("CleanupExpiredSessions returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed session, got %d", removed)
	}
}
