package profiles

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestGetReturnsDefaultsForNewUser(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo)
	userID := uuid.New()
	ctx := context.Background()

	profile, err := svc.Get(ctx, userID, "Ada")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if profile.DisplayName != "Ada" {
		t.Errorf("DisplayName = %q", profile.DisplayName)
	}
	if profile.WaterIntakeGoal != DefaultWaterIntakeGoal {
		t.Errorf("WaterIntakeGoal = %d, want %d", profile.WaterIntakeGoal, DefaultWaterIntakeGoal)
	}

	// The default is not persisted until the user writes something.
	stored, err := repo.Get(ctx, userID)
	if err != nil {
		t.Fatalf("repo.Get: %v", err)
	}
	if stored != nil {
		t.Errorf("stored = %+v, want nil", stored)
	}
}

func TestUpdateCreatesProfileOnFirstWrite(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo)
	userID := uuid.New()
	ctx := context.Background()

	goal := 3000
	height := 178.0
	heightPtr := &height
	profile, err := svc.Update(ctx, userID, "Ada", UpdateProfileInput{
		WaterIntakeGoal: &goal,
		Height:          &heightPtr,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if profile.WaterIntakeGoal != 3000 {
		t.Errorf("WaterIntakeGoal = %d", profile.WaterIntakeGoal)
	}
	if profile.Height == nil || *profile.Height != 178.0 {
		t.Errorf("Height = %v", profile.Height)
	}
	if profile.DisplayName != "Ada" {
		t.Errorf("DisplayName = %q", profile.DisplayName)
	}

	stored, _ := repo.Get(ctx, userID)
	if stored == nil || stored.WaterIntakeGoal != 3000 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestUpdateValidation(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	userID := uuid.New()
	ctx := context.Background()

	empty := "  "
	if _, err := svc.Update(ctx, userID, "Ada", UpdateProfileInput{DisplayName: &empty}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty name err = %v, want validation error", err)
	}

	zero := 0
	if _, err := svc.Update(ctx, userID, "Ada", UpdateProfileInput{WaterIntakeGoal: &zero}); !errors.Is(err, ErrValidation) {
		t.Errorf("zero goal err = %v, want validation error", err)
	}

	fat := 140.0
	fatPtr := &fat
	if _, err := svc.Update(ctx, userID, "Ada", UpdateProfileInput{BodyFatGoal: &fatPtr}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad body fat err = %v, want validation error", err)
	}
}

func TestUpdateClearsOptionalField(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	userID := uuid.New()
	ctx := context.Background()

	weight := 80.5
	weightPtr := &weight
	if _, err := svc.Update(ctx, userID, "Ada", UpdateProfileInput{WeightGoal: &weightPtr}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var cleared *float64
	profile, err := svc.Update(ctx, userID, "Ada", UpdateProfileInput{WeightGoal: &cleared})
	if err != nil {
		t.Fatalf("Update clear: %v", err)
	}
	if profile.WeightGoal != nil {
		t.Errorf("WeightGoal = %v, want nil", profile.WeightGoal)
	}
}
