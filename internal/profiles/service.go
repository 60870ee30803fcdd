package profiles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service orchestrates validation and persistence for profiles.
type Service struct {
	repo Repository
}

// NewService wires a Service with the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the user's profile. Users who never saved one get a default
// profile carrying their account display name; nothing is persisted until
// they update it.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, displayName string) (Profile, error) {
	profile, err := s.repo.Get(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return defaultProfile(userID, displayName), nil
	}
	return *profile, nil
}

// UpdateProfileInput carries optional replacement fields for a profile.
type UpdateProfileInput struct {
	DisplayName     *string
	Height          **float64
	WeightGoal      **float64
	BodyFatGoal     **float64
	WaterIntakeGoal *int
	FitnessLevel    **string
}

// Update applies the changes, creating the profile on first write.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, displayName string, input UpdateProfileInput) (Profile, error) {
	existing, err := s.repo.Get(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}

	profile := defaultProfile(userID, displayName)
	if existing != nil {
		profile = *existing
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return Profile{}, &ValidationError{Message: "display name is required"}
		}
		profile.DisplayName = name
	}
	if input.Height != nil {
		if err := validatePositive("height", *input.Height); err != nil {
			return Profile{}, err
		}
		profile.Height = *input.Height
	}
	if input.WeightGoal != nil {
		if err := validatePositive("weight goal", *input.WeightGoal); err != nil {
			return Profile{}, err
		}
		profile.WeightGoal = *input.WeightGoal
	}
	if input.BodyFatGoal != nil {
		if v := *input.BodyFatGoal; v != nil && (*v <= 0 || *v >= 100) {
			return Profile{}, &ValidationError{Message: "body fat goal must be a percentage"}
		}
		profile.BodyFatGoal = *input.BodyFatGoal
	}
	if input.WaterIntakeGoal != nil {
		if *input.WaterIntakeGoal <= 0 {
			return Profile{}, &ValidationError{Message: "water intake goal must be positive"}
		}
		profile.WaterIntakeGoal = *input.WaterIntakeGoal
	}
	if input.FitnessLevel != nil {
		profile.FitnessLevel = *input.FitnessLevel
	}

	profile.UpdatedAt = time.Now().UTC()
	return s.repo.Upsert(ctx, profile)
}

func defaultProfile(userID uuid.UUID, displayName string) Profile {
	now := time.Now().UTC()
	return Profile{
		UserID:          userID,
		DisplayName:     displayName,
		WaterIntakeGoal: DefaultWaterIntakeGoal,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func validatePositive(field string, v *float64) error {
	if v != nil && *v <= 0 {
		return &ValidationError{Message: field + " must be positive"}
	}
	return nil
}
