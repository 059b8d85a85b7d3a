package service

import (
	"context"
	"errors"

	prefserrors "calview/internal/prefs/errors"
	"calview/internal/prefs/repository"
	"calview/pkg/config"
	apperrors "calview/pkg/errors"
	"calview/pkg/model"
)

type PreferencesService interface {
	Get(ctx context.Context, userID string) (*model.CalendarPreferences, error)
	Save(ctx context.Context, prefs *model.CalendarPreferences) error
	Reset(ctx context.Context, userID string) error
}

type preferencesService struct {
	repo repository.PreferencesRepository
	cfg  *config.Config
}

func NewPreferencesService(repo repository.PreferencesRepository, cfg *config.Config) PreferencesService {
	return &preferencesService{repo: repo, cfg: cfg}
}

// Get loads a user's saved preferences, falling back to the service
// defaults for a user who has never saved any.
func (s *preferencesService) Get(ctx context.Context, userID string) (*model.CalendarPreferences, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	prefs, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, prefserrors.ErrNotFound) {
			return s.defaults(userID), nil
		}
		return nil, apperrors.Internal("Failed to load calendar preferences", err)
	}
	return prefs, nil
}

func (s *preferencesService) Save(ctx context.Context, prefs *model.CalendarPreferences) error {
	if prefs.UserID == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}
	if prefs.GridInterval != 0 && 60%prefs.GridInterval != 0 {
		return apperrors.InvalidInput("Grid interval must be a divisor of 60")
	}
	for _, st := range prefs.Statuses {
		if !st.Valid() {
			return apperrors.InvalidInput("Unknown booking status in preferences")
		}
	}

	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return apperrors.Internal("Failed to save calendar preferences", err)
	}

	s.cfg.Log.Info("Calendar preferences saved", "user_id", prefs.UserID)
	return nil
}

func (s *preferencesService) Reset(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, prefserrors.ErrNotFound) {
			return nil
		}
		return apperrors.Internal("Failed to reset calendar preferences", err)
	}
	return nil
}

func (s *preferencesService) defaults(userID string) *model.CalendarPreferences {
	return &model.CalendarPreferences{
		UserID:            userID,
		DefaultMode:       "week",
		GridInterval:      s.cfg.GridInterval,
		IncludeUnassigned: true,
	}
}
