package preference

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/recommend"
)

// ErrInvalidPreference is returned when a value outside {safe, fast, comfy}
// is submitted.
var ErrInvalidPreference = errors.New("invalid preference")

// ServiceConfig holds configuration for the preference service.
type ServiceConfig struct {
	// Repository is the persistence backend.
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service reads and writes the persisted route preference.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new preference service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}
}

// Get returns the stored preference for a session. A missing value or a
// repository failure reads as the safe default; the preference is advisory
// and never blocks a recommendation.
func (s *Service) Get(ctx context.Context, sessionID string) recommend.Preference {
	pref, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn().Err(err).
				Str("session_id", sessionID).
				Msg("preference read failed, using default")
		}
		return recommend.DefaultPreference
	}

	if !pref.Valid() {
		s.logger.Warn().
			Str("session_id", sessionID).
			Str("preference", string(pref)).
			Msg("stored preference is invalid, using default")
		return recommend.DefaultPreference
	}

	return pref
}

// Set validates and stores a preference for a session.
func (s *Service) Set(ctx context.Context, sessionID string, pref recommend.Preference) error {
	if !pref.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPreference, pref)
	}

	if err := s.repo.Set(ctx, sessionID, pref); err != nil {
		return fmt.Errorf("storing preference: %w", err)
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Str("preference", string(pref)).
		Msg("preference updated")

	return nil
}
