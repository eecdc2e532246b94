package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docflow/internal/i18n"
	"docflow/internal/model"
	"docflow/internal/repository"
)

// Preferences manages per-user UI state (sidebar flag, locale). Users who
// never saved anything get the defaults.
type Preferences struct {
	repo       repository.PreferencesRepository
	translator *i18n.Translator
	log        *slog.Logger
}

// NewPreferences builds the service.
func NewPreferences(repo repository.PreferencesRepository, translator *i18n.Translator, log *slog.Logger) *Preferences {
	return &Preferences{repo: repo, translator: translator, log: log}
}

// Get returns the stored preferences or the defaults when unset.
func (s *Preferences) Get(ctx context.Context, userID string) (model.Preferences, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Preferences{SidebarOpen: false, Locale: i18n.DefaultLocale}, nil
		}
		return model.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	return *prefs, nil
}

// Set validates and stores the preferences.
func (s *Preferences) Set(ctx context.Context, userID string, prefs model.Preferences) error {
	if !s.translator.Supported(prefs.Locale) {
		return fmt.Errorf("%w: unsupported locale %q", ErrValidation, prefs.Locale)
	}
	if err := s.repo.Put(ctx, userID, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// ToggleSidebar flips the sidebar flag and returns the new state.
func (s *Preferences) ToggleSidebar(ctx context.Context, userID string) (model.Preferences, error) {
	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return model.Preferences{}, err
	}
	prefs.SidebarOpen = !prefs.SidebarOpen
	if err := s.repo.Put(ctx, userID, prefs); err != nil {
		return model.Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	return prefs, nil
}
