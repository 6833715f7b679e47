package scan

import (
	"context"

	"github.com/Abraxas-365/lectora/logx"
	"github.com/Abraxas-365/lectora/store"
)

const settingsKey = "settings"

// SettingsService persists the settings singleton
type SettingsService struct {
	store *store.Store
}

// NewSettingsService creates a settings service on the given store
func NewSettingsService(s *store.Store) *SettingsService {
	return &SettingsService{store: s}
}

// Load returns the persisted settings merged over the defaults. A
// missing document yields the defaults; a malformed document is logged
// and replaced by the defaults instead of failing the caller.
func (s *SettingsService) Load(ctx context.Context) (Settings, error) {
	settings := DefaultSettings()
	_, err := store.LoadSetting(ctx, s.store, settingsKey, &settings)
	if err != nil {
		if store.IsDecodeFailed(err) {
			logx.Warn("stored settings are malformed, falling back to defaults: %v", err)
			return DefaultSettings(), nil
		}
		return Settings{}, err
	}
	return settings, nil
}

// Save overwrites the settings document wholesale. Pitch and rate are
// clamped to [0.5, 2.0] before persisting.
func (s *SettingsService) Save(ctx context.Context, settings Settings) error {
	settings.Pitch = clampFloat(settings.Pitch, 0.5, 2.0)
	settings.Rate = clampFloat(settings.Rate, 0.5, 2.0)
	return store.SaveSetting(ctx, s.store, settingsKey, settings)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
