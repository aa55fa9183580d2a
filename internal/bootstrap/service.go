package bootstrap

import (
	"log/slog"

	"bizpos-backend/internal/config"
	"bizpos-backend/internal/domain"
	"bizpos-backend/internal/service"
)

// NewSettingsService wires the settings service on top of an open store.
func NewSettingsService(cfg config.Config, st *Store, logger *slog.Logger) service.SettingsService {
	return service.SettingsService{
		Store:            service.SettingsStore{Repo: st.Settings},
		Audit:            st.Audit,
		Logger:           logger,
		DefaultIndustry:  domain.ParseIndustryType(cfg.DefaultIndustry),
		DefaultCurrency:  cfg.DefaultCurrency,
		StrictValidation: cfg.StrictValidation,
	}
}
