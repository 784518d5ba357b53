package services

import (
	"github.com/EO-DataHub/eodhp-directory-admin/internal/appconfig"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/catalog"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/search"
)

// Service contains all shared dependencies for handlers.
type Service struct {
	Config   *appconfig.Config
	Catalog  *catalog.Catalog
	Notifier events.Notifier
	Matcher  search.Matcher
}

// NewService wires the catalog and notifier with the search settings of cfg.
func NewService(cfg *appconfig.Config, c *catalog.Catalog, notifier events.Notifier) *Service {
	matcher := search.DefaultMatcher()
	if cfg != nil && cfg.Search.Threshold > 0 {
		matcher.Threshold = cfg.Search.Threshold
	}
	if notifier == nil {
		notifier = events.NoopNotifier{}
	}
	return &Service{
		Config:   cfg,
		Catalog:  c,
		Notifier: notifier,
		Matcher:  matcher,
	}
}

// basePath returns the configured API prefix used in Location headers.
func (svc *Service) basePath() string {
	if svc.Config == nil {
		return ""
	}
	return svc.Config.BasePath
}
