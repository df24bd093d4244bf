package api

import (
	"time"

	"github.com/surveyforge/surveyforge/internal/services"
)

type analyticsStoreAdapter struct {
	store Store
}

func newAnalyticsStoreAdapter(store Store) services.AnalyticsStore {
	return &analyticsStoreAdapter{store: store}
}

func (a *analyticsStoreAdapter) CountActiveSurveysBetween(start, end time.Time) (int, error) {
	return a.store.CountActiveSurveysBetween(start, end), nil
}

func (a *analyticsStoreAdapter) CountResponsesBetween(start, end time.Time) (int, error) {
	return a.store.CountResponsesBetween(start, end), nil
}

func (a *analyticsStoreAdapter) CountUsersByRole(role services.Role) (int, error) {
	return a.store.CountUsersByRole(string(role)), nil
}

var _ services.AnalyticsStore = (*analyticsStoreAdapter)(nil)
