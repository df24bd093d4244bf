package api

import (
	"github.com/surveyforge/surveyforge/internal/services"
)

type surveyStoreAdapter struct {
	store Store
}

func newSurveyStoreAdapter(store Store) services.SurveyStore {
	return &surveyStoreAdapter{store: store}
}

func (a *surveyStoreAdapter) InsertSurvey(sc *services.Survey) (*services.Survey, error) {
	if sc == nil {
		return nil, services.NewFailureError("survey required")
	}
	a.store.AddSurvey(fromServiceSurvey(sc))
	return sc, nil
}

func (a *surveyStoreAdapter) GetSurvey(id string) (*services.Survey, error) {
	return toServiceSurvey(a.store.GetSurvey(id)), nil
}

func (a *surveyStoreAdapter) ListSurveys() ([]*services.Survey, error) {
	docs := a.store.ListSurveys()
	out := make([]*services.Survey, 0, len(docs))
	for _, sc := range docs {
		out = append(out, toServiceSurvey(sc))
	}
	return out, nil
}

func (a *surveyStoreAdapter) UpdateSurvey(sc *services.Survey) error {
	if sc == nil {
		return services.NewFailureError("survey required")
	}
	if !a.store.UpdateSurvey(fromServiceSurvey(sc)) {
		return services.NewNotFoundError("Survey not found")
	}
	return nil
}

func (a *surveyStoreAdapter) DeleteSurvey(id string) error {
	if !a.store.DeleteSurvey(id) {
		return services.NewNotFoundError("Survey not found")
	}
	return nil
}

func (a *surveyStoreAdapter) SetSurveyActive(id string, active bool) (*services.Survey, error) {
	doc := a.store.GetSurvey(id)
	if doc == nil {
		return nil, nil
	}
	cp := *doc
	cp.IsActive = active
	if !a.store.UpdateSurvey(&cp) {
		return nil, nil
	}
	return toServiceSurvey(&cp), nil
}

var _ services.SurveyStore = (*surveyStoreAdapter)(nil)
