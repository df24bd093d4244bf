package api

import (
	"github.com/surveyforge/surveyforge/internal/services"
)

type responseStoreAdapter struct {
	store Store
}

func newResponseStoreAdapter(store Store) services.ResponseStore {
	return &responseStoreAdapter{store: store}
}

func (a *responseStoreAdapter) InsertResponse(r *services.Response) (*services.Response, error) {
	if r == nil {
		return nil, services.NewFailureError("response required")
	}
	a.store.AddResponse(fromServiceResponse(r))
	return r, nil
}

func (a *responseStoreAdapter) GetResponse(id string) (*services.Response, error) {
	return toServiceResponse(a.store.GetResponse(id)), nil
}

func (a *responseStoreAdapter) ListResponses() ([]*services.Response, error) {
	docs := a.store.ListResponses()
	out := make([]*services.Response, 0, len(docs))
	for _, r := range docs {
		out = append(out, toServiceResponse(r))
	}
	return out, nil
}

func (a *responseStoreAdapter) ListResponsesByUser(userID string) ([]*services.Response, error) {
	docs := a.store.ListResponsesByUser(userID)
	out := make([]*services.Response, 0, len(docs))
	for _, r := range docs {
		out = append(out, toServiceResponse(r))
	}
	return out, nil
}

func (a *responseStoreAdapter) UpdateResponse(r *services.Response) error {
	if r == nil {
		return services.NewFailureError("response required")
	}
	if !a.store.UpdateResponse(fromServiceResponse(r)) {
		return services.NewNotFoundError("Response not found")
	}
	return nil
}

func (a *responseStoreAdapter) DeleteResponse(id string) error {
	if !a.store.DeleteResponse(id) {
		return services.NewNotFoundError("Response not found")
	}
	return nil
}

func (a *responseStoreAdapter) GetSurvey(id string) (*services.Survey, error) {
	return toServiceSurvey(a.store.GetSurvey(id)), nil
}

var _ services.ResponseStore = (*responseStoreAdapter)(nil)
