package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SurveyStore interface {
	InsertSurvey(sc *Survey) (*Survey, error)
	GetSurvey(id string) (*Survey, error)
	ListSurveys() ([]*Survey, error)
	UpdateSurvey(sc *Survey) error
	DeleteSurvey(id string) error
	SetSurveyActive(id string, active bool) (*Survey, error)
}

type SurveyService struct {
	store SurveyStore
	now   func() time.Time
	newID func() string
}

// SurveyInput carries the authoring payload. IsActive defaults to true when
// absent, on update as well: saving a survey without the flag re-activates
// it, matching the original full-replacement semantics.
type SurveyInput struct {
	Title       string
	Description string
	Questions   []Question
	CreatedBy   string
	IsActive    *bool
}

type SurveyList struct {
	Surveys []*Survey
	Count   int
}

func NewSurveyService(store SurveyStore) *SurveyService {
	return &SurveyService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// List returns every survey. An empty store is reported as not-found; the
// responses listing uses a plain empty list instead. The asymmetry is
// inherited behavior, kept so both clients see what they always saw.
func (s *SurveyService) List() (*SurveyList, error) {
	surveys, err := s.store.ListSurveys()
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	if len(surveys) == 0 {
		return nil, NewNotFoundError("Survey not found")
	}
	return &SurveyList{Surveys: surveys, Count: len(surveys)}, nil
}

func (s *SurveyService) GetByID(id string) (*Survey, error) {
	sc, err := s.store.GetSurvey(id)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	if sc == nil {
		return nil, NewNotFoundError("Survey not found")
	}
	return sc, nil
}

func (s *SurveyService) Create(in SurveyInput) (*Survey, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	now := s.now()
	sc := &Survey{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Questions:   s.normalizeQuestions(in.Questions),
		CreatedBy:   in.CreatedBy,
		IsActive:    activeOrDefault(in.IsActive),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stored, err := s.store.InsertSurvey(sc)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	return stored, nil
}

// Update fully replaces title, description, questions and the active flag
// of the matched survey.
func (s *SurveyService) Update(id string, in SurveyInput) (*Survey, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	existing, err := s.store.GetSurvey(id)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	if existing == nil {
		return nil, NewNotFoundError("Survey not found")
	}
	existing.Title = in.Title
	existing.Description = in.Description
	existing.Questions = s.normalizeQuestions(in.Questions)
	existing.IsActive = activeOrDefault(in.IsActive)
	existing.UpdatedAt = s.now()
	if err := s.store.UpdateSurvey(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes the survey document. Responses referencing it are left in
// place; their survey join resolves to null afterwards.
func (s *SurveyService) Delete(id string) error {
	return s.store.DeleteSurvey(id)
}

// SetActive toggles the flag without touching title or questions.
func (s *SurveyService) SetActive(id string, active bool) (*Survey, error) {
	sc, err := s.store.SetSurveyActive(id, active)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, NewNotFoundError("Survey not found")
	}
	return sc, nil
}

func (s *SurveyService) validate(in SurveyInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return NewUnprocessableError("title is required")
	}
	if len(in.Questions) == 0 {
		return NewUnprocessableError("at least one question is required")
	}
	for i, q := range in.Questions {
		if strings.TrimSpace(q.Label) == "" {
			return NewUnprocessableError(fmt.Sprintf("question %d: label is required", i+1))
		}
		if !q.Type.Valid() {
			return NewUnprocessableError(fmt.Sprintf("question %d: unsupported type %q", i+1, string(q.Type)))
		}
		if q.Type.NeedsOptions() && len(q.Options) == 0 {
			return NewUnprocessableError(fmt.Sprintf("question %d: options are required for %s questions", i+1, string(q.Type)))
		}
	}
	return nil
}

func (s *SurveyService) normalizeQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		if q.ID == "" {
			q.ID = s.newID()
		}
		if !q.Type.NeedsOptions() {
			q.Options = nil
		}
		out[i] = q
	}
	return out
}

func activeOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
