package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResponseStore abstracts persistence operations required by ResponseService.
// GetSurvey is included because list and detail views join survey metadata
// at read time; there is no referential integrity between the two.
type ResponseStore interface {
	InsertResponse(r *Response) (*Response, error)
	GetResponse(id string) (*Response, error)
	ListResponses() ([]*Response, error)
	ListResponsesByUser(userID string) ([]*Response, error)
	UpdateResponse(r *Response) error
	DeleteResponse(id string) error
	GetSurvey(id string) (*Survey, error)
}

// SurveyRef is the slice of survey metadata embedded into response views in
// place of the raw survey id. It is nil when the survey was deleted.
type SurveyRef struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type AnswerView struct {
	QuestionID      string   `json:"questionId"`
	SelectedOptions []string `json:"selectedOptions"`
	QuestionLabel   string   `json:"questionLabel,omitempty"`
}

type ResponseView struct {
	ID          string       `json:"id"`
	Survey      *SurveyRef   `json:"surveyId"`
	UserID      string       `json:"userId,omitempty"`
	Answers     []AnswerView `json:"answers"`
	SubmittedAt time.Time    `json:"submittedAt"`
}

type ResponseList struct {
	Items []*ResponseView
	Count int
}

type ResponseInput struct {
	SurveyID string
	UserID   string
	Answers  []Answer
}

type ResponseService struct {
	store ResponseStore
	now   func() time.Time
	newID func() string
}

func NewResponseService(store ResponseStore) *ResponseService {
	return &ResponseService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// List returns every response with its survey join. Unlike the survey
// listing, an empty result is a success with count zero.
func (s *ResponseService) List() (*ResponseList, error) {
	responses, err := s.store.ListResponses()
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	return s.buildList(responses)
}

func (s *ResponseService) ListByUser(userID string) (*ResponseList, error) {
	responses, err := s.store.ListResponsesByUser(userID)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	return s.buildList(responses)
}

// GetByID resolves the full detail view: survey join plus a human-readable
// label per answer. A question that since disappeared from the survey
// degrades to its type name or an "Unknown Question" placeholder instead
// of failing the read.
func (s *ResponseService) GetByID(responseID string) (*ResponseView, error) {
	r, err := s.store.GetResponse(responseID)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	if r == nil {
		return nil, NewNotFoundError("Response not found")
	}
	survey, err := s.store.GetSurvey(r.SurveyID)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	view := toResponseView(r, survey)
	for i := range view.Answers {
		view.Answers[i].QuestionLabel = questionLabel(survey, view.Answers[i].QuestionID)
	}
	return view, nil
}

// Create persists a submission as-is. Answers are not checked against the
// referenced survey's question list; integrity is advisory only.
func (s *ResponseService) Create(in ResponseInput) (*Response, error) {
	if strings.TrimSpace(in.SurveyID) == "" {
		return nil, NewUnprocessableError("surveyId is required")
	}
	if len(in.Answers) == 0 {
		return nil, NewUnprocessableError("at least one answer is required")
	}
	now := s.now()
	r := &Response{
		ID:          s.newID(),
		SurveyID:    in.SurveyID,
		UserID:      in.UserID,
		Answers:     in.Answers,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stored, err := s.store.InsertResponse(r)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	return stored, nil
}

func (s *ResponseService) Update(id string, in ResponseInput) (*Response, error) {
	if strings.TrimSpace(in.SurveyID) == "" {
		return nil, NewUnprocessableError("surveyId is required")
	}
	if len(in.Answers) == 0 {
		return nil, NewUnprocessableError("at least one answer is required")
	}
	existing, err := s.store.GetResponse(id)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	if existing == nil {
		return nil, NewNotFoundError("Response not found")
	}
	existing.SurveyID = in.SurveyID
	existing.UserID = in.UserID
	existing.Answers = in.Answers
	existing.UpdatedAt = s.now()
	if err := s.store.UpdateResponse(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *ResponseService) Delete(id string) error {
	return s.store.DeleteResponse(id)
}

func (s *ResponseService) buildList(responses []*Response) (*ResponseList, error) {
	items := make([]*ResponseView, 0, len(responses))
	for _, r := range responses {
		survey, err := s.store.GetSurvey(r.SurveyID)
		if err != nil {
			return nil, NewInternalError(err.Error())
		}
		items = append(items, toResponseView(r, survey))
	}
	return &ResponseList{Items: items, Count: len(items)}, nil
}

func toResponseView(r *Response, survey *Survey) *ResponseView {
	view := &ResponseView{
		ID:          r.ID,
		UserID:      r.UserID,
		SubmittedAt: r.SubmittedAt,
		Answers:     make([]AnswerView, 0, len(r.Answers)),
	}
	if survey != nil {
		view.Survey = &SurveyRef{ID: survey.ID, Title: survey.Title, Description: survey.Description}
	}
	for _, a := range r.Answers {
		view.Answers = append(view.Answers, AnswerView{QuestionID: a.QuestionID, SelectedOptions: a.SelectedOptions})
	}
	return view
}

func questionLabel(survey *Survey, questionID string) string {
	if survey != nil {
		for _, q := range survey.Questions {
			if q.ID == questionID {
				if q.Label != "" {
					return q.Label
				}
				return string(q.Type)
			}
		}
	}
	return "Unknown Question"
}
