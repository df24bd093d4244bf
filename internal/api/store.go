package api

import (
	"strings"
	"sync"
	"time"
)

// Document types as they are persisted and served. The bson tags keep the
// Mongo store on the exact field names the original collections used.

type User struct {
	ID           string    `json:"id" bson:"_id"`
	FirstName    string    `json:"firstName" bson:"firstName"`
	LastName     string    `json:"lastName" bson:"lastName"`
	Email        string    `json:"email" bson:"email"`
	Role         string    `json:"role" bson:"role"`
	PasswordHash []byte    `json:"-" bson:"password"`
	OTP          string    `json:"-" bson:"otp,omitempty"`
	ResetToken   string    `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetExpires time.Time `json:"-" bson:"resetPasswordExpires,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Question struct {
	ID      string   `json:"id" bson:"id"`
	Label   string   `json:"label" bson:"label"`
	Type    string   `json:"type" bson:"type"`
	Options []string `json:"options,omitempty" bson:"options,omitempty"`
}

type Survey struct {
	ID          string     `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Questions   []Question `json:"questions" bson:"questions"`
	CreatedBy   string     `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	IsActive    bool       `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

type Answer struct {
	QuestionID      string   `json:"questionId" bson:"questionId"`
	SelectedOptions []string `json:"selectedOptions" bson:"selectedOptions"`
}

type Response struct {
	ID          string    `json:"id" bson:"_id"`
	SurveyID    string    `json:"surveyId" bson:"surveyId"`
	UserID      string    `json:"userId,omitempty" bson:"userId,omitempty"`
	Answers     []Answer  `json:"answers" bson:"answers"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submittedAt"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

type memoryStore struct {
	mu            sync.RWMutex
	users         map[string]*User
	usersByEmail  map[string]string
	surveys       map[string]*Survey
	surveyOrder   []string
	responses     map[string]*Response
	responseOrder []string
}

func NewMemoryStore() Store { return newMemoryStore() }

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:        map[string]*User{},
		usersByEmail: map[string]string{},
		surveys:      map[string]*Survey{},
		responses:    map[string]*Response{},
	}
}

func (s *memoryStore) AddUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	s.usersByEmail[strings.ToLower(u.Email)] = u.ID
}

func (s *memoryStore) FindUserByEmail(email string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.usersByEmail[strings.ToLower(email)]; ok {
		return s.users[id]
	}
	return nil
}

func (s *memoryStore) FindUserByID(id string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[id]
}

func (s *memoryStore) FindUserByResetToken(token string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if token == "" {
		return nil
	}
	for _, u := range s.users {
		if u.ResetToken == token {
			return u
		}
	}
	return nil
}

func (s *memoryStore) UpdateUser(u *User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.users[u.ID]
	if !ok {
		return false
	}
	if !strings.EqualFold(old.Email, u.Email) {
		delete(s.usersByEmail, strings.ToLower(old.Email))
		s.usersByEmail[strings.ToLower(u.Email)] = u.ID
	}
	s.users[u.ID] = u
	return true
}

func (s *memoryStore) CountUsersByRole(role string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, u := range s.users {
		if u.Role == role {
			n++
		}
	}
	return n
}

func (s *memoryStore) AddSurvey(sc *Survey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.surveys[sc.ID]; !ok {
		s.surveyOrder = append(s.surveyOrder, sc.ID)
	}
	s.surveys[sc.ID] = sc
}

func (s *memoryStore) GetSurvey(id string) *Survey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surveys[id]
}

func (s *memoryStore) ListSurveys() []*Survey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Survey, 0, len(s.surveyOrder))
	for _, id := range s.surveyOrder {
		out = append(out, s.surveys[id])
	}
	return out
}

func (s *memoryStore) UpdateSurvey(sc *Survey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.surveys[sc.ID]; !ok {
		return false
	}
	s.surveys[sc.ID] = sc
	return true
}

func (s *memoryStore) DeleteSurvey(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.surveys[id]; !ok {
		return false
	}
	delete(s.surveys, id)
	for i, sid := range s.surveyOrder {
		if sid == id {
			s.surveyOrder = append(s.surveyOrder[:i], s.surveyOrder[i+1:]...)
			break
		}
	}
	return true
}

func (s *memoryStore) CountActiveSurveysBetween(start, end time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, sc := range s.surveys {
		if sc.IsActive && !sc.CreatedAt.Before(start) && !sc.CreatedAt.After(end) {
			n++
		}
	}
	return n
}

func (s *memoryStore) AddResponse(r *Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.responses[r.ID]; !ok {
		s.responseOrder = append(s.responseOrder, r.ID)
	}
	s.responses[r.ID] = r
}

func (s *memoryStore) GetResponse(id string) *Response {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.responses[id]
}

func (s *memoryStore) ListResponses() []*Response {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Response, 0, len(s.responseOrder))
	for _, id := range s.responseOrder {
		out = append(out, s.responses[id])
	}
	return out
}

func (s *memoryStore) ListResponsesByUser(userID string) []*Response {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Response{}
	for _, id := range s.responseOrder {
		if r := s.responses[id]; r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

func (s *memoryStore) UpdateResponse(r *Response) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.responses[r.ID]; !ok {
		return false
	}
	s.responses[r.ID] = r
	return true
}

func (s *memoryStore) DeleteResponse(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.responses[id]; !ok {
		return false
	}
	delete(s.responses, id)
	for i, rid := range s.responseOrder {
		if rid == id {
			s.responseOrder = append(s.responseOrder[:i], s.responseOrder[i+1:]...)
			break
		}
	}
	return true
}

func (s *memoryStore) CountResponsesBetween(start, end time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.responses {
		if !r.SubmittedAt.Before(start) && !r.SubmittedAt.After(end) {
			n++
		}
	}
	return n
}
