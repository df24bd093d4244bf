package api

import "time"

// Store is the persistence surface shared by the memory, SQLite and Mongo
// backends. Single-document lookups return nil when there is no match;
// update and delete report whether a document was touched. Implementations
// handle their own I/O errors internally (they log and return the zero
// answer), which keeps the three backends interchangeable behind one
// interface.
type Store interface {
	AddUser(u *User)
	FindUserByEmail(email string) *User
	FindUserByID(id string) *User
	FindUserByResetToken(token string) *User
	UpdateUser(u *User) bool
	CountUsersByRole(role string) int

	AddSurvey(sc *Survey)
	GetSurvey(id string) *Survey
	ListSurveys() []*Survey
	UpdateSurvey(sc *Survey) bool
	DeleteSurvey(id string) bool
	CountActiveSurveysBetween(start, end time.Time) int

	AddResponse(r *Response)
	GetResponse(id string) *Response
	ListResponses() []*Response
	ListResponsesByUser(userID string) []*Response
	UpdateResponse(r *Response) bool
	DeleteResponse(id string) bool
	CountResponsesBetween(start, end time.Time) int
}

var _ Store = (*memoryStore)(nil)
