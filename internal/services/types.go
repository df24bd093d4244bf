package services

import (
	"regexp"
	"time"
)

type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// QuestionType is the closed set of field kinds the form builder supports.
// Validation is exhaustive on purpose: an unknown type is rejected at
// authoring time instead of surfacing as an unrenderable field later.
type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionNumber   QuestionType = "number"
	QuestionCheckbox QuestionType = "checkbox"
	QuestionSelect   QuestionType = "select"
	QuestionRadio    QuestionType = "radio"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionNumber, QuestionCheckbox, QuestionSelect, QuestionRadio:
		return true
	}
	return false
}

// NeedsOptions reports whether the type carries an option list. Options on
// text/number fields are ignored rather than rejected.
func (t QuestionType) NeedsOptions() bool {
	switch t {
	case QuestionCheckbox, QuestionSelect, QuestionRadio:
		return true
	}
	return false
}

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Role         Role
	PasswordHash []byte
	OTP          string
	ResetToken   string
	ResetExpires time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Question struct {
	ID      string
	Label   string
	Type    QuestionType
	Options []string
}

type Survey struct {
	ID          string
	Title       string
	Description string
	Questions   []Question
	CreatedBy   string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Answer struct {
	QuestionID      string
	SelectedOptions []string
}

type Response struct {
	ID          string
	SurveyID    string
	UserID      string
	Answers     []Answer
	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var emailPattern = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*@([\w-]+\.)+[a-zA-Z]{2,7}$`)

func ValidEmail(email string) bool { return emailPattern.MatchString(email) }

// ValidName enforces the 3..20 character bound both register and profile
// update apply to first and last names.
func ValidName(name string) bool { return len(name) >= 3 && len(name) <= 20 }
