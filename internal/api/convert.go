package api

import "github.com/surveyforge/surveyforge/internal/services"

// Conversions between stored documents and the service-layer types. The
// adapters and the router both cross this boundary, so the helpers live in
// one place.

func toServiceUser(u *User) *services.User {
	if u == nil {
		return nil
	}
	return &services.User{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Role:         services.Role(u.Role),
		PasswordHash: u.PasswordHash,
		OTP:          u.OTP,
		ResetToken:   u.ResetToken,
		ResetExpires: u.ResetExpires,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromServiceUser(u *services.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Role:         string(u.Role),
		PasswordHash: u.PasswordHash,
		OTP:          u.OTP,
		ResetToken:   u.ResetToken,
		ResetExpires: u.ResetExpires,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toServiceQuestions(qs []Question) []services.Question {
	out := make([]services.Question, len(qs))
	for i, q := range qs {
		out[i] = services.Question{
			ID:      q.ID,
			Label:   q.Label,
			Type:    services.QuestionType(q.Type),
			Options: q.Options,
		}
	}
	return out
}

func fromServiceQuestions(qs []services.Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = Question{
			ID:      q.ID,
			Label:   q.Label,
			Type:    string(q.Type),
			Options: q.Options,
		}
	}
	return out
}

func toServiceAnswers(as []Answer) []services.Answer {
	out := make([]services.Answer, len(as))
	for i, a := range as {
		out[i] = services.Answer{QuestionID: a.QuestionID, SelectedOptions: a.SelectedOptions}
	}
	return out
}

func toServiceSurvey(sc *Survey) *services.Survey {
	if sc == nil {
		return nil
	}
	qs := toServiceQuestions(sc.Questions)
	return &services.Survey{
		ID:          sc.ID,
		Title:       sc.Title,
		Description: sc.Description,
		Questions:   qs,
		CreatedBy:   sc.CreatedBy,
		IsActive:    sc.IsActive,
		CreatedAt:   sc.CreatedAt,
		UpdatedAt:   sc.UpdatedAt,
	}
}

func fromServiceSurvey(sc *services.Survey) *Survey {
	if sc == nil {
		return nil
	}
	qs := fromServiceQuestions(sc.Questions)
	return &Survey{
		ID:          sc.ID,
		Title:       sc.Title,
		Description: sc.Description,
		Questions:   qs,
		CreatedBy:   sc.CreatedBy,
		IsActive:    sc.IsActive,
		CreatedAt:   sc.CreatedAt,
		UpdatedAt:   sc.UpdatedAt,
	}
}

func toServiceResponse(r *Response) *services.Response {
	if r == nil {
		return nil
	}
	as := toServiceAnswers(r.Answers)
	return &services.Response{
		ID:          r.ID,
		SurveyID:    r.SurveyID,
		UserID:      r.UserID,
		Answers:     as,
		SubmittedAt: r.SubmittedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func fromServiceResponse(r *services.Response) *Response {
	if r == nil {
		return nil
	}
	as := make([]Answer, len(r.Answers))
	for i, a := range r.Answers {
		as[i] = Answer{QuestionID: a.QuestionID, SelectedOptions: a.SelectedOptions}
	}
	return &Response{
		ID:          r.ID,
		SurveyID:    r.SurveyID,
		UserID:      r.UserID,
		Answers:     as,
		SubmittedAt: r.SubmittedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
