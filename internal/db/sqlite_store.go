package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/surveyforge/surveyforge/internal/api"
)

// SQLiteStore persists the survey data in a single SQLite file. Question
// and answer lists are stored as JSON text columns; everything else maps to
// plain columns. Read failures are logged and surface as the zero answer,
// per the api.Store contract.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

var _ api.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) logErr(op string, err error) {
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.Error("sqlite store", "op", op, "err", err)
	}
}

func toNullString(v string) sql.NullString {
	if strings.TrimSpace(v) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func toNullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeQuestions(raw string) []api.Question {
	var out []api.Question
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		slog.Error("sqlite store", "op", "decode questions", "err", err)
		return nil
	}
	return out
}

func decodeAnswers(raw string) []api.Answer {
	var out []api.Answer
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		slog.Error("sqlite store", "op", "decode answers", "err", err)
		return nil
	}
	return out
}

// users

func (s *SQLiteStore) AddUser(u *api.User) {
	_, err := s.db.Exec(`INSERT INTO users
		(id, first_name, last_name, email, role, password_hash, otp, reset_token, reset_expires, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.FirstName, u.LastName, u.Email, u.Role, u.PasswordHash,
		toNullString(u.OTP), toNullString(u.ResetToken), toNullTime(u.ResetExpires),
		u.CreatedAt, u.UpdatedAt)
	s.logErr("add user", err)
}

const userColumns = `id, first_name, last_name, email, role, password_hash, otp, reset_token, reset_expires, created_at, updated_at`

func (s *SQLiteStore) scanUser(row *sql.Row) *api.User {
	var u api.User
	var otp, resetToken sql.NullString
	var resetExpires sql.NullTime
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role, &u.PasswordHash,
		&otp, &resetToken, &resetExpires, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		s.logErr("scan user", err)
		return nil
	}
	u.OTP = otp.String
	u.ResetToken = resetToken.String
	u.ResetExpires = resetExpires.Time
	return &u
}

func (s *SQLiteStore) FindUserByEmail(email string) *api.User {
	return s.scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email))
}

func (s *SQLiteStore) FindUserByID(id string) *api.User {
	return s.scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (s *SQLiteStore) FindUserByResetToken(token string) *api.User {
	if token == "" {
		return nil
	}
	return s.scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE reset_token = ?`, token))
}

func (s *SQLiteStore) UpdateUser(u *api.User) bool {
	res, err := s.db.Exec(`UPDATE users SET
		first_name = ?, last_name = ?, email = ?, role = ?, password_hash = ?,
		otp = ?, reset_token = ?, reset_expires = ?, updated_at = ?
		WHERE id = ?`,
		u.FirstName, u.LastName, u.Email, u.Role, u.PasswordHash,
		toNullString(u.OTP), toNullString(u.ResetToken), toNullTime(u.ResetExpires),
		u.UpdatedAt, u.ID)
	if err != nil {
		s.logErr("update user", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) CountUsersByRole(role string) int {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE role = ?`, role).Scan(&n)
	s.logErr("count users by role", err)
	return n
}

// surveys

func (s *SQLiteStore) AddSurvey(sc *api.Survey) {
	questions, err := encodeJSON(sc.Questions)
	if err != nil {
		s.logErr("encode questions", err)
		return
	}
	_, err = s.db.Exec(`INSERT INTO surveys
		(id, title, description, questions, created_by, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.Title, toNullString(sc.Description), questions,
		toNullString(sc.CreatedBy), sc.IsActive, sc.CreatedAt, sc.UpdatedAt)
	s.logErr("add survey", err)
}

const surveyColumns = `id, title, description, questions, created_by, is_active, created_at, updated_at`

func scanSurvey(scan func(dest ...any) error) (*api.Survey, error) {
	var sc api.Survey
	var description, createdBy sql.NullString
	var questions string
	if err := scan(&sc.ID, &sc.Title, &description, &questions, &createdBy,
		&sc.IsActive, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
		return nil, err
	}
	sc.Description = description.String
	sc.CreatedBy = createdBy.String
	sc.Questions = decodeQuestions(questions)
	return &sc, nil
}

func (s *SQLiteStore) GetSurvey(id string) *api.Survey {
	sc, err := scanSurvey(s.db.QueryRow(`SELECT `+surveyColumns+` FROM surveys WHERE id = ?`, id).Scan)
	if err != nil {
		s.logErr("get survey", err)
		return nil
	}
	return sc
}

func (s *SQLiteStore) ListSurveys() []*api.Survey {
	rows, err := s.db.Query(`SELECT ` + surveyColumns + ` FROM surveys ORDER BY rowid`)
	if err != nil {
		s.logErr("list surveys", err)
		return nil
	}
	defer rows.Close()
	var out []*api.Survey
	for rows.Next() {
		sc, err := scanSurvey(rows.Scan)
		if err != nil {
			s.logErr("scan survey", err)
			continue
		}
		out = append(out, sc)
	}
	s.logErr("list surveys", rows.Err())
	return out
}

func (s *SQLiteStore) UpdateSurvey(sc *api.Survey) bool {
	questions, err := encodeJSON(sc.Questions)
	if err != nil {
		s.logErr("encode questions", err)
		return false
	}
	res, err := s.db.Exec(`UPDATE surveys SET
		title = ?, description = ?, questions = ?, created_by = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		sc.Title, toNullString(sc.Description), questions, toNullString(sc.CreatedBy),
		sc.IsActive, sc.UpdatedAt, sc.ID)
	if err != nil {
		s.logErr("update survey", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) DeleteSurvey(id string) bool {
	res, err := s.db.Exec(`DELETE FROM surveys WHERE id = ?`, id)
	if err != nil {
		s.logErr("delete survey", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) CountActiveSurveysBetween(start, end time.Time) int {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM surveys
		WHERE is_active = 1 AND created_at >= ? AND created_at <= ?`, start, end).Scan(&n)
	s.logErr("count surveys", err)
	return n
}

// responses

func (s *SQLiteStore) AddResponse(r *api.Response) {
	answers, err := encodeJSON(r.Answers)
	if err != nil {
		s.logErr("encode answers", err)
		return
	}
	_, err = s.db.Exec(`INSERT INTO responses
		(id, survey_id, user_id, answers, submitted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SurveyID, toNullString(r.UserID), answers, r.SubmittedAt, r.CreatedAt, r.UpdatedAt)
	s.logErr("add response", err)
}

const responseColumns = `id, survey_id, user_id, answers, submitted_at, created_at, updated_at`

func scanResponse(scan func(dest ...any) error) (*api.Response, error) {
	var r api.Response
	var userID sql.NullString
	var answers string
	if err := scan(&r.ID, &r.SurveyID, &userID, &answers, &r.SubmittedAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.UserID = userID.String
	r.Answers = decodeAnswers(answers)
	return &r, nil
}

func (s *SQLiteStore) GetResponse(id string) *api.Response {
	r, err := scanResponse(s.db.QueryRow(`SELECT `+responseColumns+` FROM responses WHERE id = ?`, id).Scan)
	if err != nil {
		s.logErr("get response", err)
		return nil
	}
	return r
}

func (s *SQLiteStore) listResponses(query string, args ...any) []*api.Response {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		s.logErr("list responses", err)
		return nil
	}
	defer rows.Close()
	var out []*api.Response
	for rows.Next() {
		r, err := scanResponse(rows.Scan)
		if err != nil {
			s.logErr("scan response", err)
			continue
		}
		out = append(out, r)
	}
	s.logErr("list responses", rows.Err())
	return out
}

func (s *SQLiteStore) ListResponses() []*api.Response {
	return s.listResponses(`SELECT ` + responseColumns + ` FROM responses ORDER BY rowid`)
}

func (s *SQLiteStore) ListResponsesByUser(userID string) []*api.Response {
	return s.listResponses(`SELECT `+responseColumns+` FROM responses WHERE user_id = ? ORDER BY rowid`, userID)
}

func (s *SQLiteStore) UpdateResponse(r *api.Response) bool {
	answers, err := encodeJSON(r.Answers)
	if err != nil {
		s.logErr("encode answers", err)
		return false
	}
	res, err := s.db.Exec(`UPDATE responses SET
		survey_id = ?, user_id = ?, answers = ?, submitted_at = ?, updated_at = ?
		WHERE id = ?`,
		r.SurveyID, toNullString(r.UserID), answers, r.SubmittedAt, r.UpdatedAt, r.ID)
	if err != nil {
		s.logErr("update response", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) DeleteResponse(id string) bool {
	res, err := s.db.Exec(`DELETE FROM responses WHERE id = ?`, id)
	if err != nil {
		s.logErr("delete response", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) CountResponsesBetween(start, end time.Time) int {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM responses
		WHERE submitted_at >= ? AND submitted_at <= ?`, start, end).Scan(&n)
	s.logErr("count responses", err)
	return n
}
