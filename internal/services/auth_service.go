package services

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthStore interface {
	FindUserByEmail(email string) (*User, error)
	FindUserByID(id string) (*User, error)
	FindUserByResetToken(token string) (*User, error)
	AddUser(u *User) error
	UpdateUser(u *User) error
}

// TokenClaims is the triple embedded in every session token.
type TokenClaims struct {
	ID    string
	Email string
	Role  Role
}

type TokenSigner func(id, email string, role Role, ttl time.Duration) (string, error)
type TokenVerifier func(token string) (*TokenClaims, error)

type AuthService struct {
	store       AuthStore
	now         func() time.Time
	newID       func() string
	newResetTok func() (string, error)
	signToken   TokenSigner
	verifyToken TokenVerifier
	tokenTTL    time.Duration
	hashCost    int
}

type LoginResult struct {
	Token string
	ID    string
	Email string
	Role  Role
}

// SessionUser is the anonymous-safe view of the authenticated user.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

func NewAuthService(store AuthStore, sign TokenSigner, verify TokenVerifier) *AuthService {
	return &AuthService{
		store:       store,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
		newResetTok: defaultResetToken,
		signToken:   sign,
		verifyToken: verify,
		tokenTTL:    time.Hour,
		hashCost:    10,
	}
}

func defaultResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Register creates a user. Required-field checks run sequentially and the
// first failure wins, before the store is touched at all.
func (s *AuthService) Register(in RegisterInput) error {
	switch {
	case strings.TrimSpace(in.FirstName) == "":
		return NewUnprocessableError("firstName is required")
	case strings.TrimSpace(in.LastName) == "":
		return NewUnprocessableError("lastName is required")
	case strings.TrimSpace(in.Email) == "":
		return NewUnprocessableError("email is required")
	case in.Password == "":
		return NewUnprocessableError("password is required")
	case strings.TrimSpace(in.Role) == "":
		return NewUnprocessableError("role is required")
	}
	if !ValidName(in.FirstName) {
		return NewUnprocessableError("firstName must be between 3 and 20 characters")
	}
	if !ValidName(in.LastName) {
		return NewUnprocessableError("lastName must be between 3 and 20 characters")
	}
	if !ValidEmail(in.Email) {
		return NewUnprocessableError(in.Email + " is not a valid email")
	}
	if len(in.Password) < 6 {
		return NewUnprocessableError("password must be at least 6 characters long")
	}
	role := Role(in.Role)
	if role != RoleUser && role != RoleAdmin {
		return NewUnprocessableError("role must be User or Admin")
	}

	existing, err := s.store.FindUserByEmail(in.Email)
	if err != nil {
		return NewInternalError(err.Error())
	}
	if existing != nil {
		return NewFailureError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return NewInternalError(err.Error())
	}
	now := s.now()
	u := &User{
		ID:           s.newID(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.AddUser(u); err != nil {
		return NewFailureError(err.Error())
	}
	return nil
}

// Login checks credentials and issues a session token. A wrong password
// deliberately returns the same not-found code as an unknown email; the
// original behaved that way and clients depend on it.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" {
		return nil, NewUnprocessableError("email is required")
	}
	if password == "" {
		return nil, NewUnprocessableError("password is required")
	}
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	if u == nil {
		return nil, NewNotFoundError("User not found")
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, NewNotFoundError("Password does not match")
	}
	token, err := s.signToken(u.ID, u.Email, u.Role, s.tokenTTL)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	return &LoginResult{Token: token, ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

// CurrentUser resolves a token into the user it names, or nil for anything
// invalid so callers can treat the request as anonymous. The user is
// re-fetched from the store rather than trusted from the claims, so a role
// change takes effect on the next request.
func (s *AuthService) CurrentUser(token string) *SessionUser {
	if token == "" {
		return nil
	}
	claims, err := s.verifyToken(token)
	if err != nil {
		return nil
	}
	u, err := s.store.FindUserByEmail(claims.Email)
	if err != nil || u == nil {
		return nil
	}
	return &SessionUser{ID: u.ID, Email: u.Email, Role: u.Role}
}

// ForgetPassword stores a one-hour reset token on the user and hands it
// back to the caller. No out-of-band delivery exists; the UI surfaces the
// token directly.
func (s *AuthService) ForgetPassword(email string) (string, error) {
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return "", NewInternalError(err.Error())
	}
	if u == nil {
		return "", NewNotFoundError("User not found")
	}
	token, err := s.newResetTok()
	if err != nil {
		return "", NewInternalError(err.Error())
	}
	u.ResetToken = token
	u.ResetExpires = s.now().Add(time.Hour)
	u.UpdatedAt = s.now()
	if err := s.store.UpdateUser(u); err != nil {
		return "", NewInternalError(err.Error())
	}
	return token, nil
}

// ResetPassword consumes a reset token. Wrong and expired tokens are not
// distinguished; both fields are cleared on success so the token is
// single-use.
func (s *AuthService) ResetPassword(token, password string) error {
	if token == "" || password == "" {
		return NewFailureError("Token and password are required")
	}
	u, err := s.store.FindUserByResetToken(token)
	if err != nil {
		return NewInternalError(err.Error())
	}
	if u == nil || u.ResetToken == "" || !u.ResetExpires.After(s.now()) {
		return NewFailureError("Invalid or expired token")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return NewInternalError(err.Error())
	}
	u.PasswordHash = hash
	u.ResetToken = ""
	u.ResetExpires = time.Time{}
	u.UpdatedAt = s.now()
	if err := s.store.UpdateUser(u); err != nil {
		return NewInternalError(err.Error())
	}
	return nil
}

func (s *AuthService) GetProfile(email string) (*User, error) {
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	if u == nil {
		return nil, NewNotFoundError("User not found")
	}
	return u, nil
}

// UpdateProfile changes name and email. The new email may not belong to a
// different existing user; the client-side schema is re-validated here.
func (s *AuthService) UpdateProfile(userID, firstName, lastName, email string) (*User, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" || strings.TrimSpace(email) == "" {
		return nil, NewUnprocessableError("First name, last name, and email are required")
	}
	if !ValidName(firstName) {
		return nil, NewUnprocessableError("First name must be between 3 and 20 characters")
	}
	if !ValidName(lastName) {
		return nil, NewUnprocessableError("Last name must be between 3 and 20 characters")
	}
	if !ValidEmail(email) {
		return nil, NewUnprocessableError("Please enter a valid email")
	}
	owner, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	if owner != nil && owner.ID != userID {
		return nil, NewUnprocessableError("Email already exists")
	}
	u, err := s.store.FindUserByID(userID)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	if u == nil {
		return nil, NewNotFoundError("User not found")
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.Email = email
	u.UpdatedAt = s.now()
	if err := s.store.UpdateUser(u); err != nil {
		return nil, NewInternalError(err.Error())
	}
	return u, nil
}

func (s *AuthService) TokenTTL() time.Duration { return s.tokenTTL }
