package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/surveyforge/surveyforge/internal/middleware"
	"github.com/surveyforge/surveyforge/internal/services"
)

// Router wires the HTTP surface to the services. Response bodies carry the
// envelope the original clients consume: a numeric statusCode plus message,
// with payload fields alongside.
type Router struct {
	store     Store
	auth      *services.AuthService
	surveys   *services.SurveyService
	responses *services.ResponseService
	analytics *services.AnalyticsService
}

func NewRouter(store Store) *Router {
	sign := func(id, email string, role services.Role, ttl time.Duration) (string, error) {
		return middleware.SignToken(id, email, string(role), ttl)
	}
	verify := func(token string) (*services.TokenClaims, error) {
		c, err := middleware.ParseToken(token)
		if err != nil {
			return nil, err
		}
		return &services.TokenClaims{ID: c.UID, Email: c.Email, Role: services.Role(c.Role)}, nil
	}
	return &Router{
		store:     store,
		auth:      services.NewAuthService(newAuthStoreAdapter(store), sign, verify),
		surveys:   services.NewSurveyService(newSurveyStoreAdapter(store)),
		responses: services.NewResponseService(newResponseStoreAdapter(store)),
		analytics: services.NewAnalyticsService(newAnalyticsStoreAdapter(store)),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/register", rt.handleRegister)                  // POST
	mux.HandleFunc("/api/login", rt.handleLogin)                        // POST, GET
	mux.HandleFunc("/api/forget-password", rt.handleForgetPassword)     // POST
	mux.HandleFunc("/api/reset-password", rt.handleResetPassword)       // POST
	mux.HandleFunc("/api/profile", rt.handleProfile)                    // GET, PUT
	mux.HandleFunc("/api/surveys", rt.handleSurveys)                    // GET, PATCH
	mux.HandleFunc("/api/addSurvey", rt.handleAddSurvey)                // POST
	mux.HandleFunc("/api/surveys/", rt.handleSurveyScoped)              // GET/PUT/DELETE /api/surveys/{id}
	mux.HandleFunc("/api/responses", rt.handleResponses)                // GET, POST
	mux.HandleFunc("/api/responses/", rt.handleResponseScoped)          // GET/PUT/DELETE /api/responses/{id}, GET /api/responses/user/{userId}
	mux.HandleFunc("/api/dashboard/analytics", rt.handleAnalytics)      // POST
}

// Handler returns the full API handler with session decoding applied.
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	rt.Register(mux)
	return middleware.WithAuth(mux)
}

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := services.StatusOf(err)
	writeJSON(w, status, envelope{"statusCode": status, "message": err.Error()})
}

// requireAdmin resolves the session and enforces the Admin role. It writes
// the error envelope itself and returns nil when the caller must stop.
func (rt *Router) requireAdmin(w http.ResponseWriter, r *http.Request) *middleware.Claims {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusForbidden, envelope{"statusCode": http.StatusForbidden, "message": "Authentication token required"})
		return nil
	}
	if claims.Role != string(services.RoleAdmin) {
		writeJSON(w, http.StatusNotAcceptable, envelope{"statusCode": http.StatusNotAcceptable, "message": "Admin access required"})
		return nil
	}
	return claims
}

// POST /api/register
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Role      string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{"statusCode": http.StatusBadRequest, "message": "Invalid request body"})
		return
	}
	in := services.RegisterInput{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Password:  body.Password,
		Role:      body.Role,
	}
	if err := rt.auth.Register(in); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"statusCode": http.StatusOK, "message": "User registered successfully"})
}

// POST /api/login authenticates and sets the session cookie.
// GET /api/login resolves the current user from the session.
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{"statusCode": http.StatusBadRequest, "message": "Invalid request body"})
			return
		}
		if body.Email == "" {
			writeJSON(w, http.StatusUnprocessableEntity, envelope{"statusCode": http.StatusUnprocessableEntity, "message": "Email is required"})
			return
		}
		res, err := rt.auth.Login(body.Email, body.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    res.Token,
			Path:     "/",
			Expires:  time.Now().Add(rt.auth.TokenTTL()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, envelope{
			"statusCode": http.StatusOK,
			"message":    "Login successful",
			"token":      res.Token,
			"id":         res.ID,
			"email":      res.Email,
			"role":       res.Role,
		})
	case http.MethodGet:
		user := rt.auth.CurrentUser(middleware.TokenFromRequest(r))
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, envelope{"statusCode": http.StatusUnauthorized, "message": "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, user)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /api/forget-password issues a reset token. The token is returned to
// the caller directly; there is no mail delivery.
func (rt *Router) handleForgetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{"statusCode": http.StatusBadRequest, "message": "Invalid request body"})
		return
	}
	token, err := rt.auth.ForgetPassword(body.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"token": token})
}

// POST /api/reset-password
func (rt *Router) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{"statusCode": http.StatusBadRequest, "message": "Invalid request body"})
		return
	}
	if err := rt.auth.ResetPassword(body.Token, body.Password); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Password reset successful", "status": http.StatusOK})
}

// GET/PUT /api/profile operates on the session owner's record.
func (rt *Router) handleProfile(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, envelope{"statusCode": http.StatusUnauthorized, "message": "Authentication token required"})
		return
	}
	claims, err := middleware.ParseToken(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, envelope{"statusCode": http.StatusUnauthorized, "message": "Invalid authentication token"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := rt.auth.GetProfile(claims.Email)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			"statusCode": http.StatusOK,
			"message":    "Profile fetched successfully",
			"data":       fromServiceUser(user),
		})
	case http.MethodPut:
		var body struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
			Email     string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{"statusCode": http.StatusBadRequest, "message": "Invalid request body"})
			return
		}
		if body.FirstName == "" || body.LastName == "" || body.Email == "" {
			writeJSON(w, http.StatusUnprocessableEntity, envelope{"statusCode": http.StatusUnprocessableEntity, "message": "First name, last name, and email are required"})
			return
		}
		current, err := rt.auth.GetProfile(claims.Email)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		updated, err := rt.auth.UpdateProfile(current.ID, body.FirstName, body.LastName, body.Email)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			"statusCode": http.StatusOK,
			"message":    "Profile updated successfully",
			"data":       fromServiceUser(updated),
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type surveyPayload struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	IsActive    *bool      `json:"isActive"`
}

func (p surveyPayload) toInput(createdBy string) services.SurveyInput {
	return services.SurveyInput{
		Title:       p.Title,
		Description: p.Description,
		Questions:   toServiceQuestions(p.Questions),
		CreatedBy:   createdBy,
		IsActive:    p.IsActive,
	}
}

// GET /api/surveys lists everything; an empty store answers HTTP 200 with a
// not-found envelope, which is what the list page expects.
// PATCH /api/surveys toggles the active flag.
func (rt *Router) handleSurveys(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := rt.surveys.List()
		if err != nil {
			if se, ok := services.AsServiceError(err); ok && se.Code == services.ErrorNotFound {
				writeJSON(w, http.StatusOK, envelope{"statusCode": http.StatusNotFound, "message": se.Message})
				return
			}
			writeServiceError(w, err)
			return
		}
		out := make([]*Survey, 0, len(list.Surveys))
		for _, sc := range list.Surveys {
			out = append(out, fromServiceSurvey(sc))
		}
		writeJSON(w, http.StatusOK, envelope{"surveyList": out, "count": list.Count})
	case http.MethodPatch:
		if rt.requireAdmin(w, r) == nil {
			return
		}
		var body struct {
			ID       string `json:"id"`
			IsActive bool   `json:"isActive"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{"statusCode": http.StatusBadRequest, "message": "Invalid request body"})
			return
		}
		sc, err := rt.surveys.SetActive(body.ID, body.IsActive)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			"statusCode": http.StatusOK,
			"message":    "Survey updated successfully",
			"data":       fromServiceSurvey(sc),
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /api/addSurvey
func (rt *Router) handleAddSurvey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims := rt.requireAdmin(w, r)
	if claims == nil {
		return
	}
	var p surveyPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{"statusCode": http.StatusBadRequest, "message": "Invalid request body"})
		return
	}
	sc, err := rt.surveys.Create(p.toInput(claims.UID))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		"statusCode": http.StatusOK,
		"message":    "Survey created successfully",
		"data":       fromServiceSurvey(sc),
	})
}

// GET/PUT/DELETE /api/surveys/{id}
func (rt *Router) handleSurveyScoped(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/surveys/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		sc, err := rt.surveys.GetByID(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			"statusCode": http.StatusOK,
			"message":    "Survey found",
			"data":       fromServiceSurvey(sc),
		})
	case http.MethodPut:
		claims := rt.requireAdmin(w, r)
		if claims == nil {
			return
		}
		var p surveyPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{"statusCode": http.StatusBadRequest, "message": "Invalid request body"})
			return
		}
		sc, err := rt.surveys.Update(id, p.toInput(claims.UID))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			"statusCode": http.StatusOK,
			"message":    "Survey updated successfully",
			"data":       fromServiceSurvey(sc),
		})
	case http.MethodDelete:
		if rt.requireAdmin(w, r) == nil {
			return
		}
		if err := rt.surveys.Delete(id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{"statusCode": http.StatusOK, "message": "Survey deleted successfully"})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type responsePayload struct {
	SurveyID string   `json:"surveyId"`
	UserID   string   `json:"userId"`
	Answers  []Answer `json:"answers"`
}

// GET /api/responses lists all responses with their survey joins; an empty
// store is a plain 200 with an empty list, unlike the survey listing.
// POST /api/responses records a submission.
func (rt *Router) handleResponses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := rt.responses.List()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			"statusCode": http.StatusOK,
			"message":    "Responses fetched successfully",
			"data":       list.Items,
			"count":      list.Count,
		})
	case http.MethodPost:
		var p responsePayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{"statusCode": http.StatusBadRequest, "message": "Invalid request body"})
			return
		}
		userID := p.UserID
		if userID == "" {
			if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
				userID = claims.UID
			}
		}
		resp, err := rt.responses.Create(services.ResponseInput{
			SurveyID: p.SurveyID,
			UserID:   userID,
			Answers:  toServiceAnswers(p.Answers),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			"statusCode": http.StatusOK,
			"message":    "Response submitted successfully",
			"data":       fromServiceResponse(resp),
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET/PUT/DELETE /api/responses/{responseId} and GET /api/responses/user/{userId}.
func (rt *Router) handleResponseScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/responses/")

	if userID, ok := strings.CutPrefix(rest, "user/"); ok {
		if r.Method != http.MethodGet || userID == "" || strings.Contains(userID, "/") {
			http.NotFound(w, r)
			return
		}
		rt.listResponsesByUser(w, userID)
		return
	}

	id := rest
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		view, err := rt.responses.GetByID(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			"statusCode": http.StatusOK,
			"message":    "Response found",
			"data":       view,
		})
	case http.MethodPut:
		if rt.requireAdmin(w, r) == nil {
			return
		}
		var p responsePayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{"statusCode": http.StatusBadRequest, "message": "Invalid request body"})
			return
		}
		resp, err := rt.responses.Update(id, services.ResponseInput{
			SurveyID: p.SurveyID,
			UserID:   p.UserID,
			Answers:  toServiceAnswers(p.Answers),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			"statusCode": http.StatusOK,
			"message":    "Response updated successfully",
			"data":       fromServiceResponse(resp),
		})
	case http.MethodDelete:
		if rt.requireAdmin(w, r) == nil {
			return
		}
		if err := rt.responses.Delete(id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{"statusCode": http.StatusOK, "message": "Response deleted successfully"})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// An empty result answers 200 with an empty data array; the submitter's
// history page renders the empty state itself.
func (rt *Router) listResponsesByUser(w http.ResponseWriter, userID string) {
	list, err := rt.responses.ListByUser(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if list.Count == 0 {
		writeJSON(w, http.StatusOK, envelope{
			"statusCode": http.StatusNotFound,
			"message":    "Response not found",
			"data":       []*services.ResponseView{},
			"count":      0,
		})
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"statusCode": http.StatusOK,
		"message":    "Responses fetched successfully",
		"data":       list.Items,
		"count":      list.Count,
	})
}

// POST /api/dashboard/analytics
func (rt *Router) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if rt.requireAdmin(w, r) == nil {
		return
	}
	var body struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{"statusCode": http.StatusBadRequest, "message": "Invalid request body"})
		return
	}
	summary, err := rt.analytics.Compute(body.StartDate, body.EndDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
