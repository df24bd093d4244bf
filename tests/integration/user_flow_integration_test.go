//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("SURVEYFORGE_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:18080"
}

// Full journey against a running server: an admin registers, authors a
// survey, a user submits a response, and both sides read it back.
func TestSurveyJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()
	suffix := time.Now().UnixNano()

	adminEmail := fmt.Sprintf("admin_%d@example.com", suffix)
	userEmail := fmt.Sprintf("user_%d@example.com", suffix)
	password := "Secret123!"

	doPost(t, client, base+"/api/register", "", map[string]any{
		"firstName": "Integration",
		"lastName":  "Admin",
		"email":     adminEmail,
		"password":  password,
		"role":      "Admin",
	}, nil)
	doPost(t, client, base+"/api/register", "", map[string]any{
		"firstName": "Integration",
		"lastName":  "User",
		"email":     userEmail,
		"password":  password,
		"role":      "User",
	}, nil)

	var adminLogin struct {
		Token string `json:"token"`
		ID    string `json:"id"`
	}
	doPost(t, client, base+"/api/login", "", map[string]string{
		"email":    adminEmail,
		"password": password,
	}, &adminLogin)
	if adminLogin.Token == "" {
		t.Fatalf("admin login did not return token")
	}

	var userLogin struct {
		Token string `json:"token"`
		ID    string `json:"id"`
	}
	doPost(t, client, base+"/api/login", "", map[string]string{
		"email":    userEmail,
		"password": password,
	}, &userLogin)
	if userLogin.Token == "" {
		t.Fatalf("user login did not return token")
	}

	var createResp struct {
		Data struct {
			ID        string `json:"id"`
			Questions []struct {
				ID string `json:"id"`
			} `json:"questions"`
		} `json:"data"`
	}
	doPost(t, client, base+"/api/addSurvey", adminLogin.Token, map[string]any{
		"title":       fmt.Sprintf("Integration Survey %d", suffix),
		"description": "End to end run",
		"questions": []map[string]any{
			{"label": "How did you hear about us?", "type": "select", "options": []string{"search", "friend", "other"}},
			{"label": "Anything else?", "type": "text"},
		},
	}, &createResp)
	if createResp.Data.ID == "" || len(createResp.Data.Questions) != 2 {
		t.Fatalf("unexpected create survey response: %+v", createResp)
	}
	surveyID := createResp.Data.ID

	var submitResp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	doPost(t, client, base+"/api/responses", userLogin.Token, map[string]any{
		"surveyId": surveyID,
		"userId":   userLogin.ID,
		"answers": []map[string]any{
			{"questionId": createResp.Data.Questions[0].ID, "selectedOptions": []string{"friend"}},
		},
	}, &submitResp)
	if submitResp.Data.ID == "" {
		t.Fatalf("expected response id from submission")
	}

	detail := doGet(t, client, base+"/api/responses/"+submitResp.Data.ID, "")
	if !strings.Contains(detail, "How did you hear about us?") {
		t.Fatalf("response detail did not resolve question label; body=%s", detail)
	}

	mine := doGet(t, client, base+"/api/responses/user/"+userLogin.ID, userLogin.Token)
	if !strings.Contains(mine, submitResp.Data.ID) {
		t.Fatalf("user response listing missing submission; body=%s", mine)
	}

	var analytics struct {
		TotalSurveys   int `json:"totalSurveys"`
		TotalResponses int `json:"totalResponses"`
	}
	today := time.Now().UTC().Format("2006-01-02")
	doPost(t, client, base+"/api/dashboard/analytics", adminLogin.Token, map[string]string{
		"startDate": today,
		"endDate":   today,
	}, &analytics)
	if analytics.TotalSurveys < 1 || analytics.TotalResponses < 1 {
		t.Fatalf("analytics did not count the journey: %+v", analytics)
	}
}

func doPost(t *testing.T, client *http.Client, url, token string, body any, out any) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http post %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}

func doGet(t *testing.T, client *http.Client, url, token string) string {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http get %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body from %s: %v", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(body))
	}
	return string(body)
}
