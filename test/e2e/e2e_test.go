//go:build e2e
// +build e2e

// End-to-end smoke test against a running gateway (start one with
// `go run ./cmd/gateway-stub` or point BASE_URL at a real deployment
// seeded with the demo accounts).
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/joho/godotenv"

	"github.com/quizdeck/quizdeck-client/internal/model"
	"github.com/quizdeck/quizdeck-client/internal/response"
)

const (
	defaultBaseURL = "http://localhost:8080"
	adminEmail     = "admin@quizdeck.local"
	adminPass      = "admin123"
	demoEmail      = "demo@quizdeck.local"
	demoPass       = "demo123"
)

var baseURL string

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	if _, err := http.Get(baseURL + "/health"); err != nil {
		fmt.Printf("Gateway not reachable at %s: %v\n", baseURL, err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// call sends a JSON request and decodes the envelope's data into out.
func call(t *testing.T, method, path, token string, body, out any) *response.ErrorBody {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, baseURL+path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env struct {
		Data  json.RawMessage     `json:"data"`
		Error *response.ErrorBody `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	if env.Error != nil {
		return env.Error
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
	return nil
}

func login(t *testing.T, email, password string) string {
	t.Helper()
	var auth model.AuthResponse
	if errBody := call(t, http.MethodPost, "/auth/login", "",
		model.LoginRequest{Email: email, Password: password}, &auth); errBody != nil {
		t.Fatalf("login %s: %s", email, errBody.Message)
	}
	return auth.Token
}

func TestFullExamJourney(t *testing.T) {
	token := login(t, demoEmail, demoPass)

	var exams []model.ExamSummary
	if errBody := call(t, http.MethodGet, "/exams", token, nil, &exams); errBody != nil {
		t.Fatalf("list exams: %s", errBody.Message)
	}
	if len(exams) == 0 {
		t.Fatal("no active exams seeded")
	}

	var att model.Attempt
	if errBody := call(t, http.MethodPost, "/exams/"+exams[0].ID+"/start", token, nil, &att); errBody != nil {
		t.Fatalf("start: %s", errBody.Message)
	}
	if len(att.Questions) == 0 {
		t.Fatal("empty paper")
	}

	// Autosave a first-question answer, then submit everything blank
	// except that answer.
	first := att.Questions[0]
	save := model.SaveProgressRequest{Answers: []model.AttemptAnswer{
		{QuestionID: first.ID, SelectedAnswers: []string{first.Options[0].Key}},
	}}
	if errBody := call(t, http.MethodPut, "/attempts/"+att.AttemptID+"/save", token, save, nil); errBody != nil {
		t.Fatalf("save: %s", errBody.Message)
	}

	submit := model.SubmitExamRequest{Answers: []model.SubmitAnswer{
		{QuestionID: first.ID, SelectedAnswers: []string{first.Options[0].Key}},
	}}
	var res model.ExamResult
	if errBody := call(t, http.MethodPost, "/attempts/"+att.AttemptID+"/submit", token, submit, &res); errBody != nil {
		t.Fatalf("submit: %s", errBody.Message)
	}
	if res.SubmissionID == "" || res.MaxScore <= 0 {
		t.Fatalf("result = %+v", res)
	}

	// Resubmitting the same attempt must be rejected.
	if errBody := call(t, http.MethodPost, "/attempts/"+att.AttemptID+"/submit", token, submit, nil); errBody == nil {
		t.Fatal("double submit accepted")
	} else if errBody.Code != response.ErrAttemptFinished {
		t.Errorf("double submit code = %s, want %s", errBody.Code, response.ErrAttemptFinished)
	}

	var detail model.ExamResult
	if errBody := call(t, http.MethodGet, "/results/"+res.SubmissionID, token, nil, &detail); errBody != nil {
		t.Fatalf("result: %s", errBody.Message)
	}
	if len(detail.Questions) != len(att.Questions) {
		t.Errorf("breakdown covers %d of %d questions", len(detail.Questions), len(att.Questions))
	}
}

func TestAdminSurface(t *testing.T) {
	adminToken := login(t, adminEmail, adminPass)
	demoToken := login(t, demoEmail, demoPass)

	var questions []model.AdminQuestion
	if errBody := call(t, http.MethodGet, "/admin/questions", adminToken, nil, &questions); errBody != nil {
		t.Fatalf("admin list questions: %s", errBody.Message)
	}
	if len(questions) == 0 {
		t.Error("question bank empty")
	}

	if errBody := call(t, http.MethodGet, "/admin/questions", demoToken, nil, nil); errBody == nil {
		t.Error("non-admin reached admin route")
	}
}

func TestUnauthenticatedRejected(t *testing.T) {
	if errBody := call(t, http.MethodGet, "/exams", "", nil, nil); errBody == nil {
		t.Fatal("anonymous exam listing accepted")
	} else if errBody.Code != response.ErrTokenRequired {
		t.Errorf("code = %s, want %s", errBody.Code, response.ErrTokenRequired)
	}
}
