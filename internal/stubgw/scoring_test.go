package stubgw

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizdeck/quizdeck-client/internal/config"
	"github.com/quizdeck/quizdeck-client/internal/model"
)

func testServer() *Server {
	cfg := &config.Config{
		JWTSecret:  "scoring-test",
		JWTExpiry:  time.Hour,
		BcryptCost: 4,
	}
	return New(cfg, zerolog.Nop())
}

// scoringFixture seeds a two-question exam and returns an attempt over
// its paper.
func scoringFixture(t *testing.T) (*Server, *attemptRecord) {
	t.Helper()
	s := testServer()

	single := s.insertQuestion(model.QuestionRequest{
		Content: "single",
		Type:    model.QuestionTypeSingle,
		Options: []model.AnswerOption{
			{Key: "A", Content: "a"}, {Key: "B", Content: "b"},
		},
		CorrectAnswers: []string{"B"},
		Difficulty:     "Easy",
	})
	multiple := s.insertQuestion(model.QuestionRequest{
		Content: "multiple",
		Type:    model.QuestionTypeMultiple,
		Options: []model.AnswerOption{
			{Key: "A", Content: "a"}, {Key: "B", Content: "b"}, {Key: "C", Content: "c"},
		},
		CorrectAnswers: []string{"A", "C"},
		Difficulty:     "Hard",
	})
	exam := s.insertExam(model.ExamRequest{
		Title:       "fixture",
		Duration:    10,
		IsActive:    true,
		QuestionIDs: []string{single.ID, multiple.ID},
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	return s, &attemptRecord{
		Attempt: model.Attempt{
			AttemptID: "att-1",
			ExamID:    exam.ID,
			Title:     exam.Title,
			Duration:  exam.Duration,
			StartedAt: now,
			ExpiredAt: now.Add(10 * time.Minute),
			Questions: s.paperForLocked(exam),
		},
		UserID: "u-1",
	}
}

func TestScoreAllCorrect(t *testing.T) {
	s, att := scoringFixture(t)

	answers := []model.SubmitAnswer{
		{QuestionID: att.Questions[0].ID, SelectedAnswers: []string{"B"}},
		{QuestionID: att.Questions[1].ID, SelectedAnswers: []string{"C", "A"}}, // order must not matter
	}

	s.mu.Lock()
	detail := s.scoreLocked(att, answers, time.Now())
	s.mu.Unlock()

	if detail.MaxScore != 15 { // Easy 5 + Hard 10
		t.Errorf("max = %.1f, want 15", detail.MaxScore)
	}
	if detail.TotalScore != 15 {
		t.Errorf("total = %.1f, want 15", detail.TotalScore)
	}
	for _, q := range detail.Questions {
		if !q.IsCorrect {
			t.Errorf("question %q wrong: %v vs %v", q.Content, q.UserAnswers, q.CorrectAnswers)
		}
	}
}

func TestScoreNoPartialCredit(t *testing.T) {
	s, att := scoringFixture(t)

	// One of two correct keys selected scores zero, as does a superset.
	for _, sel := range [][]string{{"A"}, {"A", "B", "C"}} {
		answers := []model.SubmitAnswer{
			{QuestionID: att.Questions[1].ID, SelectedAnswers: sel},
		}
		s.mu.Lock()
		detail := s.scoreLocked(att, answers, time.Now())
		s.mu.Unlock()

		if detail.TotalScore != 0 {
			t.Errorf("selection %v scored %.1f, want 0", sel, detail.TotalScore)
		}
	}
}

func TestScoreOmittedEqualsEmpty(t *testing.T) {
	s, att := scoringFixture(t)

	omitted := []model.SubmitAnswer{
		{QuestionID: att.Questions[0].ID, SelectedAnswers: []string{"B"}},
	}
	explicit := []model.SubmitAnswer{
		{QuestionID: att.Questions[0].ID, SelectedAnswers: []string{"B"}},
		{QuestionID: att.Questions[1].ID, SelectedAnswers: nil},
	}

	s.mu.Lock()
	a := s.scoreLocked(att, omitted, time.Now())
	b := s.scoreLocked(att, explicit, time.Now())
	s.mu.Unlock()

	if a.TotalScore != b.TotalScore {
		t.Errorf("omitted scored %.1f, explicit empty %.1f", a.TotalScore, b.TotalScore)
	}
	// Both breakdowns still cover the whole paper.
	if len(a.Questions) != 2 || len(b.Questions) != 2 {
		t.Errorf("breakdown sizes = %d, %d, want 2", len(a.Questions), len(b.Questions))
	}
}

func TestTimeTakenCappedAtDuration(t *testing.T) {
	_, att := scoringFixture(t)

	if got := timeTaken(att, att.StartedAt.Add(90*time.Second)); got != 90 {
		t.Errorf("taken = %d, want 90", got)
	}
	// A late auto-submit never reports overtime.
	if got := timeTaken(att, att.StartedAt.Add(11*time.Minute)); got != 600 {
		t.Errorf("late taken = %d, want 600", got)
	}
	if got := timeTaken(att, att.StartedAt.Add(-time.Second)); got != 0 {
		t.Errorf("negative taken = %d, want 0", got)
	}
}

func TestSetEqual(t *testing.T) {
	cases := []struct {
		a, b []string
		want bool
	}{
		{nil, nil, true},
		{[]string{"A"}, []string{"A"}, true},
		{[]string{"A", "C"}, []string{"C", "A"}, true},
		{[]string{"A", "A", "C"}, []string{"C", "A"}, true},
		{[]string{"A"}, []string{"B"}, false},
		{[]string{"A"}, []string{"A", "B"}, false},
		{[]string{"A", "B"}, nil, false},
	}
	for _, tc := range cases {
		if got := setEqual(tc.a, tc.b); got != tc.want {
			t.Errorf("setEqual(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestExamTotalScoreDefaultsToPaperSum(t *testing.T) {
	s := testServer()

	q := s.insertQuestion(model.QuestionRequest{
		Content:        "q",
		Type:           model.QuestionTypeSingle,
		Options:        []model.AnswerOption{{Key: "A", Content: "a"}, {Key: "B", Content: "b"}},
		CorrectAnswers: []string{"A"},
		Difficulty:     "Medium",
	})
	exam := s.insertExam(model.ExamRequest{
		Title:       "defaults",
		Duration:    5,
		QuestionIDs: []string{q.ID},
	})

	if exam.TotalScore != 7 {
		t.Errorf("total score = %.1f, want the Medium question's 7", exam.TotalScore)
	}
	if exam.QuestionCount != 1 {
		t.Errorf("question count = %d, want 1", exam.QuestionCount)
	}
}
