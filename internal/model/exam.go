package model

import "time"

// ExamSummary is an exam as listed for takers.
type ExamSummary struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	Duration      int     `json:"duration"` // minutes
	TotalScore    float64 `json:"totalScore"`
	QuestionCount int     `json:"questionCount"`
}

// QuestionResult is the per-question correctness breakdown of a scored
// submission, used by the result view.
type QuestionResult struct {
	ID             string         `json:"id"`
	Content        string         `json:"content"`
	Options        []AnswerOption `json:"options"`
	CorrectAnswers []string       `json:"correctAnswers"`
	UserAnswers    []string       `json:"userAnswers"`
	IsCorrect      bool           `json:"isCorrect"`
	Score          float64        `json:"score"`
	Explanation    string         `json:"explanation,omitempty"`
}

// ExamResult is a scored submission. It is immutable once returned by
// the gateway. Questions is populated only by the result detail view.
type ExamResult struct {
	SubmissionID string           `json:"submissionId"`
	ExamTitle    string           `json:"examTitle"`
	TotalScore   float64          `json:"totalScore"`
	MaxScore     float64          `json:"maxScore"`
	TimeTaken    int              `json:"timeTaken"` // seconds
	SubmittedAt  time.Time        `json:"submittedAt"`
	Questions    []QuestionResult `json:"questions,omitempty"`
}
