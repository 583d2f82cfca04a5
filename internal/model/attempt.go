package model

import "time"

// Attempt is one in-progress exam session as returned by the gateway's
// start operation. All fields are fixed for the attempt's lifetime;
// ExpiredAt is the authoritative deadline; remaining time is always
// derived from it, never accumulated locally.
type Attempt struct {
	AttemptID string     `json:"attemptId"`
	ExamID    string     `json:"examId"`
	Title     string     `json:"title"`
	Duration  int        `json:"duration"` // minutes
	StartedAt time.Time  `json:"startedAt"`
	ExpiredAt time.Time  `json:"expiredAt"`
	Questions []Question `json:"questions"`
}

// AttemptAnswer is one entry of an autosave snapshot.
type AttemptAnswer struct {
	QuestionID      string   `json:"questionId"`
	SelectedAnswers []string `json:"selectedAnswers"`
	MarkedForReview bool     `json:"markedForReview"`
}

// SaveProgressRequest is the autosave payload keyed by attempt.
type SaveProgressRequest struct {
	Answers []AttemptAnswer `json:"answers"`
}

// SubmitAnswer is one entry of the final submission payload. Review
// flags are advisory and are not part of the submit contract.
type SubmitAnswer struct {
	QuestionID      string   `json:"questionId"`
	SelectedAnswers []string `json:"selectedAnswers"`
}

// SubmitExamRequest is the terminal submission payload.
type SubmitExamRequest struct {
	Answers []SubmitAnswer `json:"answers"`
}
