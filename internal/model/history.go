package model

import "time"

// HistoryItem is one completed submission in an exam-history listing.
type HistoryItem struct {
	SubmissionID   string    `json:"submissionId"`
	ExamID         string    `json:"examId"`
	ExamTitle      string    `json:"examTitle"`
	UserID         string    `json:"userId"`
	Username       string    `json:"username"`
	UserEmail      string    `json:"userEmail,omitempty"`
	TotalScore     float64   `json:"totalScore"`
	MaxScore       float64   `json:"maxScore"`
	Percentage     float64   `json:"percentage"`
	TimeTaken      int       `json:"timeTaken"` // seconds
	Duration       int       `json:"duration"`  // minutes
	SubmittedAt    time.Time `json:"submittedAt"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
}

// HistoryList is a page of history items.
type HistoryList struct {
	Items      []HistoryItem `json:"items"`
	TotalCount int           `json:"totalCount"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
}

// SubmissionDetail is a fully expanded submission for review,
// including the per-question breakdown.
type SubmissionDetail struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Username    string           `json:"username"`
	UserEmail   string           `json:"userEmail,omitempty"`
	ExamID      string           `json:"examId"`
	ExamTitle   string           `json:"examTitle"`
	TotalScore  float64          `json:"totalScore"`
	MaxScore    float64          `json:"maxScore"`
	Questions   []QuestionResult `json:"questions"`
	SubmittedAt time.Time        `json:"submittedAt"`
	TimeTaken   int              `json:"timeTaken"`
}
