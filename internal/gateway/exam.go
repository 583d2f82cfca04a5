package gateway

import (
	"context"
	"net/http"

	"github.com/quizdeck/quizdeck-client/internal/model"
)

// ListActiveExams returns the exams currently open for taking.
func (c *Client) ListActiveExams(ctx context.Context) ([]model.ExamSummary, error) {
	var out []model.ExamSummary
	if err := c.get(ctx, "/exams", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StartExam opens a new attempt. The returned question list and
// expiry timestamp are fixed for the attempt's lifetime.
func (c *Client) StartExam(ctx context.Context, examID string) (*model.Attempt, error) {
	var out model.Attempt
	if err := c.do(ctx, http.MethodPost, "/exams/"+examID+"/start", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveProgress overwrites the stored progress for an attempt. The
// operation is an idempotent overwrite: stale saves are simply
// superseded by later ones.
func (c *Client) SaveProgress(ctx context.Context, attemptID string, answers []model.AttemptAnswer) error {
	req := model.SaveProgressRequest{Answers: answers}
	return c.do(ctx, http.MethodPut, "/attempts/"+attemptID+"/save", req, nil)
}

// SubmitExam finalizes an attempt and returns the scored result.
func (c *Client) SubmitExam(ctx context.Context, attemptID string, answers []model.SubmitAnswer) (*model.ExamResult, error) {
	req := model.SubmitExamRequest{Answers: answers}
	var out model.ExamResult
	if err := c.do(ctx, http.MethodPost, "/attempts/"+attemptID+"/submit", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetResult fetches a scored submission with its per-question breakdown.
func (c *Client) GetResult(ctx context.Context, submissionID string) (*model.ExamResult, error) {
	var out model.ExamResult
	if err := c.get(ctx, "/results/"+submissionID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetHistory returns the caller's completed submissions, newest first.
func (c *Client) GetHistory(ctx context.Context) ([]model.ExamResult, error) {
	var out []model.ExamResult
	if err := c.get(ctx, "/history", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
