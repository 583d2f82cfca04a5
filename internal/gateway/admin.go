package gateway

import (
	"context"
	"net/http"

	"github.com/quizdeck/quizdeck-client/internal/model"
)

// ListQuestions returns the full question bank (admin only).
func (c *Client) ListQuestions(ctx context.Context) ([]model.AdminQuestion, error) {
	var out []model.AdminQuestion
	if err := c.get(ctx, "/admin/questions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetQuestion fetches one question-bank entry.
func (c *Client) GetQuestion(ctx context.Context, id string) (*model.AdminQuestion, error) {
	var out model.AdminQuestion
	if err := c.get(ctx, "/admin/questions/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateQuestion adds a question to the bank.
func (c *Client) CreateQuestion(ctx context.Context, req model.QuestionRequest) (*model.AdminQuestion, error) {
	var out model.AdminQuestion
	if err := c.do(ctx, http.MethodPost, "/admin/questions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateQuestion replaces a question-bank entry.
func (c *Client) UpdateQuestion(ctx context.Context, id string, req model.QuestionRequest) error {
	return c.do(ctx, http.MethodPut, "/admin/questions/"+id, req, nil)
}

// DeleteQuestion removes a question from the bank.
func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/questions/"+id, nil, nil)
}

// ListExams returns all exam definitions (admin only).
func (c *Client) ListExams(ctx context.Context) ([]model.AdminExam, error) {
	var out []model.AdminExam
	if err := c.get(ctx, "/admin/exams", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetExam fetches one exam definition.
func (c *Client) GetExam(ctx context.Context, id string) (*model.AdminExam, error) {
	var out model.AdminExam
	if err := c.get(ctx, "/admin/exams/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateExam adds an exam definition.
func (c *Client) CreateExam(ctx context.Context, req model.ExamRequest) (*model.AdminExam, error) {
	var out model.AdminExam
	if err := c.do(ctx, http.MethodPost, "/admin/exams", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateExam replaces an exam definition.
func (c *Client) UpdateExam(ctx context.Context, id string, req model.ExamRequest) error {
	return c.do(ctx, http.MethodPut, "/admin/exams/"+id, req, nil)
}

// DeleteExam removes an exam definition.
func (c *Client) DeleteExam(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/exams/"+id, nil, nil)
}

// ListUsers returns all accounts (admin only).
func (c *Client) ListUsers(ctx context.Context) ([]model.AdminUser, error) {
	var out []model.AdminUser
	if err := c.get(ctx, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateUserRole changes an account's role.
func (c *Client) UpdateUserRole(ctx context.Context, id, role string) error {
	return c.do(ctx, http.MethodPut, "/admin/users/"+id+"/role", model.UpdateRoleRequest{Role: role}, nil)
}

// ToggleUserActive flips an account's active flag.
func (c *Client) ToggleUserActive(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/admin/users/"+id+"/toggle-active", nil, nil)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+id, nil, nil)
}
