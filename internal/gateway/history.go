package gateway

import (
	"context"
	"net/url"
	"strconv"

	"github.com/quizdeck/quizdeck-client/internal/model"
)

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	return q
}

// MyHistory returns the caller's paginated exam history.
func (c *Client) MyHistory(ctx context.Context, page, pageSize int) (*model.HistoryList, error) {
	var out model.HistoryList
	if err := c.get(ctx, "/exam-history/my-history", pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllHistory returns the platform-wide history, optionally filtered by
// exam or user (admin only).
func (c *Client) AllHistory(ctx context.Context, page, pageSize int, examID, userID string) (*model.HistoryList, error) {
	q := pageQuery(page, pageSize)
	if examID != "" {
		q.Set("examId", examID)
	}
	if userID != "" {
		q.Set("userId", userID)
	}

	var out model.HistoryList
	if err := c.get(ctx, "/exam-history/all", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserHistory returns one account's exam history (admin only).
func (c *Client) UserHistory(ctx context.Context, userID string, page, pageSize int) (*model.HistoryList, error) {
	var out model.HistoryList
	if err := c.get(ctx, "/exam-history/user/"+userID, pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmissionDetail returns a fully expanded submission for review.
func (c *Client) SubmissionDetail(ctx context.Context, submissionID string) (*model.SubmissionDetail, error) {
	var out model.SubmissionDetail
	if err := c.get(ctx, "/exam-history/submission/"+submissionID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
