package stubgw

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizdeck/quizdeck-client/internal/model"
	"github.com/quizdeck/quizdeck-client/internal/response"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// historyItemLocked flattens a submission into a listing row. Caller
// holds the lock.
func (s *Server) historyItemLocked(d *model.SubmissionDetail) model.HistoryItem {
	correct := 0
	for _, q := range d.Questions {
		if q.IsCorrect {
			correct++
		}
	}

	var pct float64
	if d.MaxScore > 0 {
		pct = d.TotalScore / d.MaxScore * 100
	}

	duration := 0
	if e, ok := s.exams[d.ExamID]; ok {
		duration = e.Duration
	}

	return model.HistoryItem{
		SubmissionID:   d.ID,
		ExamID:         d.ExamID,
		ExamTitle:      d.ExamTitle,
		UserID:         d.UserID,
		Username:       d.Username,
		UserEmail:      d.UserEmail,
		TotalScore:     d.TotalScore,
		MaxScore:       d.MaxScore,
		Percentage:     pct,
		TimeTaken:      d.TimeTaken,
		Duration:       duration,
		SubmittedAt:    d.SubmittedAt,
		CorrectAnswers: correct,
		TotalQuestions: len(d.Questions),
	}
}

// historyPageLocked filters, sorts and pages submissions. Caller holds
// the lock.
func (s *Server) historyPageLocked(page, pageSize int, keep func(*model.SubmissionDetail) bool) model.HistoryList {
	items := make([]model.HistoryItem, 0)
	for _, d := range s.submissions {
		if keep(d) {
			items = append(items, s.historyItemLocked(d))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].SubmittedAt.After(items[j].SubmittedAt) })

	total := len(items)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return model.HistoryList{
		Items:      items[start:end],
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}
}

func historyPagination(list model.HistoryList) *response.Pagination {
	pages := (list.TotalCount + list.PageSize - 1) / list.PageSize
	return &response.Pagination{
		Page:       list.Page,
		PerPage:    list.PageSize,
		TotalItems: list.TotalCount,
		TotalPages: pages,
	}
}

// GET /exam-history/my-history
func (s *Server) myHistory(c *gin.Context) {
	claims := getClaims(c)
	page, pageSize := pageParams(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.historyPageLocked(page, pageSize, func(d *model.SubmissionDetail) bool {
		return d.UserID == claims.UserID
	})
	response.SuccessWithPagination(c, http.StatusOK, list, historyPagination(list))
}

// GET /exam-history/all
func (s *Server) allHistory(c *gin.Context) {
	page, pageSize := pageParams(c)
	examID := c.Query("examId")
	userID := c.Query("userId")

	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.historyPageLocked(page, pageSize, func(d *model.SubmissionDetail) bool {
		if examID != "" && d.ExamID != examID {
			return false
		}
		if userID != "" && d.UserID != userID {
			return false
		}
		return true
	})
	response.SuccessWithPagination(c, http.StatusOK, list, historyPagination(list))
}

// GET /exam-history/user/:user_id
func (s *Server) userHistory(c *gin.Context) {
	userID := c.Param("user_id")
	page, pageSize := pageParams(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.users[userID]; !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	list := s.historyPageLocked(page, pageSize, func(d *model.SubmissionDetail) bool {
		return d.UserID == userID
	})
	response.SuccessWithPagination(c, http.StatusOK, list, historyPagination(list))
}

// GET /exam-history/submission/:submission_id
func (s *Server) submissionDetail(c *gin.Context) {
	claims := getClaims(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.submissions[c.Param("submission_id")]
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if d.UserID != claims.UserID && claims.Role != model.RoleAdmin {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	response.Success(c, http.StatusOK, d)
}
