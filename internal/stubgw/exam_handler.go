package stubgw

import (
	"math/rand"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quizdeck/quizdeck-client/internal/model"
	"github.com/quizdeck/quizdeck-client/internal/response"
	"github.com/quizdeck/quizdeck-client/internal/validator"
)

// submitGrace tolerates the lag between client-side expiry and the
// auto-submit request arriving.
const submitGrace = 30 * time.Second

// GET /exams
func (s *Server) listExams(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ExamSummary, 0, len(s.exams))
	for _, e := range s.exams {
		if !e.IsActive {
			continue
		}
		out = append(out, model.ExamSummary{
			ID:            e.ID,
			Title:         e.Title,
			Description:   e.Description,
			Duration:      e.Duration,
			TotalScore:    e.TotalScore,
			QuestionCount: e.QuestionCount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })

	response.Success(c, http.StatusOK, out)
}

// paperFor assembles the fixed question list for a new attempt,
// stripping correct answers. Caller holds the lock.
func (s *Server) paperForLocked(e *model.AdminExam) []model.Question {
	var bank []*model.AdminQuestion
	if e.IsRandom {
		wanted := make(map[string]bool, len(e.Categories))
		for _, cat := range e.Categories {
			wanted[cat] = true
		}
		for _, q := range s.questions {
			if q.IsActive && (len(wanted) == 0 || wanted[q.Category]) {
				bank = append(bank, q)
			}
		}
		rand.Shuffle(len(bank), func(i, j int) { bank[i], bank[j] = bank[j], bank[i] })
		if e.QuestionCount > 0 && len(bank) > e.QuestionCount {
			bank = bank[:e.QuestionCount]
		}
	} else {
		for _, qid := range e.QuestionIDs {
			if q, ok := s.questions[qid]; ok && q.IsActive {
				bank = append(bank, q)
			}
		}
	}

	paper := make([]model.Question, 0, len(bank))
	for i, q := range bank {
		paper = append(paper, model.Question{
			ID:       q.ID,
			Content:  q.Content,
			Type:     q.Type,
			Options:  q.Options,
			Score:    questionScore(q),
			Order:    i + 1,
			AudioURL: q.AudioURL,
			ImageURL: q.ImageURL,
		})
	}
	return paper
}

// POST /exams/:exam_id/start
func (s *Server) startExam(c *gin.Context) {
	claims := getClaims(c)
	examID := c.Param("exam_id")
	if _, err := uuid.Parse(examID); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.exams[examID]
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if !e.IsActive {
		response.Fail(c, http.StatusBadRequest, response.ErrExamNotAvailable)
		return
	}

	paper := s.paperForLocked(e)
	if len(paper) == 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrNoQuestions)
		return
	}

	now := time.Now()
	att := &attemptRecord{
		Attempt: model.Attempt{
			AttemptID: uuid.New().String(),
			ExamID:    e.ID,
			Title:     e.Title,
			Duration:  e.Duration,
			StartedAt: now,
			ExpiredAt: now.Add(time.Duration(e.Duration) * time.Minute),
			Questions: paper,
		},
		UserID: claims.UserID,
	}
	s.attempts[att.AttemptID] = att

	response.Success(c, http.StatusOK, att.Attempt)
}

// ownedAttempt looks up an attempt and checks ownership. Caller holds
// the lock.
func (s *Server) ownedAttemptLocked(c *gin.Context) *attemptRecord {
	claims := getClaims(c)
	att, ok := s.attempts[c.Param("attempt_id")]
	if !ok || att.UserID != claims.UserID {
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
		return nil
	}
	return att
}

// PUT /attempts/:attempt_id/save
func (s *Server) saveProgress(c *gin.Context) {
	var req model.SaveProgressRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	att := s.ownedAttemptLocked(c)
	if att == nil {
		return
	}
	if att.Submitted {
		response.Fail(c, http.StatusConflict, response.ErrAttemptFinished)
		return
	}

	// Idempotent overwrite: the latest snapshot wins outright.
	att.Progress = req.Answers

	response.Success(c, http.StatusOK, gin.H{"saved": len(req.Answers)})
}

// POST /attempts/:attempt_id/submit
func (s *Server) submitExam(c *gin.Context) {
	var req model.SubmitExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	att := s.ownedAttemptLocked(c)
	if att == nil {
		return
	}
	if att.Submitted {
		response.Fail(c, http.StatusConflict, response.ErrAttemptFinished)
		return
	}

	now := time.Now()
	if now.After(att.ExpiredAt.Add(submitGrace)) {
		response.Fail(c, http.StatusBadRequest, response.ErrAttemptExpired)
		return
	}

	detail := s.scoreLocked(att, req.Answers, now)
	att.Submitted = true

	s.submissions[detail.ID] = detail

	response.Success(c, http.StatusOK, resultFromDetail(detail))
}

// GET /results/:submission_id
func (s *Server) getResult(c *gin.Context) {
	claims := getClaims(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	detail, ok := s.submissions[c.Param("submission_id")]
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if detail.UserID != claims.UserID && claims.Role != model.RoleAdmin {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	res := resultFromDetail(detail)
	res.Questions = detail.Questions
	response.Success(c, http.StatusOK, res)
}

// GET /history
func (s *Server) history(c *gin.Context) {
	claims := getClaims(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ExamResult, 0)
	for _, detail := range s.submissions {
		if detail.UserID != claims.UserID {
			continue
		}
		out = append(out, resultFromDetail(detail))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })

	response.Success(c, http.StatusOK, out)
}

func resultFromDetail(d *model.SubmissionDetail) model.ExamResult {
	return model.ExamResult{
		SubmissionID: d.ID,
		ExamTitle:    d.ExamTitle,
		TotalScore:   d.TotalScore,
		MaxScore:     d.MaxScore,
		TimeTaken:    d.TimeTaken,
		SubmittedAt:  d.SubmittedAt,
	}
}
