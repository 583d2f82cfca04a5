package stubgw

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/quizdeck/quizdeck-client/internal/model"
	"github.com/quizdeck/quizdeck-client/internal/response"
	"github.com/quizdeck/quizdeck-client/internal/validator"
)

// GET /admin/questions
func (s *Server) listQuestions(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.AdminQuestion, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	response.Success(c, http.StatusOK, out)
}

// GET /admin/questions/:id
func (s *Server) getQuestion(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[c.Param("id")]
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, *q)
}

// POST /admin/questions
func (s *Server) createQuestion(c *gin.Context) {
	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if fields := validateQuestion(&req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q := s.insertQuestion(req)
	response.Success(c, http.StatusCreated, *q)
}

// validateQuestion enforces cross-field rules binding tags cannot:
// correct keys must exist among the options, and Single questions take
// exactly one correct key.
func validateQuestion(req *model.QuestionRequest) map[string]string {
	keys := make(map[string]bool, len(req.Options))
	for _, opt := range req.Options {
		keys[opt.Key] = true
	}
	for _, k := range req.CorrectAnswers {
		if !keys[k] {
			return map[string]string{"correctAnswers": "key " + k + " is not one of the options"}
		}
	}
	if req.Type == model.QuestionTypeSingle && len(req.CorrectAnswers) != 1 {
		return map[string]string{"correctAnswers": "Single questions take exactly one correct answer"}
	}
	return nil
}

// PUT /admin/questions/:id
func (s *Server) updateQuestion(c *gin.Context) {
	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if fields := validateQuestion(&req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[c.Param("id")]
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	q.Content = req.Content
	q.Type = req.Type
	q.Options = req.Options
	q.CorrectAnswers = req.CorrectAnswers
	q.Explanation = req.Explanation
	q.Category = req.Category
	q.Difficulty = req.Difficulty
	q.AudioURL = req.AudioURL
	q.ImageURL = req.ImageURL

	response.Success(c, http.StatusOK, *q)
}

// DELETE /admin/questions/:id
func (s *Server) deleteQuestion(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[c.Param("id")]; !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	delete(s.questions, c.Param("id"))

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /admin/exams
func (s *Server) adminListExams(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.AdminExam, 0, len(s.exams))
	for _, e := range s.exams {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	response.Success(c, http.StatusOK, out)
}

// GET /admin/exams/:id
func (s *Server) adminGetExam(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.exams[c.Param("id")]
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, *e)
}

// POST /admin/exams
func (s *Server) createExam(c *gin.Context) {
	var req model.ExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	e := s.insertExam(req)
	response.Success(c, http.StatusCreated, *e)
}

// PUT /admin/exams/:id
func (s *Server) updateExam(c *gin.Context) {
	var req model.ExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.exams[c.Param("id")]
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	e.Title = req.Title
	e.Description = req.Description
	e.Duration = req.Duration
	e.IsActive = req.IsActive
	e.IsRandom = req.IsRandom
	e.QuestionIDs = req.QuestionIDs
	e.Categories = req.Categories
	e.QuestionCount = req.QuestionCount
	if !e.IsRandom {
		e.QuestionCount = len(e.QuestionIDs)
	}
	e.TotalScore = req.TotalScore
	if e.TotalScore == 0 {
		e.TotalScore = s.examMaxScoreLocked(e)
	}

	response.Success(c, http.StatusOK, *e)
}

// DELETE /admin/exams/:id
func (s *Server) deleteExam(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exams[c.Param("id")]; !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	delete(s.exams, c.Param("id"))

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /admin/users
func (s *Server) listUsers(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.AdminUser, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.AdminUser)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	response.Success(c, http.StatusOK, out)
}

// PUT /admin/users/:id/role
func (s *Server) updateUserRole(c *gin.Context) {
	var req model.UpdateRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[c.Param("id")]
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	u.Role = req.Role

	response.Success(c, http.StatusOK, u.AdminUser)
}

// PUT /admin/users/:id/toggle-active
func (s *Server) toggleUserActive(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[c.Param("id")]
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	u.IsActive = !u.IsActive

	response.Success(c, http.StatusOK, u.AdminUser)
}

// DELETE /admin/users/:id
func (s *Server) deleteUser(c *gin.Context) {
	claims := getClaims(c)
	id := c.Param("id")
	if id == claims.UserID {
		response.Fail(c, http.StatusBadRequest, response.ErrConflict)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	delete(s.emails, emailKey(u.Email))
	delete(s.users, id)

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
