package stubgw

import (
	"time"

	"github.com/google/uuid"

	"github.com/quizdeck/quizdeck-client/internal/model"
)

// scoreLocked grades one submission against the attempt's fixed paper.
// Every question of the paper appears in the breakdown; a question the
// payload omits is graded exactly like one submitted with an empty
// answer set, so clients may use either representation. Full marks are
// awarded iff the selected set equals the correct set; there is no
// partial credit. Caller holds the lock.
func (s *Server) scoreLocked(att *attemptRecord, answers []model.SubmitAnswer, now time.Time) *model.SubmissionDetail {
	selected := make(map[string][]string, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.SelectedAnswers
	}

	var u *userRecord
	if rec, ok := s.users[att.UserID]; ok {
		u = rec
	}

	detail := &model.SubmissionDetail{
		ID:          uuid.New().String(),
		UserID:      att.UserID,
		ExamID:      att.ExamID,
		ExamTitle:   att.Title,
		SubmittedAt: now,
		TimeTaken:   timeTaken(att, now),
	}
	if u != nil {
		detail.Username = u.Username
		detail.UserEmail = u.Email
	}

	for _, q := range att.Questions {
		bankQ := s.questions[q.ID]
		var correct []string
		var explanation string
		if bankQ != nil {
			correct = bankQ.CorrectAnswers
			explanation = bankQ.Explanation
		}

		userAnswers := selected[q.ID]
		isCorrect := len(correct) > 0 && setEqual(userAnswers, correct)

		var earned float64
		if isCorrect {
			earned = q.Score
		}

		detail.MaxScore += q.Score
		detail.TotalScore += earned
		detail.Questions = append(detail.Questions, model.QuestionResult{
			ID:             q.ID,
			Content:        q.Content,
			Options:        q.Options,
			CorrectAnswers: correct,
			UserAnswers:    userAnswers,
			IsCorrect:      isCorrect,
			Score:          earned,
			Explanation:    explanation,
		})
	}

	return detail
}

// timeTaken is the attempt's wall time in seconds, capped at the exam
// duration so a late auto-submit does not report overtime.
func timeTaken(att *attemptRecord, now time.Time) int {
	taken := int(now.Sub(att.StartedAt) / time.Second)
	limit := att.Duration * 60
	if taken > limit {
		return limit
	}
	if taken < 0 {
		return 0
	}
	return taken
}

// setEqual compares two key sets ignoring order and duplicates.
func setEqual(a, b []string) bool {
	seen := make(map[string]bool, len(a))
	for _, k := range a {
		seen[k] = true
	}
	want := make(map[string]bool, len(b))
	for _, k := range b {
		want[k] = true
	}
	if len(seen) != len(want) {
		return false
	}
	for k := range want {
		if !seen[k] {
			return false
		}
	}
	return true
}
