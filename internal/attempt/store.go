// Package attempt implements the client-side state machine for one
// timed exam attempt: the in-memory answer store, the countdown and
// autosave tickers, and the one-shot submission finalizer.
package attempt

import (
	"sync"

	"github.com/quizdeck/quizdeck-client/internal/model"
)

// Store holds the canonical in-memory truth of what the user has
// answered and flagged during one attempt. The question list and its
// order are fixed at construction and never change.
//
// A mutex guards all state: UI callbacks mutate while the autosave
// ticker reads, and a snapshot must never observe a half-applied
// selection.
type Store struct {
	mu        sync.Mutex
	questions []model.Question
	byID      map[string]*model.Question
	answers   map[string][]string
	review    map[string]bool
	current   int
}

// NewStore builds a Store over a fixed, ordered question list.
func NewStore(questions []model.Question) *Store {
	s := &Store{
		questions: questions,
		byID:      make(map[string]*model.Question, len(questions)),
		answers:   make(map[string][]string),
		review:    make(map[string]bool),
	}
	for i := range questions {
		s.byID[questions[i].ID] = &s.questions[i]
	}
	return s
}

// Select records an option choice. For Single questions the new key
// replaces any prior selection; for Multiple it toggles membership.
// The UI only ever presents keys from the fixed question list, so an
// unknown question or key is a caller bug and is ignored.
func (s *Store) Select(questionID, optionKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.byID[questionID]
	if !ok || q.Option(optionKey) == nil {
		return
	}

	if q.Type == model.QuestionTypeSingle {
		s.answers[questionID] = []string{optionKey}
		return
	}

	current := s.answers[questionID]
	for i, k := range current {
		if k == optionKey {
			s.answers[questionID] = append(current[:i:i], current[i+1:]...)
			return
		}
	}
	s.answers[questionID] = append(current, optionKey)
}

// ToggleReview flips the advisory review flag for a question,
// independent of its answer state.
func (s *Store) ToggleReview(questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[questionID]; !ok {
		return
	}
	s.review[questionID] = !s.review[questionID]
}

// Selected returns a copy of the current selection for a question.
func (s *Store) Selected(questionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.answers[questionID]...)
}

// Marked reports whether a question carries the review flag.
func (s *Store) Marked(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.review[questionID]
}

// Snapshot produces the autosave payload: one entry, in question
// order, for every question with at least one recorded answer or a set
// review flag. Absent entries mean "unanswered, not marked". The
// returned slices are copies and never alias internal state.
func (s *Store) Snapshot() []model.AttemptAnswer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.AttemptAnswer, 0, len(s.answers))
	for i := range s.questions {
		id := s.questions[i].ID
		selected := s.answers[id]
		marked := s.review[id]
		if len(selected) == 0 && !marked {
			continue
		}
		out = append(out, model.AttemptAnswer{
			QuestionID:      id,
			SelectedAnswers: append([]string(nil), selected...),
			MarkedForReview: marked,
		})
	}
	return out
}

// ToSubmission produces the submit payload: one entry, in question
// order, for every question with at least one selection. Review flags
// are not part of the submit contract and unanswered questions are
// omitted entirely.
func (s *Store) ToSubmission() []model.SubmitAnswer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.SubmitAnswer, 0, len(s.answers))
	for i := range s.questions {
		id := s.questions[i].ID
		selected := s.answers[id]
		if len(selected) == 0 {
			continue
		}
		out = append(out, model.SubmitAnswer{
			QuestionID:      id,
			SelectedAnswers: append([]string(nil), selected...),
		})
	}
	return out
}

// Len returns the number of questions in the attempt.
func (s *Store) Len() int {
	return len(s.questions)
}

// Question returns the question at index i.
func (s *Store) Question(i int) model.Question {
	return s.questions[i]
}

// Current returns the question under the navigation pointer and its index.
func (s *Store) Current() (model.Question, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions[s.current], s.current
}

// Goto moves the navigation pointer, clamped to [0, len).
func (s *Store) Goto(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 {
		i = 0
	}
	if i >= len(s.questions) {
		i = len(s.questions) - 1
	}
	s.current = i
}

// Next advances the navigation pointer.
func (s *Store) Next() {
	_, i := s.Current()
	s.Goto(i + 1)
}

// Prev moves the navigation pointer back.
func (s *Store) Prev() {
	_, i := s.Current()
	s.Goto(i - 1)
}

// AnsweredCount returns how many questions have at least one selection.
func (s *Store) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, selected := range s.answers {
		if len(selected) > 0 {
			n++
		}
	}
	return n
}
