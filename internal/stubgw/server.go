// Package stubgw is an in-memory reference implementation of the exam
// platform gateway contract. The SDK's integration tests run against
// it and the gateway-stub binary serves it as a dev fixture; it keeps
// no durable state on purpose.
package stubgw

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizdeck/quizdeck-client/internal/config"
	"github.com/quizdeck/quizdeck-client/internal/model"
)

// userRecord is an account plus the fields the public DTOs omit.
type userRecord struct {
	model.AdminUser
	PasswordHash string
	Gender       string
	DateOfBirth  string
}

// attemptRecord is one attempt plus server-side bookkeeping.
type attemptRecord struct {
	model.Attempt
	UserID    string
	Progress  []model.AttemptAnswer
	Submitted bool
}

// Server holds the whole in-memory gateway state.
type Server struct {
	cfg *config.Config
	log zerolog.Logger

	mu          sync.RWMutex
	users       map[string]*userRecord // by user id
	emails      map[string]string      // lower(email) -> user id
	questions   map[string]*model.AdminQuestion
	exams       map[string]*model.AdminExam
	attempts    map[string]*attemptRecord
	submissions map[string]*model.SubmissionDetail
	otps        map[string]string // lower(email) -> code
}

// New creates an empty gateway. Call Seed for demo data.
func New(cfg *config.Config, log zerolog.Logger) *Server {
	return &Server{
		cfg:         cfg,
		log:         log.With().Str("component", "stubgw").Logger(),
		users:       make(map[string]*userRecord),
		emails:      make(map[string]string),
		questions:   make(map[string]*model.AdminQuestion),
		exams:       make(map[string]*model.AdminExam),
		attempts:    make(map[string]*attemptRecord),
		submissions: make(map[string]*model.SubmissionDetail),
		otps:        make(map[string]string),
	}
}

// addUser registers an account. Caller must not hold the lock.
func (s *Server) addUser(username, email, password, role string) (*userRecord, bool) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(email)
	if _, taken := s.emails[key]; taken {
		return nil, false
	}

	u := &userRecord{
		AdminUser: model.AdminUser{
			ID:        uuid.New().String(),
			Username:  username,
			Email:     email,
			Role:      role,
			IsActive:  true,
			CreatedAt: time.Now(),
		},
		PasswordHash: string(hash),
	}
	s.users[u.ID] = u
	s.emails[key] = u.ID
	return u, true
}

func emailKey(email string) string {
	return strings.ToLower(email)
}

func (s *Server) userByEmail(email string) *userRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.emails[emailKey(email)]; ok {
		return s.users[id]
	}
	return nil
}

func (s *Server) profile(u *userRecord) model.User {
	return model.User{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		Gender:      u.Gender,
		DateOfBirth: u.DateOfBirth,
	}
}

// OTPFor exposes the pending reset code for an email. Test hook.
func (s *Server) OTPFor(email string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.otps[emailKey(email)]
}

// Seed loads a demo admin, a demo user, a small question bank and one
// active exam. Returns the seeded exam id.
func (s *Server) Seed() string {
	s.addUser("admin", "admin@quizdeck.local", "admin123", model.RoleAdmin)
	s.addUser("demo", "demo@quizdeck.local", "demo123", model.RoleUser)

	bank := []model.QuestionRequest{
		{
			Content: "Which layer of the TCP/IP model does TCP belong to?",
			Type:    model.QuestionTypeSingle,
			Options: []model.AnswerOption{
				{Key: "A", Content: "Link"},
				{Key: "B", Content: "Internet"},
				{Key: "C", Content: "Transport"},
				{Key: "D", Content: "Application"},
			},
			CorrectAnswers: []string{"C"},
			Explanation:    "TCP provides reliable transport between hosts.",
			Category:       "Networking",
			Difficulty:     "Easy",
		},
		{
			Content: "Which of the following are valid HTTP methods?",
			Type:    model.QuestionTypeMultiple,
			Options: []model.AnswerOption{
				{Key: "A", Content: "GET"},
				{Key: "B", Content: "FETCH"},
				{Key: "C", Content: "PUT"},
				{Key: "D", Content: "SEND"},
			},
			CorrectAnswers: []string{"A", "C"},
			Category:       "Networking",
			Difficulty:     "Medium",
		},
		{
			Content: "What does DNS resolve?",
			Type:    model.QuestionTypeSingle,
			Options: []model.AnswerOption{
				{Key: "A", Content: "Names to addresses"},
				{Key: "B", Content: "Addresses to routes"},
				{Key: "C", Content: "Ports to services"},
			},
			CorrectAnswers: []string{"A"},
			Category:       "Networking",
			Difficulty:     "Easy",
		},
	}

	ids := make([]string, 0, len(bank))
	for _, req := range bank {
		q := s.insertQuestion(req)
		ids = append(ids, q.ID)
	}

	exam := s.insertExam(model.ExamRequest{
		Title:       "Networking Basics",
		Description: "Seeded demo exam",
		Duration:    10,
		IsActive:    true,
		QuestionIDs: ids,
	})
	return exam.ID
}

func (s *Server) insertQuestion(req model.QuestionRequest) *model.AdminQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := &model.AdminQuestion{
		ID:             uuid.New().String(),
		Content:        req.Content,
		Type:           req.Type,
		Options:        req.Options,
		CorrectAnswers: req.CorrectAnswers,
		Explanation:    req.Explanation,
		Category:       req.Category,
		Difficulty:     req.Difficulty,
		AudioURL:       req.AudioURL,
		ImageURL:       req.ImageURL,
		IsActive:       true,
		CreatedAt:      time.Now(),
	}
	s.questions[q.ID] = q
	return q
}

func (s *Server) insertExam(req model.ExamRequest) *model.AdminExam {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &model.AdminExam{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Description:   req.Description,
		Duration:      req.Duration,
		TotalScore:    req.TotalScore,
		IsActive:      req.IsActive,
		IsRandom:      req.IsRandom,
		QuestionCount: req.QuestionCount,
		QuestionIDs:   req.QuestionIDs,
		Categories:    req.Categories,
		CreatedAt:     time.Now(),
	}
	if !e.IsRandom {
		e.QuestionCount = len(e.QuestionIDs)
	}
	if e.TotalScore == 0 {
		e.TotalScore = s.examMaxScoreLocked(e)
	}
	s.exams[e.ID] = e
	return e
}

// examMaxScoreLocked sums the scores of an exam's fixed paper. Random
// exams keep the configured TotalScore. Caller holds the lock.
func (s *Server) examMaxScoreLocked(e *model.AdminExam) float64 {
	var total float64
	for _, qid := range e.QuestionIDs {
		if q, ok := s.questions[qid]; ok {
			total += questionScore(q)
		}
	}
	return total
}

// questionScore maps difficulty to points.
func questionScore(q *model.AdminQuestion) float64 {
	switch q.Difficulty {
	case "Hard":
		return 10
	case "Medium":
		return 7
	default:
		return 5
	}
}
