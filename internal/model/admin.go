package model

import "time"

// AdminQuestion is a question-bank entry as seen by administrators,
// correct answers included.
type AdminQuestion struct {
	ID             string         `json:"id"`
	Content        string         `json:"content"`
	Type           QuestionType   `json:"type"`
	Options        []AnswerOption `json:"options"`
	CorrectAnswers []string       `json:"correctAnswers"`
	Explanation    string         `json:"explanation,omitempty"`
	Category       string         `json:"category"`
	Difficulty     string         `json:"difficulty"`
	AudioURL       string         `json:"audioUrl,omitempty"`
	ImageURL       string         `json:"imageUrl,omitempty"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// QuestionRequest creates or replaces a question-bank entry.
type QuestionRequest struct {
	Content        string         `json:"content" binding:"required,min=1,max=4000"`
	Type           QuestionType   `json:"type" binding:"required,oneof=Single Multiple"`
	Options        []AnswerOption `json:"options" binding:"required,min=2,dive"`
	CorrectAnswers []string       `json:"correctAnswers" binding:"required,min=1"`
	Explanation    string         `json:"explanation,omitempty"`
	Category       string         `json:"category" binding:"required"`
	Difficulty     string         `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
	AudioURL       string         `json:"audioUrl,omitempty"`
	ImageURL       string         `json:"imageUrl,omitempty"`
}

// AdminExam is an exam definition as seen by administrators.
type AdminExam struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Duration      int       `json:"duration"`
	TotalScore    float64   `json:"totalScore"`
	IsActive      bool      `json:"isActive"`
	IsRandom      bool      `json:"isRandom"`
	QuestionCount int       `json:"questionCount"`
	QuestionIDs   []string  `json:"questionIds"`
	Categories    []string  `json:"categories,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ExamRequest creates or replaces an exam definition. When IsRandom is
// set the exam draws QuestionCount questions from Categories at start;
// otherwise QuestionIDs is the fixed paper.
type ExamRequest struct {
	Title         string   `json:"title" binding:"required,min=1,max=200"`
	Description   string   `json:"description,omitempty"`
	Duration      int      `json:"duration" binding:"required,min=1,max=600"`
	TotalScore    float64  `json:"totalScore,omitempty"`
	IsActive      bool     `json:"isActive"`
	IsRandom      bool     `json:"isRandom"`
	QuestionCount int      `json:"questionCount,omitempty" binding:"omitempty,min=1"`
	QuestionIDs   []string `json:"questionIds,omitempty"`
	Categories    []string `json:"categories,omitempty"`
}

// AdminUser is an account as seen by administrators.
type AdminUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateRoleRequest changes an account's role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=User Admin"`
}

// GenerateQuestionsResponse is the AI import reply: a human-readable
// message plus any questions parsed out of the prompt or document.
type GenerateQuestionsResponse struct {
	Message   string          `json:"message"`
	Questions []AdminQuestion `json:"questions,omitempty"`
}
