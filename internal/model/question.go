package model

// QuestionType distinguishes single-choice from multiple-choice questions.
type QuestionType string

const (
	QuestionTypeSingle   QuestionType = "Single"
	QuestionTypeMultiple QuestionType = "Multiple"
)

// AnswerOption is one selectable option of a question.
type AnswerOption struct {
	Key      string `json:"key"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Question is one exam item as presented to the exam taker. It never
// carries correct answers; those stay on the gateway side until the
// result is fetched.
type Question struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Type     QuestionType   `json:"type"`
	Options  []AnswerOption `json:"options"`
	Score    float64        `json:"score"`
	Order    int            `json:"order"`
	AudioURL string         `json:"audioUrl,omitempty"`
	ImageURL string         `json:"imageUrl,omitempty"`
}

// Option returns the option with the given key, or nil if absent.
func (q *Question) Option(key string) *AnswerOption {
	for i := range q.Options {
		if q.Options[i].Key == key {
			return &q.Options[i]
		}
	}
	return nil
}
