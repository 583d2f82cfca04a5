package stubgw

import (
	"strings"
	"testing"

	"github.com/quizdeck/quizdeck-client/internal/model"
)

func TestParseQuestionText(t *testing.T) {
	doc := `
Some preamble the instructor left in the file.

Q: What does TLS provide?
A) Compression
*B) Encryption in transit

Q: Which are transport protocols?
*A) TCP
B) IP
*C) UDP
`
	questions, err := parseQuestionText(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("parsed %d questions, want 2", len(questions))
	}

	first := questions[0]
	if first.Type != model.QuestionTypeSingle {
		t.Errorf("first type = %s, want Single", first.Type)
	}
	if len(first.Options) != 2 || first.Options[1].Content != "Encryption in transit" {
		t.Errorf("first options = %+v", first.Options)
	}
	if len(first.CorrectAnswers) != 1 || first.CorrectAnswers[0] != "B" {
		t.Errorf("first correct = %v, want [B]", first.CorrectAnswers)
	}

	second := questions[1]
	if second.Type != model.QuestionTypeMultiple {
		t.Errorf("second type = %s, want Multiple", second.Type)
	}
	if len(second.CorrectAnswers) != 2 {
		t.Errorf("second correct = %v, want two keys", second.CorrectAnswers)
	}
}

func TestParseQuestionTextRejectsBadDocs(t *testing.T) {
	cases := map[string]string{
		"no starred option": "Q: q\nA) a\nB) b\n",
		"single option":     "Q: q\n*A) a\n",
		"orphan option":     "*A) a\n",
	}
	for name, doc := range cases {
		if _, err := parseQuestionText(strings.NewReader(doc)); err == nil {
			t.Errorf("%s: parsed without error", name)
		}
	}
}

func TestParseQuestionTextEmptyDoc(t *testing.T) {
	questions, err := parseQuestionText(strings.NewReader("just prose, no drill format"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(questions) != 0 {
		t.Errorf("parsed %d questions from prose, want 0", len(questions))
	}
}

func TestParseOptionLine(t *testing.T) {
	cases := []struct {
		line    string
		key     string
		content string
		correct bool
		ok      bool
	}{
		{"A) plain", "A", "plain", false, true},
		{"*C) starred", "C", "starred", true, true},
		{"* D) spaced star", "D", "spaced star", true, true},
		{"1) numeric key", "", "", false, false},
		{"no marker", "", "", false, false},
	}
	for _, tc := range cases {
		key, content, correct, ok := parseOptionLine(tc.line)
		if ok != tc.ok || key != tc.key || content != tc.content || correct != tc.correct {
			t.Errorf("parseOptionLine(%q) = %q,%q,%v,%v", tc.line, key, content, correct, ok)
		}
	}
}
