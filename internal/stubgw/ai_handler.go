package stubgw

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quizdeck/quizdeck-client/internal/model"
	"github.com/quizdeck/quizdeck-client/internal/response"
)

var generateExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// POST /ai-question/generate
//
// The real platform hands the document to an LLM. This gateway only
// understands plain-text documents in a simple drill format:
//
//	Q: question text
//	A) wrong option
//	*B) correct option (star marks correct; several stars make a
//	multiple-choice question)
//
// PDF and DOCX uploads are accepted but yield no questions.
func (s *Server) generateQuestions(c *gin.Context) {
	prompt := c.PostForm("prompt")

	header, err := c.FormFile("file")
	if err != nil && prompt == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	var parsed []model.QuestionRequest
	if header != nil {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !generateExtensions[ext] {
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
			return
		}
		if header.Size > s.cfg.MaxUploadBytes {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return
		}

		if ext == ".txt" {
			f, err := header.Open()
			if err != nil {
				response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
				return
			}
			defer f.Close()

			parsed, err = parseQuestionText(f)
			if err != nil {
				s.log.Warn().Err(err).Str("file", header.Filename).Msg("document parse failed")
				response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
				return
			}
		}
	}

	out := model.GenerateQuestionsResponse{
		Message: fmt.Sprintf("Parsed %d question(s)", len(parsed)),
	}
	for _, req := range parsed {
		q := s.insertQuestion(req)
		out.Questions = append(out.Questions, *q)
	}
	if len(parsed) == 0 {
		out.Message = "No questions could be extracted from this document"
	}

	s.log.Info().Int("questions", len(parsed)).Str("prompt", prompt).Msg("generate questions")
	response.Success(c, http.StatusOK, out)
}

// parseQuestionText reads the drill format line by line. Blank lines
// separate questions; an option line is "X) text" with an optional
// leading star for the correct answer(s).
func parseQuestionText(r io.Reader) ([]model.QuestionRequest, error) {
	var (
		out     []model.QuestionRequest
		current *model.QuestionRequest
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		if len(current.Options) < 2 {
			return fmt.Errorf("question %q has %d options, want at least 2", current.Content, len(current.Options))
		}
		if len(current.CorrectAnswers) == 0 {
			return fmt.Errorf("question %q has no starred option", current.Content)
		}
		if len(current.CorrectAnswers) > 1 {
			current.Type = model.QuestionTypeMultiple
		}
		out = append(out, *current)
		current = nil
		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "Q:"); ok {
			if err := flush(); err != nil {
				return nil, err
			}
			current = &model.QuestionRequest{
				Content:    strings.TrimSpace(rest),
				Type:       model.QuestionTypeSingle,
				Category:   "Imported",
				Difficulty: "Medium",
			}
			continue
		}

		key, content, correct, ok := parseOptionLine(line)
		if !ok {
			continue // prose between questions is ignored
		}
		if current == nil {
			return nil, fmt.Errorf("option %q before any question", line)
		}
		current.Options = append(current.Options, model.AnswerOption{Key: key, Content: content})
		if correct {
			current.CorrectAnswers = append(current.CorrectAnswers, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// parseOptionLine matches "A) text" or "*A) text".
func parseOptionLine(line string) (key, content string, correct, ok bool) {
	if rest, starred := strings.CutPrefix(line, "*"); starred {
		correct = true
		line = strings.TrimSpace(rest)
	}
	if len(line) < 2 || line[1] != ')' {
		return "", "", false, false
	}
	k := line[0]
	if k < 'A' || k > 'Z' {
		return "", "", false, false
	}
	return string(k), strings.TrimSpace(line[2:]), correct, true
}
