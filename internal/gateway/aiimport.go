package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/quizdeck/quizdeck-client/internal/model"
)

// maxImportBytes caps document uploads client-side before they hit the
// wire, matching the gateway's own limit.
const maxImportBytes = 10 << 20

var importExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// GenerateQuestions sends a prompt and an optional document to the
// AI-assisted question import endpoint. filePath may be empty for a
// prompt-only request.
func (c *Client) GenerateQuestions(ctx context.Context, prompt, filePath string) (*model.GenerateQuestionsResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if filePath != "" {
		ext := strings.ToLower(filepath.Ext(filePath))
		if !importExtensions[ext] {
			return nil, fmt.Errorf("unsupported file type %q (want .pdf, .docx or .txt)", ext)
		}

		f, err := os.Open(filePath)
		if err != nil {
			return nil, fmt.Errorf("open document: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat document: %w", err)
		}
		if info.Size() > maxImportBytes {
			return nil, fmt.Errorf("document is %d bytes, limit is %d", info.Size(), maxImportBytes)
		}

		part, err := writer.CreateFormFile("file", filepath.Base(filePath))
		if err != nil {
			return nil, fmt.Errorf("build upload: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
	}

	if prompt == "" {
		prompt = "Generate exam questions from this document"
	}
	if err := writer.WriteField("prompt", prompt); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ai-question/generate", &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out model.GenerateQuestionsResponse
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
