// Package llm wraps the external generative service that turns free-form
// study text into a structured multiple-choice quiz. One invocation makes at
// most one upstream call: no retries, no deduplication, no cancel primitive
// beyond the caller's context.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/medquizai/medquiz-backend/internal/config"
	"github.com/medquizai/medquiz-backend/internal/model"
)

// Client generates a quiz from source text.
type Client interface {
	GenerateQuiz(ctx context.Context, sourceText string) ([]model.Question, error)
}

// systemInstruction is the fixed rule set sent with every generation request.
const systemInstruction = `You are a medical education quiz generator. From the provided study material, create multiple-choice questions following these rules:
1. Extract questions exhaustively: cover every distinct fact, mechanism, and relationship in the material.
2. Questions must stand alone. Never reference "the text", "the passage", or "the material above".
3. Each question has exactly 4 answer options, exactly one of which is correct.
4. Provide a concise explanation of the correct answer.
5. Classify each question's difficulty as "High" or "Medium".`

// responseSchema constrains the model output to an array of question objects.
var responseSchema = json.RawMessage(`{
	"type": "ARRAY",
	"items": {
		"type": "OBJECT",
		"properties": {
			"id": {"type": "INTEGER"},
			"question": {"type": "STRING"},
			"options": {"type": "ARRAY", "items": {"type": "STRING"}},
			"correctAnswer": {"type": "STRING"},
			"explanation": {"type": "STRING"},
			"difficulty": {"type": "STRING", "enum": ["High", "Medium"]}
		},
		"required": ["id", "question", "options", "correctAnswer", "explanation", "difficulty"]
	}
}`)

// GeminiClient implements Client against the Gemini generateContent API.
type GeminiClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	log        zerolog.Logger
}

// NewGeminiClient creates a GeminiClient from configuration.
func NewGeminiClient(cfg *config.Config, log zerolog.Logger) *GeminiClient {
	return &GeminiClient{
		httpClient: &http.Client{Timeout: cfg.GeminiTimeout},
		baseURL:    cfg.GeminiBaseURL,
		apiKey:     cfg.GeminiAPIKey,
		model:      cfg.GeminiModel,
		log:        log.With().Str("component", "gemini_client").Logger(),
	}
}

// ─── Wire types ─────────────────────────────────────────────────────

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type generateRequest struct {
	SystemInstruction generateContent   `json:"system_instruction"`
	Contents          []generateContent `json:"contents"`
	GenerationConfig  generationConfig  `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateQuiz sends the source text with the fixed instruction and output
// schema, parses the structured response, and reassigns question ids
// sequentially from 1. The reassignment is a correctness requirement: the
// model may emit duplicate ids.
func (c *GeminiClient) GenerateQuiz(ctx context.Context, sourceText string) ([]model.Question, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	payload := generateRequest{
		SystemInstruction: generateContent{Parts: []generatePart{{Text: systemInstruction}}},
		Contents: []generateContent{
			{Role: "user", Parts: []generatePart{{Text: sourceText}}},
		},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal generation request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call generation service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read generation response: %w", err)
	}

	var parsed generateResponse
	// Decode errors are handled per status below; the body may not be JSON
	// at all on gateway-level failures.
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			// The API reports key problems as 400 INVALID_ARGUMENT or 403.
			return nil, fmt.Errorf("%w: %s", ErrInvalidAPIKey, msg)
		default:
			return nil, fmt.Errorf("generation service error (%d): %s", resp.StatusCode, msg)
		}
	}

	if decodeErr != nil {
		return nil, ErrEmptyOutput
	}

	questions, err := extractQuestions(parsed)
	if err != nil {
		return nil, err
	}

	c.log.Info().
		Int("questions", len(questions)).
		Dur("elapsed", time.Since(started)).
		Msg("Quiz generated")

	return questions, nil
}

// extractQuestions pulls the question array out of the first candidate and
// normalizes ids to 1..N in array order.
func extractQuestions(parsed generateResponse) ([]model.Question, error) {
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyOutput
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	var questions []model.Question
	if err := json.Unmarshal([]byte(text), &questions); err != nil {
		return nil, ErrEmptyOutput
	}
	if len(questions) == 0 {
		return nil, ErrEmptyOutput
	}

	for i := range questions {
		questions[i].ID = i + 1
	}
	return questions, nil
}
