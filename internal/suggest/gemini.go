package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"planclan/internal/common/errors"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com"

// GeminiClient talks to the Gemini generateContent API over plain HTTP.
// The response schema is enforced server-side, so a well-behaved backend
// returns exactly the JSON shape ParseResult expects.
type GeminiClient struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGeminiClient(endpoint, apiKey, model string) *GeminiClient {
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}

	return &GeminiClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{
			// The service layer races calls against its own deadline; this
			// is a backstop against leaked connections.
			Timeout: 2 * time.Minute,
		},
	}
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string                 `json:"responseMimeType"`
	ResponseSchema   map[string]interface{} `json:"responseSchema"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// responseSchema renders the result contract in the API's schema dialect.
func responseSchema() map[string]interface{} {
	properties := make(map[string]interface{})
	required := make([]string, 0, len(resultFields))

	for _, field := range resultFields {
		properties[field.Name] = map[string]interface{}{
			"type":        "STRING",
			"description": field.Description,
		}
		if field.Required {
			required = append(required, field.Name)
		}
	}

	properties["conflictingEvents"] = map[string]interface{}{
		"type": "ARRAY",
		"items": map[string]interface{}{
			"type": "OBJECT",
			"properties": map[string]interface{}{
				"title": map[string]interface{}{"type": "STRING"},
				"conflictingMembers": map[string]interface{}{
					"type":  "ARRAY",
					"items": map[string]interface{}{"type": "STRING"},
				},
			},
			"required": []string{"title", "conflictingMembers"},
		},
	}

	return map[string]interface{}{
		"type":       "OBJECT",
		"properties": properties,
		"required":   required,
	}
}

// GenerateSuggestion sends the prompt and returns the backend's raw JSON
// payload, still unvalidated.
func (c *GeminiClient) GenerateSuggestion(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema(),
		},
	})
	if err != nil {
		return nil, errors.InternalError("failed to encode backend request", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.InternalError("failed to build backend request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.BackendError(fmt.Sprintf("suggestion backend request failed: %v", err), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.BackendError("failed to read backend response", err)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, errors.ResponseShapeError("backend response is not valid JSON")
	}

	if resp.StatusCode != http.StatusOK {
		message := fmt.Sprintf("backend returned status %d", resp.StatusCode)
		if decoded.Error != nil && decoded.Error.Message != "" {
			message = decoded.Error.Message
		}
		return nil, errors.BackendError(message, nil)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return nil, errors.ResponseShapeError("backend returned no candidates")
	}

	return []byte(decoded.Candidates[0].Content.Parts[0].Text), nil
}
