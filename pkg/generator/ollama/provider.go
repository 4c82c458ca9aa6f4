package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"insight-copilot-be/pkg/copilot/intent"
	"insight-copilot-be/pkg/generator"
)

type OllamaGenerator struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure OllamaGenerator implements ResponseGenerator
var _ generator.ResponseGenerator = &OllamaGenerator{}

func NewOllamaGenerator(baseURL, modelName string) *OllamaGenerator {
	return &OllamaGenerator{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

const systemPrompt = `You are an analytics copilot. Answer questions about the user's dashboards, metrics and flagged anomalies. Keep answers to 2-4 sentences and stay within the data the user can see.`

func (o *OllamaGenerator) Generate(ctx context.Context, input generator.Input) (*generator.Result, error) {
	// 1. Fold the enriched context and recent history into a chat transcript
	messages := make([]ollamaMessage, 0, len(input.History)+2)
	messages = append(messages, ollamaMessage{Role: "system", Content: o.buildSystemPrompt(input.Context)})
	for _, h := range input.History {
		messages = append(messages, ollamaMessage{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: input.Query})

	reqPayload := ollamaChatRequest{
		Model:    o.ModelName,
		Messages: messages,
		Stream:   false,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	// 2. Send Request
	url := o.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	// 3. Parse Response
	var ollamaResp ollamaChatResponse
	if err := json.Unmarshal(bodyBytes, &ollamaResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &generator.Result{
		Text:       ollamaResp.Message.Content,
		Confidence: 0.7,
		Intent:     intent.Classify(input.Query),
	}, nil
}

func (o *OllamaGenerator) buildSystemPrompt(enrichedContext map[string]interface{}) string {
	if len(enrichedContext) == 0 {
		return systemPrompt
	}
	ctxJSON, err := json.Marshal(enrichedContext)
	if err != nil {
		return systemPrompt
	}
	return fmt.Sprintf("%s\n\nCurrent page context: %s", systemPrompt, string(ctxJSON))
}
