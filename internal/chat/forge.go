package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// systemPrompt frames every conversation sent to the fallback backend.
const systemPrompt = "Você é o Bolsinho, assistente financeiro pessoal e especialista em investimentos e finanças. Você é especializado em educação financeira, planejamento de orçamento, análise de gastos, investimentos e mercado financeiro, e economia. Seja sempre prestativo, claro e forneça conselhos práticos. Use linguagem acessível e exemplos quando apropriado. Quando falar sobre investimentos, sempre mencione os riscos envolvidos."

const forgeMaxTokens = 32768

// ForgeBackend is the fallback backend: an OpenAI-compatible chat
// completions endpoint. It is the only backend that accepts audio parts.
type ForgeBackend struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
	logger *logrus.Entry
}

func NewForgeBackend(apiURL, apiKey, model string, logger *logrus.Logger) *ForgeBackend {
	return &ForgeBackend{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 2 * time.Minute},
		logger: logger.WithField("backend", "forge"),
	}
}

func (b *ForgeBackend) Name() string { return "forge" }

func (b *ForgeBackend) Complete(ctx context.Context, content Content, history []Turn) (string, error) {
	messages := make([]Turn, 0, len(history)+2)
	messages = append(messages, Turn{Role: "system", Content: Content{TextPart(systemPrompt)}})
	for _, turn := range history {
		if turn.Role == "system" {
			continue
		}
		messages = append(messages, turn)
	}
	messages = append(messages, Turn{Role: "user", Content: content})

	requestBody, err := json.Marshal(map[string]any{
		"model":      b.model,
		"messages":   messages,
		"max_tokens": forgeMaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal chat completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.apiURL, bytes.NewReader(requestBody))
	if err != nil {
		return "", errors.Wrap(err, "failed to create chat completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to call chat completion endpoint")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read chat completion response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("chat completion endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content Content `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", errors.Wrap(err, "failed to decode chat completion response")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion response has no choices")
	}

	text := completion.Choices[0].Message.Content.Text()
	if text == "" {
		return "", errors.New("chat completion response has empty content")
	}
	return text, nil
}
