package bridge

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// GroqClient wraps the Groq-backed assistant service.
type GroqClient struct {
	runner *Runner
}

func NewGroqClient(runner *Runner) *GroqClient {
	return &GroqClient{runner: runner}
}

// FinancialAssistantMultimodal sends user content (a bare string or a list
// of typed content parts, already in wire shape) plus prior turns, and
// returns the assistant's reply text.
func (c *GroqClient) FinancialAssistantMultimodal(ctx context.Context, content any, history []map[string]any) (string, error) {
	raw, err := c.runner.Invoke(ctx, "groq", "financial_assistant_multimodal", []any{content, history})
	if err != nil {
		return "", err
	}
	if err := checkEnvelope("groq", raw); err != nil {
		return "", err
	}

	var reply string
	if err := json.Unmarshal(raw, &reply); err == nil {
		return reply, nil
	}
	var wrapped struct {
		Response string `json:"response"`
		Content  string `json:"content"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return "", errors.Wrap(err, "failed to decode groq response")
	}
	if wrapped.Response != "" {
		return wrapped.Response, nil
	}
	return wrapped.Content, nil
}
