package chat

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Backend produces an assistant reply for an assembled conversation.
type Backend interface {
	Name() string
	Complete(ctx context.Context, content Content, history []Turn) (string, error)
}

// GroqInvoker is the bridge call the primary backend runs on.
type GroqInvoker interface {
	FinancialAssistantMultimodal(ctx context.Context, content any, history []map[string]any) (string, error)
}

// GroqBackend is the primary backend. It handles text and images; audio
// never reaches it. Image references are materialized to local paths so
// the external process receives a short argument instead of a data URL.
type GroqBackend struct {
	invoker GroqInvoker
	files   Materializer
	logger  *logrus.Entry
}

func NewGroqBackend(invoker GroqInvoker, files Materializer, logger *logrus.Logger) *GroqBackend {
	return &GroqBackend{
		invoker: invoker,
		files:   files,
		logger:  logger.WithField("backend", "groq"),
	}
}

func (b *GroqBackend) Name() string { return "groq" }

func (b *GroqBackend) Complete(ctx context.Context, content Content, history []Turn) (string, error) {
	payload, cleanups, err := b.buildContent(ctx, content)
	defer func() {
		for _, cleanup := range cleanups {
			if err := cleanup(); err != nil {
				b.logger.WithError(err).Debug("temp file cleanup failed")
			}
		}
	}()
	if err != nil {
		return "", err
	}

	return b.invoker.FinancialAssistantMultimodal(ctx, payload, historyForGroq(history))
}

// buildContent flattens a single text part to a bare string and rewrites
// image parts to local paths. File parts are dropped; the assembler never
// routes audio here.
func (b *GroqBackend) buildContent(ctx context.Context, content Content) (any, []func() error, error) {
	var cleanups []func() error

	if len(content) == 1 && content[0].Type == PartText {
		return content[0].Text, cleanups, nil
	}

	parts := make([]map[string]any, 0, len(content))
	for _, p := range content {
		switch p.Type {
		case PartText:
			parts = append(parts, map[string]any{"type": "text", "text": p.Text})
		case PartImage:
			path, cleanup, err := b.files.Materialize(ctx, p.URL, "jpg")
			if err != nil {
				return nil, cleanups, err
			}
			cleanups = append(cleanups, cleanup)
			parts = append(parts, map[string]any{
				"type":      "image_url",
				"image_url": map[string]any{"url": path},
			})
		}
	}
	return parts, cleanups, nil
}

func historyForGroq(history []Turn) []map[string]any {
	if len(history) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(history))
	for _, turn := range history {
		out = append(out, map[string]any{
			"role":    turn.Role,
			"content": turn.Content.Text(),
		})
	}
	return out
}
