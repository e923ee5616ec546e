package bridge

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// OCRClient wraps the OCR/extraction service.
type OCRClient struct {
	runner *Runner
}

func NewOCRClient(runner *Runner) *OCRClient {
	return &OCRClient{runner: runner}
}

// ExtractTextFromPDF returns whatever text the service extracted. The
// service signals some failures inside the returned string itself; that
// classification is the caller's concern.
func (c *OCRClient) ExtractTextFromPDF(ctx context.Context, path string) (string, error) {
	raw, err := c.runner.Invoke(ctx, "ocr", "extract_text_from_pdf", []any{path})
	if err != nil {
		return "", err
	}
	if err := checkEnvelope("ocr", raw); err != nil {
		return "", err
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}
	// Some methods wrap the text in {"data": ...}.
	var wrapped struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return "", errors.Wrap(err, "failed to decode OCR response")
	}
	return wrapped.Data, nil
}
