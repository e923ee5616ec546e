package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// PDFExtractor pulls text out of a PDF at a local path.
type PDFExtractor interface {
	ExtractTextFromPDF(ctx context.Context, path string) (string, error)
}

// Materializer turns a URL or data URL into a local file an external
// process can open. cleanup releases the backing file and is always
// non-nil.
type Materializer interface {
	Materialize(ctx context.Context, urlOrData, extension string) (path string, cleanup func() error, err error)
}

// minExtractedChars is the shortest output treated as genuine document
// text. The extractor reports some failures as short prose instead of an
// error, so short output is classified rather than trusted.
const minExtractedChars = 50

var genericErrorRe = regexp.MustCompile(`(?i)erro[:\s]+(.+)`)

// extractPDFs materializes each PDF, runs extraction, and returns one
// text block per input. Failures produce diagnostic blocks instead of
// aborting: whatever was readable still reaches the model.
func extractPDFs(ctx context.Context, files Materializer, ocr PDFExtractor, pdfURLs []string) []string {
	blocks := make([]string, 0, len(pdfURLs))
	for _, url := range pdfURLs {
		blocks = append(blocks, extractOnePDF(ctx, files, ocr, url))
	}
	return blocks
}

func extractOnePDF(ctx context.Context, files Materializer, ocr PDFExtractor, url string) string {
	path, cleanup, err := files.Materialize(ctx, url, "pdf")
	if err != nil {
		return fmt.Sprintf("\n\n--- Erro ao processar PDF: %s ---", err)
	}
	defer cleanup()

	text, err := ocr.ExtractTextFromPDF(ctx, path)
	if err != nil {
		return fmt.Sprintf("\n\n--- Erro ao processar PDF: %s. Verifique se o arquivo está íntegro e se as bibliotecas Python estão instaladas (pip install PyPDF2 pdf2image). ---", err)
	}

	return classifyExtraction(text)
}

// classifyExtraction decides whether the extractor's output is document
// text or an error phrase, and builds the matching block.
func classifyExtraction(text string) string {
	lower := strings.ToLower(text)

	isError := strings.HasPrefix(lower, "erro") ||
		strings.HasPrefix(lower, "error") ||
		strings.Contains(lower, "erro ao extrair") ||
		strings.Contains(lower, "não foi possível extrair") ||
		strings.Contains(lower, "bibliotecas de pdf não disponíveis") ||
		(len(text) < minExtractedChars && strings.Contains(lower, "não foi possível"))

	if !isError && len(strings.TrimSpace(text)) > minExtractedChars {
		return "\n\n--- Conteúdo extraído do PDF ---\n" + text
	}

	switch {
	case strings.Contains(lower, "poppler"):
		return "\n\n--- Poppler não está instalado. Para processar PDFs escaneados, instale o Poppler (Linux: sudo apt-get install poppler-utils, macOS: brew install poppler). Alternativamente, use um PDF com texto selecionável. ---"
	case strings.Contains(lower, "bibliotecas de pdf não disponíveis"),
		strings.Contains(lower, "instale pypdf2"):
		return "\n\n--- Erro: Bibliotecas Python necessárias não estão instaladas. Execute: pip install PyPDF2 pdf2image ---"
	case strings.Contains(lower, "imagem escaneada"),
		strings.Contains(lower, "baixa qualidade"):
		return "\n\n--- Aviso: O PDF parece ser uma imagem escaneada de baixa qualidade. Não foi possível extrair texto. Tente usar um PDF com texto selecionável ou descreva o conteúdo em texto. ---"
	case strings.Contains(lower, "vazio"), strings.Contains(lower, "empty"):
		return "\n\n--- Aviso: O PDF parece estar vazio ou não contém texto extraível. ---"
	default:
		detail := "Erro desconhecido"
		if m := genericErrorRe.FindStringSubmatch(text); m != nil {
			detail = m[1]
			if len(detail) > 200 {
				detail = detail[:200]
			}
		}
		return fmt.Sprintf("\n\n--- Não foi possível extrair texto do PDF: %s. Tente usar um PDF com texto selecionável ou descreva o conteúdo do PDF em texto. ---", detail)
	}
}

// audioMimeType resolves the mime type of an audio reference, from the
// data URL header or the file extension.
func audioMimeType(audioURL string) string {
	if strings.HasPrefix(audioURL, "data:") {
		if header, _, ok := strings.Cut(strings.TrimPrefix(audioURL, "data:"), ";"); ok && header != "" {
			return header
		}
	}
	switch {
	case strings.Contains(audioURL, ".mp3"):
		return "audio/mpeg"
	case strings.Contains(audioURL, ".wav"):
		return "audio/wav"
	case strings.Contains(audioURL, ".m4a"):
		return "audio/mp4"
	case strings.Contains(audioURL, ".webm"):
		return "audio/webm"
	case strings.Contains(audioURL, ".ogg"):
		return "audio/ogg"
	default:
		return "audio/mpeg"
	}
}
