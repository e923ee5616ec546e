package chat

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewsSource fetches and formats news context for a detected sub-intent.
type NewsSource interface {
	ContextBlock(ctx context.Context, queryType, query, sector string) (string, error)
}

// StockSource fetches and formats market data context for a ticker.
type StockSource interface {
	ContextBlock(ctx context.Context, ticker, period, action string) (string, error)
}

// CalcSource computes and formats the answer to a financial question.
type CalcSource interface {
	ContextBlock(ctx context.Context, question, calcType string) (string, error)
}

// Request is one chat turn from the user. Images, Audio and PDFs carry
// URLs or data URLs.
type Request struct {
	Message string   `json:"message"`
	Images  []string `json:"images"`
	Audio   string   `json:"audio"`
	PDFs    []string `json:"pdfs"`
	History []Turn   `json:"conversationHistory"`
}

// Result is the reply sent back to the client. Failed turns still return
// HTTP success with Success false and a user-facing Content message.
type Result struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
	Backend string `json:"backend,omitempty"`
	Err     string `json:"error,omitempty"`
}

// Canned user-facing failure messages.
const (
	msgEmptyRequest    = "Por favor, envie uma mensagem de texto, imagem, áudio ou PDF."
	msgPDFOnly         = "Não foi possível extrair texto dos PDFs enviados. Tente novamente ou envie junto com uma mensagem de texto."
	msgAudioNeedsForge = "Áudio requer configuração do serviço Forge (BUILT_IN_FORGE_API_KEY). Para texto e imagens, configure GROQ_API_KEY no arquivo .env"
	msgNoBackend       = "Erro ao processar mensagem. Verifique se GROQ_API_KEY está configurada no arquivo .env, ou configure BUILT_IN_FORGE_API_KEY para usar o serviço Forge."
	msgEmptyResponse   = "Desculpe, não recebi uma resposta do modelo."
	msgBackendError    = "Desculpe, ocorreu um erro ao processar sua mensagem. Tente novamente."
)

// Assembler runs the chat pipeline: attachments, detection, context
// fetches, prompt assembly, backend call with fallback. Either backend
// may be nil when unconfigured.
type Assembler struct {
	news     NewsSource
	stocks   StockSource
	calc     CalcSource
	ocr      PDFExtractor
	files    Materializer
	primary  Backend
	fallback Backend
	logger   *logrus.Entry
}

func NewAssembler(news NewsSource, stocks StockSource, calc CalcSource, ocr PDFExtractor, files Materializer, primary, fallback Backend, logger *logrus.Logger) *Assembler {
	return &Assembler{
		news:     news,
		stocks:   stocks,
		calc:     calc,
		ocr:      ocr,
		files:    files,
		primary:  primary,
		fallback: fallback,
		logger:   logger.WithField("component", "chat"),
	}
}

// Respond executes one chat turn. Augmentation failures degrade to "no
// context added"; the turn never fails solely because a lookup did.
func (a *Assembler) Respond(ctx context.Context, req Request) Result {
	pdfBlocks := extractPDFs(ctx, a.files, a.ocr, req.PDFs)

	contextBlock := a.fetchContext(ctx, req.Message)

	combined := req.Message
	if len(pdfBlocks) > 0 {
		combined += strings.Join(pdfBlocks, "\n")
	}
	if contextBlock != "" {
		combined = contextBlock + "\n\n" + combined
	}

	var content Content
	if strings.TrimSpace(combined) != "" {
		content = append(content, TextPart(strings.TrimSpace(combined)))
	}
	for _, imageURL := range req.Images {
		content = append(content, ImagePart(imageURL))
	}
	if req.Audio != "" {
		content = append(content, FilePart(req.Audio, audioMimeType(req.Audio)))
	}

	if len(content) == 0 {
		if len(req.PDFs) > 0 {
			return Result{Content: msgPDFOnly}
		}
		return Result{Content: msgEmptyRequest}
	}

	return a.callBackend(ctx, content, req.History)
}

// fetchContext runs every detector and concatenates the blocks of the
// fetches that succeeded.
func (a *Assembler) fetchContext(ctx context.Context, message string) string {
	if strings.TrimSpace(message) == "" {
		return ""
	}

	// Block order in the final prompt: calculation, stock, news.
	var blocks []string

	if d, ok := DetectCalculation(message); ok {
		a.logger.WithFields(logrus.Fields{"intent": "calculation", "type": d.CalculationType}).
			Info("augmentation detected")
		block, err := a.calc.ContextBlock(ctx, message, d.CalculationType)
		if err != nil {
			a.logger.WithError(err).Warn("calculation context fetch failed")
		} else {
			blocks = append(blocks, block)
		}
	}

	if d, ok := DetectStock(message); ok {
		a.logger.WithFields(logrus.Fields{"intent": "stock", "ticker": d.Ticker, "action": d.Action}).
			Info("augmentation detected")
		block, err := a.stocks.ContextBlock(ctx, d.Ticker, d.Period, d.Action)
		if err != nil {
			a.logger.WithError(err).Warn("stock context fetch failed")
		} else {
			blocks = append(blocks, block)
		}
	}

	if d, ok := DetectNews(message); ok {
		a.logger.WithFields(logrus.Fields{"intent": "news", "query_type": d.QueryType}).
			Info("augmentation detected")
		block, err := a.news.ContextBlock(ctx, d.QueryType, d.Query, d.Sector)
		if err != nil {
			a.logger.WithError(err).Warn("news context fetch failed")
		} else {
			blocks = append(blocks, block)
		}
	}

	return strings.Join(blocks, "")
}

// callBackend prefers the primary for anything without audio, falling
// back on error. Audio goes straight to the fallback, the only backend
// that accepts it.
func (a *Assembler) callBackend(ctx context.Context, content Content, history []Turn) Result {
	hasAudio := content.HasAudio()

	if a.primary != nil && !hasAudio {
		reply, err := a.primary.Complete(ctx, content, history)
		if err == nil {
			return Result{Success: true, Content: reply, Backend: a.primary.Name()}
		}
		a.logger.WithError(err).Warn("primary backend failed, trying fallback")
	}

	if a.fallback == nil {
		if hasAudio {
			return Result{Content: msgAudioNeedsForge}
		}
		return Result{Content: msgNoBackend}
	}

	reply, err := a.fallback.Complete(ctx, content, history)
	if err != nil {
		a.logger.WithError(err).Error("fallback backend failed")
		return Result{Content: msgBackendError, Err: err.Error()}
	}
	if strings.TrimSpace(reply) == "" {
		return Result{Content: msgEmptyResponse}
	}
	return Result{Success: true, Content: reply, Backend: a.fallback.Name()}
}
