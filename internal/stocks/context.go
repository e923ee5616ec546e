package stocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/bolsinho/bolsinho/internal/bridge"
	"github.com/bolsinho/bolsinho/utils"
)

// ContextBlock builds the market-data text block injected ahead of a chat
// message. action selects which fetch runs: "variation" and "history" use
// the period, "info" ignores it. Errors bubble to the caller, which treats
// them as "no context added".
func (s *Service) ContextBlock(ctx context.Context, ticker, period, action string) (string, error) {
	switch action {
	case "variation", "history":
		v, err := s.Variation(ctx, ticker, period)
		if err != nil {
			return "", err
		}
		return formatVariationBlock(v, period), nil
	default:
		q, err := s.Quote(ctx, ticker)
		if err != nil {
			return "", err
		}
		return formatQuoteBlock(q), nil
	}
}

func formatQuoteBlock(q *Quote) string {
	var b strings.Builder
	b.WriteString("\n\n--- DADOS DA AÇÃO ---\n")
	fmt.Fprintf(&b, "Ticker: %s", q.Ticker)
	if q.Name != "" {
		fmt.Fprintf(&b, " (%s)", q.Name)
	}
	b.WriteString("\n")
	if q.CurrentPrice != nil {
		fmt.Fprintf(&b, "Preço atual: %s\n", utils.FormatBRL(*q.CurrentPrice))
	}
	if q.Change != nil && q.ChangePercent != nil {
		fmt.Fprintf(&b, "Variação do dia: %s (%s)\n",
			utils.FormatBRL(*q.Change), utils.FormatPercent(*q.ChangePercent))
	}
	if q.DayHigh != nil && q.DayLow != nil {
		fmt.Fprintf(&b, "Máxima/Mínima do dia: %s / %s\n",
			utils.FormatBRL(*q.DayHigh), utils.FormatBRL(*q.DayLow))
	}
	if q.Volume != nil {
		fmt.Fprintf(&b, "Volume: %d\n", *q.Volume)
	}
	if q.Sector != "" {
		fmt.Fprintf(&b, "Setor: %s\n", q.Sector)
	}
	if q.Stale {
		fmt.Fprintf(&b, "Atenção: dados em cache de %s (fonte ao vivo indisponível)\n",
			utils.ToSaoPauloTime(q.LastUpdated).Format("02/01/2006 15:04"))
	}
	b.WriteString("--- FIM DOS DADOS DA AÇÃO ---\n")
	return b.String()
}

func formatVariationBlock(v *bridge.VariationData, period string) string {
	var b strings.Builder
	b.WriteString("\n\n--- DADOS DA AÇÃO ---\n")
	fmt.Fprintf(&b, "Ticker: %s", v.Ticker)
	if v.Name != "" {
		fmt.Fprintf(&b, " (%s)", v.Name)
	}
	fmt.Fprintf(&b, "\nPeríodo: %s\n", periodLabel(period))
	if v.StartPrice != nil && v.EndPrice != nil {
		fmt.Fprintf(&b, "Preço inicial: %s\n", utils.FormatBRL(*v.StartPrice))
		fmt.Fprintf(&b, "Preço final: %s\n", utils.FormatBRL(*v.EndPrice))
	}
	if v.Change != nil && v.ChangePercent != nil {
		fmt.Fprintf(&b, "Variação no período: %s (%s)\n",
			utils.FormatBRL(*v.Change), utils.FormatPercent(*v.ChangePercent))
	}
	b.WriteString("--- FIM DOS DADOS DA AÇÃO ---\n")
	return b.String()
}

func periodLabel(period string) string {
	switch period {
	case "1d":
		return "1 dia"
	case "5d":
		return "1 semana"
	case "1mo":
		return "1 mês"
	case "3mo":
		return "3 meses"
	case "6mo":
		return "6 meses"
	case "1y":
		return "1 ano"
	default:
		return period
	}
}
