package chat

import (
	"regexp"
	"strings"
)

// Detection is the structured output of one detector, carrying exactly
// what the corresponding context fetch needs.
type Detection struct {
	// news
	QueryType string
	Query     string
	Sector    string
	// stock
	Ticker string
	Period string
	Action string
	// calculation
	CalculationType string
}

// rule pairs a predicate over the lowercased message with a builder for
// the detection it produces. Rules are evaluated in order; the first
// match wins.
type rule struct {
	match func(lower, original string) bool
	build func(lower, original string) Detection
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// --- news -------------------------------------------------------------

var newsKeywords = []string{
	"notícias", "noticia", "noticias", "news",
	"manchetes", "manchete",
	"últimas notícias", "ultimas noticias",
	"o que está acontecendo", "o que esta acontecendo",
	"o que aconteceu",
	"notícias de hoje", "noticias de hoje",
	"atualidades", "atualidade",
}

var newsSectors = map[string]string{
	"tecnologia":   "tecnologia",
	"tech":         "tecnologia",
	"energia":      "energia",
	"petróleo":     "energia",
	"petroleo":     "energia",
	"saúde":        "saude",
	"saude":        "saude",
	"farmacêutica": "saude",
	"farmaceutica": "saude",
	"financeiro":   "financeiro",
	"banco":        "financeiro",
	"fintech":      "financeiro",
	"varejo":       "varejo",
	"e-commerce":   "varejo",
	"agronegócio":  "agronegocio",
	"agronegocio":  "agronegocio",
	"agricultura":  "agronegocio",
}

var newsSearchTermRe = regexp.MustCompile(`(?i)(?:sobre o|sobre a|sobre|de|do|da)\s+([a-záéíóúâêôãõç]+(?:\s+[a-záéíóúâêôãõç]+)*)`)

var newsRules = []rule{
	{
		match: func(lower, _ string) bool {
			return containsAny(lower, "manchetes", "principais", "top")
		},
		build: func(_, _ string) Detection { return Detection{QueryType: "headlines"} },
	},
	{
		match: func(lower, _ string) bool {
			return containsAny(lower, "investimento", "ações", "bolsa", "cripto", "bitcoin", "fundo")
		},
		build: func(_, _ string) Detection { return Detection{QueryType: "investment"} },
	},
	{
		match: func(lower, _ string) bool {
			return containsAny(lower, "ibovespa", "dólar", "dolar", "selic", "inflação", "inflacao", "ipca", "pib")
		},
		build: func(_, _ string) Detection { return Detection{QueryType: "indicators"} },
	},
	{
		match: func(lower, _ string) bool {
			return containsAny(lower, "setor", "tecnologia", "energia", "saúde", "saude",
				"financeiro", "varejo", "agronegócio", "agronegocio")
		},
		build: func(lower, _ string) Detection {
			for keyword, sector := range newsSectors {
				if strings.Contains(lower, keyword) {
					return Detection{QueryType: "sector", Sector: sector}
				}
			}
			return Detection{QueryType: "sector"}
		},
	},
	{
		match: func(_, original string) bool {
			return newsSearchTermRe.MatchString(original)
		},
		build: func(_, original string) Detection {
			m := newsSearchTermRe.FindStringSubmatch(original)
			return Detection{QueryType: "search", Query: strings.TrimSpace(m[1])}
		},
	},
}

// DetectNews classifies a news request into a sub-intent. The second
// return is false when the message is not about news at all.
func DetectNews(message string) (Detection, bool) {
	lower := strings.ToLower(message)
	if !containsAny(lower, newsKeywords...) {
		return Detection{}, false
	}
	for _, r := range newsRules {
		if r.match(lower, message) {
			return r.build(lower, message), true
		}
	}
	return Detection{QueryType: "headlines"}, true
}

// --- stock ------------------------------------------------------------

var stockKeywords = []string{
	"ação", "ações", "acao", "acoes", "papel", "cotação", "cotacao",
	"preço da", "preco da", "bolsa", "b3", "ibovespa",
	"subiu", "caiu", "variação", "variacao", "histórico", "historico",
}

// Exchange ticker shape: four letters, one or two digits, optional
// fractional suffix (PETR4, TAEE11, BRKM5F).
var (
	tickerStrictRe     = regexp.MustCompile(`\b([A-Z]{4}\d{1,2}F?)\b`)
	tickerContextualRe = regexp.MustCompile(`(?i)\b([a-z]{4}\d{1,2})f?\b`)
)

var companyTickers = map[string]string{
	"petrobras":       "PETR4",
	"petrobrás":       "PETR4",
	"vale":            "VALE3",
	"itaú":            "ITUB4",
	"itau":            "ITUB4",
	"bradesco":        "BBDC4",
	"ambev":           "ABEV3",
	"weg":             "WEGE3",
	"magazine luiza":  "MGLU3",
	"magalu":          "MGLU3",
	"banco do brasil": "BBAS3",
	"itaúsa":          "ITSA4",
	"itausa":          "ITSA4",
	"b3 sa":           "B3SA3",
	"localiza":        "RENT3",
	"suzano":          "SUZB3",
	"gerdau":          "GGBR4",
	"embraer":         "EMBR3",
}

var stockPeriods = []struct {
	keywords []string
	period   string
}{
	{[]string{"hoje", "dia"}, "1d"},
	{[]string{"semana"}, "5d"},
	{[]string{"mês", "mes"}, "1mo"},
	{[]string{"trimestre"}, "3mo"},
	{[]string{"semestre"}, "6mo"},
	{[]string{"ano"}, "1y"},
}

const defaultStockPeriod = "1mo"

var stockActions = []struct {
	keywords []string
	action   string
}{
	{[]string{"histórico", "historico", "gráfico", "grafico", "evolução", "evolucao"}, "history"},
	{[]string{"variação", "variacao", "subiu", "caiu", "rendeu", "valorizou", "desvalorizou"}, "variation"},
}

const defaultStockAction = "info"

// DetectStock looks for a ticker request. Extraction priority: strict
// uppercase ticker shape, then the case-insensitive contextual shape,
// then the company-name table.
func DetectStock(message string) (Detection, bool) {
	lower := strings.ToLower(message)

	ticker := extractTicker(message, lower)
	if ticker == "" {
		return Detection{}, false
	}
	if !containsAny(lower, stockKeywords...) && tickerStrictRe.FindString(message) == "" {
		// A company name alone, with no finance wording, is too weak a
		// signal to fire on.
		return Detection{}, false
	}

	d := Detection{Ticker: ticker, Period: defaultStockPeriod, Action: defaultStockAction}
	for _, p := range stockPeriods {
		if containsAny(lower, p.keywords...) {
			d.Period = p.period
			break
		}
	}
	for _, a := range stockActions {
		if containsAny(lower, a.keywords...) {
			d.Action = a.action
			break
		}
	}
	return d, true
}

func extractTicker(original, lower string) string {
	if m := tickerStrictRe.FindString(original); m != "" {
		return m
	}
	if m := tickerContextualRe.FindStringSubmatch(original); m != nil {
		return strings.ToUpper(m[1])
	}
	for name, ticker := range companyTickers {
		if strings.Contains(lower, name) {
			return ticker
		}
	}
	return ""
}

// --- calculation ------------------------------------------------------

var calcKeywords = []string{
	"calcul", "distribuir", "dividir", "alocar", "investir",
	"percentual", "porcento", "por cento", "%",
	"juros", "rendimento", "compostos", "quanto",
}

var calcRules = []rule{
	{
		match: func(lower, _ string) bool {
			return containsAny(lower, "distribuir", "dividir", "alocar")
		},
		build: func(_, _ string) Detection { return Detection{CalculationType: "distribution"} },
	},
	{
		match: func(lower, original string) bool {
			return containsAny(lower, "percentual", "porcento", "por cento") ||
				strings.Contains(original, "%")
		},
		build: func(_, _ string) Detection { return Detection{CalculationType: "percentage"} },
	},
	{
		match: func(lower, _ string) bool {
			return containsAny(lower, "juros", "rendimento", "compostos")
		},
		build: func(_, _ string) Detection { return Detection{CalculationType: "compound_interest"} },
	},
}

// DetectCalculation classifies an arithmetic request. Messages carrying
// calculation wording that fit no specific rule fall back to "general",
// which the calc collaborator may still reject.
func DetectCalculation(message string) (Detection, bool) {
	lower := strings.ToLower(message)
	if !containsAny(lower, calcKeywords...) && !strings.Contains(message, "%") {
		return Detection{}, false
	}
	for _, r := range calcRules {
		if r.match(lower, message) {
			return r.build(lower, message), true
		}
	}
	if containsAny(lower, "calcul", "quanto", "investir") {
		return Detection{CalculationType: "general"}, true
	}
	return Detection{}, false
}
