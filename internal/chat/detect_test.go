package chat

import "testing"

func TestDetectStockWithTickerAndPeriod(t *testing.T) {
	d, ok := DetectStock("Como está a PETR4 hoje?")
	if !ok {
		t.Fatal("Expected stock detector to fire")
	}
	if d.Ticker != "PETR4" {
		t.Errorf("Expected ticker PETR4, got %q", d.Ticker)
	}
	if d.Period != "1d" {
		t.Errorf("Expected period 1d, got %q", d.Period)
	}
	if d.Action != "info" {
		t.Errorf("Expected action info, got %q", d.Action)
	}
}

func TestDetectStockCompanyName(t *testing.T) {
	d, ok := DetectStock("Qual a cotação da Petrobras?")
	if !ok {
		t.Fatal("Expected stock detector to fire")
	}
	if d.Ticker != "PETR4" {
		t.Errorf("Expected ticker PETR4 from company name, got %q", d.Ticker)
	}
}

func TestDetectStockVariationAction(t *testing.T) {
	d, ok := DetectStock("Quanto a VALE3 subiu na semana?")
	if !ok {
		t.Fatal("Expected stock detector to fire")
	}
	if d.Action != "variation" {
		t.Errorf("Expected action variation, got %q", d.Action)
	}
	if d.Period != "5d" {
		t.Errorf("Expected period 5d, got %q", d.Period)
	}
}

func TestDetectStockDefaultPeriod(t *testing.T) {
	d, ok := DetectStock("Me fala sobre a ação WEGE3")
	if !ok {
		t.Fatal("Expected stock detector to fire")
	}
	if d.Period != "1mo" {
		t.Errorf("Expected default period 1mo, got %q", d.Period)
	}
}

func TestDetectStockNoSignal(t *testing.T) {
	if _, ok := DetectStock("Quanto vale um bom plano de aposentadoria?"); ok {
		t.Error("Company name without finance wording should not fire")
	}
	if _, ok := DetectStock("Bom dia, tudo bem?"); ok {
		t.Error("Plain greeting should not fire")
	}
}

func TestDetectCalculationDistribution(t *testing.T) {
	d, ok := DetectCalculation("Quero investir 2 mil reais, como distribuir?")
	if !ok {
		t.Fatal("Expected calculation detector to fire")
	}
	if d.CalculationType != "distribution" {
		t.Errorf("Expected type distribution, got %q", d.CalculationType)
	}
}

func TestDetectCalculationPercentage(t *testing.T) {
	d, ok := DetectCalculation("Quanto é 30% de 500 reais?")
	if !ok {
		t.Fatal("Expected calculation detector to fire")
	}
	if d.CalculationType != "percentage" {
		t.Errorf("Expected type percentage, got %q", d.CalculationType)
	}
}

func TestDetectCalculationCompoundInterest(t *testing.T) {
	d, ok := DetectCalculation("Calcule os juros compostos de 1000 reais")
	if !ok {
		t.Fatal("Expected calculation detector to fire")
	}
	if d.CalculationType != "compound_interest" {
		t.Errorf("Expected type compound_interest, got %q", d.CalculationType)
	}
}

func TestDetectCalculationNoSignal(t *testing.T) {
	if _, ok := DetectCalculation("Me conta uma história"); ok {
		t.Error("Non-arithmetic message should not fire")
	}
}

func TestDetectNewsHeadlines(t *testing.T) {
	d, ok := DetectNews("Quais as principais notícias financeiras?")
	if !ok {
		t.Fatal("Expected news detector to fire")
	}
	if d.QueryType != "headlines" {
		t.Errorf("Expected query type headlines, got %q", d.QueryType)
	}
}

func TestDetectNewsIndicators(t *testing.T) {
	d, ok := DetectNews("Notícias sobre o dólar e a selic")
	if !ok {
		t.Fatal("Expected news detector to fire")
	}
	if d.QueryType != "indicators" {
		t.Errorf("Expected query type indicators, got %q", d.QueryType)
	}
}

func TestDetectNewsSector(t *testing.T) {
	d, ok := DetectNews("Me mostra notícias do setor de tecnologia")
	if !ok {
		t.Fatal("Expected news detector to fire")
	}
	if d.QueryType != "sector" {
		t.Errorf("Expected query type sector, got %q", d.QueryType)
	}
	if d.Sector != "tecnologia" {
		t.Errorf("Expected sector tecnologia, got %q", d.Sector)
	}
}

func TestDetectNewsSearchQuery(t *testing.T) {
	d, ok := DetectNews("Últimas notícias sobre a economia brasileira")
	if !ok {
		t.Fatal("Expected news detector to fire")
	}
	if d.QueryType != "search" {
		t.Errorf("Expected query type search, got %q", d.QueryType)
	}
	if d.Query == "" {
		t.Error("Expected a non-empty extracted query")
	}
}

func TestDetectNewsNoSignal(t *testing.T) {
	if _, ok := DetectNews("Como organizar meu orçamento mensal?"); ok {
		t.Error("Budget question should not fire the news detector")
	}
}
