// Package calc turns Portuguese financial questions into exact
// calculations and formats the result as chat context. Arithmetic runs in
// the calculator service, never in the language model.
package calc

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bolsinho/bolsinho/internal/bridge"
	"github.com/bolsinho/bolsinho/utils"
)

const (
	defaultYears     = 1.0
	defaultFrequency = 12
)

type Service struct {
	client *bridge.CalculatorClient
	logger *logrus.Entry
}

func NewService(client *bridge.CalculatorClient, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.WithField("component", "calc"),
	}
}

// ContextBlock parses the question, runs the calculation the detector
// classified, and renders the result block. Questions the parser cannot
// extract enough data from yield an error so the caller degrades to "no
// context added" and the model answers unaided.
func (s *Service) ContextBlock(ctx context.Context, question, calcType string) (string, error) {
	parsed, err := s.client.ParseFinancialQuestion(ctx, question)
	if err != nil {
		return "", err
	}
	if parsed.CalculationType != "" {
		calcType = parsed.CalculationType
	}

	switch calcType {
	case "distribution":
		return s.distributionBlock(ctx, parsed)
	case "percentage":
		return s.percentageBlock(ctx, parsed)
	case "compound_interest":
		return s.compoundInterestBlock(ctx, parsed)
	default:
		return "", errors.Errorf("calc: no computable data in question (type %q)", calcType)
	}
}

func (s *Service) distributionBlock(ctx context.Context, parsed *bridge.ParsedQuestion) (string, error) {
	if parsed.TotalAmount == nil {
		return "", errors.New("calc: distribution question without a total amount")
	}
	if len(parsed.Percentages) == 0 && len(parsed.Amounts) == 0 {
		return "", errors.New("calc: distribution question without percentages or amounts")
	}

	result, err := s.client.InvestmentDistribution(ctx,
		*parsed.TotalAmount, parsed.Percentages, parsed.Amounts, parsed.Targets)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("\n\n--- CÁLCULO FINANCEIRO ---\n")
	fmt.Fprintf(&b, "Distribuição de %s:\n", result.FormattedTotal)
	for _, entry := range result.Distribution {
		fmt.Fprintf(&b, "- %s: %s (%s)\n",
			entry.Target, entry.FormattedAmount, utils.FormatPercent(entry.Percentage))
	}
	if result.Summary != "" {
		fmt.Fprintf(&b, "%s\n", result.Summary)
	}
	b.WriteString("--- FIM DO CÁLCULO ---\n")
	return b.String(), nil
}

func (s *Service) percentageBlock(ctx context.Context, parsed *bridge.ParsedQuestion) (string, error) {
	if parsed.TotalAmount == nil || len(parsed.Amounts) == 0 {
		return "", errors.New("calc: percentage question without value and total")
	}

	result, err := s.client.Percentage(ctx, parsed.Amounts[0], *parsed.TotalAmount)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("\n\n--- CÁLCULO FINANCEIRO ---\n")
	fmt.Fprintf(&b, "%s representa %s de %s\n",
		utils.FormatBRL(result.Value), result.Formatted, utils.FormatBRL(result.Total))
	b.WriteString("--- FIM DO CÁLCULO ---\n")
	return b.String(), nil
}

func (s *Service) compoundInterestBlock(ctx context.Context, parsed *bridge.ParsedQuestion) (string, error) {
	if parsed.TotalAmount == nil {
		return "", errors.New("calc: interest question without a principal")
	}
	if len(parsed.Percentages) == 0 {
		return "", errors.New("calc: interest question without a rate")
	}

	result, err := s.client.CompoundInterest(ctx,
		*parsed.TotalAmount, parsed.Percentages[0], defaultYears, defaultFrequency)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("\n\n--- CÁLCULO FINANCEIRO ---\n")
	fmt.Fprintf(&b, "Principal: %s\n", utils.FormatBRL(result.Principal))
	fmt.Fprintf(&b, "Taxa: %s ao ano (capitalização mensal)\n", utils.FormatPercent(result.Rate))
	fmt.Fprintf(&b, "Período: %.0f ano(s)\n", result.TimeYears)
	fmt.Fprintf(&b, "Valor futuro: %s\n", result.FormattedFutureValue)
	fmt.Fprintf(&b, "Juros acumulados: %s\n", result.FormattedInterest)
	b.WriteString("--- FIM DO CÁLCULO ---\n")
	return b.String(), nil
}
