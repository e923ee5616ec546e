package bridge

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// ParsedQuestion mirrors parse_financial_question: the structured pieces
// the calculator could pull out of a Portuguese financial question.
type ParsedQuestion struct {
	TotalAmount     *float64  `json:"total_amount"`
	Percentages     []float64 `json:"percentages"`
	Amounts         []float64 `json:"amounts"`
	Targets         []string  `json:"targets"`
	CalculationType string    `json:"calculation_type"`
}

// DistributionEntry is one allocation line of an investment distribution.
type DistributionEntry struct {
	Target          string  `json:"target"`
	Percentage      float64 `json:"percentage"`
	Amount          float64 `json:"amount"`
	FormattedAmount string  `json:"formatted_amount"`
}

// DistributionResult mirrors calculate_investment_distribution.
type DistributionResult struct {
	TotalAmount    float64             `json:"total_amount"`
	FormattedTotal string              `json:"formatted_total"`
	Distribution   []DistributionEntry `json:"distribution"`
	Summary        string              `json:"summary"`
}

// PercentageResult mirrors calculate_percentage.
type PercentageResult struct {
	Value      float64 `json:"value"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
	Formatted  string  `json:"formatted"`
}

// CompoundInterestResult mirrors calculate_compound_interest.
type CompoundInterestResult struct {
	Principal            float64 `json:"principal"`
	Rate                 float64 `json:"rate"`
	TimeYears            float64 `json:"time_years"`
	FutureValue          float64 `json:"future_value"`
	InterestEarned       float64 `json:"interest_earned"`
	FormattedFutureValue string  `json:"formatted_future_value"`
	FormattedInterest    string  `json:"formatted_interest"`
}

// CalculatorClient wraps the precise-arithmetic service. The LLM is never
// trusted with arithmetic; these calls are.
type CalculatorClient struct {
	runner *Runner
}

func NewCalculatorClient(runner *Runner) *CalculatorClient {
	return &CalculatorClient{runner: runner}
}

func (c *CalculatorClient) invoke(ctx context.Context, method string, args []any, out any) error {
	raw, err := c.runner.Invoke(ctx, "calculator", method, args)
	if err != nil {
		return err
	}
	if err := checkEnvelope("calculator", raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", method)
	}
	return nil
}

func (c *CalculatorClient) ParseFinancialQuestion(ctx context.Context, question string) (*ParsedQuestion, error) {
	var parsed ParsedQuestion
	if err := c.invoke(ctx, "parse_financial_question", []any{question}, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (c *CalculatorClient) InvestmentDistribution(ctx context.Context, total float64, percentages, amounts []float64, targets []string) (*DistributionResult, error) {
	var result DistributionResult
	err := c.invoke(ctx, "calculate_investment_distribution",
		[]any{total, percentages, amounts, targets}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *CalculatorClient) Percentage(ctx context.Context, value, total float64) (*PercentageResult, error) {
	var result PercentageResult
	if err := c.invoke(ctx, "calculate_percentage", []any{value, total}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *CalculatorClient) CompoundInterest(ctx context.Context, principal, rate, years float64, frequency int) (*CompoundInterestResult, error) {
	var result CompoundInterestResult
	err := c.invoke(ctx, "calculate_compound_interest",
		[]any{principal, rate, years, frequency}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
