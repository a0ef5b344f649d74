// Package costledger tracks per-model pricing, budget consumption, routing
// by priority, and cost forecasting.
package costledger

import "time"

// ModelPricing is the per-1,000-token cost for one model.
type ModelPricing struct {
	ModelID         string
	InputTokenCost  float64 // per 1,000 input tokens
	OutputTokenCost float64 // per 1,000 output tokens
}

// BudgetModel is one model entry inside a Budget's routing list.
type BudgetModel struct {
	ModelID  string
	Priority int // higher = preferred
	MaxCost  *float64
}

// Budget is a monetary cap with per-model sub-caps and an alert threshold.
type Budget struct {
	ID              string
	MaxCost         float64
	CurrentCost     float64
	AlertThreshold  float64 // percentage, e.g. 80 means 80%
	Models          []BudgetModel
	alertsFired     map[float64]bool // internal: which threshold crossings already alerted
	breachAnnounced bool
}

// Breached reports whether the budget has hit or exceeded its cap.
func (b *Budget) Breached() bool {
	return b.CurrentCost >= b.MaxCost
}

// Usage is one trackUsage call.
type Usage struct {
	ModelID      string
	InputTokens  int
	OutputTokens int
	Timestamp    time.Time
}

// ForecastBreakdown is one line item in a cost forecast.
type ForecastBreakdown struct {
	ModelID string
	Tokens  int
	Cost    float64
}

// Forecast is the result of forecastCost.
type Forecast struct {
	EstimatedCost float64
	Confidence    float64
	Breakdown     []ForecastBreakdown
}

// Alert is emitted when a budget crosses its alert threshold.
type Alert struct {
	BudgetID  string
	Threshold float64
	Cost      float64
	Timestamp time.Time
}
