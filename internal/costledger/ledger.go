package costledger

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/codeready-toolchain/governor/internal/clock"
)

// Ledger is the Cost Ledger component: a pricing table plus a set of
// budgets, guarded by one coarse mutex. Concurrent TrackUsage
// calls on the same budget serialize here so the aggregated currentCost
// always equals the sum of individual costs.
type Ledger struct {
	mu      sync.Mutex
	pricing map[string]ModelPricing
	budgets map[string]*Budget
	clock   clock.Clock
}

// NewLedger creates a ledger seeded with the given pricing table.
func NewLedger(pricing []ModelPricing, c clock.Clock) *Ledger {
	if c == nil {
		c = clock.Real{}
	}
	l := &Ledger{
		pricing: make(map[string]ModelPricing),
		budgets: make(map[string]*Budget),
		clock:   c,
	}
	for _, p := range pricing {
		l.pricing[p.ModelID] = p
	}
	return l
}

// RegisterModel adds or replaces a pricing entry.
func (l *Ledger) RegisterModel(p ModelPricing) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pricing[p.ModelID] = p
}

// CreateBudget registers a new budget. Models referencing unknown modelIds
// are still accepted — pricing can be registered after the fact — but
// trackUsage/routeRequest will fail for them until pricing exists.
func (l *Ledger) CreateBudget(b Budget) *Budget {
	l.mu.Lock()
	defer l.mu.Unlock()
	stored := b
	stored.alertsFired = make(map[float64]bool)
	l.budgets[stored.ID] = &stored
	return &stored
}

// GetBudget returns a budget by ID.
func (l *Ledger) GetBudget(id string) (*Budget, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.budgets[id]
	if !ok {
		return nil, ErrBudgetNotFound
	}
	clone := *b
	return &clone, nil
}

// cost computes the price of one usage record against the pricing table.
func cost(p ModelPricing, inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)/1000.0)*p.InputTokenCost + (float64(outputTokens)/1000.0)*p.OutputTokenCost
}

// TrackUsage records usage against every budget whose models[] lists
// modelId, adding the computed cost to currentCost, firing alerts
// monotonically per threshold crossing, and returning ErrBudgetExceeded if
// any affected budget's currentCost reaches or passes its maxCost. The
// usage is recorded against all matching budgets regardless of whether any
// individual budget is exceeded.
func (l *Ledger) TrackUsage(u Usage) ([]Alert, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pricing, ok := l.pricing[u.ModelID]
	if !ok {
		return nil, fmt.Errorf("model %q: %w", u.ModelID, ErrModelNotFound)
	}
	if u.Timestamp.IsZero() {
		u.Timestamp = l.clock.Now()
	}

	c := cost(pricing, u.InputTokens, u.OutputTokens)

	var alerts []Alert
	var exceeded error

	for _, b := range l.budgets {
		if !budgetListsModel(b, u.ModelID) {
			continue
		}
		b.CurrentCost += c

		if b.MaxCost > 0 {
			pct := (b.CurrentCost / b.MaxCost) * 100
			if pct >= b.AlertThreshold && !b.alertsFired[b.AlertThreshold] {
				b.alertsFired[b.AlertThreshold] = true
				alerts = append(alerts, Alert{
					BudgetID:  b.ID,
					Threshold: b.AlertThreshold,
					Cost:      b.CurrentCost,
					Timestamp: u.Timestamp,
				})
				slog.Warn("costledger: budget alert threshold crossed",
					"budget_id", b.ID, "threshold_pct", b.AlertThreshold, "current_cost", b.CurrentCost)
			}
		}

		if b.Breached() && !b.breachAnnounced {
			b.breachAnnounced = true
			exceeded = fmt.Errorf("budget %s: %w", b.ID, ErrBudgetExceeded)
		}
	}

	return alerts, exceeded
}

func budgetListsModel(b *Budget, modelID string) bool {
	for _, m := range b.Models {
		if m.ModelID == modelID {
			return true
		}
	}
	return false
}

// RouteRequest considers a budget's models sorted by priority descending
// and returns the first whose projected cost fits the budget's remaining
// capacity and its own sub-cap, if any.
func (l *Ledger) RouteRequest(budgetID string, estimatedInputTokens int) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.budgets[budgetID]
	if !ok {
		return "", ErrBudgetNotFound
	}

	remaining := b.MaxCost - b.CurrentCost
	if remaining < 0 {
		remaining = 0
	}

	models := make([]BudgetModel, len(b.Models))
	copy(models, b.Models)
	sort.Slice(models, func(i, j int) bool { return models[i].Priority > models[j].Priority })

	for _, m := range models {
		pricing, ok := l.pricing[m.ModelID]
		if !ok {
			continue
		}
		projected := (float64(estimatedInputTokens) / 1000.0) * pricing.InputTokenCost
		if projected > remaining {
			continue
		}
		if m.MaxCost != nil && projected > *m.MaxCost {
			continue
		}
		return m.ModelID, nil
	}

	return "", ErrNoViableModel
}

// PricingTable returns a snapshot of every registered model's pricing.
func (l *Ledger) PricingTable() []ModelPricing {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ModelPricing, 0, len(l.pricing))
	for _, p := range l.pricing {
		out = append(out, p)
	}
	return out
}

// Budgets returns a snapshot of every registered budget.
func (l *Ledger) Budgets() []Budget {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Budget, 0, len(l.budgets))
	for _, b := range l.budgets {
		out = append(out, *b)
	}
	return out
}

// ForecastCost is a pure function over the pricing table: estimate the cost
// of a given token usage for one model, with a fixed confidence level
// (0.95) since v1 has no historical-variance model.
func (l *Ledger) ForecastCost(modelID string, inputTokens, outputTokens int) (Forecast, error) {
	l.mu.Lock()
	pricing, ok := l.pricing[modelID]
	l.mu.Unlock()
	if !ok {
		return Forecast{}, fmt.Errorf("model %q: %w", modelID, ErrModelNotFound)
	}

	c := cost(pricing, inputTokens, outputTokens)
	return Forecast{
		EstimatedCost: c,
		Confidence:    0.95,
		Breakdown: []ForecastBreakdown{
			{ModelID: modelID, Tokens: inputTokens + outputTokens, Cost: c},
		},
	}, nil
}
