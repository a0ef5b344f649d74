package costledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/governor/internal/clock"
)

func newTestLedger() *Ledger {
	return NewLedger(DefaultPricingTable(), clock.Real{})
}

func TestRouteRequest_PicksHighestPriorityWithinBudget(t *testing.T) {
	l := newTestLedger()
	l.CreateBudget(Budget{
		ID:             "b-1",
		MaxCost:        10,
		AlertThreshold: 80,
		Models: []BudgetModel{
			{ModelID: "cheap", Priority: 1},
			{ModelID: "premium", Priority: 2},
		},
	})

	model, err := l.RouteRequest("b-1", 1000)
	require.NoError(t, err)
	assert.Equal(t, "premium", model)
}

func TestRouteRequest_FallsBackWhenBudgetTight(t *testing.T) {
	l := newTestLedger()
	l.CreateBudget(Budget{
		ID:             "b-2",
		MaxCost:        0.01,
		AlertThreshold: 80,
		Models: []BudgetModel{
			{ModelID: "cheap", Priority: 1},
			{ModelID: "premium", Priority: 2},
		},
	})

	model, err := l.RouteRequest("b-2", 1000)
	require.NoError(t, err)
	assert.Equal(t, "cheap", model)
}

func TestRouteRequest_NoViableModel(t *testing.T) {
	l := newTestLedger()
	l.CreateBudget(Budget{
		ID:             "b-3",
		MaxCost:        0.0001,
		AlertThreshold: 80,
		Models: []BudgetModel{
			{ModelID: "cheap", Priority: 1},
		},
	})

	_, err := l.RouteRequest("b-3", 1000)
	assert.ErrorIs(t, err, ErrNoViableModel)
}

func TestRouteRequest_RespectsPerModelSubCap(t *testing.T) {
	l := newTestLedger()
	subCap := 0.0001
	l.CreateBudget(Budget{
		ID:             "b-4",
		MaxCost:        10,
		AlertThreshold: 80,
		Models: []BudgetModel{
			{ModelID: "premium", Priority: 2, MaxCost: &subCap},
			{ModelID: "cheap", Priority: 1},
		},
	})

	model, err := l.RouteRequest("b-4", 1000)
	require.NoError(t, err)
	assert.Equal(t, "cheap", model)
}

func TestTrackUsage_AccumulatesCostAcrossCalls(t *testing.T) {
	l := newTestLedger()
	l.CreateBudget(Budget{
		ID:             "b-5",
		MaxCost:        10,
		AlertThreshold: 80,
		Models:         []BudgetModel{{ModelID: "cheap", Priority: 1}},
	})

	_, err := l.TrackUsage(Usage{ModelID: "cheap", InputTokens: 1000, OutputTokens: 1000})
	require.NoError(t, err)
	_, err = l.TrackUsage(Usage{ModelID: "cheap", InputTokens: 1000, OutputTokens: 1000})
	require.NoError(t, err)

	b, err := l.GetBudget("b-5")
	require.NoError(t, err)
	expected := 2 * ((1000.0/1000.0)*0.0005 + (1000.0/1000.0)*0.0015)
	assert.InDelta(t, expected, b.CurrentCost, 1e-9)
	assert.False(t, b.Breached())
}

func TestTrackUsage_ReturnsErrBudgetExceededOnceAndStillRecords(t *testing.T) {
	l := newTestLedger()
	l.CreateBudget(Budget{
		ID:             "b-6",
		MaxCost:        0.001,
		AlertThreshold: 50,
		Models:         []BudgetModel{{ModelID: "cheap", Priority: 1}},
	})

	_, err := l.TrackUsage(Usage{ModelID: "cheap", InputTokens: 1000, OutputTokens: 1000})
	require.ErrorIs(t, err, ErrBudgetExceeded)

	b, err := l.GetBudget("b-6")
	require.NoError(t, err)
	assert.True(t, b.Breached())

	// Usage was still recorded even though the budget is breached.
	_, err = l.TrackUsage(Usage{ModelID: "cheap", InputTokens: 10, OutputTokens: 10})
	require.NoError(t, err) // breach already announced once, not re-raised
	b2, err := l.GetBudget("b-6")
	require.NoError(t, err)
	assert.Greater(t, b2.CurrentCost, b.CurrentCost)
}

func TestTrackUsage_FiresAlertOnceAtThreshold(t *testing.T) {
	l := newTestLedger()
	l.CreateBudget(Budget{
		ID:             "b-7",
		MaxCost:        1,
		AlertThreshold: 50,
		Models:         []BudgetModel{{ModelID: "premium", Priority: 1}},
	})

	alerts, err := l.TrackUsage(Usage{ModelID: "premium", InputTokens: 1000, OutputTokens: 30000})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "b-7", alerts[0].BudgetID)

	alerts2, err := l.TrackUsage(Usage{ModelID: "premium", InputTokens: 10, OutputTokens: 10})
	require.NoError(t, err)
	assert.Empty(t, alerts2)
}

func TestTrackUsage_UnknownModel(t *testing.T) {
	l := newTestLedger()
	_, err := l.TrackUsage(Usage{ModelID: "nonexistent", InputTokens: 1, OutputTokens: 1})
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestForecastCost_PureFunction(t *testing.T) {
	l := newTestLedger()
	f, err := l.ForecastCost("cheap", 2000, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 2*0.0005+1*0.0015, f.EstimatedCost, 1e-9)
	assert.Equal(t, 0.95, f.Confidence)
	require.Len(t, f.Breakdown, 1)
	assert.Equal(t, 3000, f.Breakdown[0].Tokens)
}

func TestGetBudget_NotFound(t *testing.T) {
	l := newTestLedger()
	_, err := l.GetBudget("missing")
	assert.ErrorIs(t, err, ErrBudgetNotFound)
}
