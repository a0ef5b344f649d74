package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/governor/internal/costledger"
	"github.com/codeready-toolchain/governor/internal/transform"
)

type forecastRequest struct {
	ChangeSpec transform.ChangeSpec `json:"changeSpec"`
	Provider   string               `json:"provider,omitempty"`
}

// handleForecast estimates the cost of processing a ChangeSpec with the
// given (or cheapest) model.
func (s *Server) handleForecast(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid forecast request: "+err.Error())
		return
	}

	raw, err := json.Marshal(req.ChangeSpec)
	if err != nil {
		respondError(c, err)
		return
	}
	inputTokens := len(raw)/4 + 1
	outputTokens := inputTokens / 2

	provider := req.Provider
	if provider == "" {
		provider = s.cheapestModel()
	}

	forecast, err := s.ledger.ForecastCost(provider, inputTokens, outputTokens)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"usdEstimate": forecast.EstimatedCost,
		"tokens":      inputTokens + outputTokens,
		"p95Latency":  estimateLatencyMs(inputTokens + outputTokens),
	})
}

// cheapestModel returns the pricing table's lowest input-cost model, used
// when a forecast names no provider.
func (s *Server) cheapestModel() string {
	table := s.ledger.PricingTable()
	if len(table) == 0 {
		return ""
	}
	sort.Slice(table, func(i, j int) bool { return table[i].InputTokenCost < table[j].InputTokenCost })
	return table[0].ModelID
}

// estimateLatencyMs is a coarse latency model: a fixed floor plus a
// per-token term. v1 has no historical latency data to draw on.
func estimateLatencyMs(tokens int) int {
	return 200 + tokens/10
}

type budgetStatus struct {
	ID             string  `json:"id"`
	MaxCost        float64 `json:"maxCost"`
	CurrentCost    float64 `json:"currentCost"`
	Remaining      float64 `json:"remaining"`
	AlertThreshold float64 `json:"alertThreshold"`
	Breached       bool    `json:"breached"`
}

func toBudgetStatus(b costledger.Budget) budgetStatus {
	remaining := b.MaxCost - b.CurrentCost
	if remaining < 0 {
		remaining = 0
	}
	return budgetStatus{
		ID:             b.ID,
		MaxCost:        b.MaxCost,
		CurrentCost:    b.CurrentCost,
		Remaining:      remaining,
		AlertThreshold: b.AlertThreshold,
		Breached:       b.Breached(),
	}
}

func (s *Server) handleGetBudgets(c *gin.Context) {
	budgets := s.ledger.Budgets()
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].ID < budgets[j].ID })

	out := make([]budgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetStatus(b))
	}
	c.JSON(http.StatusOK, gin.H{"budgets": out})
}

type budgetModelRequest struct {
	ModelID  string   `json:"modelId" binding:"required"`
	Priority int      `json:"priority"`
	MaxCost  *float64 `json:"maxCost,omitempty"`
}

type createBudgetRequest struct {
	ID             string               `json:"id" binding:"required"`
	MaxCost        float64              `json:"maxCost" binding:"required"`
	AlertThreshold float64              `json:"alertThreshold,omitempty"`
	Consumed       float64              `json:"consumed,omitempty"`
	Models         []budgetModelRequest `json:"models,omitempty"`
}

func (s *Server) handleCreateBudget(c *gin.Context) {
	var req createBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid budget request: "+err.Error())
		return
	}
	if req.MaxCost <= 0 {
		badRequest(c, "maxCost must be positive")
		return
	}

	threshold := req.AlertThreshold
	if threshold == 0 {
		threshold = 80
	}

	models := make([]costledger.BudgetModel, 0, len(req.Models))
	for _, m := range req.Models {
		models = append(models, costledger.BudgetModel{
			ModelID:  m.ModelID,
			Priority: m.Priority,
			MaxCost:  m.MaxCost,
		})
	}

	b := s.ledger.CreateBudget(costledger.Budget{
		ID:             req.ID,
		MaxCost:        req.MaxCost,
		CurrentCost:    req.Consumed,
		AlertThreshold: threshold,
		Models:         models,
	})
	c.JSON(http.StatusCreated, toBudgetStatus(*b))
}

type modelPolicyView struct {
	ModelID         string  `json:"modelId"`
	InputTokenCost  float64 `json:"inputTokenCost"`
	OutputTokenCost float64 `json:"outputTokenCost"`
}

func (s *Server) handleGetModelPolicies(c *gin.Context) {
	table := s.ledger.PricingTable()
	sort.Slice(table, func(i, j int) bool { return table[i].ModelID < table[j].ModelID })

	out := make([]modelPolicyView, 0, len(table))
	for _, m := range table {
		out = append(out, modelPolicyView{ModelID: m.ModelID, InputTokenCost: m.InputTokenCost, OutputTokenCost: m.OutputTokenCost})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handlePutModelPolicy(c *gin.Context) {
	var req modelPolicyView
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid model policy: "+err.Error())
		return
	}
	if req.ModelID == "" {
		badRequest(c, "modelId must not be empty")
		return
	}
	if req.InputTokenCost < 0 || req.OutputTokenCost < 0 {
		badRequest(c, "token costs must be non-negative")
		return
	}

	s.ledger.RegisterModel(costledger.ModelPricing{
		ModelID:         req.ModelID,
		InputTokenCost:  req.InputTokenCost,
		OutputTokenCost: req.OutputTokenCost,
	})
	s.handleGetModelPolicies(c)
}
