package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/governor/internal/redactor"
)

type preflightRequest struct {
	Content  string                 `json:"content" binding:"required"`
	Provider string                 `json:"provider,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type findingView struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Policy   string `json:"policy"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// handlePreflight scans gateway-bound content for secrets/PII before it
// leaves the trust boundary. Block findings become violations; redact
// findings become redactions with the sanitized content attached.
func (s *Server) handlePreflight(c *gin.Context) {
	var req preflightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid preflight request: "+err.Error())
		return
	}

	start := time.Now()
	result, err := s.redactor.Scan(req.Content, "")
	latency := time.Since(start)
	c.Header("X-Preflight-Latency-Ms", fmt.Sprintf("%d", latency.Milliseconds()))

	var pv *redactor.PolicyViolation
	if err != nil && !errors.As(err, &pv) {
		respondError(c, err)
		return
	}

	var violations, redactions []findingView
	for _, f := range result.Findings {
		view := findingView{
			Type:     string(f.Type),
			Severity: string(f.Severity),
			Message:  f.Message,
			Policy:   f.Policy,
			Line:     f.Location.StartLine,
			Column:   f.Location.StartColumn,
		}
		if pv != nil && f == pv.Finding {
			violations = append(violations, view)
		} else {
			redactions = append(redactions, view)
		}
	}

	resp := gin.H{
		"ok":         pv == nil,
		"violations": emptyIfNil(violations),
		"redactions": emptyIfNil(redactions),
	}
	if pv == nil {
		resp["sanitizedContent"] = result.Redacted
	}
	c.JSON(http.StatusOK, resp)
}

type routeRequest struct {
	Task              string `json:"task" binding:"required"`
	Budget            string `json:"budget,omitempty"`
	PreferredProvider string `json:"preferredProvider,omitempty"`
}

// handleRoute picks a model for a task under the named budget's remaining
// capacity, highest priority first.
func (s *Server) handleRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid route request: "+err.Error())
		return
	}

	budgetID := req.Budget
	if budgetID == "" {
		budgetID = "default"
	}

	// Rough token estimate: four characters per token, the usual rule of
	// thumb for latin-script prompts.
	estimatedTokens := len(req.Task)/4 + 1

	provider, err := s.ledger.RouteRequest(budgetID, estimatedTokens)
	if err != nil {
		respondError(c, err)
		return
	}

	policyApplied := "priority-routing"
	if req.PreferredProvider != "" && req.PreferredProvider != provider {
		policyApplied = "priority-routing (preferred provider overridden by budget)"
	}

	forecast, err := s.ledger.ForecastCost(provider, estimatedTokens, 0)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider":      provider,
		"policyApplied": policyApplied,
		"estimatedCost": forecast.EstimatedCost,
	})
}

func emptyIfNil(in []findingView) []findingView {
	if in == nil {
		return []findingView{}
	}
	return in
}
