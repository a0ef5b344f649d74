package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/governor/internal/version"
)

// handleHealth aggregates per-component health into one payload: policy
// and budget counts, evidence log size, mission/batch counts, sweeper
// activity, and operational warnings.
func (s *Server) handleHealth(c *gin.Context) {
	missions, batches := s.coordinator.Stats()

	var warnings []string
	if s.cfg.Server.MutationRunnerCmd == "" {
		warnings = append(warnings, "no mutation-testing runner configured; verify will synthesize placeholder reports")
	}

	components := gin.H{
		"redactor": gin.H{
			"policies": s.redactor.PolicyCount(),
		},
		"costLedger": gin.H{
			"budgets":       len(s.ledger.Budgets()),
			"pricingModels": len(s.ledger.PricingTable()),
		},
		"evidence": gin.H{
			"events":    s.evidence.EventCount(),
			"storePath": s.cfg.Server.StorePath,
		},
		"missions": gin.H{
			"total":   missions,
			"batches": batches,
		},
	}
	if s.sweeper != nil {
		lastScan, swept := s.sweeper.Stats()
		components["sweeper"] = gin.H{
			"lastScan": lastScan,
			"swept":    swept,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    version.Full(),
		"warnings":   warnings,
		"components": components,
	})
}
