package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/governor/internal/costledger"
	"github.com/codeready-toolchain/governor/internal/evidence"
	"github.com/codeready-toolchain/governor/internal/mission"
	"github.com/codeready-toolchain/governor/internal/redactor"
	"github.com/codeready-toolchain/governor/internal/transform"
)

// respondError maps component-layer errors to HTTP error responses:
// validation errors to 400, not-found sentinels to 404, everything
// unforeseen to a secret-free 500. Error bodies are {error, details?}.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, transform.ErrInvalidChangeSpec),
		errors.Is(err, transform.ErrInvalidSelector),
		errors.Is(err, transform.ErrUnsupportedOperation),
		errors.Is(err, mission.ErrCheckpointNotPending),
		errors.Is(err, costledger.ErrBudgetExceeded),
		errors.Is(err, costledger.ErrNoViableModel):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, mission.ErrSecurityBlock):
		var block *mission.SecurityBlockError
		details := gin.H{}
		if errors.As(err, &block) {
			details["file"] = block.File
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "security block: critical finding in apply input", "details": details})

	case isPolicyViolation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, mission.ErrMissionNotFound),
		errors.Is(err, mission.ErrCheckpointNotFound),
		errors.Is(err, mission.ErrBatchNotFound),
		errors.Is(err, costledger.ErrBudgetNotFound),
		errors.Is(err, costledger.ErrModelNotFound),
		errors.Is(err, evidence.ErrPackNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	default:
		// Unexpected error. Log server-side; never leak content to the
		// client from here.
		slog.Error("api: unexpected error", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func isPolicyViolation(err error) bool {
	var pv *redactor.PolicyViolation
	return errors.As(err, &pv)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
