package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/governor/internal/transform"
)

// handleApply validates a ChangeSpec and applies its patches against the
// configured workdir root.
func (s *Server) handleApply(c *gin.Context) {
	var spec transform.ChangeSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		badRequest(c, "invalid change spec: "+err.Error())
		return
	}
	if err := transform.ValidateChangeSpec(&spec); err != nil {
		respondError(c, err)
		return
	}

	result := s.engine.Apply(spec, s.cfg.Server.WorkdirRoot)
	c.JSON(http.StatusOK, result)
}

type verifyRequest struct {
	Spec       transform.ChangeSpec `json:"spec"`
	WorkingDir string               `json:"workingDir"`
}

// handleVerify runs a ChangeSpec's invariants and mutation tests against
// an already-applied working directory.
func (s *Server) handleVerify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid verify request: "+err.Error())
		return
	}
	if err := transform.ValidateChangeSpec(&req.Spec); err != nil {
		respondError(c, err)
		return
	}

	workdir := req.WorkingDir
	if workdir == "" {
		workdir = s.cfg.Server.WorkdirRoot
	}

	result := s.engine.Verify(c.Request.Context(), req.Spec, workdir, s.cfg.Server.MutationRunnerCmd)
	c.JSON(http.StatusOK, result)
}
