package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/governor/internal/mission"
)

type createMissionRequest struct {
	Title string `json:"title" binding:"required"`
	Risk  string `json:"risk,omitempty"`
}

func (s *Server) handleCreateMission(c *gin.Context) {
	var req createMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid mission request: "+err.Error())
		return
	}

	risk := mission.Risk(req.Risk)
	switch risk {
	case "":
		risk = mission.RiskMedium
	case mission.RiskLow, mission.RiskMedium, mission.RiskHigh:
	default:
		badRequest(c, "unrecognized risk level: "+req.Risk)
		return
	}

	m := s.coordinator.CreateMission(req.Title, risk)
	c.JSON(http.StatusCreated, m)
}

func (s *Server) handleGetMission(c *gin.Context) {
	m, err := s.coordinator.GetMission(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) handleApproveCheckpoint(c *gin.Context) {
	name := mission.CheckpointName(c.Param("name"))
	switch name {
	case mission.CheckpointPlan, mission.CheckpointExecute, mission.CheckpointVerify, mission.CheckpointFinalize:
	default:
		respondError(c, mission.ErrCheckpointNotFound)
		return
	}

	m, err := s.coordinator.ApproveCheckpoint(c.Param("id"), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type createBatchRequest struct {
	Paths []string `json:"paths,omitempty"`
}

func (s *Server) handleCreateBatch(c *gin.Context) {
	var req createBatchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid batch request: "+err.Error())
			return
		}
	}

	b, err := s.coordinator.CreateBatch(c.Param("id"), req.Paths)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (s *Server) handleRollbackBatch(c *gin.Context) {
	ok, err := s.coordinator.RollbackBatch(c.Param("missionId"), c.Param("batchId"), s.cfg.Server.WorkdirRoot)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": ok,
		"message": "batch rolled back",
	})
}
