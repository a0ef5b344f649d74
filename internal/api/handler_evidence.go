package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/governor/internal/evidence"
	"github.com/codeready-toolchain/governor/internal/mission"
	"github.com/codeready-toolchain/governor/internal/version"
)

type appendEventRequest struct {
	Type      string                 `json:"type" binding:"required"`
	MissionID string                 `json:"missionId"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

func (s *Server) handleAppendEvent(c *gin.Context) {
	var req appendEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid event request: "+err.Error())
		return
	}

	eventType := evidence.EventType(req.Type)
	if !evidence.ValidEventType(eventType) {
		badRequest(c, "unknown event type: "+req.Type)
		return
	}

	evt, err := s.evidence.Append(eventType, req.MissionID, req.Data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, evt)
}

func (s *Server) handleProvenance(c *gin.Context) {
	missionID := c.Param("id")
	if _, err := s.coordinator.GetMission(missionID); err != nil {
		respondError(c, err)
		return
	}

	events := s.evidence.EventsForMission(missionID)
	c.JSON(http.StatusOK, evidence.BuildProvenanceGraph(missionID, events))
}

type exportRequest struct {
	MissionID  string          `json:"missionId" binding:"required"`
	ChangeSpec json.RawMessage `json:"changeSpec"`
}

// handleExport assembles and streams the mission's audit pack archive,
// attaching the pack reference to the finalize checkpoint.
func (s *Server) handleExport(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid export request: "+err.Error())
		return
	}
	if _, err := s.coordinator.GetMission(req.MissionID); err != nil {
		respondError(c, err)
		return
	}

	pack, archive, err := s.evidence.ExportAuditPack(req.MissionID, req.ChangeSpec, evidence.ArchiveInputs{}, version.Block())
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := s.coordinator.AttachAuditPack(req.MissionID, pack.ID); err != nil && !errors.Is(err, mission.ErrMissionNotFound) {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="auditpack_`+pack.ID+`.zip"`)
	c.Data(http.StatusOK, "application/zip", archive)
}
