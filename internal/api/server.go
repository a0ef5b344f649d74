// Package api provides the HTTP surface for Governor: the preflight/routing
// gateway, mission lifecycle, transform engine, FinOps, and evidence
// endpoints.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/governor/internal/config"
	"github.com/codeready-toolchain/governor/internal/costledger"
	"github.com/codeready-toolchain/governor/internal/evidence"
	"github.com/codeready-toolchain/governor/internal/mission"
	"github.com/codeready-toolchain/governor/internal/redactor"
	"github.com/codeready-toolchain/governor/internal/transform"
)

// Server is the HTTP API server. It holds explicit handles to every
// component rather than reaching for package-level singletons, so tests
// can create fresh instances per scenario.
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	cfg         *config.Config
	redactor    *redactor.Service
	ledger      *costledger.Ledger
	engine      *transform.Engine
	coordinator *mission.Coordinator
	evidence    *evidence.Store
	sweeper     *mission.Sweeper // nil when sweeping disabled
}

// NewServer wires the five components into the route table.
func NewServer(
	cfg *config.Config,
	red *redactor.Service,
	ledger *costledger.Ledger,
	engine *transform.Engine,
	coordinator *mission.Coordinator,
	ev *evidence.Store,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), requireJSONBody())

	s := &Server{
		router:      router,
		cfg:         cfg,
		redactor:    red,
		ledger:      ledger,
		engine:      engine,
		coordinator: coordinator,
		evidence:    ev,
	}
	s.setupRoutes()
	return s
}

// SetSweeper attaches the stale-batch sweeper so /health can report its
// activity.
func (s *Server) SetSweeper(sw *mission.Sweeper) {
	s.sweeper = sw
}

func (s *Server) setupRoutes() {
	r := s.router

	r.POST("/gateway/preflight", s.handlePreflight)
	r.POST("/gateway/route", s.handleRoute)

	r.POST("/missions", s.handleCreateMission)
	r.GET("/missions/:id", s.handleGetMission)
	r.POST("/missions/:id/checkpoints/:name/approve", s.handleApproveCheckpoint)
	r.POST("/missions/:id/batches", s.handleCreateBatch)
	r.POST("/missions/:missionId/rollback/:batchId", s.handleRollbackBatch)

	r.POST("/dte/apply", s.handleApply)
	r.POST("/dte/verify", s.handleVerify)

	r.POST("/finops/forecast", s.handleForecast)
	r.GET("/finops/budget", s.handleGetBudgets)
	r.POST("/finops/budget", s.handleCreateBudget)

	r.GET("/policies/models", s.handleGetModelPolicies)
	r.PUT("/policies/models", s.handlePutModelPolicy)

	r.POST("/evidence/events", s.handleAppendEvent)
	r.GET("/evidence/mission/:id", s.handleProvenance)
	r.POST("/evidence/export", s.handleExport)

	r.GET("/health", s.handleHealth)
}

// Handler exposes the router for httptest-based tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving on addr and blocks until the listener fails or
// Shutdown is called.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("api: listening", "addr", addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
