package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/codeready-toolchain/governor/internal/api"
	"github.com/codeready-toolchain/governor/internal/config"
	"github.com/codeready-toolchain/governor/internal/costledger"
	"github.com/codeready-toolchain/governor/internal/evidence"
	"github.com/codeready-toolchain/governor/internal/mission"
	"github.com/codeready-toolchain/governor/internal/redactor"
	"github.com/codeready-toolchain/governor/internal/transform"
	_ "github.com/codeready-toolchain/governor/internal/transform/javapack"
	_ "github.com/codeready-toolchain/governor/internal/transform/jsts"
	_ "github.com/codeready-toolchain/governor/internal/transform/pypack"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Governor HTTP control plane",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "path to configuration directory")
	rootCmd.AddCommand(serveCmd)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func runServe(cmd *cobra.Command, args []string) error {
	configDir, _ := cmd.Flags().GetString("config-dir")

	// Load .env file from the config directory for developer convenience.
	envPath := filepath.Join(configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Info("no .env file loaded, continuing with existing environment", "path", envPath)
	} else {
		slog.Info("loaded environment", "path", envPath)
	}

	gin.SetMode(getEnv("GIN_MODE", gin.ReleaseMode))

	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	transform.SetSelectorToggles(cfg.AllowIdentifier, cfg.AllowCallExpr)

	red := redactor.NewService(cfg.RedactorPolicies)
	ledger := costledger.NewLedger(cfg.PricingTable, nil)
	ledger.CreateBudget(costledger.Budget{
		ID:             "default",
		MaxCost:        100,
		AlertThreshold: 80,
		Models:         defaultBudgetModels(cfg.PricingTable),
	})
	engine := transform.NewEngine()
	ev := evidence.NewStore(cfg.Server.StorePath, nil)
	coordinator := mission.NewCoordinator(red, engine, ev, nil)

	sweeper := mission.NewSweeper(coordinator, cfg.SweeperInterval, cfg.SweeperThreshold)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go sweeper.Run(ctx)

	server := api.NewServer(cfg, red, ledger, engine, coordinator, ev)
	server.SetSweeper(sweeper)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// defaultBudgetModels enrolls every configured pricing model in the
// default budget, priority by descending input cost so routing prefers
// the most capable tier while headroom lasts.
func defaultBudgetModels(table []costledger.ModelPricing) []costledger.BudgetModel {
	out := make([]costledger.BudgetModel, 0, len(table))
	for _, m := range table {
		out = append(out, costledger.BudgetModel{
			ModelID:  m.ModelID,
			Priority: int(m.InputTokenCost * 1000),
		})
	}
	return out
}
