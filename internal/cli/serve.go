package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oreem-dev/pouch-agent/internal/gateway"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Long: `Run the HTTP gateway exposing the agent over a single
message endpoint.

Endpoints:
  POST /api/message   {"message": "..."} -> {"reply": "..."}
  GET  /healthz       Liveness check
  GET  /metrics       Prometheus metrics

Examples:
  pouch-agent serve
  pouch-agent serve --config config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	return cmd
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateGemini(); err != nil {
		return err
	}

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	rt := buildRuntime(cfg, log)
	loop, err := rt.buildLoop(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("building agent loop: %w", err)
	}

	gw := gateway.NewServer(loop, rt.metrics, rt.promReg, log)
	server := gw.Build(cfg.Server.Host, cfg.Server.Port)

	errChan := make(chan error, 1)
	go func() {
		log.Info("gateway listening",
			zap.String("addr", server.Addr),
			zap.Int("operations", rt.registry.Count()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-sigChan:
		log.Info("shutting down")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown gracefully: %w", err)
	}
	log.Info("gateway stopped")
	return nil
}
