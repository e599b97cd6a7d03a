package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/oreem-dev/pouch-agent/internal/config"
	"github.com/oreem-dev/pouch-agent/internal/frontacct"
	"github.com/oreem-dev/pouch-agent/internal/metrics"
	"github.com/oreem-dev/pouch-agent/pkg/agent"
	"github.com/oreem-dev/pouch-agent/pkg/dispatch"
	"github.com/oreem-dev/pouch-agent/pkg/llm"
	"github.com/oreem-dev/pouch-agent/pkg/session"
	"github.com/oreem-dev/pouch-agent/pkg/tools"
	"github.com/oreem-dev/pouch-agent/pkg/undo"
)

// runtime holds the assembled components every command builds on.
type runtime struct {
	registry   *tools.Registry
	dispatcher *dispatch.Dispatcher
	toolCtx    *tools.Context
	metrics    *metrics.Metrics
	promReg    *prometheus.Registry
}

// buildRuntime constructs the operation catalogue, dispatcher, and
// per-process conversation state from configuration.
func buildRuntime(cfg *config.Config, log *zap.Logger) *runtime {
	client := frontacct.NewClient(cfg.FrontAccounting.BaseURL, cfg.FrontAccounting.Timeout, log)

	registry := tools.NewRegistry()
	frontacct.RegisterAll(registry, client)

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	return &runtime{
		registry:   registry,
		dispatcher: dispatch.NewDispatcher(registry, m, log),
		toolCtx:    &tools.Context{Session: session.NewStore(), Undo: undo.NewLedger()},
		metrics:    m,
		promReg:    promReg,
	}
}

// buildLoop attaches a Gemini-backed agent loop to the runtime.
func (rt *runtime) buildLoop(ctx context.Context, cfg *config.Config, log *zap.Logger) (*agent.Loop, error) {
	model, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
	})
	if err != nil {
		return nil, err
	}
	return agent.NewLoop(model, rt.dispatcher, rt.registry, rt.toolCtx, log), nil
}
