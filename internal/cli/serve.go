package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/p-blackswan/spatialflow/internal/dashboard"
	"github.com/p-blackswan/spatialflow/internal/health"
	"github.com/p-blackswan/spatialflow/internal/metrics"
)

const shutdownTimeout = 15 * time.Second

func (a *app) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

// serve runs the dashboard until ctx is done.
func (a *app) serve(ctx context.Context) error {
	m := metrics.New()
	s, err := a.newSession(m)
	if err != nil {
		return err
	}
	if err := a.loadInputs(s); err != nil {
		return err
	}

	checker := health.NewChecker(a.logger)
	checker.Register("backend", checker.PingCheck("backend", s.client))

	srv := dashboard.NewServer(dashboard.ServerConfig{
		ListenAddr:  a.cfg.DashboardListenAddr,
		CORSOrigins: a.cfg.CORSOriginList(),
		RateLimit: dashboard.RateLimitConfig{
			RPS:   a.cfg.DashboardRateLimitRPS,
			Burst: a.cfg.DashboardRateLimitBurst,
		},
	}, s.orch, checker, m, a.logger)

	a.logger.Info().
		Str("environment", a.cfg.Environment).
		Str("backend", s.client.BaseURL()).
		Str("project", a.cfg.ProjectName).
		Str("addr", a.cfg.DashboardListenAddr).
		Msg("starting spatialflow dashboard")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		s.orch.Close()
		return err
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down gracefully")
	if err := srv.Shutdown(); err != nil {
		a.logger.Error().Err(err).Msg("dashboard shutdown error")
	}

	done := make(chan struct{})
	go func() {
		s.orch.Close()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info().Msg("background work finished")
	case <-time.After(shutdownTimeout):
		a.logger.Warn().Msg("forced shutdown after timeout")
	}
	return nil
}
