package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sysmonitor/web-monitor/internal/config"
	"github.com/sysmonitor/web-monitor/internal/handlers"
	"github.com/sysmonitor/web-monitor/internal/server"
	"github.com/sysmonitor/web-monitor/internal/services"
	"github.com/sysmonitor/web-monitor/pkg/parsers"
	"github.com/sysmonitor/web-monitor/pkg/scheduler"
)

const envPrefix = "WEB_MONITOR"

const shutdownTimeout = 5 * time.Second

// NewRunCommand builds the run command. Flags, WEB_MONITOR_* environment
// variables and struct defaults populate cfg, in that order of
// precedence.
func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "run",
		Short:        "Collect the hardware inventory and serve the web interface",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			viper.AutomaticEnv()
			viper.SetEnvPrefix(envPrefix)
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			cobraflags.PresetRequiredFlags(envPrefix, make(map[*pflag.Flag]bool), cmd)

			return validateConfiguration(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.Server.HTTPPort, "server-http-port", cfg.Server.HTTPPort, "port the web interface listens on")
	flags.StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "server mode: dev or prod")
	flags.StringVar(&cfg.Server.StaticsFolder, "server-statics-folder", cfg.Server.StaticsFolder, "statics folder served in prod mode")

	flags.DurationVar(&cfg.Monitor.RefreshInterval, "refresh-interval", cfg.Monitor.RefreshInterval, "period between hardware collection cycles")
	flags.DurationVar(&cfg.Monitor.ToolTimeout, "tool-timeout", cfg.Monitor.ToolTimeout, "timeout for each tool invocation")
	flags.Int64Var(&cfg.Monitor.MaxOutputBytes, "max-output-bytes", cfg.Monitor.MaxOutputBytes, "byte cap on captured tool output")
	flags.IntVar(&cfg.Monitor.NumWorkers, "num-workers", cfg.Monitor.NumWorkers, "workers running tool invocations")
	flags.StringVar(&cfg.Monitor.LspciPath, "lspci-path", cfg.Monitor.LspciPath, "lspci executable")
	flags.StringVar(&cfg.Monitor.LshwPath, "lshw-path", cfg.Monitor.LshwPath, "lshw executable")
	flags.StringVar(&cfg.Monitor.NvidiaSMIPath, "nvidia-smi-path", cfg.Monitor.NvidiaSMIPath, "nvidia-smi executable")

	return cmd
}

func validateConfiguration(cfg *config.Configuration) error {
	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http-port: %d", cfg.Server.HTTPPort)
	}

	switch cfg.Server.ServerMode {
	case server.DevServer:
	case server.ProductionServer:
		if cfg.Server.StaticsFolder == "" {
			return fmt.Errorf("statics folder must be set in prod server mode")
		}
	default:
		return fmt.Errorf("invalid server mode: %q", cfg.Server.ServerMode)
	}

	if cfg.Monitor.NumWorkers < 1 {
		return fmt.Errorf("invalid num-workers: %d", cfg.Monitor.NumWorkers)
	}
	if cfg.Monitor.RefreshInterval <= 0 {
		return fmt.Errorf("invalid refresh-interval: %s", cfg.Monitor.RefreshInterval)
	}
	if cfg.Monitor.ToolTimeout <= 0 {
		return fmt.Errorf("invalid tool-timeout: %s", cfg.Monitor.ToolTimeout)
	}

	return cfg.Validate()
}

func run(ctx context.Context, cfg *config.Configuration) error {
	logger := newLogger(cfg.Server.ServerMode)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := scheduler.NewScheduler(cfg.Monitor.NumWorkers)
	defer pool.Close()

	cache := services.NewSnapshotCache()
	monitorSrv := services.NewMonitor(cfg.Monitor, pool, cache, parsers.DefaultRegistry())
	metricsSrv := services.NewMetricsService()

	handler := handlers.New(monitorSrv, metricsSrv)

	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		handler.RegisterRoutes(router)
	}, handler.GetDashboard)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	monitorSrv.Start()
	defer monitorSrv.Stop()

	scheme := "http"
	if cfg.Server.ServerMode == server.ProductionServer {
		scheme = "https"
	}
	color.New(color.FgCyan, color.Bold).Printf("web_monitor listening on %s://0.0.0.0:%d\n", scheme, cfg.Server.HTTPPort)
	color.New(color.FgHiBlack).Printf("refresh interval %s, tool timeout %s\n", cfg.Monitor.RefreshInterval, cfg.Monitor.ToolTimeout)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.S().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	srv.Stop(shutdownCtx)

	return nil
}

func newLogger(mode string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if mode == server.ProductionServer {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
