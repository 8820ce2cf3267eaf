package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/lib/xlog"
	"github.com/benz9527/xtree/observability"
)

// streams are the command input and outputs. Logs go to errOut so the
// results on out stay parseable.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newLogger(cfg *Config, s *streams) (xlog.XLogger, error) {
	enc, err := parseLogEncoder(cfg.Log.Encoder)
	if err != nil {
		return nil, err
	}
	return xlog.NewXLogger(
		xlog.WithXLoggerOutput(s.errOut),
		xlog.WithXLoggerEncoder(enc),
		xlog.WithXLoggerLevel(xlog.ParseLogLevel(cfg.Log.Level)),
	).Named("xtree"), nil
}

// metricsRuntime installs the configured meter provider for the life of
// the command.
type metricsRuntime struct {
	exporter string
	addr     string
	server   *http.Server
}

func (m *metricsRuntime) Enabled() bool {
	return m != nil && m.exporter != metricsExporterNone
}

// Addr is the bound prometheus address, valid after start.
func (m *metricsRuntime) Addr() string {
	return m.addr
}

func newMetricsRuntime(lc fx.Lifecycle, cfg *Config, s *streams, logger xlog.XLogger) (*metricsRuntime, error) {
	m := &metricsRuntime{exporter: cfg.Metrics.Exporter, addr: cfg.Metrics.Addr}
	var shutdown observability.ShutdownFunc
	switch m.exporter {
	case metricsExporterConsole:
		fn, err := observability.NewConsoleMetricsExporter(
			cfg.Metrics.Interval,
			5*time.Second,
			stdoutmetric.WithWriter(s.errOut),
		)
		if err != nil {
			return nil, err
		}
		shutdown = fn
	case metricsExporterPrometheus:
		registry := promclient.NewRegistry()
		fn, handler, err := observability.NewPrometheusMetricsExporter(registry)
		if err != nil {
			return nil, err
		}
		shutdown = fn
		mux := http.NewServeMux()
		mux.Handle("/metrics", handler)
		m.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	default:
		return m, nil
	}

	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			observability.InitAppStats(appCtx, "xtree", nil)
			if m.server == nil {
				return nil
			}
			ln, err := net.Listen("tcp", cfg.Metrics.Addr)
			if err != nil {
				return err
			}
			m.addr = ln.Addr().String()
			logger.Info("prometheus metrics endpoint", zap.String("addr", "http://"+m.addr+"/metrics"))
			go func() {
				if err := m.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.ErrorStack(err, "prometheus metrics endpoint closed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) (err error) {
			defer cancel()
			if m.server != nil {
				if cfg.Metrics.Linger > 0 {
					select {
					case <-ctx.Done():
					case <-time.After(cfg.Metrics.Linger):
					}
				}
				err = multierr.Append(err, m.server.Shutdown(ctx))
			}
			return multierr.Append(err, shutdown(ctx))
		},
	})
	return m, nil
}

// registerMaxProcs aligns GOMAXPROCS with the container quota while the
// app runs.
func registerMaxProcs(lc fx.Lifecycle, logger xlog.XLogger) {
	var undo func()
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			fn, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
				logger.Logf(zapcore.DebugLevel, format, args...)
			}))
			undo = fn
			return err
		},
		OnStop: func(ctx context.Context) error {
			if undo != nil {
				undo()
			}
			return nil
		},
	})
}

type appEnv struct {
	cfg     *Config
	streams *streams
	logger  xlog.XLogger
	metrics *metricsRuntime
}

// runApp assembles the fx app for cfg, runs fn between start and stop
// and returns both the run and lifecycle errors.
func runApp(ctx context.Context, cfg *Config, s *streams, fn func(ctx context.Context, env *appEnv) error) (err error) {
	env := &appEnv{cfg: cfg, streams: s}
	app := fx.New(
		fx.Supply(cfg, s),
		fx.Provide(newLogger, newMetricsRuntime),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(registerMaxProcs),
		fx.Populate(&env.logger, &env.metrics),
		fx.StopTimeout(cfg.Metrics.Linger+15*time.Second),
	)
	if err = app.Err(); err != nil {
		return err
	}

	startCtx, cancelStart := context.WithTimeout(ctx, app.StartTimeout())
	defer cancelStart()
	if err = app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancelStop()
		err = multierr.Append(err, app.Stop(stopCtx))
		// Sync of a terminal reports EINVAL on linux.
		_ = env.logger.Sync()
	}()
	return fn(ctx, env)
}
