package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/reglet-dev/nativefn/config"
	"github.com/reglet-dev/nativefn/exports"
	"github.com/reglet-dev/nativefn/host"
	adapter "github.com/reglet-dev/nativefn/infrastructure/wazero"
	"github.com/reglet-dev/nativefn/internal/metrics"
	"github.com/reglet-dev/nativefn/internal/tracing"
	"github.com/reglet-dev/nativefn/log"
	"github.com/reglet-dev/nativefn/modules/arith"
	"github.com/reglet-dev/nativefn/wireformat"
	"github.com/spf13/cobra"
)

// cliState is shared by the subcommands of one root command.
type cliState struct {
	cfg        config.Config
	logger     *slog.Logger
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:           "nativefn",
		Short:         "Inspect and invoke native functions",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.load(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&state.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&state.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newListCmd(state),
		newInvokeCmd(state),
		newSchemaCmd(state),
	)
	return root
}

func (s *cliState) load(stderr io.Writer) error {
	cfg := config.Default()
	if s.configPath != "" {
		var err error
		if cfg, err = config.Load(s.configPath); err != nil {
			return err
		}
	}
	if s.logLevel != "" {
		cfg.LogLevel = s.logLevel
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.logger = log.New(
		log.WithLevel(level),
		log.WithFormat(cfg.LogFormat),
		log.WithOutput(stderr),
	)
	return nil
}

// session is one executor plus the observability it was wired with.
type session struct {
	executor *host.Executor
	codec    wireformat.Codec
	metrics  *prometheus.Registry
	shutdown func(context.Context) error
}

func (s *cliState) open(ctx context.Context, stderr io.Writer) (*session, error) {
	codec, err := wireformat.CodecByName(s.cfg.Codec)
	if err != nil {
		return nil, err
	}

	sess := &session{
		codec:    codec,
		shutdown: func(context.Context) error { return nil },
	}

	var mw []exports.Middleware
	if s.cfg.Tracing.Enabled {
		tp, err := tracing.NewProvider(s.cfg.Tracing.ServiceName, stderr)
		if err != nil {
			return nil, err
		}
		sess.shutdown = tp.Shutdown
		mw = append(mw, tracing.Middleware(tp.Tracer(tracing.InstrumentationName)))
	}
	if s.cfg.Metrics.Enabled {
		sess.metrics = prometheus.NewRegistry()
		m, err := metrics.New(sess.metrics, s.cfg.Metrics.Namespace)
		if err != nil {
			return nil, err
		}
		mw = append(mw, m.Middleware())
	}
	mw = append(mw, exports.LoggingMiddleware(s.logger))
	if s.cfg.PanicRecovery {
		mw = append(mw, exports.PanicRecoveryMiddleware())
	}

	exec, err := host.NewExecutor(ctx,
		host.WithLogger(s.logger),
		host.WithMiddleware(mw...),
		host.WithModules(arith.Module()),
		host.WithAdapterOptions(
			adapter.WithModuleName(s.cfg.WasmModuleName),
			adapter.WithInvokeExport(s.cfg.InvokeExport),
			adapter.WithCodec(codec),
			adapter.WithMaxRequestSize(s.cfg.MaxRequestSize),
		),
	)
	if err != nil {
		_ = sess.shutdown(ctx)
		return nil, err
	}
	sess.executor = exec
	return sess, nil
}

// close releases the executor, flushes spans and dumps metrics to w.
func (s *session) close(ctx context.Context, w io.Writer) error {
	err := s.executor.Close(ctx)
	if serr := s.shutdown(ctx); serr != nil && err == nil {
		err = serr
	}
	if s.metrics == nil {
		return err
	}

	families, gerr := s.metrics.Gather()
	if gerr != nil {
		return gerr
	}
	for _, mf := range families {
		if _, werr := expfmt.MetricFamilyToText(w, mf); werr != nil {
			return werr
		}
	}
	return err
}

func withSession(cmd *cobra.Command, state *cliState, fn func(context.Context, *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := state.open(ctx, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to start host: %w", err)
	}
	runErr := fn(ctx, sess)
	if err := sess.close(ctx, cmd.ErrOrStderr()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
