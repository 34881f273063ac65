package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/agentlog/config"
	"github.com/philipp01105/agentlog/core"
	"github.com/philipp01105/agentlog/logger"
	"github.com/philipp01105/agentlog/metrics"
	"github.com/philipp01105/agentlog/stream"
)

type emitConfig struct {
	*rootConfig

	level       string
	at          string
	name        string
	pretty      bool
	tee         string
	metricsAddr string
}

func newEmitCmd(root *rootConfig) *cobra.Command {
	cfg := &emitConfig{rootConfig: root}

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Log every line of stdin",
		Long: `emit logs every non-empty line read from stdin at the --at level and
writes the resulting records to stdout until stdin is closed or the
process is interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cfg.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.level, "level", "", "threshold, as a name or rank (overrides the config file)")
	flags.StringVar(&cfg.at, "at", "info", "level every input line is logged at")
	flags.StringVar(&cfg.name, "name", "", "logger name (overrides the config file)")
	flags.BoolVar(&cfg.pretty, "pretty", false, "render records as text instead of JSON")
	flags.StringVar(&cfg.tee, "tee", "", "also append the JSON records to this file")
	flags.StringVar(&cfg.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

// options merges the config file, the environment and the flags.
func (cfg *emitConfig) options() (logger.Options, error) {
	f := &config.File{}
	if cfg.configFile != "" {
		var err error
		if f, err = config.Load(cfg.configFile); err != nil {
			return logger.Options{}, err
		}
	} else if err := f.ApplyEnv(os.LookupEnv); err != nil {
		return logger.Options{}, err
	}

	opts := f.Options()
	if opts.Level == nil {
		opts.Level = core.InfoLevel
	}
	if cfg.level != "" {
		opts.Level = cfg.level
	}
	if cfg.name != "" {
		opts.Name = cfg.name
	}
	return opts, nil
}

func (cfg *emitConfig) run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	opts, err := cfg.options()
	if err != nil {
		return err
	}
	at, ok := core.ParseLevel(cfg.at)
	if !ok {
		return fmt.Errorf("--at: unknown level %q", cfg.at)
	}

	// The pump below is the only consumer; a configured output stream
	// only selects where it writes.
	var dest io.Writer = stdout
	if opts.Stream != nil {
		dest = opts.Stream
		opts.Stream = nil
	}
	out, closeOut, err := cfg.output(dest)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeOut()) }()

	// Calls made before Configure are queued and filtered by the final
	// threshold once it is applied.
	runID := uuid.NewString()
	log := logger.New(logger.Options{
		Configured:  logger.Bool(false),
		Hostname:    opts.Hostname,
		CoarseClock: opts.CoarseClock,
	}, core.Context{"run_id": runID})
	defer log.Close()

	log.Debug("reading stdin, logging lines at %s", at)
	log.Configure(opts)

	var g run.Group

	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			errc := make(chan error, 1)
			go func() { errc <- readLines(stdin, log, at) }()
			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		}, func(error) {
			cancel()
		})
	}

	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			err := stream.Pump(ctx, log, out)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}, func(error) {
			cancel()
		})
	}

	if cfg.metricsAddr != "" {
		ln, err := net.Listen("tcp", cfg.metricsAddr)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		reg := prometheus.NewRegistry()
		reg.MustRegister(metrics.NewCollector("agentlog", log))
		srv := &http.Server{
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		fmt.Fprintf(stderr, "metrics: http://%s/metrics\n", ln.Addr())
		g.Add(func() error {
			if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}, func(error) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		})
	}

	{
		g.Add(run.SignalHandler(ctx, os.Interrupt))
	}

	return g.Run()
}

// output builds the pump destination: pretty or raw dest, plus the tee
// file when one is set.
func (cfg *emitConfig) output(dest io.Writer) (zapcore.WriteSyncer, func() error, error) {
	var primary io.Writer = syncless{dest}
	if cfg.pretty {
		primary = newPrettyWriter(dest)
	}
	if cfg.tee == "" {
		return zapcore.AddSync(primary), func() error { return nil }, nil
	}

	f, err := os.OpenFile(cfg.tee, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open tee file: %w", err)
	}
	tee := stream.Tee(primary, f)
	return tee, tee.Close, nil
}

// syncless hides Sync from writers such as terminals and pipes, where
// fsync fails with EINVAL.
type syncless struct {
	io.Writer
}

func readLines(r io.Reader, log *logger.Logger, at core.Level) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		log.Log(at, "%s", line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}
