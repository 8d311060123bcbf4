package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/ops"
	"github.com/gogpu/rawtile/task"
)

// app holds the state shared by the subcommands of one invocation.
type app struct {
	threads  int
	jobs     int
	registry *prometheus.Registry
	metrics  *task.Metrics
	host     *task.Host
	server   *http.Server
	addr     string
	logFile  io.Closer
	printer  *message.Printer

	mu  sync.Mutex // guards host and out
	out io.Writer
}

// NewRoot returns the rawtile command tree.
func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "rawtile",
		Short: "tile based raw image processing",
		Long: "rawtile demosaics, resamples and renders TIFF images and applies " +
			"DNG opcode lists to them, one tile at a time on all cores.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.RunE = a.runE(func(cmd *cobra.Command, args []string) error {
		printCommandTree(cmd.OutOrStdout(), cmd, 0)
		return nil
	})
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewDemosaicCmd(ctx, a),
		NewResampleCmd(ctx, a),
		NewRenderCmd(ctx, a),
		NewOpcodeCmd(ctx, a),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.String("log-file", "", "Write logs to this file instead of stderr, rotated by size")
	pf.IntVar(&a.threads, "threads", 0, "Worker threads, 0 for one per CPU")
	pf.IntVar(&a.jobs, "jobs", 1, "Input files processed concurrently")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	pf.String("lang", "en", "Language tag for printed summaries")
	return cmd
}

func printCommandTree(w io.Writer, cmd *cobra.Command, indent int) {
	fmt.Fprintln(w, strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(w, subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build and the pixel routines selected for this CPU",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "rawtile", rawtile.Version, gitsha)
			fmt.Fprintln(cmd.OutOrStdout(), "ops:", ops.CurrentLevel())
		},
	}
	return cmd
}

// newLogger builds the handler named by format on w.
func newLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

func (a *app) setup(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFormat, _ := cmd.Flags().GetString("log-format")
	logFile, _ := cmd.Flags().GetString("log-file")
	lang, _ := cmd.Flags().GetString("lang")

	var w io.Writer = cmd.ErrOrStderr()
	if logFile != "" {
		lj := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    64, // megabytes
			MaxBackups: 4,
			Compress:   true,
		}
		w, a.logFile = lj, lj
	}

	var level slog.Level
	levelErr := level.UnmarshalText([]byte(strings.ToUpper(logLevel)))
	if levelErr != nil {
		level = slog.LevelInfo
	}
	logger, err := newLogger(w, logFormat, level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	rawtile.SetLogger(logger)
	if levelErr != nil {
		slog.Warn("Invalid log level, defaulting to INFO", "level", logLevel, "error", levelErr)
	}

	a.printer = message.NewPrinter(language.Make(lang))
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector())
	if a.metrics, err = task.NewMetrics(a.registry); err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		if err := a.serveMetrics(addr); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	a.addr = ln.Addr().String()
	slog.Info("serving metrics", "addr", a.addr)
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server", "error", err)
		}
	}()
	return nil
}

// Host returns the shared task host, creating it on first use.
func (a *app) Host() *task.Host {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.host == nil {
		a.host = task.NewHost(
			task.WithMaxThreads(a.threads),
			task.WithOps(ops.Select()),
			task.WithMetrics(a.metrics),
		)
		slog.Debug("host started", "threads", a.host.MaxThreads(), "ops", ops.CurrentLevel().String())
	}
	return a.host
}

// close releases everything setup and Host acquired.
func (a *app) close() error {
	if a.host != nil {
		a.host.Close()
		a.host = nil
	}
	var errs []error
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, a.server.Shutdown(ctx))
		a.server = nil
	}
	if a.logFile != nil {
		rawtile.SetLogger(nil)
		errs = append(errs, a.logFile.Close())
		a.logFile = nil
	}
	return errors.Join(errs...)
}

// runE wraps a subcommand body so that the shared state is released
// whether or not it fails.
func (a *app) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		return errors.Join(err, a.close())
	}
}

// report prints one line to the command output using the locale printer.
func (a *app) report(format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.printer.Fprintf(a.out, format, args...)
}
