// Command knn loads labeled samples into SQLite and classifies them with the
// k-nearest-neighbors classifier.
//
// Usage:
//
//	knn import   -config knn.yaml -split train -csv train.csv
//	knn predict  -config knn.yaml
//	knn compare  -config knn.yaml
//	knn crossval -config knn.yaml
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/viant/sqlite-knn/config"
	"github.com/viant/sqlite-knn/dataset"
	"github.com/viant/sqlite-knn/engine"
	"github.com/viant/sqlite-knn/knn"
	"github.com/viant/sqlite-knn/metrics"
)

type command struct {
	usage string
	flags func(fs *flag.FlagSet) func(ctx context.Context, e *env) error
}

var commands = map[string]command{
	"import":   {usage: "load CSV samples into a dataset split", flags: importFlags},
	"predict":  {usage: "classify the test split and report accuracy", flags: predictFlags},
	"compare":  {usage: "time the distance strategies and check they agree", flags: compareFlags},
	"crossval": {usage: "select k by cross-validation on the train split", flags: crossvalFlags},
}

var errUsage = errors.New("usage: knn <import|predict|compare|crossval> [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "knn:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q\n%w", args[0], errUsage)
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "knn %s: %s\n", args[0], cmd.usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "YAML config file (defaults apply when empty)")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address while running")
	exec := cmd.flags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	e, err := newEnv(cfg, stdout)
	if err != nil {
		return err
	}
	defer e.close()
	return exec(ctx, e)
}

// env carries what every command needs: the configuration, the sample store
// and the classifier options.
type env struct {
	cfg     *config.Config
	out     io.Writer
	logger  *knn.Logger
	db      *sql.DB
	store   *dataset.SQLiteStore
	options []knn.Option
	server  *http.Server
}

func newEnv(cfg *config.Config, stdout io.Writer) (*env, error) {
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	if err := engine.RegisterDistanceFunctions(); err != nil {
		return nil, err
	}
	db, err := engine.Open(cfg.DB)
	if err != nil {
		return nil, err
	}
	store, err := dataset.NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	e := &env{cfg: cfg, out: stdout, logger: logger, db: db, store: store}
	e.options = []knn.Option{knn.WithLogger(logger)}
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector, err := metrics.NewPrometheusCollector(reg)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		e.options = append(e.options, knn.WithMetricsCollector(collector))
		e.serveMetrics(reg)
	}
	return e, nil
}

func (e *env) serveMetrics(reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	e.server = &http.Server{Addr: e.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		e.logger.Info("serving metrics", "addr", e.cfg.MetricsAddr)
		if err := e.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("metrics server failed", "error", err)
		}
	}()
}

func (e *env) close() {
	if e.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.server.Shutdown(ctx)
	}
	_ = e.db.Close()
}

// load reads a split and fails when it holds no samples.
func (e *env) load(ctx context.Context, split string) (*dataset.Set, error) {
	set, err := e.store.Load(ctx, e.cfg.Dataset, split)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("dataset %s has no samples in split %q", e.cfg.Dataset, split)
	}
	e.logger.Debug("split loaded", "dataset", e.cfg.Dataset, "split", split, "samples", set.Len(), "dimension", set.Dim())
	return set, nil
}
