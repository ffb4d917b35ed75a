package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/alexanderjulianmartinez/csvwatch/internal/batch"
	"github.com/alexanderjulianmartinez/csvwatch/internal/config"
	"github.com/alexanderjulianmartinez/csvwatch/internal/sink"
	"github.com/alexanderjulianmartinez/csvwatch/internal/sink/kafka"
	"github.com/alexanderjulianmartinez/csvwatch/internal/sink/sqlstore"
	"github.com/alexanderjulianmartinez/csvwatch/internal/source"
	"github.com/alexanderjulianmartinez/csvwatch/internal/source/filesrc"
	"github.com/alexanderjulianmartinez/csvwatch/internal/source/httpsrc"
	"github.com/alexanderjulianmartinez/csvwatch/internal/source/s3src"
)

// defaultConfig is the batch used when --config is not given.
var defaultConfig = config.Default

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "csvwatch error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// a bare invocation runs the built-in batch
	if len(args) < 2 {
		return runSummarize(ctx, nil, stdout, stderr)
	}

	switch args[1] {
	case "summarize":
		return runSummarize(ctx, args[2:], stdout, stderr)
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", args[1])
	}
}

func runSummarize(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("summarize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to csvwatch.yaml (defaults to the built-in sources)")
	sample := fs.Int("sample", -1, "Number of sample rows per source")
	profile := fs.Bool("profile", false, "Print per-column value counts")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := defaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return err
	}
	if *sample >= 0 {
		cfg.SampleRows = *sample
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	fetcher, err := buildFetcher(cfg)
	if err != nil {
		return err
	}
	sinks, err := buildSinks(cfg, logger)
	if err != nil {
		return err
	}
	defer sink.CloseAll(sinks)

	started := time.Now()
	s := batch.New(fetcher, stdout, logger, batch.Options{
		SampleRows: cfg.SampleRows,
		Profile:    *profile,
	})
	res := s.Run(ctx, sources(cfg))
	logger.Debug("batch finished", "sources", len(res.Outcomes), "failed", res.Failed(), "elapsed", time.Since(started))

	if len(sinks) == 0 {
		return nil
	}
	if err := sink.RecordAll(ctx, sinks, sink.NewRun(started, res.Entries())); err != nil {
		logger.Error("recording summary failed", "error", err)
		return err
	}
	return nil
}

func buildFetcher(cfg *config.Config) (*source.Mux, error) {
	mux := source.NewMux()
	mux.Register(httpsrc.New(time.Duration(cfg.HTTP.Timeout)), "http", "https")
	mux.Register(filesrc.New(), "file")
	if cfg.S3.Enabled() {
		f, err := s3src.New(s3src.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		mux.Register(f, "s3")
	}
	return mux, nil
}

func buildSinks(cfg *config.Config, logger *slog.Logger) ([]sink.Sink, error) {
	var sinks []sink.Sink
	if cfg.Store.DSN != "" {
		st, err := sqlstore.Open(cfg.Store.Driver, cfg.Store.DSN, cfg.Store.Table, logger)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, st)
	}
	if len(cfg.Kafka.Brokers) > 0 {
		p, err := kafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			_ = sink.CloseAll(sinks)
			return nil, err
		}
		sinks = append(sinks, p)
	}
	return sinks, nil
}

func sources(cfg *config.Config) []source.Spec {
	out := make([]source.Spec, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		spec := source.Spec{Label: s.Label, URL: s.URL, Encoding: s.Encoding}
		switch s.Delimiter {
		case "":
		case config.AutoDelimiter:
			spec.Delimiter = source.AutoDelimiter
		default:
			spec.Delimiter, _ = utf8.DecodeRuneInString(s.Delimiter)
		}
		out = append(out, spec)
	}
	return out
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `csvwatch - CSV schema summary tool

Usage:
  csvwatch                 (same as summarize with no flags)
  csvwatch summarize [--config <path>] [--sample N] [--profile] [--verbose]

Commands:
  summarize Fetch every source and print its columns, sample rows and types
  help      Show this help message
`)
}
