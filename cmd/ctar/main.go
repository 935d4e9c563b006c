package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ctar/internal/aggregate"
	"ctar/internal/config"
	"ctar/internal/loader"
	"ctar/internal/metrics"
	"ctar/internal/metrics/prompush"
	"ctar/internal/pipeline"
	"ctar/internal/schema"
	"ctar/internal/storage"
	"ctar/internal/storage/csvsink"
	"ctar/internal/storage/postgres"
	"ctar/internal/storage/sqlite"
	"ctar/internal/transform"
)

// main is the entry point for the ctar binary. It loads the job config,
// optionally initializes a metrics backend, loads the extract, and runs the
// normalization and every configured aggregation.
func main() {
	var (
		cfgPath           string
		pushGatewayURLFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/jobs/sample.json", "job config JSON path")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides the config and env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	f, err := os.Open(cfgPath)
	if err != nil {
		fatalf("open config: %v", err)
	}

	var job config.Job
	err = json.NewDecoder(f).Decode(&job)
	f.Close()
	if err != nil {
		fatalf("decode config: %v", err)
	}

	issues := config.ValidateJob(job)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	// Decide Pushgateway URL: flag → config → env.
	gwURL := pushGatewayURLFlg
	if gwURL == "" {
		gwURL = job.Metrics.GatewayURL
	}
	if gwURL == "" {
		gwURL = os.Getenv("PUSHGATEWAY_URL")
	}
	jobName := job.Metrics.Job
	if jobName == "" {
		jobName = "ctar"
	}
	if gwURL != "" {
		b, err := prompush.NewBackend(jobName, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
		} else {
			if *verbose {
				log.Printf("metrics: url=%v job_name=%v", gwURL, jobName)
			}
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}
	}

	ctx := context.Background()
	start := time.Now()

	if err := run(ctx, job, jobName, *verbose); err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

func run(ctx context.Context, job config.Job, jobName string, verbose bool) error {
	opt := loader.Options{
		Comma:     job.Source.Options.Rune("comma", 0),
		Encoding:  job.Source.Options.String("encoding", ""),
		Sheet:     job.Source.Options.String("sheet", ""),
		HeaderMap: job.Source.Options.StringMap("header_map"),
	}

	table, err := loader.Open(job.Source.Path, opt)
	if err != nil {
		return err
	}
	if verbose {
		log.Printf("loaded %s: %d rows, %d skipped", job.Source.Path, len(table.Rows), table.Skipped)
	}

	var warn transform.WarnFunc
	if verbose {
		warn = func(w transform.Warning) {
			log.Printf("warn: row %d column %s value %q: %s", w.Row, w.Column, w.Value, w.Reason)
		}
	}

	analyses := make([]pipeline.Analysis, 0, len(job.Analyses))
	for _, a := range job.Analyses {
		analyses = append(analyses, pipeline.Analysis{Name: a.Name, Dims: a.Dims, Measure: a.Measure})
	}

	results, sum, err := pipeline.Run(table.Columns, table.Rows, schema.Variant(job.Source.Variant), analyses, pipeline.Options{
		Job:  jobName,
		Warn: warn,
	})
	if err != nil {
		var se *schema.SchemaError
		if errors.As(err, &se) {
			return fmt.Errorf("input does not match the %s schema: %w", se.Variant, err)
		}
		return err
	}
	log.Printf("normalized %d of %d rows (%d warnings)", sum.Normalized, sum.Loaded, sum.Warnings)

	return writeResults(ctx, job.Sink, results, jobName)
}

// writeResults writes each analysis table to its own sink target. File and
// database targets are written concurrently; stdout is written sequentially
// so tables do not interleave.
func writeResults(ctx context.Context, sink config.Sink, results []pipeline.Result, jobName string) error {
	kind := sink.Kind
	if kind == "" {
		kind = "csv"
	}

	if kind == "csv" && (sink.Path == "" || sink.Path == "-") {
		out := csvsink.NewSink(os.Stdout)
		for _, res := range results {
			if err := writeOne(ctx, out, res, jobName); err != nil {
				return err
			}
		}
		return out.Close()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, res := range results {
		res := res
		g.Go(func() error {
			s, cleanup, err := openSink(ctx, sink, kind, res.Analysis.Name, len(results) > 1)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := writeOne(ctx, s, res, jobName); err != nil {
				return err
			}
			return s.Close()
		})
	}
	return g.Wait()
}

func writeOne(ctx context.Context, s storage.Sink, res pipeline.Result, jobName string) error {
	columns, rows := aggregate.Table(res.Rows, res.Analysis.Dims, res.Analysis.Measure != "")
	n, err := s.WriteRows(ctx, columns, rows)
	if err != nil {
		return fmt.Errorf("analysis %q: %w", res.Analysis.Name, err)
	}
	metrics.RecordRows(jobName, "written", n)
	log.Printf("analysis %q: wrote %d groups", res.Analysis.Name, n)
	return nil
}

// openSink builds the sink for one analysis. With multiple analyses the
// analysis name is folded into the file name or table name so outputs do not
// overwrite each other.
func openSink(ctx context.Context, cfg config.Sink, kind, name string, multi bool) (storage.Sink, func(), error) {
	switch kind {
	case "csv":
		path := cfg.Path
		if multi {
			path = insertName(path, name)
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("create %s: %w", path, err)
		}
		return csvsink.NewSink(f), func() { f.Close() }, nil
	case "sqlite":
		s, err := sqlite.NewSink(ctx, sqlite.Config{DSN: cfg.DB.DSN, Table: tableName(cfg.DB.Table, name, multi)})
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "postgres":
		s, err := postgres.NewSink(ctx, postgres.Config{DSN: cfg.DB.DSN, Table: tableName(cfg.DB.Table, name, multi)})
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown sink kind %q", kind)
	}
}

func insertName(path, name string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + name + ext
}

func tableName(base, name string, multi bool) string {
	if !multi {
		return base
	}
	return base + "_" + name
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
