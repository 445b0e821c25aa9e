// Command kerf evaluates a solid-modelling script and prints a YAML report
// of the parts it emits.
//
//	kerf [-config kerf.gcfg] [-v] [-metrics] script.kerf
//
// A script path of "-" reads standard input.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chazu/kerf/pkg/boolean"
	"github.com/chazu/kerf/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gopkg.in/yaml.v3"
)

func main() {
	var (
		flagConfig  string
		flagVerbose bool
		flagMetrics bool
	)
	flag.StringVar(&flagConfig, "config", "", "configuration file (gcfg); defaults apply when empty")
	flag.BoolVar(&flagVerbose, "v", false, "log Boolean phases to stderr")
	flag.BoolVar(&flagMetrics, "metrics", false, "print Boolean run metrics to stderr after the report")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: kerf [flags] script.kerf\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if flagConfig != "" {
		var err error
		if cfg, err = config.Load(flagConfig); err != nil {
			log.Fatalf("kerf: %v", err)
		}
	}

	source, err := readScript(flag.Arg(0))
	if err != nil {
		log.Fatalf("kerf: %v", err)
	}

	var opts []boolean.Option
	if flagVerbose {
		opts = append(opts, boolean.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	reg := prometheus.NewRegistry()
	if flagMetrics {
		opts = append(opts, boolean.WithMetrics(boolean.NewMetrics(reg)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result := NewApp(cfg, opts...).EvaluateContext(ctx, source)
	if err := writeReport(os.Stdout, result); err != nil {
		log.Fatalf("kerf: writing report: %v", err)
	}
	if flagMetrics {
		if err := writeMetrics(os.Stderr, reg); err != nil {
			log.Printf("kerf: writing metrics: %v", err)
		}
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

func readScript(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

// writeReport prints result as a YAML document.
func writeReport(w io.Writer, result EvalResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return err
	}
	return enc.Close()
}

// writeMetrics prints every gathered metric family in the text exposition
// format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
