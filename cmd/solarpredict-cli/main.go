package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"yashubustudio/solarpredict/solar"
)

type cliOptions struct {
	configPath  string
	modelPath   string
	datasetPath string
	record      solar.Record
	list        bool
	jsonOut     bool
	verbose     bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("solarpredict-cli: %v", err)
	}
	if err := run(context.Background(), opts, os.Stdout); err != nil {
		log.Fatalf("solarpredict-cli: %v", err)
	}
}

func parseFlags(args []string, output io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("solarpredict-cli", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	fs.StringVar(&opts.modelPath, "model", "", "Model manifest overriding the configured path")
	fs.StringVar(&opts.datasetPath, "dataset", "", "Option spreadsheet overriding the configured path")
	fs.StringVar(&opts.record.ETL, "etl", "", "Electron transport layer material (default: first option)")
	fs.StringVar(&opts.record.HTL, "htl", "", "Hole transport layer material (default: first option)")
	fs.StringVar(&opts.record.Perovskite, "perovskite", "", "Perovskite material (default: first option)")
	fs.BoolVar(&opts.list, "list", false, "Print the available options and exit")
	fs.BoolVar(&opts.jsonOut, "json", false, "Print the prediction as JSON")
	fs.BoolVar(&opts.verbose, "v", false, "Log load steps to stderr")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [-etl X] [-htl Y] [-perovskite Z] [options]\n\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.modelPath = strings.TrimSpace(opts.modelPath)
	opts.datasetPath = strings.TrimSpace(opts.datasetPath)
	opts.record.ETL = strings.TrimSpace(opts.record.ETL)
	opts.record.HTL = strings.TrimSpace(opts.record.HTL)
	opts.record.Perovskite = strings.TrimSpace(opts.record.Perovskite)
	return opts, nil
}

func run(ctx context.Context, opts cliOptions, out io.Writer) error {
	cfg, err := solar.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.modelPath != "" {
		cfg.ModelPath = opts.modelPath
	}
	if opts.datasetPath != "" {
		cfg.DatasetPath = opts.datasetPath
	}
	logOut := io.Discard
	if opts.verbose {
		logOut = os.Stderr
	}
	logger := log.New(logOut, "", log.LstdFlags)

	catalog, err := solar.LoadCatalog(cfg.DatasetPath, cfg.Columns, logger)
	if err != nil {
		return err
	}
	if opts.list {
		printOptions(out, catalog)
		return nil
	}

	predictor, err := solar.LoadPredictor(cfg.ModelPath, solar.LoadOptions{OrtLibrary: cfg.OrtLibrary, Logger: logger})
	if err != nil {
		return err
	}
	defer predictor.Close()

	ctrl, err := solar.NewController(predictor, catalog, logger)
	if err != nil {
		return err
	}
	for _, spec := range solar.Fields {
		v := opts.record.Value(spec.Field)
		if v == "" {
			continue
		}
		if err := ctrl.Select(spec.Field, v); err != nil {
			return fmt.Errorf("%w (see -list)", err)
		}
	}

	res := ctrl.Submit(ctx)
	if !res.OK() {
		return res.Err
	}
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Input   solar.Record  `json:"input"`
			Metrics solar.Metrics `json:"metrics"`
		}{res.Record, res.Metrics})
	}
	printResult(out, res)
	return nil
}

func printOptions(out io.Writer, catalog solar.Catalog) {
	for _, spec := range solar.Fields {
		fmt.Fprintf(out, "%s [%s]\n", spec.Label, spec.Field)
		for _, v := range catalog.Options(spec.Field) {
			fmt.Fprintf(out, "  - %s\n", v)
		}
	}
}

func printResult(out io.Writer, res solar.Outcome) {
	fmt.Fprintf(out, "ETL=%s HTL=%s Perovskite=%s\n", res.Record.ETL, res.Record.HTL, res.Record.Perovskite)
	fmt.Fprintln(out, "==== Predicted Performance Metrics ====")
	for _, d := range res.Display {
		fmt.Fprintf(out, "%-36s %s\n", d.Label, d.Value)
	}
}
