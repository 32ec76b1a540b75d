package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/olehluchkiv/brandgraph/internal/analytics"
	"github.com/olehluchkiv/brandgraph/internal/config"
	"github.com/olehluchkiv/brandgraph/internal/dataset"
	"github.com/olehluchkiv/brandgraph/internal/graph"
	"github.com/olehluchkiv/brandgraph/internal/graphcache"
	"github.com/olehluchkiv/brandgraph/internal/logging"
	"github.com/olehluchkiv/brandgraph/internal/report"
	"github.com/olehluchkiv/brandgraph/internal/server"
)

func main() {
	// Setup signal handling with context cancellation
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by all subcommands once the root command has
// loaded configuration and logging.
type app struct {
	configPath  string
	logFile     string
	logLevel    string
	datasetPath string

	cfg        *config.Config
	logger     *slog.Logger
	logCleanup func()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "brandgraph",
		Short: "Explore brand conversations and mention networks from a labelled tweet export",
		Long: `brandgraph loads a labelled export of fast-fashion tweets and serves an interactive
dashboard of volume, topics, communities and the @-mention network.

  brandgraph serve --dataset data/datos_finales_analisis.csv
  brandgraph stats --brand zara --from 2024-03-01 --to 2024-03-31
  brandgraph export --format mermaid --output network.mmd`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a TOML configuration file")
	pf.StringVar(&a.logFile, "log-file", "", "also write JSON logs to this file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&a.datasetPath, "dataset", "", "path to the labelled CSV export")

	root.AddCommand(
		newServeCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newInitCmd(),
	)
	return root
}

// setup loads configuration, applies flag overrides and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Annotations["skipSetup"] == "true" {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.Dataset.Path = a.datasetPath
	}
	if flags.Changed("log-file") {
		cfg.Log.File = a.logFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, cleanup, err := logging.Setup(cfg.Log.File, level)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.logCleanup = cleanup
	return nil
}

func (a *app) close() {
	if a.logCleanup != nil {
		a.logCleanup()
	}
}

// pipeline resolves, loads and enriches the dataset and wires it to a graph
// cache registered with reg.
func (a *app) pipeline(ctx context.Context, reg prometheus.Registerer) (*server.Pipeline, error) {
	ds, err := server.LoadDataset(ctx, a.cfg.Dataset.Path, a.cfg.Brands, a.logger)
	if err != nil {
		return nil, err
	}
	labels, err := a.cfg.TopicLabels()
	if err != nil {
		return nil, err
	}
	cache, err := graphcache.New(a.cfg.Cache.Size, reg)
	if err != nil {
		return nil, err
	}
	return server.NewPipeline(ds, server.PipelineConfig{
		MaxNodes: a.cfg.Graph.MaxNodes,
		TopK:     a.cfg.Graph.TopK,
		Labels:   labels,
	}, cache, reg, a.logger)
}

func newServeCmd(a *app) *cobra.Command {
	var (
		port      int
		noBrowser bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			openBrowser := a.cfg.Server.OpenBrowser && !noBrowser

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			fmt.Fprintln(cmd.OutOrStdout(), "Loading dataset...")
			p, err := a.pipeline(cmd.Context(), reg)
			if err != nil {
				return err
			}
			srv, err := server.New(p, a.cfg.Brands, reg, a.logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Starting server on http://localhost:%d\n", a.cfg.Server.Port)
			return srv.Serve(cmd.Context(), a.cfg.Server.Port, openBrowser)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "HTTP server port")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "skip auto-opening browser")
	return cmd
}

// selectionFlags are the filter flags shared by stats and export.
type selectionFlags struct {
	brand string
	from  string
	to    string
}

func (s *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.brand, "brand", dataset.AllBrands, "brand to select (ALL, Other or a configured brand)")
	cmd.Flags().StringVar(&s.from, "from", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&s.to, "to", "", "last day to include (YYYY-MM-DD)")
}

func (s *selectionFlags) filter() (dataset.Filter, error) {
	from, err := dataset.ParseDay(s.from)
	if err != nil {
		return dataset.Filter{}, fmt.Errorf("--from: %w", err)
	}
	to, err := dataset.ParseDay(s.to)
	if err != nil {
		return dataset.Filter{}, fmt.Errorf("--to: %w", err)
	}
	f := dataset.Filter{Brand: s.brand, From: from, To: to}
	if err := f.Validate(); err != nil {
		return dataset.Filter{}, err
	}
	return f, nil
}

func newStatsCmd(a *app) *cobra.Command {
	var (
		sel selectionFlags
		top int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print overview metrics and the most mentioned handles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := sel.filter()
			if err != nil {
				return err
			}
			p, err := a.pipeline(cmd.Context(), nil)
			if err != nil {
				return err
			}

			posts, err := p.Posts(f)
			if err != nil {
				return err
			}
			g, err := p.FullGraph(f)
			if err != nil {
				return err
			}
			out := report.Render(report.Stats{
				Selection:    f.Key(),
				Overview:     analytics.Summarize(posts, g),
				TopMentioned: graph.TopMentioned(g, top),
				Topics:       analytics.TopicDistribution(posts, p.Labels()),
			})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	sel.register(cmd)
	cmd.Flags().IntVar(&top, "top", 10, "number of most mentioned handles to list")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		sel    selectionFlags
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the mention graph as a JSON view or a Mermaid flowchart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "mermaid" {
				return fmt.Errorf("unknown format %q (valid: json, mermaid)", format)
			}
			f, err := sel.filter()
			if err != nil {
				return err
			}
			p, err := a.pipeline(cmd.Context(), nil)
			if err != nil {
				return err
			}

			content, err := exportGraph(p, f, format)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}
			if err := os.WriteFile(output, content, 0o644); err != nil {
				a.logger.Error("failed to write output file", "error", err)
				return fmt.Errorf("writing to %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote graph to %s\n", output)
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVar(&format, "format", "json", "output format (json, mermaid)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// exportGraph renders the (possibly reduced) graph of f. An empty selection
// is an error here since there is nothing to write.
func exportGraph(p *server.Pipeline, f dataset.Filter, format string) ([]byte, error) {
	if format == "mermaid" {
		sel, err := p.Select(f)
		if err != nil {
			return nil, noDataErr(f, err)
		}
		return []byte(graph.GenerateMermaid(sel.View, graph.MermaidOptions{IncludeInit: true}) + "\n"), nil
	}

	resp, err := p.RunGraph(f)
	if err != nil {
		return nil, err
	}
	if resp.Status == server.StatusNoData {
		return nil, noDataErr(f, graph.ErrEmptyGraph)
	}
	b, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding graph: %w", err)
	}
	return append(b, '\n'), nil
}

func noDataErr(f dataset.Filter, err error) error {
	if errors.Is(err, graph.ErrEmptyGraph) {
		return fmt.Errorf("no mentions for %s: %w", f.Key(), err)
	}
	return err
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "init [path]",
		Short:       "Write a sample configuration file",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipSetup": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "brandgraph.toml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.InitConfig(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", path)
			return nil
		},
	}
}
