package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/cv-dev/cv/internal/preview"
)

func serveCmd(opts *projectOptions) *cobra.Command {
	var (
		port    int
		host    string
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve [page]",
		Short: "Start the live preview server",
		Long: `Serve the enhanced page and keep it live: browser events are
dispatched to the page's components and re-renders are pushed to
every open tab.

Examples:
  cv serve
  cv serve --port=8080 --metrics`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Preview.Port = port
			}
			if host != "" {
				cfg.Preview.Host = host
			}
			if metrics {
				cfg.Metrics.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			page := cfg.PagePath()
			if len(args) == 1 {
				page = args[0]
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			loader, err := newLoader(ctx, cfg)
			if err != nil {
				return err
			}

			in, err := openPage(cmd, page)
			if err != nil {
				return err
			}
			options := preview.Options{
				Addr:   cfg.PreviewAddress(),
				Loader: loader,
				Logger: logger,
				Strict: cfg.Engine.Strict,
			}
			if cfg.Metrics.Enabled {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				options.Registry = reg
				options.Namespace = cfg.Metrics.Namespace
			}

			srv, err := preview.New(ctx, in, options)
			in.Close()
			if err != nil {
				return err
			}

			success("Preview running at %s", cfg.PreviewURL())
			info("Page:    %s", page)
			info("Modules: %s", cfg.ModulesPath())
			if s3 := s3Endpoint(cfg); s3 != "" {
				info("S3:      %s", s3)
			}
			info("Enhanced %d element(s)", srv.Enhanced())

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from cv.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from cv.json)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics at /metrics")

	return cmd
}
