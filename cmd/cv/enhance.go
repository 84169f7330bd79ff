package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cv-dev/cv/pkg/dom"
	"github.com/cv-dev/cv/pkg/vdom"
)

func enhanceCmd(opts *projectOptions) *cobra.Command {
	var (
		output  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "enhance [page]",
		Short: "Virtualize module markers in a page and print the result",
		Long: `Parse an HTML page, resolve every element carrying a module
attribute and write the rendered document.

The page defaults to the one named in cv.json. Use "-" to read
standard input.

Examples:
  cv enhance
  cv enhance index.html -o dist/index.html
  cat page.html | cv enhance -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			page := cfg.PagePath()
			if len(args) == 1 {
				page = args[0]
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			in, err := openPage(cmd, page)
			if err != nil {
				return err
			}
			defer in.Close()

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			loader, err := newLoader(ctx, cfg)
			if err != nil {
				return err
			}

			doc, err := dom.ParseHTML(in)
			if err != nil {
				return err
			}
			engine := vdom.New(doc,
				vdom.WithLoader(loader),
				vdom.WithLogger(logger),
				vdom.WithStrict(cfg.Engine.Strict),
			)
			n, err := engine.Enhance(ctx, doc.Body())
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := dom.WriteDocument(&buf, doc); err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return err
			}
			success("Enhanced %d element(s) into %s", n, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to a file instead of stdout")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Abort module loading after this long")

	return cmd
}

func openPage(cmd *cobra.Command, page string) (io.ReadCloser, error) {
	if page == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(page)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	return f, nil
}
