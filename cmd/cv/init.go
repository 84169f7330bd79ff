package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cv-dev/cv/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		template string
		name     string
		cfg      templates.Config
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a new cv project",
		Long: `Scaffold cv.json, a page and example markup modules.

Templates: ` + strings.Join(templates.List(), ", ") + `

Examples:
  cv init site
  cv init site --template=slots
  cv init site --template=s3 --bucket=my-modules --prefix=ui/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			tmpl, err := templates.Get(template)
			if err != nil {
				return err
			}
			cfg.ProjectName = name
			if err := os.MkdirAll(abs, 0755); err != nil {
				return err
			}
			if err := tmpl.Create(abs, cfg); err != nil {
				return err
			}

			success("Created %s project in %s", tmpl.Name, abs)
			info("cd %s && cv serve", dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "minimal", "Project template")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (default: directory name)")
	cmd.Flags().StringVar(&cfg.Bucket, "bucket", "", "S3 bucket for the s3 template")
	cmd.Flags().StringVar(&cfg.Prefix, "prefix", "", "S3 key prefix for the s3 template")
	cmd.Flags().StringVar(&cfg.Region, "region", "", "AWS region for the s3 template")

	return cmd
}
