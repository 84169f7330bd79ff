package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cverrors "github.com/cv-dev/cv/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		var cvErr *cverrors.Error
		if errors.As(err, &cvErr) {
			fmt.Fprint(os.Stderr, cvErr.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts projectOptions

	rootCmd := &cobra.Command{
		Use:   "cv",
		Short: "Enhance HTML pages with reactive components",
		Long: `cv virtualizes the elements of an HTML page that carry a module
marker, replacing them with components loaded from markup modules or
from an S3 bucket.

Settings are read from cv.json in the project root and can be
overridden with CV_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dir, "project", "C", "", "Project directory holding cv.json (default: nearest ancestor)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&opts.strict, "strict", false, "Fail on unsupported template input")

	rootCmd.AddCommand(
		initCmd(),
		enhanceCmd(&opts),
		serveCmd(&opts),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  %s\n", fmt.Sprintf(format, args...))
}
