package main

import (
	"context"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cv-dev/cv/internal/config"
	cverrors "github.com/cv-dev/cv/internal/errors"
	"github.com/cv-dev/cv/pkg/module"
	"github.com/cv-dev/cv/pkg/vdom"
)

// projectOptions are the persistent flags shared by all commands.
type projectOptions struct {
	dir      string
	logLevel string
	strict   bool
}

// loadConfig reads cv.json, applies CV_* overrides and flags, and
// validates the result. Without a cv.json the defaults are used relative
// to the working directory.
func loadConfig(opts *projectOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.dir != "" {
		cfg, err = config.Load(opts.dir)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		if cverrors.HasCode(err, "CV300") {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Engine.LogLevel = opts.logLevel
	}
	if opts.strict {
		cfg.Engine.Strict = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns a text logger on stderr at the configured level.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// newLoader builds the module loader chain: the modules directory first,
// then the S3 bucket when one is configured.
func newLoader(ctx context.Context, cfg *config.Config) (vdom.Loader, error) {
	loaders := module.Chain{module.NewMarkupLoader(module.DirSource(cfg.ModulesPath()))}

	if cfg.HasS3() {
		var optfns []func(*awsconfig.LoadOptions) error
		if cfg.Modules.S3.Region != "" {
			optfns = append(optfns, awsconfig.WithRegion(cfg.Modules.S3.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optfns...)
		if err != nil {
			return nil, cverrors.New("CV302").WithDetail("loading AWS configuration").Wrap(err)
		}
		client := s3.NewFromConfig(awsCfg)
		source := module.NewS3Source(client, cfg.Modules.S3.Bucket, cfg.Modules.S3.Prefix)
		loaders = append(loaders, module.NewMarkupLoader(source))
	}

	return loaders, nil
}

// s3Endpoint describes the configured S3 module location.
func s3Endpoint(cfg *config.Config) string {
	if !cfg.HasS3() {
		return ""
	}
	return "s3://" + cfg.Modules.S3.Bucket + "/" + cfg.Modules.S3.Prefix
}
