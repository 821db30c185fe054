package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/torosent/ammogen/internal/config"
	"github.com/torosent/ammogen/internal/generator"
	"github.com/torosent/ammogen/internal/keystore"
	"github.com/torosent/ammogen/internal/log"
	"github.com/torosent/ammogen/internal/output"
	"github.com/torosent/ammogen/internal/policy"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := log.New(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	if cfg.ConfigFile != "" {
		logger.Debug("loaded config file", "path", cfg.ConfigFile)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gen := generator.New(toGeneratorOptions(cfg, logger))
	result, err := gen.Run(ctx)
	if err != nil {
		return err
	}

	return output.Print(stdout, output.Format(cfg.Report), toSummary(result))
}

func toGeneratorOptions(cfg *config.Config, logger log.Logger) generator.Options {
	return generator.Options{
		Method:     policy.Method(cfg.Method),
		Num:        cfg.Num,
		KeysFile:   cfg.KeysFile,
		KeysFormat: keystore.Format(cfg.KeysFormat),
		KeysField:  cfg.KeysField,
		OutputDir:  cfg.OutputDir,
		AmmoOut:    cfg.AmmoOut,
		KeysOut:    cfg.KeysOut,
		URLPrefix:  cfg.URLPrefix,
		Policy: policy.Options{
			BodySize:    cfg.BodySize,
			RewriteProb: cfg.RewriteProb,
			SkewRate:    cfg.SkewRate,
		},
		Seed:             cfg.Seed,
		Progress:         cfg.Progress,
		ProgressInterval: cfg.ProgressInterval,
		Logger:           logger,
	}
}

func toSummary(res generator.Result) output.Summary {
	return output.Summary{
		RunID:      res.RunID,
		Method:     string(res.Method),
		Tag:        res.Tag,
		Seed:       res.Seed,
		AmmoFile:   res.AmmoFile,
		KeysFile:   res.KeysFile,
		KeysLoaded: res.KeysLoaded,
		KeysSaved:  res.KeysSaved,
		Stats:      res.Stats,
	}
}
