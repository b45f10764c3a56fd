package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/emlquality/internal/cli/config"
	"github.com/leapstack-labs/emlquality/internal/cli/output"
	"github.com/leapstack-labs/emlquality/internal/engine"
	"github.com/leapstack-labs/emlquality/pkg/core"
	"github.com/leapstack-labs/emlquality/pkg/eml"
	"github.com/leapstack-labs/emlquality/pkg/eml/xmltools"
	"github.com/leapstack-labs/emlquality/pkg/quality"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// EngineOptions adjusts the engine built for a command.
type EngineOptions struct {
	// WithStore opens the state database.
	WithStore bool
	// System overrides the document's system attribute.
	System string
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command, opts EngineOptions) (*CommandContext, func(), error) {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd)
	if err != nil {
		return nil, nil, err
	}

	engCfg, err := buildEngineConfig(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	if opts.WithStore {
		engCfg.StatePath = cmdCtx.Cfg.StatePath
	}
	engCfg.System = opts.System

	eng, err := engine.New(engCfg)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Engine = eng

	cleanup := func() {
		_ = eng.Close()
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
func NewCommandContextWithoutEngine(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// getConfig returns the configuration loaded by the root command, or loads
// it from file and environment when a command runs on its own.
func getConfig() (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}

// buildEngineConfig translates CLI configuration into engine configuration.
// The state store is left closed; commands that record results ask for it.
func buildEngineConfig(cfg *config.Config, logger *slog.Logger) (engine.Config, error) {
	engCfg := engine.Config{
		Timeout: cfg.Timeout,
		Workers: cfg.Workers,
		Logger:  logger,
	}

	if cfg.Templates != "" {
		reg, err := quality.LoadTemplatesFile(cfg.Templates)
		if err != nil {
			return engine.Config{}, fmt.Errorf("failed to load templates: %w", err)
		}
		engCfg.Registry = reg
	}

	checks, err := buildChecksConfig(cfg.Checks)
	if err != nil {
		return engine.Config{}, err
	}
	engCfg.Checks = checks

	policy, err := eml.NewPolicy(cfg.AcceptedNamespaces, cfg.PackageIDPatterns)
	if err != nil {
		return engine.Config{}, err
	}
	engCfg.Policy = &policy

	switch cfg.Schema.EffectiveValidator() {
	case config.ValidatorXSD:
		engCfg.SchemaValidator = &xmltools.XSD{
			SchemaDir: cfg.Schema.Dir,
			Logger:    logger,
		}
	case config.ValidatorXMLLint:
		engCfg.SchemaValidator = &xmltools.XMLLint{
			Path:      cfg.Schema.XMLLintPath,
			SchemaDir: cfg.Schema.Dir,
			Logger:    logger,
		}
	}
	if cfg.Dereference.Stylesheet != "" {
		engCfg.Dereferencer = &xmltools.XSLTProc{
			Path:       cfg.Dereference.XSLTProcPath,
			Stylesheet: cfg.Dereference.Stylesheet,
			Logger:     logger,
		}
	}
	return engCfg, nil
}

func buildChecksConfig(c config.ChecksConfig) (*quality.Config, error) {
	checks := quality.NewConfig()
	for _, id := range c.Disabled {
		checks.Disable(id)
	}
	for id, name := range c.Severity {
		sev, ok := core.ParseSeverity(name)
		if !ok {
			return nil, fmt.Errorf("invalid severity %q for check %s", name, id)
		}
		checks.SetSeverity(id, sev)
	}
	return checks, nil
}
