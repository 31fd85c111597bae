package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/assetgraph/internal/compiler"
	"github.com/specialistvlad/assetgraph/internal/ctxlog"
	"github.com/specialistvlad/assetgraph/internal/hcl_adapter"
	"github.com/specialistvlad/assetgraph/internal/plan"
)

// Loader reads definition files into a workspace.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*hcl_adapter.Workspace, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     Loader
	compiler   *compiler.Compiler
	translator compiler.Translator[*plan.Plan]
}

// NewApp is the constructor for the main application. Plans and job listings
// go to outW, logs go to logW.
func NewApp(outW, logW io.Writer, cfg *Config, loader Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if loader == nil {
		loader = hcl_adapter.NewLoader()
	}

	return &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		loader:     loader,
		compiler:   compiler.New(nil),
		translator: plan.NewTranslator(),
	}
}

// Context returns ctx carrying the app's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
