// Command darkroom applies edits to image files from the command line.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/darkroom"
	"github.com/gogpu/darkroom/gpu"
	"github.com/gogpu/darkroom/internal/config"
	"github.com/gogpu/darkroom/render"
)

var (
	version = "dev"
	commit  = "none"
)

type App struct {
	Out         io.Writer
	Err         io.Writer
	LoadConfig  func(path string) (*config.Config, error)
	NewRenderer func(cfg *config.Config, logger *slog.Logger) (*render.Renderer, error)
}

func DefaultApp() *App {
	return &App{
		Out:         os.Stdout,
		Err:         os.Stderr,
		LoadConfig:  config.Load,
		NewRenderer: newRenderer,
	}
}

// newRenderer opens the configured backend, falling back to the CPU when
// no GPU is usable.
func newRenderer(cfg *config.Config, logger *slog.Logger) (*render.Renderer, error) {
	backend, err := render.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	return render.NewWithFallback(backend,
		render.WithWorkers(cfg.Workers),
		render.WithLogger(logger),
	), nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return newRootCmd(DefaultApp()).Execute()
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	backend    string
}

func newRootCmd(app *App) *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "darkroom",
		Short: "Non-destructive image edits from the command line",
		Long: `darkroom renders exposure, white balance, saturation, contrast,
sharpening and blur edits onto images, on the GPU when available.

Settings are read from DARKROOM_* environment variables and an optional
config file (--config).

Examples:
  darkroom render in.jpg out.png --exposure 0.5 --wb 5200,10
  darkroom batch out/ *.jpg --saturation 0.2 --jobs 4
  darkroom info photo.tiff`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(app.Out)
	cmd.SetErr(app.Err)

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&g.backend, "backend", "", "rendering backend (cpu, gpu); overrides config")

	cmd.AddCommand(
		newRenderCmd(app, g),
		newBatchCmd(app, g),
		newInfoCmd(app, g),
	)
	return cmd
}

// setup loads the configuration, installs the logger and opens a renderer.
// The caller closes the renderer.
func (a *App) setup(g *globalFlags) (*config.Config, *slog.Logger, *render.Renderer, error) {
	cfg, err := a.LoadConfig(g.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if g.backend != "" {
		if _, err := render.ParseBackend(g.backend); err != nil {
			return nil, nil, nil, err
		}
		cfg.Backend = g.backend
	}

	logger := slog.New(slog.NewTextHandler(a.Err, &slog.HandlerOptions{Level: cfg.Level()}))
	darkroom.SetLogger(logger)
	gpu.SetLogger(logger)

	r, err := a.NewRenderer(cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create renderer: %w", err)
	}
	logger.Debug("renderer ready", "backend", r.Backend(), "device", r.DeviceName())
	return cfg, logger, r, nil
}
