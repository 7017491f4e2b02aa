package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gogpu/darkroom"
	"github.com/gogpu/darkroom/filter"
	"github.com/gogpu/darkroom/render"
)

// result describes one processed file.
type result struct {
	In, Out       string
	Width, Height int
	Size          int64
	Elapsed       time.Duration
}

func (r result) String() string {
	return fmt.Sprintf("Saved: %s (%dx%d, %s) in %s",
		r.Out, r.Width, r.Height, humanize.Bytes(uint64(max(r.Size, 0))), r.Elapsed.Round(time.Millisecond))
}

// processFile decodes in, renders filters over it with r and writes out.
func processFile(r *render.Renderer, logger *slog.Logger, in, out string, filters []filter.Filter, jpegQuality int) (result, error) {
	start := time.Now()

	enc, err := encoderFor(out, jpegQuality)
	if err != nil {
		return result{}, err
	}
	img, _, err := decodeFile(in)
	if err != nil {
		return result{}, err
	}

	s, err := darkroom.NewSession(r,
		darkroom.WithImage(img),
		darkroom.WithFilters(filters...),
		darkroom.WithLogger(logger.With("file", in)),
	)
	if err != nil {
		return result{}, err
	}
	rendered, err := s.Export()
	if err != nil {
		return result{}, fmt.Errorf("render %s: %w", in, err)
	}

	size, err := encodeFile(out, rendered, enc)
	if err != nil {
		return result{}, err
	}
	w, h := s.Dimensions()
	return result{In: in, Out: out, Width: w, Height: h, Size: size, Elapsed: time.Since(start)}, nil
}

func newRenderCmd(app *App, g *globalFlags) *cobra.Command {
	edit := &editFlags{}
	cmd := &cobra.Command{
		Use:   "render IN OUT",
		Short: "Render edits onto one image",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			filters, err := edit.filters()
			if err != nil {
				return err
			}
			cfg, logger, r, err := app.setup(g)
			if err != nil {
				return err
			}
			defer r.Close()

			res, err := processFile(r, logger, args[0], args[1], filters, cfg.JPEGQuality)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, res)
			return nil
		},
	}
	edit.register(cmd)
	return cmd
}
