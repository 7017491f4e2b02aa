package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newBatchCmd(app *App, g *globalFlags) *cobra.Command {
	edit := &editFlags{}
	var jobs int
	cmd := &cobra.Command{
		Use:   "batch OUTDIR IN...",
		Short: "Render the same edits onto many images concurrently",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			filters, err := edit.filters()
			if err != nil {
				return err
			}
			outDir, inputs := args[0], args[1:]
			outputs, err := outputPaths(outDir, inputs)
			if err != nil {
				return err
			}
			cfg, logger, r, err := app.setup(g)
			if err != nil {
				return err
			}
			defer r.Close()
			if jobs > 0 {
				cfg.Jobs = jobs
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			limit := cfg.Jobs
			if limit == 0 {
				limit = runtime.NumCPU()
			}

			start := time.Now()
			var (
				mu    sync.Mutex
				total int64
			)
			eg, ctx := errgroup.WithContext(ctx)
			eg.SetLimit(limit)
			for i, in := range inputs {
				eg.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					// A renderer owns its device, so every job gets its own.
					rc, err := r.Clone()
					if err != nil {
						return err
					}
					defer rc.Close()

					res, err := processFile(rc, logger, in, outputs[i], filters, cfg.JPEGQuality)
					if err != nil {
						return err
					}

					mu.Lock()
					defer mu.Unlock()
					total += res.Size
					fmt.Fprintln(app.Out, res)
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Processed %d image(s), %s in %s\n",
				len(inputs), humanize.Bytes(uint64(max(total, 0))), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	edit.register(cmd)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "concurrent jobs (0 uses config, then one per CPU)")
	return cmd
}

// outputPaths maps every input to outDir/<base name>. Inputs sharing a base
// name would overwrite each other and are rejected.
func outputPaths(outDir string, inputs []string) ([]string, error) {
	seen := make(map[string]string, len(inputs))
	outputs := make([]string, len(inputs))
	for i, in := range inputs {
		base := filepath.Base(in)
		if prev, ok := seen[base]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, in, filepath.Join(outDir, base))
		}
		seen[base] = in
		outputs[i] = filepath.Join(outDir, base)
	}
	return outputs, nil
}
