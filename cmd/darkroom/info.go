package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gogpu/darkroom"
	"github.com/gogpu/darkroom/imagebuf"
)

// stats summarizes an image.
type stats struct {
	Width, Height  int
	Size           int64
	MeanLightness  float64 // HSL L in [0,1]
	MeanPerceptual float64 // OkLab L in [0,1]
}

// imageStats refreshes buffers and averages their HSL and OkLab lightness.
func imageStats(buffers *imagebuf.Buffers) (stats, error) {
	if err := buffers.Update(); err != nil {
		return stats{}, err
	}
	hsl, lab := buffers.HSL(), buffers.OkLab()
	w, h := hsl.Rect.Dx(), hsl.Rect.Dy()
	st := stats{Width: w, Height: h}
	if w == 0 || h == 0 {
		return st, nil
	}

	var sumL, sumOk float64
	for y := range h {
		for x := range w {
			sumL += float64(hsl.Pix[y*hsl.Stride+x*4+2])
			sumOk += float64(lab.Pix[y*lab.Stride+x*4])
		}
	}
	n := float64(w * h)
	st.MeanLightness = sumL / n
	st.MeanPerceptual = sumOk / n
	return st, nil
}

func newInfoCmd(app *App, _ *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info IN",
		Short: "Print dimensions, file size and mean lightness of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			img, size, err := decodeFile(args[0])
			if err != nil {
				return err
			}

			buffers := imagebuf.FromRGB(darkroom.ToNRGBA(img))
			buffers.SetTracked(true, true, true)
			st, err := imageStats(buffers)
			if err != nil {
				return err
			}
			st.Size = size

			out := app.Out
			fmt.Fprintf(out, "File:       %s\n", args[0])
			fmt.Fprintf(out, "Dimensions: %dx%d (%s pixels)\n", st.Width, st.Height, humanize.Comma(int64(st.Width*st.Height)))
			fmt.Fprintf(out, "Size:       %s\n", humanize.Bytes(uint64(max(st.Size, 0))))
			fmt.Fprintf(out, "Lightness:  %.3f (HSL), %.3f (OkLab)\n", st.MeanLightness, st.MeanPerceptual)
			return nil
		},
	}
}
