package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/darkroom/filter"
)

// editFlags holds the filter parameters given on the command line.
type editFlags struct {
	exposure   float64
	saturation float64
	contrast   float64
	sharpen    string
	gaussian   string
	box        uint
	wb         string
}

func (f *editFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64VarP(&f.exposure, "exposure", "e", 0, "exposure in EV [-2,2]")
	fs.Float64VarP(&f.saturation, "saturation", "s", 0, "saturation change [-0.5,0.5]")
	fs.Float64VarP(&f.contrast, "contrast", "c", 0, "contrast change [-0.5,0.5]")
	fs.StringVar(&f.sharpen, "sharpen", "", "unsharp mask as amount,radius")
	fs.StringVar(&f.gaussian, "gaussian", "", "gaussian blur as sigma,kernel size (0 derives the size)")
	fs.UintVar(&f.box, "box", 0, "box blur radius")
	fs.StringVar(&f.wb, "wb", "", "white balance target as temperature,tint")
}

// filters converts the flags into filter overrides. Unset flags are omitted.
func (f *editFlags) filters() ([]filter.Filter, error) {
	var out []filter.Filter
	add := func(tag filter.Tag, params ...float64) {
		out = append(out, filter.Filter{Tag: tag, Params: params})
	}

	if f.exposure != 0 {
		add(filter.Exposition, f.exposure)
	}
	if f.contrast != 0 {
		add(filter.Contrast, f.contrast)
	}
	if f.saturation != 0 {
		add(filter.Saturation, f.saturation)
	}
	if f.box != 0 {
		add(filter.BoxBlur, float64(f.box))
	}

	pairs := []struct {
		flag  string
		value string
		tag   filter.Tag
	}{
		{"sharpen", f.sharpen, filter.Sharpening},
		{"gaussian", f.gaussian, filter.GaussianBlur},
		{"wb", f.wb, filter.WhiteBalance},
	}
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		a, b, err := parsePair(p.value)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", p.flag, err)
		}
		add(p.tag, a, b)
	}
	return out, nil
}

// parsePair parses "a,b" into two floats.
func parsePair(s string) (float64, float64, error) {
	first, second, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("want two comma separated numbers, got %q", s)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(first), 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(second), 64)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
