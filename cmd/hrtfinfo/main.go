// Command hrtfinfo prints the interaural cues of the synthetic HRTF.
//
// Usage:
//
//	hrtfinfo [flags]
//
// Examples:
//
//	hrtfinfo
//	hrtfinfo -rate 48000 -step 15
//	hrtfinfo -elevation 30 -interp nearest
//	hrtfinfo -radius 0.095 -no-pinna
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/radarping/dsp/effects/spatial/hrtf"
)

func main() {
	rate := flag.Int("rate", 44100, "sample rate in Hz")
	step := flag.Float64("step", 30, "azimuth step of the table in degrees")
	elevation := flag.Float64("elevation", 0, "elevation in degrees")
	interp := flag.String("interp", "bilinear", "interpolation: nearest or bilinear")
	radius := flag.Float64("radius", 0.0875, "head radius in meters")
	noPinna := flag.Bool("no-pinna", false, "disable pinna echoes")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hrtfinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints ITD and ILD of the spherical-head HRTF around the listener.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *step <= 0 {
		fmt.Fprintf(os.Stderr, "error: step must be > 0\n")
		os.Exit(1)
	}
	mode, err := hrtf.ParseInterpolation(*interp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	opts := []hrtf.SphericalHeadOption{hrtf.WithHeadRadius(*radius)}
	if *noPinna {
		opts = append(opts, hrtf.WithoutPinna())
	}
	head, err := hrtf.NewSphericalHead(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	ds, err := head.Dataset(*rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	profile, err := hrtf.NewProfile(ds, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	printCues(profile, head.Name(), *step, *elevation, mode)
}

func printCues(p *hrtf.Profile, name string, step, elevation float64, mode hrtf.Interpolation) {
	az, el := p.GridSize()
	fmt.Printf("%s: %d Hz, %d taps, %dx%d grid, %s interpolation\n\n",
		name, p.SampleRate(), p.IRLen(), az, el, mode)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Azimuth [deg]\tElevation [deg]\tITD [us]\tILD [dB]\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}
	if _, err := fmt.Fprintf(tw, "-------------\t---------------\t--------\t--------\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	for deg := -180.0; deg <= 180+1e-9; deg += step {
		dir := hrtf.Direction{Azimuth: deg * math.Pi / 180, Elevation: elevation * math.Pi / 180}
		itd, ild, err := p.Cues(dir, mode)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: cues at %.1f deg: %v\n", deg, err)
			return
		}
		if _, err := fmt.Fprintf(tw, "%.1f\t%.1f\t%.1f\t%.2f\n", deg, elevation, itd*1e6, ild); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
