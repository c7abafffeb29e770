// Command sidedist runs the SideDist sidechain clipper on a live duplex audio
// device.
//
// Capture channels 1-2 carry the program and channels 3-4 the sidechain.
// Playback receives the clipped stereo program. Keys adjust parameters while
// running: t/T threshold, g/G sidechain gain, r reset, q quit.
//
// Usage:
//
//	sidedist [flags]
//
// Examples:
//
//	sidedist -list
//	sidedist -info receiveMidiEvent bypass
//	sidedist -rate 44100 -period 256
//	sidedist -capture 1 -playback 0 -threshold 0.5
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cwbudde/algo-sidedist/dsp/core"
	"github.com/cwbudde/algo-sidedist/dsp/sidedist"
	"github.com/cwbudde/algo-sidedist/internal/control"
	"github.com/cwbudde/algo-sidedist/internal/device"
	"github.com/cwbudde/algo-sidedist/plugin"
)

func main() {
	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	period := flag.Int("period", 512, "device period in frames")
	threshold := flag.Float64("threshold", float64(sidedist.ThresholdDefault), "initial clip threshold [0, 1]")
	gain := flag.Float64("gain", float64(sidedist.SidechainGainDefault), "initial sidechain gain [0, 1] (0.2 is unity)")
	step := flag.Float64("step", control.DefaultStep, "parameter change per key press")
	captureIdx := flag.Int("capture", device.DefaultDevice, "capture device index (-1 for default)")
	playbackIdx := flag.Int("playback", device.DefaultDevice, "playback device index (-1 for default)")
	list := flag.Bool("list", false, "list audio devices and exit")
	info := flag.Bool("info", false, "print plugin metadata, bus layout and answers for the capability arguments, then exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sidedist [flags]\n")
		fmt.Fprintf(os.Stderr, "       sidedist -info [capability ...]\n\n")
		fmt.Fprintf(os.Stderr, "Clips capture channels 1-2 against the sidechain on channels 3-4.\n")
		fmt.Fprintf(os.Stderr, "Keys: t/T threshold -/+, g/G sidechain gain -/+, r reset, q quit.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *info {
		p, err := plugin.DefaultRegistry().New(plugin.SideDistName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		describe(os.Stdout, p, flag.Args())
		return
	}

	if *list {
		if err := printDevices(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*rate, *period, float32(*threshold), float32(*gain), float32(*step), *captureIdx, *playbackIdx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(rate float64, period int, threshold, gain, step float32, captureIdx, playbackIdx int) error {
	p, err := plugin.DefaultRegistry().New(plugin.SideDistName)
	if err != nil {
		return err
	}

	params := p.Parameters()
	params.SetValue(sidedist.ParamThreshold, core.Clamp(threshold, 0, 1))
	params.SetValue(sidedist.ParamSidechainGain, core.Clamp(gain, 0, 1))

	cfg := device.DefaultConfig()
	cfg.Processor = core.ApplyProcessorOptions(core.WithSampleRate(rate), core.WithBlockSize(period))
	cfg.CaptureDevice = captureIdx
	cfg.PlaybackDevice = playbackIdx

	host, err := device.Open(p, cfg)
	if err != nil {
		return err
	}
	defer host.Close()

	if err := host.Start(); err != nil {
		return err
	}

	info := p.Info()
	fmt.Fprintf(os.Stderr, "%s %s running at %.0f Hz, %d-frame period, sidechain on %s\n",
		info.Name, info.Version, cfg.Processor.SampleRate, cfg.Processor.BlockSize,
		channelRange(info, plugin.BusSidechain))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	surface := control.NewSurface(params, os.Stderr,
		control.WithStep(step),
		control.WithMeter(host.Peak, 0),
	)

	return surface.Run(ctx, os.Stdin)
}

func printDevices() error {
	capture, playback, err := device.ListDevices()
	if err != nil {
		return err
	}

	fmt.Println("Capture devices:")
	for i, name := range capture {
		fmt.Printf("  %d: %s\n", i, name)
	}

	fmt.Println("Playback devices:")
	for i, name := range playback {
		fmt.Printf("  %d: %s\n", i, name)
	}

	return nil
}

// channelRange renders the 1-based device channels of a bus, e.g. "channels 3-4".
func channelRange(info plugin.Info, bus string) string {
	first := info.ChannelOffset(bus)
	if first < 0 {
		return "no channels"
	}

	for _, b := range info.Buses {
		if b.Name != bus {
			continue
		}
		if b.Channels == 1 {
			return fmt.Sprintf("channel %d", first+1)
		}

		return fmt.Sprintf("channels %d-%d", first+1, first+b.Channels)
	}

	return "no channels"
}

func describe(w io.Writer, p plugin.Plugin, capabilities []string) {
	info := p.Info()
	fmt.Fprintf(w, "%s %s by %s (%s, id %d)\n", info.Name, info.Version, info.Vendor, info.Category, info.UniqueID)

	fmt.Fprintln(w, "Buses:")
	for _, b := range info.Buses {
		dir := "in "
		if b.Direction == plugin.DirectionOutput {
			dir = "out"
		}
		aux := ""
		if b.Aux {
			aux = " (aux)"
		}
		fmt.Fprintf(w, "  %s %-14s %s%s\n", dir, b.Name, channelRange(info, b.Name), aux)
	}

	params := p.Parameters()
	fmt.Fprintln(w, "Parameters:")
	for i := range params.Count() {
		fmt.Fprintf(w, "  %d %-14s %s\n", i, params.Name(i), params.Text(i))
	}

	if len(capabilities) == 0 {
		return
	}

	fmt.Fprintln(w, "Capabilities:")
	for _, s := range capabilities {
		c, known := plugin.ParseCanDo(s)
		note := ""
		if !known {
			note = " (not a predefined capability)"
		}
		fmt.Fprintf(w, "  %-18s %s%s\n", s, p.CanDo(c), note)
	}
}
