// Package device runs a plugin on a full-duplex audio device through
// miniaudio (malgo).
//
// Capture delivers the plugin's input channels interleaved as float32, and
// the plugin's output channels are written back interleaved to playback.
// Device callbacks are chunked by the configured block size and never
// allocate.
package device

import (
	"errors"
	"fmt"

	"github.com/gen2brain/malgo"

	"github.com/cwbudde/algo-sidedist/dsp/buffer"
	"github.com/cwbudde/algo-sidedist/dsp/core"
	"github.com/cwbudde/algo-sidedist/plugin"
	timestats "github.com/cwbudde/algo-sidedist/stats/time"
)

// ErrNoDevice is returned when a requested device index does not exist.
var ErrNoDevice = errors.New("no such audio device")

// DefaultDevice selects the backend's default device.
const DefaultDevice = -1

// Config selects devices and processing settings.
type Config struct {
	Processor      core.ProcessorConfig
	CaptureDevice  int
	PlaybackDevice int
}

// DefaultConfig uses the default devices at 48 kHz with 512-frame blocks.
func DefaultConfig() Config {
	return Config{
		Processor:      core.DefaultProcessorConfig(),
		CaptureDevice:  DefaultDevice,
		PlaybackDevice: DefaultDevice,
	}
}

// Host drives one plugin instance from a duplex device.
type Host struct {
	plugin plugin.Plugin
	in     *buffer.Block
	out    *buffer.Block
	meter  timestats.PeakMeter

	ctx *malgo.AllocatedContext
	dev *malgo.Device
}

// newHost prepares the processing side without touching audio hardware.
func newHost(p plugin.Plugin, cfg core.ProcessorConfig) (*Host, error) {
	if p == nil {
		return nil, errors.New("device: nil plugin")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("device: %w", err)
	}

	info := p.Info()
	if err := info.Validate(); err != nil {
		return nil, fmt.Errorf("device: %w", err)
	}

	if info.Inputs == 0 || info.Outputs == 0 {
		return nil, fmt.Errorf("device: %s needs at least one input and one output channel", info.Name)
	}

	return &Host{
		plugin: p,
		in:     buffer.NewBlock(info.Inputs, cfg.BlockSize),
		out:    buffer.NewBlock(info.Outputs, cfg.BlockSize),
	}, nil
}

// Open initializes a duplex device for p. Call Start to begin processing
// and Close to release the device.
func Open(p plugin.Plugin, cfg Config) (*Host, error) {
	h, err := newHost(p, cfg.Processor)
	if err != nil {
		return nil, err
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("device: init context: %w", err)
	}
	h.ctx = ctx

	devCfg := malgo.DefaultDeviceConfig(malgo.Duplex)
	devCfg.SampleRate = uint32(cfg.Processor.SampleRate)
	devCfg.PeriodSizeInFrames = uint32(cfg.Processor.BlockSize)
	devCfg.Capture.Format = malgo.FormatF32
	devCfg.Capture.Channels = uint32(h.in.Channels())
	devCfg.Playback.Format = malgo.FormatF32
	devCfg.Playback.Channels = uint32(h.out.Channels())

	if cfg.CaptureDevice != DefaultDevice {
		info, err := selectDevice(ctx, malgo.Capture, cfg.CaptureDevice)
		if err != nil {
			h.Close()
			return nil, err
		}
		devCfg.Capture.DeviceID = info.ID.Pointer()
	}

	if cfg.PlaybackDevice != DefaultDevice {
		info, err := selectDevice(ctx, malgo.Playback, cfg.PlaybackDevice)
		if err != nil {
			h.Close()
			return nil, err
		}
		devCfg.Playback.DeviceID = info.ID.Pointer()
	}

	dev, err := malgo.InitDevice(ctx.Context, devCfg, malgo.DeviceCallbacks{Data: h.process})
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("device: init duplex device: %w", err)
	}
	h.dev = dev

	return h, nil
}

// Start begins streaming.
func (h *Host) Start() error {
	if h.dev == nil {
		return errors.New("device: host is not open")
	}

	if err := h.dev.Start(); err != nil {
		return fmt.Errorf("device: start: %w", err)
	}

	return nil
}

// Close stops the device and releases the backend context.
func (h *Host) Close() {
	if h.dev != nil {
		h.dev.Uninit()
		h.dev = nil
	}

	if h.ctx != nil {
		_ = h.ctx.Uninit()
		h.ctx.Free()
		h.ctx = nil
	}
}

// Plugin returns the hosted plugin.
func (h *Host) Plugin() plugin.Plugin { return h.plugin }

// Peak returns the output peak of the most recent callback chunk.
func (h *Host) Peak() float32 { return h.meter.Peak() }

// process is the device data callback.
func (h *Host) process(output, input []byte, frameCount uint32) {
	inStride := h.in.FrameBytes()
	outStride := h.out.FrameBytes()

	for off, remaining := 0, int(frameCount); remaining > 0; {
		n := min(remaining, h.in.Capacity())
		h.in.Resize(n)
		h.out.Resize(n)

		// Short or missing capture reads as silence.
		start := off * inStride
		if start+n*inStride > len(input) {
			h.in.Zero()
		}
		if start < len(input) {
			h.in.DeinterleaveBytes(input[start:])
		}

		h.plugin.Process(h.in.Views(), h.out.Views())
		h.meter.Update(h.out.Views())

		if start := off * outStride; start < len(output) {
			h.out.InterleaveBytes(output[start:])
		}

		off += n
		remaining -= n
	}
}

// ListDevices returns the names of the available capture and playback devices
// in the order used by Config.CaptureDevice and Config.PlaybackDevice.
func ListDevices() (capture, playback []string, err error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("device: init context: %w", err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	capture, err = deviceNames(ctx, malgo.Capture)
	if err != nil {
		return nil, nil, err
	}

	playback, err = deviceNames(ctx, malgo.Playback)
	if err != nil {
		return nil, nil, err
	}

	return capture, playback, nil
}

func deviceNames(ctx *malgo.AllocatedContext, kind malgo.DeviceType) ([]string, error) {
	infos, err := ctx.Devices(kind)
	if err != nil {
		return nil, fmt.Errorf("device: enumerate: %w", err)
	}

	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name()
	}

	return names, nil
}

func selectDevice(ctx *malgo.AllocatedContext, kind malgo.DeviceType, index int) (malgo.DeviceInfo, error) {
	infos, err := ctx.Devices(kind)
	if err != nil {
		return malgo.DeviceInfo{}, fmt.Errorf("device: enumerate: %w", err)
	}

	if index < 0 || index >= len(infos) {
		return malgo.DeviceInfo{}, fmt.Errorf("%w: index %d of %d", ErrNoDevice, index, len(infos))
	}

	return infos[index], nil
}
