// Package control maps terminal key presses onto plugin parameter writes.
//
// The surface runs on its own goroutine, never on the audio thread. It plays
// the host's role towards the parameter store, so every value it writes is
// clamped to [0, 1] first.
package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/cwbudde/algo-sidedist/dsp/core"
	"github.com/cwbudde/algo-sidedist/dsp/sidedist"
	"github.com/cwbudde/algo-sidedist/plugin"
)

// DefaultStep is the parameter change per key press.
const DefaultStep = 0.05

// Key bindings.
const (
	KeyThresholdDown = 't'
	KeyThresholdUp   = 'T'
	KeyGainDown      = 'g'
	KeyGainUp        = 'G'
	KeyReset         = 'r'
	KeyQuit          = 'q'
	KeyInterrupt     = 0x03 // Ctrl-C in raw mode
)

// Option configures a Surface.
type Option func(*Surface)

// WithStep sets the increment applied per key press. Non-positive values
// are ignored.
func WithStep(step float32) Option {
	return func(s *Surface) {
		if step > 0 {
			s.step = step
		}
	}
}

// WithMeter makes Run refresh a status line with the given peak reader.
func WithMeter(peak func() float32, every time.Duration) Option {
	return func(s *Surface) {
		s.peak = peak
		if every > 0 {
			s.every = every
		}
	}
}

// Surface is a keyboard control surface for the SideDist parameters.
type Surface struct {
	params plugin.ParameterSet
	out    io.Writer
	step   float32
	peak   func() float32
	every  time.Duration
}

// NewSurface returns a surface writing status lines to out.
func NewSurface(params plugin.ParameterSet, out io.Writer, opts ...Option) *Surface {
	if out == nil {
		out = io.Discard
	}

	s := &Surface{
		params: params,
		out:    out,
		step:   DefaultStep,
		every:  250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// HandleKey applies one key press and reports whether it requests quitting.
// Unbound keys are ignored.
func (s *Surface) HandleKey(key byte) (quit bool) {
	switch key {
	case KeyThresholdDown:
		s.nudge(sidedist.ParamThreshold, -s.step)
	case KeyThresholdUp:
		s.nudge(sidedist.ParamThreshold, s.step)
	case KeyGainDown:
		s.nudge(sidedist.ParamSidechainGain, -s.step)
	case KeyGainUp:
		s.nudge(sidedist.ParamSidechainGain, s.step)
	case KeyReset:
		s.params.SetValue(sidedist.ParamThreshold, sidedist.ThresholdDefault)
		s.params.SetValue(sidedist.ParamSidechainGain, sidedist.SidechainGainDefault)
	case KeyQuit, KeyInterrupt:
		return true
	default:
		return false
	}

	s.printStatus()

	return false
}

func (s *Surface) nudge(index int, delta float32) {
	s.params.SetValue(index, core.Clamp(s.params.Value(index)+delta, 0, 1))
}

// Status renders the current parameter values.
func (s *Surface) Status() string {
	line := ""
	for i := range s.params.Count() {
		if i > 0 {
			line += "  "
		}
		line += s.params.Name(i) + " " + s.params.Text(i)
	}

	if s.peak != nil {
		line += fmt.Sprintf("  peak %6.1f dB", core.LinearToDB(float64(s.peak())))
	}

	return line
}

func (s *Surface) printStatus() {
	// raw mode: no implicit carriage return, so redraw in place
	fmt.Fprintf(s.out, "\r%s\x1b[K", s.Status())
}

// Run puts the terminal behind in into raw mode and handles key presses until
// a quit key is pressed or ctx is done. The terminal state is restored on
// return.
func (s *Surface) Run(ctx context.Context, in *os.File) error {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("control: input is not a terminal")
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("control: raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, state)
		fmt.Fprint(s.out, "\r\n")
	}()

	keys := make(chan byte)
	done := make(chan struct{})
	defer close(done)
	go readKeys(in, keys, done)

	var tick <-chan time.Time
	if s.peak != nil {
		ticker := time.NewTicker(s.every)
		defer ticker.Stop()
		tick = ticker.C
	}

	s.printStatus()

	for {
		select {
		case <-ctx.Done():
			return nil
		case key, ok := <-keys:
			if !ok || s.HandleKey(key) {
				return nil
			}
		case <-tick:
			s.printStatus()
		}
	}
}

// readKeys forwards bytes from r until a read fails or done is closed.
// A Read already in progress when done closes still completes, and its byte
// is dropped.
func readKeys(r io.Reader, keys chan<- byte, done <-chan struct{}) {
	defer close(keys)

	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case keys <- buf[0]:
			case <-done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}
