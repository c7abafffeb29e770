package sidedist

import (
	"sync"
	"testing"

	"github.com/cwbudde/algo-sidedist/internal/testutil"
)

func newBlock(frames int, program, sidechain float32) (inputs, outputs [][]float32) {
	inputs = make([][]float32, InputChannels)
	for c := range inputs {
		v := program
		if c >= SidechainOffset {
			v = sidechain
		}
		inputs[c] = testutil.DC32(v, frames)
	}

	outputs = make([][]float32, OutputChannels)
	for c := range outputs {
		outputs[c] = make([]float32, frames)
	}

	return inputs, outputs
}

func TestProcessBlockScenarios(t *testing.T) {
	tests := []struct {
		name      string
		threshold float32
		gain      float32
		program   float32
		sidechain float32
		want      float32
	}{
		{name: "clip upper", threshold: 0.5, gain: 0.2, program: 1.0, sidechain: 0, want: 0.5},
		{name: "clip lower", threshold: 0.5, gain: 0.2, program: -1.0, sidechain: 0, want: -0.5},
		{name: "inside", threshold: 0.5, gain: 0.2, program: 0.3, sidechain: 0, want: 0.3},
		{name: "sidechain ducking", threshold: 1.0, gain: 0.2, program: 0.8, sidechain: 0.5, want: 0.5},
		{name: "negative sidechain widens upper", threshold: 0.5, gain: 0.2, program: 0.8, sidechain: -0.5, want: 0.8},
		{name: "double gain", threshold: 1.0, gain: 0.4, program: 0.8, sidechain: 0.25, want: 0.5},
		{name: "zero gain ignores sidechain", threshold: 0.5, gain: 0, program: 0.8, sidechain: 1, want: 0.5},
		{name: "collapsed envelope", threshold: 0.25, gain: 0.2, program: 0.8, sidechain: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := NewParameters()
			params.SetValue(ParamThreshold, tt.threshold)
			params.SetValue(ParamSidechainGain, tt.gain)
			proc := NewProcessor(params)

			inputs, outputs := newBlock(1, tt.program, tt.sidechain)
			proc.ProcessBlock(inputs, outputs)

			for c, out := range outputs {
				if !testutil.NearlyEqual32(out[0], tt.want, 1e-6) {
					t.Fatalf("channel %d: got %v, want %v", c, out[0], tt.want)
				}
			}
		})
	}
}

func TestProcessBlockEmpty(t *testing.T) {
	proc := NewProcessor(nil)
	inputs, outputs := newBlock(0, 0, 0)

	proc.ProcessBlock(inputs, outputs)
}

func TestProcessBlockChannelsIndependent(t *testing.T) {
	proc := NewProcessor(nil)

	inputs := [][]float32{
		{0.9, -0.9, 0.2},
		{0.9, -0.9, 0.2},
		{0.5, 0.5, 0.5}, // left sidechain ducks the upper bound
		{-0.5, -0.5, -0.5},
	}
	outputs := [][]float32{make([]float32, 3), make([]float32, 3)}

	proc.ProcessBlock(inputs, outputs)

	wantLeft := []float32{0.5, -0.9, 0.2}
	wantRight := []float32{0.9, -0.5, 0.2}
	testutil.RequireSliceNearlyEqual32(t, outputs[0], wantLeft, 1e-6)
	testutil.RequireSliceNearlyEqual32(t, outputs[1], wantRight, 1e-6)
}

func TestProcessBlockLeavesInputsUntouched(t *testing.T) {
	proc := NewProcessor(nil)
	inputs, outputs := newBlock(8, 2, 0)

	proc.ProcessBlock(inputs, outputs)

	for c := 0; c < MainChannels; c++ {
		for i, v := range inputs[c] {
			if v != 2 {
				t.Fatalf("input[%d][%d] = %v, want 2", c, i, v)
			}
		}
	}
}

func TestProcessBlockMatchesSymmetricClipWithoutSidechain(t *testing.T) {
	params := NewParameters()
	params.SetThreshold(0.4)
	proc := NewProcessor(params)

	program := testutil.DeterministicSine32(440, 48000, 1.2, 256)
	inputs := [][]float32{program, program, make([]float32, 256), make([]float32, 256)}
	outputs := [][]float32{make([]float32, 256), make([]float32, 256)}

	proc.ProcessBlock(inputs, outputs)

	for i, x := range program {
		want := Clip(x, 0.4, -0.4)
		if outputs[0][i] != want || outputs[1][i] != want {
			t.Fatalf("frame %d: got (%v, %v), want %v", i, outputs[0][i], outputs[1][i], want)
		}
	}
}

func TestProcessChannelInPlace(t *testing.T) {
	buf := []float32{1, -1, 0.25}
	sc := []float32{0, 0, 0}

	ProcessChannel(0.5, 1, buf, sc, buf)

	testutil.RequireSliceNearlyEqual32(t, buf, []float32{0.5, -0.5, 0.25}, 0)
}

func TestProcessChannelShortestLength(t *testing.T) {
	out := []float32{9, 9, 9}

	ProcessChannel(1, 1, []float32{2, 2, 2}, []float32{0}, out)

	testutil.RequireSliceNearlyEqual32(t, out, []float32{1, 9, 9}, 0)
}

func TestProcessBlockNoAllocs(t *testing.T) {
	proc := NewProcessor(nil)
	inputs, outputs := newBlock(512, 0.7, 0.3)

	allocs := testing.AllocsPerRun(100, func() {
		proc.ProcessBlock(inputs, outputs)
	})
	if allocs != 0 {
		t.Fatalf("ProcessBlock allocated %v times per run, want 0", allocs)
	}
}

func TestProcessBlockConcurrentParameterWrites(t *testing.T) {
	params := NewParameters()
	proc := NewProcessor(params)
	inputs, outputs := newBlock(64, 0.9, 0.1)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			params.SetValue(i%2, float32(i%10)/10)
		}
	}()

	for i := 0; i < 200; i++ {
		proc.ProcessBlock(inputs, outputs)
	}
	close(stop)
	wg.Wait()

	for c := range outputs {
		testutil.RequireFinite32(t, outputs[c])
	}
}

func TestProcessInPlace64MatchesFloat32Path(t *testing.T) {
	params := NewParameters()
	params.SetThreshold(0.5)
	params.SetSidechainGain(0.3)
	proc := NewProcessor(params)

	program := testutil.DeterministicSine(220, 48000, 1, 512)
	sidechain := testutil.DeterministicSine(3, 48000, 0.8, 512)

	want := make([]float64, len(program))
	for i, x := range program {
		upper, lower := Envelope(0.5, sidechain[i], float64(params.NormalizedGain()))
		want[i] = Clip(x, upper, lower)
	}

	proc.ProcessInPlace64(program, sidechain)
	testutil.RequireSliceNearlyEqual(t, program, want, 1e-12)

	upper, lower := proc.LastEnvelope()
	if len(upper) != 512 || len(lower) != 512 {
		t.Fatalf("LastEnvelope() lengths = %d/%d, want 512", len(upper), len(lower))
	}
	for i := range upper {
		if upper[i] < 0 || lower[i] > 0 {
			t.Fatalf("frame %d: envelope (%v, %v) has wrong sign", i, upper[i], lower[i])
		}
	}
}

func TestProcessInPlace64ReusesScratch(t *testing.T) {
	proc := NewProcessor(nil)
	program := make([]float64, 256)
	sidechain := make([]float64, 256)

	proc.ProcessInPlace64(program, sidechain)

	allocs := testing.AllocsPerRun(50, func() {
		proc.ProcessInPlace64(program[:128], sidechain[:128])
	})
	if allocs != 0 {
		t.Fatalf("ProcessInPlace64 allocated %v times per run, want 0", allocs)
	}
}
