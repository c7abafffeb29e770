package sidedist

import (
	"sync"
	"testing"
)

func TestParametersDefaults(t *testing.T) {
	p := NewParameters()

	if got := p.Value(ParamThreshold); got != 1.0 {
		t.Fatalf("threshold = %v, want 1", got)
	}
	if got := p.Value(ParamSidechainGain); got != SidechainGainDefault {
		t.Fatalf("sidechain gain = %v, want %v", got, SidechainGainDefault)
	}
	if got := p.NormalizedGain(); got != 1.0 {
		t.Fatalf("NormalizedGain() = %v, want 1", got)
	}
	if got := p.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
}

func TestParametersRoundTrip(t *testing.T) {
	values := []float32{0, 0.1, 0.25, 0.333333, 0.5, 0.99, 1}

	for _, index := range []int{ParamThreshold, ParamSidechainGain} {
		p := NewParameters()
		for _, v := range values {
			p.SetValue(index, v)
			if got := p.Value(index); got != v {
				t.Fatalf("index %d: Value() = %v after SetValue(%v)", index, got, v)
			}
		}
	}
}

func TestParametersIndependentCells(t *testing.T) {
	p := NewParameters()
	p.SetValue(ParamThreshold, 0.3)

	if got := p.Value(ParamSidechainGain); got != SidechainGainDefault {
		t.Fatalf("sidechain gain = %v, want untouched default", got)
	}

	p.SetValue(ParamSidechainGain, 0.7)
	if got := p.Threshold(); got != 0.3 {
		t.Fatalf("threshold = %v, want 0.3", got)
	}
}

func TestParametersOutOfRangeIndex(t *testing.T) {
	p := NewParameters()
	p.SetValue(ParamThreshold, 0.4)
	p.SetValue(ParamSidechainGain, 0.6)

	for _, index := range []int{-1, 2, 3, 1000} {
		p.SetValue(index, 0.9)

		if got := p.Value(index); got != 0 {
			t.Fatalf("Value(%d) = %v, want 0", index, got)
		}
		if got := p.Name(index); got != "" {
			t.Fatalf("Name(%d) = %q, want empty", index, got)
		}
		if got := p.Text(index); got != "" {
			t.Fatalf("Text(%d) = %q, want empty", index, got)
		}
	}

	if p.Threshold() != 0.4 || p.SidechainGain() != 0.6 {
		t.Fatalf("out-of-range SetValue changed cells: threshold=%v gain=%v", p.Threshold(), p.SidechainGain())
	}
}

func TestParametersNames(t *testing.T) {
	p := NewParameters()

	if got := p.Name(ParamThreshold); got != "Threshold" {
		t.Fatalf("Name(0) = %q", got)
	}
	if got := p.Name(ParamSidechainGain); got != "Sidechain Gain" {
		t.Fatalf("Name(1) = %q", got)
	}
}

func TestParametersText(t *testing.T) {
	tests := []struct {
		name  string
		index int
		value float32
		want  string
	}{
		{name: "threshold default", index: ParamThreshold, value: 1, want: "1.00"},
		{name: "threshold rounding", index: ParamThreshold, value: 0.456, want: "0.46"},
		{name: "gain doubled", index: ParamSidechainGain, value: 0.4, want: "2.00"},
		{name: "gain default", index: ParamSidechainGain, value: 0.2, want: "1.00"},
		{name: "gain max", index: ParamSidechainGain, value: 1, want: "5.00"},
		{name: "gain zero", index: ParamSidechainGain, value: 0, want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParameters()
			p.SetValue(tt.index, tt.value)

			if got := p.Text(tt.index); got != tt.want {
				t.Fatalf("Text(%d) = %q, want %q", tt.index, got, tt.want)
			}
		})
	}
}

func TestParametersReset(t *testing.T) {
	p := NewParameters()
	p.SetThreshold(0.1)
	p.SetSidechainGain(0.9)
	p.Reset()

	if p.Threshold() != ThresholdDefault || p.SidechainGain() != SidechainGainDefault {
		t.Fatalf("Reset() left threshold=%v gain=%v", p.Threshold(), p.SidechainGain())
	}
}

func TestParametersZeroValue(t *testing.T) {
	var p Parameters

	if p.Threshold() != 0 || p.SidechainGain() != 0 {
		t.Fatalf("zero value = %v/%v, want 0/0", p.Threshold(), p.SidechainGain())
	}
}

func TestParametersConcurrentAccess(t *testing.T) {
	p := NewParameters()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				p.SetValue(w%2, float32(i%100)/100)
				_ = p.Value((w + 1) % 2)
				_ = p.Text(w % 2)
			}
		}(w)
	}
	wg.Wait()

	for _, index := range []int{ParamThreshold, ParamSidechainGain} {
		if v := p.Value(index); v < 0 || v > 1 {
			t.Fatalf("Value(%d) = %v, want a written value in [0, 1]", index, v)
		}
	}
}
