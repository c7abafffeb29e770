package thd

import (
	"math"
	"testing"
)

func BenchmarkAnalyze(b *testing.B) {
	for _, size := range []int{1024, 4096, 16384} {
		b.Run("fft_"+itoa(size), func(b *testing.B) {
			f := 32 * 48000.0 / float64(size)
			signal := make([]float64, size)
			for i := range signal {
				signal[i] = math.Max(-0.5, math.Min(0.5, math.Sin(2*math.Pi*f*float64(i)/48000)))
			}

			a, err := NewAnalyzer(Config{SampleRate: 48000, FundamentalFreq: f})
			if err != nil {
				b.Fatal(err)
			}

			b.ReportAllocs()
			b.ResetTimer()
			for range b.N {
				if _, err := a.Analyze(signal); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}

	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}

	return string(buf[i:])
}
