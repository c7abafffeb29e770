package time_test

import (
	"fmt"

	timestats "github.com/cwbudde/algo-sidedist/stats/time"
)

func ExampleCalculate() {
	s := timestats.Calculate([]float64{1, -1, 0.5, -0.5})
	fmt.Printf("peak=%.2f rms=%.3f crest=%.3f\n", s.Peak, s.RMS, s.CrestFactor)

	// Output:
	// peak=1.00 rms=0.791 crest=1.265
}

func ExampleClipRatio() {
	in := []float64{1.2, 0.3, -0.9, -0.1}
	out := []float64{0.5, 0.3, -0.5, -0.1}
	fmt.Printf("%.2f\n", timestats.ClipRatio(in, out))

	// Output:
	// 0.50
}
