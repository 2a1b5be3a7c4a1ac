package ecg

import (
	"errors"
	"math"
	"testing"
)

// beatSignal synthesises a clean trace with one Gaussian R deflection per
// beat, the first beat centred half a period in.
func beatSignal(sampleRate int, seconds, bpm float64) []float64 {
	n := int(seconds * float64(sampleRate))
	signal := make([]float64, n)
	period := 60.0 / bpm
	sigma := 0.01 * float64(sampleRate) // 10 ms wide R wave

	for centre := period / 2; centre < seconds; centre += period {
		centreIdx := centre * float64(sampleRate)
		lo := int(centreIdx - 5*sigma)
		hi := int(centreIdx + 5*sigma)
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		for i := lo; i < hi; i++ {
			z := (float64(i) - centreIdx) / sigma
			signal[i] += math.Exp(-0.5 * z * z)
		}
	}
	return signal
}

func TestDetectRPeaksFindsPeriodicBeats(t *testing.T) {
	t.Parallel()

	const (
		rate = 300
		bpm  = 75.0 // one beat every 800 ms
	)
	signal := beatSignal(rate, 8, bpm)

	peaks, err := DetectRPeaks(signal, rate)
	if err != nil {
		t.Fatalf("DetectRPeaks returned error: %v", err)
	}

	wantBeats := 10
	if len(peaks) != wantBeats {
		t.Fatalf("detected %d peaks, want %d", len(peaks), wantBeats)
	}

	period := int(60.0 / bpm * rate)
	tolerance := rate / 10 // smoothing kernel width
	for i := 1; i < len(peaks); i++ {
		gap := peaks[i] - peaks[i-1]
		if gap < period-tolerance || gap > period+tolerance {
			t.Fatalf("peak gap %d outside [%d, %d]", gap, period-tolerance, period+tolerance)
		}
	}
}

func TestDetectRPeaksIsDeterministic(t *testing.T) {
	t.Parallel()

	signal := beatSignal(300, 6, 90)
	first, err := DetectRPeaks(signal, 300)
	if err != nil {
		t.Fatalf("DetectRPeaks returned error: %v", err)
	}
	second, err := DetectRPeaks(signal, 300)
	if err != nil {
		t.Fatalf("DetectRPeaks returned error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("peak counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("peak %d differs: %d vs %d", i, first[i], second[i])
		}
	}
}

func TestDetectRPeaksIndicesInBounds(t *testing.T) {
	t.Parallel()

	signal := beatSignal(300, 5, 110)
	peaks, err := DetectRPeaks(signal, 300)
	if err != nil {
		t.Fatalf("DetectRPeaks returned error: %v", err)
	}
	for _, p := range peaks {
		if p < 0 || p >= len(signal) {
			t.Fatalf("peak index %d out of bounds [0, %d)", p, len(signal))
		}
	}
}

func TestDetectRPeaksFlatSignalIsDegenerate(t *testing.T) {
	t.Parallel()

	flat := make([]float64, 600)
	for i := range flat {
		flat[i] = 0.7
	}

	_, err := DetectRPeaks(flat, 300)
	var degenerate *DegenerateWindowError
	if !errors.As(err, &degenerate) {
		t.Fatalf("expected DegenerateWindowError, got %v", err)
	}
	if degenerate.Reason != ReasonNonFinitePeak {
		t.Fatalf("expected ReasonNonFinitePeak, got %v", degenerate.Reason)
	}
}

func TestDetectRPeaksNaNSignalIsDegenerate(t *testing.T) {
	t.Parallel()

	signal := beatSignal(300, 4, 80)
	signal[100] = math.NaN()

	_, err := DetectRPeaks(signal, 300)
	var degenerate *DegenerateWindowError
	if !errors.As(err, &degenerate) {
		t.Fatalf("expected DegenerateWindowError, got %v", err)
	}
	if degenerate.Reason != ReasonNonFinitePeak {
		t.Fatalf("expected ReasonNonFinitePeak, got %v", degenerate.Reason)
	}
}

func TestDetectRPeaksWindowShorterThanScaleIsDegenerate(t *testing.T) {
	t.Parallel()

	// 20 samples at 300 Hz is shorter than the 30-sample smoothing kernel.
	short := beatSignal(300, 1, 75)[:20]

	_, err := DetectRPeaks(short, 300)
	var degenerate *DegenerateWindowError
	if !errors.As(err, &degenerate) {
		t.Fatalf("expected DegenerateWindowError, got %v", err)
	}
	if degenerate.Reason != ReasonScaleTooLarge {
		t.Fatalf("expected ReasonScaleTooLarge, got %v", degenerate.Reason)
	}
}
