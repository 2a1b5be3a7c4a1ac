package ecg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntervalsMsConversion(t *testing.T) {
	t.Parallel()

	// 240 samples at 300 Hz is exactly 800 ms.
	intervals := IntervalsMs([]int{0, 240, 480}, 300)
	require.Equal(t, []float64{800, 800}, intervals)

	require.Nil(t, IntervalsMs([]int{100}, 300))
	require.Nil(t, IntervalsMs(nil, 300))
}

func TestRRFeaturesShiftInvariance(t *testing.T) {
	t.Parallel()

	base := []int{100, 340, 598, 840}
	shifted := make([]int, len(base))
	for i, p := range base {
		shifted[i] = p + 57
	}

	first, err := ComputeRRFeatures(IntervalsMs(base, 300))
	require.NoError(t, err)
	second, err := ComputeRRFeatures(IntervalsMs(shifted, 300))
	require.NoError(t, err)

	require.Equal(t, first.Mean, second.Mean)
	require.Equal(t, first.Std, second.Std)
	require.Equal(t, first.IrregularityIndex, second.IrregularityIndex)
}

func TestRRFeaturesConstantIntervals(t *testing.T) {
	t.Parallel()

	rr, err := ComputeRRFeatures([]float64{800, 800, 800, 800})
	require.NoError(t, err)
	require.Equal(t, 800.0, rr.Mean)
	require.Equal(t, 0.0, rr.Std)
	require.Equal(t, 0.0, rr.IrregularityIndex)
}

func TestIrregularityIndexBoundsAndTwoPeakCase(t *testing.T) {
	t.Parallel()

	// Exactly two peaks: one interval, no interval-to-interval change.
	rr, err := ComputeRRFeatures(IntervalsMs([]int{0, 240}, 300))
	require.NoError(t, err)
	require.Equal(t, 0.0, rr.IrregularityIndex)

	// Two of three successive changes exceed 50 ms.
	rr, err = ComputeRRFeatures([]float64{800, 860, 800})
	require.NoError(t, err)
	require.InDelta(t, 2.0/3.0, rr.IrregularityIndex, 1e-12)

	// A 50 ms change is not "exceeding 50 ms".
	rr, err = ComputeRRFeatures([]float64{800, 850})
	require.NoError(t, err)
	require.Equal(t, 0.0, rr.IrregularityIndex)

	require.GreaterOrEqual(t, rr.IrregularityIndex, 0.0)
	require.LessOrEqual(t, rr.IrregularityIndex, 1.0)
}

func TestRRFeaturesNoIntervalsIsDegenerate(t *testing.T) {
	t.Parallel()

	_, err := ComputeRRFeatures(nil)
	require.Error(t, err)
	require.True(t, IsDegenerate(err))

	var degenerate *DegenerateWindowError
	require.ErrorAs(t, err, &degenerate)
	require.Equal(t, ReasonNoIntervals, degenerate.Reason)
}

func TestShapeFeaturesKnownDistributions(t *testing.T) {
	t.Parallel()

	// Alternating ±1: symmetric, maximally flat.
	alternating := make([]float64, 100)
	for i := range alternating {
		if i%2 == 0 {
			alternating[i] = 1
		} else {
			alternating[i] = -1
		}
	}
	shape := ComputeShapeFeatures(alternating)
	require.InDelta(t, 0.0, shape.Skewness, 1e-12)
	require.InDelta(t, -2.0, shape.Kurtosis, 1e-12)

	// Constant signal has no defined moments; reported as zeros.
	constant := []float64{3, 3, 3, 3}
	shape = ComputeShapeFeatures(constant)
	require.Equal(t, 0.0, shape.Skewness)
	require.Equal(t, 0.0, shape.Kurtosis)

	// Right-skewed sample skews positive.
	skewed := []float64{0, 0, 0, 0, 0, 0, 0, 0, 10, 12}
	shape = ComputeShapeFeatures(skewed)
	require.Greater(t, shape.Skewness, 0.0)
}

func TestFrequencyFeaturesRatioMissingWhenHFVanishes(t *testing.T) {
	t.Parallel()

	// At 300 Hz the Welch grid step is ~1.17 Hz, so neither HRV band
	// contains two bins and both powers integrate to zero.
	signal := beatSignal(300, 4, 75)
	freq, err := ComputeFrequencyFeatures(signal, 300)
	require.NoError(t, err)
	require.Equal(t, 0.0, freq.LF)
	require.Equal(t, 0.0, freq.HF)
	require.True(t, math.IsNaN(freq.Ratio), "ratio should be missing, got %v", freq.Ratio)
}

func TestFrequencyFeaturesResolveBandsAtLowRate(t *testing.T) {
	t.Parallel()

	// 0.25 Hz sine sampled at 2 Hz lands inside the HF band; with 256-point
	// segments the grid resolves both bands.
	n := 512
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 0.25 * float64(i) / 2.0)
	}

	freq, err := ComputeFrequencyFeatures(signal, 2)
	require.NoError(t, err)
	require.Greater(t, freq.HF, freq.LF)
	require.False(t, math.IsNaN(freq.Ratio))
	require.GreaterOrEqual(t, freq.Ratio, 0.0)
}

func TestPercentileLinearInterpolation(t *testing.T) {
	t.Parallel()

	values := []float64{1, 2, 3, 4}
	require.Equal(t, 2.5, percentile(values, 50))
	require.Equal(t, 1.0, percentile(values, 0))
	require.Equal(t, 4.0, percentile(values, 100))
	require.InDelta(t, 1.75, percentile(values, 25), 1e-12)
	require.Equal(t, 7.0, percentile([]float64{7}, 50))
	require.True(t, math.IsNaN(percentile(nil, 50)))
}
