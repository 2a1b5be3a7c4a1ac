package ecg

// Per-window feature computations.
//
// Three of the four feature groups live here: R-R interval statistics,
// Welch frequency-band powers and amplitude-distribution moments. The HRV
// time-domain battery is in hrv.go. Every function is a pure computation
// over (signal, sampleRate) or a peak index sequence.

import (
	"math"
	"sort"

	"ecg-screening/dsp"
)

// Conventional heart-rate-variability analysis bands.
const (
	lfBandLow  = 0.04
	lfBandHigh = 0.15
	hfBandLow  = 0.15
	hfBandHigh = 0.4

	// irregularityThresholdMs: successive-interval change regarded as an
	// irregular beat transition.
	irregularityThresholdMs = 50.0

	// hfFloor: below this power the LF/HF ratio is structurally undefined
	// and declared missing instead of exploding.
	hfFloor = 1e-10
)

// IntervalsMs converts consecutive peak index distances into interval
// durations in milliseconds.
func IntervalsMs(peaks []int, sampleRate int) []float64 {
	if len(peaks) < 2 {
		return nil
	}
	intervals := make([]float64, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		intervals[i-1] = float64(peaks[i]-peaks[i-1]) / float64(sampleRate) * 1000
	}
	return intervals
}

// ComputeRRFeatures summarises the interval sequence. Zero intervals are a
// skip-class failure; exactly one interval yields an irregularity index of
// zero since no interval-to-interval change is observable.
func ComputeRRFeatures(intervals []float64) (RRFeatures, error) {
	if len(intervals) == 0 {
		return RRFeatures{}, &DegenerateWindowError{Reason: ReasonNoIntervals}
	}

	mean := meanOf(intervals)
	std := populationStd(intervals, mean)

	irregular := 0
	for i := 1; i < len(intervals); i++ {
		if math.Abs(intervals[i]-intervals[i-1]) > irregularityThresholdMs {
			irregular++
		}
	}

	return RRFeatures{
		Mean:              mean,
		Std:               std,
		IrregularityIndex: float64(irregular) / float64(len(intervals)),
	}, nil
}

// ComputeFrequencyFeatures estimates low- and high-frequency band powers of
// the raw window signal via Welch's method. Ratio is NaN when HF is at or
// below the floor.
func ComputeFrequencyFeatures(signal []float64, sampleRate int) (FrequencyFeatures, error) {
	freqs, psd, err := dsp.WelchPSD(signal, sampleRate)
	if err != nil {
		return FrequencyFeatures{}, err
	}

	lf := dsp.BandPower(freqs, psd, lfBandLow, lfBandHigh)
	hf := dsp.BandPower(freqs, psd, hfBandLow, hfBandHigh)

	ratio := math.NaN()
	if hf > hfFloor {
		ratio = lf / hf
	}

	return FrequencyFeatures{LF: lf, HF: hf, Ratio: ratio}, nil
}

// ComputeShapeFeatures returns the standardised third and fourth moments of
// the amplitude distribution. Kurtosis is excess kurtosis: a normal
// distribution scores zero.
func ComputeShapeFeatures(signal []float64) ShapeFeatures {
	mean := meanOf(signal)

	var m2, m3, m4 float64
	for _, v := range signal {
		d := v - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	n := float64(len(signal))
	m2 /= n
	m3 /= n
	m4 /= n

	if m2 == 0 {
		return ShapeFeatures{}
	}
	return ShapeFeatures{
		Skewness: m3 / math.Pow(m2, 1.5),
		Kurtosis: m4/(m2*m2) - 3,
	}
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStd is the ddof=0 standard deviation.
func populationStd(values []float64, mean float64) float64 {
	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)))
}

// sampleStd is the ddof=1 standard deviation; NaN for fewer than two values.
func sampleStd(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)-1))
}

// percentile computes the q-th percentile (0-100) with linear interpolation
// between closest ranks.
func percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func medianOf(values []float64) float64 {
	return percentile(values, 50)
}
