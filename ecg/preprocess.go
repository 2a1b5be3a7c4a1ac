package ecg

// Signal conditioning ahead of segmentation.
//
// Raw recordings carry baseline wander below ~0.5 Hz and muscle/powerline
// noise above ~40 Hz, both of which disturb peak localisation. Each recording
// is bandpass filtered and min-max normalised before it is segmented, so
// every window sees the same amplitude range.

import (
	"math"
)

// PreprocessConfig controls the per-recording conditioning steps.
type PreprocessConfig struct {
	EnableBandpass bool
	LowCutHz       float64 // high-pass corner, default 0.5
	HighCutHz      float64 // low-pass corner, default 40
	ZeroPhase      bool    // forward-backward filtering to cancel phase shift
	Normalize      bool    // min-max rescale to [0, 1]
}

// DefaultPreprocessConfig returns the conditioning used for the reference
// dataset.
func DefaultPreprocessConfig() PreprocessConfig {
	return PreprocessConfig{
		EnableBandpass: true,
		LowCutHz:       0.5,
		HighCutHz:      40,
		ZeroPhase:      true,
		Normalize:      true,
	}
}

// PreprocessSignal applies the configured conditioning steps and returns a
// new slice. The sampling rate must exceed twice the high cutoff, otherwise
// the recording is structurally unusable for the configured band.
func PreprocessSignal(signal []float64, sampleRate int, cfg PreprocessConfig) ([]float64, error) {
	if len(signal) == 0 {
		return nil, &InvalidRecordingError{Cause: "empty signal"}
	}
	if cfg.EnableBandpass && float64(sampleRate) <= cfg.HighCutHz*2 {
		return nil, &InvalidRecordingError{
			Cause: "sampling rate too low for configured high cutoff",
		}
	}

	result := make([]float64, len(signal))
	copy(result, signal)

	if cfg.EnableBandpass {
		result = BandpassFilter(result, sampleRate, cfg.LowCutHz, cfg.HighCutHz, cfg.ZeroPhase)
	}
	if cfg.Normalize {
		result = NormalizeSignal(result)
	}

	return result, nil
}

// HighPassFilter removes frequencies below cutoff using a first-order IIR
// filter.
func HighPassFilter(signal []float64, sampleRate int, cutoffHz float64) []float64 {
	if cutoffHz <= 0 || cutoffHz >= float64(sampleRate)/2 {
		return signal
	}

	rc := 1.0 / (2 * math.Pi * cutoffHz)
	dt := 1.0 / float64(sampleRate)
	alpha := rc / (rc + dt)

	filtered := make([]float64, len(signal))
	var prev float64
	for i, x := range signal {
		if i == 0 {
			filtered[i] = x
		} else {
			filtered[i] = alpha * (prev + x - signal[i-1])
		}
		prev = filtered[i]
	}
	return filtered
}

// LowPassFilter removes frequencies above cutoff using a first-order IIR
// filter.
func LowPassFilter(signal []float64, sampleRate int, cutoffHz float64) []float64 {
	if cutoffHz <= 0 || cutoffHz >= float64(sampleRate)/2 {
		return signal
	}

	rc := 1.0 / (2 * math.Pi * cutoffHz)
	dt := 1.0 / float64(sampleRate)
	alpha := dt / (rc + dt)

	filtered := make([]float64, len(signal))
	var prev float64
	for i, x := range signal {
		if i == 0 {
			filtered[i] = x * alpha
		} else {
			filtered[i] = alpha*x + (1-alpha)*prev
		}
		prev = filtered[i]
	}
	return filtered
}

// BandpassFilter chains the high-pass and low-pass stages. With zeroPhase the
// cascade runs forward and backward so the pass band keeps its timing, which
// matters for peak localisation.
func BandpassFilter(signal []float64, sampleRate int, lowHz, highHz float64, zeroPhase bool) []float64 {
	result := HighPassFilter(signal, sampleRate, lowHz)
	result = LowPassFilter(result, sampleRate, highHz)
	if zeroPhase {
		reverse(result)
		result = HighPassFilter(result, sampleRate, lowHz)
		result = LowPassFilter(result, sampleRate, highHz)
		reverse(result)
	}
	return result
}

// NormalizeSignal rescales the signal into [0, 1]. A constant signal maps to
// all zeros.
func NormalizeSignal(signal []float64) []float64 {
	if len(signal) == 0 {
		return signal
	}
	minVal := signal[0]
	maxVal := signal[0]
	for _, v := range signal {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	result := make([]float64, len(signal))
	span := maxVal - minVal
	if span == 0 {
		return result
	}
	for i, v := range signal {
		result[i] = (v - minVal) / span
	}
	return result
}

func reverse(values []float64) {
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
}
