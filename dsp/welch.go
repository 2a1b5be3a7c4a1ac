package dsp

// Welch power spectral density estimation.
//
// The signal is split into half-overlapping segments, each segment is
// mean-detrended, Hann-windowed and transformed, and the squared magnitudes
// are averaged into a one-sided density estimate. Segment length defaults to
// 256 samples and is reduced to the largest power of two that fits when the
// input is shorter.

import (
	"errors"
	"math"
	"math/cmplx"
)

// DefaultSegmentLength is the preferred Welch segment size in samples.
const DefaultSegmentLength = 256

// ErrEmptySignal is returned when the input contains no samples.
var ErrEmptySignal = errors.New("dsp: empty signal")

// WelchPSD estimates the one-sided power spectral density of the signal.
// It returns the frequency grid in Hz and the density estimate per bin.
func WelchPSD(signal []float64, sampleRate int) (freqs, psd []float64, err error) {
	if len(signal) == 0 {
		return nil, nil, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return nil, nil, errors.New("dsp: sample rate must be positive")
	}

	segLen := DefaultSegmentLength
	if segLen > len(signal) {
		segLen = LargestPowerOfTwo(len(signal))
	}
	if segLen < 2 {
		segLen = 2
		if len(signal) < 2 {
			// Single-sample input: the density collapses to a DC bin.
			return []float64{0}, []float64{0}, nil
		}
	}

	window := HannWindow(segLen)
	var windowPower float64
	for _, w := range window {
		windowPower += w * w
	}
	scale := 1.0 / (float64(sampleRate) * windowPower)

	hop := segLen / 2
	binCount := segLen/2 + 1
	accumulated := make([]float64, binCount)
	segments := 0

	buffer := make([]float64, segLen)
	for start := 0; start+segLen <= len(signal); start += hop {
		segment := signal[start : start+segLen]

		var mean float64
		for _, v := range segment {
			mean += v
		}
		mean /= float64(segLen)

		for i, v := range segment {
			buffer[i] = (v - mean) * window[i]
		}

		spectrum := FFT(buffer)
		for k := 0; k < binCount; k++ {
			power := cmplx.Abs(spectrum[k])
			accumulated[k] += power * power * scale
		}
		segments++
	}

	if segments == 0 {
		// Shorter than one segment cannot happen after the power-of-two
		// reduction above, but guard against it anyway.
		return nil, nil, ErrEmptySignal
	}

	freqs = make([]float64, binCount)
	psd = make([]float64, binCount)
	for k := 0; k < binCount; k++ {
		freqs[k] = float64(k) * float64(sampleRate) / float64(segLen)
		psd[k] = accumulated[k] / float64(segments)
		// One-sided estimate doubles everything except DC and Nyquist.
		if k != 0 && k != binCount-1 {
			psd[k] *= 2
		}
	}

	return freqs, psd, nil
}

// BandPower integrates the density over bins whose frequency lies in
// [low, high], using the trapezoidal rule with unit bin spacing. Fewer than
// two bins in the band integrate to zero.
func BandPower(freqs, psd []float64, low, high float64) float64 {
	var selected []float64
	for i, f := range freqs {
		if f >= low && f <= high {
			selected = append(selected, psd[i])
		}
	}
	if len(selected) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(selected); i++ {
		total += (selected[i-1] + selected[i]) / 2
	}
	return total
}

// DominantFrequency returns the frequency of the strongest density bin,
// ignoring DC.
func DominantFrequency(freqs, psd []float64) float64 {
	if len(psd) < 2 {
		return 0
	}
	best := 1
	for i := 2; i < len(psd); i++ {
		if psd[i] > psd[best] {
			best = i
		}
	}
	if math.IsNaN(psd[best]) {
		return 0
	}
	return freqs[best]
}
