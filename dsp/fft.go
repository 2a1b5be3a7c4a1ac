package dsp

// Fast Fourier Transform (Cooley-Tukey radix-2).
//
// The spectral estimator in this package feeds the frequency-domain ECG
// features. The FFT converts a windowed voltage segment into complex
// frequency bins; Welch averaging of the squared magnitudes then yields a
// power spectral density estimate. Input lengths must be a power of two,
// which the Welch estimator guarantees by construction.

import (
	"math"
)

// FFT computes the discrete Fourier transform of a real-valued input.
// len(input) must be a power of two.
func FFT(input []float64) []complex128 {
	buffer := make([]complex128, len(input))
	for i, v := range input {
		buffer[i] = complex(v, 0)
	}
	return recursiveFFT(buffer)
}

func recursiveFFT(values []complex128) []complex128 {
	n := len(values)
	if n <= 1 {
		return values
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = values[2*i]
		odd[i] = values[2*i+1]
	}

	even = recursiveFFT(even)
	odd = recursiveFFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		angle := -2 * math.Pi * float64(k) / float64(n)
		t := complex(math.Cos(angle), math.Sin(angle))
		result[k] = even[k] + t*odd[k]
		result[k+n/2] = even[k] - t*odd[k]
	}

	return result
}

// HannWindow returns the periodic Hann window of the given length.
func HannWindow(length int) []float64 {
	window := make([]float64, length)
	if length == 0 {
		return window
	}
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(length)))
	}
	return window
}

// LargestPowerOfTwo returns the largest power of two that is <= n, or 0
// when n < 1.
func LargestPowerOfTwo(n int) int {
	if n < 1 {
		return 0
	}
	power := 1
	for power*2 <= n {
		power <<= 1
	}
	return power
}
