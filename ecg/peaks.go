package ecg

// R-peak detection.
//
// The detector standardises the window to zero mean and unit variance,
// smooths it with a moving average whose kernel tracks the sampling rate,
// and keeps local maxima that rise above half the global maximum while
// enforcing a physiological refractory distance between beats (no two
// R-peaks closer than 200 ms). It is deterministic given (signal, rate).
//
// Failure contract: the detector never silently repairs a degenerate
// window. A window shorter than the smoothing kernel and a window whose
// standardisation degenerates (flat or NaN-contaminated signal) both return
// a DegenerateWindowError so the caller can skip the window.

import (
	"math"
	"sort"
)

const (
	// peakHeightFraction: minimum peak height relative to the strongest
	// deflection of the standardised window.
	peakHeightFraction = 0.5
	// refractorySeconds: minimum spacing between consecutive beats.
	refractorySeconds = 0.2
	// smoothingSeconds: moving-average kernel length used to suppress
	// narrow noise spikes before peak picking.
	smoothingSeconds = 0.1
)

// DetectRPeaks returns the sample indices of detected R-peaks in ascending
// order. At least zero indices are returned; interval statistics downstream
// decide whether the count is sufficient.
func DetectRPeaks(signal []float64, sampleRate int) ([]int, error) {
	n := len(signal)
	if n == 0 {
		return nil, &DegenerateWindowError{Reason: ReasonScaleTooLarge}
	}

	kernel := int(smoothingSeconds * float64(sampleRate))
	if kernel < 1 {
		kernel = 1
	}
	if kernel > n {
		return nil, &DegenerateWindowError{Reason: ReasonScaleTooLarge}
	}

	standardised, err := standardise(signal)
	if err != nil {
		return nil, err
	}
	smoothed := movingAverage(standardised, kernel)

	maxVal := smoothed[0]
	for _, v := range smoothed {
		if v > maxVal {
			maxVal = v
		}
	}
	if math.IsNaN(maxVal) || math.IsInf(maxVal, 0) {
		return nil, &DegenerateWindowError{Reason: ReasonNonFinitePeak}
	}
	height := maxVal * peakHeightFraction

	candidates := localMaxima(smoothed, height)
	distance := int(refractorySeconds * float64(sampleRate))
	if distance < 1 {
		distance = 1
	}
	peaks := enforceDistance(smoothed, candidates, distance)

	sort.Ints(peaks)
	return peaks, nil
}

// standardise rescales to zero mean and unit variance. Flat signals have no
// meaningful variance and NaN samples poison the mean; both degenerate to
// non-finite peak positions in the reference implementation, so they map to
// the same skip reason here.
func standardise(signal []float64) ([]float64, error) {
	var sum float64
	for _, v := range signal {
		sum += v
	}
	mean := sum / float64(len(signal))

	var variance float64
	for _, v := range signal {
		diff := v - mean
		variance += diff * diff
	}
	std := math.Sqrt(variance / float64(len(signal)))

	if std == 0 || math.IsNaN(std) || math.IsInf(std, 0) {
		return nil, &DegenerateWindowError{Reason: ReasonNonFinitePeak}
	}

	result := make([]float64, len(signal))
	for i, v := range signal {
		result[i] = (v - mean) / std
	}
	return result, nil
}

func movingAverage(signal []float64, kernel int) []float64 {
	if kernel <= 1 {
		result := make([]float64, len(signal))
		copy(result, signal)
		return result
	}

	result := make([]float64, len(signal))
	half := kernel / 2
	var windowSum float64
	lo, hi := 0, 0 // current [lo, hi) accumulation range

	for i := range signal {
		wantLo := i - half
		if wantLo < 0 {
			wantLo = 0
		}
		wantHi := i + kernel - half
		if wantHi > len(signal) {
			wantHi = len(signal)
		}
		for hi < wantHi {
			windowSum += signal[hi]
			hi++
		}
		for lo < wantLo {
			windowSum -= signal[lo]
			lo++
		}
		result[i] = windowSum / float64(hi-lo)
	}
	return result
}

// localMaxima returns indices of strict local maxima at or above height.
// Flat-topped peaks report the left edge of the plateau.
func localMaxima(signal []float64, height float64) []int {
	var peaks []int
	for i := 1; i < len(signal)-1; i++ {
		if signal[i] < height || signal[i] <= signal[i-1] {
			continue
		}
		// Walk over a plateau to find the right neighbour.
		j := i + 1
		for j < len(signal)-1 && signal[j] == signal[i] {
			j++
		}
		if signal[j] < signal[i] {
			peaks = append(peaks, i)
			i = j - 1
		}
	}
	return peaks
}

// enforceDistance keeps the highest peaks first and removes any candidate
// within the refractory distance of an already accepted one.
func enforceDistance(signal []float64, candidates []int, distance int) []int {
	byHeight := make([]int, len(candidates))
	copy(byHeight, candidates)
	sort.Slice(byHeight, func(a, b int) bool {
		return signal[byHeight[a]] > signal[byHeight[b]]
	})

	accepted := make([]int, 0, len(byHeight))
	for _, candidate := range byHeight {
		ok := true
		for _, kept := range accepted {
			if abs(candidate-kept) < distance {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, candidate)
		}
	}
	return accepted
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
