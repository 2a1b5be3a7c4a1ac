package ecg

// Time-domain heart-rate-variability battery.
//
// Computed from the detected peak sequence when the HRV feature group is
// enabled. The long-window statistics (SDANN/SDNNI over 1, 2 and 5 minute
// segments) are part of the battery but are excluded from the final schema
// regardless of configuration: analysis windows are far shorter than the
// segment lengths these statistics assume, so they carry no information for
// short-window classification.

import (
	"math"
)

// HRVFeatures is the full battery. All interval statistics are in
// milliseconds; pNN50/pNN20 are percentages. Statistics that need more data
// than the window provides are NaN.
type HRVFeatures struct {
	MeanNN   float64
	SDNN     float64
	RMSSD    float64
	SDSD     float64
	CVNN     float64
	CVSD     float64
	MedianNN float64
	MadNN    float64
	MCVNN    float64
	IQRNN    float64
	Prc20NN  float64
	Prc80NN  float64
	PNN50    float64
	PNN20    float64
	MinNN    float64
	MaxNN    float64

	// Long-window statistics, always dropped from the schema.
	SDANN1 float64
	SDNNI1 float64
	SDANN2 float64
	SDNNI2 float64
	SDANN5 float64
	SDNNI5 float64
}

// hrvSchema lists the battery columns that survive into the final schema,
// in battery order.
func hrvSchema() []string {
	return []string{
		"HRV_MeanNN", "HRV_SDNN", "HRV_RMSSD", "HRV_SDSD",
		"HRV_CVNN", "HRV_CVSD", "HRV_MedianNN", "HRV_MadNN",
		"HRV_MCVNN", "HRV_IQRNN", "HRV_Prc20NN", "HRV_Prc80NN",
		"HRV_pNN50", "HRV_pNN20", "HRV_MinNN", "HRV_MaxNN",
	}
}

func (h HRVFeatures) schemaValues() []float64 {
	return []float64{
		h.MeanNN, h.SDNN, h.RMSSD, h.SDSD,
		h.CVNN, h.CVSD, h.MedianNN, h.MadNN,
		h.MCVNN, h.IQRNN, h.Prc20NN, h.Prc80NN,
		h.PNN50, h.PNN20, h.MinNN, h.MaxNN,
	}
}

// madScale rescales the median absolute deviation to be a consistent
// estimator of the standard deviation under normality.
const madScale = 1.4826

// ComputeHRVFeatures derives the battery from the detected peak sequence.
// Fewer than two peaks provide no interval and yield an all-NaN battery.
func ComputeHRVFeatures(peaks []int, sampleRate int) HRVFeatures {
	nn := IntervalsMs(peaks, sampleRate)
	if len(nn) == 0 {
		return allNaNHRV()
	}

	mean := meanOf(nn)
	sdnn := sampleStd(nn, mean)

	diffs := successiveDiffs(nn)
	rmssd := math.NaN()
	sdsd := math.NaN()
	pnn50 := math.NaN()
	pnn20 := math.NaN()
	if len(diffs) > 0 {
		var sumSq float64
		over50 := 0
		over20 := 0
		for _, d := range diffs {
			sumSq += d * d
			if math.Abs(d) > 50 {
				over50++
			}
			if math.Abs(d) > 20 {
				over20++
			}
		}
		rmssd = math.Sqrt(sumSq / float64(len(diffs)))
		sdsd = sampleStd(diffs, meanOf(diffs))
		pnn50 = float64(over50) / float64(len(diffs)) * 100
		pnn20 = float64(over20) / float64(len(diffs)) * 100
	}

	median := medianOf(nn)
	mad := madOf(nn, median)

	minNN, maxNN := nn[0], nn[0]
	for _, v := range nn {
		if v < minNN {
			minNN = v
		}
		if v > maxNN {
			maxNN = v
		}
	}

	features := HRVFeatures{
		MeanNN:   mean,
		SDNN:     sdnn,
		RMSSD:    rmssd,
		SDSD:     sdsd,
		CVNN:     sdnn / mean,
		CVSD:     rmssd / mean,
		MedianNN: median,
		MadNN:    mad,
		MCVNN:    mad / median,
		IQRNN:    percentile(nn, 75) - percentile(nn, 25),
		Prc20NN:  percentile(nn, 20),
		Prc80NN:  percentile(nn, 80),
		PNN50:    pnn50,
		PNN20:    pnn20,
		MinNN:    minNN,
		MaxNN:    maxNN,
	}

	features.SDANN1, features.SDNNI1 = segmentedNNStats(nn, 1)
	features.SDANN2, features.SDNNI2 = segmentedNNStats(nn, 2)
	features.SDANN5, features.SDNNI5 = segmentedNNStats(nn, 5)

	return features
}

func successiveDiffs(nn []float64) []float64 {
	if len(nn) < 2 {
		return nil
	}
	diffs := make([]float64, len(nn)-1)
	for i := 1; i < len(nn); i++ {
		diffs[i-1] = nn[i] - nn[i-1]
	}
	return diffs
}

func madOf(values []float64, median float64) float64 {
	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - median)
	}
	return madScale * medianOf(deviations)
}

// segmentedNNStats splits the interval series into segments of the given
// duration in minutes by cumulative time and returns (SDANN, SDNNI): the
// standard deviation of segment means and the mean of segment standard
// deviations. Fewer than two complete segments yield NaN.
func segmentedNNStats(nn []float64, minutes int) (sdann, sdnni float64) {
	segmentMs := float64(minutes) * 60 * 1000

	var segments [][]float64
	var current []float64
	var elapsed float64
	boundary := segmentMs

	for _, interval := range nn {
		elapsed += interval
		if elapsed > boundary {
			if len(current) > 0 {
				segments = append(segments, current)
			}
			current = nil
			boundary += segmentMs
		}
		current = append(current, interval)
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}

	if len(segments) < 2 {
		return math.NaN(), math.NaN()
	}

	means := make([]float64, len(segments))
	var sdSum float64
	sdCount := 0
	for i, segment := range segments {
		means[i] = meanOf(segment)
		sd := sampleStd(segment, means[i])
		if !math.IsNaN(sd) {
			sdSum += sd
			sdCount++
		}
	}

	sdann = sampleStd(means, meanOf(means))
	if sdCount == 0 {
		sdnni = math.NaN()
	} else {
		sdnni = sdSum / float64(sdCount)
	}
	return sdann, sdnni
}

func allNaNHRV() HRVFeatures {
	nan := math.NaN()
	return HRVFeatures{
		MeanNN: nan, SDNN: nan, RMSSD: nan, SDSD: nan,
		CVNN: nan, CVSD: nan, MedianNN: nan, MadNN: nan,
		MCVNN: nan, IQRNN: nan, Prc20NN: nan, Prc80NN: nan,
		PNN50: nan, PNN20: nan, MinNN: nan, MaxNN: nan,
		SDANN1: nan, SDNNI1: nan, SDANN2: nan, SDNNI2: nan,
		SDANN5: nan, SDNNI5: nan,
	}
}
