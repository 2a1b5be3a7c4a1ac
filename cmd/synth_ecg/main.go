package main

// Generates a synthetic JSONL dataset for pipeline smoke tests. The
// waveform is a stylised PQRST cycle (sum of Gaussian deflections) with a
// slow baseline drift and deterministic pseudo-noise; the "A" class adds
// per-beat cycle length jitter so R-R irregularity features have something
// to measure. Not clinical data.

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"ecg-screening/ecg"
)

func main() {
	out := flag.String("out", "data/recordings.jsonl", "Output JSONL path")
	count := flag.Int("n", 20, "Recordings per class (N and A)")
	rate := flag.Int("rate", 300, "Sampling rate in Hz")
	seconds := flag.Float64("seconds", 30, "Recording duration")
	noise := flag.Float64("noise", 0.03, "Noise amplitude")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	written := 0
	for i := 0; i < *count; i++ {
		normal := synthRecording(fmt.Sprintf("S%05d", written+1), ecg.LabelNormal,
			*rate, *seconds, 70, 0, *noise)
		if err := encoder.Encode(normal); err != nil {
			log.Fatalf("write record: %v", err)
		}
		written++

		afib := synthRecording(fmt.Sprintf("S%05d", written+1), ecg.LabelAFib,
			*rate, *seconds, 90, 0.25, *noise)
		if err := encoder.Encode(afib); err != nil {
			log.Fatalf("write record: %v", err)
		}
		written++
	}

	log.Printf("wrote %d recordings to %s", written, *out)
}

type jsonRecording struct {
	PatientID  string     `json:"patient_id"`
	Label      string     `json:"label"`
	SampleRate int        `json:"sampling_rate"`
	Signal     ecg.Floats `json:"signal"`
}

// synthRecording builds one trace. jitter is the fractional spread of the
// per-beat cycle length (0 for a metronomic rhythm).
func synthRecording(patientID, label string, rate int, seconds float64, bpm, jitter, noise float64) jsonRecording {
	total := int(seconds * float64(rate))
	signal := make([]float64, total)

	baseCycle := 60.0 / bpm // seconds per beat
	cycleStart := 0.0
	cycleLen := jitteredCycle(baseCycle, jitter, 0, patientID)
	beat := 1

	for i := range signal {
		t := float64(i) / float64(rate)
		for t-cycleStart >= cycleLen {
			cycleStart += cycleLen
			cycleLen = jitteredCycle(baseCycle, jitter, beat, patientID)
			beat++
		}
		phase := (t - cycleStart) / cycleLen

		baseline := 0.05 * math.Sin(2*math.Pi*0.25*t)
		sample := baseline +
			0.08*gauss(phase, 0.18, 0.03) + // P
			-0.12*gauss(phase, 0.30, 0.01) + // Q
			1.00*gauss(phase, 0.32, 0.008) + // R
			-0.25*gauss(phase, 0.35, 0.012) + // S
			0.25*gauss(phase, 0.60, 0.06) // T
		sample += noise * (2*fract(math.Sin(12345.678*t)*9876.543) - 1)
		signal[i] = sample
	}

	return jsonRecording{
		PatientID:  patientID,
		Label:      label,
		SampleRate: rate,
		Signal:     signal,
	}
}

// jitteredCycle derives a deterministic per-beat cycle length from the
// patient ID and beat index.
func jitteredCycle(base, jitter float64, beat int, patientID string) float64 {
	if jitter == 0 {
		return base
	}
	seed := float64(beat + 1)
	for _, r := range patientID {
		seed += float64(r)
	}
	wobble := 2*fract(math.Sin(seed*78.233)*43758.5453) - 1
	return base * (1 + jitter*wobble)
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}

func fract(x float64) float64 { return x - math.Floor(x) }
