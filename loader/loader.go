package loader

// Dataset loading.
//
// The core pipeline does not decode any clinical binary format. Recordings
// arrive as JSON lines, one object per recording, written by whatever tool
// decoded the raw archive: {"patient_id", "label", "sampling_rate",
// "signal"}. The WFDB text header parser is included for tooling that needs
// the declared sampling rate of an original record; binary signal decoding
// stays out of scope.

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ecg-screening/ecg"
)

type recordingLine struct {
	PatientID  string     `json:"patient_id"`
	Label      string     `json:"label"`
	SampleRate int        `json:"sampling_rate"`
	Signal     ecg.Floats `json:"signal"`
}

// LoadDataset reads a JSON-lines recording file. Every recording is
// validated structurally: known label, positive sampling rate, non-empty
// signal.
func LoadDataset(path string) ([]ecg.Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ReadDataset(f)
}

// ReadDataset parses JSON-lines recordings from the reader.
func ReadDataset(r io.Reader) ([]ecg.Recording, error) {
	var recordings []ecg.Recording

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var parsed recordingLine
		if err := json.Unmarshal([]byte(line), &parsed); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		rec := ecg.Recording{
			PatientID:  parsed.PatientID,
			Label:      parsed.Label,
			SampleRate: parsed.SampleRate,
			Signal:     parsed.Signal,
		}
		if err := validate(rec, lineNo); err != nil {
			return nil, err
		}
		recordings = append(recordings, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	return recordings, nil
}

func validate(rec ecg.Recording, lineNo int) error {
	if rec.PatientID == "" {
		return fmt.Errorf("line %d: missing patient_id", lineNo)
	}
	if !ecg.KnownLabel(rec.Label) {
		return fmt.Errorf("line %d: unknown label %q", lineNo, rec.Label)
	}
	if rec.SampleRate <= 0 {
		return fmt.Errorf("line %d: sampling rate must be positive", lineNo)
	}
	if len(rec.Signal) == 0 {
		return fmt.Errorf("line %d: empty signal", lineNo)
	}
	return nil
}

// Header holds the fields of a WFDB text header's record line.
type Header struct {
	RecordName string
	LeadCount  int
	SampleRate int
	NumSamples int
}

// ParseHeader parses the first line of a WFDB .hea file:
// "A00001 1 300 9000 ..." (record name, lead count, rate, samples).
func ParseHeader(r io.Reader) (Header, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return Header{}, fmt.Errorf("read header: %w", err)
		}
		return Header{}, fmt.Errorf("empty header")
	}

	fields := strings.Fields(scanner.Text())
	if len(fields) < 4 {
		return Header{}, fmt.Errorf("malformed header line: %q", scanner.Text())
	}

	leadCount, err := strconv.Atoi(fields[1])
	if err != nil {
		return Header{}, fmt.Errorf("lead count: %w", err)
	}
	sampleRate, err := strconv.Atoi(fields[2])
	if err != nil {
		return Header{}, fmt.Errorf("sample rate: %w", err)
	}
	numSamples, err := strconv.Atoi(fields[3])
	if err != nil {
		return Header{}, fmt.Errorf("sample count: %w", err)
	}

	return Header{
		RecordName: fields[0],
		LeadCount:  leadCount,
		SampleRate: sampleRate,
		NumSamples: numSamples,
	}, nil
}
