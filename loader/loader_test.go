package loader

import (
	"strings"
	"testing"

	"ecg-screening/ecg"
)

func TestReadDataset(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		`{"patient_id": "A00001", "label": "N", "sampling_rate": 300, "signal": [0.1, 0.2, 0.3]}`,
		``,
		`{"patient_id": "A00002", "label": "A", "sampling_rate": 300, "signal": [0.5, null, 0.7]}`,
	}, "\n")

	recordings, err := ReadDataset(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadDataset: %v", err)
	}
	if len(recordings) != 2 {
		t.Fatalf("got %d recordings, want 2", len(recordings))
	}
	if recordings[0].PatientID != "A00001" || recordings[0].Label != ecg.LabelNormal {
		t.Fatalf("first recording = %+v", recordings[0])
	}
	if recordings[1].Label != ecg.LabelAFib {
		t.Fatalf("second label = %q", recordings[1].Label)
	}
	// null samples decode to NaN rather than failing the line.
	if v := recordings[1].Signal[1]; v == v {
		t.Fatalf("null sample decoded to %v, want NaN", v)
	}
}

func TestReadDatasetRejectsBadLines(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"unknown label": `{"patient_id": "A1", "label": "X", "sampling_rate": 300, "signal": [1]}`,
		"missing id":    `{"label": "N", "sampling_rate": 300, "signal": [1]}`,
		"zero rate":     `{"patient_id": "A1", "label": "N", "sampling_rate": 0, "signal": [1]}`,
		"empty signal":  `{"patient_id": "A1", "label": "N", "sampling_rate": 300, "signal": []}`,
		"not json":      `patient A1`,
	}
	for name, line := range cases {
		if _, err := ReadDataset(strings.NewReader(line)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestReadDatasetEmptyInput(t *testing.T) {
	t.Parallel()

	recordings, err := ReadDataset(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadDataset: %v", err)
	}
	if len(recordings) != 0 {
		t.Fatalf("got %d recordings from empty input", len(recordings))
	}
}

func TestParseHeader(t *testing.T) {
	t.Parallel()

	header, err := ParseHeader(strings.NewReader("A00001 1 300 9000 12-Feb-2017 12:22:00\nA00001.mat 16+24 1000/mV\n"))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	want := Header{RecordName: "A00001", LeadCount: 1, SampleRate: 300, NumSamples: 9000}
	if header != want {
		t.Fatalf("header = %+v, want %+v", header, want)
	}
}

func TestParseHeaderMalformed(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "A00001 1 300", "A00001 one 300 9000"} {
		if _, err := ParseHeader(strings.NewReader(input)); err == nil {
			t.Errorf("input %q: expected an error", input)
		}
	}
}
