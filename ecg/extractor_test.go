package ecg

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func beatWindow(patientID string, seconds float64) Window {
	return Window{
		PatientID:  patientID,
		Label:      LabelNormal,
		SampleRate: 300,
		Signal:     beatSignal(300, seconds, 75),
	}
}

func TestExtractProducesAlignedRecord(t *testing.T) {
	t.Parallel()

	cfg := FeatureConfig{IncludeHRV: true, IncludeFrequencyDomain: true}
	extractor := NewExtractor(cfg)

	record, err := extractor.Extract(beatWindow("A00001", 30))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if record.PatientID != "A00001" || record.Label != LabelNormal {
		t.Fatalf("identity not carried: %q %q", record.PatientID, record.Label)
	}
	values := record.Values(cfg)
	if len(values) != len(Schema(cfg)) {
		t.Fatalf("got %d values for %d columns", len(values), len(Schema(cfg)))
	}
	// 75 bpm metronome: mean interval 800 ms.
	if record.RR.Mean < 790 || record.RR.Mean > 810 {
		t.Fatalf("RR mean = %v, want near 800", record.RR.Mean)
	}
}

func TestExtractBatchSkipsDegenerateWindows(t *testing.T) {
	t.Parallel()

	windows := []Window{
		beatWindow("A00001", 30),
		beatWindow("A00002", 30),
		beatWindow("A00003", 30),
	}
	flat := Window{PatientID: "A00004", Label: LabelNoise, SampleRate: 300, Signal: make([]float64, 9000)}
	windows = append(windows, flat)

	extractor := NewExtractor(FeatureConfig{IncludeHRV: true})
	table, stats, err := extractor.ExtractBatch(context.Background(), windows, 2, nil)
	if err != nil {
		t.Fatalf("ExtractBatch: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(table.Rows))
	}
	if stats.Windows != 4 || stats.Extracted != 3 || stats.Skipped != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.SkippedByReason[ReasonNonFinitePeak.String()] != 1 {
		t.Fatalf("skip reasons = %v", stats.SkippedByReason)
	}
}

type capturingSink struct {
	mu      sync.Mutex
	windows []Window
	errs    []error
}

func (s *capturingSink) OnFatal(_ context.Context, w Window, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = append(s.windows, w)
	s.errs = append(s.errs, err)
}

func TestExtractBatchFatalErrorCancelsAndSurfaces(t *testing.T) {
	t.Parallel()

	boom := errors.New("detector out of bounds")
	extractor := NewExtractor(FeatureConfig{})
	extractor.detect = func(signal []float64, sampleRate int) ([]int, error) {
		if len(signal) == 0 {
			return nil, fmt.Errorf("peak detection: %w", boom)
		}
		return DetectRPeaks(signal, sampleRate)
	}

	windows := make([]Window, 0, 6)
	for i := 0; i < 5; i++ {
		windows = append(windows, beatWindow(fmt.Sprintf("A%05d", i+1), 30))
	}
	poison := Window{PatientID: "A99999", Label: LabelOther, SampleRate: 300}
	windows = append(windows, poison)

	sink := &capturingSink{}
	table, _, err := extractor.ExtractBatch(context.Background(), windows, 3, sink)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if table != nil {
		t.Fatalf("fatal batch must not return a table, got %d rows", len(table.Rows))
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.windows) != 1 {
		t.Fatalf("sink received %d windows, want 1", len(sink.windows))
	}
	if sink.windows[0].PatientID != "A99999" {
		t.Fatalf("sink captured window for %q", sink.windows[0].PatientID)
	}
	if !errors.Is(sink.errs[0], boom) {
		t.Fatalf("sink error = %v", sink.errs[0])
	}
}

func TestExtractBatchEmptyInput(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(FeatureConfig{IncludeHRV: true})
	table, stats, err := extractor.ExtractBatch(context.Background(), nil, 4, nil)
	if err != nil {
		t.Fatalf("ExtractBatch: %v", err)
	}
	if len(table.Rows) != 0 || stats.Windows != 0 {
		t.Fatalf("empty batch produced rows=%d stats=%+v", len(table.Rows), stats)
	}
	if len(table.Columns) != len(Schema(extractor.Config())) {
		t.Fatalf("schema not preserved on empty batch")
	}
}

func TestExtractDeterministic(t *testing.T) {
	t.Parallel()

	cfg := FeatureConfig{IncludeHRV: true, IncludeFrequencyDomain: true}
	extractor := NewExtractor(cfg)
	w := beatWindow("A00010", 30)

	first, err := extractor.Extract(w)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	second, err := extractor.Extract(w)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	a, b := first.Values(cfg), second.Values(cfg)
	for i := range a {
		if a[i] != b[i] && !(a[i] != a[i] && b[i] != b[i]) {
			t.Fatalf("column %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}
