package ecg

// Feature extractor and concurrent batch runner.
//
// Extraction of one window is a pure function of (signal, sampling rate,
// configuration), so the batch fans windows out to a worker pool and
// collects rows unordered. Error policy: a DegenerateWindowError skips the
// window and contributes nothing; any other error is treated as an
// unanticipated bug, cancels the remaining work, surfaces the offending
// window through the diagnostic sink and propagates to the caller. The
// batch never returns a silently truncated table as success.

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"ecg-screening/utils"
)

// detectFunc abstracts the peak detector so tests can substitute failing
// implementations.
type detectFunc func(signal []float64, sampleRate int) ([]int, error)

// Extractor computes FeatureRecords for windows under a fixed
// configuration.
type Extractor struct {
	cfg    FeatureConfig
	detect detectFunc
}

// NewExtractor returns an extractor using the package peak detector.
func NewExtractor(cfg FeatureConfig) *Extractor {
	return &Extractor{cfg: cfg, detect: DetectRPeaks}
}

// Config returns the schema-fixing configuration of the extractor.
func (e *Extractor) Config() FeatureConfig {
	return e.cfg
}

// Extract computes one FeatureRecord. Degenerate windows return a
// DegenerateWindowError; anything else is an unclassified failure.
func (e *Extractor) Extract(w Window) (FeatureRecord, error) {
	record := FeatureRecord{PatientID: w.PatientID, Label: w.Label}

	peaks, err := e.detect(w.Signal, w.SampleRate)
	if err != nil {
		return FeatureRecord{}, err
	}

	if e.cfg.IncludeHRV {
		record.HRV = ComputeHRVFeatures(peaks, w.SampleRate)
	}

	rr, err := ComputeRRFeatures(IntervalsMs(peaks, w.SampleRate))
	if err != nil {
		return FeatureRecord{}, err
	}
	record.RR = rr

	if e.cfg.IncludeFrequencyDomain {
		freq, err := ComputeFrequencyFeatures(w.Signal, w.SampleRate)
		if err != nil {
			return FeatureRecord{}, err
		}
		record.Frequency = freq
	}

	record.Shape = ComputeShapeFeatures(w.Signal)

	return record, nil
}

// DiagnosticSink receives the offending window before a fatal error
// propagates out of a batch. Implementations must be safe for concurrent
// use.
type DiagnosticSink interface {
	OnFatal(ctx context.Context, w Window, err error)
}

// BatchStats summarises one batch run.
type BatchStats struct {
	Windows   int
	Extracted int
	Skipped   int
	// SkippedByReason counts skip-class failures per degenerate reason.
	SkippedByReason map[string]int
}

// ExtractBatch runs extraction across the windows with the given number of
// workers (<=0 selects runtime.NumCPU). Row order is unspecified. On a
// fatal error the partially built table is discarded and the error
// returned.
func (e *Extractor) ExtractBatch(ctx context.Context, windows []Window, workers int, sink DiagnosticSink) (*FeatureTable, BatchStats, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(windows) && len(windows) > 0 {
		workers = len(windows)
	}

	stats := BatchStats{
		Windows:         len(windows),
		SkippedByReason: make(map[string]int),
	}
	table := NewFeatureTable(e.cfg)
	if len(windows) == 0 {
		return table, stats, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan Window)
	results := make(chan FeatureRecord, workers)

	var mu sync.Mutex
	var fatal error

	recordFatal := func(w Window, err error) {
		mu.Lock()
		first := fatal == nil
		if first {
			fatal = err
		}
		mu.Unlock()
		if first {
			if sink != nil {
				sink.OnFatal(ctx, w, err)
			}
			cancel()
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range jobs {
				record, err := e.Extract(w)
				if err != nil {
					if degenerate := classifySkip(err); degenerate != nil {
						mu.Lock()
						stats.Skipped++
						stats.SkippedByReason[degenerate.Reason.String()]++
						mu.Unlock()
						continue
					}
					recordFatal(w, err)
					return
				}
				select {
				case results <- record:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, w := range windows {
			select {
			case jobs <- w:
			case <-ctx.Done():
				return
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(results)
		close(done)
	}()

	for record := range results {
		table.Append(record, e.cfg)
	}
	<-done

	if fatal != nil {
		return nil, stats, fatal
	}

	stats.Extracted = len(table.Rows)
	utils.GetLogger().Info("batch extraction complete",
		slog.Int("windows", stats.Windows),
		slog.Int("extracted", stats.Extracted),
		slog.Int("skipped", stats.Skipped),
	)
	return table, stats, nil
}

func classifySkip(err error) *DegenerateWindowError {
	var degenerate *DegenerateWindowError
	if errors.As(err, &degenerate) {
		return degenerate
	}
	return nil
}
