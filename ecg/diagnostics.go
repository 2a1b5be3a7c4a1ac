package ecg

// Diagnostic side-channel for fatal extraction errors.
//
// When a batch dies on an unclassified error, the offending raw signal and
// its identity are written out before the error propagates so the failure
// can be inspected offline. This is an observability hook, not a recovery
// path.

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ecg-screening/utils"
)

// SignalDump is the persisted shape of one fatal-window diagnostic.
type SignalDump struct {
	PatientID  string    `json:"patient_id"`
	Label      string    `json:"label"`
	SampleRate int       `json:"sampling_rate"`
	Start      int       `json:"window_start"`
	Signal     Floats    `json:"signal"`
	Error      string    `json:"error"`
	Timestamp  time.Time `json:"timestamp"`
}

// DumpSink writes fatal-window diagnostics as JSON files into a directory.
type DumpSink struct {
	dir string
	mu  sync.Mutex
}

// NewDumpSink creates the directory if needed.
func NewDumpSink(dir string) (*DumpSink, error) {
	if err := utils.CreateFolder(dir); err != nil {
		return nil, fmt.Errorf("unable to create diagnostics dir: %w", err)
	}
	return &DumpSink{dir: dir}, nil
}

// OnFatal persists the window and logs the failure. Persist errors are
// logged but do not mask the original failure.
func (s *DumpSink) OnFatal(ctx context.Context, w Window, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dump := SignalDump{
		PatientID:  w.PatientID,
		Label:      w.Label,
		SampleRate: w.SampleRate,
		Start:      w.Start,
		Signal:     w.Signal,
		Error:      cause.Error(),
		Timestamp:  time.Now().UTC(),
	}

	name := fmt.Sprintf("fatal_%s_%d.json", w.PatientID, time.Now().UnixNano())
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(dump, "", "  ")
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		utils.LogError(ctx, "failed to persist fatal-window diagnostic", err,
			slog.String("patientID", w.PatientID))
		return
	}

	utils.GetLogger().ErrorContext(ctx, "fatal extraction error, window dumped",
		slog.String("patientID", w.PatientID),
		slog.String("label", w.Label),
		slog.String("dump", path),
		slog.String("cause", cause.Error()),
	)
}
