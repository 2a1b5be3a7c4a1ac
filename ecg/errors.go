package ecg

// Error taxonomy for the extraction pipeline.
//
// Degenerate signals are an expected, enumerable condition at dataset scale:
// a window can be too short for the detector's smoothing scale, too flat to
// normalise, or carry too few beats to form any interval. These cases skip
// the window and nothing else. Every other failure is treated as an
// unanticipated bug and aborts the batch after surfacing the offending
// signal for inspection.

import (
	"errors"
	"fmt"
)

// DegenerateReason enumerates the recognised skip-class failure modes.
type DegenerateReason int

const (
	// ReasonScaleTooLarge: the detector's smoothing kernel exceeds the
	// window length.
	ReasonScaleTooLarge DegenerateReason = iota
	// ReasonNonFinitePeak: peak localisation degenerated to non-finite
	// values (flat or NaN-contaminated signal).
	ReasonNonFinitePeak
	// ReasonNoIntervals: fewer than two detected beats, so no R-R interval
	// exists and interval statistics would divide by zero.
	ReasonNoIntervals
)

func (r DegenerateReason) String() string {
	switch r {
	case ReasonScaleTooLarge:
		return "smoothing scale exceeds window length"
	case ReasonNonFinitePeak:
		return "non-finite peak localisation"
	case ReasonNoIntervals:
		return "no detected R-R intervals"
	}
	return "unknown"
}

// DegenerateWindowError marks a window that cannot be analysed but should
// not interrupt the batch. It never escapes ExtractBatch.
type DegenerateWindowError struct {
	Reason DegenerateReason
}

func (e *DegenerateWindowError) Error() string {
	return fmt.Sprintf("degenerate window: %s", e.Reason)
}

// IsDegenerate reports whether err is a recognised skip-class failure.
func IsDegenerate(err error) bool {
	var degenerate *DegenerateWindowError
	return errors.As(err, &degenerate)
}

// InvalidRecordingError marks a recording that fails a structural
// precondition before segmentation.
type InvalidRecordingError struct {
	PatientID string
	Cause     string
}

func (e *InvalidRecordingError) Error() string {
	return fmt.Sprintf("invalid recording %s: %s", e.PatientID, e.Cause)
}
