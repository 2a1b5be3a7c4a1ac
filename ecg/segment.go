package ecg

// Segmenter: variable-length recordings into fixed-length overlapping
// windows.
//
// Edge policy (fixed for the whole dataset, see DESIGN.md): a recording
// shorter than the window size yields exactly one window holding the whole
// signal; when the final frame would run past the end of the signal it is
// clamped back so that it ends on the last sample, which may overlap its
// predecessor by more than the configured overlap. Windows are never
// zero-padded: synthetic flat tails would corrupt the spectral and
// distribution features downstream.

// SegmenterConfig holds the dataset-wide windowing parameters.
type SegmenterConfig struct {
	WindowSize  int // W, samples
	OverlapSize int // O, samples, 0 <= O < W
}

// Validate rejects unusable window geometry.
func (c SegmenterConfig) Validate() error {
	if c.WindowSize <= 0 {
		return &InvalidRecordingError{Cause: "window size must be positive"}
	}
	if c.OverlapSize < 0 || c.OverlapSize >= c.WindowSize {
		return &InvalidRecordingError{Cause: "overlap must satisfy 0 <= overlap < window size"}
	}
	return nil
}

// Stride returns the hop between consecutive window starts.
func (c SegmenterConfig) Stride() int {
	return c.WindowSize - c.OverlapSize
}

// Segment slices the recording into windows. Each window's signal is an
// independent copy. A zero-length recording is rejected.
func Segment(rec Recording, cfg SegmenterConfig) ([]Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(rec.Signal) == 0 {
		return nil, &InvalidRecordingError{PatientID: rec.PatientID, Cause: "empty signal"}
	}

	n := len(rec.Signal)
	w := cfg.WindowSize
	if n <= w {
		// Single clamped window covering the whole recording.
		return []Window{makeWindow(rec, 0, n)}, nil
	}

	stride := cfg.Stride()
	var windows []Window
	for start := 0; ; start += stride {
		end := start + w
		if end > n {
			// Clamp the final frame to the recording tail.
			start = n - w
			end = n
		}
		windows = append(windows, makeWindow(rec, start, end))
		if end == n {
			break
		}
	}

	return windows, nil
}

// SegmentAll segments every recording in order, concatenating the windows.
func SegmentAll(recordings []Recording, cfg SegmenterConfig) ([]Window, error) {
	var windows []Window
	for _, rec := range recordings {
		segmented, err := Segment(rec, cfg)
		if err != nil {
			return nil, err
		}
		windows = append(windows, segmented...)
	}
	return windows, nil
}

func makeWindow(rec Recording, start, end int) Window {
	signal := make([]float64, end-start)
	copy(signal, rec.Signal[start:end])
	return Window{
		PatientID:  rec.PatientID,
		Label:      rec.Label,
		SampleRate: rec.SampleRate,
		Signal:     signal,
		Start:      start,
	}
}
