package ecg

// End-to-end feature pipeline: condition each recording, segment it into
// windows, extract features across all windows concurrently.

import (
	"context"
	"log/slog"

	"ecg-screening/utils"
)

// PipelineConfig aggregates the per-run configuration. Constructed once per
// run and immutable thereafter.
type PipelineConfig struct {
	Preprocess PreprocessConfig
	Segmenter  SegmenterConfig
	Features   FeatureConfig
	Workers    int
}

// Pipeline converts raw recordings into a FeatureTable.
type Pipeline struct {
	cfg       PipelineConfig
	extractor *Extractor
	sink      DiagnosticSink
}

// NewPipeline validates the configuration and builds the pipeline. sink may
// be nil to disable fatal-window dumps.
func NewPipeline(cfg PipelineConfig, sink DiagnosticSink) (*Pipeline, error) {
	if err := cfg.Segmenter.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:       cfg,
		extractor: NewExtractor(cfg.Features),
		sink:      sink,
	}, nil
}

// Schema returns the feature column names the pipeline will produce.
func (p *Pipeline) Schema() []string {
	return Schema(p.cfg.Features)
}

// Run processes the recordings. Structural recording failures and fatal
// extraction errors abort the run; degenerate windows are skipped and
// counted in the stats.
func (p *Pipeline) Run(ctx context.Context, recordings []Recording) (*FeatureTable, BatchStats, error) {
	logger := utils.GetLogger()

	windows := make([]Window, 0, len(recordings))
	for _, rec := range recordings {
		conditioned, err := PreprocessSignal(rec.Signal, rec.SampleRate, p.cfg.Preprocess)
		if err != nil {
			return nil, BatchStats{}, err
		}
		prepared := rec
		prepared.Signal = conditioned

		segmented, err := Segment(prepared, p.cfg.Segmenter)
		if err != nil {
			return nil, BatchStats{}, err
		}
		windows = append(windows, segmented...)
	}

	logger.Info("segmentation complete",
		slog.Int("recordings", len(recordings)),
		slog.Int("windows", len(windows)),
		slog.Int("windowSize", p.cfg.Segmenter.WindowSize),
		slog.Int("overlap", p.cfg.Segmenter.OverlapSize),
	)

	return p.extractor.ExtractBatch(ctx, windows, p.cfg.Workers, p.sink)
}
