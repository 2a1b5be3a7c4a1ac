package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ecg-screening/ecg"
	"ecg-screening/utils"
)

type Segmenter struct {
	WindowSize  int `yaml:"window_size"`
	OverlapSize int `yaml:"overlap_size"`
}

type Features struct {
	IncludeHRV             bool `yaml:"include_hrv"`
	IncludeFrequencyDomain bool `yaml:"include_frequency_domain"`
}

type Preprocess struct {
	Bandpass  bool    `yaml:"bandpass"`
	LowCutHz  float64 `yaml:"low_cut_hz"`
	HighCutHz float64 `yaml:"high_cut_hz"`
	ZeroPhase bool    `yaml:"zero_phase"`
	Normalize bool    `yaml:"normalize"`
}

type Batch struct {
	Workers int `yaml:"workers"`
}

type Paths struct {
	Data        string `yaml:"data"`
	Output      string `yaml:"output"`
	Diagnostics string `yaml:"diagnostics"`
	Database    string `yaml:"database"`
}

type Root struct {
	Pipeline struct {
		Name     string `yaml:"name"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"pipeline"`
	Segmenter  Segmenter  `yaml:"segmenter"`
	Features   Features   `yaml:"features"`
	Preprocess Preprocess `yaml:"preprocess"`
	Batch      Batch      `yaml:"batch"`
	Paths      Paths      `yaml:"paths"`
}

// Default returns the configuration used for the reference dataset: 9000
// sample (30 s at 300 Hz) windows with two thirds overlap.
func Default() *Root {
	cfg := &Root{}
	cfg.Pipeline.Name = "ecg-screening"
	cfg.Pipeline.LogLevel = "info"
	cfg.Segmenter = Segmenter{WindowSize: 9000, OverlapSize: 6000}
	cfg.Features = Features{IncludeHRV: true, IncludeFrequencyDomain: false}
	cfg.Preprocess = Preprocess{
		Bandpass:  true,
		LowCutHz:  0.5,
		HighCutHz: 40,
		ZeroPhase: true,
		Normalize: true,
	}
	cfg.Batch = Batch{Workers: 0}
	cfg.Paths = Paths{
		Data:        "data/recordings.jsonl",
		Output:      "out",
		Diagnostics: "out/diagnostics",
		Database:    "db/features.db",
	}
	return cfg
}

// Load reads the YAML config at path, or at ECG_CONFIG / config/config.yaml
// when path is empty. A missing file yields the defaults.
func Load(path string) (*Root, error) {
	if path == "" {
		path = utils.GetEnv("ECG_CONFIG", "config/config.yaml")
	}

	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ToPipeline converts the file representation into the immutable pipeline
// configuration.
func (c *Root) ToPipeline() ecg.PipelineConfig {
	return ecg.PipelineConfig{
		Preprocess: ecg.PreprocessConfig{
			EnableBandpass: c.Preprocess.Bandpass,
			LowCutHz:       c.Preprocess.LowCutHz,
			HighCutHz:      c.Preprocess.HighCutHz,
			ZeroPhase:      c.Preprocess.ZeroPhase,
			Normalize:      c.Preprocess.Normalize,
		},
		Segmenter: ecg.SegmenterConfig{
			WindowSize:  c.Segmenter.WindowSize,
			OverlapSize: c.Segmenter.OverlapSize,
		},
		Features: ecg.FeatureConfig{
			IncludeHRV:             c.Features.IncludeHRV,
			IncludeFrequencyDomain: c.Features.IncludeFrequencyDomain,
		},
		Workers: c.Batch.Workers,
	}
}
