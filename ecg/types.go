package ecg

// Core data model for the rhythm screening pipeline.
//
// A Recording is the immutable unit handed over by the dataset loader: one
// single-lead voltage trace, its sampling rate and the reference label. The
// Segmenter slices recordings into fixed-length Windows; the feature
// extractor turns each surviving window into one FeatureRecord. The union of
// records forms the FeatureTable consumed by downstream model training.

// Rhythm class codes as used by the reference annotations.
const (
	LabelAFib   = "A" // atrial fibrillation
	LabelNormal = "N" // normal sinus rhythm
	LabelOther  = "O" // other rhythm
	LabelNoise  = "~" // too noisy to classify
)

// KnownLabel reports whether code is one of the four rhythm classes.
func KnownLabel(code string) bool {
	switch code {
	case LabelAFib, LabelNormal, LabelOther, LabelNoise:
		return true
	}
	return false
}

// Recording is one raw ECG trace as provided by the loader. Never mutated
// after construction.
type Recording struct {
	PatientID  string    `json:"patient_id"`
	Label      string    `json:"label"`
	SampleRate int       `json:"sampling_rate"`
	Signal     []float64 `json:"signal"`
}

// Window is a fixed-length slice of a recording's signal. The signal is an
// independent copy; windows do not alias their parent recording.
type Window struct {
	PatientID  string
	Label      string
	SampleRate int
	Signal     []float64
	// Start is the sample offset of the window within its recording.
	Start int
}

// RRFeatures summarises consecutive R-R interval durations in milliseconds.
type RRFeatures struct {
	Mean              float64
	Std               float64
	IrregularityIndex float64
}

// FrequencyFeatures carries Welch band powers of the raw window signal.
// Ratio is NaN when the high-frequency power is structurally near zero.
type FrequencyFeatures struct {
	LF    float64
	HF    float64
	Ratio float64
}

// ShapeFeatures carries the amplitude-distribution moments of the window.
// Kurtosis is reported as excess kurtosis.
type ShapeFeatures struct {
	Skewness float64
	Kurtosis float64
}

// FeatureRecord is the typed result of extracting one window. Group structs
// are concatenated into the flat schema by Values; the column set is fixed
// per configuration, never emergent from runtime keys.
type FeatureRecord struct {
	PatientID string
	Label     string
	HRV       HRVFeatures
	RR        RRFeatures
	Frequency FrequencyFeatures
	Shape     ShapeFeatures
}

// FeatureConfig fixes the schema of the extracted table for one run.
type FeatureConfig struct {
	IncludeHRV             bool
	IncludeFrequencyDomain bool
}

// Schema returns the ordered feature column names for the configuration.
// The label column is appended separately by consumers.
func Schema(cfg FeatureConfig) []string {
	var columns []string
	if cfg.IncludeHRV {
		columns = append(columns, hrvSchema()...)
	}
	columns = append(columns, "RR_mean", "RR_std", "Irregularity_index")
	if cfg.IncludeFrequencyDomain {
		columns = append(columns, "LF", "HF", "LF_HF_ratio")
	}
	columns = append(columns, "Skewness", "Kurtosis")
	return columns
}

// Values flattens the record into schema order. The slice length always
// matches len(Schema(cfg)).
func (r FeatureRecord) Values(cfg FeatureConfig) []float64 {
	var values []float64
	if cfg.IncludeHRV {
		values = append(values, r.HRV.schemaValues()...)
	}
	values = append(values, r.RR.Mean, r.RR.Std, r.RR.IrregularityIndex)
	if cfg.IncludeFrequencyDomain {
		values = append(values, r.Frequency.LF, r.Frequency.HF, r.Frequency.Ratio)
	}
	values = append(values, r.Shape.Skewness, r.Shape.Kurtosis)
	return values
}

// FeatureRow is one materialised table row.
type FeatureRow struct {
	PatientID string
	Label     string
	Values    []float64
}

// FeatureTable is the tabular output of a batch run. Row order carries no
// meaning; extraction is collected unordered.
type FeatureTable struct {
	Columns []string
	Rows    []FeatureRow
}

// NewFeatureTable returns an empty table with the schema for cfg.
func NewFeatureTable(cfg FeatureConfig) *FeatureTable {
	return &FeatureTable{Columns: Schema(cfg)}
}

// Append adds the record as a row, flattened for cfg.
func (t *FeatureTable) Append(record FeatureRecord, cfg FeatureConfig) {
	t.Rows = append(t.Rows, FeatureRow{
		PatientID: record.PatientID,
		Label:     record.Label,
		Values:    record.Values(cfg),
	})
}
