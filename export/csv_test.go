package export

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"ecg-screening/ecg"
)

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	cfg := ecg.FeatureConfig{}
	table := ecg.NewFeatureTable(cfg)
	table.Rows = append(table.Rows, ecg.FeatureRow{
		PatientID: "A00001",
		Label:     ecg.LabelNormal,
		Values:    []float64{820, 14.5, 0, 0.25, math.NaN()},
	})

	path := filepath.Join(t.TempDir(), "features.csv")
	if err := WriteCSV(path, table); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d lines, want header and one row", len(records))
	}

	header := records[0]
	if header[0] != "patient_id" || header[len(header)-1] != "label" {
		t.Fatalf("header = %v", header)
	}
	if len(header) != len(table.Columns)+2 {
		t.Fatalf("header has %d cells, want %d", len(header), len(table.Columns)+2)
	}

	row := records[1]
	if row[0] != "A00001" || row[len(row)-1] != ecg.LabelNormal {
		t.Fatalf("row = %v", row)
	}
	if row[1] != "820" {
		t.Fatalf("first value cell = %q", row[1])
	}
	if last := row[len(row)-2]; last != "" {
		t.Fatalf("NaN cell = %q, want empty", last)
	}
}

func TestWriteCSVEmptyTable(t *testing.T) {
	t.Parallel()

	table := ecg.NewFeatureTable(ecg.FeatureConfig{IncludeHRV: true})
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := WriteCSV(path, table); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("empty table should still write the header, got %d lines", len(records))
	}
}
