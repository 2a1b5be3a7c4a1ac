package export

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"ecg-screening/ecg"
)

// WriteCSV writes the feature table with a header row. Missing values (NaN)
// become empty cells so the file loads cleanly into dataframe tooling.
func WriteCSV(path string, table *ecg.FeatureTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := append([]string{"patient_id"}, table.Columns...)
	header = append(header, "label")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, 0, len(header))
	for _, record := range table.Rows {
		row = row[:0]
		row = append(row, record.PatientID)
		for _, v := range record.Values {
			row = append(row, formatCell(v))
		}
		row = append(row, record.Label)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCell(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
