package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"ecg-screening/ecg"
)

const featureSheet = "Features"

// WriteXLSX writes the feature table as a spreadsheet with one header row.
// NaN values leave the cell empty.
func WriteXLSX(path string, table *ecg.FeatureTable) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(featureSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := append([]string{"patient_id"}, table.Columns...)
	header = append(header, "label")
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(featureSheet, cell, name); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, record := range table.Rows {
		rowIdx := i + 2
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return fmt.Errorf("row cell: %w", err)
		}
		if err := f.SetCellValue(featureSheet, cell, record.PatientID); err != nil {
			return fmt.Errorf("write patient id: %w", err)
		}

		for j, v := range record.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+2, rowIdx)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(featureSheet, cell, v); err != nil {
				return fmt.Errorf("write value: %w", err)
			}
		}

		cell, err = excelize.CoordinatesToCellName(len(record.Values)+2, rowIdx)
		if err != nil {
			return fmt.Errorf("row cell: %w", err)
		}
		if err := f.SetCellValue(featureSheet, cell, record.Label); err != nil {
			return fmt.Errorf("write label: %w", err)
		}
	}

	return f.SaveAs(path)
}
