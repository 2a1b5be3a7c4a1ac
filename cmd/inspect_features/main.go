package main

// Prints per-column scale statistics for a stored feature run. Useful for
// spotting columns that are constant, mostly missing, or wildly out of
// scale before handing the table to a classifier.

import (
	"flag"
	"fmt"
	"log"
	"math"

	"ecg-screening/db"
	"ecg-screening/ecg"
)

func main() {
	dbPath := flag.String("db", "db/features.db", "Path to feature database")
	runID := flag.String("run", "", "Run ID to inspect (default latest)")
	flag.Parse()

	client, err := db.NewSQLiteClient(*dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer client.Close()

	id := *runID
	if id == "" {
		id, err = client.LatestRunID()
		if err != nil {
			log.Fatalf("fetch latest run: %v", err)
		}
		if id == "" {
			log.Fatalf("no runs stored in %s", *dbPath)
		}
	}

	table, err := client.LoadFeatureTable(id)
	if err != nil {
		log.Fatalf("load run %s: %v", id, err)
	}

	fmt.Printf("Run %s: %d rows, %d feature columns\n\n", id, len(table.Rows), len(table.Columns))
	fmt.Printf("%-20s %12s %12s %12s %12s %8s\n", "column", "min", "max", "mean", "std", "missing")

	for col, name := range table.Columns {
		stats := columnStats(table, col)
		fmt.Printf("%-20s %12.4f %12.4f %12.4f %12.4f %7d\n",
			name, stats.min, stats.max, stats.mean, stats.std, stats.missing)
	}

	byLabel := make(map[string]int)
	for _, row := range table.Rows {
		byLabel[row.Label]++
	}
	fmt.Printf("\nRows per label: %v\n", byLabel)
}

type colStats struct {
	min, max, mean, std float64
	missing             int
}

func columnStats(table *ecg.FeatureTable, col int) colStats {
	stats := colStats{min: math.Inf(1), max: math.Inf(-1)}

	var values []float64
	for _, row := range table.Rows {
		v := row.Values[col]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			stats.missing++
			continue
		}
		values = append(values, v)
		if v < stats.min {
			stats.min = v
		}
		if v > stats.max {
			stats.max = v
		}
	}
	if len(values) == 0 {
		return colStats{min: math.NaN(), max: math.NaN(), mean: math.NaN(), std: math.NaN(), missing: stats.missing}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	stats.mean = sum / float64(len(values))

	var variance float64
	for _, v := range values {
		diff := v - stats.mean
		variance += diff * diff
	}
	stats.std = math.Sqrt(variance / float64(len(values)))

	return stats
}
