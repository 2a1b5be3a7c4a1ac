package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	cfg "ecg-screening/config"
	"ecg-screening/db"
	"ecg-screening/ecg"
	"ecg-screening/export"
	"ecg-screening/loader"
	"ecg-screening/utils"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Expected 'extract' or 'export' subcommand")
		os.Exit(1)
	}
	_ = godotenv.Load()

	switch os.Args[1] {
	case "extract":
		extractCmd := flag.NewFlagSet("extract", flag.ExitOnError)
		configPath := extractCmd.String("config", "", "Path to YAML config (default config/config.yaml)")
		dataPath := extractCmd.String("data", "", "Path to JSONL recordings (overrides config)")
		extractCmd.Parse(os.Args[2:])
		if err := runExtract(*configPath, *dataPath); err != nil {
			utils.LogError(context.Background(), "extraction run failed", err)
			os.Exit(1)
		}
	case "export":
		exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
		dbPath := exportCmd.String("db", "db/features.db", "Path to feature database")
		runID := exportCmd.String("run", "", "Run ID to export (default latest)")
		outDir := exportCmd.String("out", "out", "Output directory")
		exportCmd.Parse(os.Args[2:])
		if err := runExport(*dbPath, *runID, *outDir); err != nil {
			utils.LogError(context.Background(), "export failed", err)
			os.Exit(1)
		}
	default:
		fmt.Println("Expected 'extract' or 'export' subcommand")
		os.Exit(1)
	}
}

func runExtract(configPath, dataPath string) error {
	ctx := context.Background()
	logger := utils.GetLogger()

	conf, err := cfg.Load(configPath)
	if err != nil {
		return err
	}
	if dataPath == "" {
		dataPath = conf.Paths.Data
	}

	recordings, err := loader.LoadDataset(dataPath)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded",
		slog.String("path", dataPath),
		slog.Int("recordings", len(recordings)),
	)

	sink, err := ecg.NewDumpSink(conf.Paths.Diagnostics)
	if err != nil {
		return err
	}

	pipelineCfg := conf.ToPipeline()
	pipeline, err := ecg.NewPipeline(pipelineCfg, sink)
	if err != nil {
		return err
	}

	table, stats, err := pipeline.Run(ctx, recordings)
	if err != nil {
		return err
	}

	client, err := db.NewSQLiteClient(conf.Paths.Database)
	if err != nil {
		return err
	}
	defer client.Close()

	runID, err := client.RegisterRun(pipelineCfg.Segmenter, pipelineCfg.Features)
	if err != nil {
		return err
	}
	if err := client.StoreFeatureTable(runID, table); err != nil {
		return err
	}

	if err := utils.CreateFolder(conf.Paths.Output); err != nil {
		return err
	}
	csvPath := filepath.Join(conf.Paths.Output, "features.csv")
	if err := export.WriteCSV(csvPath, table); err != nil {
		return err
	}
	xlsxPath := filepath.Join(conf.Paths.Output, "features.xlsx")
	if err := export.WriteXLSX(xlsxPath, table); err != nil {
		return err
	}

	logger.Info("run stored",
		slog.String("runID", runID),
		slog.Int("rows", stats.Extracted),
		slog.Int("skipped", stats.Skipped),
		slog.String("csv", csvPath),
		slog.String("xlsx", xlsxPath),
	)
	return nil
}

func runExport(dbPath, runID, outDir string) error {
	client, err := db.NewSQLiteClient(dbPath)
	if err != nil {
		return err
	}
	defer client.Close()

	if runID == "" {
		runID, err = client.LatestRunID()
		if err != nil {
			return err
		}
		if runID == "" {
			return fmt.Errorf("no runs stored in %s", dbPath)
		}
	}

	table, err := client.LoadFeatureTable(runID)
	if err != nil {
		return err
	}

	if err := utils.CreateFolder(outDir); err != nil {
		return err
	}
	csvPath := filepath.Join(outDir, fmt.Sprintf("features_%s.csv", runID))
	if err := export.WriteCSV(csvPath, table); err != nil {
		return err
	}
	xlsxPath := filepath.Join(outDir, fmt.Sprintf("features_%s.xlsx", runID))
	if err := export.WriteXLSX(xlsxPath, table); err != nil {
		return err
	}

	utils.GetLogger().Info("run exported",
		slog.String("runID", runID),
		slog.Int("rows", len(table.Rows)),
		slog.String("csv", csvPath),
		slog.String("xlsx", xlsxPath),
	)
	return nil
}
