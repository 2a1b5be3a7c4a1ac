package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver registration

	"ecg-screening/ecg"
	"ecg-screening/utils"
)

// SQLiteClient persists feature extraction runs. A run fixes the schema; its
// rows hold the flattened feature values together with the rhythm label.
type SQLiteClient struct {
	db *sql.DB
}

func NewSQLiteClient(dataSourceName string) (*SQLiteClient, error) {
	// Extract the file path before query parameters
	dbPath := dataSourceName
	if idx := strings.Index(dataSourceName, "?"); idx != -1 {
		dbPath = dataSourceName[:idx]
	}

	// Create the directory if it doesn't exist (cross-platform)
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" {
		if err := utils.CreateFolder(dbDir); err != nil {
			return nil, fmt.Errorf("error creating database directory: %s", err)
		}
	}

	// Add busy timeout param to DSN (milliseconds)
	if !strings.Contains(dataSourceName, "_busy_timeout") {
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&_busy_timeout=5000" // 5 seconds
		} else {
			dataSourceName += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %s", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("error creating tables: %s", err)
	}

	return &SQLiteClient{db: db}, nil
}

func createTables(db *sql.DB) error {
	createRunsTable := `
    CREATE TABLE IF NOT EXISTS runs (
        id TEXT PRIMARY KEY,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        window_size INTEGER NOT NULL,
        overlap_size INTEGER NOT NULL,
        include_hrv INTEGER NOT NULL,
        include_frequency INTEGER NOT NULL,
        columns TEXT NOT NULL
    );
    `

	createFeaturesTable := `
    CREATE TABLE IF NOT EXISTS features (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL,
        patient_id TEXT NOT NULL,
        label TEXT NOT NULL,
        extracted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        feature_values TEXT NOT NULL,
        FOREIGN KEY (run_id) REFERENCES runs(id)
    );
    CREATE INDEX IF NOT EXISTS idx_features_run ON features(run_id);
    CREATE INDEX IF NOT EXISTS idx_features_label ON features(label);
    `

	if _, err := db.Exec(createRunsTable); err != nil {
		return fmt.Errorf("error creating runs table: %s", err)
	}
	if _, err := db.Exec(createFeaturesTable); err != nil {
		return fmt.Errorf("error creating features table: %s", err)
	}
	return nil
}

func (db *SQLiteClient) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// RunInfo describes one stored extraction run.
type RunInfo struct {
	ID        string
	CreatedAt time.Time
	Segmenter ecg.SegmenterConfig
	Features  ecg.FeatureConfig
	Columns   []string
}

// RegisterRun records the configuration of a new run and returns its ID.
func (db *SQLiteClient) RegisterRun(seg ecg.SegmenterConfig, features ecg.FeatureConfig) (string, error) {
	runID := uuid.NewString()

	columns, err := json.Marshal(ecg.Schema(features))
	if err != nil {
		return "", fmt.Errorf("error encoding schema: %s", err)
	}

	_, err = db.db.Exec(
		`INSERT INTO runs (id, window_size, overlap_size, include_hrv, include_frequency, columns)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID, seg.WindowSize, seg.OverlapSize,
		boolToInt(features.IncludeHRV), boolToInt(features.IncludeFrequencyDomain),
		string(columns),
	)
	if err != nil {
		return "", fmt.Errorf("error registering run: %s", err)
	}
	return runID, nil
}

// StoreFeatureTable writes all rows of the table under the run in one
// transaction.
func (db *SQLiteClient) StoreFeatureTable(runID string, table *ecg.FeatureTable) error {
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %s", err)
	}

	stmt, err := tx.Prepare("INSERT INTO features (run_id, patient_id, label, feature_values) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error preparing statement: %s", err)
	}
	defer stmt.Close()

	for _, row := range table.Rows {
		values, err := json.Marshal(ecg.Floats(row.Values))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("error encoding feature values: %s", err)
		}
		if _, err := stmt.Exec(runID, row.PatientID, row.Label, string(values)); err != nil {
			tx.Rollback()
			return fmt.Errorf("error executing statement: %s", err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves the stored configuration of a run.
func (db *SQLiteClient) GetRun(runID string) (RunInfo, bool, error) {
	row := db.db.QueryRow(
		`SELECT id, created_at, window_size, overlap_size, include_hrv, include_frequency, columns
         FROM runs WHERE id = ?`, runID)

	var info RunInfo
	var includeHRV, includeFreq int
	var columns string
	err := row.Scan(&info.ID, &info.CreatedAt,
		&info.Segmenter.WindowSize, &info.Segmenter.OverlapSize,
		&includeHRV, &includeFreq, &columns)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunInfo{}, false, nil
		}
		return RunInfo{}, false, fmt.Errorf("failed to retrieve run: %s", err)
	}

	info.Features.IncludeHRV = includeHRV != 0
	info.Features.IncludeFrequencyDomain = includeFreq != 0
	if err := json.Unmarshal([]byte(columns), &info.Columns); err != nil {
		return RunInfo{}, false, fmt.Errorf("failed to decode run schema: %s", err)
	}
	return info, true, nil
}

// LatestRunID returns the most recently registered run, or "" when none
// exists.
func (db *SQLiteClient) LatestRunID() (string, error) {
	var runID string
	err := db.db.QueryRow("SELECT id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1").Scan(&runID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("error fetching latest run: %s", err)
	}
	return runID, nil
}

// LoadFeatureTable reconstructs the table stored under the run.
func (db *SQLiteClient) LoadFeatureTable(runID string) (*ecg.FeatureTable, error) {
	info, found, err := db.GetRun(runID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("run %s not found", runID)
	}

	rows, err := db.db.Query(
		"SELECT patient_id, label, feature_values FROM features WHERE run_id = ?", runID)
	if err != nil {
		return nil, fmt.Errorf("error querying features: %s", err)
	}
	defer rows.Close()

	table := &ecg.FeatureTable{Columns: info.Columns}
	for rows.Next() {
		var row ecg.FeatureRow
		var values string
		if err := rows.Scan(&row.PatientID, &row.Label, &values); err != nil {
			return nil, fmt.Errorf("error scanning row: %s", err)
		}
		var decoded ecg.Floats
		if err := json.Unmarshal([]byte(values), &decoded); err != nil {
			return nil, fmt.Errorf("error decoding feature values: %s", err)
		}
		row.Values = decoded
		table.Rows = append(table.Rows, row)
	}
	return table, rows.Err()
}

// TotalRows counts stored feature rows for a run.
func (db *SQLiteClient) TotalRows(runID string) (int, error) {
	var count int
	err := db.db.QueryRow("SELECT COUNT(*) FROM features WHERE run_id = ?", runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting feature rows: %s", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
