package models

import "time"

// RowIssue records one problem found while processing a spreadsheet row.
// Row is the 1-based position of the data row in the source file.
type RowIssue struct {
	Row      int      `json:"row"`
	Messages []string `json:"messages"`
	Label    string   `json:"label"`
}

// ImportJob is the in-memory state of the single active import. It is owned
// by the import engine; handlers only ever see ImportProgress snapshots.
type ImportJob struct {
	ImportID      string
	TotalRows     int
	ProcessedRows int
	SuccessCount  int
	FailureCount  int

	StartedAt                 time.Time
	EstimatedRemainingSeconds float64
	Finished                  bool

	Errors   []RowIssue
	Warnings []RowIssue
}

// ImportProgress is a point-in-time copy of the active (or last finished)
// import job, safe to serialize while the loop keeps running.
type ImportProgress struct {
	ImportID string `json:"import_id"`
	Active   bool   `json:"active"`

	TotalRows     int `json:"total_rows"`
	ProcessedRows int `json:"processed_rows"`
	SuccessCount  int `json:"success_count"`
	FailureCount  int `json:"failure_count"`

	StartedAt                 time.Time `json:"started_at"`
	EstimatedRemainingSeconds float64   `json:"estimated_remaining_seconds"`
	Finished                  bool      `json:"finished"`

	HasErrors    bool       `json:"has_errors"`
	ErrorCount   int        `json:"error_count"`
	HasWarnings  bool       `json:"has_warnings"`
	WarningCount int        `json:"warning_count"`
	Errors       []RowIssue `json:"errors"`
	Warnings     []RowIssue `json:"warnings"`
}
