package models

import "time"

const (
	ConversionStatusCompleted = "completed"
	ConversionStatusFailed    = "failed"
)

// ConversionRecord is one entry of the conversion history
type ConversionRecord struct {
	ID           string        `json:"id" badgerhold:"key"` // conv_{uuid}
	SourceName   string        `json:"source_name"`
	OutputPath   string        `json:"output_path,omitempty"`
	PageCount    int           `json:"page_count"`
	SlideCount   int           `json:"slide_count"`
	SkippedPages []int         `json:"skipped_pages,omitempty"` // 0-based indices of pages that failed to render
	ArchiveSize  int64         `json:"archive_size"`
	Status       string        `json:"status" badgerholdIndex:"Status"`
	Error        string        `json:"error,omitempty"`
	ErrorKind    string        `json:"error_kind,omitempty"`
	Duration     time.Duration `json:"duration"`
	CreatedAt    time.Time     `json:"created_at"`
}
