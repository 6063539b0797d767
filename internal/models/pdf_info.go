package models

// PDFInfo describes the structure of a PDF without rendering it
type PDFInfo struct {
	Version   string       `json:"version"`
	PageCount int          `json:"page_count"`
	Pages     []PageBounds `json:"pages"`
	Encrypted bool         `json:"encrypted"`
	FileSize  int64        `json:"file_size"`
}
