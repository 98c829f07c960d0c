package files

import (
	"os"
	"strings"
	"time"
)

// CSVTimestampLayout formats the report file's modification time when no
// extraction marker is available
const CSVTimestampLayout = "02/01/2006 15:04"

// ReadExtractionMarker returns the trimmed contents of the extraction marker
// file written by the download script. A missing or unreadable marker
// yields "".
func ReadExtractionMarker(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ExtractionTimestamp describes how fresh the report data is: the marker
// contents when present, otherwise the report's modification time in local
// time, otherwise "".
func ExtractionTimestamp(markerPath, csvPath string) string {
	if ts := ReadExtractionMarker(markerPath); ts != "" {
		return ts
	}
	if csvPath == "" {
		return ""
	}
	info, err := os.Stat(csvPath)
	if err != nil {
		return ""
	}
	return info.ModTime().In(time.Local).Format(CSVTimestampLayout)
}
