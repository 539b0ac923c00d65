package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/srprime/attendance/internal/model"
)

// WriteCSV writes the header and every recorded row to w.
func WriteCSV(w io.Writer, data model.AttendanceData) error {
	rows := Rows(data)
	if rows == nil {
		rows = []Row{}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("marshal csv: %w", err)
	}
	return nil
}

// ExportCSV writes the CSV report into dir and returns its path.
func ExportCSV(dir string, data model.AttendanceData, now time.Time) (string, error) {
	path := filepath.Join(dir, CSVFilename(now))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, data); err != nil {
		return "", err
	}
	return path, f.Close()
}
