package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/timechunk/internal/store"
)

// DefaultCSVName is the file name offered for a CSV export.
const DefaultCSVName = "time_logs.csv"

var csvHeader = []string{"ID", "Timestamp", "Duration (min)", "Duration", "Category ID", "Category", "Note", "Mode"}

func WriteCSV(out io.Writer, records []store.TimeBlockRecord) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.ID,
			r.Timestamp.Local().Format(time.RFC3339),
			strconv.Itoa(r.Duration),
			formatMinutes(r.Duration),
			r.CategoryID,
			r.CategoryLabel,
			r.Note,
			r.Mode,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func ToCSV(records []store.TimeBlockRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, records); err != nil {
		return err
	}
	return f.Close()
}

// formatMinutes renders a duration as H:MM.
func formatMinutes(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
