package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sadopc/timechunk/internal/store"
)

// DefaultJSONName is the file name offered for a JSON export.
const DefaultJSONName = "time_logs.json"

type jsonRecord struct {
	ID            string `json:"id"`
	Timestamp     int64  `json:"timestamp"` // epoch millis
	Duration      int    `json:"duration"`  // minutes
	CategoryID    string `json:"categoryId"`
	CategoryLabel string `json:"categoryLabel"`
	Note          string `json:"note"`
	Mode          string `json:"mode,omitempty"`
}

// WriteJSON writes records as an indented JSON array, in the order given.
func WriteJSON(w io.Writer, records []store.TimeBlockRecord) error {
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		out = append(out, jsonRecord{
			ID:            r.ID,
			Timestamp:     r.Timestamp.UnixMilli(),
			Duration:      r.Duration,
			CategoryID:    r.CategoryID,
			CategoryLabel: r.CategoryLabel,
			Note:          r.Note,
			Mode:          r.Mode,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func ToJSON(records []store.TimeBlockRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, records); err != nil {
		return err
	}
	return f.Close()
}
