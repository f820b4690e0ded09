package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/timechunk/internal/store"
)

func sampleData() []store.TimeBlockRecord {
	at := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	return []store.TimeBlockRecord{
		{
			ID:            "b",
			Timestamp:     at,
			Duration:      45,
			CategoryID:    "coding",
			CategoryLabel: "Coding",
			Note:          "worked on feature",
			Mode:          "focus",
		},
		{
			ID:            "a",
			Timestamp:     at.Add(-time.Hour),
			Duration:      90,
			CategoryID:    "custom-1773138600000",
			CategoryLabel: "Side project",
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultCSVName)

	if err := ToCSV(sampleData(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 data rows
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}

	header := records[0]
	for i, h := range csvHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	row := records[1]
	if row[0] != "b" {
		t.Fatalf("ID = %q, want b", row[0])
	}
	if row[2] != "45" || row[3] != "0:45" {
		t.Fatalf("duration = %q / %q", row[2], row[3])
	}
	if row[5] != "Coding" || row[6] != "worked on feature" || row[7] != "focus" {
		t.Fatalf("unexpected row: %v", row)
	}
	if _, err := time.Parse(time.RFC3339, row[1]); err != nil {
		t.Fatalf("timestamp is not RFC3339: %q", row[1])
	}
	if records[2][3] != "1:30" {
		t.Fatalf("second duration = %q, want 1:30", records[2][3])
	}
}

func TestToCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	records, _ := csv.NewReader(&buf).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	records := []store.TimeBlockRecord{{
		ID:            "1",
		Timestamp:     time.Now(),
		Duration:      1,
		CategoryLabel: `Project "Special"`,
		Note:          `notes with "quotes" and, commas`,
	}}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if rows[1][5] != `Project "Special"` {
		t.Fatalf("label mangled: %q", rows[1][5])
	}
	if rows[1][6] != `notes with "quotes" and, commas` {
		t.Fatalf("note mangled: %q", rows[1][6])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultJSONName)

	if err := ToJSON(sampleData(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result []map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("records = %d, want 2", len(result))
	}

	first := result[0]
	if first["id"] != "b" || first["categoryId"] != "coding" || first["categoryLabel"] != "Coding" {
		t.Fatalf("unexpected first record: %v", first)
	}
	if first["duration"] != float64(45) {
		t.Fatalf("duration = %v, want 45", first["duration"])
	}
	want := float64(sampleData()[0].Timestamp.UnixMilli())
	if first["timestamp"] != want {
		t.Fatalf("timestamp = %v, want %v", first["timestamp"], want)
	}
	if first["note"] != "worked on feature" || first["mode"] != "focus" {
		t.Fatalf("note/mode = %v / %v", first["note"], first["mode"])
	}

	second := result[1]
	if _, ok := second["mode"]; ok {
		t.Fatal("empty mode should be omitted")
	}
	if note, ok := second["note"]; !ok || note != "" {
		t.Fatal("note should always be present")
	}
}

func TestToJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("empty export should be an empty array, got %q", buf.String())
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	var buf bytes.Buffer
	WriteJSON(&buf, sampleData())

	if !strings.Contains(buf.String(), "\n  {") {
		t.Fatal("JSON should be indented with two spaces")
	}
}

// ============================================================
// formatMinutes (internal helper)
// ============================================================

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{1, "0:01"},
		{45, "0:45"},
		{60, "1:00"},
		{90, "1:30"},
		{1439, "23:59"},
		{1500, "25:00"},
	}

	for _, tt := range tests {
		if got := formatMinutes(tt.minutes); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
