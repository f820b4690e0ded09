package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

type testEnv struct {
	dir    string
	config string
	db     string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	old := now
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = old })

	dir := t.TempDir()
	return testEnv{
		dir:    dir,
		config: filepath.Join(dir, "config.yaml"),
		db:     filepath.Join(dir, "timechunk.db"),
	}
}

func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := e.runWithStderr(t, args...)
	return out, err
}

func (e testEnv) runWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.config, "--db", e.db}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func (e testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

// ============================================================
// Command tree
// ============================================================

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	want := map[string]bool{"today": false, "export": false, "reset": false, "log": false}
	for _, c := range cmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestMalformedConfig(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile(env.config, []byte("db_path: [oops\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "today"); err == nil {
		t.Fatal("expected config parse error")
	}
}

func TestCorruptDatabaseStartsEmpty(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile(env.db, []byte(strings.Repeat("garbage ", 1024)), 0o644); err != nil {
		t.Fatal(err)
	}

	out, stderr, err := env.runWithStderr(t, "today")
	if err != nil {
		t.Fatalf("corrupt database must not be fatal: %v", err)
	}
	if !strings.Contains(out, "No logs today") {
		t.Fatalf("expected an empty log:\n%s", out)
	}
	if !strings.Contains(stderr, "warning:") {
		t.Fatalf("expected a warning on stderr, got %q", stderr)
	}

	env.mustRun(t, "log", "--start", "09:00", "--end", "09:30", "-c", "coding")
	out, stderr, err = env.runWithStderr(t, "today")
	if err != nil || stderr != "" {
		t.Fatalf("recreated database should open cleanly: %v %q", err, stderr)
	}
	if !strings.Contains(out, "30m logged") {
		t.Fatalf("log should persist in the recreated database:\n%s", out)
	}
}

// ============================================================
// log + today
// ============================================================

func TestTodayEmpty(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "today")
	if !strings.Contains(out, "0m logged") || !strings.Contains(out, "No logs today") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "33% complete") {
		t.Fatalf("12:00 in a 9-18 day should be 33%%:\n%s", out)
	}
}

func TestLogAndToday(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "log", "--start", "09:00", "--end", "09:45", "--category", "meeting", "--note", "standup")
	if !strings.Contains(out, "Logged 45m · Meetings") {
		t.Fatalf("unexpected log output: %q", out)
	}
	env.mustRun(t, "log", "--start", "10:00", "--end", "10:20", "--custom", "Garden")

	out = env.mustRun(t, "today")
	if !strings.Contains(out, "1h 05m logged") {
		t.Fatalf("expected 65 minutes total:\n%s", out)
	}
	if !strings.Contains(out, "Meetings") || !strings.Contains(out, "Garden") {
		t.Fatalf("breakdown missing categories:\n%s", out)
	}
	if !strings.Contains(out, "69%") {
		t.Fatalf("meetings share should be 69%%:\n%s", out)
	}
	if !strings.Contains(out, "Last log") {
		t.Fatalf("expected last log line:\n%s", out)
	}
}

func TestLogAcrossMidnight(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "log", "--start", "23:50", "--end", "00:10", "-c", "coding")
	if !strings.Contains(out, "Logged 20m") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestLogErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"equal times", []string{"log", "--start", "09:00", "--end", "09:00", "-c", "coding"}},
		{"bad clock", []string{"log", "--start", "9", "--end", "10:00", "-c", "coding"}},
		{"unknown category", []string{"log", "--start", "09:00", "--end", "10:00", "-c", "gardening"}},
		{"blank custom", []string{"log", "--start", "09:00", "--end", "10:00", "--custom", "   "}},
		{"missing end", []string{"log", "--start", "09:00", "-c", "coding"}},
		{"both category kinds", []string{"log", "--start", "09:00", "--end", "10:00", "-c", "coding", "--custom", "x"}},
	}
	for _, tt := range tests {
		env := newTestEnv(t)
		if _, err := env.run(t, tt.args...); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
		out := env.mustRun(t, "today")
		if !strings.Contains(out, "No logs today") {
			t.Errorf("%s: nothing should be logged:\n%s", tt.name, out)
		}
	}
}

// ============================================================
// export
// ============================================================

func TestExportJSONStdout(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "log", "--start", "09:00", "--end", "09:30", "-c", "coding")
	env.mustRun(t, "log", "--start", "09:30", "--end", "10:00", "-c", "study")

	out := env.mustRun(t, "export", "--out", "-")
	var records []map[string]any
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["categoryId"] != "study" {
		t.Fatalf("most recent first expected, got %v", records[0]["categoryId"])
	}
	if records[0]["timestamp"] != float64(fixedNow.UnixMilli()) {
		t.Fatalf("timestamp = %v", records[0]["timestamp"])
	}
}

func TestExportCSVFile(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "log", "--start", "09:00", "--end", "09:30", "-c", "coding")

	path := filepath.Join(env.dir, "out.csv")
	out := env.mustRun(t, "export", "-f", "csv", "-o", path)
	if !strings.Contains(out, "Exported 1 records") {
		t.Fatalf("unexpected output: %q", out)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][2] != "30" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestExportBadFormat(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "export", "-f", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

// ============================================================
// reset
// ============================================================

func TestResetYes(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "log", "--start", "09:00", "--end", "09:30", "-c", "coding")

	out := env.mustRun(t, "reset", "--yes")
	if !strings.Contains(out, "Deleted 1 logs") {
		t.Fatalf("unexpected output: %q", out)
	}
	if out := env.mustRun(t, "today"); !strings.Contains(out, "No logs today") {
		t.Fatalf("logs should be gone:\n%s", out)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{59, "59m"},
		{60, "1h 00m"},
		{125, "2h 05m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.in); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
