package auditlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseFileName(t *testing.T) {
	tests := []struct {
		name      string
		wantHost  string
		wantToken string
		wantOK    bool
	}{
		{"web01_20240309_140000.json", "web01", "20240309_140000", true},
		{"db_primary_20240309_140000.json", "db_primary", "20240309_140000", true},
		{"web01_20240309_140000.log", "", "", false},
		{"web01-20240309_140000.json", "", "", false},
		{"web01_2024030_1400000.json", "", "", false},
		{"_20240309_140000.json", "", "", false},
		{"notes.json", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, token, ok := ParseFileName(tt.name)
			if ok != tt.wantOK || host != tt.wantHost || token != tt.wantToken {
				t.Errorf("ParseFileName(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.name, host, token, ok, tt.wantHost, tt.wantToken, tt.wantOK)
			}
		})
	}
}

func TestListFiles_MissingDirectory(t *testing.T) {
	files, err := ListFiles(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %d", len(files))
	}
}

func TestListFiles_SortsNewestRunFirst(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"web01_20240101_000000.json",
		"web01_20240202_000000.json",
		"db01_20240202_000000.json",
		"README.md",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("\n"), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	files, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}

	var got []string
	for _, f := range files {
		got = append(got, f.Host+"@"+f.Run)
	}
	want := []string{"db01@20240202_000000", "web01@20240202_000000", "web01@20240101_000000"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRecords_RoundTripsSink(t *testing.T) {
	dir := t.TempDir()
	sink := NewLocalSink(dir, testRun(), nil)
	want := []AuditRecord{testRecord("web01"), testRecord("web01")}
	want[1].Status = StatusFailed

	var path string
	for _, rec := range want {
		var err error
		if path, err = sink.Append(rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Status != StatusOK || got[1].Status != StatusFailed {
		t.Errorf("expected write order to be preserved, got %q then %q", got[0].Status, got[1].Status)
	}
	if got[0].OutputBefore != nil || got[0].OutputAfter != "running" {
		t.Errorf("unexpected outputs: before=%#v after=%#v", got[0].OutputBefore, got[0].OutputAfter)
	}
}

func TestReadRecords_LargeRecord(t *testing.T) {
	sink := NewLocalSink(t.TempDir(), testRun(), nil)
	rec := testRecord("web01")
	rec.OutputAfter = strings.Repeat("x", 20*1024*1024)

	path, err := sink.Append(rec)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, err := sink.Append(testRecord("web01")); err != nil {
		t.Fatalf("second Append failed: %v", err)
	}

	got, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if after, _ := got[0].OutputAfter.(string); len(after) != 20*1024*1024 {
		t.Errorf("expected 20 MiB output_after, got %d bytes", len(after))
	}
}

func TestReadRecords_KeepsNumbersExact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web01_20240309_140000.json")
	line := `{"host":{"name":"web01"},"task":{"args":{"uid":9007199254740993}},"output_after":12345678901234567891}` + "\n"
	if err := os.WriteFile(path, []byte(line), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	got, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if diff := cmp.Diff(json.Number("9007199254740993"), got[0].Task.Args["uid"]); diff != "" {
		t.Errorf("uid mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(json.Number("12345678901234567891"), got[0].OutputAfter); diff != "" {
		t.Errorf("output_after mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRecords_InvalidLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web01_20240309_140000.json")
	if err := os.WriteFile(path, []byte("{\"host\":{\"name\":\"web01\"}}\nnot json\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := ReadRecords(path); err == nil {
		t.Fatal("expected error for invalid line")
	}
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	oldPath := filepath.Join(dir, "web01_20240101_000000.json")
	recentPath := filepath.Join(dir, "web01_20240202_000000.json")
	otherPath := filepath.Join(dir, "keep.txt")
	for _, p := range []string{oldPath, recentPath, otherPath} {
		if err := os.WriteFile(p, []byte("\n"), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}
	old := now.Add(-48 * time.Hour)
	for _, p := range []string{oldPath, otherPath} {
		if err := os.Chtimes(p, old, old); err != nil {
			t.Fatalf("Chtimes failed: %v", err)
		}
	}

	removed, err := Prune(dir, 24*time.Hour, now)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("expected old log file to be removed")
	}
	for _, p := range []string{recentPath, otherPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to remain: %v", p, err)
		}
	}
}
