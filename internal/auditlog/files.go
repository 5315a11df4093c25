package auditlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogFile is an audit log file found in a log directory.
type LogFile struct {
	Path    string
	Host    string
	Run     string
	ModTime time.Time
}

// ParseFileName splits "{host}_{YYYYMMDD_HHMMSS}.json" into host and run
// token. Host names may themselves contain underscores.
func ParseFileName(name string) (host, token string, ok bool) {
	base, found := strings.CutSuffix(name, ".json")
	if !found || len(base) < len(RunTokenLayout)+2 {
		return "", "", false
	}
	split := len(base) - len(RunTokenLayout)
	if base[split-1] != '_' {
		return "", "", false
	}
	token = base[split:]
	if _, err := time.Parse(RunTokenLayout, token); err != nil {
		return "", "", false
	}
	return base[:split-1], token, true
}

// ListFiles returns the audit log files in dir, newest first. A missing
// directory yields no files.
func ListFiles(dir string) ([]LogFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("auditlog: failed to read %s: %w", dir, err)
	}

	var files []LogFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		host, token, ok := ParseFileName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("auditlog: failed to stat %s: %w", entry.Name(), err)
		}
		files = append(files, LogFile{
			Path:    filepath.Join(dir, entry.Name()),
			Host:    host,
			Run:     token,
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Run != files[j].Run {
			return files[i].Run > files[j].Run
		}
		return files[i].Host < files[j].Host
	})
	return files, nil
}

// ReadRecords decodes every record in an audit log file, in write order.
// Records are not bounded in size and numbers are kept as json.Number.
func ReadRecords(path string) ([]AuditRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("auditlog: failed to open %s: %w", path, err)
	}
	defer f.Close()

	var records []AuditRecord
	dec := json.NewDecoder(bufio.NewReader(f))
	dec.UseNumber()
	for {
		var rec AuditRecord
		offset := dec.InputOffset()
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("auditlog: %s at offset %d: %w", path, offset, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Prune deletes audit log files in dir last modified before now-olderThan
// and returns how many were removed.
func Prune(dir string, olderThan time.Duration, now time.Time) (int, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-olderThan)
	removed := 0
	for _, file := range files {
		if !file.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(file.Path); err != nil {
			return removed, fmt.Errorf("auditlog: failed to remove %s: %w", file.Path, err)
		}
		removed++
	}
	return removed, nil
}
