// Package store persists uploaded term PDFs in a flat directory and
// keeps the registro.json metadata log alongside them.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"musaetermo/pkg/types"
)

// LogFileName is the shared metadata log kept in the storage
// directory next to the PDFs it describes.
const LogFileName = "registro.json"

var (
	// ErrNotFound is returned when a requested PDF does not exist or
	// fails the download safety checks.
	ErrNotFound = errors.New("arquivo não encontrado")
)

// Archive is the on-disk document store: one directory of .pdf files
// plus the metadata log. File writes for distinct names are
// independent; log appends are serialized through logMu so concurrent
// submissions cannot lose entries to the read-modify-rewrite cycle.
type Archive struct {
	dir   string
	logMu sync.Mutex
}

// New opens the archive rooted at dir, creating the directory if it
// does not exist yet.
func New(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Archive{dir: dir}, nil
}

// Dir returns the storage directory path.
func (a *Archive) Dir() string {
	return a.dir
}

// SanitizeFileName replaces every character outside the safe set
// [A-Za-z0-9._-] with an underscore, character by character. This is
// the only traversal protection on the write path; it deliberately
// does not deduplicate, so different unsafe names can collapse to the
// same file and overwrite.
func SanitizeFileName(name string) string {
	out := []byte(name)
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// Save writes the PDF under the sanitized filename, full-overwrite
// semantics, then appends one entry to the metadata log. It returns
// the name the file was stored under.
func (a *Archive) Save(pdf []byte, fileName string, record types.SignatureRecord) (string, error) {
	safeName := SanitizeFileName(fileName)

	path := filepath.Join(a.dir, safeName)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("write pdf %s: %w", safeName, err)
	}

	entry := types.LogEntry{
		Arquivo:   safeName,
		Assinante: record.UserName,
		Data:      record.SignatureDate,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if entry.Assinante == "" {
		entry.Assinante = "N/A"
	}
	if entry.Data == "" {
		entry.Data = entry.Timestamp
	}

	if err := a.appendRecord(entry); err != nil {
		return "", err
	}
	return safeName, nil
}

// appendRecord serializes the whole read-append-rewrite cycle and
// lands the new log through a temp file and rename, so a crash
// mid-write never truncates the existing log.
func (a *Archive) appendRecord(entry types.LogEntry) error {
	a.logMu.Lock()
	defer a.logMu.Unlock()

	records, err := a.readRecords()
	if err != nil {
		return err
	}
	records = append(records, entry)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode log: %w", err)
	}

	logPath := filepath.Join(a.dir, LogFileName)
	tmp := logPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	if err := os.Rename(tmp, logPath); err != nil {
		return fmt.Errorf("replace log: %w", err)
	}
	return nil
}

// Records returns the metadata log, treating a missing log file as an
// empty one.
func (a *Archive) Records() ([]types.LogEntry, error) {
	a.logMu.Lock()
	defer a.logMu.Unlock()
	return a.readRecords()
}

func (a *Archive) readRecords() ([]types.LogEntry, error) {
	data, err := os.ReadFile(filepath.Join(a.dir, LogFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return []types.LogEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	var records []types.LogEntry
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode log: %w", err)
	}
	return records, nil
}

// List stats every .pdf in the storage directory, newest first by
// modification time. The result is uncorrelated with the metadata
// log; the two may diverge and the caller must tolerate that.
func (a *Archive) List() ([]types.FileInfo, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("read storage dir: %w", err)
	}

	files := make([]types.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		files = append(files, types.FileInfo{
			Nome:    entry.Name(),
			Tamanho: info.Size(),
			Data:    info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Data.After(files[j].Data)
	})
	return files, nil
}

// Resolve maps a requested download name to a path inside the storage
// directory. Parent-traversal sequences are stripped from the name
// before resolution; anything without the .pdf extension, escaping
// the directory, or simply absent resolves to ErrNotFound.
func (a *Archive) Resolve(fileName string) (string, error) {
	name := strings.ReplaceAll(fileName, "..", "")
	name = filepath.Base(name)

	if !strings.HasSuffix(name, ".pdf") {
		return "", ErrNotFound
	}

	path := filepath.Join(a.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}
