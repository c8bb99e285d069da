package tradelog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Writer appends records to a single NDJSON file.
type Writer struct {
	path string
	mu   sync.Mutex
	file *os.File
}

func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening trade log: %w", err)
	}
	return &Writer{path: path, file: f}, nil
}

// Write appends rec. Records read from a log are written back exactly as read.
func (w *Writer) Write(rec TradeRecord) error {
	data, err := encodeLine(rec)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return fmt.Errorf("writer closed")
	}
	_, err = w.file.Write(data)
	return err
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// Rewrite replaces the file at path with records. The previous content is
// kept at path+".bak" and the new file is swapped in with a rename. A stale
// path+".tmp" left by an earlier crash is truncated, never appended to.
func Rewrite(path string, records []TradeRecord) error {
	if err := copyFile(path, path+".bak"); err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	bw := bufio.NewWriter(f)
	for _, rec := range records {
		data, err := encodeLine(rec)
		if err == nil {
			_, err = bw.Write(data)
		}
		if err != nil {
			f.Close()
			os.Remove(tmpPath)
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}

func encodeLine(rec TradeRecord) ([]byte, error) {
	if len(rec.Raw) > 0 {
		line := make([]byte, 0, len(rec.Raw)+1)
		return append(append(line, rec.Raw...), '\n'), nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling record: %w", err)
	}
	return append(data, '\n'), nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
