package tradelog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrNotFound matches (via errors.Is) a LoadError for a missing log file.
var ErrNotFound = errors.New("trade log not found")

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
)

// LoadError is returned by Load. Path is always the path that was attempted.
type LoadError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Kind == KindNotFound {
		return fmt.Sprintf("trade log not found: %s", e.Path)
	}
	return fmt.Sprintf("reading trade log %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	if e.Kind == KindNotFound {
		return ErrNotFound
	}
	return e.Err
}

// LoadResult holds every decodable line of the log in file order.
type LoadResult struct {
	Records []TradeRecord
	Lines   int // non-blank lines seen
	Skipped int // lines that were not valid JSON objects
}

// Load reads the log at path in one shot and decodes each non-blank line
// independently. Lines that fail to decode are skipped, never fatal.
func Load(ctx context.Context, path string) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Kind: KindInternal, Path: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Kind: KindNotFound, Path: path, Err: err}
		}
		return nil, &LoadError{Kind: KindInternal, Path: path, Err: err}
	}

	return Parse(data), nil
}

// Parse decodes NDJSON content.
func Parse(data []byte) *LoadResult {
	res := &LoadResult{}
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		res.Lines++

		// Only JSON objects can be trade records; scalars and arrays are skipped.
		if line[0] != '{' {
			res.Skipped++
			continue
		}
		var rec TradeRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			res.Skipped++
			continue
		}
		rec.Raw = append(json.RawMessage(nil), line...)
		res.Records = append(res.Records, rec)
	}
	return res
}

// Executed keeps records with type "trade" and order_status "executed", preserving order.
func Executed(records []TradeRecord) []TradeRecord {
	out := make([]TradeRecord, 0, len(records))
	for _, r := range records {
		if r.IsExecutedTrade() {
			out = append(out, r)
		}
	}
	return out
}
