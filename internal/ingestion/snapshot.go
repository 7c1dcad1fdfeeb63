// Package ingestion defines the snapshot format the offline ETL produces and
// the request-time service consumes at startup. A snapshot is JSON Lines, one
// record per chunk, in corpus order. No vector data is persisted; embeddings
// are recomputed from text when the index is built.
package ingestion

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

type Metadata struct {
	Source string `json:"source"`
}

type Record struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

func LoadSnapshot(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	records, err := ReadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return records, nil
}

func ReadSnapshot(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("line %d: decode record: %w", line, err)
		}
		if strings.TrimSpace(rec.Text) == "" {
			return nil, fmt.Errorf("line %d: record has empty text", line)
		}
		if strings.TrimSpace(rec.Metadata.Source) == "" {
			return nil, fmt.Errorf("line %d: record has empty metadata.source", line)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	return records, nil
}

func WriteSnapshot(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	for i, rec := range records {
		if strings.TrimSpace(rec.Text) == "" {
			return fmt.Errorf("record %d: empty text", i)
		}
		if strings.TrimSpace(rec.Metadata.Source) == "" {
			return fmt.Errorf("record %d: empty metadata.source", i)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("record %d: encode: %w", i, err)
		}
	}
	return nil
}
