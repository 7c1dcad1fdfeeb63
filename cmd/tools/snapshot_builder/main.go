package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yungbote/docqa-backend/internal/ingestion"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

// snapshot_builder walks a directory of .txt/.md documents, splits each into
// passage-sized chunks, and writes the JSON Lines snapshot the service loads
// at startup.
func main() {
	_ = godotenv.Load()

	var (
		inDir    = flag.String("in", "docs", "directory of .txt/.md source documents")
		outPath  = flag.String("out", "data/snapshot.jsonl", "snapshot output path")
		maxChars = flag.Int("max-chars", 1200, "maximum characters per chunk")
		minChars = flag.Int("min-chars", 200, "target minimum characters per chunk")
	)
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	records, err := buildRecords(*inDir, ingestion.ChunkOptions{MaxChars: *maxChars, MinChars: *minChars})
	if err != nil {
		log.Fatal("Snapshot build failed", "error", err)
	}
	if len(records) == 0 {
		log.Fatal("No chunks produced", "in", *inDir)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatal("Create output directory failed", "error", err)
	}
	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatal("Create snapshot failed", "error", err)
	}
	defer f.Close()

	if err := ingestion.WriteSnapshot(f, records); err != nil {
		log.Fatal("Write snapshot failed", "error", err)
	}
	log.Info("Snapshot written", "out", *outPath, "records", len(records))
}

func buildRecords(dir string, opts ingestion.ChunkOptions) ([]ingestion.Record, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	// Deterministic snapshot order regardless of filesystem order.
	sort.Strings(paths)

	var records []ingestion.Record
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		source := filepath.Base(path)
		for _, chunk := range ingestion.SplitText(string(raw), opts) {
			records = append(records, ingestion.Record{
				Text:     chunk,
				Metadata: ingestion.Metadata{Source: source},
			})
		}
	}
	return records, nil
}
