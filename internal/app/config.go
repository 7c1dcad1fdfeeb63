package app

import (
	"github.com/yungbote/docqa-backend/internal/platform/envutil"
)

type Config struct {
	Port         string
	SnapshotPath string

	VectorProvider string

	TopK             int
	MaxDistance      float64
	MinQuestionChars int
}

func LoadConfig() Config {
	return Config{
		Port:           envutil.String("PORT", "8080"),
		SnapshotPath:   envutil.String("SNAPSHOT_PATH", "data/snapshot.jsonl"),
		VectorProvider: envutil.String("VECTOR_PROVIDER", "memory"),

		TopK:             envutil.Int("RAG_TOP_K", 3),
		MaxDistance:      envutil.Float("RAG_MAX_DISTANCE", 0.55),
		MinQuestionChars: envutil.Int("RAG_MIN_QUESTION_CHARS", 8),
	}
}
