package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/docqa-backend/internal/observability"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/platform/qdrant"
	"github.com/yungbote/docqa-backend/internal/platform/vectorstore"
)

var newQdrantVectorStore = qdrant.NewVectorStore

const (
	VectorProviderMemory = "memory"
	VectorProviderQdrant = "qdrant"
)

type VectorProviderBootstrapErrorCode string

const (
	VectorProviderBootstrapErrorInvalidProvider    VectorProviderBootstrapErrorCode = "invalid_provider"
	VectorProviderBootstrapErrorQdrantConfigFailed VectorProviderBootstrapErrorCode = "qdrant_config_failed"
	VectorProviderBootstrapErrorProviderInitFailed VectorProviderBootstrapErrorCode = "provider_init_failed"
)

type VectorProviderBootstrapError struct {
	Code     VectorProviderBootstrapErrorCode
	Provider string
	Cause    error
}

func (e *VectorProviderBootstrapError) Error() string {
	if e == nil {
		return "vector provider bootstrap failed"
	}
	return fmt.Sprintf("vector provider bootstrap failed (code=%s provider=%q): %v", e.Code, e.Provider, e.Cause)
}

func (e *VectorProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveVectorStoreProvider builds the vector store selected by
// VECTOR_PROVIDER. Memory is the default; qdrant requires QDRANT_* config
// and a reachable server.
func resolveVectorStoreProvider(log *logger.Logger, cfg Config) (vectorstore.VectorStore, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.VectorProvider))
	if provider == "" {
		provider = VectorProviderMemory
	}
	metrics := observability.Current()

	switch provider {
	case VectorProviderMemory:
		log.Info("Selecting vector store provider", "provider", provider)
		vs, err := vectorstore.NewMemoryStore(log)
		if err != nil {
			berr := &VectorProviderBootstrapError{
				Code:     VectorProviderBootstrapErrorProviderInitFailed,
				Provider: provider,
				Cause:    err,
			}
			metrics.ObserveVectorStoreBootstrap(provider, "error", string(berr.Code))
			return nil, berr
		}
		metrics.ObserveVectorStoreBootstrap(provider, "success", "none")
		return vs, nil

	case VectorProviderQdrant:
		qcfg, err := qdrant.ResolveConfigFromEnv()
		if err != nil {
			berr := &VectorProviderBootstrapError{
				Code:     VectorProviderBootstrapErrorQdrantConfigFailed,
				Provider: provider,
				Cause:    err,
			}
			metrics.ObserveVectorStoreBootstrap(provider, "error", string(berr.Code))
			log.Error("Vector store provider bootstrap failed", "provider", provider, "error_code", berr.Code, "error", err)
			return nil, berr
		}

		log.Info("Selecting vector store provider",
			"provider", provider,
			"qdrant_url", qcfg.URL,
			"qdrant_collection", qcfg.Collection,
			"qdrant_vector_dim", qcfg.VectorDim,
		)

		vs, err := newQdrantVectorStore(log, qcfg)
		if err != nil {
			berr := &VectorProviderBootstrapError{
				Code:     VectorProviderBootstrapErrorProviderInitFailed,
				Provider: provider,
				Cause:    err,
			}
			var cfgErr *qdrant.ConfigError
			if errors.As(err, &cfgErr) {
				berr.Code = VectorProviderBootstrapErrorQdrantConfigFailed
			}
			metrics.ObserveVectorStoreBootstrap(provider, "error", string(berr.Code))
			log.Error("Vector store provider bootstrap failed", "provider", provider, "error_code", berr.Code, "error", err)
			return nil, berr
		}
		metrics.ObserveVectorStoreBootstrap(provider, "success", "none")
		return vs, nil

	default:
		berr := &VectorProviderBootstrapError{
			Code:     VectorProviderBootstrapErrorInvalidProvider,
			Provider: provider,
			Cause:    fmt.Errorf("unknown vector provider %q", cfg.VectorProvider),
		}
		metrics.ObserveVectorStoreBootstrap(provider, "error", string(berr.Code))
		log.Error("Vector store provider bootstrap failed", "provider", provider, "error_code", berr.Code)
		return nil, berr
	}
}
