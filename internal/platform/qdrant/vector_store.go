package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/docqa-backend/internal/platform/ctxutil"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/platform/vectorstore"
)

const (
	payloadChunkIDKey = "_dq_chunk_id"
	maxErrorBodyBytes = 1024
)

var pointIDNamespaceUUID = uuid.MustParse("8c7a1f6e-4b12-4d3a-9ce1-5f0a2b9d6c41")

// vectorStore talks the Qdrant REST API directly; the payload carries the
// snapshot chunk ID so search results can be mapped back to corpus positions.
type vectorStore struct {
	log      *logger.Logger
	cfg      Config
	baseURL  string
	distance string
	http     *http.Client
}

type qdrantEnvelope struct {
	Result json.RawMessage `json:"result"`
	Status json.RawMessage `json:"status"`
	Time   float64         `json:"time"`
}

type qdrantSearchResultItem struct {
	ID      json.RawMessage `json:"id"`
	Score   float64         `json:"score"`
	Payload map[string]any  `json:"payload"`
}

func NewVectorStore(log *logger.Logger, cfg Config) (vectorstore.VectorStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if err := ValidateConfig(cfg, true); err != nil {
		return nil, err
	}

	s := &vectorStore{
		log:     log.With("service", "QdrantVectorStore"),
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	if err := s.verifyReady(context.Background()); err != nil {
		return nil, err
	}

	log.Info(
		"Qdrant vector store selected",
		"provider", "qdrant",
		"url", s.baseURL,
		"collection", cfg.Collection,
		"vector_dim", cfg.VectorDim,
		"distance", s.distance,
	)
	return s, nil
}

func (s *vectorStore) Upsert(ctx context.Context, vectors []vectorstore.Vector) error {
	if s == nil {
		return nil
	}
	const op = "upsert"
	if len(vectors) == 0 {
		return nil
	}

	points := make([]map[string]any, 0, len(vectors))
	for _, v := range vectors {
		chunkID := strings.TrimSpace(v.ID)
		if chunkID == "" {
			return opErr(op, OperationErrorValidation, "vector id is required", nil)
		}
		if len(v.Values) == 0 {
			return opErr(op, OperationErrorValidation, fmt.Sprintf("vector %q has empty values", chunkID), nil)
		}
		if s.cfg.VectorDim > 0 && len(v.Values) != s.cfg.VectorDim {
			return opErr(
				op,
				OperationErrorValidation,
				fmt.Sprintf(
					"vector %q dimension mismatch: expected=%d got=%d",
					chunkID,
					s.cfg.VectorDim,
					len(v.Values),
				),
				nil,
			)
		}
		points = append(points, map[string]any{
			"id":      s.pointID(chunkID),
			"vector":  v.Values,
			"payload": map[string]any{payloadChunkIDKey: chunkID},
		})
	}

	req := map[string]any{"points": points}
	return s.doJSON(ctx, op, http.MethodPut, s.collectionPath("/points?wait=true"), req, nil)
}

func (s *vectorStore) Query(ctx context.Context, q []float32, topK int) ([]vectorstore.Match, error) {
	if s == nil {
		return nil, fmt.Errorf("vector store unavailable")
	}
	const op = "query"
	if len(q) == 0 {
		return nil, opErr(op, OperationErrorValidation, "query vector required", nil)
	}
	if s.cfg.VectorDim > 0 && len(q) != s.cfg.VectorDim {
		return nil, opErr(
			op,
			OperationErrorValidation,
			fmt.Sprintf("query vector dimension mismatch: expected=%d got=%d", s.cfg.VectorDim, len(q)),
			nil,
		)
	}
	if topK <= 0 {
		topK = 10
	}

	req := map[string]any{
		"vector":       q,
		"limit":        topK,
		"with_payload": true,
		"with_vector":  false,
	}
	var rawResults []qdrantSearchResultItem
	if err := s.doJSON(
		ctx,
		op,
		http.MethodPost,
		s.collectionPath("/points/search"),
		req,
		&rawResults,
	); err != nil {
		return nil, err
	}

	out := make([]vectorstore.Match, 0, len(rawResults))
	for _, item := range rawResults {
		id := s.extractChunkID(item)
		if id == "" {
			continue
		}
		out = append(out, vectorstore.Match{
			ID:       id,
			Distance: s.distanceFromScore(item.Score),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance == out[j].Distance {
			return out[i].ID < out[j].ID
		}
		return out[i].Distance < out[j].Distance
	})
	return out, nil
}

func (s *vectorStore) verifyReady(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("qdrant vector store not initialized")
	}
	const op = "bootstrap_verify"

	readyReq, err := http.NewRequestWithContext(ctxutil.Default(ctx), http.MethodGet, s.baseURL+"/readyz", nil)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "build ready request failed", err)
	}
	readyResp, err := s.http.Do(readyReq)
	if err != nil {
		return classifyHTTPCallError(op, "qdrant ready check failed", err)
	}
	_ = readyResp.Body.Close()
	if readyResp.StatusCode < 200 || readyResp.StatusCode >= 300 {
		return &OperationError{
			Code:       OperationErrorQueryFailed,
			Operation:  op,
			StatusCode: readyResp.StatusCode,
			Message:    fmt.Sprintf("qdrant ready check returned status=%d", readyResp.StatusCode),
		}
	}

	var result struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	}
	if err := s.doJSON(
		ctx,
		op,
		http.MethodGet,
		s.collectionPath(""),
		nil,
		&result,
	); err != nil {
		return err
	}

	size := result.Config.Params.Vectors.Size
	if size != 0 && size != s.cfg.VectorDim {
		return &OperationError{
			Code:      OperationErrorValidation,
			Operation: op,
			Message: fmt.Sprintf(
				"qdrant collection %q vector size mismatch: expected=%d actual=%d",
				s.cfg.Collection,
				s.cfg.VectorDim,
				size,
			),
		}
	}
	s.distance = strings.TrimSpace(result.Config.Params.Vectors.Distance)
	return nil
}

func (s *vectorStore) doJSON(ctx context.Context, op, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return opErr(op, OperationErrorEncodeFailed, "encode request failed", err)
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, s.baseURL+path, body)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "build request failed", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return classifyHTTPCallError(op, "qdrant request failed", err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 10*maxErrorBodyBytes))
	if readErr != nil {
		return opErr(op, OperationErrorDecodeFailed, "read response failed", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &OperationError{
			Code:       OperationErrorQueryFailed,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("qdrant http status=%d body=%q", resp.StatusCode, truncateBody(raw)),
		}
	}

	var envelope qdrantEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode qdrant envelope failed", err)
	}
	if statusErr := parseEnvelopeStatus(envelope.Status); statusErr != "" {
		return &OperationError{
			Code:       OperationErrorQueryFailed,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    statusErr,
		}
	}

	if out == nil {
		return nil
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode qdrant result failed", err)
	}
	return nil
}

func classifyHTTPCallError(op, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return opErr(op, OperationErrorTimeout, message, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return opErr(op, OperationErrorTimeout, message, err)
	}
	return opErr(op, OperationErrorTransportFailed, message, err)
}

func parseEnvelopeStatus(raw json.RawMessage) string {
	status := strings.TrimSpace(string(raw))
	if status == "" || status == "null" {
		return ""
	}

	var statusString string
	if err := json.Unmarshal(raw, &statusString); err == nil {
		if strings.EqualFold(statusString, "ok") {
			return ""
		}
		return fmt.Sprintf("qdrant status=%q", statusString)
	}

	var statusObject struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &statusObject); err == nil {
		if strings.TrimSpace(statusObject.Error) != "" {
			return strings.TrimSpace(statusObject.Error)
		}
	}

	return fmt.Sprintf("qdrant status=%s", status)
}

func truncateBody(raw []byte) string {
	if len(raw) <= maxErrorBodyBytes {
		return string(raw)
	}
	return string(raw[:maxErrorBodyBytes]) + "..."
}

func (s *vectorStore) pointID(chunkID string) string {
	deterministic := uuid.NewSHA1(pointIDNamespaceUUID, []byte(s.cfg.Collection+"|"+chunkID))
	return deterministic.String()
}

func (s *vectorStore) collectionPath(suffix string) string {
	path := "/collections/" + s.cfg.Collection
	if strings.TrimSpace(suffix) == "" {
		return path
	}
	return path + suffix
}

func (s *vectorStore) extractChunkID(item qdrantSearchResultItem) string {
	if payloadID, ok := item.Payload[payloadChunkIDKey].(string); ok {
		id := strings.TrimSpace(payloadID)
		if id != "" {
			return id
		}
	}
	// Rare: payload chunk id should always be present because Upsert writes it.
	return decodePointID(item.ID)
}

func decodePointID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var idString string
	if err := json.Unmarshal(raw, &idString); err == nil {
		return strings.TrimSpace(idString)
	}
	var idNumber int64
	if err := json.Unmarshal(raw, &idNumber); err == nil {
		return fmt.Sprintf("%d", idNumber)
	}
	return strings.TrimSpace(string(raw))
}

// distanceFromScore converts Qdrant's metric-dependent score into a
// dissimilarity distance (lower = closer). Cosine and Dot scores are
// similarities; Euclid and Manhattan scores already are distances.
func (s *vectorStore) distanceFromScore(score float64) float64 {
	switch strings.ToLower(strings.TrimSpace(s.distance)) {
	case "euclid", "manhattan":
		if score < 0 {
			score = -score
		}
		return score
	default:
		d := 1.0 - score
		if d < 0 {
			return 0
		}
		return d
	}
}
