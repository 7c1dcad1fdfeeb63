package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/services"
	"github.com/yungbote/docqa-backend/internal/types"
)

type stubSearcher struct {
	results []types.ScoredChunk
	err     error
}

func (s *stubSearcher) Search(context.Context, string, int) ([]types.ScoredChunk, error) {
	return s.results, s.err
}

type stubModel struct {
	answer string
	err    error
}

func (s *stubModel) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("not implemented")
}

func (s *stubModel) GenerateText(context.Context, string, string) (string, error) {
	return s.answer, s.err
}

func newAskRouter(t *testing.T, searcher *stubSearcher, model *stubModel) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	expander, err := services.NewQueryExpander()
	if err != nil {
		t.Fatalf("NewQueryExpander: %v", err)
	}
	svc := services.NewAskService(
		services.NewQueryGuard(),
		expander,
		services.NewRetriever(searcher, log),
		services.NewContextAssembler(),
		services.NewAnswerComposer(model, log),
		services.NewCitationResolver(),
		log,
	)
	r := gin.New()
	r.POST("/api/ask", NewAskHandler(svc).Ask)
	return r
}

func postAsk(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAskMissingQuestionIs400(t *testing.T) {
	r := newAskRouter(t, &stubSearcher{}, &stubModel{})
	for _, body := range []string{`{}`, `{"question":""}`, `{"question":"   "}`} {
		w := postAsk(t, r, body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, w.Code)
		}
		if !strings.Contains(w.Body.String(), "missing_question") {
			t.Fatalf("body %s: response %q missing code", body, w.Body.String())
		}
	}
}

func TestAskMalformedJSONIs400(t *testing.T) {
	r := newAskRouter(t, &stubSearcher{}, &stubModel{})
	w := postAsk(t, r, `{question`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAskAnsweredResponseShape(t *testing.T) {
	searcher := &stubSearcher{results: []types.ScoredChunk{
		{Chunk: types.Chunk{ID: 1, Text: "Open 8-14 Saturdays.", Source: "hours.md"}, Distance: 0.2},
	}}
	r := newAskRouter(t, searcher, &stubModel{answer: "Opens at 8 on Saturdays [1]."})

	w := postAsk(t, r, `{"question":"What time does the facility open on Saturdays?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Answer  string `json:"answer"`
		Sources []struct {
			ID     int    `json:"id"`
			Source string `json:"source"`
		} `json:"sources"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.Answer, "[1]") {
		t.Fatalf("answer = %q", resp.Answer)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].Source != "hours.md" || resp.Sources[0].ID != 1 {
		t.Fatalf("sources = %+v", resp.Sources)
	}
}

func TestAskRefusalHasEmptySourcesArray(t *testing.T) {
	searcher := &stubSearcher{results: []types.ScoredChunk{
		{Chunk: types.Chunk{ID: 1, Text: "narrow corpus", Source: "a.md"}, Distance: 0.81},
	}}
	r := newAskRouter(t, searcher, &stubModel{answer: "should never run"})

	w := postAsk(t, r, `{"question":"What is the capital of France?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"sources":[]`) {
		t.Fatalf("sources not an empty array: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "I don't know") {
		t.Fatalf("refusal text missing: %s", w.Body.String())
	}
}

func TestAskCollaboratorFailureIs500WithoutDetail(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("qdrant: connection refused")}
	r := newAskRouter(t, searcher, &stubModel{})

	w := postAsk(t, r, `{"question":"What time does the facility open?"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Fatalf("internal detail leaked: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "ask_failed") {
		t.Fatalf("error code missing: %s", w.Body.String())
	}
}
