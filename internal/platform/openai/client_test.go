package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

type roundTripFunc func(r *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(t *testing.T, fn roundTripFunc) *client {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	temp := 0.1
	return &client{
		log:         log,
		baseURL:     "https://api.test",
		apiKey:      "test-key",
		model:       "gpt-4o-mini",
		embedModel:  "text-embedding-3-small",
		httpClient:  &http.Client{Transport: fn, Timeout: 5 * time.Second},
		maxRetries:  1,
		temperature: &temp,
	}
}

func jsonResponse(t *testing.T, status int, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(raw)),
	}
}

func TestEmbedAssignsByIndex(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1/embeddings" {
			t.Fatalf("path: want=/v1/embeddings got=%s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("auth header: got=%q", got)
		}
		// Out of order on purpose; index field must win.
		return jsonResponse(t, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float64{0.4, 0.5}},
				{"index": 0, "embedding": []float64{0.1, 0.2}},
			},
		}), nil
	})

	vecs, err := c.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("vector count: want=2 got=%d", len(vecs))
	}
	if vecs[0][0] != 0.1 || vecs[1][0] != 0.4 {
		t.Fatalf("index assignment wrong: got=%v", vecs)
	}
}

func TestEmbedBlankInputReplacedWithSpace(t *testing.T) {
	var captured embeddingsRequest
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"data": []map[string]any{{"index": 0, "embedding": []float64{1}}},
		}), nil
	})

	if _, err := c.Embed(context.Background(), []string{"   "}); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(captured.Input) != 1 || captured.Input[0] != " " {
		t.Fatalf("blank input not repaired: got=%q", captured.Input)
	}
}

func TestEmbedEmptyInputShortCircuits(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		t.Fatalf("no request expected for empty input")
		return nil, nil
	})
	vecs, err := c.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 0 {
		t.Fatalf("want empty result, got=%v", vecs)
	}
}

func TestGenerateTextExtractsAssistantOutput(t *testing.T) {
	var captured responsesRequest
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1/responses" {
			t.Fatalf("path: want=/v1/responses got=%s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"output": []map[string]any{
				{
					"type": "message",
					"role": "assistant",
					"content": []map[string]any{
						{"type": "output_text", "text": "The gym opens at 9am [1]."},
					},
				},
			},
		}), nil
	})

	text, err := c.GenerateText(context.Background(), "Answer from evidence.", "When does the gym open?")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != "The gym opens at 9am [1]." {
		t.Fatalf("output text: got=%q", text)
	}
	if captured.Temperature == nil || *captured.Temperature != 0.1 {
		t.Fatalf("temperature not sent: got=%v", captured.Temperature)
	}
	if len(captured.Input) != 2 || captured.Input[0].Role != "system" || captured.Input[1].Role != "user" {
		t.Fatalf("input roles wrong: got=%+v", captured.Input)
	}
}

func TestGenerateTextRetriesWithoutTemperature(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		var req responsesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if calls == 1 {
			if req.Temperature == nil {
				t.Fatalf("first call should carry temperature")
			}
			return jsonResponse(t, http.StatusBadRequest, map[string]any{
				"error": map[string]any{"message": "Unsupported parameter: 'temperature' is not supported with this model."},
			}), nil
		}
		if req.Temperature != nil {
			t.Fatalf("retry should omit temperature")
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"output": []map[string]any{
				{
					"type": "message",
					"role": "assistant",
					"content": []map[string]any{
						{"type": "output_text", "text": "ok"},
					},
				},
			},
		}), nil
	})

	text, err := c.GenerateText(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != "ok" {
		t.Fatalf("text: want=ok got=%q", text)
	}
	if calls != 2 {
		t.Fatalf("calls: want=2 got=%d", calls)
	}
}

func TestGenerateTextEmptyOutputIsError(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(t, http.StatusOK, map[string]any{"output": []map[string]any{}}), nil
	})
	if _, err := c.GenerateText(context.Background(), "sys", "user"); err == nil {
		t.Fatalf("want error for empty output")
	}
}
