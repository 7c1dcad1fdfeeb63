package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/docqa-backend/internal/observability"
	"github.com/yungbote/docqa-backend/internal/platform/ctxutil"
	"github.com/yungbote/docqa-backend/internal/platform/httpx"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/platform/promptstyle"
)

// Client is the narrow contract the pipeline has with the language-model
// provider: embed strings into vectors, generate text from a system+user
// prompt pair. Everything else the API offers is out of scope.
type Client interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	embedModel string
	httpClient *http.Client

	maxRetries int

	temperature        *float64
	disableTemperature bool
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if model == "" {
		model = "gpt-4o-mini"
	}

	embed := strings.TrimSpace(os.Getenv("OPENAI_EMBED_MODEL"))
	if embed == "" {
		embed = "text-embedding-3-small"
	}

	timeoutSec := 120
	if v := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 4
	if v := strings.TrimSpace(os.Getenv("OPENAI_MAX_RETRIES")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	// Low temperature by default: answers should be grounded, not creative.
	disableTemperature := false
	temp := 0.1
	if v := strings.TrimSpace(os.Getenv("OPENAI_TEMPERATURE")); v != "" {
		low := strings.ToLower(v)
		if low == "off" || low == "none" || low == "false" {
			disableTemperature = true
		} else if f, err := strconv.ParseFloat(v, 64); err == nil {
			temp = f
		}
	}
	var tempPtr *float64
	if !disableTemperature {
		tempPtr = &temp
	}

	return &client{
		log:                log.With("service", "OpenAIClient"),
		baseURL:            baseURL,
		apiKey:             apiKey,
		model:              model,
		embedModel:         embed,
		httpClient:         &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries:         maxRetries,
		temperature:        tempPtr,
		disableTemperature: disableTemperature,
	}, nil
}

type openAIHTTPError struct {
	StatusCode int
	Body       string
}

func (e *openAIHTTPError) Error() string {
	return fmt.Sprintf("openai http error: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *openAIHTTPError) HTTPStatusCode() int {
	return e.StatusCode
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &openAIHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx != nil && ctx.Err() != nil {
			return ctx.Err()
		}

		start := time.Now()
		resp, raw, err := c.doOnce(ctx, method, path, body)
		status := "error"
		if resp != nil {
			status = strconv.Itoa(resp.StatusCode)
		}
		observability.Current().ObserveLLMRequest(path, status, time.Since(start))
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("openai decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

// -------------------- Embeddings --------------------

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (c *client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}

	clean := make([]string, len(inputs))
	for i := range inputs {
		s := strings.TrimSpace(inputs[i])
		if s == "" {
			s = " "
		}
		clean[i] = s
	}

	req := embeddingsRequest{
		Model: c.embedModel,
		Input: clean,
	}

	var resp embeddingsResponse
	if err := c.do(ctx, http.MethodPost, "/v1/embeddings", req, &resp); err != nil {
		return nil, err
	}

	out := assignEmbeddings(resp, len(clean))
	if hasMissingEmbeddings(out) {
		c.log.Warn("Embeddings response missing indices; retrying once",
			"requested", len(clean),
			"returned", len(resp.Data),
			"model", c.embedModel,
		)

		var resp2 embeddingsResponse
		if err := c.do(ctx, http.MethodPost, "/v1/embeddings", req, &resp2); err != nil {
			return nil, err
		}
		out = assignEmbeddings(resp2, len(clean))
		if hasMissingEmbeddings(out) {
			return nil, fmt.Errorf("openai embeddings missing indices after retry: requested=%d returned=%d model=%s", len(clean), len(resp2.Data), c.embedModel)
		}
	}

	return out, nil
}

// assignEmbeddings places vectors by the index field; when the provider omits
// indices but returned a full set, positional order is trusted instead.
func assignEmbeddings(resp embeddingsResponse, n int) [][]float32 {
	out := make([][]float32, n)
	for _, d := range resp.Data {
		if d.Index >= 0 && d.Index < n {
			out[d.Index] = toFloat32(d.Embedding)
		}
	}
	if hasMissingEmbeddings(out) && len(resp.Data) == n {
		for i := 0; i < n; i++ {
			if out[i] != nil {
				continue
			}
			out[i] = toFloat32(resp.Data[i].Embedding)
		}
	}
	return out
}

func toFloat32(in []float64) []float32 {
	vec := make([]float32, len(in))
	for i, f := range in {
		vec[i] = float32(f)
	}
	return vec
}

func hasMissingEmbeddings(v [][]float32) bool {
	for i := range v {
		if len(v[i]) == 0 {
			return true
		}
	}
	return false
}

// -------------------- Responses --------------------

type responsesRequest struct {
	Model string `json:"model"`

	Input []struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	} `json:"input"`

	Temperature *float64 `json:"temperature,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

func extractOutputText(resp responsesResponse) string {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type == "message" && item.Role == "assistant" {
			for _, c := range item.Content {
				if c.Type == "output_text" && c.Text != "" {
					out.WriteString(c.Text)
				}
			}
		}
	}
	return out.String()
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	system = promptstyle.ApplySystem(system)
	req := responsesRequest{
		Model: c.model,
		Input: []struct {
			Role    string `json:"role"`
			Content any    `json:"content"`
		}{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	if !c.disableTemperature {
		req.Temperature = c.temperature
	}

	var resp responsesResponse
	err := c.do(ctx, http.MethodPost, "/v1/responses", &req, &resp)
	if err != nil && req.Temperature != nil && isUnsupportedTemperatureParam(err) {
		// Some models reject temperature outright; retry once without it.
		req.Temperature = nil
		err = c.do(ctx, http.MethodPost, "/v1/responses", &req, &resp)
	}
	if err != nil {
		return "", err
	}
	if resp.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", resp.Refusal)
	}

	text := extractOutputText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no output_text found in response")
	}
	return text, nil
}

func isUnsupportedTemperatureParam(err error) bool {
	var httpErr *openAIHTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	if httpErr.StatusCode != http.StatusBadRequest {
		return false
	}
	body := strings.ToLower(httpErr.Body)
	return strings.Contains(body, "temperature") &&
		(strings.Contains(body, "unsupported") || strings.Contains(body, "not supported") || strings.Contains(body, "does not support"))
}
