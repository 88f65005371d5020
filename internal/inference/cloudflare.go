package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ayush/exploring-space/internal/httpx"
	"github.com/ayush/exploring-space/internal/metrics"
)

// CloudflareClient calls Workers AI text generation over HTTP.
type CloudflareClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// NewCloudflareClient targets {baseURL}/accounts/{accountID}/ai/run/{model}.
func NewCloudflareClient(baseURL, accountID, token, model string, hc *http.Client, m *metrics.Metrics) *CloudflareClient {
	if hc == nil {
		hc = &http.Client{}
	}
	endpoint := fmt.Sprintf("%s/accounts/%s/ai/run/%s", strings.TrimRight(baseURL, "/"), accountID, model)
	return &CloudflareClient{endpoint: endpoint, token: token, httpClient: hc, metrics: m}
}

// Generate sends the prompt and returns result.response.
func (c *CloudflareClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	text, err := c.run(ctx, prompt, maxTokens)
	c.metrics.Upstream("workers-ai", err)
	return text, err
}

func (c *CloudflareClient) run(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, _ := json.Marshal(map[string]any{
		"prompt":     prompt,
		"max_tokens": maxTokens,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("workers-ai: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return "", fmt.Errorf("workers-ai run: %w", err)
	}
	defer resp.Body.Close()

	if err := httpx.CheckResp(resp, "workers-ai", "run"); err != nil {
		return "", err
	}

	var result struct {
		Result *struct {
			Response string `json:"response"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("workers-ai run: decode: %w", err)
	}
	if result.Result == nil {
		return "", ErrEmptyCompletion
	}
	return result.Result.Response, nil
}
