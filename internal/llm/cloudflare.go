package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CloudflareClient generates text through Cloudflare Workers AI.
type CloudflareClient struct {
	httpClient *http.Client
	baseURL    string
	accountID  string
	apiToken   string
	model      string
}

// CloudflareConfig holds Workers AI client configuration.
type CloudflareConfig struct {
	AccountID string
	APIToken  string
	Model     string // e.g. "@cf/meta/llama-3.1-8b-instruct"
	BaseURL   string // overridable for tests
	Timeout   time.Duration
}

// NewCloudflareClient creates a Workers AI client.
func NewCloudflareClient(cfg CloudflareConfig) (*CloudflareClient, error) {
	if cfg.AccountID == "" || cfg.APIToken == "" {
		return nil, fmt.Errorf("cloudflare: %w: set account ID and API token", ErrProviderUnavailable)
	}

	if cfg.Model == "" {
		cfg.Model = "@cf/meta/llama-3.1-8b-instruct"
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cloudflare.com/client/v4"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &CloudflareClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		accountID:  cfg.AccountID,
		apiToken:   cfg.APIToken,
		model:      cfg.Model,
	}, nil
}

type cloudflareRequest struct {
	Prompt string `json:"prompt"`
}

type cloudflareResponse struct {
	Result   json.RawMessage   `json:"result"`
	Response string            `json:"response"`
	Success  bool              `json:"success"`
	Errors   []cloudflareError `json:"errors"`
}

type cloudflareError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type cloudflareResult struct {
	Response string `json:"response"`
}

// Generate runs the model against the prompt and returns the completion text.
func (c *CloudflareClient) Generate(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s", c.baseURL, c.accountID, c.model)

	jsonBody, err := json.Marshal(cloudflareRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("workers AI: status %d, body: %s", resp.StatusCode, string(body))
	}

	var cfResp cloudflareResponse
	if err := json.Unmarshal(body, &cfResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(cfResp.Errors) > 0 {
		return "", fmt.Errorf("workers AI: %s", cfResp.Errors[0].Message)
	}

	// The completion usually nests under result.response; some models report
	// the text at the top level instead.
	if len(cfResp.Result) > 0 {
		var result cloudflareResult
		if err := json.Unmarshal(cfResp.Result, &result); err == nil && result.Response != "" {
			return result.Response, nil
		}
	}
	if cfResp.Response != "" {
		return cfResp.Response, nil
	}

	return "", fmt.Errorf("workers AI: unexpected response format")
}

// Name returns the provider identifier.
func (c *CloudflareClient) Name() string {
	return "cloudflare"
}

var _ Provider = (*CloudflareClient)(nil)
