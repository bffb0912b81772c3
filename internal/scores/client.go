package scores

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BorrowerScore is the PD estimate returned by the external score provider.
type BorrowerScore struct {
	Borrower string  `json:"borrower"`
	Score    float64 `json:"score"` // 0.0–1.0
	Model    string  `json:"model,omitempty"`
}

type Client interface {
	GetBorrowerScore(ctx context.Context, borrower string) (*BorrowerScore, error)
}

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) doReq(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("scores %s %s: %d %s", method, path, resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *HTTPClient) GetBorrowerScore(ctx context.Context, borrower string) (*BorrowerScore, error) {
	data, err := c.doReq(ctx, "GET", "/api/v1/scores/"+borrower)
	if err != nil {
		return nil, err
	}
	var score BorrowerScore
	if err := json.Unmarshal(data, &score); err != nil {
		return nil, err
	}
	return &score, nil
}
