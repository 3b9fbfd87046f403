package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/models"
)

const (
	tradesPath = "/trades"
	uploadPath = "/upload"
)

// TradeStore is the remote persistence contract the journal depends on.
type TradeStore interface {
	// FetchTrades returns the full stored trade list, empty when nothing is stored.
	FetchTrades(ctx context.Context) ([]models.Trade, error)
	// SaveTrades replaces the entire stored trade list.
	SaveTrades(ctx context.Context, trades []models.Trade) error
	// Upload stores an attachment and returns its retrieval URL.
	Upload(ctx context.Context, filename string, body []byte) (string, error)
}

// Client talks to the blob store over HTTP.
// It implements the TradeStore interface.
type Client struct {
	client     *resty.Client
	logger     *zap.Logger
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

// ensure Client implements the interface
var _ TradeStore = (*Client)(nil)

// NewClient creates a new blob store client.
func NewClient(cfg *config.Gateway, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout())
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	} else {
		logger.Warn("No blob store token configured, requests are unauthenticated")
	}

	return &Client{
		client:     client,
		logger:     logger.Named("gateway"),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		maxRetries: max(1, cfg.MaxRetries),
		backoff:    time.Second,
	}
}

// FetchTrades downloads the stored trade list. Reads are retried on throttling
// and server errors.
func (c *Client) FetchTrades(ctx context.Context) ([]models.Trade, error) {
	req := c.client.R().SetHeader("Accept", "application/json")

	resp, err := c.doRequest(ctx, resty.MethodGet, tradesPath, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trades: %w", err)
	}

	trades, err := models.DecodeTrades(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trades: %w", err)
	}
	c.logger.Debug("Fetched trades", zap.Int("count", len(trades)))
	return trades, nil
}

// SaveTrades overwrites the stored trade list in a single attempt.
func (c *Client) SaveTrades(ctx context.Context, trades []models.Trade) error {
	if trades == nil {
		trades = []models.Trade{}
	}
	body, err := json.Marshal(trades)
	if err != nil {
		return fmt.Errorf("failed to encode trades: %w", err)
	}

	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(body)

	if _, err := c.doRequest(ctx, resty.MethodPost, tradesPath, req, 1); err != nil {
		return fmt.Errorf("failed to save trades: %w", err)
	}
	c.logger.Debug("Saved trades", zap.Int("count", len(trades)))
	return nil
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload stores a binary attachment and returns the URL it can be fetched from.
func (c *Client) Upload(ctx context.Context, filename string, body []byte) (string, error) {
	if filename == "" {
		return "", errors.New("upload requires a filename")
	}

	req := c.client.R().
		SetQueryParam("filename", filename).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(body).
		SetResult(&uploadResponse{})

	resp, err := c.doRequest(ctx, resty.MethodPost, uploadPath, req, 1)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	result := resp.Result().(*uploadResponse)
	if result.URL == "" {
		return "", fmt.Errorf("failed to upload %s: response carried no url", filename)
	}
	return result.URL, nil
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request, attempts int) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	req.SetContext(ctx)
	for i := 0; i < attempts; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil
		}

		shouldRetry := false
		var retryAfter time.Duration

		if err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
			if !shouldRetry || i == attempts-1 {
				return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
			}
		} else {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			shouldRetry = true
		}

		if i == attempts-1 {
			break
		}

		if retryAfter == 0 {
			// Exponential backoff: 1x, 2x, 4x
			retryAfter = time.Duration(math.Pow(2, float64(i))) * c.backoff
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", attempts, err)
}
