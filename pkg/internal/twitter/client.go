package twitter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

// Client is the search capability consumed by the ingestion engine. Results
// come back newest first; sinceID and maxID bound the id range on either end.
type Client interface {
	Search(ctx context.Context, query string, count int, sinceID, maxID *int64) ([]RawPost, error)
}

// HTTPClient talks to the platform's recent-search endpoint with a bearer
// token. Requests pass through a client-side rate limiter so a burst of
// hashtags being synced at once cannot trip the upstream limits.
type HTTPClient struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

func NewHTTPClient() *HTTPClient {
	rps := viper.GetFloat64("twitter.rps")
	if rps <= 0 {
		rps = 2
	}
	burst := viper.GetInt("twitter.burst")
	if burst <= 0 {
		burst = 10
	}

	return &HTTPClient{
		baseURL:     viper.GetString("twitter.endpoint"),
		bearerToken: viper.GetString("twitter.bearer_token"),
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (c *HTTPClient) Search(ctx context.Context, query string, count int, sinceID, maxID *int64) ([]RawPost, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("result_type", "recent")
	params.Set("count", strconv.Itoa(count))
	if sinceID != nil {
		params.Set("since_id", strconv.FormatInt(*sinceID, 10))
	}
	if maxID != nil {
		params.Set("max_id", strconv.FormatInt(*maxID, 10))
	}

	endpoint := fmt.Sprintf("%s/search/tweets.json?%s", c.baseURL, params.Encode())
	log.Debug().Str("query", query).Str("url", endpoint).Msg("Searching recent posts...")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if len(c.bearerToken) > 0 {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search recent posts: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, body)
	}

	var result searchResponse
	if err := jsoniter.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse search JSON: %v", err)
	}

	return result.Statuses, nil
}
