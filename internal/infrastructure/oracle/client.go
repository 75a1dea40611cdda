package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/mindfulplate/backend/internal/domain"
)

// Client is the HTTP nutrition oracle: the last-resort lookup for foods the
// dictionary and cache do not know. Requests are throttled and retried for
// transient failures; any response that fails validation is reported as
// malformed and treated by callers as "no data".
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new oracle client. requestsPerHour caps the outbound
// rate; zero means 1000.
func NewClient(apiKey, baseURL string, requestsPerHour int) *Client {
	if requestsPerHour <= 0 {
		requestsPerHour = 1000
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles verbose request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Lookup fetches a per-serving nutrient record for a food phrase. Returns
// domain.ErrFoodNotFound when the oracle has no data and
// domain.ErrMalformedOracleResponse when the response fails validation.
func (c *Client) Lookup(ctx context.Context, foodPhrase, portionLabel string) (*domain.NutrientRecord, error) {
	if foodPhrase == "" {
		return nil, domain.ErrInvalidRequest
	}

	endpoint := fmt.Sprintf("%s/v1/nutrition/lookup", c.baseURL)
	params := url.Values{}
	params.Add("food", foodPhrase)
	params.Add("portion", portionLabel)
	params.Add("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Printf("[ORACLE] Request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrFoodNotFound
		}
		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[ORACLE] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrOracleFailure, resp.StatusCode)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		record, err := parseLookupResponse(body, foodPhrase)
		if err != nil {
			log.Printf("[ORACLE] Rejected response for %q: %v", foodPhrase, err)
			return nil, err
		}

		if c.debug {
			log.Printf("[ORACLE] Found nutrition for %q: %s", foodPhrase, record.Name)
		}
		return record, nil
	}

	return nil, lastErr
}

// doRequest executes an HTTP GET request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "MindfulPlate/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOracleFailure, err)
	}

	return resp, nil
}

// exponentialBackoff returns the wait before the next retry attempt.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// lookupResponse is the oracle wire format. Nutrients are pointers so a
// missing field is distinguishable from a zero value during validation.
type lookupResponse struct {
	Name       string   `json:"name"`
	Calories   *float64 `json:"calories"`
	Protein    *float64 `json:"protein"`
	Carbs      *float64 `json:"carbs"`
	Fat        *float64 `json:"fat"`
	Fiber      *float64 `json:"fiber"`
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
}

// parseLookupResponse validates the oracle payload: all five nutrient fields
// and the category must be present, nutrients must be non-negative, and the
// category must be known. Anything else is a malformed response.
func parseLookupResponse(body []byte, foodPhrase string) (*domain.NutrientRecord, error) {
	var payload lookupResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOracleResponse, err)
	}

	nutrients := map[string]*float64{
		"calories": payload.Calories,
		"protein":  payload.Protein,
		"carbs":    payload.Carbs,
		"fat":      payload.Fat,
		"fiber":    payload.Fiber,
	}
	for field, value := range nutrients {
		if value == nil {
			return nil, fmt.Errorf("%w: missing field %q", domain.ErrMalformedOracleResponse, field)
		}
		if *value < 0 {
			return nil, fmt.Errorf("%w: negative value for %q", domain.ErrMalformedOracleResponse, field)
		}
	}

	category := domain.Category(payload.Category)
	if payload.Category == "" {
		return nil, fmt.Errorf("%w: missing category", domain.ErrMalformedOracleResponse)
	}
	if !domain.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrMalformedOracleResponse, payload.Category)
	}

	name := payload.Name
	if name == "" {
		name = foodPhrase
	}

	return &domain.NutrientRecord{
		Name: name,
		PerServing: domain.NutrientVector{
			Calories: *payload.Calories,
			Protein:  *payload.Protein,
			Carbs:    *payload.Carbs,
			Fat:      *payload.Fat,
			Fiber:    *payload.Fiber,
		},
		Category:   category,
		Confidence: payload.Confidence,
		Source:     "oracle",
	}, nil
}
