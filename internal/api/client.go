package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/nikbrunner/forkify/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://forkify-api.herokuapp.com/api/v2/recipes/"
	DefaultTimeout = 10 * time.Second
)

var (
	ErrRequest         = errors.New("API request failed")
	ErrInvalidResponse = errors.New("invalid API response")
)

// NetworkError is returned for every failed gateway call. Message is the
// text shown to the user.
type NetworkError struct {
	Message    string
	StatusCode int // 0 if no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is makes every NetworkError match ErrRequest.
func (e *NetworkError) Is(target error) bool {
	return target == ErrRequest
}

// Client talks to the forkify recipe API.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	log        logrus.FieldLogger
}

// ClientParams holds parameters for creating a new Client.
type ClientParams struct {
	BaseURL    string             // optional, defaults to DefaultBaseURL
	APIKey     string             // required for uploads, sent with every request
	Timeout    time.Duration      // optional, defaults to DefaultTimeout
	HTTPClient *http.Client       // optional
	RateLimit  float64            // optional, requests per second; 0 disables limiting
	RateBurst  int                // optional, defaults to 1
	Logger     logrus.FieldLogger // optional, defaults to the standard logger
}

// NewClient creates a new API client.
func NewClient(params ClientParams) *Client {
	c := &Client{
		baseURL:    params.BaseURL,
		apiKey:     params.APIKey,
		timeout:    params.Timeout,
		httpClient: params.HTTPClient,
		log:        params.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	if params.RateLimit > 0 {
		burst := params.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(params.RateLimit), burst)
	}
	return c
}

// GetRecipe fetches a single recipe by id.
func (c *Client) GetRecipe(ctx context.Context, id string) (model.Recipe, error) {
	var resp envelope[recipeData]
	if err := c.GetJSON(ctx, c.recipeURL(id, nil), &resp); err != nil {
		return model.Recipe{}, err
	}
	if resp.Data.Recipe.ID == "" {
		return model.Recipe{}, &NetworkError{Message: "recipe missing from response", Err: ErrInvalidResponse}
	}
	return resp.Data.Recipe.toModel(), nil
}

// SearchRecipes returns all recipes matching query. The API doesn't
// paginate; pagination is done by the store.
func (c *Client) SearchRecipes(ctx context.Context, query string) ([]model.SearchResult, error) {
	var resp envelope[searchData]
	if err := c.GetJSON(ctx, c.recipeURL("", url.Values{"search": {query}}), &resp); err != nil {
		return nil, err
	}
	results := make([]model.SearchResult, len(resp.Data.Recipes))
	for i, r := range resp.Data.Recipes {
		results[i] = r.toModel()
	}
	return results, nil
}

// CreateRecipe uploads a new recipe and returns it as stored by the API.
func (c *Client) CreateRecipe(ctx context.Context, draft model.RecipeDraft) (model.Recipe, error) {
	var resp envelope[recipeData]
	if err := c.SendJSON(ctx, c.recipeURL("", nil), fromDraft(draft), &resp); err != nil {
		return model.Recipe{}, err
	}
	if resp.Data.Recipe.ID == "" {
		return model.Recipe{}, &NetworkError{Message: "recipe missing from response", Err: ErrInvalidResponse}
	}
	return resp.Data.Recipe.toModel(), nil
}

// GetJSON fetches rawURL and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	return c.do(ctx, http.MethodGet, rawURL, nil, v)
}

// SendJSON posts body as JSON to rawURL and decodes the response into v.
func (c *Client) SendJSON(ctx context.Context, rawURL string, body any, v any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, rawURL, data, v)
}

func (c *Client) recipeURL(id string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}
	u := c.baseURL + url.PathEscape(id)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, rawURL string, body []byte, v any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log := c.log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"method":     method,
		"url":        redactKey(rawURL),
	})

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			log.WithError(err).Warn("rate limit wait aborted")
			return &NetworkError{Message: fmt.Sprintf("rate limited: %v", err), Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return &NetworkError{Message: err.Error(), Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.WithError(err).Warn("request timed out")
			return &NetworkError{
				Message: fmt.Sprintf("Request took too long! Timeout after %s", c.timeout),
				Err:     err,
			}
		}
		log.WithError(err).Warn("request failed")
		return &NetworkError{Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Message: fmt.Sprintf("read response: %v", err), StatusCode: resp.StatusCode, Err: err}
	}

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var fail envelope[json.RawMessage]
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(data, &fail) == nil && fail.Message != "" {
			msg = fail.Message
		}
		log.WithField("message", msg).Warn("request rejected")
		return &NetworkError{
			Message:    fmt.Sprintf("%s (%d)", msg, resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	log.Debug("request finished")

	if v == nil {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &NetworkError{
			Message:    fmt.Sprintf("decode response: %v", err),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %v", ErrInvalidResponse, err),
		}
	}
	return nil
}

// redactKey hides the API key in logged URLs.
func redactKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
