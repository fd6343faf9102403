// Package culler finds bookmarked recipes whose source pages are gone.
package culler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/forkify/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Status is the health of a recipe source page.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // no usable answer: timeout, DNS, 5xx, auth
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "ok"
	case Dead:
		return "dead"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// DefaultConcurrency is used when Params.Concurrency is unset.
const DefaultConcurrency = 8

const maxRedirects = 10

// Result is the outcome of checking one recipe.
type Result struct {
	Recipe     model.Recipe
	Status     Status
	StatusCode int    // 0 if no response was received
	Error      string // reason shown for unreachable pages
}

// ProgressFunc is called after each recipe is checked.
type ProgressFunc func(completed, total int)

// Checker probes recipe source URLs with a bounded number of requests in
// flight.
type Checker struct {
	client      *http.Client
	concurrency int
	exclude     []string
	log         logrus.FieldLogger
}

// Params holds parameters for creating a new Checker.
type Params struct {
	Concurrency int           // optional, defaults to DefaultConcurrency
	Timeout     time.Duration // per request; ignored when HTTPClient is set
	// ExcludeDomains lists hosts (and their subdomains) that answer 404 to
	// anonymous clients. Their 404s are reported as unreachable, not dead.
	ExcludeDomains []string
	HTTPClient     *http.Client       // optional
	Logger         logrus.FieldLogger // optional
}

// New creates a Checker.
func New(params Params) *Checker {
	c := &Checker{
		client:      params.HTTPClient,
		concurrency: params.Concurrency,
		log:         params.Logger,
	}
	if c.concurrency < 1 {
		c.concurrency = DefaultConcurrency
	}
	if c.client == nil {
		c.client = &http.Client{
			Timeout: params.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	for _, d := range params.ExcludeDomains {
		c.exclude = append(c.exclude, strings.ToLower(d))
	}
	return c
}

// Check probes every recipe and returns the results in recipe order.
// Recipes without a source URL are unreachable. A cancelled context
// stops the run and is returned along with the results gathered so far.
func (c *Checker) Check(ctx context.Context, recipes []model.Recipe, onProgress ProgressFunc) ([]Result, error) {
	if len(recipes) == 0 {
		return nil, nil
	}

	results := make([]Result, len(recipes))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i := range recipes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.checkOne(gctx, recipes[i])

			mu.Lock()
			defer mu.Unlock()
			done++
			if onProgress != nil {
				onProgress(done, len(recipes))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Failing returns the results that are not healthy.
func Failing(results []Result) []Result {
	var bad []Result
	for _, r := range results {
		if r.Status != Healthy {
			bad = append(bad, r)
		}
	}
	return bad
}

func (c *Checker) checkOne(ctx context.Context, recipe model.Recipe) Result {
	result := Result{Recipe: recipe}
	if recipe.SourceURL == "" {
		result.Status = Unreachable
		result.Error = "No source URL"
		return result
	}

	// HEAD first; some servers only answer GET.
	resp, err := c.fetch(ctx, http.MethodHead, recipe.SourceURL)
	if err != nil {
		resp, err = c.fetch(ctx, http.MethodGet, recipe.SourceURL)
	}
	if err != nil {
		result.Status = Unreachable
		result.Error = normalizeError(err)
		c.log.WithFields(logrus.Fields{"id": recipe.ID, "url": recipe.SourceURL}).
			WithError(err).Debug("source unreachable")
		return result
	}
	_ = resp.Body.Close()

	result.StatusCode = resp.StatusCode
	switch code := resp.StatusCode; {
	case code >= 200 && code < 400:
		result.Status = Healthy
	case code == http.StatusNotFound || code == http.StatusGone:
		if c.excluded(recipe.SourceURL) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		result.Status = Unreachable
		result.Error = http.StatusText(code)
	}
	c.log.WithFields(logrus.Fields{
		"id":     recipe.ID,
		"status": result.Status,
		"code":   result.StatusCode,
	}).Debug("source checked")
	return result
}

func (c *Checker) fetch(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return c.client.Do(req)
}

// excluded reports whether the URL's host is an excluded domain or one
// of its subdomains.
func (c *Checker) excluded(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, domain := range c.exclude {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError maps transport errors to short readable reasons.
func normalizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Timeout"
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"), strings.Contains(lower, "tls:"):
		return "TLS error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	default:
		return msg
	}
}
