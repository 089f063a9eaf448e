package nhctax

import (
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"nhctax-backend/lib/telemetry"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/nhctax")

const (
	DefaultBaseUrl = "https://etax.nhcgov.com"
	searchPath     = "/pt/search/commonsearch.aspx"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

// Client scrapes the county property tax portal. It owns the per-mode
// form tokens and the shared request clock; a single Client is meant
// to be shared by every concurrent search operation.
type Client struct {
	baseUrl *url.URL
	http    *resty.Client
	tokens  *tokenStore
	limiter *rateLimiter

	retry      retryConfig
	maxResults int
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl when empty
	BaseUrl          string
	RequestTimeout   time.Duration
	RetryAttempts    int
	RetryDelay       time.Duration
	RetryBackoff     float64
	RateLimitEnabled bool
	RateLimitDelay   time.Duration
	MaxResults       int
}

func NewClient(opts ClientOptions) (*Client, error) {
	rawUrl := opts.BaseUrl
	if rawUrl == "" {
		rawUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(rawUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(rawUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", userAgent)
	if opts.RequestTimeout > 0 {
		client.SetTimeout(opts.RequestTimeout)
	}
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))

	telemetry.InstrumentResty(client, "scrapers/nhctax/http")

	return &Client{
		baseUrl: baseUrl,
		http:    client,
		tokens:  newTokenStore(),
		limiter: newRateLimiter(opts.RateLimitEnabled, opts.RateLimitDelay),
		retry: retryConfig{
			attempts:      opts.RetryAttempts,
			delay:         opts.RetryDelay,
			backoffFactor: opts.RetryBackoff,
		},
		maxResults: opts.MaxResults,
	}, nil
}

func (c *Client) searchEndpoint(mode SearchMode) string {
	return searchPath + "?mode=" + portalModes[mode]
}

// primeToken fetches the mode's form page and pulls the ASP.NET state
// out of it. Runs under the mode's token lock.
func (c *Client) primeToken(ctx context.Context, mode SearchMode) (formToken, error) {
	ctx, span := tracer.Start(ctx, "primeToken")
	defer span.End()

	if err := c.limiter.acquire(ctx); err != nil {
		span.SetStatus(codes.Error, "rate limit wait failed")
		return formToken{}, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.searchEndpoint(mode))
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch form page")
		return formToken{}, err
	}
	if res.StatusCode() >= 400 {
		span.SetStatus(codes.Error, "form page returned error status")
		return formToken{}, &StatusError{StatusCode: res.StatusCode()}
	}

	token, err := extractFormToken(res.Body())
	if err != nil {
		span.SetStatus(codes.Error, "failed to extract form token")
		return formToken{}, err
	}
	return token, nil
}

// the portal has no explicit expiry response, the closest reliable
// signals are the ASP.NET view state MAC failure and the session
// expiry interstitial
func isTokenRejection(res *resty.Response) bool {
	body := strings.ToLower(string(res.Body()))
	return strings.Contains(body, "validation of viewstate mac failed") ||
		strings.Contains(body, "session expired")
}

// classify decides whether an attempt error is worth retrying.
// Token extraction, rate-limit timeouts and non-5xx statuses are
// permanent; transport errors and 5xx are not.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTokenExtraction) ||
		errors.Is(err, ErrExtractionFailed) ||
		errors.Is(err, ErrRateLimitTimeout) {
		return backoff.Permanent(err)
	}
	var status *StatusError
	if errors.As(err, &status) && status.StatusCode < 500 {
		return backoff.Permanent(err)
	}
	return err
}

// Search submits a single mode-specific form query and returns the
// parsed rows in document order plus a truncation flag.
func (c *Client) Search(ctx context.Context, mode SearchMode, query string) ([]PropertyRecord, bool, error) {
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()

	if !mode.Searchable() {
		return nil, false, fmt.Errorf("%w: unknown search mode %q", ErrInputValidation, string(mode))
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, ErrInputValidation
	}

	var records []PropertyRecord
	var truncated bool

	err := withRetry(ctx, c.retry, func() error {
		token, err := c.tokens.get(ctx, mode, func(ctx context.Context) (formToken, error) {
			return c.primeToken(ctx, mode)
		})
		if err != nil {
			return classify(err)
		}

		if err := c.limiter.acquire(ctx); err != nil {
			return backoff.Permanent(err)
		}

		res, err := c.http.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"__VIEWSTATE":             token.ViewState,
				"__EVENTVALIDATION":       token.EventValidation,
				queryFields[mode]:         query,
				"ctl00$cphPage$btnSearch": "Search",
			}).
			Post(c.searchEndpoint(mode))
		if err != nil {
			return err
		}
		if isTokenRejection(res) {
			c.tokens.invalidate(mode)
			return errTokenExpired
		}
		if res.StatusCode() >= 400 {
			return classify(&StatusError{StatusCode: res.StatusCode()})
		}

		recs, trunc, err := ParseSearchResults(res.Body(), c.baseUrl, c.maxResults)
		if err != nil {
			return classify(err)
		}
		records, truncated = recs, trunc
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, false, err
	}

	return records, truncated, nil
}

// FetchDetail scrapes the key/value attributes off a detail page.
func (c *Client) FetchDetail(ctx context.Context, detailUrl string) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "FetchDetail")
	defer span.End()

	if strings.TrimSpace(detailUrl) == "" {
		return nil, fmt.Errorf("%w: empty detail url", ErrInputValidation)
	}

	var attributes map[string]string
	err := withRetry(ctx, c.retry, func() error {
		if err := c.limiter.acquire(ctx); err != nil {
			return backoff.Permanent(err)
		}
		res, err := c.http.R().
			SetContext(ctx).
			Get(detailUrl)
		if err != nil {
			return err
		}
		if res.StatusCode() >= 400 {
			return classify(&StatusError{StatusCode: res.StatusCode()})
		}
		attrs, err := ParseDetail(res.Body())
		if err != nil {
			return classify(err)
		}
		attributes = attrs
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "detail fetch failed")
		return nil, err
	}
	return attributes, nil
}

// ProbeStatus checks portal availability with a single lightweight
// request, bypassing the token machinery and the retry budget.
func (c *Client) ProbeStatus(ctx context.Context) (SystemStatus, error) {
	ctx, span := tracer.Start(ctx, "ProbeStatus")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get("/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "status probe failed")
		return SystemStatus{}, err
	}

	maintenance, expected := ParseStatus(res.Body())
	status := SystemStatus{
		StatusCode:         res.StatusCode(),
		MaintenanceMode:    maintenance,
		HasExpectedContent: expected,
		ResponseTime:       res.Time(),
	}
	status.Available = !maintenance && res.StatusCode() == 200 && expected
	return status, nil
}
