package taxsearch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"nhctax-backend/lib/scrapers/nhctax"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/taxsearch")

// error_type values surfaced across the service boundary
const (
	errInputValidation     = "input_validation"
	errTokenExtraction     = "token_extraction_failed"
	errExtractionFailed    = "extraction_failed"
	errUpstreamUnavailable = "upstream_unavailable"
	errRateLimitTimeout    = "rate_limit_timeout"
	errNotFound            = "not_found"
	errNoDetailUrl         = "no_detail_url"
	errCacheDisabled       = "cache_disabled"
	errGeneral             = "general_error"
)

type SearchResult struct {
	Success      bool                    `json:"success"`
	SearchType   string                  `json:"search_type"`
	Query        string                  `json:"query"`
	ResultsCount int                     `json:"results_count"`
	Properties   []nhctax.PropertyRecord `json:"properties,omitempty"`
	Truncated    bool                    `json:"truncated"`
	FromCache    bool                    `json:"from_cache"`
	Timestamp    string                  `json:"timestamp"`
	ErrorType    string                  `json:"error_type,omitempty"`
	Message      string                  `json:"error,omitempty"`
}

type DetailResult struct {
	Success   bool                   `json:"success"`
	ParcelID  string                 `json:"parcel_id"`
	BasicInfo *nhctax.PropertyRecord `json:"basic_info,omitempty"`
	Detail    *nhctax.DetailRecord   `json:"detail,omitempty"`
	FromCache bool                   `json:"from_cache"`
	Timestamp string                 `json:"timestamp"`
	ErrorType string                 `json:"error_type,omitempty"`
	Message   string                 `json:"error,omitempty"`
}

type StatusResult struct {
	SystemAvailable    bool    `json:"system_available"`
	StatusCode         int     `json:"status_code,omitempty"`
	MaintenanceMode    bool    `json:"maintenance_mode"`
	HasExpectedContent bool    `json:"has_expected_content"`
	ResponseTimeMs     float64 `json:"response_time_ms"`
	CheckTimestamp     string  `json:"check_timestamp"`
	ErrorType          string  `json:"error_type,omitempty"`
	Message            string  `json:"error,omitempty"`
}

type ClearCacheResult struct {
	Success       bool     `json:"success"`
	ClearedCaches []string `json:"cleared_caches"`
	Timestamp     string   `json:"timestamp"`
	ErrorType     string   `json:"error_type,omitempty"`
	Message       string   `json:"error,omitempty"`
}

// Service is the sole entry point the tool layer calls. It is
// stateless per call; tokens, the request clock and the result cache
// live in the shared client and cache it owns.
type Service struct {
	client *nhctax.Client
	cache  *resultCache
	config Config
}

func NewService(config Config) (Service, error) {
	client, err := nhctax.NewClient(nhctax.ClientOptions{
		BaseUrl:          config.BaseUrl,
		RequestTimeout:   config.RequestTimeout,
		RetryAttempts:    config.RetryAttempts,
		RetryDelay:       config.RetryDelay,
		RetryBackoff:     config.RetryBackoff,
		RateLimitEnabled: config.RateLimitEnabled,
		RateLimitDelay:   config.RateLimitDelay,
		MaxResults:       config.MaxResults,
	})
	if err != nil {
		return Service{}, err
	}
	return Service{
		client: client,
		cache:  newResultCache(config.CacheEnabled, config.CacheDuration, config.CacheMaxSize),
		config: config,
	}, nil
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func errorType(err error) string {
	var upstream *nhctax.UpstreamUnavailableError
	switch {
	case errors.Is(err, nhctax.ErrInputValidation):
		return errInputValidation
	case errors.Is(err, nhctax.ErrTokenExtraction):
		return errTokenExtraction
	case errors.Is(err, nhctax.ErrExtractionFailed):
		return errExtractionFailed
	case errors.Is(err, nhctax.ErrRateLimitTimeout):
		return errRateLimitTimeout
	case errors.As(err, &upstream):
		return errUpstreamUnavailable
	default:
		return errGeneral
	}
}

// Search runs one mode-specific query: cache lookup first, then a
// rate-limited, token-primed, retried form submission on a miss.
func (s Service) Search(ctx context.Context, mode nhctax.SearchMode, query string) SearchResult {
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()

	fail := func(err error) SearchResult {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		slog.ErrorContext(ctx, "search failed", "mode", mode, "query", query, "err", err)
		return SearchResult{
			SearchType: string(mode),
			Query:      query,
			Timestamp:  timestamp(),
			ErrorType:  errorType(err),
			Message:    err.Error(),
		}
	}

	if !mode.Searchable() {
		return fail(nhctax.ErrInputValidation)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return fail(nhctax.ErrInputValidation)
	}

	key := normalizeQuery(query)
	if cached, hit := s.cache.getSearch(mode, key); hit {
		slog.DebugContext(ctx, "returning cached results", "mode", mode, "query", query)
		cached.FromCache = true
		return cached
	}

	records, truncated, err := s.client.Search(ctx, mode, query)
	if err != nil {
		return fail(err)
	}

	result := SearchResult{
		Success:      true,
		SearchType:   string(mode),
		Query:        query,
		ResultsCount: len(records),
		Properties:   records,
		Truncated:    truncated,
		Timestamp:    timestamp(),
	}
	s.cache.putSearch(mode, key, result)

	slog.InfoContext(ctx, "search completed",
		"mode", mode,
		"query", query,
		"results", len(records),
		"truncated", truncated,
	)
	return result
}

// GetDetail resolves a parcel id to its detail page through a parcel
// search, then scrapes the page into a DetailRecord.
func (s Service) GetDetail(ctx context.Context, parcelId string) DetailResult {
	ctx, span := tracer.Start(ctx, "GetDetail")
	defer span.End()

	fail := func(err error) DetailResult {
		span.RecordError(err)
		span.SetStatus(codes.Error, "detail fetch failed")
		slog.ErrorContext(ctx, "detail fetch failed", "parcel_id", parcelId, "err", err)
		return DetailResult{
			ParcelID:  parcelId,
			Timestamp: timestamp(),
			ErrorType: errorType(err),
			Message:   err.Error(),
		}
	}

	parcelId = strings.TrimSpace(parcelId)
	if parcelId == "" {
		return fail(nhctax.ErrInputValidation)
	}

	key := normalizeQuery(parcelId)
	if cached, hit := s.cache.getDetail(key); hit {
		slog.DebugContext(ctx, "returning cached detail", "parcel_id", parcelId)
		cached.FromCache = true
		return cached
	}

	records, _, err := s.client.Search(ctx, nhctax.ModeParcel, parcelId)
	if err != nil {
		return fail(err)
	}
	if len(records) == 0 {
		return DetailResult{
			ParcelID:  parcelId,
			Timestamp: timestamp(),
			ErrorType: errNotFound,
			Message:   "property not found",
		}
	}

	basic := records[0]
	if basic.DetailURL == "" {
		return DetailResult{
			ParcelID:  parcelId,
			BasicInfo: &basic,
			Timestamp: timestamp(),
			ErrorType: errNoDetailUrl,
			Message:   "detail url not available",
		}
	}

	attributes, err := s.client.FetchDetail(ctx, basic.DetailURL)
	if err != nil {
		return fail(err)
	}

	result := DetailResult{
		Success:   true,
		ParcelID:  parcelId,
		BasicInfo: &basic,
		Detail: &nhctax.DetailRecord{
			PropertyRecord: basic,
			Attributes:     attributes,
		},
		Timestamp: timestamp(),
	}
	s.cache.putDetail(key, result)

	slog.InfoContext(ctx, "detail fetch completed",
		"parcel_id", parcelId,
		"attributes", len(attributes),
	)
	return result
}

// CheckStatus probes portal availability. Never cached, no token
// machinery, no retry budget.
func (s Service) CheckStatus(ctx context.Context) StatusResult {
	ctx, span := tracer.Start(ctx, "CheckStatus")
	defer span.End()

	status, err := s.client.ProbeStatus(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "status probe failed")
		slog.ErrorContext(ctx, "status probe failed", "err", err)
		return StatusResult{
			CheckTimestamp: timestamp(),
			ErrorType:      errUpstreamUnavailable,
			Message:        err.Error(),
		}
	}

	return StatusResult{
		SystemAvailable:    status.Available,
		StatusCode:         status.StatusCode,
		MaintenanceMode:    status.MaintenanceMode,
		HasExpectedContent: status.HasExpectedContent,
		ResponseTimeMs:     float64(status.ResponseTime.Microseconds()) / 1000,
		CheckTimestamp:     timestamp(),
	}
}

// ClearCache empties the named cache partition, or all of them.
func (s Service) ClearCache(ctx context.Context, scope string) ClearCacheResult {
	ctx, span := tracer.Start(ctx, "ClearCache")
	defer span.End()

	if !s.config.CacheEnabled {
		return ClearCacheResult{
			Timestamp: timestamp(),
			ErrorType: errCacheDisabled,
			Message:   "caching is disabled",
		}
	}

	cleared, ok := s.cache.clear(scope)
	if !ok {
		span.SetStatus(codes.Error, "unknown cache scope")
		return ClearCacheResult{
			Timestamp: timestamp(),
			ErrorType: errInputValidation,
			Message:   "unknown cache scope " + scope,
		}
	}

	slog.InfoContext(ctx, "cache cleared", "scope", scope, "partitions", cleared)
	return ClearCacheResult{
		Success:       true,
		ClearedCaches: cleared,
		Timestamp:     timestamp(),
	}
}
