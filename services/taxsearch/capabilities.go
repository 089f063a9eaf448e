package taxsearch

type SearchType struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Parameters  []string `json:"parameters"`
	Cached      bool     `json:"cached"`
}

type CapabilitiesResult struct {
	SearchTypes   []SearchType   `json:"search_types"`
	DataFields    []string       `json:"data_fields"`
	Configuration map[string]any `json:"configuration"`
	SystemInfo    string         `json:"system_info"`
}

// Capabilities describes the supported search types and the
// effective configuration, for discovery by the tool layer.
func (s Service) Capabilities() CapabilitiesResult {
	cached := s.config.CacheEnabled
	return CapabilitiesResult{
		SearchTypes: []SearchType{
			{
				Type:        "owner",
				Description: "Search by property owner name",
				Parameters:  []string{"owner_name"},
				Cached:      cached,
			},
			{
				Type:        "address",
				Description: "Search by property address",
				Parameters:  []string{"address"},
				Cached:      cached,
			},
			{
				Type:        "parcel",
				Description: "Search by parcel identification number",
				Parameters:  []string{"parcel_id"},
				Cached:      cached,
			},
			{
				Type:        "detail",
				Description: "Get detailed property information including assessments and ownership",
				Parameters:  []string{"parcel_id"},
				Cached:      cached,
			},
		},
		DataFields: []string{
			"parcel_id",
			"owner_name",
			"property_address",
			"tax_value",
			"detail_url",
			"search_timestamp",
		},
		Configuration: map[string]any{
			"base_url":             s.config.BaseUrl,
			"cache_enabled":        s.config.CacheEnabled,
			"cache_duration_hours": int(s.config.CacheDuration.Hours()),
			"rate_limit_enabled":   s.config.RateLimitEnabled,
			"rate_limit_delay":     s.config.RateLimitDelay.Seconds(),
			"max_results":          s.config.MaxResults,
			"retry_attempts":       s.config.RetryAttempts,
		},
		SystemInfo: "New Hanover County Property Tax Search",
	}
}
