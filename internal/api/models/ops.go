package models

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// VersionInfo reports the running build.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"buildTime"`
}

// CacheStats reports entry counts for one service cache.
type CacheStats struct {
	Provider     string `json:"provider"`
	TotalEntries int    `json:"totalEntries"`
	FreshEntries int    `json:"freshEntries"`
}

// GeocodingCacheStats reports entry counts for the two geocoding caches.
type GeocodingCacheStats struct {
	Provider            string `json:"provider"`
	SearchEntries       int    `json:"searchEntries"`
	SearchFreshEntries  int    `json:"searchFreshEntries"`
	ReverseEntries      int    `json:"reverseEntries"`
	ReverseFreshEntries int    `json:"reverseFreshEntries"`
}

// CacheStatsResponse aggregates cache statistics across services.
type CacheStatsResponse struct {
	Routing   CacheStats          `json:"routing"`
	Weather   CacheStats          `json:"weather"`
	Geocoding GeocodingCacheStats `json:"geocoding"`
}
