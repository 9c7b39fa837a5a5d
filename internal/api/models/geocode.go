package models

// GeocodeResult is a single geocoding match.
type GeocodeResult struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Point   Point  `json:"point"`
}

// GeocodeResponse wraps search results. Results is always present, empty when
// nothing matched.
type GeocodeResponse struct {
	Results []GeocodeResult `json:"results"`
}
