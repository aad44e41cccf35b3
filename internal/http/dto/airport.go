package dto

// AirportConfigResponse mirrors the configured airport profile: which
// keywords drive collection and which categories drive scoring.
type AirportConfigResponse struct {
	AirportName     string                 `json:"airportName"`
	AirportSlug     string                 `json:"airportSlug"`
	City            string                 `json:"city"`
	AirportKeywords []string               `json:"airportKeywords"`
	Airlines        []AirportConfigAirline `json:"airlines"`
	Categories      map[string][]string    `json:"categories"`
	QueryTerms      []string               `json:"queryTerms"`
}

type AirportConfigAirline struct {
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	Keywords []string `json:"keywords"`
}
