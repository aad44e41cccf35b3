package airport

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"aeropulse.app/pulse/common"
)

// Profile is the airport-specific keyword configuration consumed by the
// sentiment categorizer, the agents' default query and the insight
// aggregator. It is loaded once at startup from a JSON file and treated as
// immutable afterward.
type Profile struct {
	AirportName     string              `json:"airport_name"`
	AirportSlug     string              `json:"airport_slug"`
	City            string              `json:"city"`
	AirportKeywords []string            `json:"airport_keywords"`
	Airlines        []Airline           `json:"airlines"`
	Categories      map[string][]string `json:"categories"`
	QueryTerms      []string            `json:"query_terms"`
}

type Airline struct {
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	Keywords []string `json:"keywords"`
}

// Load reads and validates a profile from the given JSON file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading airport config: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing airport config: %w", err)
	}

	if p.AirportSlug == "" {
		return nil, fmt.Errorf("airport config: airport_slug is required")
	}
	if len(p.Categories) == 0 {
		return nil, fmt.Errorf("airport config: at least one category is required")
	}

	// Airlines may omit their slug; derive one from the name so events always
	// carry a stable matching tag.
	for i, a := range p.Airlines {
		if a.Slug != "" {
			continue
		}
		slug, err := common.Slugify(a.Name, "")
		if err != nil {
			return nil, fmt.Errorf("airport config: airline %d needs a name or slug: %w", i, err)
		}
		p.Airlines[i].Slug = slug
	}

	return &p, nil
}

// DefaultQuery builds the OR-list query agents use when the caller supplies
// none: airport keywords plus airline keywords.
func (p *Profile) DefaultQuery() string {
	terms := make([]string, 0, len(p.QueryTerms)+len(p.AirportKeywords))
	terms = append(terms, p.QueryTerms...)
	if len(terms) == 0 {
		terms = append(terms, p.AirportKeywords...)
		for _, a := range p.Airlines {
			terms = append(terms, a.Keywords...)
		}
	}
	return strings.Join(terms, " OR ")
}

// MatchAirport returns the airport slug when any airport keyword appears in
// the text, nil otherwise.
func (p *Profile) MatchAirport(text string) *string {
	lower := strings.ToLower(text)
	for _, kw := range p.AirportKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			slug := p.AirportSlug
			return &slug
		}
	}
	return nil
}

// MatchAirline returns the slug of the first airline whose keywords appear in
// the text, nil when none match.
func (p *Profile) MatchAirline(text string) *string {
	lower := strings.ToLower(text)
	for _, a := range p.Airlines {
		for _, kw := range a.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				slug := a.Slug
				return &slug
			}
		}
	}
	return nil
}

// CategoryNames returns the configured category names. Map iteration order is
// not stable; callers that need a deterministic order sort the result.
func (p *Profile) CategoryNames() []string {
	names := make([]string, 0, len(p.Categories))
	for name := range p.Categories {
		names = append(names, name)
	}
	return names
}
