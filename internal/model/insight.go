package model

// InsightType categorizes the recommended action.
type InsightType string

const (
	InsightTypeOptimization InsightType = "optimization"
	InsightTypeStrategy     InsightType = "strategy"
	InsightTypeEngagement   InsightType = "engagement"
)

// InsightColor is the severity tag rendered by the dashboard.
type InsightColor string

const (
	InsightColorRed    InsightColor = "red"
	InsightColorYellow InsightColor = "yellow"
	InsightColorBlue   InsightColor = "blue"
	InsightColorGreen  InsightColor = "green"
)

// Insight is a derived, ephemeral recommendation. Insights are regenerated
// wholesale on each request; none are individually mutated, and they carry no
// foreign key back to events beyond the triggering aggregate in RawData.
type Insight struct {
	ID          int64          `json:"id"`
	Type        InsightType    `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	ActionText  string         `json:"actionText"`
	Color       InsightColor   `json:"color"`
	Priority    int            `json:"priority"`
	RawData     map[string]any `json:"rawData,omitempty"`
}
