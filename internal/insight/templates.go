package insight

import (
	"fmt"
	"strings"

	"aeropulse.app/pulse/internal/model"
)

// renderInsight maps a flagged aggregate through the fixed templates into an
// Insight. Priority and ID are filled in by the generator afterwards.
func renderInsight(f flag) model.Insight {
	subject := humanize(f.Subject)

	rawData := map[string]any{
		"flag":      string(f.Kind),
		"subject":   f.Subject,
		"severity":  f.Severity,
		"mentions":  f.Mentions,
		"sentiment": f.Sentiment,
	}

	switch f.Kind {
	case flagSentimentDrop:
		rawData["weekly_delta"] = f.Delta
		return model.Insight{
			Type:        model.InsightTypeOptimization,
			Color:       model.InsightColorRed,
			Title:       "Passenger sentiment is dropping",
			Description: fmt.Sprintf("Overall sentiment at %s fell by %.2f over the past week across %d monitored posts.", subject, -f.Delta, f.Mentions),
			ActionText:  "Review this week's operational incidents and publish a response",
			RawData:     rawData,
		}

	case flagCategoryIssue:
		color := model.InsightColorYellow
		if f.Severity == "high" {
			color = model.InsightColorRed
		}
		return model.Insight{
			Type:        model.InsightTypeOptimization,
			Color:       color,
			Title:       fmt.Sprintf("%s is frustrating passengers", subject),
			Description: fmt.Sprintf("%d recent posts mention %s with a mean sentiment of %.2f.", f.Mentions, subject, f.Sentiment),
			ActionText:  fmt.Sprintf("Audit %s processes and brief the responsible team", subject),
			RawData:     rawData,
		}

	case flagOpportunity:
		return model.Insight{
			Type:        model.InsightTypeStrategy,
			Color:       model.InsightColorGreen,
			Title:       fmt.Sprintf("%s is winning praise", subject),
			Description: fmt.Sprintf("%d recent posts mention %s positively (mean sentiment %.2f).", f.Mentions, subject, f.Sentiment),
			ActionText:  fmt.Sprintf("Amplify %s in marketing and passenger communications", subject),
			RawData:     rawData,
		}

	case flagAirlineAlert:
		return model.Insight{
			Type:        model.InsightTypeEngagement,
			Color:       model.InsightColorBlue,
			Title:       fmt.Sprintf("%s passengers are unhappy", subject),
			Description: fmt.Sprintf("%d posts mentioning %s average %.2f sentiment.", f.Mentions, subject, f.Sentiment),
			ActionText:  fmt.Sprintf("Coordinate with %s's station manager on recurring complaints", subject),
			RawData:     rawData,
		}
	}

	return model.Insight{
		Type:        model.InsightTypeEngagement,
		Color:       model.InsightColorBlue,
		Title:       fmt.Sprintf("Activity around %s", subject),
		Description: fmt.Sprintf("%d posts mention %s.", f.Mentions, subject),
		ActionText:  "Review recent posts",
		RawData:     rawData,
	}
}

func humanize(slug string) string {
	return strings.ReplaceAll(slug, "_", " ")
}
