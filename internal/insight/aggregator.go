package insight

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"aeropulse.app/pulse/common/id"
	"aeropulse.app/pulse/common/logger"
	"aeropulse.app/pulse/internal/airport"
	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/store"
)

const (
	analysisWindow = 30 * 24 * time.Hour
	recentWindow   = 7 * 24 * time.Hour

	deltaDropThreshold       = -0.2
	categoryIssueThreshold   = -0.3
	categoryHighThreshold    = -0.5
	opportunityThreshold     = 0.5
	airlineAlertThreshold    = -0.3
	categoryIssueMinMentions = 5
	opportunityMinMentions   = 3
	airlineAlertMinMentions  = 3

	maxInsights = 5
)

// categoryAggregate is the per-category (or per-airline) slice of the
// analysis: how often it was mentioned and the mean sentiment of those
// mentions.
type categoryAggregate struct {
	Name          string
	Mentions      int
	MeanSentiment float64
}

// Analysis holds every aggregate computed over the 30-day event window.
type Analysis struct {
	TotalEvents     int
	RecentMean      float64
	OlderMean       float64
	WeeklyDelta     float64
	Categories      []categoryAggregate
	Airlines        []categoryAggregate
	PlatformCounts  map[string]int
	WindowStart     time.Time
	RecentWindowCut time.Time
}

// Generator turns stored events into ranked insights. Insights are
// regenerated wholesale on every call; nothing is mutated in place.
type Generator struct {
	events  store.EventStore
	profile *airport.Profile
	now     func() time.Time
}

func NewGenerator(events store.EventStore, profile *airport.Profile) *Generator {
	return &Generator{
		events:  events,
		profile: profile,
		now:     time.Now,
	}
}

func (g *Generator) Generate(ctx context.Context) ([]model.Insight, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "pulse.insight.generator",
	})

	analysis, err := g.Analyze(ctx)
	if err != nil {
		return nil, err
	}

	flags := g.flag(analysis)

	insights := make([]model.Insight, 0, len(flags))
	for _, f := range flags {
		insight := renderInsight(f)
		insight.ID = id.New()
		insight.Priority = priorityScore(insight.Color, insight.Type, f.Severity, f.Mentions, f.Sentiment)
		insights = append(insights, insight)
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority > insights[j].Priority
	})
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}

	slog.InfoContext(ctx, "insights generated",
		"events_analyzed", analysis.TotalEvents,
		"flags", len(flags),
		"insights", len(insights))

	return insights, nil
}

// Analyze pulls the last 30 days of events and computes the window means,
// the weekly delta, and the category/airline/platform aggregates.
func (g *Generator) Analyze(ctx context.Context) (*Analysis, error) {
	now := g.now()
	windowStart := now.Add(-analysisWindow)
	recentCut := now.Add(-recentWindow)

	events, err := g.events.ListRecent(ctx, windowStart, 0)
	if err != nil {
		return nil, fmt.Errorf("loading events for analysis: %w", err)
	}

	analysis := &Analysis{
		TotalEvents:     len(events),
		PlatformCounts:  make(map[string]int),
		WindowStart:     windowStart,
		RecentWindowCut: recentCut,
	}

	var recentSum, olderSum float64
	var recentCount, olderCount int

	categoryStats := make(map[string]*categoryAggregate)
	airlineStats := make(map[string]*categoryAggregate)

	for _, e := range events {
		analysis.PlatformCounts[string(e.Platform)]++

		overall := float64(e.Sentiment.OverallSentiment)
		if e.TimestampUTC.After(recentCut) {
			recentSum += overall
			recentCount++
		} else {
			olderSum += overall
			olderCount++
		}

		for category, score := range e.Sentiment.Categories {
			if score == nil {
				continue
			}
			agg, ok := categoryStats[category]
			if !ok {
				agg = &categoryAggregate{Name: category}
				categoryStats[category] = agg
			}
			agg.Mentions++
			agg.MeanSentiment += *score
		}

		if e.AirlineMentioned != nil {
			agg, ok := airlineStats[*e.AirlineMentioned]
			if !ok {
				agg = &categoryAggregate{Name: *e.AirlineMentioned}
				airlineStats[*e.AirlineMentioned] = agg
			}
			agg.Mentions++
			agg.MeanSentiment += overall
		}
	}

	if recentCount > 0 {
		analysis.RecentMean = recentSum / float64(recentCount)
	}
	if olderCount > 0 {
		analysis.OlderMean = olderSum / float64(olderCount)
	}
	// Delta only means something when both windows have data; an empty older
	// window would otherwise read as a swing from zero.
	if recentCount > 0 && olderCount > 0 {
		analysis.WeeklyDelta = analysis.RecentMean - analysis.OlderMean
	}

	analysis.Categories = finalizeAggregates(categoryStats)
	analysis.Airlines = finalizeAggregates(airlineStats)

	return analysis, nil
}

func finalizeAggregates(stats map[string]*categoryAggregate) []categoryAggregate {
	out := make([]categoryAggregate, 0, len(stats))
	for _, agg := range stats {
		if agg.Mentions > 0 {
			agg.MeanSentiment /= float64(agg.Mentions)
		}
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type flagKind string

const (
	flagSentimentDrop flagKind = "sentiment_drop"
	flagCategoryIssue flagKind = "category_issue"
	flagOpportunity   flagKind = "opportunity"
	flagAirlineAlert  flagKind = "airline_alert"
)

type flag struct {
	Kind      flagKind
	Subject   string
	Severity  string
	Mentions  int
	Sentiment float64
	Delta     float64
}

func (g *Generator) flag(analysis *Analysis) []flag {
	var flags []flag

	if analysis.WeeklyDelta < deltaDropThreshold {
		flags = append(flags, flag{
			Kind:      flagSentimentDrop,
			Subject:   g.profile.AirportName,
			Severity:  "high",
			Mentions:  analysis.TotalEvents,
			Sentiment: analysis.RecentMean,
			Delta:     analysis.WeeklyDelta,
		})
	}

	for _, cat := range analysis.Categories {
		switch {
		case cat.MeanSentiment < categoryIssueThreshold && cat.Mentions > categoryIssueMinMentions:
			severity := "medium"
			if cat.MeanSentiment < categoryHighThreshold {
				severity = "high"
			}
			flags = append(flags, flag{
				Kind:      flagCategoryIssue,
				Subject:   cat.Name,
				Severity:  severity,
				Mentions:  cat.Mentions,
				Sentiment: cat.MeanSentiment,
			})
		case cat.MeanSentiment > opportunityThreshold && cat.Mentions > opportunityMinMentions:
			flags = append(flags, flag{
				Kind:      flagOpportunity,
				Subject:   cat.Name,
				Severity:  "low",
				Mentions:  cat.Mentions,
				Sentiment: cat.MeanSentiment,
			})
		}
	}

	for _, airline := range analysis.Airlines {
		if airline.MeanSentiment < airlineAlertThreshold && airline.Mentions > airlineAlertMinMentions {
			flags = append(flags, flag{
				Kind:      flagAirlineAlert,
				Subject:   airline.Name,
				Severity:  "medium",
				Mentions:  airline.Mentions,
				Sentiment: airline.MeanSentiment,
			})
		}
	}

	return flags
}
