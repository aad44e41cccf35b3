package agent

import (
	"context"
	"fmt"
	"time"

	"aeropulse.app/pulse/internal/airport"
	"aeropulse.app/pulse/internal/model"
)

// InshortsAgent serves a fixed set of demonstration headlines. It exists so a
// fresh deployment has data to render before any platform credentials are
// configured; it is documented as a demo source, not a failure fallback.
type InshortsAgent struct {
	builder *eventBuilder
	now     func() time.Time
}

func NewInshortsAgent(profile *airport.Profile) *InshortsAgent {
	return &InshortsAgent{
		builder: newEventBuilder(profile),
		now:     time.Now,
	}
}

func (a *InshortsAgent) Platform() model.Platform {
	return model.PlatformInshorts
}

func (a *InshortsAgent) SetCredentials(map[string]string) error {
	return nil
}

func (a *InshortsAgent) ValidateCredentials() error {
	return nil
}

var inshortsHeadlines = []struct {
	title   string
	content string
}{
	{
		title:   "Airport opens new security lanes ahead of holiday rush",
		content: "The airport opened four additional security lanes, promising faster screening during the holiday travel peak. Early reports call the checkpoint experience smooth and efficient.",
	},
	{
		title:   "Travelers report long waits at baggage claim",
		content: "Passengers on several evening arrivals describe the baggage claim as slow and crowded, with some bags delayed by over an hour.",
	},
	{
		title:   "New lounge wins praise from frequent flyers",
		content: "The renovated lounge drew excellent reviews in its first week, with travelers calling the seating comfortable and the staff friendly.",
	},
	{
		title:   "Storm forces dozens of cancelled departures",
		content: "A fast-moving storm left dozens of flights cancelled or delayed, stranding travelers overnight. Airlines warned of knock-on disruption into the weekend.",
	},
}

func (a *InshortsAgent) Collect(_ context.Context, _ string) ([]model.SocialEvent, error) {
	now := a.now()

	events := make([]model.SocialEvent, 0, len(inshortsHeadlines))
	for i, h := range inshortsHeadlines {
		events = append(events, a.builder.build(model.PlatformInshorts, rawEvent{
			ID:        fmt.Sprintf("inshorts-demo-%d", i+1),
			Content:   h.content,
			Title:     h.title,
			Timestamp: now.Add(-time.Duration(i) * time.Hour),
		}))
	}

	return events, nil
}
