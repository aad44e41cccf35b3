package agent

import (
	"context"
	"fmt"
	"log/slog"

	"aeropulse.app/pulse/internal/airport"
	"aeropulse.app/pulse/internal/model"
)

// Manager dispatches collection requests to the registered agent for a
// platform. Credentials are validated before the agent gets to touch the
// network, so a misconfigured platform fails fast with a credentials error.
type Manager struct {
	agents  map[model.Platform]Agent
	profile *airport.Profile
}

func NewManager(profile *airport.Profile, agents ...Agent) *Manager {
	m := &Manager{
		agents:  make(map[model.Platform]Agent, len(agents)),
		profile: profile,
	}
	for _, a := range agents {
		m.agents[a.Platform()] = a
	}
	return m
}

// Platforms returns the registered platforms in declaration order.
func (m *Manager) Platforms() []model.Platform {
	platforms := make([]model.Platform, 0, len(m.agents))
	for _, p := range model.AllPlatforms() {
		if _, ok := m.agents[p]; ok {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

// ConfiguredPlatforms returns the platforms whose credentials currently
// validate. The scheduler uses this so unconfigured platforms don't generate
// a failing task every tick.
func (m *Manager) ConfiguredPlatforms() []model.Platform {
	platforms := make([]model.Platform, 0, len(m.agents))
	for _, p := range m.Platforms() {
		if m.agents[p].ValidateCredentials() == nil {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

// SetCredentials updates credentials for a platform's agent.
func (m *Manager) SetCredentials(platform model.Platform, creds map[string]string) error {
	a, ok := m.agents[platform]
	if !ok {
		return fmt.Errorf("unknown platform %q", platform)
	}
	return a.SetCredentials(creds)
}

// Collect validates credentials, substitutes the airport profile's default
// query when none is given, and delegates to the platform's agent.
func (m *Manager) Collect(ctx context.Context, platform model.Platform, query string) ([]model.SocialEvent, error) {
	a, ok := m.agents[platform]
	if !ok {
		return nil, fmt.Errorf("unknown platform %q", platform)
	}

	if err := a.ValidateCredentials(); err != nil {
		return nil, err
	}

	if query == "" {
		query = m.profile.DefaultQuery()
	}

	events, err := a.Collect(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("collecting from %s: %w", platform, err)
	}

	slog.InfoContext(ctx, "collection completed",
		"platform", platform,
		"events", len(events))

	return events, nil
}
