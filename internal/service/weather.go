package service

import (
	"context"

	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/store"
)

// WeatherService serves stored weather observations for the airport's city.
type WeatherService interface {
	List(ctx context.Context, limit int) ([]model.WeatherObservation, error)
}

type weatherService struct {
	stores *store.Stores
}

func NewWeatherService(stores *store.Stores) WeatherService {
	return &weatherService{stores: stores}
}

func (s *weatherService) List(ctx context.Context, limit int) ([]model.WeatherObservation, error) {
	return s.stores.Weather.List(ctx, limit)
}
