package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aeropulse.app/pulse/internal/airport"
	"aeropulse.app/pulse/internal/http/dto"
)

type AirportHandler struct {
	profile *airport.Profile
}

func NewAirportHandler(profile *airport.Profile) *AirportHandler {
	return &AirportHandler{profile: profile}
}

func (h *AirportHandler) Config(c *gin.Context) {
	airlines := make([]dto.AirportConfigAirline, 0, len(h.profile.Airlines))
	for _, a := range h.profile.Airlines {
		airlines = append(airlines, dto.AirportConfigAirline{
			Name:     a.Name,
			Slug:     a.Slug,
			Keywords: a.Keywords,
		})
	}

	c.JSON(http.StatusOK, dto.AirportConfigResponse{
		AirportName:     h.profile.AirportName,
		AirportSlug:     h.profile.AirportSlug,
		City:            h.profile.City,
		AirportKeywords: h.profile.AirportKeywords,
		Airlines:        airlines,
		Categories:      h.profile.Categories,
		QueryTerms:      h.profile.QueryTerms,
	})
}
