package api

import (
	"github.com/mr1hm/go-emergency-services/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func toGeoJSON(contacts []models.EmergencyContact) FeatureCollection {
	features := make([]Feature, 0, len(contacts))

	for _, c := range contacts {
		props := map[string]any{
			"id":       c.ID,
			"name":     c.Name,
			"number":   c.DialNumber,
			"category": string(c.Category),
		}
		if c.Address != "" {
			props["address"] = c.Address
		}
		if c.DistanceKm != nil {
			props["distance_km"] = *c.DistanceKm
		}

		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{c.Location.Longitude, c.Location.Latitude},
			},
			Properties: props,
		})
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
