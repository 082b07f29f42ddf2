package emergency

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mr1hm/go-emergency-services/internal/geo"
	"github.com/mr1hm/go-emergency-services/internal/models"
	"github.com/mr1hm/go-emergency-services/internal/overpass"
)

// maxResultsPerCategory caps how many raw provider results are enriched per
// category. Truncation happens in provider-native order, before ranking.
const maxResultsPerCategory = 5

// addrTags are concatenated in this order to build a contact address.
var addrTags = []string{"addr:housenumber", "addr:street", "addr:city", "addr:postcode"}

type poiQuerier interface {
	Query(ctx context.Context, tags []string, radiusMeters int, lat, lon float64) ([]overpass.Element, error)
}

type detailLookup interface {
	Details(ctx context.Context, coord models.Coordinate) (string, error)
}

// Fetcher resolves one category's POIs near a coordinate into enriched
// emergency contacts.
type Fetcher struct {
	poi     poiQuerier
	details detailLookup
}

func NewFetcher(poi poiQuerier, details detailLookup) *Fetcher {
	return &Fetcher{
		poi:     poi,
		details: details,
	}
}

// Fetch queries the POI provider for a category around coord and enriches
// the results. Transport failures degrade to an empty list; a failure while
// enriching a single result drops that result only. Output is unsorted,
// ranking happens centrally.
func (f *Fetcher) Fetch(ctx context.Context, coord models.Coordinate, category models.ServiceCategory, radiusKm float64) []models.EmergencyContact {
	tags := category.OSMTags()
	if len(tags) == 0 {
		return nil
	}

	elements, err := f.poi.Query(ctx, tags, int(radiusKm*1000), coord.Latitude, coord.Longitude)
	if err != nil {
		slog.Warn("POI query failed", "category", category, "error", err)
		return nil
	}

	if len(elements) > maxResultsPerCategory {
		elements = elements[:maxResultsPerCategory]
	}

	contacts := make([]models.EmergencyContact, 0, len(elements))
	for _, el := range elements {
		contact, ok := f.enrich(ctx, coord, category, el)
		if !ok {
			continue
		}
		contacts = append(contacts, contact)
	}

	return contacts
}

// enrich turns a raw provider element into an EmergencyContact. Returns false
// when the element is unusable (not a node, no coordinates, or no dialable
// number after normalization).
func (f *Fetcher) enrich(ctx context.Context, origin models.Coordinate, category models.ServiceCategory, el overpass.Element) (models.EmergencyContact, bool) {
	if el.Type != "node" || (el.Lat == 0 && el.Lon == 0) {
		return models.EmergencyContact{}, false
	}

	location := models.Coordinate{Latitude: el.Lat, Longitude: el.Lon}
	distance := geo.Haversine(origin.Latitude, origin.Longitude, el.Lat, el.Lon)

	number := el.Tags["phone"]
	if number == "" {
		number = el.Tags["contact:phone"]
	}
	address := buildAddress(el.Tags)

	// No phone tag: fall back to a reverse-geocode for a display address and
	// a category-derived placeholder number.
	if number == "" {
		displayName, err := f.details.Details(ctx, location)
		if err != nil {
			slog.Warn("detail lookup failed", "id", el.ID, "error", err)
		} else if displayName != "" {
			address = displayName
		}
		number = defaultDialForTags(el.Tags)
	}

	number = NormalizeDial(number)
	if number == "" {
		return models.EmergencyContact{}, false
	}

	name := el.Tags["name"]
	if name == "" {
		name = category.DefaultName()
	}

	return models.EmergencyContact{
		ID:         fmt.Sprintf("osm-%d", el.ID),
		Name:       name,
		DialNumber: number,
		Location:   location,
		DistanceKm: &distance,
		Category:   category,
		Address:    address,
	}, true
}

func buildAddress(tags map[string]string) string {
	parts := make([]string, 0, len(addrTags))
	for _, key := range addrTags {
		if v := tags[key]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// defaultDialForTags derives a placeholder dial number from the POI's tags.
// Heuristic only, not a verified number.
func defaultDialForTags(tags map[string]string) string {
	if tags["amenity"] == "hospital" || tags["healthcare"] == "hospital" {
		return "108"
	}
	if tags["amenity"] == "police" {
		return "100"
	}
	if tags["amenity"] == "fire_station" {
		return "101"
	}
	return "112"
}
