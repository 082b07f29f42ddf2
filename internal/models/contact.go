package models

// Coordinate is a WGS84 point. Immutable value type.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

type ServiceCategory string

const (
	CategoryEmergency ServiceCategory = "emergency"
	CategoryMedical   ServiceCategory = "medical"
	CategoryFire      ServiceCategory = "fire"
	CategoryPolice    ServiceCategory = "police"
	CategoryRescue    ServiceCategory = "rescue"
)

// Categories lists every service category, synthetic emergency entry included.
var Categories = []ServiceCategory{
	CategoryEmergency,
	CategoryMedical,
	CategoryFire,
	CategoryPolice,
	CategoryRescue,
}

// SearchCategories are the categories resolved against the POI provider.
// The generic emergency entry is synthesized per run, not searched.
var SearchCategories = []ServiceCategory{
	CategoryMedical,
	CategoryFire,
	CategoryPolice,
	CategoryRescue,
}

// osmTags maps each searchable category to the OSM tag filters used to build
// the disjunctive Overpass query. Order matters: it is the query union order.
var osmTags = map[ServiceCategory][]string{
	CategoryMedical: {"amenity=hospital", "amenity=clinic", "healthcare=hospital"},
	CategoryPolice:  {"amenity=police"},
	CategoryFire:    {"amenity=fire_station"},
	CategoryRescue:  {"emergency=ambulance_station"},
}

var defaultNames = map[ServiceCategory]string{
	CategoryMedical: "Hospital",
	CategoryPolice:  "Police Station",
	CategoryFire:    "Fire Station",
	CategoryRescue:  "Rescue Service",
}

func (c ServiceCategory) Valid() bool {
	switch c {
	case CategoryEmergency, CategoryMedical, CategoryFire, CategoryPolice, CategoryRescue:
		return true
	}
	return false
}

// OSMTags returns the provider tag filters for a category. Empty for the
// synthetic emergency category.
func (c ServiceCategory) OSMTags() []string {
	return osmTags[c]
}

// DefaultName is the display name used when a POI carries no name tag.
func (c ServiceCategory) DefaultName() string {
	if n, ok := defaultNames[c]; ok {
		return n
	}
	return "Emergency Service"
}

// EmergencyContact is the unit of pipeline output. Never mutated after
// creation; a result list is replaced wholesale on each resolution run.
type EmergencyContact struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	DialNumber string          `json:"number"`
	Location   Coordinate      `json:"location"`
	DistanceKm *float64        `json:"distance_km"`
	Category   ServiceCategory `json:"category"`
	Address    string          `json:"address,omitempty"`
}
