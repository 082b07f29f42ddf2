package emergency

import "github.com/mr1hm/go-emergency-services/internal/models"

// defaultContacts is the fixed fallback list used whenever resolution fails
// outright. Always non-empty, one entry per category.
var defaultContacts = []models.EmergencyContact{
	{
		ID:         "1",
		Name:       "City Emergency Services",
		DialNumber: "911",
		Location:   models.Coordinate{Latitude: 26.9124, Longitude: 75.7873},
		Category:   models.CategoryEmergency,
	},
	{
		ID:         "2",
		Name:       "Local Hospital",
		DialNumber: "108",
		Location:   models.Coordinate{Latitude: 26.9118, Longitude: 75.7890},
		Category:   models.CategoryMedical,
	},
	{
		ID:         "3",
		Name:       "Fire Department",
		DialNumber: "101",
		Location:   models.Coordinate{Latitude: 26.9130, Longitude: 75.7880},
		Category:   models.CategoryFire,
	},
	{
		ID:         "4",
		Name:       "Local Police Station",
		DialNumber: "100",
		Location:   models.Coordinate{Latitude: 26.9100, Longitude: 75.7860},
		Category:   models.CategoryPolice,
	},
	{
		ID:         "5",
		Name:       "Rescue Team",
		DialNumber: "112",
		Location:   models.Coordinate{Latitude: 26.9140, Longitude: 75.7900},
		Category:   models.CategoryRescue,
	},
}

// DefaultContacts returns a fresh copy of the static fallback list so callers
// can never mutate the canonical entries.
func DefaultContacts() []models.EmergencyContact {
	out := make([]models.EmergencyContact, len(defaultContacts))
	copy(out, defaultContacts)
	return out
}
