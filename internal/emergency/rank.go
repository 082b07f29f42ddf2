package emergency

import (
	"sort"

	"github.com/mr1hm/go-emergency-services/internal/models"
)

// Rank returns the contacts sorted ascending by distance. A nil distance
// sorts as zero. The sort is stable, so ties keep their original order, and
// the input slice is left untouched.
func Rank(contacts []models.EmergencyContact) []models.EmergencyContact {
	ranked := make([]models.EmergencyContact, len(contacts))
	copy(ranked, contacts)

	sort.SliceStable(ranked, func(i, j int) bool {
		return sortDistance(ranked[i]) < sortDistance(ranked[j])
	})
	return ranked
}

func sortDistance(c models.EmergencyContact) float64 {
	if c.DistanceKm == nil {
		return 0
	}
	return *c.DistanceKm
}
