// Package emergency implements the nearby-emergency-services resolution
// pipeline: country-appropriate emergency number, per-category POI fetches
// with contact enrichment, distance ranking, and layered fallback down to a
// static default list. The pipeline itself is stateless; callers own state.
package emergency

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mr1hm/go-emergency-services/internal/models"
)

// DefaultRadiusKm matches the 10 km POI search radius of the mobile client.
const DefaultRadiusKm = 10.0

type countryResolver interface {
	CountryCode(ctx context.Context, coord models.Coordinate) string
}

type categoryFetcher interface {
	Fetch(ctx context.Context, coord models.Coordinate, category models.ServiceCategory, radiusKm float64) []models.EmergencyContact
}

// Resolver orchestrates one resolution run. It never returns an error: every
// internal failure degrades, and an empty outcome is replaced by the static
// default list.
type Resolver struct {
	country  countryResolver
	fetcher  categoryFetcher
	radiusKm float64
}

func NewResolver(country countryResolver, fetcher categoryFetcher, radiusKm float64) *Resolver {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	return &Resolver{
		country:  country,
		fetcher:  fetcher,
		radiusKm: radiusKm,
	}
}

// Resolve produces the ranked contact list for a coordinate. The returned
// list is never empty; degraded reports whether the static default list was
// substituted.
func (r *Resolver) Resolve(ctx context.Context, coord models.Coordinate) (contacts []models.EmergencyContact, degraded bool) {
	if !coord.Valid() {
		slog.Warn("invalid coordinate, returning defaults",
			"lat", coord.Latitude, "lon", coord.Longitude)
		return DefaultContacts(), true
	}

	all := []models.EmergencyContact{r.syntheticEmergency(ctx, coord)}

	// Category fetches are independent: each returns its own list and fetch
	// errors have already been degraded to empty lists inside the fetcher.
	results := make([][]models.EmergencyContact, len(models.SearchCategories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range models.SearchCategories {
		g.Go(func() error {
			results[i] = r.fetcher.Fetch(gctx, coord, category, r.radiusKm)
			return nil
		})
	}
	_ = g.Wait()

	for _, batch := range results {
		all = append(all, batch...)
	}

	return finish(all)
}

// syntheticEmergency builds the per-run generic emergency entry at the user's
// own location, using the country-appropriate dial number.
func (r *Resolver) syntheticEmergency(ctx context.Context, coord models.Coordinate) models.EmergencyContact {
	code := r.country.CountryCode(ctx, coord)
	zero := 0.0
	return models.EmergencyContact{
		ID:         "emergency-1",
		Name:       "Emergency Services",
		DialNumber: DialNumberFor(code),
		Location:   coord,
		DistanceKm: &zero,
		Category:   models.CategoryEmergency,
	}
}

// finish ranks the merged list, substituting the default list when the run
// produced nothing usable. The output is never empty.
func finish(contacts []models.EmergencyContact) ([]models.EmergencyContact, bool) {
	ranked := Rank(contacts)
	if len(ranked) == 0 {
		return DefaultContacts(), true
	}
	return ranked, false
}
