package emergency

import (
	"context"
	"errors"

	"github.com/mr1hm/go-emergency-services/internal/models"
)

// ErrPermissionDenied is returned by a LocationProvider when the device
// refuses to share its position. Terminal for the run: the session falls
// back to defaults without attempting country or POI lookups.
var ErrPermissionDenied = errors.New("location permission denied")

// LocationProvider yields the coordinate a resolution run starts from.
type LocationProvider interface {
	Current(ctx context.Context) (models.Coordinate, error)
}

// StaticLocation is a LocationProvider pinned to a fixed coordinate, used by
// the server's background refresh loop.
type StaticLocation struct {
	Coord models.Coordinate
}

func (s StaticLocation) Current(ctx context.Context) (models.Coordinate, error) {
	return s.Coord, nil
}
