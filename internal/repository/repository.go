package repository

import (
	"context"
	"errors"

	"github.com/mr1hm/go-emergency-services/internal/models"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

type ReportFilter struct {
	Limit    int
	Category string
	Verified *bool
}

type ReportRepository interface {
	AddReport(ctx context.Context, r *models.CommunityReport) error
	ListReports(ctx context.Context, opts ReportFilter) ([]models.CommunityReport, error)
	UpvoteReport(ctx context.Context, id string) (int, error)
}

type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, s *models.Snapshot) error
	LatestSnapshot(ctx context.Context, coord models.Coordinate) (*models.Snapshot, error)
}
