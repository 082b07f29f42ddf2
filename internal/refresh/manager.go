// Package refresh re-resolves each watched coordinate on a fixed interval,
// persisting snapshots and publishing updates. Modeled as a scheduled task
// with an explicit cancellation handle rather than a free-running interval.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mr1hm/go-emergency-services/internal/broadcast"
	"github.com/mr1hm/go-emergency-services/internal/config"
	"github.com/mr1hm/go-emergency-services/internal/models"
	"github.com/mr1hm/go-emergency-services/internal/repository"
	"github.com/mr1hm/go-emergency-services/internal/worker"
)

type resolver interface {
	Resolve(ctx context.Context, coord models.Coordinate) ([]models.EmergencyContact, bool)
}

type Manager struct {
	cfg         *config.Config
	resolver    resolver
	snapshots   repository.SnapshotRepository
	broadcaster *broadcast.Broadcaster
	pool        *worker.Pool[models.Coordinate]
	wg          sync.WaitGroup
}

func NewManager(cfg *config.Config, r resolver, snapshots repository.SnapshotRepository, broadcaster *broadcast.Broadcaster) *Manager {
	return &Manager{
		cfg:         cfg,
		resolver:    r,
		snapshots:   snapshots,
		broadcaster: broadcaster,
	}
}

func (m *Manager) Start(ctx context.Context) {
	processor := func(ctx context.Context, coord models.Coordinate) error {
		contacts, degraded := m.resolver.Resolve(ctx, coord)

		snap := &models.Snapshot{
			Coordinate: coord,
			Contacts:   contacts,
			Degraded:   degraded,
			ResolvedAt: time.Now(),
		}
		if m.snapshots != nil {
			if err := m.snapshots.SaveSnapshot(ctx, snap); err != nil {
				slog.Error("error saving snapshot", "lat", coord.Latitude, "lon", coord.Longitude, "error", err)
			}
		}

		if m.broadcaster != nil {
			m.broadcaster.Broadcast(broadcast.Update{
				Coordinate: coord,
				Contacts:   contacts,
				Degraded:   degraded,
				ResolvedAt: snap.ResolvedAt,
			})
		}

		slog.Info("refreshed contacts",
			"lat", coord.Latitude, "lon", coord.Longitude,
			"count", len(contacts), "degraded", degraded)
		return nil
	}

	m.pool = worker.NewPool(m.cfg.Worker.Count, m.cfg.Worker.BufferSize, processor)
	m.pool.Start(ctx)

	if len(m.cfg.Refresh.Watch) > 0 {
		m.wg.Add(1)
		go m.runTicker(ctx)
	}
}

func (m *Manager) runTicker(ctx context.Context) {
	defer m.wg.Done()
	slog.Info("starting refresh loop",
		"interval", m.cfg.Refresh.Interval, "watched", len(m.cfg.Refresh.Watch))

	ticker := time.NewTicker(m.cfg.Refresh.Interval)
	defer ticker.Stop()

	// Initial refresh
	m.refreshAll()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh loop shutting down")
			return
		case <-ticker.C:
			m.refreshAll()
		}
	}
}

func (m *Manager) refreshAll() {
	for _, coord := range m.cfg.Refresh.Watch {
		m.pool.Submit(coord)
	}
}

func (m *Manager) Stop() {
	m.wg.Wait()
	m.pool.Stop()
	slog.Info("refresh manager stopped")
}
