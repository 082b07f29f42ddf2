package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-emergency-services/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS community_reports (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			location TEXT,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			reported_by TEXT,
			reported_at DATETIME NOT NULL,
			upvotes INTEGER NOT NULL DEFAULT 0,
			verified INTEGER NOT NULL DEFAULT 0,
			category TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS resolution_snapshots (
			coord_key TEXT PRIMARY KEY,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			contacts BLOB NOT NULL,
			degraded INTEGER NOT NULL,
			resolved_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_reports_reported_at ON community_reports(reported_at);
		CREATE INDEX IF NOT EXISTS idx_reports_category ON community_reports(category);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) AddReport(ctx context.Context, r *models.CommunityReport) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO community_reports
			(id, title, description, location, latitude, longitude, reported_by, reported_at, upvotes, verified, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.Description, r.Location,
		r.Coordinate.Latitude, r.Coordinate.Longitude,
		r.ReportedBy, r.ReportedAt, r.Upvotes, r.Verified, r.Category,
	)
	if err != nil {
		return fmt.Errorf("error inserting report: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListReports(ctx context.Context, opts ReportFilter) ([]models.CommunityReport, error) {
	query := `
		SELECT id, title, description, location, latitude, longitude,
		       reported_by, reported_at, upvotes, verified, category
		FROM community_reports`

	var (
		where []string
		args  []any
	)
	if opts.Category != "" {
		where = append(where, "category = ?")
		args = append(args, opts.Category)
	}
	if opts.Verified != nil {
		where = append(where, "verified = ?")
		args = append(args, *opts.Verified)
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY reported_at DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reports: %w", err)
	}
	defer rows.Close()

	var reports []models.CommunityReport
	for rows.Next() {
		var r models.CommunityReport
		if err := rows.Scan(
			&r.ID, &r.Title, &r.Description, &r.Location,
			&r.Coordinate.Latitude, &r.Coordinate.Longitude,
			&r.ReportedBy, &r.ReportedAt, &r.Upvotes, &r.Verified, &r.Category,
		); err != nil {
			return nil, fmt.Errorf("error scanning report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *SQLiteDB) UpvoteReport(ctx context.Context, id string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE community_reports SET upvotes = upvotes + 1 WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("error upvoting report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading rows affected: %w", err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}

	var upvotes int
	err = s.db.QueryRowContext(ctx,
		`SELECT upvotes FROM community_reports WHERE id = ?`, id).Scan(&upvotes)
	if err != nil {
		return 0, fmt.Errorf("error reading upvotes: %w", err)
	}
	return upvotes, nil
}

func (s *SQLiteDB) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	contacts, err := json.Marshal(snap.Contacts)
	if err != nil {
		return fmt.Errorf("error marshaling contacts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO resolution_snapshots (coord_key, latitude, longitude, contacts, degraded, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(coord_key) DO UPDATE SET
			contacts = excluded.contacts,
			degraded = excluded.degraded,
			resolved_at = excluded.resolved_at`,
		coordKey(snap.Coordinate),
		snap.Coordinate.Latitude, snap.Coordinate.Longitude,
		contacts, snap.Degraded, snap.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteDB) LatestSnapshot(ctx context.Context, coord models.Coordinate) (*models.Snapshot, error) {
	var (
		snap     models.Snapshot
		contacts []byte
		resolved time.Time
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT latitude, longitude, contacts, degraded, resolved_at
		FROM resolution_snapshots WHERE coord_key = ?`,
		coordKey(coord),
	).Scan(&snap.Coordinate.Latitude, &snap.Coordinate.Longitude, &contacts, &snap.Degraded, &resolved)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying snapshot: %w", err)
	}

	if err := json.Unmarshal(contacts, &snap.Contacts); err != nil {
		return nil, fmt.Errorf("error unmarshaling contacts: %w", err)
	}
	snap.ResolvedAt = resolved
	return &snap, nil
}

// coordKey rounds to ~11 m so a watched coordinate maps to a stable row.
func coordKey(c models.Coordinate) string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
