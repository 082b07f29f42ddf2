package models

import "time"

// CommunityReport is a user-submitted incident report, persisted alongside
// the resolution pipeline as a sibling subsystem.
type CommunityReport struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Coordinate  Coordinate `json:"coordinates"`
	ReportedBy  string     `json:"reported_by"`
	ReportedAt  time.Time  `json:"reported_at"`
	Upvotes     int        `json:"upvotes"`
	Verified    bool       `json:"verified"`
	Category    string     `json:"category"`
}

// Snapshot is the last completed resolution for a watched coordinate,
// persisted so the dashboard's "last known" view survives restarts.
type Snapshot struct {
	Coordinate Coordinate         `json:"coordinate"`
	Contacts   []EmergencyContact `json:"contacts"`
	Degraded   bool               `json:"degraded"`
	ResolvedAt time.Time          `json:"resolved_at"`
}
