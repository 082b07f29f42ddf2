package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-emergency-services/internal/broadcast"
	"github.com/mr1hm/go-emergency-services/internal/models"
	"github.com/mr1hm/go-emergency-services/internal/repository"
)

type stubResolver struct {
	contacts []models.EmergencyContact
	degraded bool
	gotCoord models.Coordinate
}

func (s *stubResolver) Resolve(ctx context.Context, coord models.Coordinate) ([]models.EmergencyContact, bool) {
	s.gotCoord = coord
	return s.contacts, s.degraded
}

type memoryReports struct {
	reports map[string]*models.CommunityReport
}

func newMemoryReports() *memoryReports {
	return &memoryReports{reports: make(map[string]*models.CommunityReport)}
}

func (m *memoryReports) AddReport(ctx context.Context, r *models.CommunityReport) error {
	m.reports[r.ID] = r
	return nil
}

func (m *memoryReports) ListReports(ctx context.Context, opts repository.ReportFilter) ([]models.CommunityReport, error) {
	var out []models.CommunityReport
	for _, r := range m.reports {
		if opts.Category != "" && r.Category != opts.Category {
			continue
		}
		out = append(out, *r)
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memoryReports) UpvoteReport(ctx context.Context, id string) (int, error) {
	r, ok := m.reports[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	r.Upvotes++
	return r.Upvotes, nil
}

type memorySnapshots struct {
	snapshot *models.Snapshot
}

func (m *memorySnapshots) SaveSnapshot(ctx context.Context, s *models.Snapshot) error {
	m.snapshot = s
	return nil
}

func (m *memorySnapshots) LatestSnapshot(ctx context.Context, coord models.Coordinate) (*models.Snapshot, error) {
	if m.snapshot == nil {
		return nil, repository.ErrNotFound
	}
	return m.snapshot, nil
}

func setupTestRouter(resolver Resolver, reports repository.ReportRepository, snapshots repository.SnapshotRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(resolver, reports, snapshots, broadcast.NewBroadcaster())
	handler.RegisterRoutes(router)
	return router
}

func TestGetContacts_ReturnsRankedList(t *testing.T) {
	dist := 1.5
	resolver := &stubResolver{
		contacts: []models.EmergencyContact{
			{ID: "emergency-1", Name: "Emergency Services", DialNumber: "911", Category: models.CategoryEmergency},
			{ID: "osm-42", Name: "Hospital", DialNumber: "108", DistanceKm: &dist, Category: models.CategoryMedical},
		},
	}
	router := setupTestRouter(resolver, newMemoryReports(), &memorySnapshots{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/contacts?lat=26.9124&lon=75.7873", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Contacts []models.EmergencyContact `json:"contacts"`
		Count    int                       `json:"count"`
		Degraded bool                      `json:"degraded"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if resp.Count != 2 || len(resp.Contacts) != 2 {
		t.Errorf("expected 2 contacts, got count=%d len=%d", resp.Count, len(resp.Contacts))
	}
	if resp.Degraded {
		t.Error("expected degraded=false")
	}
	if resolver.gotCoord.Latitude != 26.9124 {
		t.Errorf("resolver got wrong coordinate: %+v", resolver.gotCoord)
	}
}

func TestGetContacts_MissingParams(t *testing.T) {
	router := setupTestRouter(&stubResolver{}, newMemoryReports(), &memorySnapshots{})

	for _, path := range []string{"/api/contacts", "/api/contacts?lat=26.9", "/api/contacts?lat=abc&lon=75"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", path, w.Code)
		}
	}
}

func TestGetContacts_OutOfRangeCoordinate(t *testing.T) {
	router := setupTestRouter(&stubResolver{}, newMemoryReports(), &memorySnapshots{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/contacts?lat=91&lon=0", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetContactsGeoJSON(t *testing.T) {
	dist := 0.8
	resolver := &stubResolver{
		contacts: []models.EmergencyContact{
			{
				ID: "osm-7", Name: "Fire Station", DialNumber: "101",
				Location:   models.Coordinate{Latitude: 26.913, Longitude: 75.788},
				DistanceKm: &dist,
				Category:   models.CategoryFire,
			},
		},
	}
	router := setupTestRouter(resolver, newMemoryReports(), &memorySnapshots{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/contacts/geojson?lat=26.9124&lon=75.7873", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("expected content-type application/geo+json, got %s", ct)
	}

	var fc FeatureCollection
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Fatalf("unexpected feature collection: %+v", fc)
	}

	f := fc.Features[0]
	// GeoJSON positions are [lon, lat]
	if f.Geometry.Coordinates[0] != 75.788 || f.Geometry.Coordinates[1] != 26.913 {
		t.Errorf("unexpected coordinates: %v", f.Geometry.Coordinates)
	}
	if f.Properties["category"] != "fire" {
		t.Errorf("unexpected category: %v", f.Properties["category"])
	}
}

func TestCreateReport(t *testing.T) {
	reports := newMemoryReports()
	router := setupTestRouter(&stubResolver{}, reports, &memorySnapshots{})

	body, _ := json.Marshal(map[string]any{
		"title":       "Fallen tree blocking road",
		"description": "Large tree down across both lanes",
		"location":    "MI Road",
		"latitude":    26.9124,
		"longitude":   75.7873,
		"reported_by": "resident-9",
		"category":    "storm",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/reports", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created models.CommunityReport
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a generated report id")
	}
	if created.Title != "Fallen tree blocking road" {
		t.Errorf("unexpected title: %s", created.Title)
	}
	if _, ok := reports.reports[created.ID]; !ok {
		t.Error("report not persisted")
	}
}

func TestCreateReport_ValidationFailure(t *testing.T) {
	router := setupTestRouter(&stubResolver{}, newMemoryReports(), &memorySnapshots{})

	// Missing required title and category
	body := []byte(`{"latitude": 26.9, "longitude": 75.8}`)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/reports", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestListReports(t *testing.T) {
	reports := newMemoryReports()
	reports.AddReport(context.Background(), &models.CommunityReport{ID: "r1", Title: "Flood", Category: "flood", ReportedAt: time.Now()})
	reports.AddReport(context.Background(), &models.CommunityReport{ID: "r2", Title: "Fire", Category: "fire", ReportedAt: time.Now()})

	router := setupTestRouter(&stubResolver{}, reports, &memorySnapshots{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/reports?category=fire", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Reports []models.CommunityReport `json:"reports"`
		Count   int                      `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Count != 1 || len(resp.Reports) != 1 || resp.Reports[0].ID != "r2" {
		t.Errorf("unexpected reports response: %+v", resp)
	}
}

func TestUpvoteReport(t *testing.T) {
	reports := newMemoryReports()
	reports.AddReport(context.Background(), &models.CommunityReport{ID: "r1", Title: "Flood", Category: "flood"})

	router := setupTestRouter(&stubResolver{}, reports, &memorySnapshots{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/reports/r1/upvote", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["upvotes"].(float64) != 1 {
		t.Errorf("expected 1 upvote, got %v", resp["upvotes"])
	}
}

func TestUpvoteReport_NotFound(t *testing.T) {
	router := setupTestRouter(&stubResolver{}, newMemoryReports(), &memorySnapshots{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/reports/missing/upvote", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetSnapshot_NotFound(t *testing.T) {
	router := setupTestRouter(&stubResolver{}, newMemoryReports(), &memorySnapshots{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/contacts/snapshot?lat=1&lon=1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetSnapshot_ReturnsStoredResolution(t *testing.T) {
	snap := &memorySnapshots{
		snapshot: &models.Snapshot{
			Coordinate: models.Coordinate{Latitude: 1, Longitude: 1},
			Contacts:   []models.EmergencyContact{{ID: "emergency-1", DialNumber: "112"}},
			ResolvedAt: time.Now(),
		},
	}
	router := setupTestRouter(&stubResolver{}, newMemoryReports(), snap)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/contacts/snapshot?lat=1&lon=1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got models.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(got.Contacts) != 1 || got.Contacts[0].ID != "emergency-1" {
		t.Errorf("unexpected snapshot: %+v", got)
	}
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(&stubResolver{}, newMemoryReports(), &memorySnapshots{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %s", resp["status"])
	}
}
