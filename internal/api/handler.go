package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mr1hm/go-emergency-services/internal/broadcast"
	"github.com/mr1hm/go-emergency-services/internal/models"
	"github.com/mr1hm/go-emergency-services/internal/repository"
)

type Handler struct {
	resolver    Resolver
	reports     repository.ReportRepository
	snapshots   repository.SnapshotRepository
	broadcaster *broadcast.Broadcaster
}

// Resolver is the pipeline entry point the API depends on.
type Resolver interface {
	Resolve(ctx context.Context, coord models.Coordinate) ([]models.EmergencyContact, bool)
}

func NewHandler(resolver Resolver, reports repository.ReportRepository, snapshots repository.SnapshotRepository, broadcaster *broadcast.Broadcaster) *Handler {
	return &Handler{
		resolver:    resolver,
		reports:     reports,
		snapshots:   snapshots,
		broadcaster: broadcaster,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/contacts", h.getContacts)
	r.GET("/api/contacts/geojson", h.getContactsGeoJSON)
	r.GET("/api/contacts/stream", h.streamContacts)
	r.GET("/api/contacts/snapshot", h.getSnapshot)
	r.POST("/api/reports", h.createReport)
	r.GET("/api/reports", h.listReports)
	r.POST("/api/reports/:id/upvote", h.upvoteReport)
	r.GET("/health", h.health)
}

func (h *Handler) getContacts(c *gin.Context) {
	coord, ok := parseCoordinate(c)
	if !ok {
		return
	}

	contacts, degraded := h.resolver.Resolve(c.Request.Context(), coord)
	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"count":    len(contacts),
		"degraded": degraded,
	})
}

func (h *Handler) getContactsGeoJSON(c *gin.Context) {
	coord, ok := parseCoordinate(c)
	if !ok {
		return
	}

	contacts, _ := h.resolver.Resolve(c.Request.Context(), coord)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, toGeoJSON(contacts))
}

func (h *Handler) streamContacts(c *gin.Context) {
	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	c.Stream(func(w io.Writer) bool {
		select {
		case update, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("resolution", update)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) getSnapshot(c *gin.Context) {
	coord, ok := parseCoordinate(c)
	if !ok {
		return
	}

	snap, err := h.snapshots.LatestSnapshot(c.Request.Context(), coord)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot for coordinate"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load snapshot"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

type createReportRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Latitude    float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" binding:"gte=-180,lte=180"`
	ReportedBy  string  `json:"reported_by"`
	Category    string  `json:"category" binding:"required"`
}

func (h *Handler) createReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := &models.CommunityReport{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Coordinate:  models.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude},
		ReportedBy:  req.ReportedBy,
		ReportedAt:  time.Now(),
		Category:    req.Category,
	}

	if err := h.reports.AddReport(c.Request.Context(), report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store report"})
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *Handler) listReports(c *gin.Context) {
	filter := repository.ReportFilter{
		Limit: 50, // Default to 50 reports if limit param not supplied
	}

	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}
	if cat := c.Query("category"); cat != "" {
		filter.Category = cat
	}
	if v := c.Query("verified"); v != "" {
		if verified, err := strconv.ParseBool(v); err == nil {
			filter.Verified = &verified
		}
	}

	reports, err := h.reports.ListReports(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reports"})
		return
	}
	if reports == nil {
		reports = []models.CommunityReport{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

func (h *Handler) upvoteReport(c *gin.Context) {
	id := c.Param("id")

	upvotes, err := h.reports.UpvoteReport(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upvote report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "upvotes": upvotes})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseCoordinate reads and validates lat/lon query params, writing a 400
// response on failure.
func parseCoordinate(c *gin.Context) (models.Coordinate, bool) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query params are required"})
		return models.Coordinate{}, false
	}

	coord := models.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinate out of range"})
		return models.Coordinate{}, false
	}
	return coord, true
}
