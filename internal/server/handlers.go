package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campuskit/reclaim/internal/model"
	"github.com/campuskit/reclaim/internal/store"
)

type CreateItemRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	Location    string `json:"location"`
	Type        string `json:"type" binding:"required,oneof=lost found"`
}

// CreateItem stores a new report and schedules auto-matching for it.
// The auto-match run happens off the request path and can never fail
// this request.
func (s *Server) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	item := &model.Item{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Type:        model.ItemType(req.Type),
		Status:      model.StatusActive,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Store.CreateItem(c.Request.Context(), item); err != nil {
		log.Printf("Failed to create item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	s.Dispatcher.Enqueue(item.ID)

	c.JSON(http.StatusCreated, item)
}

func (s *Server) GetItem(c *gin.Context) {
	item, err := s.Store.GetItem(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	if err != nil {
		log.Printf("Failed to get item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) ListItems(c *gin.Context) {
	typ := model.ItemType(c.DefaultQuery("type", string(model.TypeLost)))
	if typ != model.TypeLost && typ != model.TypeFound {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be lost or found"})
		return
	}

	items, err := s.Store.ListItems(c.Request.Context(), typ, "", model.StatusActive)
	if err != nil {
		log.Printf("Failed to list items: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Suggestions returns ranked match candidates for an item. An unknown id
// yields an empty list, matching the finder's contract.
func (s *Server) Suggestions(c *gin.Context) {
	itemID := c.Param("id")

	threshold := s.Finder.SuggestThreshold()
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a number between 0 and 100"})
			return
		}
		threshold = v
	}

	matches, err := s.Finder.FindMatches(c.Request.Context(), itemID, threshold)
	if err != nil {
		log.Printf("Failed to find matches for %s: %v", itemID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find matches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item_id":   itemID,
		"threshold": threshold,
		"matches":   matches,
		"count":     len(matches),
	})
}

// AutoMatch triggers the persist flow explicitly (the same flow item
// creation schedules asynchronously).
func (s *Server) AutoMatch(c *gin.Context) {
	itemID := c.Param("id")

	matches, err := s.Finder.CreateAutoMatches(c.Request.Context(), itemID)
	if err != nil {
		log.Printf("Failed to auto-match %s: %v", itemID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to auto-match"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item_id": itemID,
		"matches": matches,
		"count":   len(matches),
	})
}

func (s *Server) ListMatches(c *gin.Context) {
	itemID := c.Param("id")

	matches, err := s.Store.ListMatchesForItem(c.Request.Context(), itemID)
	if err != nil {
		log.Printf("Failed to list matches for %s: %v", itemID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list matches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
}

func (s *Server) Health(c *gin.Context) {
	if err := s.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
