package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roiro0607-create/Between/internal/models"
	"github.com/roiro0607-create/Between/internal/repository"
	"github.com/roiro0607-create/Between/internal/services"
)

// EventHandler handles HTTP requests for events and applicant selection.
type EventHandler struct {
	events    repository.EventRepository
	selection *services.SelectionService
	auth      *services.AuthService
	logger    *zap.Logger
}

type SelectRequest struct {
	ApplicationID string `json:"applicationId" binding:"required"`
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events repository.EventRepository, selection *services.SelectionService, auth *services.AuthService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		events:    events,
		selection: selection,
		auth:      auth,
		logger:    logger,
	}
}

func (h *EventHandler) List(c *gin.Context) {
	var filter *repository.EventFilter
	if creatorID := c.Query("creatorId"); creatorID != "" {
		filter = &repository.EventFilter{CreatorID: creatorID}
	}

	events, err := h.events.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// Create makes a new event. A valid bearer token attributes the event to its
// holder; without one the event is anonymous and expires after seven days.
func (h *EventHandler) Create(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var creatorID *string
	if token, ok := bearerToken(c); ok {
		if userID := h.auth.Verify(token); userID != "" {
			creatorID = &userID
		}
	}

	event, err := h.events.Create(c.Request.Context(), &req, creatorID)
	if err != nil {
		h.logger.Error("Failed to create event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Patch(c *gin.Context) {
	var patch models.EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.events.Patch(c.Request.Context(), c.Param("id"), &patch)
	if err != nil {
		h.respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Replace(c *gin.Context) {
	var patch models.EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.events.Replace(c.Request.Context(), c.Param("id"), &patch)
	if err != nil {
		h.respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

func (h *EventHandler) Select(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, app, err := h.selection.Select(c.Request.Context(), c.Param("id"), req.ApplicationID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, repository.ErrApplicationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		case errors.Is(err, services.ErrCapacityReached), errors.Is(err, services.ErrAlreadySelected):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Selection failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event, "application": app})
}

func (h *EventHandler) respondEventError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	h.logger.Error("Event operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
