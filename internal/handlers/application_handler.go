package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roiro0607-create/Between/internal/models"
	"github.com/roiro0607-create/Between/internal/repository"
)

// ApplicationHandler handles HTTP requests for applications.
type ApplicationHandler struct {
	apps   repository.ApplicationRepository
	logger *zap.Logger
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(apps repository.ApplicationRepository, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		apps:   apps,
		logger: logger,
	}
}

func (h *ApplicationHandler) List(c *gin.Context) {
	var filter *repository.ApplicationFilter
	if eventID := c.Query("eventId"); eventID != "" {
		filter = &repository.ApplicationFilter{EventID: eventID}
	}

	apps, err := h.apps.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list applications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) Create(c *gin.Context) {
	var req models.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.apps.Create(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create application", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.apps.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondApplicationError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Patch(c *gin.Context) {
	var patch models.ApplicationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.apps.Patch(c.Request.Context(), c.Param("id"), &patch)
	if err != nil {
		h.respondApplicationError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) respondApplicationError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrApplicationNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	h.logger.Error("Application operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
