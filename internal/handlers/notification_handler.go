package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brewpoints/loyalty-backend/internal/models"
	"github.com/brewpoints/loyalty-backend/internal/services"
	"github.com/brewpoints/loyalty-backend/internal/storage"
)

// NotificationHandler handles notification center HTTP requests
type NotificationHandler struct {
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GetNotifications handles GET /notifications
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	notifications, err := h.notificationService.GetNotifications(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkAsRead handles POST /notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	if err := h.notificationService.MarkAsRead(c, c.Param("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllAsRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.notificationService.MarkAllAsRead(c); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteNotification handles DELETE /notifications/:id
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	if err := h.notificationService.DeleteNotification(c, c.Param("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetPreferences handles GET /notifications/preferences
func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.notificationService.GetPreferences(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get preferences: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences handles PATCH /notifications/preferences
func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	// Partial updates merge over the stored preferences
	current, err := h.notificationService.GetPreferences(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get preferences: " + err.Error()})
		return
	}

	var patch map[string]bool
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	applyPreferencePatch(&current, patch)

	updated, err := h.notificationService.UpdatePreferences(c, current)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// RegisterPushToken handles POST /notifications/push-token
func (h *NotificationHandler) RegisterPushToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Push token is required"})
		return
	}

	if err := h.notificationService.RegisterPushToken(c, req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register push token: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func applyPreferencePatch(prefs *models.NotificationPreferences, patch map[string]bool) {
	for key, value := range patch {
		switch key {
		case "email":
			prefs.Email = value
		case "push":
			prefs.Push = value
		case "paymentAlerts":
			prefs.PaymentAlerts = value
		case "rewardAlerts":
			prefs.RewardAlerts = value
		case "offerAlerts":
			prefs.OfferAlerts = value
		case "systemAlerts":
			prefs.SystemAlerts = value
		}
	}
}
