package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solana-fee-advisor/internal/notifications"
	"solana-fee-advisor/internal/storage"
)

const (
	msgInvalidUserID   = "Invalid user ID format"
	msgInvalidAlertID  = "Invalid alert ID format"
	msgAlertIDRequired = "Alert ID is required"
	msgSettingsMissing = "User ID and settings are required"
	msgAlertNotFound   = "Alert not found"
)

// handleListNotifications serves a user's alerts, oldest first.
func (s *Server) handleListNotifications(c *gin.Context) {
	userID, err := strconv.ParseInt(c.DefaultQuery("userId", "1"), 10, 64)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidUserID)
		return
	}

	alerts, err := s.notifications.List(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("list notifications", zap.Int64("user_id", userID), zap.Error(err))
		errorJSON(c, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	c.JSON(http.StatusOK, alerts)
}

type settingsRequest struct {
	UserID   looseString            `json:"userId"`
	Settings map[string]interface{} `json:"settings"`
}

// handleSaveSettings validates and echoes notification settings.
func (s *Server) handleSaveSettings(c *gin.Context) {
	var req settingsRequest
	if err := decodeOptionalJSON(c.Request.Body, &req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if !req.UserID.present() || req.Settings == nil {
		errorJSON(c, http.StatusBadRequest, msgSettingsMissing)
		return
	}
	userID, err := req.UserID.parseInt()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidUserID)
		return
	}
	// A zero user id counts as missing.
	if userID == 0 {
		errorJSON(c, http.StatusBadRequest, msgSettingsMissing)
		return
	}
	if err := s.notifications.ValidateSettings(req.Settings); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "settings": req.Settings})
}

type sampleRequest struct {
	UserID looseString `json:"userId"`
}

// handleCreateSamples inserts the demo alerts for a user.
func (s *Server) handleCreateSamples(c *gin.Context) {
	var req sampleRequest
	if err := decodeOptionalJSON(c.Request.Body, &req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	userID := notifications.DefaultUserID
	if req.UserID.present() {
		id, err := req.UserID.parseInt()
		if err != nil {
			errorJSON(c, http.StatusBadRequest, msgInvalidUserID)
			return
		}
		userID = id
	}

	inserted, err := s.notifications.CreateSamples(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("create sample notifications", zap.Int64("user_id", userID), zap.Error(err))
		errorJSON(c, http.StatusInternalServerError, "Failed to create sample notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"count":         len(inserted),
		"notifications": inserted,
	})
}

type markReadRequest struct {
	AlertID looseString `json:"alertId"`
}

// handleMarkRead flags an alert as read.
func (s *Server) handleMarkRead(c *gin.Context) {
	var req markReadRequest
	if err := decodeOptionalJSON(c.Request.Body, &req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if !req.AlertID.present() {
		errorJSON(c, http.StatusBadRequest, msgAlertIDRequired)
		return
	}

	alertID, err := req.AlertID.parseInt()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidAlertID)
		return
	}

	if err := s.notifications.MarkRead(c.Request.Context(), alertID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, msgAlertNotFound)
			return
		}
		s.logger.Error("mark notification read", zap.Int64("alert_id", alertID), zap.Error(err))
		errorJSON(c, http.StatusInternalServerError, "Failed to mark notification as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
