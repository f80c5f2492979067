package notification

import (
	"TutorPlanner/internal/auth"
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler exposes the trigger endpoint, the inbox and the
// settings endpoints.
type NotificationHandler struct {
	service    *NotificationService
	repo       *NotificationRepository
	cronSecret string
}

func NewNotificationHandler(service *NotificationService, repo *NotificationRepository) *NotificationHandler {
	return &NotificationHandler{
		service:    service,
		repo:       repo,
		cronSecret: os.Getenv("CRON_SECRET"),
	}
}

// Run is the single trigger endpoint with two auth paths: a shared secret
// runs the global batch, a bearer token runs a self-check for that user
// only.
func (h *NotificationHandler) Run(c echo.Context) error {
	if secret := c.QueryParam("secret"); secret != "" {
		if h.cronSecret == "" || secret != h.cronSecret {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Invalid secret"})
		}
		batch, err := h.service.ProcessAll(context.Background())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Notification batch failed"})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"mode":      "global",
			"processed": batch.Processed,
			"results":   batch.Results,
		})
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing Token"})
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	claims, err := auth.ClaimsFromToken(tokenString)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid Token"})
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user id"})
	}

	result := h.service.ProcessUser(context.Background(), id)
	if !result.Success {
		if result.Error == "user not found" {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Notification run failed"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"mode":   "individual",
		"result": result,
	})
}

func userIDFromContext(c echo.Context) (primitive.ObjectID, bool) {
	claims, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || claims == nil {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	notifications, err := h.repo.ListInbox(context.Background(), userID, 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list notifications"})
	}
	return c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid notification id"})
	}
	if err := h.repo.MarkRead(context.Background(), userID, id); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification marked read"})
}

func (h *NotificationHandler) GetSettings(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	settings, err := h.repo.GetOrCreateSettings(context.Background(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load settings"})
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *NotificationHandler) UpdateSettings(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	current, err := h.repo.GetOrCreateSettings(context.Background(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load settings"})
	}

	var req Settings
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if _, ok := parseHHMM(req.QuietHoursStart); !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "quiet_hours_start must be HH:MM"})
	}
	if _, ok := parseHHMM(req.QuietHoursEnd); !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "quiet_hours_end must be HH:MM"})
	}

	// identity fields are never client-controlled
	req.ID = current.ID
	req.UserID = userID
	if err := h.repo.UpdateSettings(context.Background(), &req); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update settings"})
	}
	return c.JSON(http.StatusOK, req)
}
