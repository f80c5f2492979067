package lesson

import (
	"TutorPlanner/internal/auth"
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LessonHandler struct {
	service *LessonService
	repo    *LessonRepository
}

func NewLessonHandler(service *LessonService, repo *LessonRepository) *LessonHandler {
	return &LessonHandler{service: service, repo: repo}
}

func ownerID(c echo.Context) (primitive.ObjectID, bool) {
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

// ListLessons returns the teacher's lessons for a date range. Defaults to the
// coming week when no range is given.
func (h *LessonHandler) ListLessons(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	from := time.Now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 7)
	if v := c.QueryParam("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid from date"})
		}
		from = parsed
	}
	if v := c.QueryParam("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid to date"})
		}
		to = parsed
	}

	lessons, err := h.repo.ListBetween(context.Background(), Audience{OwnerID: owner}, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list lessons"})
	}
	return c.JSON(http.StatusOK, lessons)
}

func (h *LessonHandler) CreateLesson(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	var req LessonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	l, err := h.service.CreateLesson(context.Background(), owner, req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *LessonHandler) CancelLesson(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid lesson id"})
	}
	l, err := h.service.CancelLesson(context.Background(), owner, id)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LessonHandler) MarkPaid(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid lesson id"})
	}
	var req struct {
		StudentID string `json:"student_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	l, err := h.service.MarkPaid(context.Background(), owner, id, req.StudentID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LessonHandler) DeleteLesson(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid lesson id"})
	}
	if err := h.repo.DeleteLesson(context.Background(), owner, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete lesson"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Lesson deleted"})
}
