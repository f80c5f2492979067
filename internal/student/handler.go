package student

import (
	"TutorPlanner/internal/auth"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StudentHandler struct {
	service *StudentService
	repo    *StudentRepository
}

func NewStudentHandler(service *StudentService, repo *StudentRepository) *StudentHandler {
	return &StudentHandler{service: service, repo: repo}
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

func (h *StudentHandler) ListStudents(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	students, err := h.repo.ListByOwner(context.Background(), owner)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list students"})
	}
	return c.JSON(http.StatusOK, students)
}

func (h *StudentHandler) CreateStudent(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	var req StudentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	st, err := h.service.CreateStudent(context.Background(), owner, req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, st)
}

func (h *StudentHandler) UpdateStudent(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid student id"})
	}
	var req StudentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	st, err := h.service.UpdateStudent(context.Background(), owner, id, req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, st)
}

func (h *StudentHandler) DeleteStudent(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid student id"})
	}
	if err := h.repo.DeleteStudent(context.Background(), owner, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete student"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Student deleted"})
}

func (h *StudentHandler) ListGroups(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	groups, err := h.repo.ListGroupsByOwner(context.Background(), owner)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list groups"})
	}
	return c.JSON(http.StatusOK, groups)
}

func (h *StudentHandler) CreateGroup(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	var req GroupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	g, err := h.service.CreateGroup(context.Background(), owner, req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, g)
}

func (h *StudentHandler) UpdateGroup(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid group id"})
	}
	var req GroupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	g, err := h.service.UpdateGroup(context.Background(), owner, id, req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, g)
}

func (h *StudentHandler) DeleteGroup(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid group id"})
	}
	if err := h.repo.DeleteGroup(context.Background(), owner, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete group"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Group deleted"})
}
