package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizzard-app/roster-api/internal/service"
	appErrors "github.com/quizzard-app/roster-api/pkg/errors"
	"github.com/quizzard-app/roster-api/pkg/response"
)

// ClassHandler exposes class listing, roster and lifecycle endpoints.
type ClassHandler struct {
	classes   *service.ClassService
	provision *service.ProvisionService
}

// NewClassHandler constructs a class handler.
func NewClassHandler(classes *service.ClassService, provision *service.ProvisionService) *ClassHandler {
	return &ClassHandler{classes: classes, provision: provision}
}

// List godoc
// @Summary List the operator's classes
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	classes, err := h.classes.ListByOwner(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes)
}

// ListStudents godoc
// @Summary List a class roster sorted by name
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/students [get]
func (h *ClassHandler) ListStudents(c *gin.Context) {
	students, err := h.classes.ListStudents(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Provision godoc
// @Summary Create login accounts for unprovisioned students
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/provision [post]
func (h *ClassHandler) Provision(c *gin.Context) {
	report, err := h.provision.ProvisionAll(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Remove godoc
// @Summary Delete a class and its students
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /classes/{id} [delete]
func (h *ClassHandler) Remove(c *gin.Context) {
	result, err := h.classes.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := appErrors.FromError(err)
		if result != nil {
			// Partial failure: report which documents survived alongside the
			// error so the caller can retry.
			c.JSON(appErr.Status, response.Envelope{Data: result, Error: appErr})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
