package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
)

type ExpertiseHandler struct {
	service ports.ExpertiseService
}

func NewExpertiseHandler(service ports.ExpertiseService) *ExpertiseHandler {
	return &ExpertiseHandler{service: service}
}

// List returns all sectors sorted by name.
//
// @Summary      List sectors
// @Tags         expertise
// @Produce      json
// @Success      200  {array}  domain.Expertise
// @Router       /expertise [get]
func (h *ExpertiseHandler) List(c echo.Context) error {
	sectors, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sectors)
}

// Create adds a sector.
//
// @Summary      Create a sector
// @Tags         expertise
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      expertiseRequest  true  "Sector"
// @Success      201   {object}  domain.Expertise
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /expertise [post]
func (h *ExpertiseHandler) Create(c echo.Context) error {
	var req expertiseRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update replaces a sector's name, description and icon.
//
// @Summary      Update a sector
// @Tags         expertise
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Sector ID"
// @Param        body  body      expertiseRequest  true  "Sector"
// @Success      200   {object}  domain.Expertise
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /expertise/{id} [put]
func (h *ExpertiseHandler) Update(c echo.Context) error {
	var req expertiseRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a sector.
//
// @Summary      Delete a sector
// @Tags         expertise
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sector ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /expertise/{id} [delete]
func (h *ExpertiseHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Sector deleted"})
}
