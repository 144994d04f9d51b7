package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
)

type LawyerHandler struct {
	service ports.LawyerService
}

func NewLawyerHandler(service ports.LawyerService) *LawyerHandler {
	return &LawyerHandler{service: service}
}

// List returns lawyers, best rated first.
//
// @Summary      List lawyers
// @Tags         lawyers
// @Produce      json
// @Param        sector  query     string  false  "Only lawyers practicing this sector"
// @Param        search  query     string  false  "Case-insensitive name substring"
// @Success      200     {array}   domain.Lawyer
// @Router       /lawyers [get]
func (h *LawyerHandler) List(c echo.Context) error {
	lawyers, err := h.service.List(c.Request().Context(), ports.LawyerFilter{
		Sector: c.QueryParam("sector"),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lawyers)
}

// Get returns a single lawyer profile.
//
// @Summary      Get a lawyer
// @Tags         lawyers
// @Produce      json
// @Param        id   path      string  true  "Lawyer ID"
// @Success      200  {object}  domain.Lawyer
// @Failure      404  {object}  errorResponse
// @Router       /lawyers/{id} [get]
func (h *LawyerHandler) Get(c echo.Context) error {
	lawyer, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lawyer)
}

// UpdateProfession replaces the sectors a lawyer practices.
//
// @Summary      Update a lawyer's profession
// @Tags         lawyers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Lawyer ID"
// @Param        body  body      updateProfessionRequest  true  "Sectors"
// @Success      200   {object}  domain.Lawyer
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /lawyers/{id}/profession [put]
func (h *LawyerHandler) UpdateProfession(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfessionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	lawyer, err := h.service.UpdateProfession(c.Request().Context(), ports.UpdateProfessionInput{
		LawyerID: c.Param("id"),
		Sectors:  req.Sectors,
		Caller:   id,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lawyer)
}
