package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/programmableapple/attorney-portfolio/internal/api/metrics"
	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry a booking request safely.
const HeaderIdempotencyKey = "Idempotency-Key"

type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// List returns the caller's bookings, latest date first.
//
// @Summary      List my bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   bookingResponse
// @Failure      401  {object}  errorResponse
// @Router       /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	views, err := h.service.ListForUser(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}

	resp := make([]bookingResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, toBookingResponse(v))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create books a consultation. A repeated Idempotency-Key returns the
// original booking with 200 instead of creating another.
//
// @Summary      Book a consultation
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Client-generated retry key"
// @Param        body             body      createBookingRequest  true   "Booking"
// @Success      201              {object}  bookingResponse
// @Success      200              {object}  bookingResponse  "Replayed booking"
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse  "Same Idempotency-Key still in progress"
// @Router       /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	view, err := h.service.Create(c.Request().Context(), ports.CreateBookingInput{
		UserID:         id.UserID,
		LawyerID:       req.LawyerID,
		Date:           req.Date,
		Notes:          req.Notes,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if view.Replayed {
		metrics.BookingsCreatedTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, toBookingResponse(*view))
	}
	metrics.BookingsCreatedTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, toBookingResponse(*view))
}
