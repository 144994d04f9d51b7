package handler

import (
	"time"

	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
)

// errorResponse documents the error envelope rendered by the central error
// handler.
type errorResponse struct {
	Error   string `json:"error"   example:"ValidationFailed"`
	Message string `json:"message" example:"email is required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	ID    string      `json:"_id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	Token string      `json:"token"`
}

func toAuthResponse(res *ports.AuthResult) authResponse {
	return authResponse{
		ID:    res.User.ID,
		Name:  res.User.Name,
		Email: res.User.Email,
		Role:  res.User.Role,
		Token: res.Token,
	}
}

// --- Admin ---

type changeRoleRequest struct {
	Role string `json:"role"`
}

// --- Expertise ---

type expertiseRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Icon        string `json:"icon"        validate:"max=64"`
}

func (r expertiseRequest) toInput() ports.ExpertiseInput {
	return ports.ExpertiseInput{Name: r.Name, Description: r.Description, Icon: r.Icon}
}

// --- Lawyers ---

type updateProfessionRequest struct {
	Sectors []string `json:"sectors" validate:"required,dive,required,max=100"`
}

// --- Bookings ---

type createBookingRequest struct {
	LawyerID string    `json:"lawyerId" validate:"required"`
	Date     time.Time `json:"date"     validate:"required"`
	Notes    string    `json:"notes"    validate:"max=2000"`
}

type lawyerSummaryResponse struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Sectors []string `json:"sectors"`
	Avatar  string   `json:"avatar"`
}

// bookingResponse mirrors a booking with lawyerId expanded into the lawyer's
// summary, or null when the profile no longer exists.
type bookingResponse struct {
	ID        string                 `json:"_id"`
	UserID    string                 `json:"userId"`
	Lawyer    *lawyerSummaryResponse `json:"lawyerId"`
	Date      time.Time              `json:"date"`
	Status    domain.BookingStatus   `json:"status"`
	Notes     string                 `json:"notes"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

func toBookingResponse(v ports.BookingView) bookingResponse {
	resp := bookingResponse{
		ID:        v.Booking.ID,
		UserID:    v.Booking.UserID,
		Date:      v.Booking.Date,
		Status:    v.Booking.Status,
		Notes:     v.Booking.Notes,
		CreatedAt: v.Booking.CreatedAt,
		UpdatedAt: v.Booking.UpdatedAt,
	}
	if v.Lawyer != nil {
		sectors := v.Lawyer.Sectors
		if sectors == nil {
			sectors = []string{}
		}
		resp.Lawyer = &lawyerSummaryResponse{
			ID:      v.Lawyer.ID,
			Name:    v.Lawyer.Name,
			Email:   v.Lawyer.Email,
			Sectors: sectors,
			Avatar:  v.Lawyer.Avatar,
		}
	}
	return resp
}
