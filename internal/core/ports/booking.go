package ports

import (
	"context"
	"time"

	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
)

// BookingRepository persists bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	// ListByUser returns a user's bookings, latest date first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error)
}

// CreateBookingInput is the DTO for a new booking.
type CreateBookingInput struct {
	UserID         string
	LawyerID       string
	Date           time.Time
	Notes          string
	IdempotencyKey string
}

// LawyerSummary is the lawyer subset embedded in booking views.
type LawyerSummary struct {
	ID      string
	Name    string
	Email   string
	Sectors []string
	Avatar  string
}

// BookingView is a booking with its lawyer resolved. Lawyer is nil when the
// profile no longer exists.
type BookingView struct {
	Booking *domain.Booking
	Lawyer  *LawyerSummary
	// Replayed is true when the Idempotency-Key matched an earlier booking.
	Replayed bool
}

// BookingService handles consultation bookings.
type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*BookingView, error)
	ListForUser(ctx context.Context, userID string) ([]BookingView, error)
}
