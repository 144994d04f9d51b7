package domain

import "time"

// BookingStatus is the lifecycle state of a consultation booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a consultation requested by a user with a lawyer.
type Booking struct {
	ID        string        `json:"_id"`
	UserID    string        `json:"userId"`
	LawyerID  string        `json:"lawyerId"`
	Date      time.Time     `json:"date"`
	Status    BookingStatus `json:"status"`
	Notes     string        `json:"notes"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
