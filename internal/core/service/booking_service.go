package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
)

// IdempotencyStore abstracts the Idempotency-Key store (Redis). Keys are
// scoped per user. Reserve must be atomic: of two concurrent calls for the
// same key, only one gets reserved == true.
type IdempotencyStore interface {
	Reserve(ctx context.Context, userID, key string) (bookingID string, reserved bool, err error)
	Complete(ctx context.Context, userID, key, bookingID string) error
	Release(ctx context.Context, userID, key string) error
}

const releaseTimeout = 2 * time.Second

type BookingService struct {
	bookings    ports.BookingRepository
	lawyers     ports.LawyerRepository
	idempotency IdempotencyStore
	log         zerolog.Logger
}

// NewBookingService returns a BookingService. idempotency may be nil, in which
// case Idempotency-Key headers are ignored.
func NewBookingService(
	bookings ports.BookingRepository,
	lawyers ports.LawyerRepository,
	idempotency IdempotencyStore,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings:    bookings,
		lawyers:     lawyers,
		idempotency: idempotency,
		log:         log,
	}
}

// Create books a consultation with an available lawyer. With an idempotency
// key the key is reserved before anything is written: a retry after success
// replays the earlier booking, and a retry racing the first request gets
// domain.ErrIdempotencyConflict instead of a second booking.
func (s *BookingService) Create(ctx context.Context, in ports.CreateBookingInput) (view *ports.BookingView, err error) {
	if in.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(in.LawyerID) == "" || in.Date.IsZero() {
		return nil, fmt.Errorf("%w: lawyerId and date are required", domain.ErrValidation)
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	owned := false
	if key != "" && s.idempotency != nil {
		existingID, reserved, rerr := s.idempotency.Reserve(ctx, in.UserID, key)
		switch {
		case rerr != nil:
			s.log.Warn().Err(rerr).Str("idempotency_key", key).Msg("idempotency reserve failed, creating anyway")
		case reserved:
			owned = true
		case existingID == "":
			return nil, domain.ErrIdempotencyConflict
		default:
			if replayed := s.replay(ctx, in.UserID, key, existingID); replayed != nil {
				return replayed, nil
			}
			// The recorded booking is gone; the new one takes over the key.
			owned = true
		}
	}
	if owned {
		defer func() {
			if err != nil {
				s.release(in.UserID, key)
			}
		}()
	}

	lawyer, err := s.lawyers.FindByID(ctx, in.LawyerID)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if !lawyer.Available {
		return nil, domain.ErrLawyerUnavailable
	}

	now := time.Now().UTC()
	created, err := s.bookings.Create(ctx, &domain.Booking{
		UserID:    in.UserID,
		LawyerID:  lawyer.ID,
		Date:      in.Date.UTC(),
		Status:    domain.BookingPending,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", in.UserID).Msg("failed to create booking")
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if owned {
		if cerr := s.idempotency.Complete(ctx, in.UserID, key, created.ID); cerr != nil {
			s.log.Warn().Err(cerr).Str("idempotency_key", key).Msg("idempotency store failed, key not recorded")
		}
	}

	s.log.Info().
		Str("booking_id", created.ID).
		Str("user_id", in.UserID).
		Str("lawyer_id", lawyer.ID).
		Msg("booking created")
	return &ports.BookingView{Booking: created, Lawyer: summarize(lawyer)}, nil
}

// replay resolves the booking recorded under key. It returns nil when the
// booking no longer exists or belongs to someone else.
func (s *BookingService) replay(ctx context.Context, userID, key, bookingID string) *ports.BookingView {
	existing, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil || existing.UserID != userID {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotent booking no longer resolvable")
		return nil
	}

	view := &ports.BookingView{Booking: existing, Replayed: true}
	if lawyer, err := s.lawyers.FindByID(ctx, existing.LawyerID); err == nil {
		view.Lawyer = summarize(lawyer)
	}
	s.log.Info().Str("idempotency_key", key).Str("booking_id", existing.ID).Msg("idempotent replay")
	return view
}

// release frees a reservation after a failed create. It runs on its own
// context so a cancelled request still lets the client retry.
func (s *BookingService) release(userID, key string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := s.idempotency.Release(ctx, userID, key); err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency release failed")
	}
}

// ListForUser returns the user's bookings, latest date first, each with the
// booked lawyer's summary.
func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]ports.BookingView, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if len(bookings) == 0 {
		return []ports.BookingView{}, nil
	}

	ids := make([]string, 0, len(bookings))
	seen := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if !seen[b.LawyerID] {
			seen[b.LawyerID] = true
			ids = append(ids, b.LawyerID)
		}
	}

	lawyers, err := s.lawyers.FindByIDs(ctx, ids)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	byID := make(map[string]*domain.Lawyer, len(lawyers))
	for _, l := range lawyers {
		byID[l.ID] = l
	}

	views := make([]ports.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, ports.BookingView{Booking: b, Lawyer: summarize(byID[b.LawyerID])})
	}
	return views, nil
}

func summarize(l *domain.Lawyer) *ports.LawyerSummary {
	if l == nil {
		return nil
	}
	return &ports.LawyerSummary{
		ID:      l.ID,
		Name:    l.Name,
		Email:   l.Email,
		Sectors: l.Sectors,
		Avatar:  l.Avatar,
	}
}
