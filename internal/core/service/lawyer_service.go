package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
)

// RecountQueue schedules an asynchronous sector lawyer-count recount.
type RecountQueue interface {
	Enqueue(sector string)
}

type LawyerService struct {
	lawyers ports.LawyerRepository
	recount RecountQueue
	log     zerolog.Logger
}

// NewLawyerService returns a LawyerService. recount may be nil, in which case
// sector counts are left untouched after profession changes.
func NewLawyerService(lawyers ports.LawyerRepository, recount RecountQueue, log zerolog.Logger) *LawyerService {
	return &LawyerService{lawyers: lawyers, recount: recount, log: log}
}

func (s *LawyerService) List(ctx context.Context, filter ports.LawyerFilter) ([]*domain.Lawyer, error) {
	filter.Sector = strings.TrimSpace(filter.Sector)
	filter.Search = strings.TrimSpace(filter.Search)
	lawyers, err := s.lawyers.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list lawyers: %w", err)
	}
	return lawyers, nil
}

func (s *LawyerService) Get(ctx context.Context, id string) (*domain.Lawyer, error) {
	lawyer, err := s.lawyers.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lawyer: %w", err)
	}
	return lawyer, nil
}

// UpdateProfession replaces a lawyer's sectors. Admins may edit any profile;
// attorneys only the profile linked to their own account. Every sector that
// gained or lost the lawyer is queued for a recount.
func (s *LawyerService) UpdateProfession(ctx context.Context, in ports.UpdateProfessionInput) (*domain.Lawyer, error) {
	current, err := s.lawyers.FindByID(ctx, in.LawyerID)
	if err != nil {
		return nil, fmt.Errorf("update profession: %w", err)
	}

	switch {
	case in.Caller.HasRole(domain.RoleAdmin):
	case in.Caller.HasRole(domain.RoleAttorney):
		if current.UserID == "" || current.UserID != in.Caller.UserID {
			return nil, domain.ErrNotProfileOwner
		}
	default:
		return nil, domain.ErrForbidden
	}

	sectors := cleanSectors(in.Sectors)
	updated, err := s.lawyers.UpdateSectors(ctx, in.LawyerID, sectors)
	if err != nil {
		return nil, fmt.Errorf("update profession: %w", err)
	}

	if s.recount != nil {
		for _, sector := range changedSectors(current.Sectors, sectors) {
			s.recount.Enqueue(sector)
		}
	}

	s.log.Info().
		Str("lawyer_id", updated.ID).
		Str("caller_id", in.Caller.UserID).
		Strs("sectors", sectors).
		Msg("profession updated")
	return updated, nil
}

// cleanSectors trims names and drops blanks and duplicates, keeping order.
func cleanSectors(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// changedSectors returns the symmetric difference of before and after.
func changedSectors(before, after []string) []string {
	inBefore := make(map[string]bool, len(before))
	for _, s := range before {
		inBefore[s] = true
	}
	inAfter := make(map[string]bool, len(after))
	for _, s := range after {
		inAfter[s] = true
	}

	var changed []string
	for _, s := range before {
		if !inAfter[s] {
			changed = append(changed, s)
		}
	}
	for _, s := range after {
		if !inBefore[s] {
			changed = append(changed, s)
		}
	}
	return changed
}
