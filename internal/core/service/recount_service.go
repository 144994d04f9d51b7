package service

import (
	"context"
	"fmt"

	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
)

// RecountService keeps each sector's cached lawyerCount in line with the
// lawyers collection.
type RecountService struct {
	lawyers ports.LawyerRepository
	sectors ports.ExpertiseRepository
}

func NewRecountService(lawyers ports.LawyerRepository, sectors ports.ExpertiseRepository) *RecountService {
	return &RecountService{lawyers: lawyers, sectors: sectors}
}

// Recount recomputes the lawyer count of sector and stores it.
func (s *RecountService) Recount(ctx context.Context, sector string) error {
	n, err := s.lawyers.CountBySector(ctx, sector)
	if err != nil {
		return fmt.Errorf("recount %q: %w", sector, err)
	}
	if err := s.sectors.SetLawyerCount(ctx, sector, n); err != nil {
		return fmt.Errorf("recount %q: %w", sector, err)
	}
	return nil
}
