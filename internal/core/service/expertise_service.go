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

type ExpertiseService struct {
	repo    ports.ExpertiseRepository
	lawyers ports.LawyerRepository
	recount RecountQueue
	log     zerolog.Logger
}

// NewExpertiseService returns an ExpertiseService. lawyers and recount are
// used when a sector is renamed; recount may be nil.
func NewExpertiseService(
	repo ports.ExpertiseRepository,
	lawyers ports.LawyerRepository,
	recount RecountQueue,
	log zerolog.Logger,
) *ExpertiseService {
	return &ExpertiseService{repo: repo, lawyers: lawyers, recount: recount, log: log}
}

func (s *ExpertiseService) List(ctx context.Context) ([]*domain.Expertise, error) {
	sectors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sectors: %w", err)
	}
	return sectors, nil
}

// Create adds a sector. Names are trimmed and must be unique; a missing icon
// falls back to domain.DefaultSectorIcon.
func (s *ExpertiseService) Create(ctx context.Context, in ports.ExpertiseInput) (*domain.Expertise, error) {
	in = normalizeExpertise(in)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	if _, err := s.repo.FindByName(ctx, in.Name); err == nil {
		return nil, domain.ErrDuplicateSector
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create sector: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Expertise{
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSector) {
			return nil, domain.ErrDuplicateSector
		}
		return nil, fmt.Errorf("create sector: %w", err)
	}

	s.log.Info().Str("sector", created.Name).Msg("sector created")
	return created, nil
}

// Update edits a sector. A rename is carried over to every lawyer listing the
// old name, and the new name's lawyerCount is queued for a recount.
func (s *ExpertiseService) Update(ctx context.Context, id string, in ports.ExpertiseInput) (*domain.Expertise, error) {
	in = normalizeExpertise(in)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update sector: %w", err)
	}

	if existing, err := s.repo.FindByName(ctx, in.Name); err == nil && existing.ID != id {
		return nil, domain.ErrDuplicateSector
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("update sector: %w", err)
	}

	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update sector: %w", err)
	}

	if current.Name != updated.Name {
		if err := s.renameInProfiles(ctx, current.Name, updated.Name); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

func (s *ExpertiseService) renameInProfiles(ctx context.Context, from, to string) error {
	if s.lawyers == nil {
		return nil
	}
	n, err := s.lawyers.RenameSector(ctx, from, to)
	if err != nil {
		s.log.Error().Err(err).Str("from", from).Str("to", to).Msg("sector renamed but lawyer profiles not updated")
		return fmt.Errorf("update sector: rename in lawyer profiles: %w", err)
	}
	if s.recount != nil {
		s.recount.Enqueue(to)
	}
	s.log.Info().Str("from", from).Str("to", to).Int64("lawyers", n).Msg("sector renamed")
	return nil
}

func (s *ExpertiseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete sector: %w", err)
	}
	s.log.Info().Str("sector_id", id).Msg("sector deleted")
	return nil
}

func normalizeExpertise(in ports.ExpertiseInput) ports.ExpertiseInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Icon = strings.TrimSpace(in.Icon)
	if in.Icon == "" {
		in.Icon = domain.DefaultSectorIcon
	}
	return in
}
