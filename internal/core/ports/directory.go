package ports

import (
	"context"

	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
)

// LawyerFilter narrows a lawyer listing. Empty fields do not filter.
type LawyerFilter struct {
	Sector string // exact sector name
	Search string // case-insensitive substring of the name
}

// LawyerRepository persists lawyer profiles.
type LawyerRepository interface {
	// List returns matching lawyers sorted by rating, best first.
	List(ctx context.Context, filter LawyerFilter) ([]*domain.Lawyer, error)
	FindByID(ctx context.Context, id string) (*domain.Lawyer, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Lawyer, error)
	UpdateSectors(ctx context.Context, id string, sectors []string) (*domain.Lawyer, error)
	CountBySector(ctx context.Context, sector string) (int64, error)
	// RenameSector replaces from with to in every lawyer's sectors and
	// returns how many profiles changed.
	RenameSector(ctx context.Context, from, to string) (int64, error)
}

// ExpertiseInput is the writable part of a sector.
type ExpertiseInput struct {
	Name        string
	Description string
	Icon        string
}

// ExpertiseRepository persists sectors. Names are unique; Create and Update
// report a collision as domain.ErrDuplicateSector.
type ExpertiseRepository interface {
	// List returns all sectors sorted by name.
	List(ctx context.Context) ([]*domain.Expertise, error)
	FindByID(ctx context.Context, id string) (*domain.Expertise, error)
	FindByName(ctx context.Context, name string) (*domain.Expertise, error)
	Create(ctx context.Context, e *domain.Expertise) (*domain.Expertise, error)
	Update(ctx context.Context, id string, in ExpertiseInput) (*domain.Expertise, error)
	Delete(ctx context.Context, id string) error
	SetLawyerCount(ctx context.Context, name string, count int64) error
}

// ExpertiseService manages sectors.
type ExpertiseService interface {
	List(ctx context.Context) ([]*domain.Expertise, error)
	Create(ctx context.Context, in ExpertiseInput) (*domain.Expertise, error)
	Update(ctx context.Context, id string, in ExpertiseInput) (*domain.Expertise, error)
	Delete(ctx context.Context, id string) error
}

// UpdateProfessionInput carries a profession change and the caller's identity,
// which decides whether the change is allowed.
type UpdateProfessionInput struct {
	LawyerID string
	Sectors  []string
	Caller   domain.AuthenticatedIdentity
}

// LawyerService exposes the lawyer directory.
type LawyerService interface {
	List(ctx context.Context, filter LawyerFilter) ([]*domain.Lawyer, error)
	Get(ctx context.Context, id string) (*domain.Lawyer, error)
	UpdateProfession(ctx context.Context, in UpdateProfessionInput) (*domain.Lawyer, error)
}

// SectorRecounter recomputes the cached lawyer count of a sector.
type SectorRecounter interface {
	Recount(ctx context.Context, sector string) error
}
