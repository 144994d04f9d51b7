package domain

import "time"

// DefaultSectorIcon is used when a sector is created without an icon.
const DefaultSectorIcon = "Briefcase"

// Expertise is a legal-expertise sector lawyers can practice in.
type Expertise struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	LawyerCount int       `json:"lawyerCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Lawyer is a public attorney profile. UserID links it to the attorney's
// account and is set out of band.
type Lawyer struct {
	ID         string    `json:"_id"`
	UserID     string    `json:"userId,omitempty"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Bio        string    `json:"bio"`
	Avatar     string    `json:"avatar"`
	Sectors    []string  `json:"sectors"`
	Experience int       `json:"experience"`
	Rating     float64   `json:"rating"`
	Available  bool      `json:"available"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// InSector reports whether the lawyer lists sector among their sectors.
func (l *Lawyer) InSector(sector string) bool {
	for _, s := range l.Sectors {
		if s == sector {
			return true
		}
	}
	return false
}
