package domain

import "time"

// Domain is a business domain in the catalog, e.g. "Healthcare".
type Domain struct {
	ID         string
	Name       string
	Industries []Industry // ordered by name
	CreatedAt  time.Time
}

// Industry belongs to exactly one Domain.
type Industry struct {
	ID        string
	DomainID  string
	Name      string
	CreatedAt time.Time
}

// HasIndustry reports whether d lists an industry called name.
func (d Domain) HasIndustry(name string) bool {
	for _, ind := range d.Industries {
		if ind.Name == name {
			return true
		}
	}
	return false
}
