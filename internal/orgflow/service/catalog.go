package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store"
	"github.com/aussiebroadwan/orgflow/pkg/idx"
	"github.com/aussiebroadwan/orgflow/pkg/slogx"
)

// CatalogService manages the domains and industries projects are filed under.
type CatalogService struct {
	Store store.Store
}

// ListDomains returns every domain with its industries nested, both sorted by
// name.
func (s *CatalogService) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	return s.Store.Catalog().ListDomains(ctx)
}

func (s *CatalogService) CreateDomain(ctx context.Context, name string) (domain.Domain, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Domain{}, invalid("name", "is required")
	}

	d := domain.Domain{ID: idx.New().String(), Name: name, Industries: []domain.Industry{}}
	if err := s.Store.Catalog().CreateDomain(ctx, d); err != nil {
		return domain.Domain{}, err
	}

	slogx.FromContext(ctx).Info("domain created", slog.String("domain_id", d.ID))
	return s.Store.Catalog().GetDomain(ctx, d.ID)
}

// CreateIndustry adds an industry to an existing domain. An unknown domain
// gives store.ErrNotFound.
func (s *CatalogService) CreateIndustry(ctx context.Context, domainID, name string) (domain.Industry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Industry{}, invalid("name", "is required")
	}

	if _, err := s.Store.Catalog().GetDomain(ctx, domainID); err != nil {
		return domain.Industry{}, err
	}

	ind := domain.Industry{ID: idx.New().String(), DomainID: domainID, Name: name}
	if err := s.Store.Catalog().CreateIndustry(ctx, ind); err != nil {
		return domain.Industry{}, err
	}

	slogx.FromContext(ctx).Info("industry created",
		slog.String("domain_id", domainID),
		slog.String("industry_id", ind.ID),
	)
	return ind, nil
}

// DeleteDomain removes a domain and its industries in one transaction.
func (s *CatalogService) DeleteDomain(ctx context.Context, id string) error {
	var removed int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.Catalog().DeleteIndustriesByDomain(ctx, id)
		if err != nil {
			return err
		}
		removed = n
		return tx.Catalog().DeleteDomain(ctx, id)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("domain deleted",
		slog.String("domain_id", id),
		slog.Int64("industries_removed", removed),
	)
	return nil
}

func (s *CatalogService) DeleteIndustry(ctx context.Context, id string) error {
	return s.Store.Catalog().DeleteIndustry(ctx, id)
}

// SeedDomain is one entry of a catalog import.
type SeedDomain struct {
	Name       string   `yaml:"name"`
	Industries []string `yaml:"industries"`
}

// SeedResult counts what Seed created.
type SeedResult struct {
	Domains    int
	Industries int
	Skipped    int
}

// Seed imports domains with their industries. Domains that already exist by
// name are skipped as a whole. Everything happens in one transaction.
func (s *CatalogService) Seed(ctx context.Context, seed []SeedDomain) (SeedResult, error) {
	var res SeedResult

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		res = SeedResult{}
		for _, sd := range seed {
			name := strings.TrimSpace(sd.Name)
			if name == "" {
				return invalid("name", "domain name is required")
			}

			d := domain.Domain{ID: idx.New().String(), Name: name}
			err := tx.Catalog().CreateDomain(ctx, d)
			if errors.Is(err, store.ErrAlreadyExists) {
				res.Skipped++
				continue
			}
			if err != nil {
				return err
			}
			res.Domains++

			seen := make(map[string]struct{}, len(sd.Industries))
			for _, indName := range sd.Industries {
				indName = strings.TrimSpace(indName)
				if indName == "" {
					continue
				}
				if _, dup := seen[indName]; dup {
					continue
				}
				seen[indName] = struct{}{}

				ind := domain.Industry{ID: idx.New().String(), DomainID: d.ID, Name: indName}
				if err := tx.Catalog().CreateIndustry(ctx, ind); err != nil {
					return err
				}
				res.Industries++
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	return res, nil
}
