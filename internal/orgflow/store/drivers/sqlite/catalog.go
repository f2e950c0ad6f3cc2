package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
)

type catalogRepo struct{ q querier }

// listDomainsSQL joins every domain to its industries so one round trip
// yields the nested listing; domains without industries come back with NULLs.
const listDomainsSQL = `
SELECT d.id, d.name, d.created_at, i.id, i.name, i.created_at
FROM domains d
LEFT JOIN industries i ON i.domain_id = d.id
%s
ORDER BY d.name, i.name`

func (r *catalogRepo) queryDomains(ctx context.Context, where string, args ...any) ([]domain.Domain, error) {
	rows, err := r.q.QueryContext(ctx, fmt.Sprintf(listDomainsSQL, where), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Domain, 0)
	for rows.Next() {
		var (
			d        domain.Domain
			indID    sql.NullString
			indName  sql.NullString
			indStamp sql.NullTime
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &indID, &indName, &indStamp); err != nil {
			return nil, err
		}

		if n := len(out); n == 0 || out[n-1].ID != d.ID {
			d.Industries = make([]domain.Industry, 0)
			out = append(out, d)
		}
		if indID.Valid {
			last := &out[len(out)-1]
			last.Industries = append(last.Industries, domain.Industry{
				ID:        indID.String,
				DomainID:  d.ID,
				Name:      indName.String,
				CreatedAt: indStamp.Time,
			})
		}
	}
	return out, rows.Err()
}

func (r *catalogRepo) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	return r.queryDomains(ctx, "")
}

func (r *catalogRepo) GetDomain(ctx context.Context, id string) (domain.Domain, error) {
	return r.oneDomain(r.queryDomains(ctx, "WHERE d.id = ?", id))
}

func (r *catalogRepo) GetDomainByName(ctx context.Context, name string) (domain.Domain, error) {
	return r.oneDomain(r.queryDomains(ctx, "WHERE d.name = ?", name))
}

func (r *catalogRepo) oneDomain(ds []domain.Domain, err error) (domain.Domain, error) {
	if err != nil {
		return domain.Domain{}, err
	}
	if len(ds) == 0 {
		return domain.Domain{}, mapNotFound(sql.ErrNoRows)
	}
	return ds[0], nil
}

func (r *catalogRepo) CreateDomain(ctx context.Context, d domain.Domain) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO domains (id, name, created_at) VALUES (?, ?, ?)`,
		d.ID, d.Name, d.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *catalogRepo) DeleteDomain(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM domains WHERE id = ?`, id)
	return affectedOrNotFound(res, err)
}

func (r *catalogRepo) CreateIndustry(ctx context.Context, ind domain.Industry) error {
	if ind.CreatedAt.IsZero() {
		ind.CreatedAt = time.Now().UTC()
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO industries (id, domain_id, name, created_at) VALUES (?, ?, ?, ?)`,
		ind.ID, ind.DomainID, ind.Name, ind.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *catalogRepo) DeleteIndustry(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM industries WHERE id = ?`, id)
	return affectedOrNotFound(res, err)
}

func (r *catalogRepo) DeleteIndustriesByDomain(ctx context.Context, domainID string) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM industries WHERE domain_id = ?`, domainID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
