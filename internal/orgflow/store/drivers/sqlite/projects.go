package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
)

type projectsRepo struct{ q querier }

const projectColumns = `id, owner_id, name, domain, industry, start_date, end_date, running, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Domain, &p.Industry,
		&p.Start, &p.End, &p.Running, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *projectsRepo) ListProjects(ctx context.Context, ownerID string, f domain.ProjectFilter) ([]domain.Project, error) {
	var (
		sb   strings.Builder
		args = []any{ownerID}
	)
	sb.WriteString(`SELECT ` + projectColumns + ` FROM projects WHERE owner_id = ?`)

	if s := strings.TrimSpace(f.Search); s != "" {
		sb.WriteString(` AND instr(lower(name), lower(?)) > 0`)
		args = append(args, s)
	}
	if f.Domain != "" {
		sb.WriteString(` AND domain = ?`)
		args = append(args, f.Domain)
	}
	switch f.Status {
	case domain.StatusRunning:
		sb.WriteString(` AND running = 1`)
	case domain.StatusCompleted:
		sb.WriteString(` AND running = 0`)
	}
	sb.WriteString(` ORDER BY created_at, id`)

	rows, err := r.q.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *projectsRepo) GetProject(ctx context.Context, ownerID, id string) (domain.Project, error) {
	p, err := scanProject(r.q.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ? AND owner_id = ?`, id, ownerID))
	return p, mapNotFound(err)
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Name, p.Domain, p.Industry, p.Start, p.End, p.Running, p.CreatedAt, p.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *projectsRepo) UpdateProject(ctx context.Context, p domain.Project) error {
	res, err := r.q.ExecContext(ctx, `
UPDATE projects
SET name = ?, domain = ?, industry = ?, start_date = ?, end_date = ?, running = ?, updated_at = ?
WHERE id = ? AND owner_id = ?`,
		p.Name, p.Domain, p.Industry, p.Start, p.End, p.Running, time.Now().UTC(),
		p.ID, p.OwnerID,
	)
	return affectedOrNotFound(res, err)
}

func (r *projectsRepo) DeleteProject(ctx context.Context, ownerID, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM projects WHERE id = ? AND owner_id = ?`, id, ownerID)
	return affectedOrNotFound(res, err)
}

func (r *projectsRepo) ProjectStats(ctx context.Context, ownerID string) (domain.ProjectStats, error) {
	var st domain.ProjectStats
	err := r.q.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(SUM(CASE WHEN running THEN 1 ELSE 0 END), 0)
FROM projects WHERE owner_id = ?`, ownerID).Scan(&st.Total, &st.Running)
	if err != nil {
		return domain.ProjectStats{}, err
	}
	st.Completed = st.Total - st.Running
	return st, nil
}
