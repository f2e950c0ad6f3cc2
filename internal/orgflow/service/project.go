package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store"
	"github.com/aussiebroadwan/orgflow/pkg/idx"
	"github.com/aussiebroadwan/orgflow/pkg/slogx"
)

// ProjectService runs the per-user project dashboard.
type ProjectService struct {
	Store store.Store

	// Now is used for the "no future dates" rule. Defaults to time.Now.
	Now func() time.Time
}

// ProjectInput is the editable part of a project.
type ProjectInput struct {
	Name     string
	Domain   string
	Industry string
	Start    string
	End      string
	Running  bool
}

func (s *ProjectService) today() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	// Dates are calendar days in UTC, the zone they are parsed in.
	y, m, d := now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// List returns the owner's projects matching f, oldest first.
func (s *ProjectService) List(ctx context.Context, ownerID string, f domain.ProjectFilter) ([]domain.Project, error) {
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	switch f.Status {
	case "", "all":
		f.Status = ""
	case domain.StatusRunning, domain.StatusCompleted:
	default:
		return nil, invalid("status", "must be running or completed")
	}
	return s.Store.Projects().ListProjects(ctx, ownerID, f)
}

func (s *ProjectService) Stats(ctx context.Context, ownerID string) (domain.ProjectStats, error) {
	return s.Store.Projects().ProjectStats(ctx, ownerID)
}

func (s *ProjectService) Create(ctx context.Context, ownerID string, in ProjectInput) (domain.Project, error) {
	in, err := s.validate(ctx, in)
	if err != nil {
		return domain.Project{}, err
	}

	p := domain.Project{
		ID:       idx.New().String(),
		OwnerID:  ownerID,
		Name:     in.Name,
		Domain:   in.Domain,
		Industry: in.Industry,
		Start:    in.Start,
		End:      in.End,
		Running:  in.Running,
	}
	if err := s.Store.Projects().CreateProject(ctx, p); err != nil {
		return domain.Project{}, err
	}

	slogx.FromContext(ctx).Info("project created", slog.String("project_id", p.ID))
	return s.Store.Projects().GetProject(ctx, ownerID, p.ID)
}

func (s *ProjectService) Update(ctx context.Context, ownerID, id string, in ProjectInput) (domain.Project, error) {
	p, err := s.Store.Projects().GetProject(ctx, ownerID, id)
	if err != nil {
		return domain.Project{}, err
	}

	in, err = s.validate(ctx, in)
	if err != nil {
		return domain.Project{}, err
	}

	p.Name, p.Domain, p.Industry = in.Name, in.Domain, in.Industry
	p.Start, p.End, p.Running = in.Start, in.End, in.Running
	if err := s.Store.Projects().UpdateProject(ctx, p); err != nil {
		return domain.Project{}, err
	}
	return s.Store.Projects().GetProject(ctx, ownerID, id)
}

func (s *ProjectService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.Store.Projects().DeleteProject(ctx, ownerID, id); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("project deleted", slog.String("project_id", id))
	return nil
}

// validate trims the input and checks it against the dashboard rules: dates
// are calendar days no later than today, start is not after end, and the
// industry belongs to the chosen catalog domain. A running project has no end.
func (s *ProjectService) validate(ctx context.Context, in ProjectInput) (ProjectInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Domain = strings.TrimSpace(in.Domain)
	in.Industry = strings.TrimSpace(in.Industry)
	in.Start = strings.TrimSpace(in.Start)
	in.End = strings.TrimSpace(in.End)
	if in.Running {
		in.End = ""
	}

	switch {
	case in.Name == "":
		return in, invalid("name", "is required")
	case in.Domain == "":
		return in, invalid("domain", "is required")
	case in.Industry == "":
		return in, invalid("industry", "is required")
	case in.Start == "":
		return in, invalid("start", "is required")
	case !in.Running && in.End == "":
		return in, invalid("end", "is required unless the project is running")
	}

	today := s.today()
	start, err := time.Parse(domain.DateLayout, in.Start)
	if err != nil {
		return in, invalid("start", "must be YYYY-MM-DD")
	}
	if start.After(today) {
		return in, invalid("start", "must not be in the future")
	}
	if in.End != "" {
		end, err := time.Parse(domain.DateLayout, in.End)
		if err != nil {
			return in, invalid("end", "must be YYYY-MM-DD")
		}
		if end.After(today) {
			return in, invalid("end", "must not be in the future")
		}
		if start.After(end) {
			return in, invalid("end", "must not be before start")
		}
	}

	d, err := s.Store.Catalog().GetDomainByName(ctx, in.Domain)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return in, invalid("domain", "unknown domain "+in.Domain)
		}
		return in, err
	}
	if !d.HasIndustry(in.Industry) {
		return in, invalid("industry", "not part of domain "+d.Name)
	}
	return in, nil
}
