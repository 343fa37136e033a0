package models

import (
	"fmt"
	"math"
	"time"

	apperrors "github.com/yukikurage/task-tracker/internal/errors"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
)

// ProjectStatuses lists every project status
var ProjectStatuses = []ProjectStatus{ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold}

// Valid reports whether s is a known project status
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

type Project struct {
	id          uint64
	name        string
	description string
	startDate   time.Time
	endDate     time.Time
	status      ProjectStatus
}

// NewProject validates the fields and creates an active project. The start
// date may not lie in the future.
func NewProject(name, description string, startDate, endDate time.Time) (*Project, error) {
	project := &Project{
		name:        name,
		description: description,
		startDate:   startDate,
		endDate:     endDate,
		status:      ProjectStatusActive,
	}
	if err := project.validate(); err != nil {
		return nil, err
	}
	if startDate.After(time.Now()) {
		return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidDates, "start_date", "start date cannot be in the future")
	}
	return project, nil
}

// RestoreProject rebuilds a persisted project. Creation-time date rules are
// not re-applied.
func RestoreProject(id uint64, name, description string, startDate, endDate time.Time, status ProjectStatus) (*Project, error) {
	project := &Project{
		id:          id,
		name:        name,
		description: description,
		startDate:   startDate,
		endDate:     endDate,
		status:      status,
	}
	if err := project.validate(); err != nil {
		return nil, err
	}
	if err := validateProjectStatus(status); err != nil {
		return nil, err
	}
	return project, nil
}

func (p *Project) validate() error {
	if err := check(notBlank("name", p.name), notBlank("description", p.description)); err != nil {
		return err
	}
	return validateProjectDates(p.startDate, p.endDate)
}

func validateProjectDates(start, end time.Time) error {
	if !end.After(start) {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidDates, "end_date", "end date must be after start date")
	}
	return nil
}

func validateProjectStatus(status ProjectStatus) error {
	if !status.Valid() {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput, "status",
			fmt.Sprintf("invalid project status %q, expected one of %v", status, ProjectStatuses))
	}
	return nil
}

func (p *Project) ID() uint64 { return p.id }
func (p *Project) Name() string { return p.name }
func (p *Project) Description() string { return p.description }
func (p *Project) StartDate() time.Time { return p.startDate }
func (p *Project) EndDate() time.Time { return p.endDate }
func (p *Project) Status() ProjectStatus { return p.status }

// AssignID records the identifier handed out by the store
func (p *Project) AssignID(id uint64) {
	p.id = id
}

// UpdateStatus moves the project to status. It returns false, leaving the
// project untouched, for unknown statuses and for the current status.
func (p *Project) UpdateStatus(status ProjectStatus) bool {
	if !status.Valid() || status == p.status {
		return false
	}
	p.status = status
	return true
}

// Progress returns the completion fraction in [0, 1]
func (p *Project) Progress() float64 {
	return p.ProgressAt(time.Now())
}

// ProgressAt is Progress evaluated at now. Completed projects are done;
// every other status, on_hold included, follows elapsed time.
func (p *Project) ProgressAt(now time.Time) float64 {
	if p.status == ProjectStatusCompleted {
		return 1.0
	}

	total := p.endDate.Sub(p.startDate)
	if total <= 0 {
		return 0.0
	}

	progress := float64(now.Sub(p.startDate)) / float64(total)
	return math.Max(0, math.Min(1, progress))
}

// IsOverdue reports whether the end date has passed on an unfinished project
func (p *Project) IsOverdue() bool {
	return p.IsOverdueAt(time.Now())
}

// IsOverdueAt is IsOverdue evaluated at now
func (p *Project) IsOverdueAt(now time.Time) bool {
	if p.status == ProjectStatusCompleted {
		return false
	}
	return now.After(p.endDate)
}

// DaysRemaining returns the whole days left until the end date
func (p *Project) DaysRemaining() int {
	return p.DaysRemainingAt(time.Now())
}

// DaysRemainingAt is DaysRemaining evaluated at now; zero once the end date
// has passed or the project is completed.
func (p *Project) DaysRemainingAt(now time.Time) int {
	if p.status == ProjectStatusCompleted || !now.Before(p.endDate) {
		return 0
	}
	return int(p.endDate.Sub(now).Hours() / 24)
}

// ProjectUpdate carries the project fields to change; nil fields are left alone
type ProjectUpdate struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *ProjectStatus
}

// IsEmpty reports whether no field is set
func (u ProjectUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.StartDate == nil && u.EndDate == nil && u.Status == nil
}

// Validate checks the set fields on their own. Date ordering against the
// stored counterpart is checked by Project.Apply.
func (u ProjectUpdate) Validate() error {
	if u.Name != nil {
		if err := check(notBlank("name", *u.Name)); err != nil {
			return err
		}
	}
	if u.Description != nil {
		if err := check(notBlank("description", *u.Description)); err != nil {
			return err
		}
	}
	if u.StartDate != nil && u.EndDate != nil {
		if err := validateProjectDates(*u.StartDate, *u.EndDate); err != nil {
			return err
		}
	}
	if u.Status != nil {
		if err := validateProjectStatus(*u.Status); err != nil {
			return err
		}
	}
	return nil
}

// Columns returns the column values to write for the set fields
func (u ProjectUpdate) Columns() map[string]interface{} {
	columns := make(map[string]interface{}, 5)
	if u.Name != nil {
		columns["name"] = *u.Name
	}
	if u.Description != nil {
		columns["description"] = *u.Description
	}
	if u.StartDate != nil {
		columns["start_date"] = u.StartDate.UTC()
	}
	if u.EndDate != nil {
		columns["end_date"] = u.EndDate.UTC()
	}
	if u.Status != nil {
		columns["status"] = string(*u.Status)
	}
	return columns
}

// Apply validates update against the current values and applies it. The
// project is left untouched on error.
func (p *Project) Apply(update ProjectUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}

	start, end := p.startDate, p.endDate
	if update.StartDate != nil {
		start = *update.StartDate
	}
	if update.EndDate != nil {
		end = *update.EndDate
	}
	if err := validateProjectDates(start, end); err != nil {
		return err
	}

	if update.Name != nil {
		p.name = *update.Name
	}
	if update.Description != nil {
		p.description = *update.Description
	}
	if update.Status != nil {
		p.status = *update.Status
	}
	p.startDate, p.endDate = start, end
	return nil
}

func (p *Project) String() string {
	overdue := ""
	if p.IsOverdue() {
		overdue = " (overdue)"
	}
	return fmt.Sprintf("Project #%d: %s%s [%s] %s - %s, %.1f%% done",
		p.id, p.name, overdue, p.status,
		p.startDate.Format("2006-01-02"), p.endDate.Format("2006-01-02"),
		p.Progress()*100)
}
