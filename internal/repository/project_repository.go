package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/dto"
	"github.com/yukikurage/task-tracker/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Add inserts a project and assigns its new ID
func (r *GormProjectRepository) Add(project *models.Project) (uint64, error) {
	record := database.ProjectRecord{
		Name:        project.Name(),
		Description: project.Description(),
		StartDate:   project.StartDate().UTC(),
		EndDate:     project.EndDate().UTC(),
		Status:      string(project.Status()),
	}
	if err := r.db.Create(&record).Error; err != nil {
		return 0, writeError("projects", "create project", err)
	}

	project.AssignID(record.ID)
	return record.ID, nil
}

// GetByID finds a project by ID
func (r *GormProjectRepository) GetByID(id uint64) (*models.Project, error) {
	var record database.ProjectRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return toProject(record)
}

// GetAll lists every project by end date
func (r *GormProjectRepository) GetAll() ([]*models.Project, error) {
	return r.find(r.db.Scopes(database.OrderBy("end_date")))
}

// GetByStatus lists the projects in a status by end date
func (r *GormProjectRepository) GetByStatus(status models.ProjectStatus) ([]*models.Project, error) {
	return r.find(r.db.Scopes(database.WhereEq("status", string(status)), database.OrderBy("end_date")))
}

// Update writes the set fields of update. Dates are checked against the
// stored counterpart when only one of them changes.
func (r *GormProjectRepository) Update(id uint64, update models.ProjectUpdate) (bool, error) {
	if update.IsEmpty() {
		return false, nil
	}

	project, err := r.GetByID(id)
	if err != nil {
		return false, err
	}
	if project == nil {
		return false, nil
	}
	if err := project.Apply(update); err != nil {
		return false, err
	}

	if err := r.db.Model(&database.ProjectRecord{}).Where("id = ?", id).Updates(update.Columns()).Error; err != nil {
		return false, writeError("projects", "update project", err)
	}
	return true, nil
}

// Delete removes a project and, through the store, its tasks
func (r *GormProjectRepository) Delete(id uint64) (bool, error) {
	result := r.db.Delete(&database.ProjectRecord{}, id)
	if result.Error != nil {
		return false, writeError("projects", "delete project", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Statistics summarizes a project and its tasks
func (r *GormProjectRepository) Statistics(id uint64) (*dto.ProjectStatistics, error) {
	project, err := r.GetByID(id)
	if err != nil || project == nil {
		return nil, err
	}

	now := time.Now()
	counts, err := countTasks(r.db, "project_id", id, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count project tasks: %w", err)
	}
	return dto.NewProjectStatistics(project, counts, now), nil
}

func (r *GormProjectRepository) find(query *gorm.DB) ([]*models.Project, error) {
	var records []database.ProjectRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]*models.Project, 0, len(records))
	for _, record := range records {
		project, err := toProject(record)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func toProject(record database.ProjectRecord) (*models.Project, error) {
	project, err := models.RestoreProject(record.ID, record.Name, record.Description,
		record.StartDate, record.EndDate, models.ProjectStatus(record.Status))
	if err != nil {
		return nil, fmt.Errorf("invalid project row %d: %w", record.ID, err)
	}
	return project, nil
}
