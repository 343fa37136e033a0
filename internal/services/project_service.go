package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yukikurage/task-tracker/internal/dto"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	log         *logrus.Entry
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, log *logrus.Entry) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		log:         log.WithField("service", "projects"),
	}
}

// AddProject creates an active project
func (s *ProjectService) AddProject(name, description string, startDate, endDate time.Time) (*models.Project, error) {
	project, err := models.NewProject(name, description, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.Add(project); err != nil {
		return nil, fmt.Errorf("failed to add project: %w", err)
	}

	s.log.WithFields(logrus.Fields{"project_id": project.ID(), "name": name}).Info("Project created")
	return project, nil
}

// GetProject returns a project by ID
func (s *ProjectService) GetProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// GetAllProjects returns every project ordered by end date
func (s *ProjectService) GetAllProjects() ([]*models.Project, error) {
	projects, err := s.projectRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	s.log.Debugf("Found %d projects", len(projects))
	return projects, nil
}

// UpdateProject changes the set fields of a project. It returns false when
// update is empty.
func (s *ProjectService) UpdateProject(id uint64, update models.ProjectUpdate) (bool, error) {
	if _, err := s.GetProject(id); err != nil {
		return false, err
	}

	updated, err := s.projectRepo.Update(id, update)
	if err != nil {
		return false, err
	}
	if updated {
		s.log.WithField("project_id", id).Info("Project updated")
	}
	return updated, nil
}

// DeleteProject removes a project together with its tasks
func (s *ProjectService) DeleteProject(id uint64) error {
	project, err := s.GetProject(id)
	if err != nil {
		return err
	}

	tasks, err := s.taskRepo.GetByProject(id)
	if err != nil {
		return fmt.Errorf("failed to list project tasks: %w", err)
	}
	if len(tasks) > 0 {
		s.log.WithFields(logrus.Fields{"project_id": id, "tasks": len(tasks)}).Warn("Deleting project together with its tasks")
	}

	deleted, err := s.projectRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProjectNotFound
	}

	s.log.WithFields(logrus.Fields{"project_id": id, "name": project.Name()}).Info("Project deleted")
	return nil
}

// UpdateProjectStatus moves a project to status. It returns false when the
// status is unknown or already current.
func (s *ProjectService) UpdateProjectStatus(id uint64, status models.ProjectStatus) (bool, error) {
	project, err := s.GetProject(id)
	if err != nil {
		return false, err
	}
	if !project.UpdateStatus(status) {
		return false, nil
	}
	return s.projectRepo.Update(id, models.ProjectUpdate{Status: &status})
}

// GetProjectProgress returns the completion fraction of a project
func (s *ProjectService) GetProjectProgress(id uint64) (float64, error) {
	project, err := s.GetProject(id)
	if err != nil {
		return 0, err
	}

	progress := project.Progress()
	s.log.WithField("project_id", id).Debugf("Project %q is %.1f%% done", project.Name(), progress*100)
	return progress, nil
}

// GetProjectStatistics summarizes a project and its tasks
func (s *ProjectService) GetProjectStatistics(id uint64) (*dto.ProjectStatistics, error) {
	stats, err := s.projectRepo.Statistics(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project statistics: %w", err)
	}
	if stats == nil {
		return nil, ErrProjectNotFound
	}
	return stats, nil
}

func (s *ProjectService) GetActiveProjects() ([]*models.Project, error) {
	return s.projectsByStatus(models.ProjectStatusActive)
}

func (s *ProjectService) GetCompletedProjects() ([]*models.Project, error) {
	return s.projectsByStatus(models.ProjectStatusCompleted)
}

// GetOverdueProjects returns the unfinished projects past their end date
func (s *ProjectService) GetOverdueProjects() ([]*models.Project, error) {
	projects, err := s.projectRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	now := time.Now()
	overdue := make([]*models.Project, 0)
	for _, project := range projects {
		if project.IsOverdueAt(now) {
			overdue = append(overdue, project)
		}
	}
	s.log.Debugf("Found %d overdue projects", len(overdue))
	return overdue, nil
}

func (s *ProjectService) projectsByStatus(status models.ProjectStatus) ([]*models.Project, error) {
	projects, err := s.projectRepo.GetByStatus(status)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	s.log.Debugf("Found %d %s projects", len(projects), status)
	return projects, nil
}
