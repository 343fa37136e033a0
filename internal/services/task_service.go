package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yukikurage/task-tracker/internal/dto"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrEmptySearchQuery = errors.New("search query cannot be empty")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	log         *logrus.Entry
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, log *logrus.Entry) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		log:         log.WithField("service", "tasks"),
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.Priority
	DueDate     time.Time
	ProjectID   uint64
	AssigneeID  uint64
}

// AddTask creates a pending task. The project and the assignee must exist.
func (s *TaskService) AddTask(input CreateTaskInput) (*models.Task, error) {
	if err := s.ensureProject(input.ProjectID); err != nil {
		return nil, err
	}
	if err := s.ensureUser(input.AssigneeID); err != nil {
		return nil, err
	}

	task, err := models.NewTask(input.Title, input.Description, input.Priority, input.DueDate, input.ProjectID, input.AssigneeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.taskRepo.Add(task); err != nil {
		return nil, fmt.Errorf("failed to add task: %w", err)
	}

	s.log.WithFields(logrus.Fields{"task_id": task.ID(), "title": input.Title}).Info("Task created")
	return task, nil
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(id uint64) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// GetAllTasks returns every task ordered by due date
func (s *TaskService) GetAllTasks() ([]*models.Task, error) {
	tasks, err := s.taskRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	s.log.Debugf("Found %d tasks", len(tasks))
	return tasks, nil
}

// UpdateTask changes the set fields of a task. A new project or assignee
// must exist. It returns false when update is empty.
func (s *TaskService) UpdateTask(id uint64, update models.TaskUpdate) (bool, error) {
	if _, err := s.GetTask(id); err != nil {
		return false, err
	}
	if update.ProjectID != nil {
		if err := s.ensureProject(*update.ProjectID); err != nil {
			return false, err
		}
	}
	if update.AssigneeID != nil {
		if err := s.ensureUser(*update.AssigneeID); err != nil {
			return false, err
		}
	}

	updated, err := s.taskRepo.Update(id, update)
	if err != nil {
		return false, err
	}
	if updated {
		s.log.WithField("task_id", id).Info("Task updated")
	}
	return updated, nil
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(id uint64) error {
	task, err := s.GetTask(id)
	if err != nil {
		return err
	}

	deleted, err := s.taskRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTaskNotFound
	}

	s.log.WithFields(logrus.Fields{"task_id": id, "title": task.Title()}).Info("Task deleted")
	return nil
}

// SearchTasks finds tasks whose title or description contains query
func (s *TaskService) SearchTasks(query string) ([]*models.Task, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptySearchQuery
	}

	tasks, err := s.taskRepo.Search(query)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	s.log.Debugf("Found %d tasks matching %q", len(tasks), query)
	return tasks, nil
}

// UpdateTaskStatus moves a task to status. It returns false when the status
// is unknown or already current.
func (s *TaskService) UpdateTaskStatus(id uint64, status models.TaskStatus) (bool, error) {
	task, err := s.GetTask(id)
	if err != nil {
		return false, err
	}
	if !task.UpdateStatus(status) {
		return false, nil
	}
	return s.taskRepo.Update(id, models.TaskUpdate{Status: &status})
}

// GetOverdueTasks returns the unfinished tasks past their due date
func (s *TaskService) GetOverdueTasks() ([]*models.Task, error) {
	tasks, err := s.taskRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	now := time.Now()
	overdue := make([]*models.Task, 0)
	for _, task := range tasks {
		if task.IsOverdueAt(now) {
			overdue = append(overdue, task)
		}
	}
	s.log.Debugf("Found %d overdue tasks", len(overdue))
	return overdue, nil
}

// GetTasksByProject returns the tasks of an existing project
func (s *TaskService) GetTasksByProject(projectID uint64) ([]*models.Task, error) {
	if err := s.ensureProject(projectID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.GetByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project tasks: %w", err)
	}
	s.log.Debugf("Found %d tasks in project %d", len(tasks), projectID)
	return tasks, nil
}

// GetTasksByUser returns the tasks assigned to an existing user
func (s *TaskService) GetTasksByUser(userID uint64) ([]*models.Task, error) {
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user tasks: %w", err)
	}
	s.log.Debugf("Found %d tasks for user %d", len(tasks), userID)
	return tasks, nil
}

// GetTaskStatistics aggregates every task
func (s *TaskService) GetTaskStatistics() (*dto.TaskStatistics, error) {
	stats, err := s.taskRepo.Statistics()
	if err != nil {
		return nil, fmt.Errorf("failed to get task statistics: %w", err)
	}
	return stats, nil
}

func (s *TaskService) ensureProject(id uint64) error {
	project, err := s.projectRepo.GetByID(id)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return fmt.Errorf("%w: id %d", ErrProjectNotFound, id)
	}
	return nil
}

func (s *TaskService) ensureUser(id uint64) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}
	return nil
}
