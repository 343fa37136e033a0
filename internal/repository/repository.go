package repository

import (
	"github.com/yukikurage/task-tracker/internal/dto"
	"github.com/yukikurage/task-tracker/internal/models"
)

// Lookups return a nil entity and a nil error when no row matches. Update
// returns false for an empty update or a missing row. Store constraint
// failures come back as *errors.ConstraintError.

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Add inserts a task and assigns its new ID
	Add(task *models.Task) (uint64, error)

	// GetByID finds a task by ID
	GetByID(id uint64) (*models.Task, error)

	// GetAll lists every task by due date
	GetAll() ([]*models.Task, error)

	// Search matches text against title or description, ignoring case
	Search(text string) ([]*models.Task, error)

	// GetByProject lists a project's tasks by priority, then due date
	GetByProject(projectID uint64) ([]*models.Task, error)

	// GetByUser lists a user's tasks by due date, then priority
	GetByUser(userID uint64) ([]*models.Task, error)

	// CountByUser counts the tasks assigned to a user
	CountByUser(userID uint64) (int64, error)

	// ReassignAll moves every task of one assignee to another
	ReassignAll(fromUserID, toUserID uint64) (int64, error)

	// Update writes the set fields of update
	Update(id uint64, update models.TaskUpdate) (bool, error)

	// Delete removes a task; false when nothing was removed
	Delete(id uint64) (bool, error)

	// Statistics aggregates every task by status and priority
	Statistics() (*dto.TaskStatistics, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Add inserts a project and assigns its new ID
	Add(project *models.Project) (uint64, error)

	// GetByID finds a project by ID
	GetByID(id uint64) (*models.Project, error)

	// GetAll lists every project by end date
	GetAll() ([]*models.Project, error)

	// GetByStatus lists the projects in a status by end date
	GetByStatus(status models.ProjectStatus) ([]*models.Project, error)

	// Update writes the set fields of update
	Update(id uint64, update models.ProjectUpdate) (bool, error)

	// Delete removes a project and, through the store, its tasks
	Delete(id uint64) (bool, error)

	// Statistics summarizes a project and its tasks
	Statistics(id uint64) (*dto.ProjectStatistics, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Add inserts a user and assigns its new ID
	Add(user *models.User) (uint64, error)

	// GetByID finds a user by ID
	GetByID(id uint64) (*models.User, error)

	// GetAll lists every user by username
	GetAll() ([]*models.User, error)

	// GetByUsername finds a user by exact username
	GetByUsername(username string) (*models.User, error)

	// GetByEmail finds a user by exact email
	GetByEmail(email string) (*models.User, error)

	// GetByRole lists the users holding a role by username
	GetByRole(role models.Role) ([]*models.User, error)

	// Update writes the set fields of update
	Update(id uint64, update models.UserUpdate) (bool, error)

	// Delete removes a user
	Delete(id uint64) (bool, error)

	// Statistics summarizes a user and the tasks assigned to them
	Statistics(id uint64) (*dto.UserStatistics, error)
}
