package dto

import (
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
)

// TaskCounts is the task breakdown shared by the project and user summaries.
// Field names double as the column aliases of the aggregate query.
type TaskCounts struct {
	TotalTasks      int64 `json:"total_tasks"`
	CompletedTasks  int64 `json:"completed_tasks"`
	InProgressTasks int64 `json:"in_progress_tasks"`
	PendingTasks    int64 `json:"pending_tasks"`
	OverdueTasks    int64 `json:"overdue_tasks"`
}

// ProjectStatistics summarizes a project and its tasks
type ProjectStatistics struct {
	ProjectName   string               `json:"project_name"`
	Status        models.ProjectStatus `json:"status"`
	Progress      float64              `json:"progress"`
	DaysRemaining int                  `json:"days_remaining"`
	IsOverdue     bool                 `json:"is_overdue"`
	TaskCounts
}

// UserStatistics summarizes a user and the tasks assigned to them
type UserStatistics struct {
	Username              string      `json:"username"`
	Role                  models.Role `json:"role"`
	RegistrationDate      time.Time   `json:"registration_date"`
	DaysSinceRegistration int         `json:"days_since_registration"`
	TaskCounts
}

// TaskStatistics aggregates every task. ByPriority is keyed by priority name.
type TaskStatistics struct {
	Total      int64                       `json:"total"`
	ByStatus   map[models.TaskStatus]int64 `json:"by_status"`
	ByPriority map[string]int64            `json:"by_priority"`
	Overdue    int64                       `json:"overdue"`
}

// NewProjectStatistics combines a project's derived state evaluated at now
// with its task counts
func NewProjectStatistics(project *models.Project, counts TaskCounts, now time.Time) *ProjectStatistics {
	return &ProjectStatistics{
		ProjectName:   project.Name(),
		Status:        project.Status(),
		Progress:      project.ProgressAt(now),
		DaysRemaining: project.DaysRemainingAt(now),
		IsOverdue:     project.IsOverdueAt(now),
		TaskCounts:    counts,
	}
}

// NewUserStatistics combines a user's profile with its task counts
func NewUserStatistics(user *models.User, counts TaskCounts, now time.Time) *UserStatistics {
	return &UserStatistics{
		Username:              user.Username(),
		Role:                  user.Role(),
		RegistrationDate:      user.RegistrationDate(),
		DaysSinceRegistration: user.DaysSinceRegistrationAt(now),
		TaskCounts:            counts,
	}
}
