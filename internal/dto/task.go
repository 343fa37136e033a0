package dto

import (
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
)

// UserDTO represents a user with its derived state
type UserDTO struct {
	ID                    uint64      `json:"id"`
	Username              string      `json:"username"`
	Email                 string      `json:"email"`
	Role                  models.Role `json:"role"`
	RegistrationDate      time.Time   `json:"registration_date"`
	DaysSinceRegistration int         `json:"days_since_registration"`
	IsAdmin               bool        `json:"is_admin"`
	IsManager             bool        `json:"is_manager"`
	IsDeveloper           bool        `json:"is_developer"`
}

// ProjectDTO represents a project with its derived state
type ProjectDTO struct {
	ID            uint64               `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	StartDate     time.Time            `json:"start_date"`
	EndDate       time.Time            `json:"end_date"`
	Status        models.ProjectStatus `json:"status"`
	Progress      float64              `json:"progress"`
	DaysRemaining int                  `json:"days_remaining"`
	IsOverdue     bool                 `json:"is_overdue"`
}

// TaskDTO represents a task with its derived state
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    models.Priority   `json:"priority"`
	PriorityStr string            `json:"priority_str"`
	Status      models.TaskStatus `json:"status"`
	DueDate     time.Time         `json:"due_date"`
	ProjectID   uint64            `json:"project_id"`
	AssigneeID  uint64            `json:"assignee_id"`
	IsOverdue   bool              `json:"is_overdue"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:                    user.ID(),
		Username:              user.Username(),
		Email:                 user.Email(),
		Role:                  user.Role(),
		RegistrationDate:      user.RegistrationDate(),
		DaysSinceRegistration: user.DaysSinceRegistration(),
		IsAdmin:               user.IsAdmin(),
		IsManager:             user.IsManager(),
		IsDeveloper:           user.IsDeveloper(),
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project *models.Project) ProjectDTO {
	return ToProjectDTOAt(project, time.Now())
}

// ToProjectDTOAt is ToProjectDTO with the derived fields evaluated at now
func ToProjectDTOAt(project *models.Project, now time.Time) ProjectDTO {
	return ProjectDTO{
		ID:            project.ID(),
		Name:          project.Name(),
		Description:   project.Description(),
		StartDate:     project.StartDate(),
		EndDate:       project.EndDate(),
		Status:        project.Status(),
		Progress:      project.ProgressAt(now),
		DaysRemaining: project.DaysRemainingAt(now),
		IsOverdue:     project.IsOverdueAt(now),
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task *models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID(),
		Title:       task.Title(),
		Description: task.Description(),
		Priority:    task.Priority(),
		PriorityStr: task.Priority().String(),
		Status:      task.Status(),
		DueDate:     task.DueDate(),
		ProjectID:   task.ProjectID(),
		AssigneeID:  task.AssigneeID(),
		IsOverdue:   task.IsOverdue(),
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []*models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
