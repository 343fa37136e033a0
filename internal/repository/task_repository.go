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

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Add inserts a task and assigns its new ID. The project and the assignee
// must exist; the store rejects dangling references.
func (r *GormTaskRepository) Add(task *models.Task) (uint64, error) {
	record := database.TaskRecord{
		Title:       task.Title(),
		Description: task.Description(),
		Priority:    int(task.Priority()),
		Status:      string(task.Status()),
		DueDate:     task.DueDate().UTC(),
		ProjectID:   task.ProjectID(),
		AssigneeID:  task.AssigneeID(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.db.Create(&record).Error; err != nil {
		return 0, writeError("tasks", "create task", err)
	}

	task.AssignID(record.ID)
	return record.ID, nil
}

// GetByID finds a task by ID
func (r *GormTaskRepository) GetByID(id uint64) (*models.Task, error) {
	var record database.TaskRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return toTask(record)
}

// GetAll lists every task by due date
func (r *GormTaskRepository) GetAll() ([]*models.Task, error) {
	return r.find(r.db.Scopes(database.OrderBy("due_date")))
}

// Search matches text against title or description, ignoring case. The
// LIKE wildcards % and _ in text are not escaped.
func (r *GormTaskRepository) Search(text string) ([]*models.Task, error) {
	pattern := "%" + text + "%"
	query := r.db.
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern).
		Scopes(database.OrderBy("due_date"))
	return r.find(query)
}

// GetByProject lists a project's tasks by priority, then due date
func (r *GormTaskRepository) GetByProject(projectID uint64) ([]*models.Task, error) {
	return r.find(r.db.Scopes(database.WhereEq("project_id", projectID), database.OrderBy("priority", "due_date")))
}

// GetByUser lists a user's tasks by due date, then priority
func (r *GormTaskRepository) GetByUser(userID uint64) ([]*models.Task, error) {
	return r.find(r.db.Scopes(database.WhereEq("assignee_id", userID), database.OrderBy("due_date", "priority")))
}

// CountByUser counts the tasks assigned to a user
func (r *GormTaskRepository) CountByUser(userID uint64) (int64, error) {
	var count int64
	if err := r.db.Model(&database.TaskRecord{}).Scopes(database.WhereEq("assignee_id", userID)).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count user tasks: %w", err)
	}
	return count, nil
}

// ReassignAll moves every task of one assignee to another and returns how
// many moved. A missing target user is a foreign key violation.
func (r *GormTaskRepository) ReassignAll(fromUserID, toUserID uint64) (int64, error) {
	result := r.db.Model(&database.TaskRecord{}).
		Scopes(database.WhereEq("assignee_id", fromUserID)).
		Update("assignee_id", toUserID)
	if result.Error != nil {
		return 0, writeError("tasks", "reassign tasks", result.Error)
	}
	return result.RowsAffected, nil
}

// Update writes the set fields of update. A project or assignee that does
// not exist surfaces as a foreign key violation.
func (r *GormTaskRepository) Update(id uint64, update models.TaskUpdate) (bool, error) {
	if update.IsEmpty() {
		return false, nil
	}

	task, err := r.GetByID(id)
	if err != nil {
		return false, err
	}
	if task == nil {
		return false, nil
	}
	if err := task.Apply(update); err != nil {
		return false, err
	}

	if err := r.db.Model(&database.TaskRecord{}).Where("id = ?", id).Updates(update.Columns()).Error; err != nil {
		return false, writeError("tasks", "update task", err)
	}
	return true, nil
}

// Delete removes a task; false when nothing was removed
func (r *GormTaskRepository) Delete(id uint64) (bool, error) {
	result := r.db.Delete(&database.TaskRecord{}, id)
	if result.Error != nil {
		return false, writeError("tasks", "delete task", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Statistics aggregates every task by status and priority. Every known
// status and priority is present in the result, with zero when unused.
func (r *GormTaskRepository) Statistics() (*dto.TaskStatistics, error) {
	stats := &dto.TaskStatistics{
		ByStatus:   make(map[models.TaskStatus]int64, len(models.TaskStatuses)),
		ByPriority: make(map[string]int64, len(models.Priorities)),
	}
	for _, status := range models.TaskStatuses {
		stats.ByStatus[status] = 0
	}
	for _, priority := range models.Priorities {
		stats.ByPriority[priority.String()] = 0
	}

	var byStatus []statusCount
	if err := r.db.Model(&database.TaskRecord{}).Select("status, COUNT(*) AS total").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	for _, row := range byStatus {
		stats.ByStatus[models.TaskStatus(row.Status)] = row.Total
		stats.Total += row.Total
	}

	var byPriority []priorityCount
	if err := r.db.Model(&database.TaskRecord{}).Select("priority, COUNT(*) AS total").Group("priority").Scan(&byPriority).Error; err != nil {
		return nil, fmt.Errorf("failed to count tasks by priority: %w", err)
	}
	for _, row := range byPriority {
		stats.ByPriority[models.Priority(row.Priority).String()] = row.Total
	}

	err := r.db.Model(&database.TaskRecord{}).
		Where("status <> ? AND due_date < ?", string(models.TaskStatusCompleted), time.Now().UTC()).
		Count(&stats.Overdue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	return stats, nil
}

type statusCount struct {
	Status string
	Total  int64
}

type priorityCount struct {
	Priority int
	Total    int64
}

func (r *GormTaskRepository) find(query *gorm.DB) ([]*models.Task, error) {
	var records []database.TaskRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*models.Task, 0, len(records))
	for _, record := range records {
		task, err := toTask(record)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func toTask(record database.TaskRecord) (*models.Task, error) {
	task, err := models.RestoreTask(record.ID, record.Title, record.Description,
		models.Priority(record.Priority), models.TaskStatus(record.Status),
		record.DueDate, record.ProjectID, record.AssigneeID)
	if err != nil {
		return nil, fmt.Errorf("invalid task row %d: %w", record.ID, err)
	}
	return task, nil
}

// taskCountsQuery breaks down the tasks matching one owner column. Overdue
// compares against a UTC timestamp, the form every due date is stored in.
const taskCountsQuery = `SELECT
	COUNT(*) AS total_tasks,
	COUNT(CASE WHEN status = 'completed' THEN 1 END) AS completed_tasks,
	COUNT(CASE WHEN status = 'in_progress' THEN 1 END) AS in_progress_tasks,
	COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending_tasks,
	COUNT(CASE WHEN status <> 'completed' AND due_date < ? THEN 1 END) AS overdue_tasks
FROM tasks
WHERE %s = ?`

// countTasks runs taskCountsQuery for column = id. column is never user input.
func countTasks(db *gorm.DB, column string, id uint64, now time.Time) (dto.TaskCounts, error) {
	var counts dto.TaskCounts
	err := db.Raw(fmt.Sprintf(taskCountsQuery, column), now.UTC(), id).Scan(&counts).Error
	return counts, err
}
