package database

import "time"

// UserRecord is the users table row
type UserRecord struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement"`
	Username         string    `gorm:"type:varchar(50);uniqueIndex:idx_users_username;not null"`
	Email            string    `gorm:"type:varchar(254);uniqueIndex:idx_users_email;not null"`
	Role             string    `gorm:"type:varchar(20);not null;check:chk_users_role,role IN ('admin','manager','developer')"`
	RegistrationDate time.Time `gorm:"not null"`
}

func (UserRecord) TableName() string {
	return "users"
}

// ProjectRecord is the projects table row
type ProjectRecord struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text;not null"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active';check:chk_projects_status,status IN ('active','completed','on_hold')"`
}

func (ProjectRecord) TableName() string {
	return "projects"
}

// TaskRecord is the tasks table row. Tasks go away with their project and
// with their assignee.
type TaskRecord struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text;not null"`
	Priority    int       `gorm:"not null;check:chk_tasks_priority,priority IN (1,2,3)"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';check:chk_tasks_status,status IN ('pending','in_progress','completed')"`
	DueDate     time.Time `gorm:"not null"`
	ProjectID   uint64    `gorm:"not null"`
	AssigneeID  uint64    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relations
	Project  *ProjectRecord `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Assignee *UserRecord    `gorm:"foreignKey:AssigneeID;constraint:OnDelete:CASCADE"`
}

func (TaskRecord) TableName() string {
	return "tasks"
}

// Records lists the tables in creation order
func Records() []interface{} {
	return []interface{}{
		&UserRecord{},
		&ProjectRecord{},
		&TaskRecord{},
	}
}
