package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Index is a secondary, non-unique index
type Index struct {
	Table   string
	Name    string
	Columns string
}

// SecondaryIndexes speed up the task filters and the status/role lookups
var SecondaryIndexes = []Index{
	// Task indexes for filtering and sorting
	{"tasks", "idx_tasks_project", "project_id"},
	{"tasks", "idx_tasks_assignee", "assignee_id"},
	{"tasks", "idx_tasks_status", "status"},
	{"tasks", "idx_tasks_priority", "priority"},
	{"tasks", "idx_tasks_due_date", "due_date"},

	{"projects", "idx_projects_status", "status"},
	{"users", "idx_users_role", "role"},
}

// Migrate creates the tables and their constraints, then the secondary
// indexes. It is safe to run against an initialized store. Table creation
// errors are returned; index errors are only logged.
func Migrate(db *gorm.DB, log *logrus.Entry) error {
	log.Debug("Running database migrations...")
	if err := db.AutoMigrate(Records()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	created := AddIndexes(db, log, SecondaryIndexes)
	log.WithField("indexes_created", created).Debug("Database migrations completed")
	return nil
}

// AddIndexes creates the missing indexes and returns how many were created.
// An index that cannot be created is skipped.
func AddIndexes(db *gorm.DB, log *logrus.Entry, indexes []Index) int {
	created := 0
	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.Table, idx.Name) {
			log.WithField("index", idx.Name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.Name, idx.Table, idx.Columns)
		if err := db.Exec(sql).Error; err != nil {
			log.WithError(err).WithField("index", idx.Name).Warn("Failed to create index")
			continue
		}

		log.WithField("index", idx.Name).Debugf("Created index on %s(%s)", idx.Table, idx.Columns)
		created++
	}
	return created
}
