package main

import (
	"log"

	"github.com/sirupsen/logrus"

	"github.com/yukikurage/task-tracker/internal/config"
	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/logger"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	entry, err := logger.Setup(cfg.Env, cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	entry = entry.WithField("env", cfg.Env)

	// Connect to database
	db, err := database.Open(cfg.Database, entry)
	if err != nil {
		entry.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			entry.WithError(err).Error("Failed to close database")
		}
	}()

	// Run migrations
	if err := database.Migrate(db, entry); err != nil {
		entry.WithError(err).Error("Failed to run migrations")
		return
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	userService := services.NewUserService(userRepo, taskRepo, entry)
	projectService := services.NewProjectService(projectRepo, taskRepo, entry)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, entry)

	users, err := userService.GetAllUsers()
	if err != nil {
		entry.WithError(err).Error("Failed to load users")
		return
	}
	projects, err := projectService.GetAllProjects()
	if err != nil {
		entry.WithError(err).Error("Failed to load projects")
		return
	}
	overdue, err := projectService.GetOverdueProjects()
	if err != nil {
		entry.WithError(err).Error("Failed to load overdue projects")
		return
	}
	stats, err := taskService.GetTaskStatistics()
	if err != nil {
		entry.WithError(err).Error("Failed to load task statistics")
		return
	}

	entry.WithFields(logrus.Fields{
		"users":            len(users),
		"projects":         len(projects),
		"overdue_projects": len(overdue),
		"tasks":            stats.Total,
		"overdue_tasks":    stats.Overdue,
	}).Info("Task tracker store ready")
}
