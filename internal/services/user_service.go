package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yukikurage/task-tracker/internal/dto"
	apperrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserHasTasks  = errors.New("user still has assigned tasks")
	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("email is already taken")
)

// UserService handles user business logic
type UserService struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
	log      *logrus.Entry
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, taskRepo repository.TaskRepository, log *logrus.Entry) *UserService {
	return &UserService{
		userRepo: userRepo,
		taskRepo: taskRepo,
		log:      log.WithField("service", "users"),
	}
}

// AddUser registers a user after checking that the username and the email
// are free
func (s *UserService) AddUser(username, email string, role models.Role) (*models.User, error) {
	if err := s.ensureFree(0, &username, &email); err != nil {
		return nil, err
	}

	user, err := models.NewUser(username, email, role)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.Add(user); err != nil {
		return nil, fmt.Errorf("failed to add user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID(), "username": username}).Info("User created")
	return user, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetAllUsers returns every user ordered by username
func (s *UserService) GetAllUsers() ([]*models.User, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	s.log.Debugf("Found %d users", len(users))
	return users, nil
}

// UpdateUser changes the set fields of a user. A new username or email must
// not belong to another user. It returns false when update is empty.
func (s *UserService) UpdateUser(id uint64, update models.UserUpdate) (bool, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return false, err
	}

	var username, email *string
	if update.Username != nil && *update.Username != user.Username() {
		username = update.Username
	}
	if update.Email != nil && *update.Email != user.Email() {
		email = update.Email
	}
	if err := s.ensureFree(id, username, email); err != nil {
		return false, err
	}

	updated, err := s.userRepo.Update(id, update)
	if err != nil {
		return false, err
	}
	if updated {
		s.log.WithField("user_id", id).Info("User updated")
	}
	return updated, nil
}

// DeleteUser removes a user. Users with assigned tasks are kept; their tasks
// have to be reassigned or deleted first.
func (s *UserService) DeleteUser(id uint64) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	count, err := s.taskRepo.CountByUser(id)
	if err != nil {
		return err
	}
	if count > 0 {
		s.log.WithFields(logrus.Fields{"user_id": id, "tasks": count}).Warn("Refusing to delete user with assigned tasks")
		return fmt.Errorf("%w: %q has %d", ErrUserHasTasks, user.Username(), count)
	}

	deleted, err := s.userRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}

	s.log.WithFields(logrus.Fields{"user_id": id, "username": user.Username()}).Info("User deleted")
	return nil
}

// GetUserTasks returns the tasks assigned to a user
func (s *UserService) GetUserTasks(id uint64) ([]*models.Task, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.GetByUser(id)
	if err != nil {
		return nil, fmt.Errorf("failed to list user tasks: %w", err)
	}
	s.log.Debugf("Found %d tasks for user %q", len(tasks), user.Username())
	return tasks, nil
}

// GetUserByUsername returns the user with the exact username
func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetUserByEmail returns the user with the exact email
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetUserStatistics summarizes a user and its tasks
func (s *UserService) GetUserStatistics(id uint64) (*dto.UserStatistics, error) {
	stats, err := s.userRepo.Statistics(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user statistics: %w", err)
	}
	if stats == nil {
		return nil, ErrUserNotFound
	}
	return stats, nil
}

// GetUsersByRole returns the users holding role
func (s *UserService) GetUsersByRole(role models.Role) ([]*models.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidInput, "role",
			fmt.Sprintf("invalid role %q, expected one of %v", role, models.Roles))
	}

	users, err := s.userRepo.GetByRole(role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	s.log.Debugf("Found %d users with role %s", len(users), role)
	return users, nil
}

func (s *UserService) GetDevelopers() ([]*models.User, error) {
	return s.GetUsersByRole(models.RoleDeveloper)
}

func (s *UserService) GetManagers() ([]*models.User, error) {
	return s.GetUsersByRole(models.RoleManager)
}

func (s *UserService) GetAdmins() ([]*models.User, error) {
	return s.GetUsersByRole(models.RoleAdmin)
}

// ReassignUserTasks moves every task of oldID to newID and returns how many
// moved. Both users must exist.
func (s *UserService) ReassignUserTasks(oldID, newID uint64) (int64, error) {
	oldUser, err := s.GetUser(oldID)
	if err != nil {
		return 0, fmt.Errorf("source: %w", err)
	}
	newUser, err := s.GetUser(newID)
	if err != nil {
		return 0, fmt.Errorf("target: %w", err)
	}

	moved, err := s.taskRepo.ReassignAll(oldID, newID)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"from":  oldUser.Username(),
		"to":    newUser.Username(),
		"tasks": moved,
	}).Info("Tasks reassigned")
	return moved, nil
}

// ensureFree checks that the non-nil username and email are not held by a
// user other than exceptID
func (s *UserService) ensureFree(exceptID uint64, username, email *string) error {
	if username != nil {
		existing, err := s.userRepo.GetByUsername(*username)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if existing != nil && existing.ID() != exceptID {
			return fmt.Errorf("%w: %q", ErrUsernameTaken, *username)
		}
	}
	if email != nil {
		existing, err := s.userRepo.GetByEmail(*email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil && existing.ID() != exceptID {
			return fmt.Errorf("%w: %q", ErrEmailTaken, *email)
		}
	}
	return nil
}
