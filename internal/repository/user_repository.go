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

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Add inserts a user and assigns its new ID
func (r *GormUserRepository) Add(user *models.User) (uint64, error) {
	record := database.UserRecord{
		Username:         user.Username(),
		Email:            user.Email(),
		Role:             string(user.Role()),
		RegistrationDate: user.RegistrationDate().UTC(),
	}
	if err := r.db.Create(&record).Error; err != nil {
		return 0, writeError("users", "create user", err)
	}

	user.AssignID(record.ID)
	return record.ID, nil
}

// GetByID finds a user by ID
func (r *GormUserRepository) GetByID(id uint64) (*models.User, error) {
	return r.first(r.db.Where("id = ?", id))
}

// GetByUsername finds a user by exact username
func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.first(r.db.Where("username = ?", username))
}

// GetByEmail finds a user by exact email
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.first(r.db.Where("email = ?", email))
}

// GetAll lists every user by username
func (r *GormUserRepository) GetAll() ([]*models.User, error) {
	return r.find(r.db.Scopes(database.OrderBy("username")))
}

// GetByRole lists the users holding a role by username
func (r *GormUserRepository) GetByRole(role models.Role) ([]*models.User, error) {
	return r.find(r.db.Scopes(database.WhereEq("role", string(role)), database.OrderBy("username")))
}

// Update writes the set fields of update
func (r *GormUserRepository) Update(id uint64, update models.UserUpdate) (bool, error) {
	if update.IsEmpty() {
		return false, nil
	}

	user, err := r.GetByID(id)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	if _, err := user.UpdateInfo(update); err != nil {
		return false, err
	}

	if err := r.db.Model(&database.UserRecord{}).Where("id = ?", id).Updates(update.Columns()).Error; err != nil {
		return false, writeError("users", "update user", err)
	}
	return true, nil
}

// Delete removes a user
func (r *GormUserRepository) Delete(id uint64) (bool, error) {
	result := r.db.Delete(&database.UserRecord{}, id)
	if result.Error != nil {
		return false, writeError("users", "delete user", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Statistics summarizes a user and the tasks assigned to them
func (r *GormUserRepository) Statistics(id uint64) (*dto.UserStatistics, error) {
	user, err := r.GetByID(id)
	if err != nil || user == nil {
		return nil, err
	}

	now := time.Now()
	counts, err := countTasks(r.db, "assignee_id", id, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count user tasks: %w", err)
	}
	return dto.NewUserStatistics(user, counts, now), nil
}

func (r *GormUserRepository) first(query *gorm.DB) (*models.User, error) {
	var record database.UserRecord
	if err := query.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return toUser(record)
}

func (r *GormUserRepository) find(query *gorm.DB) ([]*models.User, error) {
	var records []database.UserRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*models.User, 0, len(records))
	for _, record := range records {
		user, err := toUser(record)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func toUser(record database.UserRecord) (*models.User, error) {
	user, err := models.RestoreUser(record.ID, record.Username, record.Email, models.Role(record.Role), record.RegistrationDate)
	if err != nil {
		return nil, fmt.Errorf("invalid user row %d: %w", record.ID, err)
	}
	return user, nil
}
