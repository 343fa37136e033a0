package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker/internal/database"
	apperrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/logger"
	"github.com/yukikurage/task-tracker/internal/models"
)

// RepositoryTestSuite runs the repositories against a fresh in-memory store
type RepositoryTestSuite struct {
	suite.Suite
	db       *gorm.DB
	users    UserRepository
	projects ProjectRepository
	tasks    TaskRepository
}

// SetupTest runs before each test
func (suite *RepositoryTestSuite) SetupTest() {
	var err error

	suite.db, err = database.OpenMemory(logger.Discard())
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(suite.db, logger.Discard()))

	suite.users = NewUserRepository(suite.db)
	suite.projects = NewProjectRepository(suite.db)
	suite.tasks = NewTaskRepository(suite.db)
}

// TearDownTest runs after each test
func (suite *RepositoryTestSuite) TearDownTest() {
	suite.Require().NoError(database.Close(suite.db))
}

func (suite *RepositoryTestSuite) createUser(username, email string, role models.Role) *models.User {
	user, err := models.NewUser(username, email, role)
	suite.Require().NoError(err)
	_, err = suite.users.Add(user)
	suite.Require().NoError(err)
	return user
}

func (suite *RepositoryTestSuite) createProject(name string, end time.Time) *models.Project {
	project, err := models.NewProject(name, name+" description", time.Now().Add(-24*time.Hour), end)
	suite.Require().NoError(err)
	_, err = suite.projects.Add(project)
	suite.Require().NoError(err)
	return project
}

func (suite *RepositoryTestSuite) createTask(title string, priority models.Priority, due time.Time, projectID, assigneeID uint64) *models.Task {
	task, err := models.NewTask(title, title+" details", priority, due, projectID, assigneeID)
	suite.Require().NoError(err)
	_, err = suite.tasks.Add(task)
	suite.Require().NoError(err)
	return task
}

// insertPastDueTask stores a task whose due date has already passed, which
// NewTask refuses to build.
func (suite *RepositoryTestSuite) insertPastDueTask(title string, status models.TaskStatus, projectID, assigneeID uint64) uint64 {
	record := database.TaskRecord{
		Title:       title,
		Description: "late",
		Priority:    int(models.PriorityHigh),
		Status:      string(status),
		DueDate:     time.Now().Add(-48 * time.Hour).UTC(),
		ProjectID:   projectID,
		AssigneeID:  assigneeID,
		CreatedAt:   time.Now().UTC(),
	}
	suite.Require().NoError(suite.db.Create(&record).Error)
	return record.ID
}

func (suite *RepositoryTestSuite) TestUser_AddAndGet() {
	user := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)
	suite.Greater(user.ID(), uint64(0))

	found, err := suite.users.GetByID(user.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	suite.Equal("alice", found.Username())
	suite.Equal("alice@example.com", found.Email())
	suite.Equal(models.RoleDeveloper, found.Role())
	suite.WithinDuration(user.RegistrationDate(), found.RegistrationDate(), time.Millisecond)

	byName, err := suite.users.GetByUsername("alice")
	suite.Require().NoError(err)
	suite.Equal(user.ID(), byName.ID())

	byEmail, err := suite.users.GetByEmail("alice@example.com")
	suite.Require().NoError(err)
	suite.Equal(user.ID(), byEmail.ID())
}

func (suite *RepositoryTestSuite) TestUser_NotFound() {
	user, err := suite.users.GetByID(999)
	suite.NoError(err)
	suite.Nil(user)

	user, err = suite.users.GetByUsername("ghost")
	suite.NoError(err)
	suite.Nil(user)

	stats, err := suite.users.Statistics(999)
	suite.NoError(err)
	suite.Nil(stats)
}

func (suite *RepositoryTestSuite) TestUser_DuplicateUsername() {
	suite.createUser("alice", "alice@example.com", models.RoleDeveloper)

	dup, err := models.NewUser("alice", "other@example.com", models.RoleAdmin)
	suite.Require().NoError(err)
	_, err = suite.users.Add(dup)

	suite.True(apperrors.IsConstraintKind(err, apperrors.ConstraintUnique), "got %v", err)
	suite.Equal(uint64(0), dup.ID())
}

func (suite *RepositoryTestSuite) TestUser_DuplicateEmail() {
	suite.createUser("alice", "alice@example.com", models.RoleDeveloper)

	dup, err := models.NewUser("alice2", "alice@example.com", models.RoleAdmin)
	suite.Require().NoError(err)
	_, err = suite.users.Add(dup)

	suite.True(apperrors.IsConstraintKind(err, apperrors.ConstraintUnique), "got %v", err)
}

func (suite *RepositoryTestSuite) TestUser_GetAllOrderedByUsername() {
	suite.createUser("carol", "carol@example.com", models.RoleManager)
	suite.createUser("alice", "alice@example.com", models.RoleDeveloper)
	suite.createUser("bob", "bob@example.com", models.RoleDeveloper)

	users, err := suite.users.GetAll()
	suite.Require().NoError(err)
	suite.Require().Len(users, 3)
	suite.Equal("alice", users[0].Username())
	suite.Equal("bob", users[1].Username())
	suite.Equal("carol", users[2].Username())

	developers, err := suite.users.GetByRole(models.RoleDeveloper)
	suite.Require().NoError(err)
	suite.Len(developers, 2)
}

func (suite *RepositoryTestSuite) TestUser_Update() {
	user := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)

	role := models.RoleManager
	updated, err := suite.users.Update(user.ID(), models.UserUpdate{Role: &role})
	suite.Require().NoError(err)
	suite.True(updated)

	found, err := suite.users.GetByID(user.ID())
	suite.Require().NoError(err)
	suite.Equal(models.RoleManager, found.Role())
	suite.Equal("alice@example.com", found.Email())
}

func (suite *RepositoryTestSuite) TestUser_UpdateEdgeCases() {
	user := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)
	other := suite.createUser("bob", "bob@example.com", models.RoleDeveloper)

	updated, err := suite.users.Update(user.ID(), models.UserUpdate{})
	suite.NoError(err)
	suite.False(updated)

	email := "new@example.com"
	updated, err = suite.users.Update(999, models.UserUpdate{Email: &email})
	suite.NoError(err)
	suite.False(updated)

	bad := "not-an-email"
	updated, err = suite.users.Update(user.ID(), models.UserUpdate{Email: &bad})
	suite.True(apperrors.IsValidation(err))
	suite.False(updated)

	taken := other.Username()
	updated, err = suite.users.Update(user.ID(), models.UserUpdate{Username: &taken})
	suite.True(apperrors.IsConstraintKind(err, apperrors.ConstraintUnique), "got %v", err)
	suite.False(updated)
}

func (suite *RepositoryTestSuite) TestUser_Delete() {
	user := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)

	deleted, err := suite.users.Delete(user.ID())
	suite.Require().NoError(err)
	suite.True(deleted)

	deleted, err = suite.users.Delete(user.ID())
	suite.NoError(err)
	suite.False(deleted)
}

func (suite *RepositoryTestSuite) TestUser_Statistics() {
	user := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)
	project := suite.createProject("P1", time.Now().Add(30*24*time.Hour))

	done := suite.createTask("t1", models.PriorityHigh, time.Now().Add(time.Hour), project.ID(), user.ID())
	suite.createTask("t2", models.PriorityLow, time.Now().Add(2*time.Hour), project.ID(), user.ID())
	suite.insertPastDueTask("late", models.TaskStatusInProgress, project.ID(), user.ID())

	status := models.TaskStatusCompleted
	_, err := suite.tasks.Update(done.ID(), models.TaskUpdate{Status: &status})
	suite.Require().NoError(err)

	stats, err := suite.users.Statistics(user.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(stats)
	suite.Equal("alice", stats.Username)
	suite.Equal(models.RoleDeveloper, stats.Role)
	suite.Equal(int64(3), stats.TotalTasks)
	suite.Equal(int64(1), stats.CompletedTasks)
	suite.Equal(int64(1), stats.InProgressTasks)
	suite.Equal(int64(1), stats.PendingTasks)
	suite.Equal(int64(1), stats.OverdueTasks)
}

func (suite *RepositoryTestSuite) TestProject_AddGetAndOrder() {
	later := suite.createProject("Later", time.Now().Add(60*24*time.Hour))
	sooner := suite.createProject("Sooner", time.Now().Add(10*24*time.Hour))

	found, err := suite.projects.GetByID(later.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	suite.Equal("Later", found.Name())
	suite.Equal(models.ProjectStatusActive, found.Status())
	suite.WithinDuration(later.EndDate(), found.EndDate(), time.Millisecond)

	projects, err := suite.projects.GetAll()
	suite.Require().NoError(err)
	suite.Require().Len(projects, 2)
	suite.Equal(sooner.ID(), projects[0].ID())
	suite.Equal(later.ID(), projects[1].ID())

	missing, err := suite.projects.GetByID(999)
	suite.NoError(err)
	suite.Nil(missing)
}

func (suite *RepositoryTestSuite) TestProject_UpdateDates() {
	project := suite.createProject("P1", time.Now().Add(10*24*time.Hour))

	beforeStart := project.StartDate().Add(-time.Hour)
	updated, err := suite.projects.Update(project.ID(), models.ProjectUpdate{EndDate: &beforeStart})
	suite.True(apperrors.IsValidation(err))
	suite.False(updated)

	status := models.ProjectStatusOnHold
	newEnd := project.EndDate().Add(24 * time.Hour)
	updated, err = suite.projects.Update(project.ID(), models.ProjectUpdate{Status: &status, EndDate: &newEnd})
	suite.Require().NoError(err)
	suite.True(updated)

	found, err := suite.projects.GetByID(project.ID())
	suite.Require().NoError(err)
	suite.Equal(models.ProjectStatusOnHold, found.Status())
	suite.WithinDuration(newEnd, found.EndDate(), time.Millisecond)

	onHold, err := suite.projects.GetByStatus(models.ProjectStatusOnHold)
	suite.Require().NoError(err)
	suite.Len(onHold, 1)
}

func (suite *RepositoryTestSuite) TestProject_DeleteCascadesToTasks() {
	user := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)
	project := suite.createProject("P1", time.Now().Add(30*24*time.Hour))
	task := suite.createTask("t1", models.PriorityHigh, time.Now().Add(time.Hour), project.ID(), user.ID())

	deleted, err := suite.projects.Delete(project.ID())
	suite.Require().NoError(err)
	suite.True(deleted)

	found, err := suite.tasks.GetByID(task.ID())
	suite.NoError(err)
	suite.Nil(found)

	deleted, err = suite.projects.Delete(project.ID())
	suite.NoError(err)
	suite.False(deleted)
}

func (suite *RepositoryTestSuite) TestProject_Statistics() {
	user := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)
	project := suite.createProject("P1", time.Now().Add(30*24*time.Hour))
	suite.createTask("t1", models.PriorityHigh, time.Now().Add(time.Hour), project.ID(), user.ID())
	suite.insertPastDueTask("late", models.TaskStatusPending, project.ID(), user.ID())
	suite.insertPastDueTask("late but done", models.TaskStatusCompleted, project.ID(), user.ID())

	stats, err := suite.projects.Statistics(project.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(stats)
	suite.Equal("P1", stats.ProjectName)
	suite.Equal(models.ProjectStatusActive, stats.Status)
	suite.False(stats.IsOverdue)
	suite.InDelta(29, stats.DaysRemaining, 1)
	suite.Equal(int64(3), stats.TotalTasks)
	suite.Equal(int64(1), stats.CompletedTasks)
	suite.Equal(int64(2), stats.PendingTasks)
	suite.Equal(int64(1), stats.OverdueTasks)

	empty := suite.createProject("P2", time.Now().Add(time.Hour))
	stats, err = suite.projects.Statistics(empty.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(0), stats.TotalTasks)
	suite.Equal(int64(0), stats.OverdueTasks)
}

func (suite *RepositoryTestSuite) TestTask_AddAndGet() {
	user := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)
	project := suite.createProject("P1", time.Now().Add(30*24*time.Hour))
	due := time.Now().Add(7 * 24 * time.Hour)
	task := suite.createTask("t1", models.PriorityMedium, due, project.ID(), user.ID())
	suite.Greater(task.ID(), uint64(0))

	found, err := suite.tasks.GetByID(task.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	suite.Equal("t1", found.Title())
	suite.Equal(models.PriorityMedium, found.Priority())
	suite.Equal(models.TaskStatusPending, found.Status())
	suite.Equal(project.ID(), found.ProjectID())
	suite.Equal(user.ID(), found.AssigneeID())
	suite.WithinDuration(due, found.DueDate(), time.Millisecond)
}

func (suite *RepositoryTestSuite) TestTask_MissingReferences() {
	user := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)

	task, err := models.NewTask("orphan", "no project", models.PriorityHigh, time.Now().Add(time.Hour), 999, user.ID())
	suite.Require().NoError(err)
	_, err = suite.tasks.Add(task)
	suite.True(apperrors.IsConstraintKind(err, apperrors.ConstraintForeignKey), "got %v", err)

	project := suite.createProject("P1", time.Now().Add(30*24*time.Hour))
	stored := suite.createTask("t1", models.PriorityHigh, time.Now().Add(time.Hour), project.ID(), user.ID())

	ghost := uint64(999)
	updated, err := suite.tasks.Update(stored.ID(), models.TaskUpdate{AssigneeID: &ghost})
	suite.True(apperrors.IsConstraintKind(err, apperrors.ConstraintForeignKey), "got %v", err)
	suite.False(updated)
}

func (suite *RepositoryTestSuite) TestTask_Orderings() {
	user := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)
	project := suite.createProject("P1", time.Now().Add(30*24*time.Hour))
	now := time.Now()

	a := suite.createTask("a", models.PriorityLow, now.Add(1*time.Hour), project.ID(), user.ID())
	b := suite.createTask("b", models.PriorityHigh, now.Add(3*time.Hour), project.ID(), user.ID())
	c := suite.createTask("c", models.PriorityHigh, now.Add(2*time.Hour), project.ID(), user.ID())

	all, err := suite.tasks.GetAll()
	suite.Require().NoError(err)
	suite.Equal([]uint64{a.ID(), c.ID(), b.ID()}, taskIDs(all))

	byProject, err := suite.tasks.GetByProject(project.ID())
	suite.Require().NoError(err)
	suite.Equal([]uint64{c.ID(), b.ID(), a.ID()}, taskIDs(byProject))

	byUser, err := suite.tasks.GetByUser(user.ID())
	suite.Require().NoError(err)
	suite.Equal([]uint64{a.ID(), c.ID(), b.ID()}, taskIDs(byUser))
}

func (suite *RepositoryTestSuite) TestTask_Search() {
	user := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)
	project := suite.createProject("P1", time.Now().Add(30*24*time.Hour))

	task, err := models.NewTask("Fix Login", "crash on submit", models.PriorityHigh, time.Now().Add(time.Hour), project.ID(), user.ID())
	suite.Require().NoError(err)
	_, err = suite.tasks.Add(task)
	suite.Require().NoError(err)
	suite.createTask("Docs", models.PriorityLow, time.Now().Add(2*time.Hour), project.ID(), user.ID())

	found, err := suite.tasks.Search("login")
	suite.Require().NoError(err)
	suite.Equal([]uint64{task.ID()}, taskIDs(found))

	found, err = suite.tasks.Search("CRASH")
	suite.Require().NoError(err)
	suite.Equal([]uint64{task.ID()}, taskIDs(found))

	found, err = suite.tasks.Search("nothing like this")
	suite.Require().NoError(err)
	suite.Empty(found)
}

func (suite *RepositoryTestSuite) TestTask_UpdateAndDelete() {
	user := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)
	project := suite.createProject("P1", time.Now().Add(30*24*time.Hour))
	task := suite.createTask("t1", models.PriorityHigh, time.Now().Add(time.Hour), project.ID(), user.ID())

	updated, err := suite.tasks.Update(task.ID(), models.TaskUpdate{})
	suite.NoError(err)
	suite.False(updated)

	title := "t1 renamed"
	past := time.Now().Add(-time.Hour)
	updated, err = suite.tasks.Update(task.ID(), models.TaskUpdate{Title: &title, DueDate: &past})
	suite.Require().NoError(err)
	suite.True(updated)

	found, err := suite.tasks.GetByID(task.ID())
	suite.Require().NoError(err)
	suite.Equal("t1 renamed", found.Title())
	suite.True(found.IsOverdue())

	bad := models.Priority(0)
	updated, err = suite.tasks.Update(task.ID(), models.TaskUpdate{Priority: &bad})
	suite.True(apperrors.IsValidation(err))
	suite.False(updated)

	deleted, err := suite.tasks.Delete(task.ID())
	suite.Require().NoError(err)
	suite.True(deleted)

	deleted, err = suite.tasks.Delete(task.ID())
	suite.NoError(err)
	suite.False(deleted)
}

func (suite *RepositoryTestSuite) TestTask_CountAndReassign() {
	alice := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)
	bob := suite.createUser("bob", "bob@example.com", models.RoleDeveloper)
	project := suite.createProject("P1", time.Now().Add(30*24*time.Hour))
	suite.createTask("t1", models.PriorityHigh, time.Now().Add(time.Hour), project.ID(), alice.ID())
	suite.createTask("t2", models.PriorityLow, time.Now().Add(time.Hour), project.ID(), alice.ID())

	count, err := suite.tasks.CountByUser(alice.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(2), count)

	moved, err := suite.tasks.ReassignAll(alice.ID(), bob.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(2), moved)

	count, err = suite.tasks.CountByUser(alice.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(0), count)

	_, err = suite.tasks.ReassignAll(bob.ID(), 999)
	suite.True(apperrors.IsConstraintKind(err, apperrors.ConstraintForeignKey), "got %v", err)
}

func (suite *RepositoryTestSuite) TestTask_Statistics() {
	stats, err := suite.tasks.Statistics()
	suite.Require().NoError(err)
	suite.Equal(int64(0), stats.Total)
	suite.Equal(int64(0), stats.ByStatus[models.TaskStatusPending])

	user := suite.createUser("alice", "alice@example.com", models.RoleDeveloper)
	project := suite.createProject("P1", time.Now().Add(30*24*time.Hour))
	suite.createTask("t1", models.PriorityHigh, time.Now().Add(time.Hour), project.ID(), user.ID())
	suite.createTask("t2", models.PriorityLow, time.Now().Add(time.Hour), project.ID(), user.ID())
	suite.insertPastDueTask("late", models.TaskStatusInProgress, project.ID(), user.ID())

	stats, err = suite.tasks.Statistics()
	suite.Require().NoError(err)
	suite.Equal(int64(3), stats.Total)
	suite.Equal(int64(2), stats.ByStatus[models.TaskStatusPending])
	suite.Equal(int64(1), stats.ByStatus[models.TaskStatusInProgress])
	suite.Equal(int64(0), stats.ByStatus[models.TaskStatusCompleted])
	suite.Equal(int64(2), stats.ByPriority["high"])
	suite.Equal(int64(0), stats.ByPriority["medium"])
	suite.Equal(int64(1), stats.ByPriority["low"])
	suite.Equal(int64(1), stats.Overdue)
}

func taskIDs(tasks []*models.Task) []uint64 {
	ids := make([]uint64, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID()
	}
	return ids
}

// TestRepositoryTestSuite runs the test suite
func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
