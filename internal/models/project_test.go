package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yukikurage/task-tracker/internal/errors"
)

func newTestProject(t *testing.T, start, end time.Time, status ProjectStatus) *Project {
	t.Helper()

	project, err := RestoreProject(1, "Apollo", "Moon landing", start, end, status)
	require.NoError(t, err)
	return project
}

func TestNewProject(t *testing.T) {
	start := time.Now().Add(-24 * time.Hour)
	end := start.Add(30 * 24 * time.Hour)

	project, err := NewProject("Apollo", "Moon landing", start, end)
	require.NoError(t, err)

	assert.Equal(t, "Apollo", project.Name())
	assert.Equal(t, "Moon landing", project.Description())
	assert.True(t, start.Equal(project.StartDate()))
	assert.True(t, end.Equal(project.EndDate()))
	assert.Equal(t, ProjectStatusActive, project.Status())
}

func TestNewProject_Validation(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		projectName string
		description string
		start       time.Time
		end         time.Time
		field       string
	}{
		{"blank name", " ", "d", now.Add(-time.Hour), now.Add(time.Hour), "name"},
		{"blank description", "P", "", now.Add(-time.Hour), now.Add(time.Hour), "description"},
		{"end equals start", "P", "d", now.Add(-time.Hour), now.Add(-time.Hour), "end_date"},
		{"end before start", "P", "d", now.Add(-time.Hour), now.Add(-2 * time.Hour), "end_date"},
		{"start in the future", "P", "d", now.Add(time.Hour), now.Add(2 * time.Hour), "start_date"},
		{"name checked first", "", "", now.Add(time.Hour), now, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, err := NewProject(tt.projectName, tt.description, tt.start, tt.end)
			assert.Nil(t, project)

			var validationErr *apperrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestRestoreProject_AllowsFutureStart(t *testing.T) {
	start := time.Now().Add(48 * time.Hour)
	project, err := RestoreProject(3, "Later", "Starts later", start, start.Add(time.Hour), ProjectStatusOnHold)
	require.NoError(t, err)
	assert.Equal(t, ProjectStatusOnHold, project.Status())

	_, err = RestoreProject(3, "Later", "Starts later", start, start.Add(time.Hour), ProjectStatus("archived"))
	assert.True(t, apperrors.IsValidation(err))
}

func TestProject_Progress(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(100 * time.Hour)
	project := newTestProject(t, start, end, ProjectStatusActive)

	assert.Equal(t, 0.0, project.ProgressAt(start.Add(-time.Hour)))
	assert.InDelta(t, 0.25, project.ProgressAt(start.Add(25*time.Hour)), 1e-9)
	assert.Equal(t, 1.0, project.ProgressAt(end.Add(time.Hour)))

	previous := -1.0
	for h := -10; h <= 110; h += 5 {
		progress := project.ProgressAt(start.Add(time.Duration(h) * time.Hour))
		assert.GreaterOrEqual(t, progress, 0.0)
		assert.LessOrEqual(t, progress, 1.0)
		assert.GreaterOrEqual(t, progress, previous)
		previous = progress
	}
}

func TestProject_Progress_CompletedIsDone(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	project := newTestProject(t, start, start.Add(100*time.Hour), ProjectStatusCompleted)

	assert.Equal(t, 1.0, project.ProgressAt(start))
}

func TestProject_Progress_OnHoldFollowsTime(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	project := newTestProject(t, start, start.Add(100*time.Hour), ProjectStatusOnHold)

	assert.InDelta(t, 0.5, project.ProgressAt(start.Add(50*time.Hour)), 1e-9)
}

func TestProject_OverdueAndDaysRemaining(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(10 * 24 * time.Hour)
	project := newTestProject(t, start, end, ProjectStatusActive)

	assert.False(t, project.IsOverdueAt(end.Add(-time.Minute)))
	assert.True(t, project.IsOverdueAt(end.Add(time.Minute)))
	assert.Equal(t, 3, project.DaysRemainingAt(end.Add(-3*24*time.Hour-time.Hour)))
	assert.Equal(t, 0, project.DaysRemainingAt(end.Add(time.Hour)))

	require.True(t, project.UpdateStatus(ProjectStatusCompleted))
	assert.False(t, project.IsOverdueAt(end.Add(time.Minute)))
	assert.Equal(t, 0, project.DaysRemainingAt(start))
}

func TestProject_UpdateStatus(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	project := newTestProject(t, start, start.Add(time.Hour), ProjectStatusActive)

	assert.False(t, project.UpdateStatus(ProjectStatusActive))
	assert.False(t, project.UpdateStatus(ProjectStatus("archived")))
	assert.Equal(t, ProjectStatusActive, project.Status())

	assert.True(t, project.UpdateStatus(ProjectStatusOnHold))
	assert.Equal(t, ProjectStatusOnHold, project.Status())
}

func TestProject_Apply_ChecksStoredCounterpart(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(10 * 24 * time.Hour)
	project := newTestProject(t, start, end, ProjectStatusActive)

	lateStart := end.Add(time.Hour)
	err := project.Apply(ProjectUpdate{StartDate: &lateStart})
	require.Error(t, err)
	assert.True(t, start.Equal(project.StartDate()))

	newEnd := end.Add(24 * time.Hour)
	name := "Apollo 11"
	require.NoError(t, project.Apply(ProjectUpdate{Name: &name, EndDate: &newEnd}))
	assert.Equal(t, "Apollo 11", project.Name())
	assert.True(t, newEnd.Equal(project.EndDate()))
}

func TestProjectUpdate_ColumnsAreUTC(t *testing.T) {
	local := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))
	columns := ProjectUpdate{EndDate: &local}.Columns()

	end, ok := columns["end_date"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.UTC, end.Location())
	assert.True(t, local.Equal(end))
}
