package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offboarding-dashboard/internal/model"
	"offboarding-dashboard/internal/repository"
)

func newRepo(t *testing.T) *repository.TaskRepository {
	t.Helper()

	db, err := repository.NewDB(repository.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.NewTaskRepository(db)
}

func aliceDraft() model.Draft {
	return model.Draft{
		Date:              "2025-03-15",
		PersonToOffboard:  "Alice",
		ResponsiblePerson: "Bob",
		OffboardingType:   model.TypeImmediate,
		Category:          "IT",
	}
}

func TestAddTask_Valid(t *testing.T) {
	svc := NewTaskService(newRepo(t))
	ctx := context.Background()

	task, added, err := svc.AddTask(ctx, aliceDraft())
	require.NoError(t, err)
	require.True(t, added)
	assert.NotZero(t, task.ID)
	assert.False(t, task.Completed)
	assert.Equal(t, aliceDraft(), task.Draft())

	list, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAddTask_UniqueIDs(t *testing.T) {
	svc := NewTaskService(newRepo(t))
	ctx := context.Background()

	seen := map[uint]bool{}
	for range 20 {
		task, added, err := svc.AddTask(ctx, aliceDraft())
		require.NoError(t, err)
		require.True(t, added)
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
	}
}

func TestAddTask_MissingRequiredFieldIsNoop(t *testing.T) {
	svc := NewTaskService(newRepo(t))
	ctx := context.Background()

	drafts := []model.Draft{
		{PersonToOffboard: "Alice", ResponsiblePerson: "Bob", OffboardingType: model.TypeShort},
		{Date: "2025-03-15", ResponsiblePerson: "Bob", OffboardingType: model.TypeShort},
		{Date: "2025-03-15", PersonToOffboard: "Alice", OffboardingType: model.TypeShort},
		{Date: "2025-03-15", PersonToOffboard: "Alice", ResponsiblePerson: "Bob"},
		{},
	}
	for _, d := range drafts {
		task, added, err := svc.AddTask(ctx, d)
		assert.NoError(t, err)
		assert.False(t, added)
		assert.Nil(t, task)
	}

	list, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateTask(t *testing.T) {
	svc := NewTaskService(newRepo(t))
	ctx := context.Background()

	first, _, err := svc.AddTask(ctx, aliceDraft())
	require.NoError(t, err)
	second, _, err := svc.AddTask(ctx, model.Draft{Date: "2025-04-01", PersonToOffboard: "Carol", ResponsiblePerson: "Dan", OffboardingType: model.TypeLong})
	require.NoError(t, err)

	edited := *first
	edited.PersonToOffboard = "Alicia"
	edited.OffboardingType = model.TypeShort
	ok, err := svc.UpdateTask(ctx, edited)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "Alicia", list[0].PersonToOffboard)
	assert.Equal(t, model.TypeShort, list[0].OffboardingType)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestUpdateTask_InvalidIsNoop(t *testing.T) {
	svc := NewTaskService(newRepo(t))
	ctx := context.Background()

	task, _, err := svc.AddTask(ctx, aliceDraft())
	require.NoError(t, err)

	edited := *task
	edited.ResponsiblePerson = ""
	ok, err := svc.UpdateTask(ctx, edited)
	assert.NoError(t, err)
	assert.False(t, ok)

	got, err := svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.ResponsiblePerson)
}

func TestUpdateTask_UnknownIDIsNoop(t *testing.T) {
	svc := NewTaskService(newRepo(t))
	ctx := context.Background()

	ok, err := svc.UpdateTask(ctx, model.Task{ID: 404, Date: "2025-01-01", PersonToOffboard: "X", ResponsiblePerson: "Y", OffboardingType: model.TypeLong})
	assert.NoError(t, err)
	assert.False(t, ok)

	list, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestToggleCompletion_IsItsOwnInverse(t *testing.T) {
	svc := NewTaskService(newRepo(t))
	ctx := context.Background()

	task, _, err := svc.AddTask(ctx, aliceDraft())
	require.NoError(t, err)

	once, err := svc.ToggleCompletion(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, once.Completed)

	twice, err := svc.ToggleCompletion(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, twice.Completed)
}

func TestToggleCompletion_UnknownID(t *testing.T) {
	svc := NewTaskService(newRepo(t))
	ctx := context.Background()

	task, _, err := svc.AddTask(ctx, aliceDraft())
	require.NoError(t, err)

	got, err := svc.ToggleCompletion(ctx, task.ID+1)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.ToggleCompletion(ctx, 0)
	assert.NoError(t, err)
	assert.Nil(t, got)

	stored, err := svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)
}

func TestFilterTasks(t *testing.T) {
	svc := NewTaskService(newRepo(t))
	ctx := context.Background()

	for _, d := range []model.Draft{
		{Date: "2025-03-15", PersonToOffboard: "Alice", ResponsiblePerson: "Bob", OffboardingType: model.TypeImmediate, Category: "IT"},
		{Date: "2025-03-16", PersonToOffboard: "Carol", ResponsiblePerson: "Dan", OffboardingType: model.TypeLong, Category: "Finance"},
		{Date: "2025-03-17", PersonToOffboard: "Erin", ResponsiblePerson: "alice smith", OffboardingType: model.TypeShort},
	} {
		_, added, err := svc.AddTask(ctx, d)
		require.NoError(t, err)
		require.True(t, added)
	}

	all, err := svc.FilterTasks(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Alice", "Carol", "Erin"}, people(all))

	got, err := svc.FilterTasks(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Erin"}, people(got))

	got, err = svc.FilterTasks(ctx, "fin")
	require.NoError(t, err)
	assert.Equal(t, []string{"Carol"}, people(got))

	got, err = svc.FilterTasks(ctx, "long")
	require.NoError(t, err)
	assert.Equal(t, []string{"Carol"}, people(got))

	got, err = svc.FilterTasks(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)

	after, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, people(all), people(after))
}

func TestGetTask_Errors(t *testing.T) {
	svc := NewTaskService(newRepo(t))
	ctx := context.Background()

	_, err := svc.GetTask(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = svc.GetTask(ctx, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func people(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.PersonToOffboard)
	}
	return out
}
