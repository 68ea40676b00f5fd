package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func statusPtr(s models.TaskStatus) *models.TaskStatus { return &s }

// newTaskFixture registers two owners in a shared in-memory store.
func newTaskFixture(t *testing.T) (*TaskService, string, string) {
	t.Helper()
	m := repomanager.NewMemoryRepositoryManager()
	ctx := context.Background()
	for _, u := range []models.User{
		{ID: "owner", Email: "owner@example.com", IsActive: true},
		{ID: "other", Email: "other@example.com", IsActive: true},
	} {
		u := u
		_, err := m.Users().Create(ctx, &u)
		require.NoError(t, err)
	}
	return NewTaskService(m, nopLogger{}), "owner", "other"
}

func TestTaskService_CreateDefaults(t *testing.T) {
	s, owner, _ := newTaskFixture(t)

	task, err := s.Create(context.Background(), owner, models.TaskInput{Title: "buy milk"})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCreated, task.Status)
	assert.Equal(t, owner, task.UserID)
	assert.Nil(t, task.Description)
	_, err = uuid.Parse(task.ID)
	assert.NoError(t, err)
}

func TestTaskService_CreateValidation(t *testing.T) {
	s, owner, _ := newTaskFixture(t)
	ctx := context.Background()

	for name, in := range map[string]models.TaskInput{
		"empty title":    {Title: ""},
		"blank title":    {Title: "   "},
		"long title":     {Title: strings.Repeat("x", 256)},
		"unknown status": {Title: "ok", Status: "done"},
	} {
		_, err := s.Create(ctx, owner, in)
		assert.ErrorIs(t, err, common.ErrorValidation, name)
	}

	_, err := s.Create(ctx, owner, models.TaskInput{Title: strings.Repeat("ü", 255)})
	assert.NoError(t, err, "255 characters is the limit, not 255 bytes")
}

func TestTaskService_OwnershipIsolation(t *testing.T) {
	s, owner, other := newTaskFixture(t)
	ctx := context.Background()

	task, err := s.Create(ctx, owner, models.TaskInput{Title: "private", Description: strPtr("secret")})
	require.NoError(t, err)

	_, err = s.Get(ctx, other, task.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Update(ctx, other, task.ID, models.TaskPatch{Title: strPtr("hijacked")})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, s.Delete(ctx, other, task.ID), common.ErrorNotFound)

	list, err := s.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := s.Get(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)
}

func TestTaskService_Update(t *testing.T) {
	s, owner, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := s.Create(ctx, owner, models.TaskInput{Title: "draft", Description: strPtr("v1")})
	require.NoError(t, err)

	updated, err := s.Update(ctx, owner, task.ID, models.TaskPatch{Status: statusPtr(models.TaskStatusInProgress)})
	require.NoError(t, err)
	assert.Equal(t, "draft", updated.Title)
	assert.Equal(t, models.TaskStatusInProgress, updated.Status)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "v1", *updated.Description)

	updated, err = s.Update(ctx, owner, task.ID, models.TaskPatch{Title: strPtr("final"), ClearDescription: true})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.Nil(t, updated.Description)

	_, err = s.Update(ctx, owner, task.ID, models.TaskPatch{Title: strPtr("")})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Update(ctx, owner, task.ID, models.TaskPatch{Status: statusPtr("archived")})
	assert.ErrorIs(t, err, common.ErrorValidation)

	got, err := s.Get(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
}

func TestTaskService_ListAndDelete(t *testing.T) {
	s, owner, _ := newTaskFixture(t)
	ctx := context.Background()

	a, err := s.Create(ctx, owner, models.TaskInput{Title: "a"})
	require.NoError(t, err)
	_, err = s.Create(ctx, owner, models.TaskInput{Title: "b", Status: models.TaskStatusCompleted})
	require.NoError(t, err)

	list, err := s.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.Delete(ctx, owner, a.ID))
	assert.ErrorIs(t, s.Delete(ctx, owner, a.ID), common.ErrorNotFound)

	list, err = s.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Title)
}

func TestTaskService_MalformedIDIsNotFound(t *testing.T) {
	s, owner, _ := newTaskFixture(t)
	ctx := context.Background()

	_, err := s.Get(ctx, owner, "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.Update(ctx, owner, "", models.TaskPatch{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, owner, "1; DROP TABLE tasks"), common.ErrorNotFound)
}

func TestTaskService_StoreFailureIsInternal(t *testing.T) {
	dbDown := errors.New("db down")
	s := NewTaskService(&fakeRepoManager{t: &fakeTasksRepo{err: dbDown}}, nopLogger{})
	ctx := context.Background()
	id := uuid.NewString()

	_, err := s.List(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = s.Get(ctx, "u1", id)
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = s.Create(ctx, "u1", models.TaskInput{Title: "x"})
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = s.Update(ctx, "u1", id, models.TaskPatch{})
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.ErrorIs(t, s.Delete(ctx, "u1", id), common.ErrorInternal)
}
