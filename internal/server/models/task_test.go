package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	for _, s := range []string{"created", "in_progress", "completed"} {
		got, err := ParseTaskStatus(s)
		require.NoError(t, err)
		assert.Equal(t, TaskStatus(s), got)
	}

	_, err := ParseTaskStatus("done")
	assert.Error(t, err)
	_, err = ParseTaskStatus("")
	assert.Error(t, err)
}

func TestTaskPatch_Apply(t *testing.T) {
	desc := "old"
	base := Task{ID: "t1", UserID: "u1", Title: "a", Description: &desc, Status: TaskStatusCreated}

	title := "b"
	status := TaskStatusCompleted
	got := TaskPatch{Title: &title, Status: &status}.Apply(base)
	assert.Equal(t, "b", got.Title)
	assert.Equal(t, TaskStatusCompleted, got.Status)
	require.NotNil(t, got.Description)
	assert.Equal(t, "old", *got.Description)
	assert.Equal(t, "a", base.Title, "original must not change")

	cleared := TaskPatch{ClearDescription: true}.Apply(base)
	assert.Nil(t, cleared.Description)

	newDesc := "new"
	replaced := TaskPatch{Description: &newDesc}.Apply(base)
	require.NotNil(t, replaced.Description)
	assert.Equal(t, "new", *replaced.Description)
}

func TestUser_View(t *testing.T) {
	u := &User{ID: "u1", Email: "a@example.com", PasswordHash: "h", IsActive: true}
	assert.Equal(t, &UserView{ID: "u1", Email: "a@example.com", IsActive: true}, u.View())
}
