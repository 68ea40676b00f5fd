// Package tasks persists user tasks. Every operation is scoped by owner: a
// task that belongs to someone else is reported as common.ErrorNotFound.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Task, error)
	Get(ctx context.Context, userID, taskID string) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
}
