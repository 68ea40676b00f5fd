package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const maxTitleLength = 255

// TaskService manages tasks on behalf of an authenticated user. Every call
// is scoped by userID; another owner's task is indistinguishable from a
// missing one.
type TaskService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	newID       func() (string, error)
}

func NewTaskService(m repomanager.RepositoryManager, logger logging.Logger) *TaskService {
	return &TaskService{
		repomanager: m,
		logger:      logger.With("module", "task_service"),
		newID:       newUUID,
	}
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", common.ErrorValidation, maxTitleLength)
	}
	return nil
}

func validateStatus(st models.TaskStatus) error {
	if _, err := models.ParseTaskStatus(string(st)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return nil
}

// taskID rejects malformed ids up front; they cannot name any task.
func taskID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", common.ErrorNotFound
	}
	return parsed.String(), nil
}

func passNotFound(op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return internalError(op, err)
}

func (s *TaskService) List(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := s.repomanager.Tasks().ListByUser(ctx, userID)
	if err != nil {
		return nil, internalError("list tasks", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	id, err := taskID(id)
	if err != nil {
		return nil, err
	}
	t, err := s.repomanager.Tasks().Get(ctx, userID, id)
	if err != nil {
		return nil, passNotFound("get task", err)
	}
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, userID string, in models.TaskInput) (*models.Task, error) {
	if in.Status == "" {
		in.Status = models.TaskStatusCreated
	}
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateStatus(in.Status); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, internalError("generate id", err)
	}

	t, err := s.repomanager.Tasks().Create(ctx, &models.Task{
		ID:          id,
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
	})
	if err != nil {
		return nil, internalError("create task", err)
	}

	s.logger.Info(ctx, "task created", "task_id", t.ID, "user_id", userID)
	return t, nil
}

// Update applies patch to the caller's task inside one transaction.
func (s *TaskService) Update(ctx context.Context, userID, id string, patch models.TaskPatch) (*models.Task, error) {
	id, err := taskID(id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil {
		if err := validateStatus(*patch.Status); err != nil {
			return nil, err
		}
	}

	var updated *models.Task
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		cur, err := r.Tasks.Get(ctx, userID, id)
		if err != nil {
			return err
		}
		next := patch.Apply(*cur)
		updated, err = r.Tasks.Update(ctx, &next)
		return err
	})
	if err != nil {
		return nil, passNotFound("update task", err)
	}
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	id, err := taskID(id)
	if err != nil {
		return err
	}
	if err := s.repomanager.Tasks().Delete(ctx, userID, id); err != nil {
		return passNotFound("delete task", err)
	}
	s.logger.Info(ctx, "task deleted", "task_id", id, "user_id", userID)
	return nil
}
