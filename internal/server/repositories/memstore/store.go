// Package memstore is an in-process implementation of the user and task
// repositories. State lives in maps guarded by a single RWMutex, so email
// uniqueness and cascading deletes are atomic.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Store struct {
	mu      sync.RWMutex
	users   map[string]models.User
	byEmail map[string]string
	tasks   map[string]models.Task

	// txMu serialises WithTx callers.
	txMu sync.Mutex
	now  func() time.Time
}

func New() *Store {
	return &Store{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
		tasks:   make(map[string]models.Task),
		now:     time.Now,
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Tasks returns the task repository view of the store.
func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s: s} }

// WithTx runs fn and restores the previous state if fn fails or panics.
// Transactions are serialised among themselves; single repository calls made
// outside WithTx are not isolated from them.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()

	return fn(ctx)
}

type snapshot struct {
	users   map[string]models.User
	byEmail map[string]string
	tasks   map[string]models.Task
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		users:   make(map[string]models.User, len(s.users)),
		byEmail: make(map[string]string, len(s.byEmail)),
		tasks:   make(map[string]models.Task, len(s.tasks)),
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.byEmail {
		snap.byEmail[k] = v
	}
	for k, v := range s.tasks {
		snap.tasks[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.byEmail, s.tasks = snap.users, snap.byEmail, snap.tasks
}

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.byEmail[user.Email]; ok {
		return nil, fmt.Errorf("user with email %s: %w", user.Email, common.ErrorAlreadyExists)
	}
	if _, ok := r.s.users[user.ID]; ok {
		return nil, fmt.Errorf("user id %s: %w", user.ID, common.ErrorAlreadyExists)
	}

	user.CreatedAt = r.s.now().UTC()
	r.s.users[user.ID] = *user
	r.s.byEmail[user.Email] = user.ID

	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

// Delete removes the user and all of its tasks.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, id)
	delete(r.s.byEmail, u.Email)
	for tid, t := range r.s.tasks {
		if t.UserID == id {
			delete(r.s.tasks, tid)
		}
	}
	return nil
}

type TaskRepository struct {
	s *Store
}

func cloneTask(t models.Task) *models.Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return &t
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[task.UserID]; !ok {
		return nil, fmt.Errorf("task owner %s: %w", task.UserID, common.ErrorNotFound)
	}
	if _, ok := r.s.tasks[task.ID]; ok {
		return nil, fmt.Errorf("task id %s: %w", task.ID, common.ErrorAlreadyExists)
	}

	now := r.s.now().UTC()
	task.CreatedAt, task.UpdatedAt = now, now
	r.s.tasks[task.ID] = *cloneTask(*task)

	return task, nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*models.Task, 0)
	for _, t := range r.s.tasks {
		if t.UserID == userID {
			result = append(result, cloneTask(t))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *TaskRepository) Get(ctx context.Context, userID, taskID string) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return cloneTask(t), nil
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.tasks[task.ID]
	if !ok || cur.UserID != task.UserID {
		return nil, common.ErrorNotFound
	}

	task.CreatedAt = cur.CreatedAt
	task.UpdatedAt = r.s.now().UTC()
	r.s.tasks[task.ID] = *cloneTask(*task)

	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[taskID]
	if !ok || t.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.s.tasks, taskID)
	return nil
}
