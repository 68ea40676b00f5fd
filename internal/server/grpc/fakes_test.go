package grpc

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type fakeAuth struct {
	resolveUser *models.UserView
	resolveErr  error
	gotToken    string
}

func (f *fakeAuth) Register(context.Context, string, string) (*models.UserView, error) {
	return nil, nil
}

func (f *fakeAuth) Authenticate(context.Context, string, string) (*models.UserView, error) {
	return nil, nil
}

func (f *fakeAuth) IssueToken(*models.UserView) (string, error) { return "", nil }

func (f *fakeAuth) ResolveCurrentUser(_ context.Context, token string) (*models.UserView, error) {
	f.gotToken = token
	return f.resolveUser, f.resolveErr
}

func (f *fakeAuth) DeleteAccount(context.Context, string) error { return nil }

type fakeTasks struct{}

func (fakeTasks) List(context.Context, string) ([]*models.Task, error) { return nil, nil }

func (fakeTasks) Get(context.Context, string, string) (*models.Task, error) { return nil, nil }

func (fakeTasks) Create(context.Context, string, models.TaskInput) (*models.Task, error) {
	return nil, nil
}

func (fakeTasks) Update(context.Context, string, string, models.TaskPatch) (*models.Task, error) {
	return nil, nil
}

func (fakeTasks) Delete(context.Context, string, string) error { return nil }
