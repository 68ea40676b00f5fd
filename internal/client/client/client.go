package client

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/api"
)

type Client interface {
	Close() error
	Register(ctx context.Context, email, password string) (*api.User, error)
	Login(ctx context.Context, email, password string) error
	Logout()
	LoggedIn() bool
	Ping(ctx context.Context) error
	Me(ctx context.Context) (*api.User, error)
	DeleteAccount(ctx context.Context) error
	CreateTask(ctx context.Context, req *api.CreateTaskRequest) (*api.Task, error)
	ListTasks(ctx context.Context) ([]*api.Task, error)
	GetTask(ctx context.Context, id string) (*api.Task, error)
	UpdateTask(ctx context.Context, req *api.UpdateTaskRequest) (*api.Task, error)
	DeleteTask(ctx context.Context, id string) error
}
