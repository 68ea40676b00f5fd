package grpc

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/api"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toAPIUser(u *models.UserView) *api.User {
	return &api.User{ID: u.ID, Email: u.Email, IsActive: u.IsActive}
}

func toAPITask(t *models.Task) *api.Task {
	return &api.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// currentUser is only empty for a method missing from the interceptor's
// protection, which is a programming error.
func currentUser(ctx context.Context) (*models.UserView, error) {
	u, ok := CurrentUser(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	}
	return u, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.User, error) {
	u, err := s.auth.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAPIUser(u), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	u, err := s.auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	token, err := s.auth.IssueToken(u)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", u.ID)
	return &api.LoginResponse{
		AccessToken: token,
		TokenType:   common.TokenType,
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *api.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *api.Empty) (*api.User, error) {
	u, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return toAPIUser(u), nil
}

func (s *GRPCServer) DeleteMe(ctx context.Context, _ *api.Empty) (*api.Empty, error) {
	u, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.auth.DeleteAccount(ctx, u.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) CreateTask(ctx context.Context, req *api.CreateTaskRequest) (*api.Task, error) {
	u, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.tasks.Create(ctx, u.ID, models.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAPITask(t), nil
}

func (s *GRPCServer) ListTasks(ctx context.Context, _ *api.Empty) (*api.ListTasksResponse, error) {
	u, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.tasks.List(ctx, u.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &api.ListTasksResponse{Tasks: make([]*api.Task, 0, len(list))}
	for _, t := range list {
		resp.Tasks = append(resp.Tasks, toAPITask(t))
	}
	return resp, nil
}

func (s *GRPCServer) GetTask(ctx context.Context, req *api.TaskIDRequest) (*api.Task, error) {
	u, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.tasks.Get(ctx, u.ID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAPITask(t), nil
}

func (s *GRPCServer) UpdateTask(ctx context.Context, req *api.UpdateTaskRequest) (*api.Task, error) {
	u, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	patch := models.TaskPatch{
		Title:            req.Title,
		Description:      req.Description,
		ClearDescription: req.ClearDescription,
	}
	if req.Status != nil {
		st := models.TaskStatus(*req.Status)
		patch.Status = &st
	}

	t, err := s.tasks.Update(ctx, u.ID, req.ID, patch)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAPITask(t), nil
}

func (s *GRPCServer) DeleteTask(ctx context.Context, req *api.TaskIDRequest) (*api.Empty, error) {
	u, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Delete(ctx, u.ID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}
