package api

import (
	"context"

	"google.golang.org/grpc"
)

// TaskKeeperClient is the client stub for TaskKeeperServer. Every call uses
// the JSON codec.
type TaskKeeperClient struct {
	cc grpc.ClientConnInterface
}

func NewTaskKeeperClient(cc grpc.ClientConnInterface) *TaskKeeperClient {
	return &TaskKeeperClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TaskKeeperClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, MethodRegister, in, opts)
}

func (c *TaskKeeperClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *TaskKeeperClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *TaskKeeperClient) Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, MethodMe, in, opts)
}

func (c *TaskKeeperClient) DeleteMe(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteMe, in, opts)
}

func (c *TaskKeeperClient) CreateTask(ctx context.Context, in *CreateTaskRequest, opts ...grpc.CallOption) (*Task, error) {
	return invoke[Task](ctx, c.cc, MethodCreateTask, in, opts)
}

func (c *TaskKeeperClient) ListTasks(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListTasksResponse, error) {
	return invoke[ListTasksResponse](ctx, c.cc, MethodListTasks, in, opts)
}

func (c *TaskKeeperClient) GetTask(ctx context.Context, in *TaskIDRequest, opts ...grpc.CallOption) (*Task, error) {
	return invoke[Task](ctx, c.cc, MethodGetTask, in, opts)
}

func (c *TaskKeeperClient) UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*Task, error) {
	return invoke[Task](ctx, c.cc, MethodUpdateTask, in, opts)
}

func (c *TaskKeeperClient) DeleteTask(ctx context.Context, in *TaskIDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteTask, in, opts)
}
