package api

import (
	"context"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const ServiceName = "taskkeeper.v1.TaskKeeper"

const (
	MethodRegister   = "/" + ServiceName + "/Register"
	MethodLogin      = "/" + ServiceName + "/Login"
	MethodPing       = "/" + ServiceName + "/Ping"
	MethodMe         = "/" + ServiceName + "/Me"
	MethodDeleteMe   = "/" + ServiceName + "/DeleteMe"
	MethodCreateTask = "/" + ServiceName + "/CreateTask"
	MethodListTasks  = "/" + ServiceName + "/ListTasks"
	MethodGetTask    = "/" + ServiceName + "/GetTask"
	MethodUpdateTask = "/" + ServiceName + "/UpdateTask"
	MethodDeleteTask = "/" + ServiceName + "/DeleteTask"
)

// PublicMethods can be called without an access token. Health checks are
// included so probes need no credentials.
var PublicMethods = map[string]struct{}{
	MethodRegister: {},
	MethodLogin:    {},
	MethodPing:     {},

	healthpb.Health_Check_FullMethodName: {},
}

type TaskKeeperServer interface {
	Register(context.Context, *RegisterRequest) (*User, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Ping(context.Context, *Empty) (*PingResponse, error)
	Me(context.Context, *Empty) (*User, error)
	DeleteMe(context.Context, *Empty) (*Empty, error)
	CreateTask(context.Context, *CreateTaskRequest) (*Task, error)
	ListTasks(context.Context, *Empty) (*ListTasksResponse, error)
	GetTask(context.Context, *TaskIDRequest) (*Task, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*Task, error)
	DeleteTask(context.Context, *TaskIDRequest) (*Empty, error)
}

func unary[Req, Resp any](fullMethod string, call func(TaskKeeperServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TaskKeeperServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TaskKeeperServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskKeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(MethodRegister, TaskKeeperServer.Register)},
		{MethodName: "Login", Handler: unary(MethodLogin, TaskKeeperServer.Login)},
		{MethodName: "Ping", Handler: unary(MethodPing, TaskKeeperServer.Ping)},
		{MethodName: "Me", Handler: unary(MethodMe, TaskKeeperServer.Me)},
		{MethodName: "DeleteMe", Handler: unary(MethodDeleteMe, TaskKeeperServer.DeleteMe)},
		{MethodName: "CreateTask", Handler: unary(MethodCreateTask, TaskKeeperServer.CreateTask)},
		{MethodName: "ListTasks", Handler: unary(MethodListTasks, TaskKeeperServer.ListTasks)},
		{MethodName: "GetTask", Handler: unary(MethodGetTask, TaskKeeperServer.GetTask)},
		{MethodName: "UpdateTask", Handler: unary(MethodUpdateTask, TaskKeeperServer.UpdateTask)},
		{MethodName: "DeleteTask", Handler: unary(MethodDeleteTask, TaskKeeperServer.DeleteTask)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "taskkeeper/v1/taskkeeper.proto",
}

func RegisterTaskKeeperServer(s grpc.ServiceRegistrar, srv TaskKeeperServer) {
	s.RegisterService(&ServiceDesc, srv)
}
