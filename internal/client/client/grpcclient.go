package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/api"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// rpcClient is implemented by *api.TaskKeeperClient.
type rpcClient interface {
	Register(ctx context.Context, in *api.RegisterRequest, opts ...grpc.CallOption) (*api.User, error)
	Login(ctx context.Context, in *api.LoginRequest, opts ...grpc.CallOption) (*api.LoginResponse, error)
	Ping(ctx context.Context, in *api.Empty, opts ...grpc.CallOption) (*api.PingResponse, error)
	Me(ctx context.Context, in *api.Empty, opts ...grpc.CallOption) (*api.User, error)
	DeleteMe(ctx context.Context, in *api.Empty, opts ...grpc.CallOption) (*api.Empty, error)
	CreateTask(ctx context.Context, in *api.CreateTaskRequest, opts ...grpc.CallOption) (*api.Task, error)
	ListTasks(ctx context.Context, in *api.Empty, opts ...grpc.CallOption) (*api.ListTasksResponse, error)
	GetTask(ctx context.Context, in *api.TaskIDRequest, opts ...grpc.CallOption) (*api.Task, error)
	UpdateTask(ctx context.Context, in *api.UpdateTaskRequest, opts ...grpc.CallOption) (*api.Task, error)
	DeleteTask(ctx context.Context, in *api.TaskIDRequest, opts ...grpc.CallOption) (*api.Empty, error)
}

var _ Client = (*GRPCClient)(nil)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      rpcClient

	mu          sync.RWMutex
	accessToken string
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func withMetadata(ctx context.Context, key, value string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(key, value)
	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the bearer token, a correlation id and the
// per-call timeout. A token the server refuses is forgotten.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if _, ok := ctx.Deadline(); !ok && s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx = withMetadata(ctx, common.CorrelationIDHeaderName, uuid.NewString())

	_, public := api.PublicMethods[method]
	token := s.token()
	if !public && token != "" {
		ctx = withMetadata(ctx, common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if status.Code(err) == codes.Unauthenticated && !public && token != "" {
		s.setToken("")
	}
	return err
}

func NewTaskKeeperClientService(endpointURL string, timeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewTaskKeeperClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, email, password string) (*api.User, error) {
	u, err := s.client.Register(ctx, &api.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	return u, nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) error {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		if status.Code(err) == codes.Unauthenticated {
			return ErrInvalidCredentials
		}
		return s.mapError(err)
	}

	s.setToken(resp.AccessToken)
	return nil
}

func (s *GRPCClient) Logout() {
	s.setToken("")
}

func (s *GRPCClient) LoggedIn() bool {
	return s.token() != ""
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &api.Empty{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// requireToken fails fast instead of sending a request the server will refuse.
func (s *GRPCClient) requireToken() error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}

func (s *GRPCClient) Me(ctx context.Context) (*api.User, error) {
	if err := s.requireToken(); err != nil {
		return nil, err
	}
	u, err := s.client.Me(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return u, nil
}

func (s *GRPCClient) DeleteAccount(ctx context.Context) error {
	if err := s.requireToken(); err != nil {
		return err
	}
	if _, err := s.client.DeleteMe(ctx, &api.Empty{}); err != nil {
		return s.mapError(err)
	}
	s.setToken("")
	return nil
}

func (s *GRPCClient) CreateTask(ctx context.Context, req *api.CreateTaskRequest) (*api.Task, error) {
	if err := s.requireToken(); err != nil {
		return nil, err
	}
	t, err := s.client.CreateTask(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return t, nil
}

func (s *GRPCClient) ListTasks(ctx context.Context) ([]*api.Task, error) {
	if err := s.requireToken(); err != nil {
		return nil, err
	}
	resp, err := s.client.ListTasks(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Tasks, nil
}

func (s *GRPCClient) GetTask(ctx context.Context, id string) (*api.Task, error) {
	if err := s.requireToken(); err != nil {
		return nil, err
	}
	t, err := s.client.GetTask(ctx, &api.TaskIDRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return t, nil
}

func (s *GRPCClient) UpdateTask(ctx context.Context, req *api.UpdateTaskRequest) (*api.Task, error) {
	if err := s.requireToken(); err != nil {
		return nil, err
	}
	t, err := s.client.UpdateTask(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return t, nil
}

func (s *GRPCClient) DeleteTask(ctx context.Context, id string) error {
	if err := s.requireToken(); err != nil {
		return err
	}
	if _, err := s.client.DeleteTask(ctx, &api.TaskIDRequest{ID: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.NotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
