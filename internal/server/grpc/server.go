// Package grpc exposes the auth and task services over gRPC.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/api"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// AuthService is the subset of services.AuthService used by the transport.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.UserView, error)
	Authenticate(ctx context.Context, email, password string) (*models.UserView, error)
	IssueToken(user *models.UserView) (string, error)
	ResolveCurrentUser(ctx context.Context, token string) (*models.UserView, error)
	DeleteAccount(ctx context.Context, userID string) error
}

// TaskService is the subset of services.TaskService used by the transport.
type TaskService interface {
	List(ctx context.Context, userID string) ([]*models.Task, error)
	Get(ctx context.Context, userID, id string) (*models.Task, error)
	Create(ctx context.Context, userID string, in models.TaskInput) (*models.Task, error)
	Update(ctx context.Context, userID, id string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

type GRPCServer struct {
	address  string
	auth     AuthService
	tasks    TaskService
	tokenTTL time.Duration
	logger   logging.Logger
	health   *health.Server
}

func NewGRPCServer(address string, l logging.Logger, as AuthService, ts TaskService, tokenTTL time.Duration) *GRPCServer {
	return &GRPCServer{
		address:  address,
		logger:   l.With("module", "grpc_server"),
		auth:     as,
		tasks:    ts,
		tokenTTL: tokenTTL,
		health:   health.NewServer(),
	}
}

// NewServer builds the grpc.Server with interceptors, tracing and every
// service registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			s.correlationInterceptor,
			s.recoveryInterceptor,
			s.accessTokenInterceptor,
		),
	)

	api.RegisterTaskKeeperServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully. It returns only after the shutdown goroutine has exited.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	err := srv.Serve(lis)
	cancel()
	<-stopped
	return err
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}
