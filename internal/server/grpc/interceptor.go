package grpc

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/api"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the identity attached by the access token interceptor.
func CurrentUser(ctx context.Context) (*models.UserView, bool) {
	u, ok := ctx.Value(currentUserKey).(*models.UserView)
	return u, ok && u != nil
}

func withCurrentUser(ctx context.Context, u *models.UserView) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

func firstMetadata(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

var errMissingToken = errors.New("missing bearer token")

// bearerToken extracts the token from "authorization: Bearer <token>".
func bearerToken(ctx context.Context) (string, error) {
	header := strings.TrimSpace(firstMetadata(ctx, common.AuthorizationHeaderName))
	if header == "" {
		return "", errMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) || strings.TrimSpace(token) == "" {
		return "", errors.New("malformed authorization header")
	}
	return strings.TrimSpace(token), nil
}

// correlationInterceptor reuses the caller's correlation id or generates one,
// attaches it to the context for logging and echoes it in the response header.
func (s *GRPCServer) correlationInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	id := firstMetadata(ctx, common.CorrelationIDHeaderName)
	if id == "" {
		id = uuid.NewString()
	}
	ctx = logging.WithCorrelationID(ctx, id)
	_ = grpc.SetHeader(ctx, metadata.Pairs(common.CorrelationIDHeaderName, id))

	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "request handled",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, err
}

// recoveryInterceptor turns handler panics into Internal errors.
func (s *GRPCServer) recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error(ctx, "panic in handler", "method", info.FullMethod, "panic", fmt.Sprint(p), "stack", string(debug.Stack()))
			resp, err = nil, status.Error(codes.Internal, common.ErrorInternal.Error())
		}
	}()
	return handler(ctx, req)
}

// accessTokenInterceptor resolves the bearer token of every non-public method
// to a user and stores it in the context. All failures look the same to the
// caller; the reason is only logged.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if _, public := api.PublicMethods[info.FullMethod]; public {
		return handler(ctx, req)
	}

	token, err := bearerToken(ctx)
	if err != nil {
		s.logger.Warn(ctx, "request rejected", "method", info.FullMethod, "reason", err.Error())
		return nil, status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	}

	user, err := s.auth.ResolveCurrentUser(ctx, token)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return handler(withCurrentUser(ctx, user), req)
}
