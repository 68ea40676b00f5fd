package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes. Validation and
// conflict messages are built by the services and safe to return; everything
// unexpected is logged and reported as a bare Internal error.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, common.ErrorInternal), errors.Is(err, common.ErrorIntegrity):
		return s.internal(ctx, err)
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrorInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.ErrorInvalidCredentials.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		s.logger.Warn(ctx, "request rejected", "reason", err.Error())
		return status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, common.ErrorNotFound.Error())
	default:
		return s.internal(ctx, err)
	}
}

func (s *GRPCServer) internal(ctx context.Context, err error) error {
	s.logger.Error(ctx, "request failed", "error", err.Error())
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}
