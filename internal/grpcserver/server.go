//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_grpcserver
package grpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/sirahabazaar/delivery/internal/auth"
	"github.com/sirahabazaar/delivery/internal/metrics"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

const healthCheckMethod = "/grpc.health.v1.Health/Check"

type Storage interface {
	GetTracking(ctx context.Context, actor storage.Actor, deliveryID int64) (*storage.Tracking, error)
	ListPartners(ctx context.Context, actor storage.Actor, status string) ([]storage.Partner, error)
	ListAvailableOrders(ctx context.Context, actor storage.Actor) ([]storage.AvailableOrder, error)
}

var _ DeliveryAdminServer = (*Server)(nil)

type Server struct {
	storage Storage
	logger  *zap.Logger
}

func NewServer(st Storage, logger *zap.Logger) *Server {
	return &Server{
		storage: st,
		logger:  logger,
	}
}

// NewGRPCServer wires authentication, metrics and the health service around
// the admin service.
func NewGRPCServer(s *Server, issuer *auth.Issuer) *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.metricsInterceptor,
		auth.NewUnaryAuthInterceptor(issuer, healthCheckMethod),
	))
	RegisterDeliveryAdminServer(srv, s)
	healthpb.RegisterHealthServer(srv, health.NewServer())
	return srv
}

// Serve blocks until ctx is cancelled, then stops gracefully.
func Serve(ctx context.Context, srv *grpc.Server, addr string, logger *zap.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("grpc server starting", zap.String("address", addr))
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("grpc server stopping")
		srv.GracefulStop()
		return nil
	}
}

func (s *Server) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	metrics.GRPCRequestsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	return resp, err
}

func adminActor(ctx context.Context) (storage.Actor, error) {
	p, err := auth.RequireRole(ctx, storage.RoleAdmin)
	if err != nil {
		return storage.Actor{}, err
	}
	return storage.Actor{UserID: p.UserID, Role: p.Role}, nil
}

func (s *Server) GetTracking(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	l := s.logger.With(zap.String("rpc_method", "GetTracking"), zap.Int64("delivery_id", req.GetValue()))
	l.Debug("RPC call received")

	actor, err := adminActor(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "delivery id must be positive")
	}

	tracking, err := s.storage.GetTracking(ctx, actor, req.GetValue())
	if err != nil {
		l.Warn("GetTracking failed", zap.Error(err))
		return nil, toStatus(err)
	}

	out, err := toStruct(tracking)
	if err != nil {
		l.Error("failed to encode tracking", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to encode tracking")
	}
	return out, nil
}

func (s *Server) ListPartners(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	l := s.logger.With(zap.String("rpc_method", "ListPartners"))
	l.Debug("RPC call received")

	actor, err := adminActor(ctx)
	if err != nil {
		return nil, err
	}

	partners, err := s.storage.ListPartners(ctx, actor, "")
	if err != nil {
		l.Warn("ListPartners failed", zap.Error(err))
		return nil, toStatus(err)
	}

	out, err := toList(partners)
	if err != nil {
		l.Error("failed to encode partners", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to encode partners")
	}
	return out, nil
}

func (s *Server) ListAvailableOrders(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	l := s.logger.With(zap.String("rpc_method", "ListAvailableOrders"))
	l.Debug("RPC call received")

	actor, err := adminActor(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := s.storage.ListAvailableOrders(ctx, actor)
	if err != nil {
		l.Warn("ListAvailableOrders failed", zap.Error(err))
		return nil, toStatus(err)
	}

	out, err := toList(orders)
	if err != nil {
		l.Error("failed to encode orders", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to encode orders")
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, storage.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, storage.ErrForbidden), errors.Is(err, storage.ErrPartnerNotEligible):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, repository.ErrObjectNotFound):
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}

// toStruct goes through the JSON form so field names match the HTTP API.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func toList(v interface{}) (*structpb.ListValue, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var items []interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return structpb.NewList(items)
}
