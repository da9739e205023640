package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	serviceName = "siraha.delivery.v1.DeliveryAdmin"

	getTrackingMethod         = "/" + serviceName + "/GetTracking"
	listPartnersMethod        = "/" + serviceName + "/ListPartners"
	listAvailableOrdersMethod = "/" + serviceName + "/ListAvailableOrders"
)

// DeliveryAdminServer is served over protobuf well-known types only, so no
// generated stubs are needed.
type DeliveryAdminServer interface {
	GetTracking(ctx context.Context, in *wrapperspb.Int64Value) (*structpb.Struct, error)
	ListPartners(ctx context.Context, in *emptypb.Empty) (*structpb.ListValue, error)
	ListAvailableOrders(ctx context.Context, in *emptypb.Empty) (*structpb.ListValue, error)
}

var DeliveryAdminServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*DeliveryAdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetTracking", Handler: getTrackingHandler},
		{MethodName: "ListPartners", Handler: listPartnersHandler},
		{MethodName: "ListAvailableOrders", Handler: listAvailableOrdersHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "siraha/delivery/v1/admin.proto",
}

func RegisterDeliveryAdminServer(s grpc.ServiceRegistrar, srv DeliveryAdminServer) {
	s.RegisterService(&DeliveryAdminServiceDesc, srv)
}

func getTrackingHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DeliveryAdminServer).GetTracking(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getTrackingMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DeliveryAdminServer).GetTracking(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func listPartnersHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DeliveryAdminServer).ListPartners(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listPartnersMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DeliveryAdminServer).ListPartners(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func listAvailableOrdersHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DeliveryAdminServer).ListAvailableOrders(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listAvailableOrdersMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DeliveryAdminServer).ListAvailableOrders(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

type DeliveryAdminClient struct {
	cc grpc.ClientConnInterface
}

func NewDeliveryAdminClient(cc grpc.ClientConnInterface) *DeliveryAdminClient {
	return &DeliveryAdminClient{cc: cc}
}

func (c *DeliveryAdminClient) GetTracking(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getTrackingMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DeliveryAdminClient) ListPartners(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, listPartnersMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DeliveryAdminClient) ListAvailableOrders(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, listAvailableOrdersMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
