package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "stockpicker.v1.PortfolioService"

// Method names of PortfolioService
const (
	MethodOptimize    = "Optimize"
	MethodListAssets  = "ListAssets"
	MethodAddAsset    = "AddAsset"
	MethodUpdateAsset = "UpdateAsset"
	MethodRemoveAsset = "RemoveAsset"
)

// PortfolioServiceServer is the server API for PortfolioService
// Requests and responses are google.protobuf.Struct documents; decimals travel as strings
type PortfolioServiceServer interface {
	Optimize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAssets(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddAsset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateAsset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveAsset(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(PortfolioServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PortfolioServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(PortfolioServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// FullMethod returns the "/service/method" path used on the wire
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PortfolioServiceDesc describes PortfolioService for grpc.Server registration
var PortfolioServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodOptimize, Handler: unaryHandler(MethodOptimize, PortfolioServiceServer.Optimize)},
		{MethodName: MethodListAssets, Handler: unaryHandler(MethodListAssets, PortfolioServiceServer.ListAssets)},
		{MethodName: MethodAddAsset, Handler: unaryHandler(MethodAddAsset, PortfolioServiceServer.AddAsset)},
		{MethodName: MethodUpdateAsset, Handler: unaryHandler(MethodUpdateAsset, PortfolioServiceServer.UpdateAsset)},
		{MethodName: MethodRemoveAsset, Handler: unaryHandler(MethodRemoveAsset, PortfolioServiceServer.RemoveAsset)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stockpicker/v1/portfolio.proto",
}

// RegisterPortfolioServiceServer registers srv on s
func RegisterPortfolioServiceServer(s grpc.ServiceRegistrar, srv PortfolioServiceServer) {
	s.RegisterService(&PortfolioServiceDesc, srv)
}

// PortfolioServiceClient is the client API for PortfolioService
type PortfolioServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPortfolioServiceClient creates a client over an established connection
func NewPortfolioServiceClient(cc grpc.ClientConnInterface) *PortfolioServiceClient {
	return &PortfolioServiceClient{cc: cc}
}

// Call invokes method with req and returns the response document
func (c *PortfolioServiceClient) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
