// Package proto defines the bridge service wire contract. Messages are
// protobuf well-known types, so the service descriptor is written by hand
// in the shape protoc-gen-go-grpc produces.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "vidkeeper.bridge.BridgeService"

const (
	BridgeService_SaveVideo_FullMethodName   = "/vidkeeper.bridge.BridgeService/SaveVideo"
	BridgeService_DeleteVideo_FullMethodName = "/vidkeeper.bridge.BridgeService/DeleteVideo"
	BridgeService_FetchMedia_FullMethodName  = "/vidkeeper.bridge.BridgeService/FetchMedia"
)

// ChunkSize bounds each streamed BytesValue.
const ChunkSize = 256 * 1024

// BridgeServiceClient is the client API for BridgeService.
type BridgeServiceClient interface {
	// SaveVideo streams the recording; the destination travels in the
	// x-destination metadata header.
	SaveVideo(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[wrapperspb.BytesValue, structpb.Struct], error)
	DeleteVideo(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	FetchMedia(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[wrapperspb.BytesValue], error)
}

type bridgeServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBridgeServiceClient(cc grpc.ClientConnInterface) BridgeServiceClient {
	return &bridgeServiceClient{cc}
}

func (c *bridgeServiceClient) SaveVideo(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[wrapperspb.BytesValue, structpb.Struct], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &BridgeService_ServiceDesc.Streams[0], BridgeService_SaveVideo_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.BytesValue, structpb.Struct]{ClientStream: stream}
	return x, nil
}

func (c *bridgeServiceClient) DeleteVideo(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(wrapperspb.BoolValue)
	err := c.cc.Invoke(ctx, BridgeService_DeleteVideo_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bridgeServiceClient) FetchMedia(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[wrapperspb.BytesValue], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &BridgeService_ServiceDesc.Streams[1], BridgeService_FetchMedia_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.StringValue, wrapperspb.BytesValue]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// BridgeServiceServer is the server API for BridgeService.
type BridgeServiceServer interface {
	SaveVideo(grpc.ClientStreamingServer[wrapperspb.BytesValue, structpb.Struct]) error
	DeleteVideo(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	FetchMedia(*wrapperspb.StringValue, grpc.ServerStreamingServer[wrapperspb.BytesValue]) error
}

// UnimplementedBridgeServiceServer can be embedded for forward
// compatibility.
type UnimplementedBridgeServiceServer struct{}

func (UnimplementedBridgeServiceServer) SaveVideo(grpc.ClientStreamingServer[wrapperspb.BytesValue, structpb.Struct]) error {
	return status.Errorf(codes.Unimplemented, "method SaveVideo not implemented")
}
func (UnimplementedBridgeServiceServer) DeleteVideo(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteVideo not implemented")
}
func (UnimplementedBridgeServiceServer) FetchMedia(*wrapperspb.StringValue, grpc.ServerStreamingServer[wrapperspb.BytesValue]) error {
	return status.Errorf(codes.Unimplemented, "method FetchMedia not implemented")
}

func RegisterBridgeServiceServer(s grpc.ServiceRegistrar, srv BridgeServiceServer) {
	s.RegisterService(&BridgeService_ServiceDesc, srv)
}

func _BridgeService_SaveVideo_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(BridgeServiceServer).SaveVideo(&grpc.GenericServerStream[wrapperspb.BytesValue, structpb.Struct]{ServerStream: stream})
}

func _BridgeService_DeleteVideo_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BridgeServiceServer).DeleteVideo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BridgeService_DeleteVideo_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BridgeServiceServer).DeleteVideo(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _BridgeService_FetchMedia_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(BridgeServiceServer).FetchMedia(m, &grpc.GenericServerStream[wrapperspb.StringValue, wrapperspb.BytesValue]{ServerStream: stream})
}

// BridgeService_ServiceDesc is the grpc.ServiceDesc for BridgeService.
var BridgeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BridgeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "DeleteVideo",
			Handler:    _BridgeService_DeleteVideo_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "SaveVideo",
			Handler:       _BridgeService_SaveVideo_Handler,
			ClientStreams: true,
		},
		{
			StreamName:    "FetchMedia",
			Handler:       _BridgeService_FetchMedia_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "vidkeeper/bridge.proto",
}
