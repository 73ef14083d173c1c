package grpc

import (
	"context"
	"errors"
	"io"

	"github.com/dmitrijs2005/vidkeeper/internal/bridge"
	"github.com/dmitrijs2005/vidkeeper/internal/common"
	pb "github.com/dmitrijs2005/vidkeeper/internal/proto"
	"github.com/dmitrijs2005/vidkeeper/internal/storage"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// toStatus maps bridge errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrPermissionDenied):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, storage.ErrNoObjectStore):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func destinationFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.DestinationHeaderName)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (s *GRPCServer) SaveVideo(stream grpc.ClientStreamingServer[wrapperspb.BytesValue, structpb.Struct]) error {
	ctx := stream.Context()

	dest := destinationFromContext(ctx)
	if dest == "" {
		return status.Error(codes.InvalidArgument, "missing destination")
	}

	var buf []byte
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if int64(len(buf))+int64(len(chunk.GetValue())) > s.maxUploadBytes {
			return status.Error(codes.ResourceExhausted, "recording too large")
		}
		buf = append(buf, chunk.GetValue()...)
	}

	clientID, _ := ClientIDFromContext(ctx)
	s.logger.Info(ctx, "Save request", "client", clientID, "destination", dest, "size", len(buf))

	v, err := s.bridge.WithDialog(bridge.FixedDialog{Path: dest}).SaveVideo(ctx, buf)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return toStatus(err)
	}

	resp, err := pb.VideoToStruct(v)
	if err != nil {
		return status.Error(codes.Internal, err.Error())
	}
	return stream.SendAndClose(resp)
}

func (s *GRPCServer) DeleteVideo(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	path := req.GetValue()
	if path == "" {
		return nil, status.Error(codes.InvalidArgument, "missing path")
	}

	clientID, _ := ClientIDFromContext(ctx)
	s.logger.Info(ctx, "Delete request", "client", clientID, "path", path)

	ok, err := s.bridge.DeleteVideo(ctx, path)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(ok), nil
}

func (s *GRPCServer) FetchMedia(req *wrapperspb.StringValue, stream grpc.ServerStreamingServer[wrapperspb.BytesValue]) error {
	ctx := stream.Context()
	path := req.GetValue()
	if path == "" {
		return status.Error(codes.InvalidArgument, "missing path")
	}

	rc, err := s.bridge.FetchMedia(ctx, path)
	if err != nil {
		return toStatus(err)
	}
	defer rc.Close()

	buf := make([]byte, pb.ChunkSize)
	for {
		n, err := rc.Read(buf)
		if n > 0 {
			if serr := stream.Send(wrapperspb.Bytes(buf[:n])); serr != nil {
				return serr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return toStatus(err)
		}
	}
}
