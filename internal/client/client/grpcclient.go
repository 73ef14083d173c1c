package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/vidkeeper/internal/auth"
	"github.com/dmitrijs2005/vidkeeper/internal/bridge"
	"github.com/dmitrijs2005/vidkeeper/internal/common"
	"github.com/dmitrijs2005/vidkeeper/internal/models"
	pb "github.com/dmitrijs2005/vidkeeper/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// TokenSource mints an access token.
type TokenSource func() (string, error)

// SecretTokenSource signs tokens locally with the shared secret.
func SecretTokenSource(clientID string, secret []byte, ttl time.Duration) TokenSource {
	return func() (string, error) {
		return auth.GenerateToken(clientID, secret, ttl)
	}
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.BridgeServiceClient
	dialog      bridge.Dialog
	defaultName string
	tokens      TokenSource

	mu          sync.Mutex
	accessToken string
}

var _ bridge.Bridge = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token(refresh bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accessToken != "" && !refresh {
		return s.accessToken, nil
	}
	if s.tokens == nil {
		return s.accessToken, nil
	}
	tok, err := s.tokens()
	if err != nil {
		return "", fmt.Errorf("mint access token: %w", err)
	}
	s.accessToken = tok
	return tok, nil
}

func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	return st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	tok, err := s.token(false)
	if err != nil {
		return err
	}

	err = invoker(withAccessToken(ctx, tok), method, req, reply, cc, opts...)
	if err == nil || !isTokenExpired(err) || s.tokens == nil {
		return err
	}

	tok, err = s.token(true)
	if err != nil {
		return err
	}
	return invoker(withAccessToken(ctx, tok), method, req, reply, cc, opts...)
}

func (s *GRPCClient) streamAccessTokenInterceptor(
	ctx context.Context,
	desc *grpc.StreamDesc,
	cc *grpc.ClientConn,
	method string,
	streamer grpc.Streamer,
	opts ...grpc.CallOption,
) (grpc.ClientStream, error) {
	tok, err := s.token(false)
	if err != nil {
		return nil, err
	}
	return streamer(withAccessToken(ctx, tok), desc, cc, method, opts...)
}

// NewBridgeClient connects to the bridge daemon at endpointURL. dialog picks
// save destinations locally; extra dial options are appended (tests use
// them to inject a bufconn dialer).
func NewBridgeClient(endpointURL string, tokens TokenSource, dialog bridge.Dialog, defaultName string, opts ...grpc.DialOption) (*GRPCClient, error) {
	if defaultName == "" {
		defaultName = common.DefaultVideoName
	}
	c := &GRPCClient{endpointURL: endpointURL, tokens: tokens, dialog: dialog, defaultName: defaultName}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithStreamInterceptor(s.streamAccessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewBridgeServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) SaveVideo(ctx context.Context, buf []byte) (*models.Video, error) {
	dest, ok, err := s.dialog.ChooseSavePath(ctx, s.defaultName)
	if err != nil {
		return nil, fmt.Errorf("choose destination: %w", err)
	}
	if !ok || dest == "" {
		return nil, nil
	}

	ctx = metadata.AppendToOutgoingContext(ctx, common.DestinationHeaderName, dest)
	resp, err := s.sendVideo(ctx, buf)
	if s.refreshExpired(err) {
		resp, err = s.sendVideo(ctx, buf)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrWriteFailure, s.mapError(err))
	}
	return pb.VideoFromStruct(resp)
}

// refreshExpired re-mints the cached token when err reports an expired one.
// Streams bypass the unary retry, so callers replay the whole call.
func (s *GRPCClient) refreshExpired(err error) bool {
	if err == nil || !isTokenExpired(err) || s.tokens == nil {
		return false
	}
	_, err = s.token(true)
	return err == nil
}

// sendVideo uploads buf in one client stream. Upload status, token expiry
// included, is only reported by CloseAndRecv.
func (s *GRPCClient) sendVideo(ctx context.Context, buf []byte) (*structpb.Struct, error) {
	stream, err := s.client.SaveVideo(ctx)
	if err != nil {
		return nil, err
	}

	for off := 0; off < len(buf); off += pb.ChunkSize {
		end := min(off+pb.ChunkSize, len(buf))
		if err := stream.Send(wrapperspb.Bytes(buf[off:end])); err != nil {
			// the real status comes from CloseAndRecv
			break
		}
	}

	return stream.CloseAndRecv()
}

func (s *GRPCClient) DeleteVideo(ctx context.Context, path string) (bool, error) {
	resp, err := s.client.DeleteVideo(ctx, wrapperspb.String(path))
	if err != nil {
		return false, fmt.Errorf("%w: %w", common.ErrDeleteFailure, s.mapError(err))
	}
	return resp.GetValue(), nil
}

// FetchMedia waits for the first chunk so that lookup errors surface here
// rather than on the first Read.
func (s *GRPCClient) FetchMedia(ctx context.Context, path string) (io.ReadCloser, error) {
	r, err := s.openMedia(ctx, path)
	if s.refreshExpired(err) {
		r, err = s.openMedia(ctx, path)
	}
	if err != nil {
		return nil, s.mapError(err)
	}
	return r, nil
}

func (s *GRPCClient) openMedia(ctx context.Context, path string) (*mediaReader, error) {
	ctx, cancel := context.WithCancel(ctx)
	stream, err := s.client.FetchMedia(ctx, wrapperspb.String(path))
	if err != nil {
		cancel()
		return nil, err
	}

	first, err := stream.Recv()
	if err != nil && !errors.Is(err, io.EOF) {
		cancel()
		return nil, err
	}

	r := &mediaReader{stream: stream, cancel: cancel, eof: errors.Is(err, io.EOF), mapErr: s.mapError}
	if first != nil {
		r.pending = first.GetValue()
	}
	return r, nil
}

type mediaReader struct {
	stream  grpc.ServerStreamingClient[wrapperspb.BytesValue]
	cancel  context.CancelFunc
	pending []byte
	eof     bool
	mapErr  func(error) error
}

func (r *mediaReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.eof {
			return 0, io.EOF
		}
		chunk, err := r.stream.Recv()
		if errors.Is(err, io.EOF) {
			r.eof = true
			continue
		}
		if err != nil {
			return 0, r.mapErr(err)
		}
		r.pending = chunk.GetValue()
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *mediaReader) Close() error {
	r.cancel()
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", st.Message(), common.ErrorNotFound)
	case codes.PermissionDenied:
		return fmt.Errorf("%s: %w", st.Message(), common.ErrPermissionDenied)
	case codes.Unauthenticated:
		return fmt.Errorf("%s: %w", st.Message(), ErrUnauthorized)
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
