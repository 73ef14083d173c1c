package media

import (
	"context"
	"errors"
	"net"
	nethttp "net/http"
	"time"

	"github.com/dmitrijs2005/vidkeeper/internal/logging"
)

// Server runs the media handler until its context is cancelled.
type Server struct {
	address string
	handler nethttp.Handler
	logger  logging.Logger
}

func NewServer(address string, h nethttp.Handler, l logging.Logger) *Server {
	return &Server{address: address, handler: h, logger: logging.ForModule(l, "media_server")}
}

func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis. Responses have no write timeout since
// recordings are streamed.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &nethttp.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping media server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "graceful shutdown failed", "error", err)
			_ = srv.Close()
		}
	}()

	s.logger.Info(ctx, "Starting media server", "address", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	return nil
}
