// Package media serves saved recordings over HTTP for playback.
//
// GET /media/<absolute path> or GET /media?path=<path> streams a recording
// with range support. Object-store paths are answered with a redirect to a
// presigned URL when the store can produce one.
//
// Media requests carry the bridge access token in the access_token header
// or, for players that cannot set headers, the token query parameter.
// /health is open.
package media

import (
	"errors"
	"io"
	nethttp "net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidkeeper/internal/auth"
	"github.com/dmitrijs2005/vidkeeper/internal/bridge"
	"github.com/dmitrijs2005/vidkeeper/internal/common"
	"github.com/dmitrijs2005/vidkeeper/internal/logging"
	"github.com/dmitrijs2005/vidkeeper/internal/models"
	"github.com/dmitrijs2005/vidkeeper/internal/storage"
)

type server struct {
	bridge    bridge.Bridge
	presigner storage.Presigner
	jwtSecret []byte
	logger    logging.Logger
}

// NewHandler builds the media mux. presigner may be nil; secret verifies
// access tokens.
func NewHandler(b bridge.Bridge, presigner storage.Presigner, secret []byte, l logging.Logger) nethttp.Handler {
	s := &server{bridge: b, presigner: presigner, jwtSecret: secret, logger: l}
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/media", s.handleMedia)
	mux.HandleFunc("/media/", s.handleMedia)
	mux.Handle("/health", HealthHandler())
	return mux
}

// mediaPath extracts the recording path from the request.
func mediaPath(r *nethttp.Request) string {
	if p := r.URL.Query().Get("path"); p != "" {
		return p
	}
	rest := strings.TrimPrefix(r.URL.Path, "/media")
	if rest == "" || rest == "/" {
		return ""
	}
	if trimmed := strings.TrimPrefix(rest, "/"); storage.IsS3Path(trimmed) {
		return trimmed
	}
	// s3:// loses one slash when routed through a cleaned path
	if trimmed := strings.TrimPrefix(rest, "/"); strings.HasPrefix(trimmed, "s3:/") {
		return storage.S3Scheme + strings.TrimPrefix(trimmed, "s3:/")
	}
	return filepath.Clean(filepath.FromSlash(rest))
}

func accessToken(r *nethttp.Request) string {
	if tok := r.Header.Get(common.AccessTokenHeaderName); tok != "" {
		return tok
	}
	return r.URL.Query().Get("token")
}

// authenticate returns the caller's client ID or writes a 401.
func (s *server) authenticate(w nethttp.ResponseWriter, r *nethttp.Request) (string, bool) {
	tok := accessToken(r)
	if tok == "" {
		httpError(w, nethttp.StatusUnauthorized, "missing token")
		return "", false
	}
	clientID, err := auth.GetClientIDFromToken(tok, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			httpError(w, nethttp.StatusUnauthorized, common.ErrTokenExpired.Error())
		} else {
			httpError(w, nethttp.StatusUnauthorized, common.ErrInvalidToken.Error())
		}
		return "", false
	}
	return clientID, true
}

func (s *server) handleMedia(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet && r.Method != nethttp.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		httpError(w, nethttp.StatusMethodNotAllowed, "method not allowed")
		return
	}

	clientID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	p := mediaPath(r)
	if p == "" {
		httpError(w, nethttp.StatusBadRequest, "missing path")
		return
	}
	ctx := r.Context()

	if storage.IsS3Path(p) && s.presigner != nil {
		url, err := s.presigner.PresignGet(ctx, p)
		if err != nil {
			s.logger.Error(ctx, "presign failed", "client", clientID, "path", p, "error", err)
			httpError(w, nethttp.StatusBadGateway, "unable to presign")
			return
		}
		nethttp.Redirect(w, r, url, nethttp.StatusFound)
		return
	}

	rc, err := s.bridge.FetchMedia(ctx, p)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			httpError(w, nethttp.StatusNotFound, "not found")
		case errors.Is(err, common.ErrPermissionDenied):
			httpError(w, nethttp.StatusForbidden, "forbidden")
		default:
			s.logger.Error(ctx, "fetch failed", "client", clientID, "path", p, "error", err)
			httpError(w, nethttp.StatusInternalServerError, "unable to read recording")
		}
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", common.VideoMimeType)
	name := models.NameFromPath(p)

	if rs, ok := rc.(io.ReadSeeker); ok {
		var modTime time.Time
		if f, ok := rc.(*os.File); ok {
			if fi, err := f.Stat(); err == nil {
				modTime = fi.ModTime()
			}
		}
		nethttp.ServeContent(w, r, name, modTime, rs)
		return
	}

	w.WriteHeader(nethttp.StatusOK)
	if r.Method == nethttp.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Debug(ctx, "media copy interrupted", "path", p, "error", err)
	}
}

func httpError(w nethttp.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}
