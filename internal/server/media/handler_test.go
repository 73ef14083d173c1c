package media

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/vidkeeper/internal/auth"
	"github.com/dmitrijs2005/vidkeeper/internal/bridge"
	"github.com/dmitrijs2005/vidkeeper/internal/common"
	"github.com/dmitrijs2005/vidkeeper/internal/logging"
	"github.com/dmitrijs2005/vidkeeper/internal/models"
	"github.com/dmitrijs2005/vidkeeper/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "media-secret"

func authed(t *testing.T, req *nethttp.Request) *nethttp.Request {
	t.Helper()
	tok, err := auth.GenerateToken("player", []byte(testSecret), time.Minute)
	require.NoError(t, err)
	req.Header.Set(common.AccessTokenHeaderName, tok)
	return req
}

type fakePresigner struct {
	url string
	err error
}

func (f fakePresigner) PresignGet(ctx context.Context, path string) (string, error) {
	return f.url + "?p=" + url.QueryEscape(path), f.err
}

// streamOnlyBridge returns non-seekable readers.
type streamOnlyBridge struct{ data string }

func (streamOnlyBridge) SaveVideo(context.Context, []byte) (*models.Video, error) { return nil, nil }
func (streamOnlyBridge) DeleteVideo(context.Context, string) (bool, error)        { return false, nil }
func (b streamOnlyBridge) FetchMedia(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(b.data)), nil
}

func setup(t *testing.T, root string) (nethttp.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(p, []byte("0123456789"), 0o600))
	b := bridge.NewLocalBridge(storage.NewLocalStore(root), bridge.CancelDialog{})
	return NewHandler(b, fakePresigner{url: "https://signed.example"}, []byte(testSecret), logging.Nop{}), p
}

func TestMedia_ServesFileByPath(t *testing.T) {
	h, p := setup(t, "")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authed(t, httptest.NewRequest("GET", "/media"+filepath.ToSlash(p), nil)))

	assert.Equal(t, 200, rr.Code)
	assert.Equal(t, common.VideoMimeType, rr.Header().Get("Content-Type"))
	assert.Equal(t, "0123456789", rr.Body.String())
}

func TestMedia_ServesFileByQuery(t *testing.T) {
	h, p := setup(t, "")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authed(t, httptest.NewRequest("GET", "/media?path="+url.QueryEscape(p), nil)))

	assert.Equal(t, 200, rr.Code)
	assert.Equal(t, "0123456789", rr.Body.String())
}

func TestMedia_RangeRequest(t *testing.T) {
	h, p := setup(t, "")

	req := authed(t, httptest.NewRequest("GET", "/media?path="+url.QueryEscape(p), nil))
	req.Header.Set("Range", "bytes=2-5")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, nethttp.StatusPartialContent, rr.Code)
	assert.Equal(t, "2345", rr.Body.String())
}

func TestMedia_NotFound(t *testing.T) {
	h, p := setup(t, "")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authed(t, httptest.NewRequest("GET", "/media?path="+url.QueryEscape(p+".gone"), nil)))
	assert.Equal(t, nethttp.StatusNotFound, rr.Code)
}

func TestMedia_OutsideRoot_Forbidden(t *testing.T) {
	h, p := setup(t, t.TempDir())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authed(t, httptest.NewRequest("GET", "/media?path="+url.QueryEscape(p), nil)))
	assert.Equal(t, nethttp.StatusForbidden, rr.Code)
}

func TestMedia_MissingPath(t *testing.T) {
	h, _ := setup(t, "")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authed(t, httptest.NewRequest("GET", "/media", nil)))
	assert.Equal(t, nethttp.StatusBadRequest, rr.Code)
}

func TestMedia_MethodNotAllowed(t *testing.T) {
	h, p := setup(t, "")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authed(t, httptest.NewRequest("DELETE", "/media?path="+url.QueryEscape(p), nil)))
	assert.Equal(t, nethttp.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, HEAD", rr.Header().Get("Allow"))
}

func TestMedia_S3RedirectsToPresignedURL(t *testing.T) {
	h, _ := setup(t, "")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authed(t, httptest.NewRequest("GET", "/media?path="+url.QueryEscape("s3://bucket/a.mp4"), nil)))

	assert.Equal(t, nethttp.StatusFound, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Location"), "https://signed.example"))
}

func TestMedia_S3PresignError(t *testing.T) {
	b := bridge.NewLocalBridge(storage.NewLocalStore(""), bridge.CancelDialog{})
	h := NewHandler(b, fakePresigner{err: errors.New("no creds")}, []byte(testSecret), logging.Nop{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authed(t, httptest.NewRequest("GET", "/media?path="+url.QueryEscape("s3://bucket/a.mp4"), nil)))
	assert.Equal(t, nethttp.StatusBadGateway, rr.Code)
}

func TestMedia_NonSeekableStream(t *testing.T) {
	h := NewHandler(streamOnlyBridge{data: "streamed"}, nil, []byte(testSecret), logging.Nop{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authed(t, httptest.NewRequest("GET", "/media?path=s3://b/k", nil)))
	assert.Equal(t, 200, rr.Code)
	assert.Equal(t, "streamed", rr.Body.String())
}

func TestMedia_RequiresToken(t *testing.T) {
	h, p := setup(t, "")
	target := "/media?path=" + url.QueryEscape(p)

	expired, err := auth.GenerateToken("player", []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	forged, err := auth.GenerateToken("player", []byte("other"), time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"missing", "", "missing token"},
		{"expired", expired, common.ErrTokenExpired.Error()},
		{"wrong secret", forged, common.ErrInvalidToken.Error()},
		{"garbage", "not-a-jwt", common.ErrInvalidToken.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", target, nil)
			if tt.token != "" {
				req.Header.Set(common.AccessTokenHeaderName, tt.token)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, nethttp.StatusUnauthorized, rr.Code)
			assert.Equal(t, tt.want, rr.Body.String())
		})
	}
}

func TestMedia_S3RedirectRequiresToken(t *testing.T) {
	h, _ := setup(t, "")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/media?path="+url.QueryEscape("s3://bucket/a.mp4"), nil))
	assert.Equal(t, nethttp.StatusUnauthorized, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))
}

func TestMedia_TokenQueryParameter(t *testing.T) {
	h, p := setup(t, "")
	tok, err := auth.GenerateToken("player", []byte(testSecret), time.Minute)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/media"+filepath.ToSlash(p)+"?token="+url.QueryEscape(tok), nil))
	assert.Equal(t, 200, rr.Code)
	assert.Equal(t, "0123456789", rr.Body.String())
}

func TestMedia_HealthIsOpen(t *testing.T) {
	h, _ := setup(t, "")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, 200, rr.Code)
}

func TestMediaPath(t *testing.T) {
	cases := map[string]string{
		"/media/videos/a.mp4":          filepath.FromSlash("/videos/a.mp4"),
		"/media/videos/../x/a.mp4":     filepath.FromSlash("/x/a.mp4"),
		"/media/s3://bucket/key.mp4":   "s3://bucket/key.mp4",
		"/media/s3:/bucket/key.mp4":    "s3://bucket/key.mp4",
		"/media/":                      "",
		"/media?path=%2Ftmp%2Fb.mp4":   "/tmp/b.mp4",
		"/media?path=s3%3A%2F%2Fb%2Fk": "s3://b/k",
	}
	for target, want := range cases {
		req := httptest.NewRequest("GET", target, nil)
		assert.Equal(t, want, mediaPath(req), target)
	}
}

func TestHealthHandler_OK(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)

	h := HealthHandler()
	h.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("expected status 'ok', got %q", body.Status)
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer("", NewHandler(streamOnlyBridge{}, nil, []byte(testSecret), logging.Nop{}), logging.Nop{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	resp, err := nethttp.Get("http://" + lis.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
