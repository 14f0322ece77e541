package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"upload-url-api/config"
	domain "upload-url-api/internal/domain/upload"
)

type fakeUploadURLService struct{}

func (fakeUploadURLService) IssueUploadURL(ctx context.Context, req domain.Request) (*domain.SignedURL, error) {
	return &domain.SignedURL{URL: "https://bucket.example.com/" + req.FileName + "?sig=1"}, nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	public := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(public, "app.js"), []byte("console.log(1)"), 0o644))

	return config.Config{
		App: config.APP{
			Name:          "uploadurlapi",
			Port:          "5500",
			Env:           gin.TestMode,
			PublicDir:     public,
			ViewsDir:      t.TempDir(),
			StaticMaxAge:  time.Hour,
			LandingKey:    "pk_live_public",
			LandingSecret: "sk_live_do_not_leak",
		},
		S3: config.S3{
			Provider:        config.ProviderAWS,
			Region:          "ap-south-1",
			AccessKeyID:     "AKIDEXAMPLE",
			SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
			BucketUploads:   "image-test-bucket1",
		},
	}
}

func setupApp(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()

	r, err := newRouter(zap.NewNop(), cfg, nil)
	require.NoError(t, err)
	registerRoutes(r, cfg, zap.NewNop(), nil, fakeUploadURLService{})

	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Landing(t *testing.T) {
	r := setupApp(t, testConfig(t))

	rr := serve(r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pk_live_public")
	assert.NotContains(t, rr.Body.String(), "sk_live_do_not_leak")
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func TestRouter_Static(t *testing.T) {
	r := setupApp(t, testConfig(t))

	rr := serve(r, http.MethodGet, "/app.js", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "console.log(1)", rr.Body.String())

	rr = serve(r, http.MethodGet, "/nope.js", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_Upload(t *testing.T) {
	r := setupApp(t, testConfig(t))

	rr := serve(r, http.MethodPost, "/api/upload", `{"fileName":"cat.png","fileType":"image/png"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"url":"https://bucket.example.com/cat.png?sig=1"}`, rr.Body.String())

	// only POST is routed; anything else falls through to the static root
	rr = serve(r, http.MethodGet, "/api/upload", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_Ops(t *testing.T) {
	r := setupApp(t, testConfig(t))

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/healthz", "").Code)

	rr := serve(r, http.MethodGet, "/api/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestNewPresigner(t *testing.T) {
	cfg := testConfig(t)

	p, err := newPresigner(context.Background(), zap.NewNop(), cfg.S3)
	require.NoError(t, err)
	assert.Equal(t, config.ProviderAWS, p.Provider())

	cfg.S3.Provider = config.ProviderMinio
	cfg.S3.EndpointURL = "http://localhost:9000"
	p, err = newPresigner(context.Background(), zap.NewNop(), cfg.S3)
	require.NoError(t, err)
	assert.Equal(t, config.ProviderMinio, p.Provider())
	assert.Equal(t, "image-test-bucket1", p.GetBucket())

	cfg.S3.Provider = "gcs"
	_, err = newPresigner(context.Background(), zap.NewNop(), cfg.S3)
	require.Error(t, err)
}
