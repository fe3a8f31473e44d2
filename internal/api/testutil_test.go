package api

import (
	"bytes"
	"context"
	"ecoponto_system/internal/domain"
	"ecoponto_system/internal/utils"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// stubUploader stands in for the Cloudinary image store
type stubUploader struct {
	url string
	err error
}

func (s stubUploader) Upload(_ context.Context, _ multipart.File, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

var errUploadDown = errors.New("image store unavailable")

// setupRouter builds a gin engine backed by a per-test in-memory database
// to avoid cross-test interference. Redis is disabled (nil client).
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Ecoponto{}, &domain.Usage{}, &domain.Item{}))
	r := gin.New()
	RegisterRoutes(r, db, nil, stubUploader{url: "https://img.example/photo.jpg"}, testSecret)
	return r, db
}

// newRouterWithUploader builds a router over an existing database with a
// custom uploader, for exercising image store failures
func newRouterWithUploader(db *gorm.DB, up stubUploader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, db, nil, up, testSecret)
	return r
}

// createUser inserts a user directly and returns it with a valid token
func createUser(t *testing.T, db *gorm.DB, username, role string) (domain.User, string) {
	t.Helper()
	u := domain.User{Username: username, Password: "irrelevant", Role: role}
	require.NoError(t, db.Create(&u).Error)
	token, err := utils.GenerateJWT(u.ID, testSecret)
	require.NoError(t, err)
	return u, token
}

// doJSON performs a JSON request, optionally authenticated
func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doMultipart performs a multipart form request, optionally attaching a photo
func doMultipart(r *gin.Engine, method, path, token string, fields map[string]string, withPhoto bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if withPhoto {
		fw, _ := mw.CreateFormFile("photo", "photo.jpg")
		_, _ = fw.Write([]byte("fake image bytes"))
	}
	_ = mw.Close()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
