package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"easypro-api/internal/auth"
	"easypro-api/internal/database"
	"easypro-api/internal/models"
	"easypro-api/internal/storage"
	"easypro-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	return db
}

// seedUser stores a user and returns it with a valid token.
func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role) (models.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	user := models.User{FullName: email, Email: email, Password: hash, Role: role}
	require.NoError(t, db.Create(&user).Error)
	token, err := auth.GenerateToken(user.ID, string(user.Role))
	require.NoError(t, err)
	return user, token
}

func seedWriter(t *testing.T, db *gorm.DB, name string) models.Writer {
	t.Helper()
	w := models.Writer{FullName: name, Email: name + "@writers.test"}
	require.NoError(t, db.Create(&w).Error)
	return w
}

func doJSON(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type formFile struct {
	field, name, content string
}

func doMultipart(t *testing.T, r http.Handler, method, path, token string, fields map[string]string, files ...formFile) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, _ = fw.Write([]byte(f.content))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// fakeUploader records uploads and hands back predictable URLs.
type fakeUploader struct {
	mu      sync.Mutex
	folders []string
}

func (f *fakeUploader) Upload(_ context.Context, file io.Reader, filename, folder string) (string, error) {
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folders = append(f.folders, folder)
	return "https://cdn.test/" + folder + "/" + filename, nil
}

func useFakeUploader(t *testing.T) *fakeUploader {
	t.Helper()
	u := &fakeUploader{}
	prev := storage.GetUploader()
	storage.SetUploader(u)
	t.Cleanup(func() { storage.SetUploader(prev) })
	return u
}
