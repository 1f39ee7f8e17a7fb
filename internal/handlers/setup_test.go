package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrioja/geotodo-backend/internal/config"
	"github.com/mrioja/geotodo-backend/internal/database"
	"github.com/mrioja/geotodo-backend/internal/dto"
	"github.com/mrioja/geotodo-backend/internal/handlers"
	"github.com/mrioja/geotodo-backend/internal/models"
	"github.com/mrioja/geotodo-backend/internal/routes"
	"github.com/mrioja/geotodo-backend/internal/services"
	"github.com/mrioja/geotodo-backend/internal/storage"
)

var dbCounter atomic.Int64

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	store *storage.MemoryStore
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Todo{}))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	database.DB = db // the health handler pings through the package global
	store := storage.NewMemoryStore()
	cfg := &config.Config{
		JWTSecret:    "test-secret",
		JWTExpiry:    time.Hour,
		PasswordSalt: "test-pepper",
	}

	app := fiber.New()
	routes.Setup(app, cfg,
		handlers.NewAuthHandler(services.NewAuthService(db, cfg)),
		handlers.NewTodoHandler(services.NewTodoService(db, store)),
		handlers.NewImageHandler(store),
		handlers.NewHealthHandler(),
	)

	return &testEnv{app: app, db: db, store: store}
}

// envelope matches the wire format of every JSON response.
type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Message string          `json:"message"`
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

// register creates a user through the API and returns its id and token.
func (e *testEnv) register(t *testing.T, email, password string) (string, string) {
	t.Helper()
	resp := e.doJSON(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var data dto.AuthData
	decodeData(t, decodeEnvelope(t, resp), &data)
	require.NotEmpty(t, data.Token)
	return data.User.ID.String(), data.Token
}

// createTodo posts a todo and returns its decoded response.
func (e *testEnv) createTodo(t *testing.T, token string, body interface{}) dto.TodoResponse {
	t.Helper()
	resp := e.doJSON(t, http.MethodPost, "/todos", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var todo dto.TodoResponse
	decodeData(t, decodeEnvelope(t, resp), &todo)
	return todo
}

// upload posts a multipart file to /images with an explicit part content type.
func (e *testEnv) upload(t *testing.T, token, filename, contentType string, content []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/images", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return b
}
