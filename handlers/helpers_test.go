package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/tejakonduru/caption-serve/auth"
	"github.com/tejakonduru/caption-serve/caption"
	handler "github.com/tejakonduru/caption-serve/handlers"
	"github.com/tejakonduru/caption-serve/models"
	"github.com/tejakonduru/caption-serve/router"
	"github.com/tejakonduru/caption-serve/store"
	"github.com/tejakonduru/caption-serve/uploads"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testCaptions = caption.Set{
	English: "A grey cat sitting on a windowsill.",
	Telugu:  "కిటికీ మీద కూర్చున్న బూడిద రంగు పిల్లి.",
	Hindi:   "खिड़की पर बैठी एक धूसर बिल्ली।",
}

type stubCaptioner struct {
	set caption.Set
}

func (s stubCaptioner) Generate(ctx context.Context, data []byte, mimeType string) caption.Set {
	return s.set
}

type testEnv struct {
	app   *fiber.App
	store store.Store
	files *uploads.Store
	auth  *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Image{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	st := store.New(db)

	dir := t.TempDir()
	files, err := uploads.New(dir)
	require.NoError(t, err)

	authService := auth.NewService("test-secret", st)

	app := fiber.New(fiber.Config{BodyLimit: 50 << 20})
	router.SetupRoutes(app,
		handler.NewAuthHandler(st, authService),
		handler.NewImageHandler(st, files, stubCaptioner{set: testCaptions}),
		authService.TokenService(), st, dir)

	return &testEnv{app: app, store: st, files: files, auth: authService}
}

// newUser seeds a user row and returns it with a valid bearer token.
func (e *testEnv) newUser(t *testing.T, email string) (models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := models.User{
		ID:           "user-" + strings.SplitN(email, "@", 2)[0],
		Email:        &email,
		PasswordHash: hash,
	}
	require.NoError(t, e.store.UpsertUser(context.Background(), &user))

	token, err := e.auth.IssueToken(user)
	require.NoError(t, err)

	return user, token
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var env envelope
	if len(body) > 0 && json.Valid(body) {
		require.NoError(t, json.Unmarshal(body, &env))
	}
	return resp, env
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authedRequest(t *testing.T, method, target, token string, body io.Reader) *http.Request {
	t.Helper()

	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// multipartImage builds a multipart body with a single "image" part carrying
// the given content type.
func multipartImage(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func uploadImage(t *testing.T, e *testEnv, token, filename, contentType string, data []byte) (*http.Response, envelope) {
	t.Helper()

	body, formType := multipartImage(t, filename, contentType, data)
	req := authedRequest(t, http.MethodPost, "/api/upload-image", token, body)
	req.Header.Set("Content-Type", formType)
	return doRequest(t, e.app, req)
}
