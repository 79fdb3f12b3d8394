package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"phonebook/api/handler"
	"phonebook/api/middleware"
	"phonebook/config"
	"phonebook/internal/metrics"
	"phonebook/internal/repository"
	"phonebook/internal/service"
	"phonebook/internal/utils"
	"phonebook/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type mailbox struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *mailbox) SendVerificationEmail(_ context.Context, email string, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[email] = token
	return nil
}

func (m *mailbox) token(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[email]
}

func newTestServer(t *testing.T) (*echo.Echo, *mailbox) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log, _ := test.NewNullLogger()
	mail := &mailbox{tokens: map[string]string{}}
	secret := []byte("test-secret")
	svc := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewSessionRepository(db),
		repository.NewVerificationRepository(db),
		repository.NewSecurityLogRepository(db),
		mail,
		service.BcryptPasswordHasher{Cost: bcrypt.MinCost},
		service.JWTSessionIssuer{Manager: &utils.JWTManager{Secret: secret, SessionTTL: time.Hour}},
		service.VerificationTokenIssuerJWT{Secret: secret},
		worker.New(2),
		log,
		service.AuthConfig{},
	)

	e := echo.New()
	NewRouter(e, handler.NewAuthHandler(svc, log), middleware.AuthMiddleware{Auth: svc, Logger: log}, metrics.Handler()).RegisterRoutes()
	return e, mail
}

func do(t *testing.T, e *echo.Echo, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	}
	return rec.Code, payload
}

func TestSessionLifecycle(t *testing.T) {
	e, mail := newTestServer(t)
	creds := `{"email":"a@x.com","password":"longpass1"}`

	status, body := do(t, e, http.MethodPost, "/users/signup", creds, "")
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, map[string]any{"email": "a@x.com", "subscriptionTier": "starter"}, body)

	status, _ = do(t, e, http.MethodPost, "/users/login", creds, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = do(t, e, http.MethodGet, "/users/verify/"+mail.token("a@x.com"), "", "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Verification successful", body["message"])

	status, body = do(t, e, http.MethodPost, "/users/login", creds, "")
	require.Equal(t, http.StatusOK, status, body)
	first, _ := body["token"].(string)
	require.NotEmpty(t, first)
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "starter", user["subscriptionTier"])
	assert.NotEmpty(t, user["avatar"])

	status, body = do(t, e, http.MethodGet, "/users/current", "", first)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "starter", body["subscriptionTier"])

	status, body = do(t, e, http.MethodPost, "/users/login", creds, "")
	require.Equal(t, http.StatusOK, status, body)
	second, _ := body["token"].(string)
	require.NotEqual(t, first, second)

	status, _ = do(t, e, http.MethodGet, "/users/current", "", first)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = do(t, e, http.MethodPatch, "/users/subscription", `{"subscriptionTier":"pro"}`, second)
	require.Equal(t, http.StatusOK, status, body)
	user, _ = body["user"].(map[string]any)
	assert.Equal(t, "pro", user["subscriptionTier"])

	status, body = do(t, e, http.MethodPatch, "/users", `{"subscriptionTier":"business"}`, second)
	require.Equal(t, http.StatusOK, status, body)

	status, _ = do(t, e, http.MethodPost, "/users/logout", "", second)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, e, http.MethodGet, "/users/current", "", second)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestErrorResponses(t *testing.T) {
	e, mail := newTestServer(t)
	creds := `{"email":"a@x.com","password":"longpass1"}`

	status, _ := do(t, e, http.MethodPost, "/users/signup", creds, "")
	require.Equal(t, http.StatusCreated, status)

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{name: "duplicate signup", method: http.MethodPost, path: "/users/signup", body: `{"email":"A@X.com","password":"longpass2"}`, status: http.StatusConflict, message: "Email in use"},
		{name: "missing email", method: http.MethodPost, path: "/users/signup", body: `{"password":"longpass1"}`, status: http.StatusBadRequest, message: `"email" is required`},
		{name: "malformed body", method: http.MethodPost, path: "/users/login", body: `{"email":`, status: http.StatusBadRequest},
		{name: "wrong password", method: http.MethodPost, path: "/users/login", body: `{"email":"a@x.com","password":"longpass2"}`, status: http.StatusUnauthorized, message: "Email or password is wrong"},
		{name: "bad verify token", method: http.MethodPost, path: "/users/verify/nope", status: http.StatusBadRequest, message: "This token not exist or has been expired"},
		{name: "reverify unknown", method: http.MethodPost, path: "/users/verify", body: `{"email":"ghost@x.com"}`, status: http.StatusNotFound, message: "Not found"},
		{name: "reverify without email", method: http.MethodPost, path: "/users/verify", body: `{}`, status: http.StatusBadRequest, message: `"email" is required`},
		{name: "current without token", method: http.MethodGet, path: "/users/current", status: http.StatusUnauthorized, message: "Not authorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, e, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.status, status)
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
		})
	}

	status, body := do(t, e, http.MethodPost, "/users/verify", `{"email":"a@x.com"}`, "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Verification email sent", body["message"])

	token := mail.token("a@x.com")
	status, _ = do(t, e, http.MethodPost, "/users/verify/"+token, "", "")
	require.Equal(t, http.StatusOK, status)
	status, body = do(t, e, http.MethodPost, "/users/verify/"+token, "", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Verification has already been passed", body["message"])
}

func TestMetricsEndpoint(t *testing.T) {
	e, _ := newTestServer(t)
	do(t, e, http.MethodPost, "/users/login", `{"email":"a@x.com","password":"longpass1"}`, "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "phonebook_auth_events_total")
}
