package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nventon/user-backend/internal/models"
	"github.com/nventon/user-backend/internal/repo"
	"github.com/nventon/user-backend/internal/service"
	"github.com/nventon/user-backend/internal/tokens"
	"github.com/nventon/user-backend/internal/transport"
)

type testEnv struct {
	E        *echo.Echo
	Auth     *AuthHTTP
	Users    *UserHTTP
	Sessions *service.SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Token{}))

	r := &repo.GormRepo{DB: db}
	sessions := &service.SessionService{
		Repo:  r,
		Codec: &tokens.Codec{Secret: []byte("test-jwt-secret"), TTL: 15 * 24 * time.Hour},
	}

	return &testEnv{
		E:        echo.New(),
		Auth:     &AuthHTTP{Svc: sessions},
		Users:    &UserHTTP{Svc: &service.UserService{Repo: r}},
		Sessions: sessions,
	}
}

func (env *testEnv) request(t *testing.T, method, target string, payload any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return env.E.NewContext(req, rec), rec
}

func (env *testEnv) seedUser(t *testing.T) {
	t.Helper()

	_, err := env.Users.Svc.CreateUser(context.Background(), transport.CreateUserRequest{
		LastName:  "Doe",
		FirstName: "John",
		Username:  "john_doe",
		Password:  "pass1234",
	})
	require.NoError(t, err)
}

func TestLoginHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t)

	c, rec := env.request(t, http.MethodPost, "/login", map[string]string{
		"username": "john_doe",
		"password": "pass1234",
	})

	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var res transport.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "john_doe", res.User.Username)
	assert.NotContains(t, rec.Body.String(), "password")

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "sessionToken", cookies[0].Name)
	assert.Equal(t, res.Token, cookies[0].Value)
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "unknown user", username: "nobody", password: "pass1234"},
		{name: "wrong password", username: "john_doe", password: "wrongpass"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c, _ := env.request(t, http.MethodPost, "/login", map[string]string{
				"username": tt.username,
				"password": tt.password,
			})

			err := env.Auth.Login(c)
			he, ok := err.(*echo.HTTPError)
			require.True(t, ok, "expected HTTPError")
			assert.Equal(t, http.StatusUnauthorized, he.Code)
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t)

	res, err := env.Sessions.Login(context.Background(), "john_doe", "pass1234")
	require.NoError(t, err)

	c, rec := env.request(t, http.MethodPost, "/logout", map[string]string{
		"username": "john_doe",
		"token":    res.Token,
	})
	require.NoError(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Revoked already, second attempt is a 404.
	c, _ = env.request(t, http.MethodPost, "/logout", map[string]string{
		"username": "john_doe",
		"token":    res.Token,
	})
	err = env.Auth.Logout(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestTryTokenHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t)
	ctx := context.Background()

	res, err := env.Sessions.Login(ctx, "john_doe", "pass1234")
	require.NoError(t, err)

	c, rec := env.request(t, http.MethodPost, "/try-token", map[string]string{
		"username": "john_doe",
		"token":    res.Token,
	})
	require.NoError(t, env.Auth.TryToken(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true}`, rec.Body.String())

	require.NoError(t, env.Sessions.Logout(ctx, "john_doe", res.Token))

	c, rec = env.request(t, http.MethodPost, "/try-token", map[string]string{
		"username": "john_doe",
		"token":    res.Token,
	})
	require.NoError(t, env.Auth.TryToken(c))
	assert.JSONEq(t, `{"valid":false}`, rec.Body.String())
}

func TestTryTokenHandler_InvalidToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t)

	c, _ := env.request(t, http.MethodPost, "/try-token", map[string]string{
		"username": "john_doe",
		"token":    "not-a-valid-jwt",
	})

	err := env.Auth.TryToken(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestTryTokenHandler_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.request(t, http.MethodPost, "/try-token", map[string]string{
		"username": "nobody",
		"token":    "whatever",
	})

	err := env.Auth.TryToken(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusNotFound, he.Code)
}
