package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nventon/user-backend/internal/transport"
)

func TestCreateUserHandler(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(t, http.MethodPost, "/users", map[string]string{
		"lastname":  "Doe",
		"firstname": "John",
		"username":  "john_doe",
		"password":  "pass1234",
	})

	require.NoError(t, env.Users.CreateUser(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var pub transport.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pub))
	assert.NotZero(t, pub.ID)
	assert.Equal(t, "john_doe", pub.Username)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestCreateUserHandler_ValidationFailure(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.request(t, http.MethodPost, "/users", map[string]string{
		"lastname":  "Doe",
		"firstname": "John",
		"username":  "john doe",
		"password":  "pass1234",
	})

	err := env.Users.CreateUser(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "wrong username", he.Message)
}

func TestCreateUserHandler_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t)

	c, _ := env.request(t, http.MethodPost, "/users", map[string]string{
		"lastname":  "Smith",
		"firstname": "Jane",
		"username":  "john_doe",
		"password":  "pass5678",
	})

	err := env.Users.CreateUser(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestGetUserHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t)

	c, rec := env.request(t, http.MethodGet, "/users/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, env.Users.GetUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var pub transport.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pub))
	assert.Equal(t, "john_doe", pub.Username)
}

func TestGetUserHandler_BadID(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.request(t, http.MethodGet, "/users/abc", nil)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := env.Users.GetUser(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetUserHandler_NotFound(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.request(t, http.MethodGet, "/users/42", nil)
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := env.Users.GetUser(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestUpdateUserHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t)

	c, rec := env.request(t, http.MethodPatch, "/users/1", map[string]any{
		"lastname":         "Doe-Smith",
		"admin_permission": 1,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, env.Users.UpdateUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var pub transport.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pub))
	assert.Equal(t, "Doe-Smith", pub.LastName)
	require.NotNil(t, pub.AdminPermission)
	assert.Equal(t, 1, *pub.AdminPermission)
}

func TestDeleteUserHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t)

	c, rec := env.request(t, http.MethodDelete, "/users/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, env.Users.DeleteUser(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	users, err := env.Users.Svc.GetUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)

	c, _ = env.request(t, http.MethodDelete, "/users/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err = env.Users.DeleteUser(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusNotFound, he.Code)
}
