package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nstepanov/eshop/internal/hash"
	"github.com/nstepanov/eshop/internal/models"
)

func seedUser(t *testing.T, h *UserHandler) models.User {
	t.Helper()

	passwordHash, err := hash.HashPassword("password")
	require.NoError(t, err)

	user := models.User{
		Name:         "test_user",
		Email:        "test@example.com",
		PasswordHash: passwordHash,
		City:         "Springfield",
	}
	require.NoError(t, h.DB.Create(&user).Error)
	return user
}

func TestCreateUser(t *testing.T) {
	db := InitTestDB(t)
	h := &UserHandler{DB: db}

	payload := map[string]any{
		"name":     "new_user",
		"email":    "new@example.com",
		"password": "password",
		"isAdmin":  true,
	}

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/users", payload)
	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "new_user", created.Name)
	require.True(t, created.IsAdmin)
	require.NotEmpty(t, created.ID)

	var stored models.User
	require.NoError(t, db.First(&stored, created.ID).Error)
	require.NotEqual(t, "password", stored.PasswordHash)
	require.True(t, hash.CheckPassword(stored.PasswordHash, "password"))
}

func TestGetUserHidesPassword(t *testing.T) {
	db := InitTestDB(t)
	h := &UserHandler{DB: db}
	user := seedUser(t, h)

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/users/1", nil)
	c.SetParamNames("id")
	c.SetParamValues(itoa(user.ID))
	require.NoError(t, h.GetUser(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "PasswordHash")
	require.NotContains(t, rec.Body.String(), user.PasswordHash)
}

func TestUpdateUserKeepsHashWithoutPassword(t *testing.T) {
	db := InitTestDB(t)
	h := &UserHandler{DB: db}
	user := seedUser(t, h)

	payload := map[string]any{
		"name":  "renamed",
		"email": "test@example.com",
		"city":  "Shelbyville",
	}

	rec, c := doJSONRequest(t, http.MethodPut, "/api/v1/users/1", payload)
	c.SetParamNames("id")
	c.SetParamValues(itoa(user.ID))
	require.NoError(t, h.UpdateUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, "renamed", stored.Name)
	require.Equal(t, user.PasswordHash, stored.PasswordHash)
	require.True(t, hash.CheckPassword(stored.PasswordHash, "password"))
}

func TestUpdateUserRehashesNewPassword(t *testing.T) {
	db := InitTestDB(t)
	h := &UserHandler{DB: db}
	user := seedUser(t, h)

	payload := map[string]any{
		"name":     "test_user",
		"email":    "test@example.com",
		"password": "new_password",
	}

	rec, c := doJSONRequest(t, http.MethodPut, "/api/v1/users/1", payload)
	c.SetParamNames("id")
	c.SetParamValues(itoa(user.ID))
	require.NoError(t, h.UpdateUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.NotEqual(t, user.PasswordHash, stored.PasswordHash)
	require.True(t, hash.CheckPassword(stored.PasswordHash, "new_password"))
}

func TestCountUsers(t *testing.T) {
	db := InitTestDB(t)
	h := &UserHandler{DB: db}
	seedUser(t, h)

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/users/get/count", nil)
	require.NoError(t, h.CountUsers(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(1), resp["count"])
}
