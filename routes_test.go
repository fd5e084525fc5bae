package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breakfast4u/breakfast4u-api/config"
	"github.com/breakfast4u/breakfast4u-api/models"
	"github.com/breakfast4u/breakfast4u-api/tests/testutil"
)

func serveAs(router *gin.Engine, method, path, authHeader string, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestUserManagementRoutesAreAdminOnly exercises the real route table: a
// plain customer must not be able to read or rewrite other accounts through
// the user-management endpoints.
func TestUserManagementRoutesAreAdminOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.OpenTestDB(t)
	router := setupRouter(&config.Config{CORSOrigin: "http://localhost:5173"})

	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	customer := testutil.CreateUser(t, db, models.RoleUser)
	customerAuth := testutil.BearerToken(t, customer)
	adminAuth := testutil.BearerToken(t, admin)

	adminPath := fmt.Sprintf("/api/users/%d", admin.ID)
	tamper := `{"name":"Renamed","isActive":false}`

	w := serveAs(router, http.MethodGet, "/api/users", customerAuth, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serveAs(router, http.MethodGet, adminPath, customerAuth, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serveAs(router, http.MethodPut, adminPath, customerAuth, tamper)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serveAs(router, http.MethodDelete, adminPath, customerAuth, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The admin record is untouched after the rejected write.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, admin.ID).Error)
	assert.NotEqual(t, "Renamed", reloaded.Name)
	assert.True(t, reloaded.IsActive)

	// The same endpoints work for an admin.
	w = serveAs(router, http.MethodGet, fmt.Sprintf("/api/users/%d", customer.ID), adminAuth, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serveAs(router, http.MethodPut, fmt.Sprintf("/api/users/%d", customer.ID), adminAuth, `{"name":"Trusted Name"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestFavoritesRoutesStayOpenToCustomers guards the split inside the users
// group: favorites belong to the authenticated user, not to admins.
func TestFavoritesRoutesStayOpenToCustomers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.OpenTestDB(t)
	router := setupRouter(&config.Config{CORSOrigin: "http://localhost:5173"})

	customer := testutil.CreateUser(t, db, models.RoleUser)
	customerAuth := testutil.BearerToken(t, customer)

	w := serveAs(router, http.MethodGet, "/api/users/favorites", customerAuth, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
