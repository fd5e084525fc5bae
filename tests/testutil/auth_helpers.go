package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/breakfast4u/breakfast4u-api/models"
	"github.com/breakfast4u/breakfast4u-api/services"
)

var userSeq int

// CreateUser stores a user with the given role and a known password
// ("secret123"), ready to authenticate against the real login flow.
func CreateUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	userSeq++

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:     fmt.Sprintf("Test %s %d", role, userSeq),
		Email:    fmt.Sprintf("%s%d@test.breakfast4u.in", role, userSeq),
		Phone:    "9876543210",
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error, "Failed to create test user")
	return user
}

// BearerToken issues a real signed token for the user, as the login endpoint
// would.
func BearerToken(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := services.IssueToken(user)
	require.NoError(t, err, "Failed to issue test token")
	return "Bearer " + token
}
