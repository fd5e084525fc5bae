package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/breakfast4u/breakfast4u-api/config"
	"github.com/breakfast4u/breakfast4u-api/models"
	"github.com/breakfast4u/breakfast4u-api/services"
)

const currentUserKey = "current_user"

// RequireAuth verifies the bearer token, resolves it to an active user, and
// stores the user in the request context for handlers to read.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized to access this route",
			})
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the bearer token when present but lets the request
// through either way. Used on public routes that personalize their response
// for signed-in callers.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := resolveUser(c); ok {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// RequireRoles rejects with 403 unless the authenticated user has one of the
// given roles. Must run after RequireAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized to access this route",
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "User role is not authorized to access this route",
		})
		c.Abort()
	}
}

// CurrentUser returns the authenticated user stored by RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, &AuthError{Message: "No authenticated user in context"}
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, &AuthError{Message: "Authenticated user has unexpected type"}
	}
	return user, nil
}

// CanActOn is the single owner-or-admin authorization predicate: an actor may
// act on a resource it owns, and admins may act on anything.
func CanActOn(actor *models.User, resourceOwnerID uint) bool {
	return actor.Role == models.RoleAdmin || actor.ID == resourceOwnerID
}

// resolveUser parses the Authorization header and loads the active user the
// token was issued to.
func resolveUser(c *gin.Context) (*models.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	userID, err := services.ParseToken(parts[1])
	if err != nil {
		return nil, false
	}

	var user models.User
	db := config.GetDB()
	if err := db.First(&user, userID).Error; err != nil {
		return nil, false
	}
	if !user.IsActive {
		return nil, false
	}

	return &user, true
}

// AuthError represents an authentication error
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
