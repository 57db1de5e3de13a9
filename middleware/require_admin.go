package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/wikismart-edu-backend/models"
	"github.com/vnkhanh/wikismart-edu-backend/services"
)

// RequireRoles authenticates the request and admits only the given roles.
// Missing or bad tokens get 401; a valid user with another role gets 403.
func RequireRoles(guard *services.AccessGuard, allowedRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := authenticate(c, guard)
		if !ok {
			return
		}

		if err := guard.Authorize(user, allowedRoles...); err != nil {
			RespondError(c, err)
			return
		}
		c.Next()
	}
}

func RequireAdmin(guard *services.AccessGuard) gin.HandlerFunc {
	return RequireRoles(guard, models.RoleAdmin)
}
