package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/models"
	"github.com/vnkhanh/wikismart-edu-backend/services"
)

const currentUserKey = "current_user"

func bearerFromRequest(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	// Some mobile clients cannot set Authorization.
	if authHeader == "" {
		authHeader = c.GetHeader("X-Auth-Token")
	}
	if authHeader == "" {
		return "", false
	}
	return services.BearerToken(authHeader)
}

// authenticate resolves the current user, rendering the error and aborting
// when there is none.
func authenticate(c *gin.Context, guard *services.AccessGuard) (*models.User, bool) {
	if user, ok := CurrentUser(c); ok {
		return user, true
	}

	token, ok := bearerFromRequest(c)
	if !ok {
		RespondError(c, apperr.Unauthenticated("not authenticated"))
		return nil, false
	}

	user, err := guard.AuthenticateRequest(c.Request.Context(), token)
	if err != nil {
		RespondError(c, err)
		return nil, false
	}

	c.Set(currentUserKey, user)
	return user, true
}

// AuthMiddleware requires a valid bearer token and stores the live user.
func AuthMiddleware(guard *services.AccessGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, guard); !ok {
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is present
// and lets the request through anonymously otherwise.
func OptionalAuthMiddleware(guard *services.AccessGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerFromRequest(c)
		if !ok {
			c.Next()
			return
		}

		user, err := guard.AuthenticateRequest(c.Request.Context(), token)
		if err != nil {
			if apperr.KindOf(err) != apperr.KindUnauthenticated {
				RespondError(c, err)
				return
			}
			c.Next()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by the auth middlewares.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
