package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/middleware"
	"github.com/vnkhanh/wikismart-edu-backend/models"
	"github.com/vnkhanh/wikismart-edu-backend/services"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginInput follows the OAuth2 password flow: form-encoded username and
// password.
type LoginInput struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type LoginResponse struct {
	User  *models.User  `json:"user"`
	Token TokenResponse `json:"token"`
}

func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, bindError(err))
		return
	}

	user, err := h.Users.Register(c.Request.Context(), services.RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBind(&input); err != nil {
		middleware.RespondError(c, bindError(err))
		return
	}

	user, err := h.Users.Authenticate(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	token, expiresAt, err := h.Tokens.GenerateToken(user.ID.String(), user.Role)
	if err != nil {
		middleware.RespondError(c, apperr.Wrap(apperr.KindInternal, "issue token", err))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		User: user,
		Token: TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresAt:   expiresAt,
		},
	})
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.RespondError(c, apperr.Unauthenticated("not authenticated"))
		return
	}
	c.JSON(http.StatusOK, user)
}
