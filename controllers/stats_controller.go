package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/wikismart-edu-backend/middleware"
)

func (h *Handler) GetGlobalStats(c *gin.Context) {
	stats, err := h.Stats.Global(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
