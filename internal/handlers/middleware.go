package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	errMissingAuth   = "missing Authorization header"
	errInvalidFormat = "invalid Authorization header format"
	errInvalidToken  = "invalid or expired token"
)

func (h *Handler) userIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMissingAuth})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidFormat})
		return
	}

	h.authorize(c, strings.TrimSpace(parts[1]))
}

// wsAuthMiddleware accepts either the Authorization header or a ?token= query parameter.
func (h *Handler) wsAuthMiddleware(c *gin.Context) {
	if token := c.Query("token"); token != "" {
		h.authorize(c, token)
		return
	}
	h.userIdMiddleware(c)
}

func (h *Handler) authorize(c *gin.Context, token string) {
	userId, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidToken})
		return
	}

	c.Set("userId", userId)
	c.Next()
}
