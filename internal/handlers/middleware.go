package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// operatorCtx is the gin context key holding the authenticated operator id.
const operatorCtx = "operatorId"

var (
	errNoAuthHeader  = errors.New("missing Authorization header")
	errBadAuthHeader = errors.New("invalid Authorization header format")
)

// requireOperator rejects requests without a valid Bearer token.
func (h *Handler) requireOperator(c *gin.Context) {
	token, err := bearerToken(c.GetHeader("Authorization"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_token_rejected", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	c.Set(operatorCtx, id)
	c.Next()
}

// bearerToken extracts the token of a "Bearer <token>" header. The scheme
// is case-insensitive.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errNoAuthHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errBadAuthHeader
	}
	return token, nil
}

// operatorID returns the id set by requireOperator.
func operatorID(c *gin.Context) (int, bool) {
	v, ok := c.Get(operatorCtx)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
