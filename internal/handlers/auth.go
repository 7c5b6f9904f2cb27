package handlers

import (
	"errors"
	"net/http"
	"strings"

	"brew_control/internal/service"

	"github.com/gin-gonic/gin"
)

// Credentials is the payload of both sign-up and sign-in.
type Credentials struct {
	Username string `json:"username" binding:"required" example:"brewer"`
	Password string `json:"password" binding:"required" example:"s3cr3t"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled, true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("auth_bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  Credentials  true  "Credentials"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input Credentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	username := strings.TrimSpace(input.Username)

	id, err := h.services.SignUp(c.Request.Context(), username, input.Password)
	if err != nil {
		h.logAndJSONError(c, err, "sign-up unavailable", "auth_sign_up_failed", "username", username)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary      Sign in
// @Description  Returns a Bearer token for the /api/v1 endpoints
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  Credentials  true  "Credentials"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input Credentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	username := strings.TrimSpace(input.Username)

	token, err := h.services.GenerateToken(c.Request.Context(), username, input.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"token": token})
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidPassword):
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "username", username, "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		if h.log != nil {
			h.log.Errorw("auth_sign_in_error", "username", username, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in unavailable"})
	}
}
