package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crowdfund/internal/service"
)

// AuthHandler exchanges credentials for a token.
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// ObtainToken handles POST /api-token-auth/.
func (h *AuthHandler) ObtainToken(c *gin.Context) {
	var input service.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	// Same token on every successful login; created on the first
	grant, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grant)
}
