package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crowdfund/internal/middleware"
	"crowdfund/internal/service"
)

// UserHandler serves registration and user lookups.
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register handles POST /users/. The response never includes the password.
func (h *UserHandler) Register(c *gin.Context) {
	// Decode the payload; field rules are checked by the service
	var input service.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	// Hash and store; duplicates come back as a validation error
	user, err := h.userService.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	// Password is never serialized
	c.JSON(http.StatusCreated, user)
}

// ListUsers handles GET /users/.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /users/:id/.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me returns the authenticated caller.
func (h *UserHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, service.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, user)
}
