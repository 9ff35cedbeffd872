package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"

	"crowdfund/internal/service"
	"crowdfund/pkg/logger"
)

const (
	detailForbidden     = "You do not have permission to perform this action."
	detailNotFound      = "Not found."
	detailUnauthorized  = "Authentication credentials were not provided."
	detailInternalError = "Internal server error."
)

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// respondError maps a service error onto its status code and body.
func respondError(c *gin.Context, err error) {
	var (
		verr *service.ValidationError
		ferr *service.ForbiddenError
		berr *service.BadRequestError
	)
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, verr.Fields)
	case errors.As(err, &berr):
		detail(c, http.StatusBadRequest, berr.Detail)
	case errors.As(err, &ferr):
		detail(c, http.StatusForbidden, ferr.Detail)
	case errors.Is(err, service.ErrForbidden):
		detail(c, http.StatusForbidden, detailForbidden)
	case errors.Is(err, service.ErrNotFound):
		detail(c, http.StatusNotFound, detailNotFound)
	case errors.Is(err, service.ErrNotAuthenticated):
		c.Header("WWW-Authenticate", "Token")
		detail(c, http.StatusUnauthorized, detailUnauthorized)
	case errors.Is(err, service.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Token")
		detail(c, http.StatusUnauthorized, "Unable to log in with provided credentials.")
	default:
		logger.WithCtx(c.Request.Context()).Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		detail(c, http.StatusInternalServerError, detailInternalError)
	}
}

// bindJSON decodes the request body into dst. An empty body decodes as {} so
// that missing fields surface as validation messages. It writes the 400
// response itself and returns false when the body cannot be decoded.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			typeErr.Field: []string{typeMessage(typeErr.Type, typeErr.Value)},
		})
		return false
	}
	detail(c, http.StatusBadRequest, "JSON parse error - "+err.Error())
	return false
}

func typeMessage(t reflect.Type, got string) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "A valid integer is required."
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "Incorrect type. Expected pk value, received " + got + "."
	case reflect.Bool:
		return "Must be a valid boolean."
	case reflect.String:
		return "Not a valid string."
	default:
		return "Invalid value."
	}
}

// pathID parses the :id parameter. Anything that is not a positive integer
// cannot name a row, so it is reported as 404.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		detail(c, http.StatusNotFound, detailNotFound)
		return 0, false
	}
	return uint(id), true
}
