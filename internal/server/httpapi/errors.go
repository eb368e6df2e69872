package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/realestate/internal/common"
	"github.com/dmitrijs2005/realestate/internal/server/repositories/accounts"
)

var errBadPayload = echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")

type errorResponse struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// statusFor maps an error to the status code and the message shown to the
// client. Internal details never reach the message.
func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		if msg, ok := he.Message.(string); ok && he.Code < http.StatusInternalServerError {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, "You are not authenticated!"
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrMalformedToken):
		return http.StatusForbidden, "Token is not valid!"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, forbiddenMessage(err)
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid email or password"
	case errors.Is(err, accounts.ErrEmailTaken):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, accounts.ErrNameTaken):
		return http.StatusBadRequest, "Name is already taken"
	case errors.Is(err, common.ErrConflict):
		return http.StatusBadRequest, "Already exists"
	case errors.Is(err, common.ErrValidation):
		if d := detail(err, common.ErrValidation); d != "" {
			return http.StatusBadRequest, d
		}
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, common.ErrorNotFound):
		if d := detail(err, common.ErrorNotFound); d != "" {
			return http.StatusNotFound, d
		}
		return http.StatusNotFound, "User not found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable)
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// detail returns what follows "<sentinel>: " in err's message, capitalized.
func detail(err, sentinel error) string {
	_, d, ok := strings.Cut(err.Error(), sentinel.Error()+": ")
	if !ok || d == "" {
		return ""
	}
	return strings.ToUpper(d[:1]) + d[1:]
}

func forbiddenMessage(err error) string {
	if d := detail(err, common.ErrForbidden); d != "" {
		return d + "!"
	}
	return "You can only access your own account"
}

// handleError is the echo error handler: every error a handler or middleware
// returns ends up here as {success:false,status,message}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, msg := statusFor(err)
	ctx := c.Request().Context()
	if status >= http.StatusInternalServerError {
		s.log.Error(ctx, "request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	} else {
		s.log.Debug(ctx, "request rejected", "method", c.Request().Method, "path", c.Path(), "status", status, "error", err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, errorResponse{Success: false, Status: status, Message: msg})
	}
	if writeErr != nil {
		s.log.Warn(ctx, "write error response", "error", fmt.Sprint(writeErr))
	}
}
