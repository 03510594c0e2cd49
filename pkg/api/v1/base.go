package apiv1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meridiandb/meridian/pkg/systemindices"
	"github.com/meridiandb/meridian/pkg/types"
)

const (
	HttpServerBaseRoute string = "/api/v1"
)

// Response is a standard API response structure
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SuccessResponse returns a successful response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// ErrorResponse returns an error response
func ErrorResponse(c echo.Context, code int, message string) error {
	return c.JSON(code, Response{
		Success: false,
		Error:   message,
	})
}

// ResolutionErrorResponse maps resolver errors onto HTTP statuses.
func ResolutionErrorResponse(c echo.Context, err error) error {
	var (
		notFound     *types.ErrIndexNotFound
		invalid      *types.ErrInvalidExpression
		alias        *types.ErrAliasNotSupported
		notSingle    *types.ErrNotSingleIndex
		noWrite      *types.ErrNoWriteIndex
		closed       *types.ErrIndexClosed
		crossCluster *types.ErrCrossClusterNotSupported
		notTarget    *types.ErrNotSingleTarget
		sysDS        *types.ErrSystemDataStreamAccess
		sysIdx       *types.ErrSystemIndexAccess
	)
	switch {
	case errors.As(err, &notFound):
		return ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.As(err, &closed):
		return ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.As(err, &sysDS), errors.As(err, &sysIdx):
		return ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.As(err, &invalid), errors.As(err, &alias), errors.As(err, &notSingle),
		errors.As(err, &noWrite), errors.As(err, &crossCluster), errors.As(err, &notTarget):
		return ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		return ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}

// RequestAccess extracts the system index access identity from request
// headers.
func RequestAccess(c echo.Context) systemindices.RequestAccess {
	h := c.Request().Header
	return systemindices.RequestAccess{
		SystemAccessDenied: h.Get(systemindices.HeaderSystemAccessAllowed) == "false",
		Product:            h.Get(systemindices.HeaderProductOrigin),
	}
}
