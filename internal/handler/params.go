package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/repository"
)

// Query parameter helpers. Absent or malformed values yield nil so a
// filter predicate is simply skipped, matching the permissive behavior of
// the original API.

func qStr(c echo.Context, key string) *string {
	v := c.QueryParam(key)
	if v == "" {
		return nil
	}
	return &v
}

func qUint64(c echo.Context, key string) *uint64 {
	v := c.QueryParam(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func qInt(c echo.Context, key string) *int {
	v := c.QueryParam(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func qFloat(c echo.Context, key string) *float64 {
	v := c.QueryParam(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func qBool(c echo.Context, key string) *bool {
	switch c.QueryParam(key) {
	case "true", "True", "1":
		b := true
		return &b
	case "false", "False", "0":
		b := false
		return &b
	}
	return nil
}

func qTime(c echo.Context, key string) *time.Time {
	v := c.QueryParam(key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil
}

// fieldErrors renders field-level validation failures in the original
// response shape.
func fieldErrors(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"errors": fields})
}

// repoError maps repository sentinels to HTTP responses. Unknown errors
// become opaque 500s.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrUsernameExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	case isNotFound(err):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

func isNotFound(err error) bool {
	for _, sentinel := range []error{
		repository.ErrUserNotFound,
		repository.ErrNotificationNotFound,
		repository.ErrCompanyNotFound,
		repository.ErrRolNotFound,
		repository.ErrUserCompanyNotFound,
		repository.ErrShipNotFound,
		repository.ErrSeatTypeNotFound,
		repository.ErrSeatNotFound,
		repository.ErrRouteNotFound,
		repository.ErrTripNotFound,
		repository.ErrTripSeatNotFound,
		repository.ErrBookingNotFound,
		repository.ErrPaymentMethodNotFound,
		repository.ErrPaymentNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
