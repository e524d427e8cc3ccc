package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/model"
	"github.com/marcrz/naviera-booking/internal/repository"
)

// RolHandler serves the company role catalogue.
type RolHandler struct {
	Roles *repository.RolRepo
}

func NewRolHandler(r *repository.RolRepo) *RolHandler { return &RolHandler{Roles: r} }

type rolReq struct {
	Name string `json:"name"`
}

func (h *RolHandler) Create(c echo.Context) error {
	var req rolReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return fieldErrors(c, map[string]string{"name": "This field is required."})
	}
	m := model.Rol{Name: req.Name}
	if err := h.Roles.Create(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, rolResp(m))
}

func (h *RolHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Roles.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, rolResp(*m))
}

func (h *RolHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req rolReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return fieldErrors(c, map[string]string{"name": "This field is required."})
	}
	m := model.Rol{ID: id, Name: req.Name}
	if err := h.Roles.Update(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	got, err := h.Roles.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, rolResp(*got))
}

func (h *RolHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Roles.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RolHandler) List(c echo.Context) error {
	f := repository.RolFilter{
		Name: qStr(c, "name"),
		Created: repository.TimeRange{
			After:  qTime(c, "created_after"),
			Before: qTime(c, "created_before"),
		},
	}
	items, err := h.Roles.List(c.Request().Context(), f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func rolResp(m model.Rol) repository.RolDetail {
	return repository.RolDetail{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}
